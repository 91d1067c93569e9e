package csvio

import (
	"regexp"
	"strings"
)

// Field is a canonical contact column name.
type Field string

const (
	FieldCompany   Field = "company"
	FieldEmail     Field = "email"
	FieldFirstName Field = "first_name"
	FieldLastName  Field = "last_name"
	FieldFullName  Field = "full_name"
	FieldTitle     Field = "title"
	FieldPhone     Field = "phone"
	FieldLinkedIn  Field = "linkedin_url"
	FieldWebsite   Field = "website"
	FieldSegment   Field = "segment"
	FieldIndustry  Field = "industry"
	FieldLocation  Field = "location"
	FieldNotes     Field = "notes"
	FieldStatus    Field = "status"
)

// columnAliases maps normalized header names to canonical fields. When
// multiple raw headers mean the same thing they all map here.
var columnAliases = map[string]Field{
	// Company
	"company":      FieldCompany,
	"company_name": FieldCompany,
	"organization": FieldCompany,
	"organisation": FieldCompany,
	"account":      FieldCompany,
	"employer":     FieldCompany,

	// Email
	"email":         FieldEmail,
	"email_address": FieldEmail,
	"emailaddress":  FieldEmail,
	"e-mail":        FieldEmail,
	"mail":          FieldEmail,
	"work_email":    FieldEmail,

	// First name
	"first_name": FieldFirstName,
	"firstname":  FieldFirstName,
	"fname":      FieldFirstName,
	"first":      FieldFirstName,

	// Last name
	"last_name": FieldLastName,
	"lastname":  FieldLastName,
	"lname":     FieldLastName,
	"last":      FieldLastName,
	"surname":   FieldLastName,

	// Full name (split on import)
	"name":      FieldFullName,
	"full_name": FieldFullName,
	"fullname":  FieldFullName,
	"contact":   FieldFullName,

	// Title
	"title":     FieldTitle,
	"job_title": FieldTitle,
	"jobtitle":  FieldTitle,
	"position":  FieldTitle,
	"role":      FieldTitle,

	// Phone
	"phone":        FieldPhone,
	"phone_number": FieldPhone,
	"mobile":       FieldPhone,
	"tel":          FieldPhone,

	// LinkedIn
	"linkedin":     FieldLinkedIn,
	"linkedin_url": FieldLinkedIn,
	"linkedinurl":  FieldLinkedIn,
	"li_url":       FieldLinkedIn,

	// Website
	"website":     FieldWebsite,
	"site":        FieldWebsite,
	"url":         FieldWebsite,
	"domain":      FieldWebsite,
	"company_url": FieldWebsite,

	// Segment
	"segment":  FieldSegment,
	"list":     FieldSegment,
	"audience": FieldSegment,
	"vertical": FieldSegment,

	// Enrichment-shaped columns some exports carry
	"industry": FieldIndustry,
	"location": FieldLocation,
	"city":     FieldLocation,

	"notes":  FieldNotes,
	"status": FieldStatus,
}

// Mapping resolves CSV column indices to canonical fields.
type Mapping struct {
	fields map[Field]int
}

// Has reports whether the mapping carries the field.
func (m *Mapping) Has(f Field) bool {
	_, ok := m.fields[f]
	return ok
}

// Value extracts the field from a row, empty when unmapped or out of range.
func (m *Mapping) Value(row []string, f Field) string {
	idx, ok := m.fields[f]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// normalizeHeader lowercases a header cell and strips a UTF-8 BOM, quotes,
// and surrounding space.
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\uFEFF")
	h = strings.Trim(h, `"' `)
	return strings.ToLower(strings.TrimSpace(h))
}

// MapColumns resolves a header row. Returns nil when the row contains no
// recognizable header, which signals a headerless file.
func MapColumns(header []string) *Mapping {
	fields := make(map[Field]int)
	for i, h := range header {
		f, ok := columnAliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, taken := fields[f]; !taken {
			fields[f] = i
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &Mapping{fields: fields}
}

var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// MapColumnsHeaderless infers a mapping from a data row: the first
// email-shaped cell is the email column and the first other non-empty cell
// is the company. Returns nil when no cell looks like an email.
func MapColumnsHeaderless(row []string) *Mapping {
	fields := make(map[Field]int)
	for i, cell := range row {
		if emailShape.MatchString(strings.TrimSpace(cell)) {
			fields[FieldEmail] = i
			break
		}
	}
	if _, ok := fields[FieldEmail]; !ok {
		return nil
	}
	for i, cell := range row {
		if i == fields[FieldEmail] || strings.TrimSpace(cell) == "" {
			continue
		}
		fields[FieldCompany] = i
		break
	}
	return &Mapping{fields: fields}
}
