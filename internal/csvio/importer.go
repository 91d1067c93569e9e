package csvio

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/pkg/logger"
	"github.com/ignite/outreach/internal/service/contact"
)

// ErrNoMapping means neither a header row nor an email-shaped column could
// be found, so the file cannot be interpreted.
var ErrNoMapping = errors.New("no usable columns found")

// Importer upserts CSV rows into the contact store.
type Importer struct {
	contacts *contact.Service
}

// NewImporter creates a CSV importer.
func NewImporter(contacts *contact.Service) *Importer {
	return &Importer{contacts: contacts}
}

// RowError records why one row was rejected.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportReport summarizes one import run.
type ImportReport struct {
	Rows    int        `json:"rows"`
	Created int        `json:"created"`
	Existed int        `json:"existed"` // matched an existing contact by email
	Skipped int        `json:"skipped"`
	Errors  []RowError `json:"errors,omitempty"`
}

// ImportOptions tweak an import run.
type ImportOptions struct {
	// Segment assigns every imported contact to a segment, overriding any
	// segment column in the file.
	Segment string

	// Tags are attached to every imported contact.
	Tags []string
}

// Import reads CSV rows and upserts a contact per row. Existing contacts
// (matched by email) are left untouched so engagement history survives a
// re-import. Row problems are collected, never fatal.
func (im *Importer) Import(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportReport, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	first, err := cr.Read()
	if err == io.EOF {
		return &ImportReport{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	report := &ImportReport{}
	line := 1

	mapping := MapColumns(first)
	if mapping == nil {
		// No recognizable header. If the first row is data, infer the
		// columns from it and import that row too.
		mapping = MapColumnsHeaderless(first)
		if mapping == nil {
			return nil, ErrNoMapping
		}
		im.importRow(ctx, mapping, first, line, opts, report)
	}

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, RowError{Line: line, Reason: "malformed_row"})
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		im.importRow(ctx, mapping, row, line, opts, report)
	}

	logger.Info("[Import] finished",
		"rows", report.Rows, "created", report.Created,
		"existed", report.Existed, "skipped", report.Skipped)
	return report, nil
}

func (im *Importer) importRow(ctx context.Context, m *Mapping, row []string, line int, opts ImportOptions, report *ImportReport) {
	report.Rows++

	c := contactFromRow(m, row)
	if opts.Segment != "" {
		c.Segment = opts.Segment
	}
	if len(opts.Tags) > 0 {
		c.Tags = append(c.Tags, opts.Tags...)
	}

	if c.Company == "" && c.Email == "" {
		report.Skipped++
		report.Errors = append(report.Errors, RowError{Line: line, Reason: "missing_company_and_email"})
		return
	}
	if c.Company == "" {
		// Fall back to the email domain so the row still imports.
		c.Company = companyFromEmail(c.Email)
	}

	_, created, err := im.contacts.Upsert(ctx, c)
	if err != nil {
		report.Skipped++
		report.Errors = append(report.Errors, RowError{Line: line, Reason: err.Error()})
		return
	}
	if created {
		report.Created++
	} else {
		report.Existed++
	}
}

// contactFromRow builds a contact from a mapped CSV row. A full-name column
// is split into first/last unless dedicated columns are present.
func contactFromRow(m *Mapping, row []string) *domain.Contact {
	c := &domain.Contact{
		Company:     m.Value(row, FieldCompany),
		Email:       m.Value(row, FieldEmail),
		FirstName:   m.Value(row, FieldFirstName),
		LastName:    m.Value(row, FieldLastName),
		Title:       m.Value(row, FieldTitle),
		Phone:       m.Value(row, FieldPhone),
		LinkedInURL: m.Value(row, FieldLinkedIn),
		Website:     m.Value(row, FieldWebsite),
		Segment:     m.Value(row, FieldSegment),
		Industry:    m.Value(row, FieldIndustry),
		Location:    m.Value(row, FieldLocation),
		Notes:       m.Value(row, FieldNotes),
	}
	if c.FirstName == "" && c.LastName == "" {
		if full := m.Value(row, FieldFullName); full != "" {
			parts := strings.Fields(full)
			c.FirstName = parts[0]
			if len(parts) > 1 {
				c.LastName = strings.Join(parts[1:], " ")
			}
		}
	}
	return c
}

func companyFromEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return email
	}
	host := email[at+1:]
	if dot := strings.LastIndexByte(host, '.'); dot > 0 {
		host = host[:dot]
	}
	return host
}
