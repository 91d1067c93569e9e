package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/service/contact"
)

// ContactRepo implements contact.Repository against PostgreSQL.
type ContactRepo struct{ db *sql.DB }

// NewContactRepo creates a Postgres-backed contact repository.
func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{db: db} }

const contactColumns = `
	id, email, company, first_name, last_name, title, phone,
	linkedin_url, website, segment, personalization_hook, notes,
	tags, custom_fields,
	company_size, industry, location, enriched_at,
	status, emails_sent, emails_opened, emails_clicked,
	last_contacted_at, last_opened_at, last_clicked_at, last_replied_at,
	followup_count, next_followup_at,
	consent_source, consent_date, unsubscribed_at,
	created_at, updated_at`

func scanContact(row interface{ Scan(...interface{}) error }) (*domain.Contact, error) {
	c := &domain.Contact{}
	var customFields []byte
	err := row.Scan(
		&c.ID, &c.Email, &c.Company, &c.FirstName, &c.LastName, &c.Title, &c.Phone,
		&c.LinkedInURL, &c.Website, &c.Segment, &c.PersonalizationHook, &c.Notes,
		pq.Array(&c.Tags), &customFields,
		&c.CompanySize, &c.Industry, &c.Location, &c.EnrichedAt,
		&c.Status, &c.EmailsSent, &c.EmailsOpened, &c.EmailsClicked,
		&c.LastContacted, &c.LastOpenedAt, &c.LastClickedAt, &c.LastRepliedAt,
		&c.FollowupCount, &c.NextFollowupAt,
		&c.ConsentSource, &c.ConsentDate, &c.UnsubscribedAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(customFields) > 0 {
		if err := json.Unmarshal(customFields, &c.CustomFields); err != nil {
			return nil, fmt.Errorf("decode custom_fields: %w", err)
		}
	}
	return c, nil
}

func (r *ContactRepo) Get(ctx context.Context, id string) (*domain.Contact, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	c, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, contact.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

func (r *ContactRepo) GetByEmail(ctx context.Context, email string) (*domain.Contact, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE email = $1 AND email <> ''`, email)
	c, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, contact.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact by email: %w", err)
	}
	return c, nil
}

func (r *ContactRepo) List(ctx context.Context, f contact.ListFilter) ([]domain.Contact, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	q := `SELECT ` + contactColumns + ` FROM contacts WHERE 1=1`
	args := []interface{}{}
	idx := 1
	add := func(clause string, val interface{}) {
		q += fmt.Sprintf(clause, idx)
		args = append(args, val)
		idx++
	}

	if f.Status != "" {
		add(" AND status = $%d", f.Status)
	}
	if f.Segment != "" {
		add(" AND segment = $%d", f.Segment)
	}
	if f.HasEmail != nil {
		if *f.HasEmail {
			q += " AND email <> ''"
		} else {
			q += " AND email = ''"
		}
	}
	if f.Enriched != nil {
		if *f.Enriched {
			q += " AND enriched_at IS NOT NULL"
		} else {
			q += " AND enriched_at IS NULL"
		}
	}
	if f.Search != "" {
		q += fmt.Sprintf(" AND (company ILIKE $%d OR email ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d)",
			idx, idx, idx, idx)
		args = append(args, "%"+f.Search+"%")
		idx++
	}

	switch f.SortBy {
	case "company":
		q += " ORDER BY company ASC"
	case "last_contacted_at":
		q += " ORDER BY last_contacted_at DESC NULLS LAST"
	default:
		q += " ORDER BY created_at DESC"
	}
	q += fmt.Sprintf(" LIMIT $%d", idx)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var out []domain.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *ContactRepo) Create(ctx context.Context, c *domain.Contact) (string, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	customFields, err := json.Marshal(c.CustomFields)
	if err != nil {
		return "", fmt.Errorf("encode custom_fields: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO contacts
			(id, email, company, first_name, last_name, title, phone,
			 linkedin_url, website, segment, personalization_hook, notes,
			 tags, custom_fields, status,
			 consent_source, consent_date, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,NOW(),NOW())
	`, c.ID, c.Email, c.Company, c.FirstName, c.LastName, c.Title, c.Phone,
		c.LinkedInURL, c.Website, c.Segment, c.PersonalizationHook, c.Notes,
		pq.Array(c.Tags), customFields, c.Status,
		c.ConsentSource, c.ConsentDate)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return "", contact.ErrDuplicateEmail
		}
		return "", fmt.Errorf("create contact: %w", err)
	}
	return c.ID, nil
}

func (r *ContactRepo) Update(ctx context.Context, c *domain.Contact) error {
	customFields, err := json.Marshal(c.CustomFields)
	if err != nil {
		return fmt.Errorf("encode custom_fields: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE contacts SET
			email = $1, company = $2, first_name = $3, last_name = $4,
			title = $5, phone = $6, linkedin_url = $7, website = $8,
			segment = $9, personalization_hook = $10, notes = $11,
			tags = $12, custom_fields = $13,
			company_size = $14, industry = $15, location = $16, enriched_at = $17,
			status = $18, emails_sent = $19, emails_opened = $20, emails_clicked = $21,
			last_contacted_at = $22, last_opened_at = $23, last_clicked_at = $24,
			last_replied_at = $25, followup_count = $26, next_followup_at = $27,
			consent_source = $28, consent_date = $29, unsubscribed_at = $30,
			updated_at = NOW()
		WHERE id = $31
	`, c.Email, c.Company, c.FirstName, c.LastName,
		c.Title, c.Phone, c.LinkedInURL, c.Website,
		c.Segment, c.PersonalizationHook, c.Notes,
		pq.Array(c.Tags), customFields,
		c.CompanySize, c.Industry, c.Location, c.EnrichedAt,
		c.Status, c.EmailsSent, c.EmailsOpened, c.EmailsClicked,
		c.LastContacted, c.LastOpenedAt, c.LastClickedAt,
		c.LastRepliedAt, c.FollowupCount, c.NextFollowupAt,
		c.ConsentSource, c.ConsentDate, c.UnsubscribedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return contact.ErrNotFound
	}
	return nil
}

func (r *ContactRepo) ListDueFollowups(ctx context.Context, now time.Time, limit int) ([]domain.Contact, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE next_followup_at IS NOT NULL
		  AND next_followup_at <= $1
		  AND status IN ('contacted', 'opened')
		  AND email <> ''
		ORDER BY next_followup_at ASC
		LIMIT $2
	`, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list due followups: %w", err)
	}
	defer rows.Close()

	var out []domain.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}
