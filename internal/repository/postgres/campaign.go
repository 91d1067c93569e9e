package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/service/campaign"
)

// CampaignRepo implements campaign.Repository against PostgreSQL. Email log
// methods live in emaillog.go.
type CampaignRepo struct{ db *sql.DB }

// NewCampaignRepo creates a Postgres-backed campaign repository.
func NewCampaignRepo(db *sql.DB) *CampaignRepo { return &CampaignRepo{db: db} }

const campaignColumns = `
	id, name, template_name, subject, segment, status,
	total_recipients, emails_sent, emails_delivered, emails_opened,
	emails_clicked, emails_bounced, emails_unsubscribed, replies_received,
	scheduled_at, started_at, completed_at,
	is_followup, followup_days, parent_campaign_id,
	created_at, updated_at`

func scanCampaign(row interface{ Scan(...interface{}) error }) (*domain.Campaign, error) {
	c := &domain.Campaign{}
	err := row.Scan(
		&c.ID, &c.Name, &c.TemplateName, &c.Subject, &c.Segment, &c.Status,
		&c.TotalRecipients, &c.EmailsSent, &c.EmailsDelivered, &c.EmailsOpened,
		&c.EmailsClicked, &c.EmailsBounced, &c.EmailsUnsubscribed, &c.RepliesReceived,
		&c.ScheduledAt, &c.StartedAt, &c.CompletedAt,
		&c.IsFollowup, &c.FollowupDays, &c.ParentCampaignID,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepo) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
	c, err := scanCampaign(row)
	if err == sql.ErrNoRows {
		return nil, campaign.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return c, nil
}

func (r *CampaignRepo) List(ctx context.Context, f campaign.ListFilter) ([]domain.Campaign, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	q := `SELECT ` + campaignColumns + ` FROM campaigns WHERE 1=1`
	args := []interface{}{}
	idx := 1
	if f.Status != "" {
		q += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}
	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", idx)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var out []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *CampaignRepo) Create(ctx context.Context, c *domain.Campaign) (string, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO campaigns
			(id, name, template_name, subject, segment, status,
			 scheduled_at, is_followup, followup_days, parent_campaign_id,
			 created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW())
	`, c.ID, c.Name, c.TemplateName, c.Subject, c.Segment, c.Status,
		c.ScheduledAt, c.IsFollowup, c.FollowupDays, c.ParentCampaignID)
	if err != nil {
		return "", fmt.Errorf("create campaign: %w", err)
	}
	return c.ID, nil
}

func (r *CampaignRepo) UpdateStatus(ctx context.Context, id string, status domain.CampaignStatus, u campaign.StatusStamp) error {
	sets := "status = $1, updated_at = NOW()"
	args := []interface{}{status}
	idx := 2
	if u.StartedAt != nil {
		sets += fmt.Sprintf(", started_at = $%d", idx)
		args = append(args, *u.StartedAt)
		idx++
	}
	if u.CompletedAt != nil {
		sets += fmt.Sprintf(", completed_at = $%d", idx)
		args = append(args, *u.CompletedAt)
		idx++
	}
	if u.TotalRecipients != nil {
		sets += fmt.Sprintf(", total_recipients = $%d", idx)
		args = append(args, *u.TotalRecipients)
		idx++
	}
	q := fmt.Sprintf("UPDATE campaigns SET %s WHERE id = $%d", sets, idx)
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update campaign status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return campaign.ErrNotFound
	}
	return nil
}

// RecomputeMetrics re-derives the campaign's aggregate counters from its
// email_logs rows in a single statement.
func (r *CampaignRepo) RecomputeMetrics(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE campaigns c SET
			emails_sent = agg.sent,
			emails_delivered = agg.delivered,
			emails_opened = agg.opened,
			emails_clicked = agg.clicked,
			emails_bounced = agg.bounced,
			emails_unsubscribed = agg.unsubscribed,
			replies_received = agg.replies,
			updated_at = NOW()
		FROM (
			SELECT
				COUNT(*) FILTER (WHERE sent_at IS NOT NULL) AS sent,
				COUNT(*) FILTER (WHERE delivered_at IS NOT NULL) AS delivered,
				COUNT(*) FILTER (WHERE opened_at IS NOT NULL) AS opened,
				COUNT(*) FILTER (WHERE clicked_at IS NOT NULL) AS clicked,
				COUNT(*) FILTER (WHERE bounced_at IS NOT NULL) AS bounced,
				COUNT(*) FILTER (WHERE unsubscribed_at IS NOT NULL) AS unsubscribed,
				COUNT(*) FILTER (WHERE replied_at IS NOT NULL) AS replies
			FROM email_logs WHERE campaign_id = $1
		) agg
		WHERE c.id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("recompute campaign metrics: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return campaign.ErrNotFound
	}
	return nil
}
