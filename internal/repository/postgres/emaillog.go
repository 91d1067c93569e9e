package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/service/campaign"
)

const emailLogColumns = `
	id, contact_id, campaign_id, to_email, subject, template_name,
	message_id, status,
	sent_at, delivered_at, opened_at, clicked_at, bounced_at,
	unsubscribed_at, replied_at,
	open_count, click_count, clicked_links,
	error_message, bounce_type,
	is_followup, followup_number,
	created_at, updated_at`

func scanEmailLog(row interface{ Scan(...interface{}) error }) (*domain.EmailLog, error) {
	l := &domain.EmailLog{}
	err := row.Scan(
		&l.ID, &l.ContactID, &l.CampaignID, &l.ToEmail, &l.Subject, &l.TemplateName,
		&l.MessageID, &l.Status,
		&l.SentAt, &l.DeliveredAt, &l.OpenedAt, &l.ClickedAt, &l.BouncedAt,
		&l.UnsubscribedAt, &l.RepliedAt,
		&l.OpenCount, &l.ClickCount, pq.Array(&l.ClickedLinks),
		&l.ErrorMessage, &l.BounceType,
		&l.IsFollowup, &l.FollowupNumber,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *CampaignRepo) CreateEmailLog(ctx context.Context, l *domain.EmailLog) (string, error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO email_logs
			(id, contact_id, campaign_id, to_email, subject, template_name,
			 message_id, status, is_followup, followup_number,
			 created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),NOW())
	`, l.ID, l.ContactID, l.CampaignID, l.ToEmail, l.Subject, l.TemplateName,
		l.MessageID, l.Status, l.IsFollowup, l.FollowupNumber)
	if err != nil {
		return "", fmt.Errorf("create email log: %w", err)
	}
	return l.ID, nil
}

func (r *CampaignRepo) UpdateEmailLog(ctx context.Context, l *domain.EmailLog) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE email_logs SET
			message_id = $1, status = $2, sent_at = $3,
			error_message = $4, updated_at = NOW()
		WHERE id = $5
	`, l.MessageID, l.Status, l.SentAt, l.ErrorMessage, l.ID)
	if err != nil {
		return fmt.Errorf("update email log: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return campaign.ErrLogNotFound
	}
	return nil
}

func (r *CampaignRepo) GetEmailLogByMessageID(ctx context.Context, messageID string) (*domain.EmailLog, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+emailLogColumns+` FROM email_logs WHERE message_id = $1`, messageID)
	l, err := scanEmailLog(row)
	if err == sql.ErrNoRows {
		return nil, campaign.ErrLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get email log by message id: %w", err)
	}
	return l, nil
}

func (r *CampaignRepo) ListEmailLogsForCampaign(ctx context.Context, campaignID string) ([]domain.EmailLog, error) {
	return r.listEmailLogs(ctx,
		`SELECT `+emailLogColumns+` FROM email_logs WHERE campaign_id = $1 ORDER BY created_at ASC`,
		campaignID)
}

func (r *CampaignRepo) ListEmailLogsForContact(ctx context.Context, contactID string) ([]domain.EmailLog, error) {
	return r.listEmailLogs(ctx,
		`SELECT `+emailLogColumns+` FROM email_logs WHERE contact_id = $1 ORDER BY created_at DESC`,
		contactID)
}

func (r *CampaignRepo) listEmailLogs(ctx context.Context, q string, arg interface{}) ([]domain.EmailLog, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, fmt.Errorf("list email logs: %w", err)
	}
	defer rows.Close()

	var out []domain.EmailLog
	for rows.Next() {
		l, err := scanEmailLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan email log: %w", err)
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// RecordEvent applies a provider event to a log row. Event timestamps are
// set-once (COALESCE keeps the first value); counters always increment.
func (r *CampaignRepo) RecordEvent(ctx context.Context, logID string, event domain.EmailEvent, attrs campaign.EventAttrs) error {
	var q string
	args := []interface{}{attrs.Timestamp, logID}

	switch event {
	case domain.EventDelivered:
		q = `UPDATE email_logs SET status = 'delivered',
			delivered_at = COALESCE(delivered_at, $1), updated_at = NOW()
			WHERE id = $2`
	case domain.EventOpen:
		q = `UPDATE email_logs SET status = 'opened',
			opened_at = COALESCE(opened_at, $1), open_count = open_count + 1,
			updated_at = NOW()
			WHERE id = $2`
	case domain.EventClick:
		q = `UPDATE email_logs SET status = 'clicked',
			clicked_at = COALESCE(clicked_at, $1), click_count = click_count + 1,
			clicked_links = array_prepend($3, clicked_links), updated_at = NOW()
			WHERE id = $2`
		args = append(args, attrs.URL)
	case domain.EventBounce:
		q = `UPDATE email_logs SET status = 'bounced',
			bounced_at = COALESCE(bounced_at, $1), bounce_type = $3,
			error_message = $4, updated_at = NOW()
			WHERE id = $2`
		args = append(args, attrs.BounceType, attrs.ErrorMessage)
	case domain.EventDropped:
		q = `UPDATE email_logs SET status = 'dropped',
			error_message = $3, updated_at = NOW()
			WHERE id = $2`
		args = append(args, attrs.ErrorMessage)
	case domain.EventDeferred:
		q = `UPDATE email_logs SET status = 'deferred', updated_at = NOW()
			WHERE id = $1`
		args = []interface{}{logID}
	case domain.EventUnsubscribe, domain.EventSpamReport:
		q = `UPDATE email_logs SET
			unsubscribed_at = COALESCE(unsubscribed_at, $1), updated_at = NOW()
			WHERE id = $2`
	case domain.EventReply:
		q = `UPDATE email_logs SET
			replied_at = COALESCE(replied_at, $1), updated_at = NOW()
			WHERE id = $2`
	default:
		return nil
	}

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("record event %s: %w", event, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return campaign.ErrLogNotFound
	}
	return nil
}

func (r *CampaignRepo) CountSentSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM email_logs WHERE sent_at IS NOT NULL AND sent_at >= $1`,
		since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sent since: %w", err)
	}
	return n, nil
}
