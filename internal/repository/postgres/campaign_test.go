package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/service/campaign"
)

var campaignCols = []string{
	"id", "name", "template_name", "subject", "segment", "status",
	"total_recipients", "emails_sent", "emails_delivered", "emails_opened",
	"emails_clicked", "emails_bounced", "emails_unsubscribed", "replies_received",
	"scheduled_at", "started_at", "completed_at",
	"is_followup", "followup_days", "parent_campaign_id",
	"created_at", "updated_at",
}

func addCampaignRow(rows *sqlmock.Rows, id, name string, status domain.CampaignStatus) {
	now := time.Now()
	rows.AddRow(
		id, name, "welcome", "Quick question", nil, status,
		0, 0, 0, 0,
		0, 0, 0, 0,
		nil, nil, nil,
		false, 0, nil,
		now, now,
	)
}

func TestCampaignRepo_Get(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	rows := sqlmock.NewRows(campaignCols)
	addCampaignRow(rows, "cmp-1", "Launch", domain.CampaignDraft)
	mock.ExpectQuery("SELECT").WithArgs("cmp-1").WillReturnRows(rows)

	repo := NewCampaignRepo(db)
	c, err := repo.Get(context.Background(), "cmp-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c.Name != "Launch" || c.Status != domain.CampaignDraft {
		t.Errorf("unexpected campaign: %+v", c)
	}
}

func TestCampaignRepo_GetNotFound(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT").WillReturnError(sql.ErrNoRows)

	repo := NewCampaignRepo(db)
	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, campaign.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCampaignRepo_UpdateStatusStamps(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now().UTC()
	total := 25
	mock.ExpectExec("UPDATE campaigns").
		WithArgs(domain.CampaignSending, now, total, "cmp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewCampaignRepo(db)
	err := repo.UpdateStatus(context.Background(), "cmp-1", domain.CampaignSending, campaign.StatusStamp{
		StartedAt:       &now,
		TotalRecipients: &total,
	})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCampaignRepo_RecomputeMetrics(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectExec("UPDATE campaigns").
		WithArgs("cmp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewCampaignRepo(db)
	if err := repo.RecomputeMetrics(context.Background(), "cmp-1"); err != nil {
		t.Fatalf("recompute: %v", err)
	}
}

func TestCampaignRepo_RecordOpenEvent(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	ts := time.Now()
	mock.ExpectExec("UPDATE email_logs").
		WithArgs(ts, "log-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewCampaignRepo(db)
	err := repo.RecordEvent(context.Background(), "log-1", domain.EventOpen, campaign.EventAttrs{Timestamp: ts})
	if err != nil {
		t.Fatalf("record open: %v", err)
	}
}

func TestCampaignRepo_RecordClickEventCapturesURL(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	ts := time.Now()
	mock.ExpectExec("UPDATE email_logs").
		WithArgs(ts, "log-1", "https://example.com/pricing").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewCampaignRepo(db)
	err := repo.RecordEvent(context.Background(), "log-1", domain.EventClick, campaign.EventAttrs{
		Timestamp: ts,
		URL:       "https://example.com/pricing",
	})
	if err != nil {
		t.Fatalf("record click: %v", err)
	}
}

func TestCampaignRepo_RecordUnsubscribeStampsLog(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	ts := time.Now()
	mock.ExpectExec("UPDATE email_logs SET\\s+unsubscribed_at").
		WithArgs(ts, "log-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewCampaignRepo(db)
	err := repo.RecordEvent(context.Background(), "log-1", domain.EventUnsubscribe, campaign.EventAttrs{Timestamp: ts})
	if err != nil {
		t.Fatalf("record unsubscribe: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCampaignRepo_RecordReplyStampsLog(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	ts := time.Now()
	mock.ExpectExec("UPDATE email_logs SET\\s+replied_at").
		WithArgs(ts, "log-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewCampaignRepo(db)
	err := repo.RecordEvent(context.Background(), "log-1", domain.EventReply, campaign.EventAttrs{Timestamp: ts})
	if err != nil {
		t.Fatalf("record reply: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCampaignRepo_RecordEventLogMissing(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectExec("UPDATE email_logs").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewCampaignRepo(db)
	err := repo.RecordEvent(context.Background(), "gone", domain.EventOpen, campaign.EventAttrs{Timestamp: time.Now()})
	if !errors.Is(err, campaign.ErrLogNotFound) {
		t.Fatalf("expected ErrLogNotFound, got %v", err)
	}
}

func TestCampaignRepo_GetEmailLogByMessageID(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "contact_id", "campaign_id", "to_email", "subject", "template_name",
		"message_id", "status",
		"sent_at", "delivered_at", "opened_at", "clicked_at", "bounced_at",
		"unsubscribed_at", "replied_at",
		"open_count", "click_count", "clicked_links",
		"error_message", "bounce_type",
		"is_followup", "followup_number",
		"created_at", "updated_at",
	}).AddRow(
		"log-1", "c-1", nil, "a@acme.com", "Hi", "welcome",
		"msg-123", domain.EmailSent,
		now, nil, nil, nil, nil,
		nil, nil,
		0, 0, pq.StringArray{},
		"", "",
		false, 0,
		now, now,
	)
	mock.ExpectQuery("SELECT").WithArgs("msg-123").WillReturnRows(rows)

	repo := NewCampaignRepo(db)
	l, err := repo.GetEmailLogByMessageID(context.Background(), "msg-123")
	if err != nil {
		t.Fatalf("get by message id: %v", err)
	}
	if l.MessageID == nil || *l.MessageID != "msg-123" {
		t.Errorf("unexpected log: %+v", l)
	}
}

func TestCampaignRepo_CountSentSince(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	repo := NewCampaignRepo(db)
	n, err := repo.CountSentSince(context.Background(), time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("count sent since: %v", err)
	}
	if n != 42 {
		t.Fatalf("expected 42, got %d", n)
	}
}
