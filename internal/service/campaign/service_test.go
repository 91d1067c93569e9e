package campaign_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/service/campaign"
)

// memRepo is an in-memory campaign repository for unit testing.
type memRepo struct {
	mu        sync.Mutex
	campaigns map[string]*domain.Campaign
	logs      map[string]*domain.EmailLog
	recompute int
}

func newMemRepo() *memRepo {
	return &memRepo{
		campaigns: make(map[string]*domain.Campaign),
		logs:      make(map[string]*domain.EmailLog),
	}
}

func (m *memRepo) Get(_ context.Context, id string) (*domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, campaign.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) List(_ context.Context, f campaign.ListFilter) ([]domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Campaign
	for _, c := range m.campaigns {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (m *memRepo) Create(_ context.Context, c *domain.Campaign) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		return "", fmt.Errorf("id required")
	}
	cp := *c
	m.campaigns[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memRepo) UpdateStatus(_ context.Context, id string, status domain.CampaignStatus, u campaign.StatusStamp) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[id]
	if !ok {
		return campaign.ErrNotFound
	}
	c.Status = status
	if u.StartedAt != nil {
		c.StartedAt = u.StartedAt
	}
	if u.CompletedAt != nil {
		c.CompletedAt = u.CompletedAt
	}
	if u.TotalRecipients != nil {
		c.TotalRecipients = *u.TotalRecipients
	}
	return nil
}

func (m *memRepo) RecomputeMetrics(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.campaigns[id]; !ok {
		return campaign.ErrNotFound
	}
	m.recompute++
	return nil
}

func (m *memRepo) CreateEmailLog(_ context.Context, l *domain.EmailLog) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *l
	m.logs[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memRepo) UpdateEmailLog(_ context.Context, l *domain.EmailLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.logs[l.ID]; !ok {
		return campaign.ErrLogNotFound
	}
	cp := *l
	m.logs[cp.ID] = &cp
	return nil
}

func (m *memRepo) GetEmailLogByMessageID(_ context.Context, messageID string) (*domain.EmailLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.logs {
		if l.MessageID != nil && *l.MessageID == messageID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, campaign.ErrLogNotFound
}

func (m *memRepo) ListEmailLogsForCampaign(_ context.Context, campaignID string) ([]domain.EmailLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.EmailLog
	for _, l := range m.logs {
		if l.CampaignID != nil && *l.CampaignID == campaignID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *memRepo) ListEmailLogsForContact(_ context.Context, contactID string) ([]domain.EmailLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.EmailLog
	for _, l := range m.logs {
		if l.ContactID == contactID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *memRepo) RecordEvent(_ context.Context, logID string, event domain.EmailEvent, attrs campaign.EventAttrs) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.logs[logID]
	if !ok {
		return campaign.ErrLogNotFound
	}
	switch event {
	case domain.EventOpen:
		l.OpenCount++
		if l.OpenedAt == nil {
			t := attrs.Timestamp
			l.OpenedAt = &t
		}
		l.Status = domain.EmailOpened
	case domain.EventBounce:
		l.Status = domain.EmailBounced
		l.BounceType = attrs.BounceType
	case domain.EventReply:
		if l.RepliedAt == nil {
			t := attrs.Timestamp
			l.RepliedAt = &t
		}
	}
	return nil
}

func (m *memRepo) CountSentSince(_ context.Context, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.logs {
		if l.SentAt != nil && !l.SentAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func create(t *testing.T, svc *campaign.Service) *domain.Campaign {
	t.Helper()
	c, err := svc.Create(context.Background(), campaign.CreateInput{
		Name: "Launch", TemplateName: "welcome", Subject: "Quick question",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return c
}

func TestCreateStartsInDraft(t *testing.T) {
	svc := campaign.NewService(newMemRepo())
	c := create(t, svc)
	if c.Status != domain.CampaignDraft {
		t.Fatalf("expected draft, got %s", c.Status)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := campaign.NewService(newMemRepo())
	if _, err := svc.Create(context.Background(), campaign.CreateInput{Subject: "s"}); !errors.Is(err, campaign.ErrMissingName) {
		t.Fatalf("expected ErrMissingName, got %v", err)
	}
	if _, err := svc.Create(context.Background(), campaign.CreateInput{Name: "n"}); !errors.Is(err, campaign.ErrMissingSubject) {
		t.Fatalf("expected ErrMissingSubject, got %v", err)
	}
}

func TestApproveOnlyFromDraft(t *testing.T) {
	repo := newMemRepo()
	svc := campaign.NewService(repo)
	c := create(t, svc)

	if err := svc.Approve(context.Background(), c.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// Second approve: campaign is no longer draft.
	err := svc.Approve(context.Background(), c.ID)
	if !errors.Is(err, campaign.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	got, _ := svc.Get(context.Background(), c.ID)
	if got.Status != domain.CampaignApproved {
		t.Fatalf("failed transition must not mutate status, got %s", got.Status)
	}
}

func TestStartOnlyFromApproved(t *testing.T) {
	repo := newMemRepo()
	svc := campaign.NewService(repo)
	c := create(t, svc)

	if err := svc.Start(context.Background(), c.ID, 10); !errors.Is(err, campaign.ErrInvalidStatus) {
		t.Fatalf("start from draft: expected ErrInvalidStatus, got %v", err)
	}

	svc.Approve(context.Background(), c.ID)
	if err := svc.Start(context.Background(), c.ID, 10); err != nil {
		t.Fatalf("start: %v", err)
	}

	got, _ := svc.Get(context.Background(), c.ID)
	if got.Status != domain.CampaignSending {
		t.Fatalf("expected sending, got %s", got.Status)
	}
	if got.StartedAt == nil {
		t.Fatal("started_at not stamped")
	}
	if got.TotalRecipients != 10 {
		t.Fatalf("expected recipient snapshot 10, got %d", got.TotalRecipients)
	}
}

func TestCompleteIsIdempotentAndRecomputes(t *testing.T) {
	repo := newMemRepo()
	svc := campaign.NewService(repo)
	c := create(t, svc)

	if err := svc.Complete(context.Background(), c.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	got, _ := svc.Get(context.Background(), c.ID)
	first := got.CompletedAt
	if first == nil {
		t.Fatal("completed_at not stamped")
	}

	if err := svc.Complete(context.Background(), c.ID); err != nil {
		t.Fatalf("second complete: %v", err)
	}
	got, _ = svc.Get(context.Background(), c.ID)
	if !got.CompletedAt.Equal(*first) {
		t.Fatal("completed_at must be set exactly once")
	}
	if repo.recompute != 2 {
		t.Fatalf("expected metrics recompute per completion, got %d", repo.recompute)
	}
}

func TestPauseOnlyFromSending(t *testing.T) {
	repo := newMemRepo()
	svc := campaign.NewService(repo)
	c := create(t, svc)

	if err := svc.Pause(context.Background(), c.ID); !errors.Is(err, campaign.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	svc.Approve(context.Background(), c.ID)
	svc.Start(context.Background(), c.ID, 1)
	if err := svc.Pause(context.Background(), c.ID); err != nil {
		t.Fatalf("pause: %v", err)
	}
}

func TestQueueAndMarkSent(t *testing.T) {
	repo := newMemRepo()
	svc := campaign.NewService(repo)

	l, err := svc.QueueEmail(context.Background(), &domain.EmailLog{
		ContactID: "c-1", ToEmail: "a@acme.com", Subject: "Hi", TemplateName: "welcome",
	})
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	if l.Status != domain.EmailQueued {
		t.Fatalf("expected queued, got %s", l.Status)
	}

	now := time.Now()
	if err := svc.MarkEmailSent(context.Background(), l, "msg-123", now); err != nil {
		t.Fatalf("mark sent: %v", err)
	}

	got, err := repo.GetEmailLogByMessageID(context.Background(), "msg-123")
	if err != nil {
		t.Fatalf("lookup by message id: %v", err)
	}
	if got.Status != domain.EmailSent || got.SentAt == nil {
		t.Fatalf("log not marked sent: %+v", got)
	}

	n, _ := svc.SentToday(context.Background(), now)
	if n != 1 {
		t.Fatalf("expected 1 sent today, got %d", n)
	}
}

func TestMarkRepliedStampsSentEmail(t *testing.T) {
	repo := newMemRepo()
	svc := campaign.NewService(repo)
	ctx := context.Background()

	// One email never left the queue; the reply must land on the sent one.
	if _, err := svc.QueueEmail(ctx, &domain.EmailLog{
		ID: "log-queued", ContactID: "c-1", ToEmail: "a@acme.com",
	}); err != nil {
		t.Fatalf("queue: %v", err)
	}
	cmpID := "cmp-1"
	sent, err := svc.QueueEmail(ctx, &domain.EmailLog{
		ID: "log-sent", ContactID: "c-1", ToEmail: "a@acme.com", CampaignID: &cmpID,
	})
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	sentAt := time.Now().Add(-time.Hour)
	if err := svc.MarkEmailSent(ctx, sent, "msg-9", sentAt); err != nil {
		t.Fatalf("mark sent: %v", err)
	}

	repliedAt := time.Now()
	gotCmp, err := svc.MarkReplied(ctx, "c-1", repliedAt)
	if err != nil {
		t.Fatalf("mark replied: %v", err)
	}
	if gotCmp == nil || *gotCmp != cmpID {
		t.Fatalf("campaign id = %v, want %s", gotCmp, cmpID)
	}

	log, _ := repo.GetEmailLogByMessageID(ctx, "msg-9")
	if log.RepliedAt == nil || !log.RepliedAt.Equal(repliedAt) {
		t.Fatalf("replied_at not stamped: %+v", log)
	}
	if repo.logs["log-queued"].RepliedAt != nil {
		t.Error("reply stamped on a queued email")
	}
}

func TestMarkRepliedNoSentEmail(t *testing.T) {
	svc := campaign.NewService(newMemRepo())

	gotCmp, err := svc.MarkReplied(context.Background(), "c-none", time.Now())
	if err != nil {
		t.Fatalf("mark replied: %v", err)
	}
	if gotCmp != nil {
		t.Fatalf("expected no campaign attribution, got %v", gotCmp)
	}
}
