package campaign

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ignite/outreach/internal/domain"
)

// Service implements campaign business logic, most importantly the status
// state machine. All public methods are safe for concurrent use if the
// underlying repository is concurrency-safe.
type Service struct {
	repo Repository
}

// NewService creates a campaign service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns a single campaign.
func (s *Service) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	return s.repo.Get(ctx, id)
}

// List returns campaigns matching the filter.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Campaign, error) {
	return s.repo.List(ctx, f)
}

// CreateInput holds the fields for creating a new campaign.
type CreateInput struct {
	Name         string  `json:"name"`
	TemplateName string  `json:"template_name"`
	Subject      string  `json:"subject"`
	Segment      *string `json:"segment"`
	IsFollowup   bool    `json:"is_followup"`
	FollowupDays int     `json:"followup_days"`
	ParentID     *string `json:"parent_campaign_id"`
}

// Create validates and persists a new campaign in draft status. The subject
// is denormalized from the template at creation time.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Campaign, error) {
	if input.Name == "" {
		return nil, ErrMissingName
	}
	if input.Subject == "" {
		return nil, ErrMissingSubject
	}

	c := &domain.Campaign{
		ID:               uuid.New().String(),
		Name:             input.Name,
		TemplateName:     input.TemplateName,
		Subject:          input.Subject,
		Segment:          input.Segment,
		Status:           domain.CampaignDraft,
		IsFollowup:       input.IsFollowup,
		FollowupDays:     input.FollowupDays,
		ParentCampaignID: input.ParentID,
	}

	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return c, nil
}

// Approve transitions draft -> approved. Any other source state fails with
// ErrInvalidStatus and leaves the campaign unchanged.
func (s *Service) Approve(ctx context.Context, id string) error {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.Status != domain.CampaignDraft {
		return ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, domain.CampaignApproved, StatusStamp{})
}

// Start transitions approved -> sending, recording started_at and the
// recipient count snapshot. Any other source state fails ErrInvalidStatus.
func (s *Service) Start(ctx context.Context, id string, totalRecipients int) error {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.Status != domain.CampaignApproved {
		return ErrInvalidStatus
	}
	now := time.Now().UTC()
	return s.repo.UpdateStatus(ctx, id, domain.CampaignSending, StatusStamp{
		StartedAt:       &now,
		TotalRecipients: &totalRecipients,
	})
}

// Complete marks the campaign sent, recording completed_at, and recomputes
// its aggregate metrics from the email log. Completion is always allowed so
// a crashed mid-send campaign can still be marked done.
func (s *Service) Complete(ctx context.Context, id string) error {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	stamp := StatusStamp{}
	if c.CompletedAt == nil {
		now := time.Now().UTC()
		stamp.CompletedAt = &now
	}
	if err := s.repo.UpdateStatus(ctx, id, domain.CampaignSent, stamp); err != nil {
		return err
	}
	return s.repo.RecomputeMetrics(ctx, id)
}

// Pause transitions sending -> paused. Any other source fails ErrInvalidStatus.
func (s *Service) Pause(ctx context.Context, id string) error {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.Status != domain.CampaignSending {
		return ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, domain.CampaignPaused, StatusStamp{})
}

// QueueEmail creates an email log row in queued status for a pending send.
func (s *Service) QueueEmail(ctx context.Context, l *domain.EmailLog) (*domain.EmailLog, error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	l.Status = domain.EmailQueued
	id, err := s.repo.CreateEmailLog(ctx, l)
	if err != nil {
		return nil, err
	}
	l.ID = id
	return l, nil
}

// MarkEmailSent records a successful provider handoff on the log row.
func (s *Service) MarkEmailSent(ctx context.Context, l *domain.EmailLog, messageID string, at time.Time) error {
	l.Status = domain.EmailSent
	l.MessageID = &messageID
	l.SentAt = &at
	return s.repo.UpdateEmailLog(ctx, l)
}

// MarkEmailFailed records a transport failure on the log row. The row stays
// traceable rather than being silently dropped.
func (s *Service) MarkEmailFailed(ctx context.Context, l *domain.EmailLog, reason string) error {
	l.Status = domain.EmailDropped
	l.ErrorMessage = reason
	return s.repo.UpdateEmailLog(ctx, l)
}

// RecordEvent applies a provider webhook event to the log row carrying the
// given message id.
func (s *Service) RecordEvent(ctx context.Context, messageID string, event domain.EmailEvent, attrs EventAttrs) (*domain.EmailLog, error) {
	l, err := s.repo.GetEmailLogByMessageID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RecordEvent(ctx, l.ID, event, attrs); err != nil {
		return nil, err
	}
	return l, nil
}

// MarkReplied stamps a reply on the contact's most recent sent email and
// returns the id of the campaign it belonged to, nil when the email was an
// ad-hoc or follow-up send. A contact with no sent email is a no-op; the
// reply still lives on the contact record.
func (s *Service) MarkReplied(ctx context.Context, contactID string, at time.Time) (*string, error) {
	logs, err := s.repo.ListEmailLogsForContact(ctx, contactID)
	if err != nil {
		return nil, err
	}
	for i := range logs {
		l := &logs[i]
		if l.SentAt == nil {
			continue
		}
		if err := s.repo.RecordEvent(ctx, l.ID, domain.EventReply, EventAttrs{Timestamp: at}); err != nil {
			return nil, err
		}
		return l.CampaignID, nil
	}
	return nil, nil
}

// ContactHistory returns a contact's email logs, newest first.
func (s *Service) ContactHistory(ctx context.Context, contactID string) ([]domain.EmailLog, error) {
	return s.repo.ListEmailLogsForContact(ctx, contactID)
}

// RecomputeMetrics re-derives a campaign's aggregates from its email logs.
func (s *Service) RecomputeMetrics(ctx context.Context, id string) error {
	return s.repo.RecomputeMetrics(ctx, id)
}

// SentToday counts emails sent since local midnight, for the daily cap check.
func (s *Service) SentToday(ctx context.Context, now time.Time) (int, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.repo.CountSentSince(ctx, midnight)
}
