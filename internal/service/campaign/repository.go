package campaign

import (
	"context"
	"time"

	"github.com/ignite/outreach/internal/domain"
)

// Repository defines the data access contract for campaigns and email logs.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns a single campaign. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.Campaign, error)

	// List returns campaigns matching the given filter, newest first.
	List(ctx context.Context, f ListFilter) ([]domain.Campaign, error)

	// Create inserts a new campaign and returns its ID.
	Create(ctx context.Context, c *domain.Campaign) (string, error)

	// UpdateStatus transitions a campaign's status and stamps the optional
	// timestamps. It does not validate the transition; the service does.
	UpdateStatus(ctx context.Context, id string, status domain.CampaignStatus, u StatusStamp) error

	// RecomputeMetrics re-derives the campaign's aggregate counters from
	// its EmailLog rows.
	RecomputeMetrics(ctx context.Context, id string) error

	// CreateEmailLog inserts a new email log row and returns its ID.
	CreateEmailLog(ctx context.Context, l *domain.EmailLog) (string, error)

	// UpdateEmailLog persists the log's mutable fields (status, message id,
	// timestamps, error fields).
	UpdateEmailLog(ctx context.Context, l *domain.EmailLog) error

	// GetEmailLogByMessageID resolves a provider message id to its log row.
	// Returns ErrLogNotFound when no send carries that id.
	GetEmailLogByMessageID(ctx context.Context, messageID string) (*domain.EmailLog, error)

	// ListEmailLogsForCampaign returns all log rows for a campaign.
	ListEmailLogsForCampaign(ctx context.Context, campaignID string) ([]domain.EmailLog, error)

	// ListEmailLogsForContact returns all log rows for a contact, newest first.
	ListEmailLogsForContact(ctx context.Context, contactID string) ([]domain.EmailLog, error)

	// RecordEvent applies a provider event to a log row: status update,
	// set-once timestamp, counter increment, clicked link capture.
	RecordEvent(ctx context.Context, logID string, event domain.EmailEvent, attrs EventAttrs) error

	// CountSentSince counts email log rows sent at or after the given time.
	// Used for the soft daily send cap.
	CountSentSince(ctx context.Context, since time.Time) (int, error)
}

// ListFilter controls campaign list queries.
type ListFilter struct {
	Status domain.CampaignStatus
	Limit  int
}

// StatusStamp carries the timestamps a status transition may set.
// Nil fields are left untouched.
type StatusStamp struct {
	StartedAt       *time.Time
	CompletedAt     *time.Time
	TotalRecipients *int
}

// EventAttrs carries the optional attributes of a provider event.
type EventAttrs struct {
	Timestamp    time.Time
	URL          string // click events
	BounceType   string // bounce events
	ErrorMessage string // bounce/dropped events
}
