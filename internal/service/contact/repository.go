package contact

import (
	"context"
	"time"

	"github.com/ignite/outreach/internal/domain"
)

// Repository defines the data access contract for contacts.
// Implementations must be safe for concurrent use.
type Repository interface {
	// List returns contacts matching the given filter.
	List(ctx context.Context, f ListFilter) ([]domain.Contact, error)

	// Get returns a single contact. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.Contact, error)

	// GetByEmail looks a contact up by its lowercased email address.
	GetByEmail(ctx context.Context, email string) (*domain.Contact, error)

	// Create inserts a new contact and returns its ID.
	Create(ctx context.Context, c *domain.Contact) (string, error)

	// Update persists the contact's mutable fields.
	Update(ctx context.Context, c *domain.Contact) error

	// ListDueFollowups returns contacts whose next_followup_at is set and
	// not after now, limited to statuses still in the follow-up cadence
	// (contacted/opened) with no recorded reply.
	ListDueFollowups(ctx context.Context, now time.Time, limit int) ([]domain.Contact, error)
}

// ListFilter controls contact list queries. Nil pointer fields mean
// "don't filter on this".
type ListFilter struct {
	Status   domain.ContactStatus
	Segment  string
	HasEmail *bool
	Enriched *bool
	Search   string // matched against company, email, first/last name
	Limit    int
	SortBy   string // created_at (default), company, last_contacted_at
}
