package suppression

import (
	"context"

	"github.com/ignite/outreach/internal/domain"
)

// Repository defines the data access contract for the do-not-contact list.
type Repository interface {
	// IsSuppressed returns true if the email is on the active list.
	IsSuppressed(ctx context.Context, email string) (bool, error)

	// Suppress adds or reactivates an entry. Idempotent.
	Suppress(ctx context.Context, s *domain.Suppression) error

	// Remove deactivates an entry. Returns ErrNotFound if it doesn't exist.
	Remove(ctx context.Context, email string) error

	// List returns active entries matching the filter.
	List(ctx context.Context, f ListFilter) ([]domain.Suppression, error)

	// Count returns the number of active entries.
	Count(ctx context.Context) (int, error)
}

// ListFilter controls suppression list queries.
type ListFilter struct {
	Reason domain.SuppressionReason
	Search string
	Limit  int
}
