package domain

import "time"

// SuppressionReason explains why an address is on the do-not-contact list.
type SuppressionReason string

const (
	SuppressUnsubscribe SuppressionReason = "unsubscribe"
	SuppressHardBounce  SuppressionReason = "hard_bounce"
	SuppressComplaint   SuppressionReason = "complaint"
	SuppressManual      SuppressionReason = "manual"
)

// Suppression is a do-not-contact entry keyed by email address. Unlike the
// contact status, it survives re-import: a contact deleted and created again
// under the same address stays blocked.
type Suppression struct {
	ID        string            `json:"id" db:"id"`
	Email     string            `json:"email" db:"email"` // lowercased, unique
	Reason    SuppressionReason `json:"reason" db:"reason"`
	Source    string            `json:"source" db:"source"` // webhook, cli, import
	Active    bool              `json:"active" db:"active"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`
}
