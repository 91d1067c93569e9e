package domain

import "time"

// ContactStatus enumerates the lifecycle states of a contact.
type ContactStatus string

const (
	ContactNew          ContactStatus = "new"
	ContactEnriched     ContactStatus = "enriched"
	ContactContacted    ContactStatus = "contacted"
	ContactOpened       ContactStatus = "opened"
	ContactClicked      ContactStatus = "clicked"
	ContactReplied      ContactStatus = "replied"
	ContactConverted    ContactStatus = "converted"
	ContactUnsubscribed ContactStatus = "unsubscribed"
	ContactBounced      ContactStatus = "bounced"
)

// AllContactStatuses is the closed set of valid contact statuses.
var AllContactStatuses = []ContactStatus{
	ContactNew, ContactEnriched, ContactContacted, ContactOpened,
	ContactClicked, ContactReplied, ContactConverted,
	ContactUnsubscribed, ContactBounced,
}

// Valid reports whether s is one of the nine known statuses.
func (s ContactStatus) Valid() bool {
	for _, v := range AllContactStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Contact represents a single prospect/lead.
type Contact struct {
	ID    string `json:"id" db:"id"`
	Email string `json:"email" db:"email"` // lowercased, unique when present

	// Profile
	Company             string            `json:"company" db:"company"` // required, non-empty
	FirstName           string            `json:"first_name" db:"first_name"`
	LastName            string            `json:"last_name" db:"last_name"`
	Title               string            `json:"title" db:"title"`
	Phone               string            `json:"phone" db:"phone"`
	LinkedInURL         string            `json:"linkedin_url" db:"linkedin_url"`
	Website             string            `json:"website" db:"website"`
	Segment             string            `json:"segment" db:"segment"`
	PersonalizationHook string            `json:"personalization_hook" db:"personalization_hook"`
	Notes               string            `json:"notes" db:"notes"`
	Tags                []string          `json:"tags" db:"tags"`
	CustomFields        map[string]string `json:"custom_fields" db:"custom_fields"`

	// Enrichment (set only by the enrichment workflow)
	CompanySize string     `json:"company_size" db:"company_size"`
	Industry    string     `json:"industry" db:"industry"`
	Location    string     `json:"location" db:"location"`
	EnrichedAt  *time.Time `json:"enriched_at" db:"enriched_at"`

	Status ContactStatus `json:"status" db:"status"`

	// Engagement counters (monotonically non-decreasing)
	EmailsSent    int        `json:"emails_sent" db:"emails_sent"`
	EmailsOpened  int        `json:"emails_opened" db:"emails_opened"`
	EmailsClicked int        `json:"emails_clicked" db:"emails_clicked"`
	LastContacted *time.Time `json:"last_contacted_at" db:"last_contacted_at"`
	LastOpenedAt  *time.Time `json:"last_opened_at" db:"last_opened_at"`
	LastClickedAt *time.Time `json:"last_clicked_at" db:"last_clicked_at"`
	LastRepliedAt *time.Time `json:"last_replied_at" db:"last_replied_at"`

	// Follow-up state. NextFollowupAt nil means no follow-up scheduled.
	FollowupCount  int        `json:"followup_count" db:"followup_count"`
	NextFollowupAt *time.Time `json:"next_followup_at" db:"next_followup_at"`

	// Consent
	ConsentSource  string     `json:"consent_source" db:"consent_source"`
	ConsentDate    *time.Time `json:"consent_date" db:"consent_date"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at" db:"unsubscribed_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FullName returns the contact's display name, falling back to the company.
func (c *Contact) FullName() string {
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.FirstName != "":
		return c.FirstName
	case c.LastName != "":
		return c.LastName
	default:
		return c.Company
	}
}

// HasEmail reports whether the contact has a usable email address.
func (c *Contact) HasEmail() bool { return c.Email != "" }
