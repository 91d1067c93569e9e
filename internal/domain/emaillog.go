package domain

import "time"

// EmailLogStatus enumerates the delivery lifecycle of a single email.
type EmailLogStatus string

const (
	EmailQueued    EmailLogStatus = "queued"
	EmailSent      EmailLogStatus = "sent"
	EmailDelivered EmailLogStatus = "delivered"
	EmailOpened    EmailLogStatus = "opened"
	EmailClicked   EmailLogStatus = "clicked"
	EmailBounced   EmailLogStatus = "bounced"
	EmailDropped   EmailLogStatus = "dropped"
	EmailDeferred  EmailLogStatus = "deferred"
)

// EmailEvent is an engagement/delivery event reported by the email provider.
type EmailEvent string

const (
	EventDelivered   EmailEvent = "delivered"
	EventOpen        EmailEvent = "open"
	EventClick       EmailEvent = "click"
	EventBounce      EmailEvent = "bounce"
	EventDropped     EmailEvent = "dropped"
	EventDeferred    EmailEvent = "deferred"
	EventUnsubscribe EmailEvent = "unsubscribe"
	EventSpamReport  EmailEvent = "spamreport"

	// EventReply is recorded manually when a human confirms a reply; it
	// never arrives over the provider webhook.
	EventReply EmailEvent = "reply"
)

// EmailLog is one row per individual email attempt. Append-mostly: created
// in queued state at send time, updated by provider events, never deleted.
type EmailLog struct {
	ID           string  `json:"id" db:"id"`
	ContactID    string  `json:"contact_id" db:"contact_id"`
	CampaignID   *string `json:"campaign_id" db:"campaign_id"` // nil for ad-hoc/follow-up sends
	ToEmail      string  `json:"to_email" db:"to_email"`
	Subject      string  `json:"subject" db:"subject"`
	TemplateName string  `json:"template_name" db:"template_name"`

	MessageID *string        `json:"message_id" db:"message_id"` // provider id, nil until send succeeds
	Status    EmailLogStatus `json:"status" db:"status"`

	// Event timestamps, each set at most once.
	SentAt         *time.Time `json:"sent_at" db:"sent_at"`
	DeliveredAt    *time.Time `json:"delivered_at" db:"delivered_at"`
	OpenedAt       *time.Time `json:"opened_at" db:"opened_at"`
	ClickedAt      *time.Time `json:"clicked_at" db:"clicked_at"`
	BouncedAt      *time.Time `json:"bounced_at" db:"bounced_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at" db:"unsubscribed_at"`
	RepliedAt      *time.Time `json:"replied_at" db:"replied_at"`

	OpenCount    int      `json:"open_count" db:"open_count"`
	ClickCount   int      `json:"click_count" db:"click_count"`
	ClickedLinks []string `json:"clicked_links" db:"clicked_links"` // newest first

	ErrorMessage string `json:"error_message" db:"error_message"`
	BounceType   string `json:"bounce_type" db:"bounce_type"`

	// Follow-up reporting. FollowupNumber is 0 for an initial send.
	IsFollowup     bool `json:"is_followup" db:"is_followup"`
	FollowupNumber int  `json:"followup_number" db:"followup_number"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
