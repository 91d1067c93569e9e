package domain

import "time"

// CampaignStatus enumerates the lifecycle states of a campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignApproved  CampaignStatus = "approved"
	CampaignSending   CampaignStatus = "sending"
	CampaignSent      CampaignStatus = "sent"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCancelled CampaignStatus = "cancelled"
)

// Campaign represents a batch send definition.
type Campaign struct {
	ID           string         `json:"id" db:"id"`
	Name         string         `json:"name" db:"name"`
	TemplateName string         `json:"template_name" db:"template_name"`
	Subject      string         `json:"subject" db:"subject"` // denormalized from template at creation
	Segment      *string        `json:"segment" db:"segment"` // nil = all contacts
	Status       CampaignStatus `json:"status" db:"status"`

	// Aggregates, recomputed from EmailLog rows. Never hand-edited.
	TotalRecipients    int `json:"total_recipients" db:"total_recipients"`
	EmailsSent         int `json:"emails_sent" db:"emails_sent"`
	EmailsDelivered    int `json:"emails_delivered" db:"emails_delivered"`
	EmailsOpened       int `json:"emails_opened" db:"emails_opened"`
	EmailsClicked      int `json:"emails_clicked" db:"emails_clicked"`
	EmailsBounced      int `json:"emails_bounced" db:"emails_bounced"`
	EmailsUnsubscribed int `json:"emails_unsubscribed" db:"emails_unsubscribed"`
	RepliesReceived    int `json:"replies_received" db:"replies_received"`

	ScheduledAt *time.Time `json:"scheduled_at" db:"scheduled_at"`
	StartedAt   *time.Time `json:"started_at" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`

	// Follow-up generation linkage
	IsFollowup       bool    `json:"is_followup" db:"is_followup"`
	FollowupDays     int     `json:"followup_days" db:"followup_days"`
	ParentCampaignID *string `json:"parent_campaign_id" db:"parent_campaign_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsTerminal returns true if the campaign is in a final state.
func (c *Campaign) IsTerminal() bool {
	return c.Status == CampaignSent || c.Status == CampaignCancelled
}
