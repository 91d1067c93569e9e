// Package lifecycle implements the contact status state machine.
//
// Engagement events move a contact forward through an ordinal ranking
// (new < enriched < contacted < opened < clicked < replied) and never
// backwards: a re-send to an already-opened contact records the send but
// leaves the status at opened. Reply, bounce, and unsubscribe are
// unconditional overrides that apply from any state.
package lifecycle

import (
	"strings"
	"time"

	"github.com/ignite/outreach/internal/domain"
)

// normalizeEmail lowercases and trims an email address. Empty in, empty out.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// engagementRank orders the forward-only engagement states. Statuses not in
// the map (converted, unsubscribed, bounced) are unreachable by ranked
// transitions and can only be set by unconditional overrides.
var engagementRank = map[domain.ContactStatus]int{
	domain.ContactNew:       0,
	domain.ContactEnriched:  1,
	domain.ContactContacted: 2,
	domain.ContactOpened:    3,
	domain.ContactClicked:   4,
	domain.ContactReplied:   5,
}

// advance moves the contact to the target status only when that is a forward
// move in the engagement ranking. Contacts in override states keep them.
func advance(c *domain.Contact, to domain.ContactStatus) {
	cur, curRanked := engagementRank[c.Status]
	next, nextRanked := engagementRank[to]
	if !curRanked || !nextRanked {
		return
	}
	if next > cur {
		c.Status = to
	}
}

// CheckSendable validates that a contact may receive email. It returns
// ErrNoEmail, ErrUnsubscribed, or ErrBounced without mutating the contact.
func CheckSendable(c *domain.Contact) error {
	if !c.HasEmail() {
		return ErrNoEmail
	}
	switch c.Status {
	case domain.ContactUnsubscribed:
		return ErrUnsubscribed
	case domain.ContactBounced:
		return ErrBounced
	}
	return nil
}

// EnrichmentData carries the fields an enrichment lookup may fill in.
// Empty fields are "not returned" and leave the contact's value untouched;
// non-empty fields overwrite.
type EnrichmentData struct {
	Email       string
	FirstName   string
	LastName    string
	Title       string
	Phone       string
	LinkedInURL string
	Website     string
	CompanySize string
	Industry    string
	Location    string
}

// ApplyEnrichment merges enrichment results into the contact and marks it
// enriched. Enrichment values win when present; existing values are kept
// when the lookup didn't return that field.
func ApplyEnrichment(c *domain.Contact, e EnrichmentData, now time.Time) {
	merge := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	merge(&c.Email, normalizeEmail(e.Email))
	merge(&c.FirstName, e.FirstName)
	merge(&c.LastName, e.LastName)
	merge(&c.Title, e.Title)
	merge(&c.Phone, e.Phone)
	merge(&c.LinkedInURL, e.LinkedInURL)
	merge(&c.Website, e.Website)
	merge(&c.CompanySize, e.CompanySize)
	merge(&c.Industry, e.Industry)
	merge(&c.Location, e.Location)

	c.EnrichedAt = &now
	advance(c, domain.ContactEnriched)
}

// RecordSend registers a successful send: increments emails_sent, stamps
// last_contacted_at, and moves the contact to contacted unless it is already
// past that point.
func RecordSend(c *domain.Contact, now time.Time) {
	c.EmailsSent++
	c.LastContacted = &now
	advance(c, domain.ContactContacted)
}

// RecordOpen registers an open event. The status moves to opened only from
// an earlier engagement stage; an already-clicked or replied contact keeps
// its status.
func RecordOpen(c *domain.Contact, now time.Time) {
	c.EmailsOpened++
	c.LastOpenedAt = &now
	advance(c, domain.ContactOpened)
}

// RecordClick registers a click event.
func RecordClick(c *domain.Contact, now time.Time) {
	c.EmailsClicked++
	c.LastClickedAt = &now
	advance(c, domain.ContactClicked)
}

// RecordReply registers a reply. Replies apply from any state and stop
// follow-up scheduling.
func RecordReply(c *domain.Contact, now time.Time) {
	c.LastRepliedAt = &now
	c.NextFollowupAt = nil
	if c.Status != domain.ContactConverted &&
		c.Status != domain.ContactUnsubscribed &&
		c.Status != domain.ContactBounced {
		c.Status = domain.ContactReplied
	}
}

// RecordBounce marks the contact bounced. Terminal for sending purposes.
// The bounce type itself is recorded on the email log, not the contact.
func RecordBounce(c *domain.Contact) {
	c.Status = domain.ContactBounced
	c.NextFollowupAt = nil
}

// RecordUnsubscribe marks the contact unsubscribed. Terminal for sending.
func RecordUnsubscribe(c *domain.Contact, now time.Time) {
	c.Status = domain.ContactUnsubscribed
	c.UnsubscribedAt = &now
	c.NextFollowupAt = nil
}
