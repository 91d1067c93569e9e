package webhook

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Event is one entry of a provider event batch. The provider posts a JSON
// array of flat objects; custom args set at send time (contact_id,
// campaign_id) come back as top-level fields.
type Event struct {
	Email       string       `json:"email"`
	Kind        string       `json:"event"`
	Timestamp   int64        `json:"timestamp"` // unix seconds
	SGMessageID string       `json:"sg_message_id"`
	SGEventID   string       `json:"sg_event_id"`
	URL         string       `json:"url"`    // click events
	Reason      string       `json:"reason"` // bounce/dropped events
	Type        string       `json:"type"`   // bounce classification: bounce (hard) or blocked (soft)
	Category    CategoryList `json:"category"`
	ContactID   string       `json:"contact_id"`
	CampaignID  string       `json:"campaign_id"`
}

// MessageID returns the provider message id normalized for log lookup.
// The webhook variant carries a ".filter..." routing suffix that the send
// API response does not; everything from the first dot is dropped.
func (e *Event) MessageID() string {
	id := e.SGMessageID
	if i := strings.IndexByte(id, '.'); i > 0 {
		id = id[:i]
	}
	return id
}

// OccurredAt returns the event time, falling back to now for batches that
// omit the timestamp.
func (e *Event) OccurredAt(now time.Time) time.Time {
	if e.Timestamp > 0 {
		return time.Unix(e.Timestamp, 0).UTC()
	}
	return now
}

// HardBounce reports whether a bounce event is permanent. The provider
// labels hard bounces "bounce" and soft/policy blocks "blocked".
func (e *Event) HardBounce() bool {
	return e.Kind == "bounce" && e.Type != "blocked"
}

// CategoryList tolerates the provider's habit of sending a bare string when
// an email carries a single category and an array otherwise.
type CategoryList []string

func (c *CategoryList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*c = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*c = []string{single}
	return nil
}

// ParseEvents decodes a provider event batch.
func ParseEvents(r io.Reader) ([]Event, error) {
	var events []Event
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, fmt.Errorf("decode event batch: %w", err)
	}
	return events, nil
}
