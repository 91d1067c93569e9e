package webhook

import (
	"context"
	"errors"
	"time"

	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/lifecycle"
	"github.com/ignite/outreach/internal/pkg/logger"
	"github.com/ignite/outreach/internal/service/campaign"
	"github.com/ignite/outreach/internal/service/contact"
)

// Suppressor adds addresses to the do-not-contact list. The suppression
// service satisfies this.
type Suppressor interface {
	Suppress(ctx context.Context, email string, reason domain.SuppressionReason, source string) error
}

const suppressSource = "provider_webhook"

// Processor applies provider events to email logs and contacts.
type Processor struct {
	contacts    *contact.Service
	campaigns   *campaign.Service
	suppression Suppressor

	now func() time.Time
}

// NewProcessor creates an event processor.
func NewProcessor(contacts *contact.Service, campaigns *campaign.Service, supp Suppressor) *Processor {
	return &Processor{
		contacts:    contacts,
		campaigns:   campaigns,
		suppression: supp,
		now:         time.Now,
	}
}

// Result counts what one batch did. Ignored covers event kinds we don't
// track and events that matched no log or contact.
type Result struct {
	Received int `json:"received"`
	Applied  int `json:"applied"`
	Ignored  int `json:"ignored"`
	Errors   int `json:"errors"`
}

// eventKinds maps provider event names to the tracked email events.
// Kinds missing from the map (processed, deferred retries we don't care
// about, group resubscribes) are ignored.
var eventKinds = map[string]domain.EmailEvent{
	"delivered":         domain.EventDelivered,
	"open":              domain.EventOpen,
	"click":             domain.EventClick,
	"bounce":            domain.EventBounce,
	"blocked":           domain.EventBounce,
	"dropped":           domain.EventDropped,
	"deferred":          domain.EventDeferred,
	"unsubscribe":       domain.EventUnsubscribe,
	"group_unsubscribe": domain.EventUnsubscribe,
	"spamreport":        domain.EventSpamReport,
}

// Process applies every event in the batch. Per-event problems are counted
// and logged, never returned: a poison event must not block the rest of the
// batch or trigger a provider redelivery.
func (p *Processor) Process(ctx context.Context, events []Event) *Result {
	res := &Result{Received: len(events)}
	touched := map[string]bool{} // campaign ids needing a metrics recompute

	for i := range events {
		e := &events[i]
		kind, tracked := eventKinds[e.Kind]
		if !tracked {
			res.Ignored++
			continue
		}

		applied, campaignID, err := p.apply(ctx, e, kind)
		switch {
		case err != nil:
			res.Errors++
			logger.Warn("[Webhook] event failed",
				"event", e.Kind, "email", logger.RedactEmail(e.Email), "error", err.Error())
		case applied:
			res.Applied++
			if campaignID != "" {
				touched[campaignID] = true
			}
		default:
			res.Ignored++
		}
	}

	for id := range touched {
		if err := p.campaigns.RecomputeMetrics(ctx, id); err != nil {
			logger.Warn("[Webhook] metrics recompute failed", "campaign", id, "error", err.Error())
		}
	}
	return res
}

// apply handles a single tracked event: update the email log, mutate the
// contact, and suppress the address when the event demands it. Returns
// whether anything matched and the campaign id touched, if any.
func (p *Processor) apply(ctx context.Context, e *Event, kind domain.EmailEvent) (bool, string, error) {
	now := e.OccurredAt(p.now())

	var log *domain.EmailLog
	if id := e.MessageID(); id != "" {
		var err error
		log, err = p.campaigns.RecordEvent(ctx, id, kind, campaign.EventAttrs{
			Timestamp:    now,
			URL:          e.URL,
			BounceType:   bounceLabel(e),
			ErrorMessage: e.Reason,
		})
		if err != nil && !errors.Is(err, campaign.ErrLogNotFound) {
			return false, "", err
		}
	}

	c, err := p.resolveContact(ctx, e, log)
	if err != nil {
		return false, "", err
	}

	matched := log != nil || c != nil
	if c != nil {
		if err := p.mutateContact(ctx, c, e, kind, now); err != nil {
			return false, "", err
		}
	}
	if err := p.suppress(ctx, e, kind); err != nil {
		return false, "", err
	}

	campaignID := ""
	if log != nil && log.CampaignID != nil {
		campaignID = *log.CampaignID
	}
	return matched, campaignID, nil
}

// resolveContact finds the contact an event belongs to: the email log's
// contact first, then the contact_id custom arg, then the address itself.
func (p *Processor) resolveContact(ctx context.Context, e *Event, log *domain.EmailLog) (*domain.Contact, error) {
	notFound := func(err error) bool { return errors.Is(err, contact.ErrNotFound) }

	if log != nil {
		c, err := p.contacts.Get(ctx, log.ContactID)
		if err == nil {
			return c, nil
		}
		if !notFound(err) {
			return nil, err
		}
	}
	if e.ContactID != "" {
		c, err := p.contacts.Get(ctx, e.ContactID)
		if err == nil {
			return c, nil
		}
		if !notFound(err) {
			return nil, err
		}
	}
	if e.Email != "" {
		c, err := p.contacts.GetByEmail(ctx, e.Email)
		if err == nil {
			return c, nil
		}
		if !notFound(err) {
			return nil, err
		}
	}
	return nil, nil
}

func (p *Processor) mutateContact(ctx context.Context, c *domain.Contact, e *Event, kind domain.EmailEvent, now time.Time) error {
	switch kind {
	case domain.EventOpen:
		lifecycle.RecordOpen(c, now)
	case domain.EventClick:
		lifecycle.RecordClick(c, now)
	case domain.EventBounce:
		if !e.HardBounce() {
			return nil
		}
		lifecycle.RecordBounce(c)
	case domain.EventUnsubscribe, domain.EventSpamReport:
		lifecycle.RecordUnsubscribe(c, now)
	default:
		return nil
	}
	return p.contacts.Update(ctx, c)
}

func (p *Processor) suppress(ctx context.Context, e *Event, kind domain.EmailEvent) error {
	if p.suppression == nil || e.Email == "" {
		return nil
	}
	switch {
	case kind == domain.EventBounce && e.HardBounce():
		return p.suppression.Suppress(ctx, e.Email, domain.SuppressHardBounce, suppressSource)
	case kind == domain.EventUnsubscribe:
		return p.suppression.Suppress(ctx, e.Email, domain.SuppressUnsubscribe, suppressSource)
	case kind == domain.EventSpamReport:
		return p.suppression.Suppress(ctx, e.Email, domain.SuppressComplaint, suppressSource)
	}
	return nil
}

func bounceLabel(e *Event) string {
	if e.Kind != "bounce" && e.Kind != "blocked" {
		return ""
	}
	if e.HardBounce() {
		return "hard"
	}
	return "soft"
}
