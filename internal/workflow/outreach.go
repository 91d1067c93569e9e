package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ignite/outreach/internal/config"
	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/lifecycle"
	"github.com/ignite/outreach/internal/mailer"
	"github.com/ignite/outreach/internal/pkg/logger"
	"github.com/ignite/outreach/internal/sendlimit"
	"github.com/ignite/outreach/internal/service/campaign"
	"github.com/ignite/outreach/internal/service/contact"
	"github.com/ignite/outreach/internal/template"
)

// SuppressionChecker answers whether an address is on the do-not-contact
// list. The suppression service satisfies this.
type SuppressionChecker interface {
	IsSuppressed(ctx context.Context, email string) (bool, error)
}

// Templates resolves template names. The template store satisfies this.
type Templates interface {
	Get(name string) (*template.Template, error)
}

// Runner wires the services behind the outreach operations.
type Runner struct {
	contacts    *contact.Service
	campaigns   *campaign.Service
	templates   Templates
	renderer    *template.Renderer
	mail        mailer.Mailer
	suppression SuppressionChecker
	limiter     *sendlimit.Limiter
	cfg         config.OutreachConfig

	// DryRun previews the run: the transport decorator records instead of
	// sending, and no contact state is mutated or follow-up scheduled.
	DryRun bool

	// now is swappable for tests.
	now func() time.Time
}

// NewRunner creates a workflow runner. limiter may be nil when the caller
// enforces the cap itself.
func NewRunner(
	contacts *contact.Service,
	campaigns *campaign.Service,
	templates Templates,
	renderer *template.Renderer,
	mail mailer.Mailer,
	supp SuppressionChecker,
	limiter *sendlimit.Limiter,
	cfg config.OutreachConfig,
) *Runner {
	return &Runner{
		contacts:    contacts,
		campaigns:   campaigns,
		templates:   templates,
		renderer:    renderer,
		mail:        mail,
		suppression: supp,
		limiter:     limiter,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Failure records why one contact was skipped or failed during a run.
type Failure struct {
	ContactID string `json:"contact_id"`
	Email     string `json:"email"`
	Reason    string `json:"reason"`
}

// SendReport summarizes a batch send run.
type SendReport struct {
	CampaignID string    `json:"campaign_id"`
	Total      int       `json:"total"`
	Sent       int       `json:"sent"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	Failures   []Failure `json:"failures,omitempty"`
	DryRun     bool      `json:"dry_run"`
}

func (r *SendReport) fail(c *domain.Contact, reason string) {
	r.Failed++
	r.Failures = append(r.Failures, Failure{ContactID: c.ID, Email: c.Email, Reason: reason})
}

func (r *SendReport) skip(c *domain.Contact, reason string) {
	r.Skipped++
	r.Failures = append(r.Failures, Failure{ContactID: c.ID, Email: c.Email, Reason: reason})
}

// SendCampaign runs one approved campaign to completion: resolve targets,
// transition the campaign to sending, send one email per target, then mark
// the campaign sent and recompute its metrics. Per-contact problems land in
// the report; only infrastructure errors abort the run.
func (r *Runner) SendCampaign(ctx context.Context, campaignID string) (*SendReport, error) {
	cmp, err := r.campaigns.Get(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	tmpl, err := r.templates.Get(cmp.TemplateName)
	if err != nil {
		return nil, err
	}

	filter := contact.ListFilter{}
	if cmp.Segment != nil {
		filter.Segment = *cmp.Segment
	}
	targets, err := r.contacts.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	report := &SendReport{CampaignID: cmp.ID, DryRun: r.DryRun}

	sendable := make([]domain.Contact, 0, len(targets))
	for i := range targets {
		c := &targets[i]
		report.Total++
		if reason, ok := r.sendableReason(ctx, c); !ok {
			report.skip(c, reason)
			continue
		}
		sendable = append(sendable, *c)
	}

	if !r.DryRun {
		if err := r.campaigns.Start(ctx, cmp.ID, len(sendable)); err != nil {
			return nil, err
		}
	}

	logger.Info("[Outreach] starting campaign send",
		"campaign", cmp.Name, "targets", len(sendable), "dry_run", r.DryRun)

	for i := range sendable {
		c := &sendable[i]
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := r.sendOne(ctx, cmp, tmpl, c, false, 0, report); err != nil {
			return report, err
		}
		if i < len(sendable)-1 {
			r.pause(ctx)
		}
	}

	if !r.DryRun {
		if err := r.campaigns.Complete(ctx, cmp.ID); err != nil {
			return report, err
		}
	}

	logger.Info("[Outreach] campaign send finished",
		"campaign", cmp.Name, "sent", report.Sent, "skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

// sendableReason runs the pre-send guards. Returns the skip reason and false
// when the contact must not be emailed.
func (r *Runner) sendableReason(ctx context.Context, c *domain.Contact) (string, bool) {
	if err := lifecycle.CheckSendable(c); err != nil {
		return err.Error(), false
	}
	if r.suppression != nil {
		suppressed, err := r.suppression.IsSuppressed(ctx, c.Email)
		if err != nil {
			logger.Warn("[Outreach] suppression check failed, skipping contact",
				"contact", c.ID, "error", err.Error())
			return "suppression_check_failed", false
		}
		if suppressed {
			return "suppressed", false
		}
	}
	return "", true
}

// sendOne renders, queues, sends, and records a single email. Infrastructure
// errors (queueing, persistence) are returned; transport failures are
// recorded in the report and on the email log.
func (r *Runner) sendOne(ctx context.Context, cmp *domain.Campaign, tmpl *template.Template, c *domain.Contact, isFollowup bool, followupNumber int, report *SendReport) error {
	rendered, err := r.renderer.Render(tmpl, template.ContactContext(c))
	if err != nil {
		report.fail(c, "render_failed: "+err.Error())
		return nil
	}

	body := mailer.AppendUnsubscribeFooter(rendered.Body, r.cfg.UnsubscribeURL)
	msg := &mailer.Message{
		To:          c.Email,
		ToName:      c.FullName(),
		From:        r.cfg.FromEmail,
		FromName:    r.cfg.FromName,
		ReplyTo:     r.cfg.ReplyTo,
		Subject:     rendered.Subject,
		TextBody:    body,
		HTMLBody:    template.BodyToHTML(body),
		TrackOpens:  true,
		TrackClicks: true,
		CustomArgs:  map[string]string{"contact_id": c.ID},
	}
	if cmp != nil {
		msg.Categories = []string{cmp.Name}
		msg.CustomArgs["campaign_id"] = cmp.ID
	}

	if r.DryRun {
		if _, err := r.mail.Send(ctx, msg); err != nil {
			report.fail(c, "send_failed: "+err.Error())
			return nil
		}
		report.Sent++
		return nil
	}

	now := r.now()
	if r.limiter != nil {
		if err := r.limiter.Reserve(ctx, now); err != nil {
			if errors.Is(err, sendlimit.ErrLimitReached) {
				report.skip(c, "daily_limit_reached")
				return nil
			}
			return err
		}
	}

	log := &domain.EmailLog{
		ContactID:      c.ID,
		ToEmail:        c.Email,
		Subject:        rendered.Subject,
		TemplateName:   tmpl.Name,
		IsFollowup:     isFollowup,
		FollowupNumber: followupNumber,
	}
	if cmp != nil {
		log.CampaignID = &cmp.ID
	}
	queued, err := r.campaigns.QueueEmail(ctx, log)
	if err != nil {
		return fmt.Errorf("queue email for %s: %w", c.ID, err)
	}

	messageID, err := r.mail.Send(ctx, msg)
	if err != nil {
		if r.limiter != nil {
			r.limiter.Release(ctx, now)
		}
		if markErr := r.campaigns.MarkEmailFailed(ctx, queued, err.Error()); markErr != nil {
			return markErr
		}
		report.fail(c, "send_failed: "+err.Error())
		return nil
	}

	if err := r.campaigns.MarkEmailSent(ctx, queued, messageID, now); err != nil {
		return err
	}

	lifecycle.RecordSend(c, now)
	if isFollowup {
		c.FollowupCount++
	}
	r.scheduleNextFollowup(c, followupNumber, now)
	if err := r.contacts.Update(ctx, c); err != nil {
		return fmt.Errorf("update contact %s after send: %w", c.ID, err)
	}

	report.Sent++
	return nil
}

// scheduleNextFollowup sets next_followup_at from the schedule, indexed by
// the tier just sent (0 for an initial email). Past the end of the schedule
// the follow-up sequence is over and the field is cleared.
func (r *Runner) scheduleNextFollowup(c *domain.Contact, sentTier int, now time.Time) {
	if sentTier < len(r.cfg.FollowupScheduleDays) {
		next := now.AddDate(0, 0, r.cfg.FollowupScheduleDays[sentTier])
		c.NextFollowupAt = &next
		return
	}
	c.NextFollowupAt = nil
}

// pause sleeps the configured inter-send delay, abandoning early on
// context cancellation.
func (r *Runner) pause(ctx context.Context) {
	delay := r.cfg.SendDelay()
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
