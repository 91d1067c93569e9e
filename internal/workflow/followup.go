package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/pkg/logger"
	"github.com/ignite/outreach/internal/template"
)

// FollowupReport summarizes one follow-up run.
type FollowupReport struct {
	Due      int       `json:"due"`
	Sent     int       `json:"sent"`
	Skipped  int       `json:"skipped"`
	Failed   int       `json:"failed"`
	Failures []Failure `json:"failures,omitempty"`
	DryRun   bool      `json:"dry_run"`
}

// RunFollowups sends every due follow-up in one pass. A contact is due when
// next_followup_at has arrived; that field is the single source of truth for
// scheduling. limit caps the batch (0 means the config default).
func (r *Runner) RunFollowups(ctx context.Context, limit int) (*FollowupReport, error) {
	now := r.now()
	due, err := r.contacts.ListDueFollowups(ctx, now, limit)
	if err != nil {
		return nil, err
	}

	report := &FollowupReport{Due: len(due), DryRun: r.DryRun}
	inner := &SendReport{DryRun: r.DryRun}

	logger.Info("[Followup] run starting", "due", len(due), "dry_run", r.DryRun)

	for i := range due {
		c := &due[i]
		if err := ctx.Err(); err != nil {
			return report, err
		}

		tier, reason, ok := r.followupTier(c)
		if !ok {
			report.Skipped++
			report.Failures = append(report.Failures, Failure{ContactID: c.ID, Email: c.Email, Reason: reason})
			r.clearSchedule(ctx, c, reason)
			continue
		}

		if skipReason, sendable := r.sendableReason(ctx, c); !sendable {
			report.Skipped++
			report.Failures = append(report.Failures, Failure{ContactID: c.ID, Email: c.Email, Reason: skipReason})
			continue
		}

		tmplName := r.cfg.FollowupTemplates[tier-1]
		tmpl, err := r.templates.Get(tmplName)
		if err != nil {
			if errors.Is(err, template.ErrTemplateNotFound) {
				report.Skipped++
				report.Failures = append(report.Failures, Failure{
					ContactID: c.ID, Email: c.Email,
					Reason: fmt.Sprintf("template_not_found: %s", tmplName),
				})
				continue
			}
			return report, err
		}

		beforeSent, beforeSkipped := inner.Sent, inner.Skipped
		if err := r.sendOne(ctx, nil, tmpl, c, true, tier, inner); err != nil {
			return report, err
		}
		switch {
		case inner.Sent > beforeSent:
			report.Sent++
		case inner.Skipped > beforeSkipped:
			report.Skipped++
		default:
			report.Failed++
		}

		if i < len(due)-1 {
			r.pause(ctx)
		}
	}

	report.Failures = append(report.Failures, inner.Failures...)

	logger.Info("[Followup] run finished",
		"sent", report.Sent, "skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

// followupTier picks which follow-up this send is. Returns (tier, "", true)
// or (0, reason, false) when the contact has left the cadence.
//
// A contact who opened an email but never progressed further skips the
// gentle tier-1 bump and runs one step ahead in the cadence, so no tier is
// ever repeated. The count still advances by one per send.
func (r *Runner) followupTier(c *domain.Contact) (int, string, bool) {
	tier := c.FollowupCount + 1
	if c.Status == domain.ContactOpened && len(r.cfg.FollowupTemplates) >= 2 {
		tier = c.FollowupCount + 2
	}
	if tier > len(r.cfg.FollowupTemplates) {
		return 0, "max_followups_reached", false
	}
	if c.LastRepliedAt != nil || c.Status == domain.ContactReplied {
		return 0, "already_replied", false
	}
	return tier, "", true
}

// clearSchedule stops future due-selection for a contact that left the
// cadence, so it doesn't resurface every run.
func (r *Runner) clearSchedule(ctx context.Context, c *domain.Contact, reason string) {
	if r.DryRun || c.NextFollowupAt == nil {
		return
	}
	c.NextFollowupAt = nil
	if err := r.contacts.Update(ctx, c); err != nil {
		logger.Warn("[Followup] failed to clear schedule",
			"contact", c.ID, "reason", reason, "error", err.Error())
	}
}

// NextFollowupFromLastContact recomputes when a contact's next follow-up
// would be due from last_contacted_at and the schedule. Reporting only; the
// live engine trusts next_followup_at instead.
func (r *Runner) NextFollowupFromLastContact(c *domain.Contact) *time.Time {
	if c.LastContacted == nil || c.FollowupCount >= len(r.cfg.FollowupScheduleDays) {
		return nil
	}
	next := c.LastContacted.AddDate(0, 0, r.cfg.FollowupScheduleDays[c.FollowupCount])
	return &next
}
