package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/enrich"
	"github.com/ignite/outreach/internal/lifecycle"
	"github.com/ignite/outreach/internal/pkg/logger"
)

// Enricher is the lookup surface of the enrichment provider client.
type Enricher interface {
	EnrichByLinkedIn(ctx context.Context, linkedinURL string) (lifecycle.EnrichmentData, error)
	EnrichByNameAndCompany(ctx context.Context, firstName, lastName, company string) (lifecycle.EnrichmentData, error)
	SearchPeopleAtCompany(ctx context.Context, company string, limit int) ([]lifecycle.EnrichmentData, error)
}

// enrichPace is the wait between provider lookups.
const enrichPace = 500 * time.Millisecond

// EnrichmentReport summarizes one enrichment run.
type EnrichmentReport struct {
	Total    int       `json:"total"`
	Enriched int       `json:"enriched"`
	Skipped  int       `json:"skipped"`
	Failed   int       `json:"failed"`
	Failures []Failure `json:"failures,omitempty"`
}

// EnrichContacts looks each contact up with the provider and merges the
// results. Lookup priority: LinkedIn URL, then name + company, then the
// top person search hit for the company alone.
func (r *Runner) EnrichContacts(ctx context.Context, provider Enricher, contacts []domain.Contact) (*EnrichmentReport, error) {
	report := &EnrichmentReport{Total: len(contacts)}

	for i := range contacts {
		c := &contacts[i]
		if err := ctx.Err(); err != nil {
			return report, err
		}

		data, reason, err := lookup(ctx, provider, c)
		if err != nil {
			return report, err
		}
		if reason != "" {
			if strings.HasPrefix(reason, "lookup_failed") {
				report.Failed++
			} else {
				report.Skipped++
			}
			report.Failures = append(report.Failures, Failure{ContactID: c.ID, Email: c.Email, Reason: reason})
		} else {
			lifecycle.ApplyEnrichment(c, data, r.now())
			if !r.DryRun {
				if err := r.contacts.Update(ctx, c); err != nil {
					return report, err
				}
			}
			report.Enriched++
			logger.Info("[Enrich] contact enriched",
				"contact", c.ID, "company", c.Company)
		}

		if i < len(contacts)-1 {
			pauseFor(ctx, enrichPace)
		}
	}
	return report, nil
}

// lookup runs the provider calls in priority order. Returns a non-empty
// reason string for per-contact skips; the error return is reserved for
// infrastructure failures (credits exhausted, provider misconfigured).
func lookup(ctx context.Context, provider Enricher, c *domain.Contact) (lifecycle.EnrichmentData, string, error) {
	var zero lifecycle.EnrichmentData

	classify := func(err error) (string, error) {
		switch {
		case errors.Is(err, enrich.ErrNotFound):
			return "not_found", nil
		case errors.Is(err, enrich.ErrNoCredits), errors.Is(err, enrich.ErrNotConfigured):
			return "", err
		default:
			return "lookup_failed: " + err.Error(), nil
		}
	}

	switch {
	case c.LinkedInURL != "":
		data, err := provider.EnrichByLinkedIn(ctx, c.LinkedInURL)
		if err != nil {
			reason, err := classify(err)
			return zero, reason, err
		}
		return data, emptyReason(data), nil

	case c.FirstName != "" && c.LastName != "" && c.Company != "":
		data, err := provider.EnrichByNameAndCompany(ctx, c.FirstName, c.LastName, c.Company)
		if err != nil {
			reason, err := classify(err)
			return zero, reason, err
		}
		return data, emptyReason(data), nil

	case c.Company != "":
		people, err := provider.SearchPeopleAtCompany(ctx, c.Company, 1)
		if err != nil {
			reason, err := classify(err)
			return zero, reason, err
		}
		// Providers may report an empty result set with a nil error.
		if len(people) == 0 {
			return zero, "no_data", nil
		}
		return people[0], emptyReason(people[0]), nil

	default:
		return zero, "insufficient_data", nil
	}
}

// emptyReason flags lookups that succeeded but carried nothing usable.
func emptyReason(d lifecycle.EnrichmentData) string {
	if d == (lifecycle.EnrichmentData{}) {
		return "no_data"
	}
	return ""
}

func pauseFor(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
