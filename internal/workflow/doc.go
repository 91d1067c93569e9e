// Package workflow orchestrates the multi-step outreach operations:
// campaign batch sends, follow-up runs, and contact enrichment.
//
// Each run processes its batch in a single pass, accumulating per-contact
// failures into a report instead of aborting. The caller gates real sends
// behind an explicit confirmation; dry-run mode substitutes the transport
// and skips every contact mutation.
package workflow
