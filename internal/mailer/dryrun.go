package mailer

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ignite/outreach/internal/pkg/logger"
)

// DryRun wraps a Mailer and records messages instead of sending them.
// Every Send succeeds with a synthetic message id.
type DryRun struct {
	inner Mailer // only used for Name(); may be nil

	mu   sync.Mutex
	sent []Message
}

// NewDryRun creates a dry-run decorator around the given transport.
func NewDryRun(inner Mailer) *DryRun {
	return &DryRun{inner: inner}
}

// Name identifies the transport in logs and email log rows.
func (d *DryRun) Name() string {
	if d.inner != nil {
		return d.inner.Name() + "+dryrun"
	}
	return "dryrun"
}

// Send records the message and logs what would have gone out.
func (d *DryRun) Send(_ context.Context, m *Message) (string, error) {
	if m.To == "" {
		return "", ErrNoRecipient
	}
	d.mu.Lock()
	d.sent = append(d.sent, *m)
	d.mu.Unlock()

	logger.Info("[DryRun] would send email",
		"to", logger.RedactEmail(m.To),
		"subject", m.Subject,
		"bytes", len(m.TextBody),
	)
	return fmt.Sprintf("dry-run-%s", uuid.New().String()), nil
}

// Sent returns a copy of everything recorded so far.
func (d *DryRun) Sent() []Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Message, len(d.sent))
	copy(out, d.sent)
	return out
}
