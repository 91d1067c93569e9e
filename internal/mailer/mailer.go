package mailer

import (
	"context"
	"errors"
	"strings"
)

// Message is one outbound email, fully rendered.
type Message struct {
	To       string
	ToName   string
	FromName string
	From     string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string // optional

	// Provider hints
	TrackOpens  bool
	TrackClicks bool
	Categories  []string          // provider-side tagging (campaign name etc.)
	CustomArgs  map[string]string // echoed back in webhook events
}

// Mailer sends a single message and returns the provider message id.
type Mailer interface {
	Send(ctx context.Context, m *Message) (messageID string, err error)
	Name() string
}

// Sentinel errors for the transport layer.
var (
	ErrNoRecipient = errors.New("message has no recipient")
	ErrSendFailed  = errors.New("send_failed")
)

// AppendUnsubscribeFooter appends the plain-text unsubscribe footer. No-op
// when the URL is empty or the body already carries it.
func AppendUnsubscribeFooter(body, unsubscribeURL string) string {
	if unsubscribeURL == "" || strings.Contains(body, unsubscribeURL) {
		return body
	}
	return strings.TrimRight(body, "\n") +
		"\n\n--\nDon't want to hear from me again? " + unsubscribeURL + "\n"
}
