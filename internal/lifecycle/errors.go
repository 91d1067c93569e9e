package lifecycle

import "errors"

// Sendable policy rejections. These are expected outcomes, surfaced per
// contact by the batch workflows rather than aborting a run.
var (
	ErrNoEmail      = errors.New("no_email")
	ErrUnsubscribed = errors.New("unsubscribed")
	ErrBounced      = errors.New("bounced")
)
