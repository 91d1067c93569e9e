// Package mailer abstracts the outbound email transport.
//
// Two real transports are provided: AWS SES v2 and SendGrid. DryRun wraps
// any Mailer and logs instead of sending, for previewing a campaign before
// the confirmation gate.
package mailer
