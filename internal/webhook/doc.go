// Package webhook receives provider engagement events (delivered, open,
// click, bounce, unsubscribe, spam report) and applies them to email logs
// and contacts.
//
// The receiver always answers 200: providers retry non-2xx responses, and a
// malformed batch would otherwise be redelivered forever. Parse and apply
// problems are logged and counted instead.
package webhook
