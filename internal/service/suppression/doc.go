// Package suppression implements the do-not-contact list.
//
// The list is keyed by email address, independent of contact rows: an
// unsubscribed or hard-bounced address stays blocked even when the contact
// is deleted and re-imported later. Entries flow in from provider webhooks
// (unsubscribe, spam report, hard bounce) and manual CLI actions, and are
// checked before every send.
package suppression
