// Package contact implements contact management for the outreach engine.
//
// The service layer validates and normalizes contact data and exposes the
// queries the workflows need (candidate selection, due follow-ups). Status
// transitions themselves live in internal/lifecycle; this package only
// persists their results. Repository implementations live in
// repository/postgres/.
package contact
