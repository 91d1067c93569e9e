// Package campaign implements campaign lifecycle management and the email
// send log.
//
// Campaign status transitions are enforced here: approve (draft only),
// start (approved only), pause (sending only). Complete is deliberately
// idempotent so a campaign interrupted mid-send can still be closed out.
// Invalid transitions return ErrInvalidStatus and leave the record
// unchanged.
//
// Campaign aggregate metrics are derived: they are recomputed from the
// campaign's EmailLog rows and never hand-edited.
//
// Repository implementations live in repository/postgres/.
package campaign
