package model

import "time"

// Hold is the ephemeral view of a group of seats claimed together
// under one token.  It is never persisted on its own; the seat rows
// carrying the token are authoritative.  A copy may be mirrored into
// a fast-lookup cache, but that mirror is advisory only and must not
// be trusted over the seat rows.
//
// Fields:
//  Token            – opaque, unguessable identifier of the hold.
//  EventID          – event the held seats belong to.
//  HolderID         – buyer who owns the hold.
//  SeatIDs          – the seats claimed together, as one atomic group.
//  TotalAmountCents – sum of the seats' current prices at hold time.
//  CreatedAt        – when the hold was granted.
//  ExpiresAt        – deadline after which the hold is stale.
type Hold struct {
	Token            string    `json:"token"`
	EventID          uint64    `json:"event_id"`
	HolderID         uint64    `json:"holder_id"`
	SeatIDs          []uint64  `json:"seat_ids"`
	TotalAmountCents uint32    `json:"total_amount_cents"`
	CreatedAt        time.Time `json:"created_at"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// Expired reports whether the hold's deadline has passed at the given
// instant.
func (h *Hold) Expired(now time.Time) bool {
	return !h.ExpiresAt.After(now)
}
