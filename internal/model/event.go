package model

import "time"

// Event mirrors the minimal catalog data the engine needs about a
// scheduled event.  The full catalog (search, descriptions, imagery)
// lives in an external service; rows here exist only so seats can
// reference their event and so availability can be listed per event.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the event.
//  StartsAt  – when the event begins (UTC).
//  CreatedAt – creation timestamp.
type Event struct {
	ID        uint64    // events.id
	Name      string    // events.name
	StartsAt  time.Time // events.starts_at
	CreatedAt time.Time // events.created_at
}
