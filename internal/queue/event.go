// Package queue defines the activity events exchanged over the message
// broker together with the publisher used by the booking service and the
// background consumer that writes them to the activity log.
package queue

import "time"

// Entity names carried in ActivityEvent.Entity.
const (
	EntityVenue  = "venue"
	EntityArtist = "artist"
	EntityShow   = "show"
)

// Actions carried in ActivityEvent.Action.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ActivityEvent is published after a venue, artist or show mutation has
// been committed.  It carries enough for downstream consumers to log or
// notify without querying the primary database.
type ActivityEvent struct {
	Entity     string `json:"entity"`
	Action     string `json:"action"`
	ID         int64  `json:"id"`
	Name       string `json:"name,omitempty"`
	ArtistID   int64  `json:"artist_id,omitempty"`
	VenueID    int64  `json:"venue_id,omitempty"`
	StartTime  string `json:"start_time,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// NewEvent fills OccurredAt with at in RFC3339 UTC.
func NewEvent(entity, action string, id int64, name string, at time.Time) ActivityEvent {
	return ActivityEvent{
		Entity:     entity,
		Action:     action,
		ID:         id,
		Name:       name,
		OccurredAt: at.UTC().Format(time.RFC3339),
	}
}
