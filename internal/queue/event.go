// Package queue defines message payloads exchanged over the message
// broker and the consumer that records them.
package queue

// ShowQueueName is the durable queue carrying ShowScheduledEvent.
const ShowQueueName = "show.scheduled"

// ShowScheduledEvent is published after a show is created.  It carries
// the display names of both endpoints so consumers never need to query
// the primary database.
type ShowScheduledEvent struct {
    ArtistID    int64  `json:"artist_id"`
    ArtistName  string `json:"artist_name"`
    VenueID     int64  `json:"venue_id"`
    VenueName   string `json:"venue_name"`
    StartTime   string `json:"start_time"`   // RFC 3339, UTC
    ScheduledAt string `json:"scheduled_at"` // RFC 3339, UTC
}
