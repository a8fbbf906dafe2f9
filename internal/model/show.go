package model

import "time"

// Show is a performance of an artist at a venue.  The triple
// (ArtistID, VenueID, StartTime) is the primary key; shows are never
// updated and disappear with their artist or venue (ON DELETE CASCADE).
// Whether a show is past or upcoming is not stored: it is decided at
// read time by comparing StartTime with the current instant.
type Show struct {
    ArtistID  int64     // shows.artist_id
    VenueID   int64     // shows.venue_id
    StartTime time.Time // shows.start_time (UTC)
}

// ShowListing is a show joined with the display attributes of both
// endpoints.  Pages about a venue read the Artist* fields, pages about
// an artist read the Venue* fields.
type ShowListing struct {
    Show
    ArtistName      string
    ArtistImageLink string
    VenueName       string
    VenueImageLink  string
}
