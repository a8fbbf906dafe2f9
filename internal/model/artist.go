package model

// Artist represents a performer.  It mirrors Venue apart from the
// address and uses SeekingVenue instead of SeekingTalent.
//
// Fields:
//  ID                 – primary key identifier.
//  Name               – unique display name.
//  City, State        – home location.
//  Phone              – optional unique phone number.
//  Genres             – genres the artist plays (JSON in the DB).
//  ImageLink          – picture shown next to the artist's shows.
//  FacebookLink       – optional social link.
//  WebsiteLink        – optional website.
//  SeekingVenue       – whether the artist is looking for venues.
//  SeekingDescription – free text shown when SeekingVenue is set.
type Artist struct {
    ID                 int64     // artists.id
    Name               string    // artists.name
    City               string    // artists.city
    State              string    // artists.state
    Phone              string    // artists.phone
    Genres             []string  // artists.genres (JSON)
    ImageLink          string    // artists.image_link
    FacebookLink       string    // artists.facebook_link
    WebsiteLink        string    // artists.website_link
    SeekingVenue       bool      // artists.seeking_venue
    SeekingDescription string    // artists.seeking_description
}

// ArtistSummary is the search projection of an artist.
type ArtistSummary struct {
    ID            int64
    Name          string
    UpcomingShows int
}
