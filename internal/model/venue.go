package model

// Venue represents a place that hosts shows.  Venues and artists are
// related many-to-many through the shows table.  Genres is stored as a
// JSON encoded list in the `genres` column.
//
// Fields:
//  ID                 – primary key identifier.
//  Name               – display name (not guaranteed unique).
//  City, State        – location used to group the venue listing.
//  Address            – street address.
//  Phone              – optional unique phone number.
//  Genres             – music genres the venue books.
//  ImageLink          – picture shown next to the venue's shows.
//  FacebookLink       – optional social link.
//  WebsiteLink        – optional website.
//  SeekingTalent      – whether the venue is looking for artists.
//  SeekingDescription – free text shown when SeekingTalent is set.
type Venue struct {
    ID                 int64     // venues.id
    Name               string    // venues.name
    City               string    // venues.city
    State              string    // venues.state
    Address            string    // venues.address
    Phone              string    // venues.phone
    Genres             []string  // venues.genres (JSON)
    ImageLink          string    // venues.image_link
    FacebookLink       string    // venues.facebook_link
    WebsiteLink        string    // venues.website_link
    SeekingTalent      bool      // venues.seeking_talent
    SeekingDescription string    // venues.seeking_description
}

// VenueSummary is the listing/search projection of a venue: identity,
// location and the number of shows that have not started yet.
type VenueSummary struct {
    ID            int64
    Name          string
    City          string
    State         string
    UpcomingShows int
}
