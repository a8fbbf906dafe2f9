// Package handler exposes the HTTP handlers of the booking, trivia and
// coffee shop APIs.  Handlers return errors and leave the response
// envelope to NewHTTPErrorHandler.
package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stagedoor/internal/metrics"
    "github.com/iliyamo/stagedoor/internal/model"
    "github.com/iliyamo/stagedoor/internal/repository"
    "github.com/iliyamo/stagedoor/internal/search"
    "github.com/iliyamo/stagedoor/internal/showtime"
)

// VenueHandler serves /venues.
type VenueHandler struct {
    Venues      *repository.VenueRepo
    Partitioner *showtime.Partitioner
    Metrics     *metrics.Metrics
}

// venueRequest is the create/update body.  For PATCH it is pre-filled
// from the stored venue so omitted fields keep their value.
type venueRequest struct {
    Name               string   `json:"name" validate:"required"`
    City               string   `json:"city" validate:"required"`
    State              string   `json:"state" validate:"required"`
    Address            string   `json:"address" validate:"required"`
    Phone              string   `json:"phone"`
    Genres             []string `json:"genres" validate:"required,min=1"`
    ImageLink          string   `json:"image_link" validate:"omitempty,url"`
    FacebookLink       string   `json:"facebook_link" validate:"omitempty,url"`
    WebsiteLink        string   `json:"website_link" validate:"omitempty,url"`
    SeekingTalent      bool     `json:"seeking_talent"`
    SeekingDescription string   `json:"seeking_description"`
}

func (r venueRequest) model(id int64) *model.Venue {
    return &model.Venue{
        ID: id, Name: r.Name, City: r.City, State: r.State, Address: r.Address, Phone: r.Phone,
        Genres: r.Genres, ImageLink: r.ImageLink, FacebookLink: r.FacebookLink, WebsiteLink: r.WebsiteLink,
        SeekingTalent: r.SeekingTalent, SeekingDescription: r.SeekingDescription,
    }
}

func venueRequestFrom(v *model.Venue) venueRequest {
    return venueRequest{
        Name: v.Name, City: v.City, State: v.State, Address: v.Address, Phone: v.Phone,
        Genres: v.Genres, ImageLink: v.ImageLink, FacebookLink: v.FacebookLink, WebsiteLink: v.WebsiteLink,
        SeekingTalent: v.SeekingTalent, SeekingDescription: v.SeekingDescription,
    }
}

type venueJSON struct {
    ID int64 `json:"id"`
    venueRequest
}

type venueSummaryJSON struct {
    ID               int64  `json:"id"`
    Name             string `json:"name"`
    NumUpcomingShows int    `json:"num_upcoming_shows"`
}

type venueAreaJSON struct {
    City   string             `json:"city"`
    State  string             `json:"state"`
    Venues []venueSummaryJSON `json:"venues"`
}

// venueShowJSON is a show on a venue page: the artist side.
type venueShowJSON struct {
    ArtistID        int64     `json:"artist_id"`
    ArtistName      string    `json:"artist_name"`
    ArtistImageLink string    `json:"artist_image_link"`
    StartTime       time.Time `json:"start_time"`
}

type venueDetailJSON struct {
    venueJSON
    PastShows          []venueShowJSON `json:"past_shows"`
    UpcomingShows      []venueShowJSON `json:"upcoming_shows"`
    PastShowsCount     int             `json:"past_shows_count"`
    UpcomingShowsCount int             `json:"upcoming_shows_count"`
}

func venueShows(in []model.ShowListing) []venueShowJSON {
    out := make([]venueShowJSON, 0, len(in))
    for _, s := range in {
        out = append(out, venueShowJSON{
            ArtistID: s.ArtistID, ArtistName: s.ArtistName, ArtistImageLink: s.ArtistImageLink, StartTime: s.StartTime,
        })
    }
    return out
}

func venueSummaries(in []model.VenueSummary) []venueSummaryJSON {
    out := make([]venueSummaryJSON, 0, len(in))
    for _, v := range in {
        out = append(out, venueSummaryJSON{ID: v.ID, Name: v.Name, NumUpcomingShows: v.UpcomingShows})
    }
    return out
}

// List groups venues by (state, city) in the order the repository
// returns them.
func (h *VenueHandler) List(c echo.Context) error {
    venues, err := h.Venues.List(c.Request().Context())
    if err != nil {
        return err
    }
    areas := make([]venueAreaJSON, 0)
    for _, v := range venues {
        if n := len(areas); n == 0 || areas[n-1].City != v.City || areas[n-1].State != v.State {
            areas = append(areas, venueAreaJSON{City: v.City, State: v.State, Venues: []venueSummaryJSON{}})
        }
        last := &areas[len(areas)-1]
        last.Venues = append(last.Venues, venueSummaryJSON{ID: v.ID, Name: v.Name, NumUpcomingShows: v.UpcomingShows})
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "areas": areas})
}

type searchRequest struct {
    SearchTerm string `json:"search_term"`
}

// Search matches venue names case-insensitively.
func (h *VenueHandler) Search(c echo.Context) error {
    var req searchRequest
    if err := c.Bind(&req); err != nil {
        return err
    }
    h.Metrics.Search("venues")
    res, err := search.Run[model.VenueSummary](c.Request().Context(), h.Venues, req.SearchTerm)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"count": res.Count, "data": venueSummaries(res.Items)})
}

// Get returns a venue with its shows split around ?as_of (default now).
func (h *VenueHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    asOf, err := queryTime(c, "as_of")
    if err != nil {
        return err
    }
    ctx := c.Request().Context()
    v, err := h.Venues.GetByID(ctx, id)
    if err != nil {
        return err
    }
    split, err := h.Partitioner.Split(ctx, showtime.Venue(id), asOf)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, venueDetailJSON{
        venueJSON:          venueJSON{ID: v.ID, venueRequest: venueRequestFrom(v)},
        PastShows:          venueShows(split.Past),
        UpcomingShows:      venueShows(split.Upcoming),
        PastShowsCount:     len(split.Past),
        UpcomingShowsCount: len(split.Upcoming),
    })
}

// Create stores a new venue.
func (h *VenueHandler) Create(c echo.Context) error {
    var req venueRequest
    if err := bindValid(c, &req); err != nil {
        return err
    }
    v := req.model(0)
    if err := h.Venues.Create(c.Request().Context(), v); err != nil {
        return err
    }
    return c.JSON(http.StatusCreated, venueJSON{ID: v.ID, venueRequest: venueRequestFrom(v)})
}

// Update replaces a venue (PUT) or merges the sent fields into it (PATCH).
func (h *VenueHandler) Update(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    ctx := c.Request().Context()
    var req venueRequest
    if c.Request().Method == http.MethodPatch {
        cur, err := h.Venues.GetByID(ctx, id)
        if err != nil {
            return err
        }
        req = venueRequestFrom(cur)
    }
    if err := bindValid(c, &req); err != nil {
        return err
    }
    v := req.model(id)
    if err := h.Venues.Update(ctx, v); err != nil {
        return err
    }
    return c.JSON(http.StatusOK, venueJSON{ID: id, venueRequest: venueRequestFrom(v)})
}

// Delete removes a venue and its shows.
func (h *VenueHandler) Delete(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    if err := h.Venues.Delete(c.Request().Context(), id); err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "deleted": id})
}
