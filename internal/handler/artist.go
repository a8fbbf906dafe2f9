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

// ArtistHandler serves /artists.
type ArtistHandler struct {
    Artists     *repository.ArtistRepo
    Partitioner *showtime.Partitioner
    Metrics     *metrics.Metrics
}

type artistRequest struct {
    Name               string   `json:"name" validate:"required"`
    City               string   `json:"city" validate:"required"`
    State              string   `json:"state" validate:"required"`
    Phone              string   `json:"phone"`
    Genres             []string `json:"genres" validate:"required,min=1"`
    ImageLink          string   `json:"image_link" validate:"omitempty,url"`
    FacebookLink       string   `json:"facebook_link" validate:"omitempty,url"`
    WebsiteLink        string   `json:"website_link" validate:"omitempty,url"`
    SeekingVenue       bool     `json:"seeking_venue"`
    SeekingDescription string   `json:"seeking_description"`
}

func (r artistRequest) model(id int64) *model.Artist {
    return &model.Artist{
        ID: id, Name: r.Name, City: r.City, State: r.State, Phone: r.Phone, Genres: r.Genres,
        ImageLink: r.ImageLink, FacebookLink: r.FacebookLink, WebsiteLink: r.WebsiteLink,
        SeekingVenue: r.SeekingVenue, SeekingDescription: r.SeekingDescription,
    }
}

func artistRequestFrom(a *model.Artist) artistRequest {
    return artistRequest{
        Name: a.Name, City: a.City, State: a.State, Phone: a.Phone, Genres: a.Genres,
        ImageLink: a.ImageLink, FacebookLink: a.FacebookLink, WebsiteLink: a.WebsiteLink,
        SeekingVenue: a.SeekingVenue, SeekingDescription: a.SeekingDescription,
    }
}

type artistJSON struct {
    ID int64 `json:"id"`
    artistRequest
}

// artistShowJSON is a show on an artist page: the venue side.
type artistShowJSON struct {
    VenueID        int64     `json:"venue_id"`
    VenueName      string    `json:"venue_name"`
    VenueImageLink string    `json:"venue_image_link"`
    StartTime      time.Time `json:"start_time"`
}

type artistDetailJSON struct {
    artistJSON
    PastShows          []artistShowJSON `json:"past_shows"`
    UpcomingShows      []artistShowJSON `json:"upcoming_shows"`
    PastShowsCount     int              `json:"past_shows_count"`
    UpcomingShowsCount int              `json:"upcoming_shows_count"`
}

type artistSummaryJSON struct {
    ID               int64  `json:"id"`
    Name             string `json:"name"`
    NumUpcomingShows int    `json:"num_upcoming_shows"`
}

func artistShows(in []model.ShowListing) []artistShowJSON {
    out := make([]artistShowJSON, 0, len(in))
    for _, s := range in {
        out = append(out, artistShowJSON{
            VenueID: s.VenueID, VenueName: s.VenueName, VenueImageLink: s.VenueImageLink, StartTime: s.StartTime,
        })
    }
    return out
}

// List returns every artist as {id, name}.
func (h *ArtistHandler) List(c echo.Context) error {
    artists, err := h.Artists.List(c.Request().Context())
    if err != nil {
        return err
    }
    type item struct {
        ID   int64  `json:"id"`
        Name string `json:"name"`
    }
    out := make([]item, 0, len(artists))
    for _, a := range artists {
        out = append(out, item{ID: a.ID, Name: a.Name})
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "artists": out})
}

// Search matches artist names case-insensitively.
func (h *ArtistHandler) Search(c echo.Context) error {
    var req searchRequest
    if err := c.Bind(&req); err != nil {
        return err
    }
    h.Metrics.Search("artists")
    res, err := search.Run[model.ArtistSummary](c.Request().Context(), h.Artists, req.SearchTerm)
    if err != nil {
        return err
    }
    data := make([]artistSummaryJSON, 0, res.Count)
    for _, a := range res.Items {
        data = append(data, artistSummaryJSON{ID: a.ID, Name: a.Name, NumUpcomingShows: a.UpcomingShows})
    }
    return c.JSON(http.StatusOK, echo.Map{"count": res.Count, "data": data})
}

// Get returns an artist with its shows split around ?as_of (default now).
func (h *ArtistHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    asOf, err := queryTime(c, "as_of")
    if err != nil {
        return err
    }
    ctx := c.Request().Context()
    a, err := h.Artists.GetByID(ctx, id)
    if err != nil {
        return err
    }
    split, err := h.Partitioner.Split(ctx, showtime.Artist(id), asOf)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, artistDetailJSON{
        artistJSON:         artistJSON{ID: a.ID, artistRequest: artistRequestFrom(a)},
        PastShows:          artistShows(split.Past),
        UpcomingShows:      artistShows(split.Upcoming),
        PastShowsCount:     len(split.Past),
        UpcomingShowsCount: len(split.Upcoming),
    })
}

// Create stores a new artist.  Names are unique (409 on reuse).
func (h *ArtistHandler) Create(c echo.Context) error {
    var req artistRequest
    if err := bindValid(c, &req); err != nil {
        return err
    }
    a := req.model(0)
    if err := h.Artists.Create(c.Request().Context(), a); err != nil {
        return err
    }
    return c.JSON(http.StatusCreated, artistJSON{ID: a.ID, artistRequest: artistRequestFrom(a)})
}

// Update replaces (PUT) or patches (PATCH) an artist.
func (h *ArtistHandler) Update(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    ctx := c.Request().Context()
    var req artistRequest
    if c.Request().Method == http.MethodPatch {
        cur, err := h.Artists.GetByID(ctx, id)
        if err != nil {
            return err
        }
        req = artistRequestFrom(cur)
    }
    if err := bindValid(c, &req); err != nil {
        return err
    }
    a := req.model(id)
    if err := h.Artists.Update(ctx, a); err != nil {
        return err
    }
    return c.JSON(http.StatusOK, artistJSON{ID: id, artistRequest: artistRequestFrom(a)})
}

// Delete removes an artist and its shows.
func (h *ArtistHandler) Delete(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    if err := h.Artists.Delete(c.Request().Context(), id); err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "deleted": id})
}
