package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/stagedoor/internal/metrics"
    "github.com/iliyamo/stagedoor/internal/model"
    "github.com/iliyamo/stagedoor/internal/queue"
    "github.com/iliyamo/stagedoor/internal/repository"
)

// ShowPublisher announces created shows.  service.Publisher implements it.
type ShowPublisher interface {
    PublishShowScheduled(ctx context.Context, ev queue.ShowScheduledEvent) error
}

// ShowHandler serves /shows.
type ShowHandler struct {
    Shows     *repository.ShowRepo
    Artists   *repository.ArtistRepo
    Venues    *repository.VenueRepo
    Publisher ShowPublisher // optional
    Metrics   *metrics.Metrics
    Log       *zap.Logger
    Now       func() time.Time // defaults to time.Now
}

type showRequest struct {
    ArtistID  int64     `json:"artist_id" validate:"required,gt=0"`
    VenueID   int64     `json:"venue_id" validate:"required,gt=0"`
    StartTime time.Time `json:"start_time" validate:"required"`
}

type showJSON struct {
    VenueID         int64     `json:"venue_id"`
    VenueName       string    `json:"venue_name"`
    VenueImageLink  string    `json:"venue_image_link"`
    ArtistID        int64     `json:"artist_id"`
    ArtistName      string    `json:"artist_name"`
    ArtistImageLink string    `json:"artist_image_link"`
    StartTime       time.Time `json:"start_time"`
}

func showsJSON(in []model.ShowListing) []showJSON {
    out := make([]showJSON, 0, len(in))
    for _, s := range in {
        out = append(out, showJSON{
            VenueID: s.VenueID, VenueName: s.VenueName, VenueImageLink: s.VenueImageLink,
            ArtistID: s.ArtistID, ArtistName: s.ArtistName, ArtistImageLink: s.ArtistImageLink,
            StartTime: s.StartTime,
        })
    }
    return out
}

func (h *ShowHandler) now() time.Time {
    if h.Now != nil {
        return h.Now().UTC()
    }
    return time.Now().UTC()
}

// List returns every show ordered by start time.
func (h *ShowHandler) List(c echo.Context) error {
    shows, err := h.Shows.ListAll(c.Request().Context())
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"success": true, "shows": showsJSON(shows)})
}

// Search returns the shows starting within [start_time, end_time].  A
// missing bound defaults to now.
func (h *ShowHandler) Search(c echo.Context) error {
    from, err := queryTime(c, "start_time")
    if err != nil {
        return err
    }
    to, err := queryTime(c, "end_time")
    if err != nil {
        return err
    }
    now := h.now()
    if from.IsZero() {
        from = now
    }
    if to.IsZero() {
        to = now
    }
    shows, err := h.Shows.Between(c.Request().Context(), repository.ShowSearchQuery{From: from, To: to})
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"count": len(shows), "data": showsJSON(shows)})
}

// Create schedules a show and publishes a show.scheduled event.  The
// event is sent in the background; its failure never fails the request.
func (h *ShowHandler) Create(c echo.Context) error {
    var req showRequest
    if err := bindValid(c, &req); err != nil {
        return err
    }
    ctx := c.Request().Context()
    artist, err := h.Artists.GetByID(ctx, req.ArtistID)
    if err != nil {
        return err
    }
    venue, err := h.Venues.GetByID(ctx, req.VenueID)
    if err != nil {
        return err
    }
    s := &model.Show{ArtistID: artist.ID, VenueID: venue.ID, StartTime: req.StartTime}
    if err := h.Shows.Create(ctx, s); err != nil {
        return err
    }
    h.Metrics.ShowScheduled()

    out := showJSON{
        VenueID: venue.ID, VenueName: venue.Name, VenueImageLink: venue.ImageLink,
        ArtistID: artist.ID, ArtistName: artist.Name, ArtistImageLink: artist.ImageLink,
        StartTime: s.StartTime,
    }
    h.publish(ctx, queue.ShowScheduledEvent{
        ArtistID: artist.ID, ArtistName: artist.Name,
        VenueID: venue.ID, VenueName: venue.Name,
        StartTime:   s.StartTime.Format(time.RFC3339),
        ScheduledAt: h.now().Format(time.RFC3339),
    })
    return c.JSON(http.StatusCreated, out)
}

func (h *ShowHandler) publish(ctx context.Context, ev queue.ShowScheduledEvent) {
    if h.Publisher == nil {
        return
    }
    ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
    go func() {
        defer cancel()
        if err := h.Publisher.PublishShowScheduled(ctx, ev); err != nil && h.Log != nil {
            h.Log.Warn("show.scheduled not published",
                zap.Int64("artist_id", ev.ArtistID), zap.Int64("venue_id", ev.VenueID), zap.Error(err))
        }
    }()
}
