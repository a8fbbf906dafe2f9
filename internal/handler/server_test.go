package handler_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/stagedoor/internal/database"
	"github.com/iliyamo/stagedoor/internal/handler"
	"github.com/iliyamo/stagedoor/internal/metrics"
	"github.com/iliyamo/stagedoor/internal/queue"
	"github.com/iliyamo/stagedoor/internal/quiz"
	"github.com/iliyamo/stagedoor/internal/repository"
	"github.com/iliyamo/stagedoor/internal/router"
	"github.com/iliyamo/stagedoor/internal/showtime"
)

const jwtSecret = "handler-test-secret"

type fakePublisher struct {
	events chan queue.ShowScheduledEvent
}

func (p *fakePublisher) PublishShowScheduled(_ context.Context, ev queue.ShowScheduledEvent) error {
	p.events <- ev
	return nil
}

type testServer struct {
	t   *testing.T
	e   *echo.Echo
	db  *sql.DB
	pub *fakePublisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.MigrateSQLite(db, "../../migrations/sqlite3"))

	log := zap.NewNop()
	m := metrics.New()
	pub := &fakePublisher{events: make(chan queue.ShowScheduledEvent, 8)}

	venues, artists, shows := repository.NewVenueRepo(db), repository.NewArtistRepo(db), repository.NewShowRepo(db)
	questions := repository.NewQuestionRepo(db)
	part := showtime.NewPartitioner(shows)

	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(log)
	e.Use(m.Middleware())

	router.RegisterRoutes(e, db, m)
	router.RegisterBooking(e,
		&handler.VenueHandler{Venues: venues, Partitioner: part, Metrics: m},
		&handler.ArtistHandler{Artists: artists, Partitioner: part, Metrics: m},
		&handler.ShowHandler{Shows: shows, Artists: artists, Venues: venues, Publisher: pub, Metrics: m, Log: log},
		router.Caching{},
	)
	router.RegisterTrivia(e, &handler.TriviaHandler{
		Categories: repository.NewCategoryRepo(db),
		Questions:  questions,
		Selector:   quiz.NewSelector(questions),
		PerPage:    2,
		Metrics:    m,
	}, router.Caching{})
	router.RegisterCoffee(e, &handler.DrinkHandler{Drinks: repository.NewDrinkRepo(db)}, jwtSecret)

	return &testServer{t: t, e: e, db: db, pub: pub}
}

// do sends body (marshalled to JSON unless it is a string) and returns
// the recorder.  headers are key/value pairs.
func (s *testServer) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(s.t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// createdID posts body to path and returns the "id" of the response.
func (s *testServer) createdID(path string, body any) int64 {
	s.t.Helper()
	rec := s.do(http.MethodPost, path, body)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return int64(decode(s.t, rec)["id"].(float64))
}

func venueBody(name, city, state string) map[string]any {
	return map[string]any{
		"name":       name,
		"city":       city,
		"state":      state,
		"address":    "1015 Folsom Street",
		"genres":     []string{"Jazz", "Reggae"},
		"image_link": "https://images.example.com/venue.jpg",
	}
}

func artistBody(name string) map[string]any {
	return map[string]any{
		"name":       name,
		"city":       "San Francisco",
		"state":      "CA",
		"genres":     []string{"Rock n Roll"},
		"image_link": "https://images.example.com/artist.jpg",
	}
}

func showBody(artistID, venueID int64, at time.Time) map[string]any {
	return map[string]any{"artist_id": artistID, "venue_id": venueID, "start_time": at.Format(time.RFC3339)}
}
