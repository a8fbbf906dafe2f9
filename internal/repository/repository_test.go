package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/stagedoor/internal/database"
	"github.com/iliyamo/stagedoor/internal/model"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.MigrateSQLite(db, "../../migrations/sqlite3"))
	return db
}

func fakeVenue(name, state, city string) *model.Venue {
	return &model.Venue{
		Name:      name,
		City:      city,
		State:     state,
		Address:   gofakeit.Street(),
		Genres:    []string{"Jazz", "Folk"},
		ImageLink: gofakeit.URL(),
	}
}

func fakeArtist(name string) *model.Artist {
	return &model.Artist{
		Name:      name,
		City:      gofakeit.City(),
		State:     "CA",
		Genres:    []string{"Rock n Roll"},
		ImageLink: gofakeit.URL(),
	}
}

func mustCreateVenue(t *testing.T, r *VenueRepo, v *model.Venue) int64 {
	t.Helper()
	require.NoError(t, r.Create(context.Background(), v))
	return v.ID
}

func mustCreateArtist(t *testing.T, r *ArtistRepo, a *model.Artist) int64 {
	t.Helper()
	require.NoError(t, r.Create(context.Background(), a))
	return a.ID
}

func mustCreateShow(t *testing.T, r *ShowRepo, artistID, venueID int64, at time.Time) {
	t.Helper()
	require.NoError(t, r.Create(context.Background(), &model.Show{ArtistID: artistID, VenueID: venueID, StartTime: at}))
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
