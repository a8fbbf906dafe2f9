package repository

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/stagedoor/internal/apperr"
	"github.com/iliyamo/stagedoor/internal/model"
	"github.com/iliyamo/stagedoor/internal/search"
	"github.com/iliyamo/stagedoor/internal/showtime"
)

func TestArtistRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewArtistRepo(newTestDB(t))

	a := fakeArtist(gofakeit.Name())
	a.SeekingVenue = true
	id := mustCreateArtist(t, repo, a)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, a, got)

	got.Phone = "300-400-5000"
	require.NoError(t, repo.Update(ctx, got))
	got2, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "300-400-5000", got2.Phone)

	_, err = repo.GetByID(ctx, id+100)
	assert.ErrorIs(t, err, ErrArtistNotFound)
}

func TestArtistRepo_NameIsUnique(t *testing.T) {
	repo := NewArtistRepo(newTestDB(t))
	mustCreateArtist(t, repo, fakeArtist("The Wild Sax Band"))

	err := repo.Create(context.Background(), fakeArtist("The Wild Sax Band"))
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestArtistRepo_DeleteCascadesShows(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	artists, venues, shows := NewArtistRepo(db), NewVenueRepo(db), NewShowRepo(db)

	art := mustCreateArtist(t, artists, fakeArtist("Matt Quevedo"))
	ven := mustCreateVenue(t, venues, fakeVenue("Park Square Live", "NY", "New York"))
	mustCreateShow(t, shows, art, ven, time.Now().Add(time.Hour))

	require.NoError(t, artists.Delete(ctx, art))

	left, err := shows.Shows(ctx, showtime.Venue(ven), showtime.Range{})
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestArtistRepo_ListAndMatchName(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	artists, venues, shows := NewArtistRepo(db), NewVenueRepo(db), NewShowRepo(db)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	artists.now = fixedClock(now)

	gnp := mustCreateArtist(t, artists, fakeArtist("Guns N Petals"))
	mq := mustCreateArtist(t, artists, fakeArtist("Matt Quevedo"))
	wsb := mustCreateArtist(t, artists, fakeArtist("The Wild Sax Band"))
	ven := mustCreateVenue(t, venues, fakeVenue("The Musical Hop", "CA", "San Francisco"))
	mustCreateShow(t, shows, wsb, ven, now.Add(time.Hour))
	mustCreateShow(t, shows, wsb, ven, now.Add(-time.Hour))

	list, err := artists.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, gnp, list[0].ID)
	assert.Equal(t, 1, list[2].UpcomingShows)

	found, err := artists.MatchName(ctx, search.Pattern("A"))
	require.NoError(t, err)
	require.Len(t, found, 3)

	found, err = artists.MatchName(ctx, search.Pattern("band"))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, wsb, found[0].ID)
	assert.NotEqual(t, mq, found[0].ID)
}

func TestArtistRepo_MatchNameFoldsNonASCII(t *testing.T) {
	repo := NewArtistRepo(newTestDB(t))
	id := mustCreateArtist(t, repo, fakeArtist("BJÖRK GUÐMUNDSDÓTTIR"))

	res, err := search.Run[model.ArtistSummary](context.Background(), repo, "björk")
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, id, res.Items[0].ID)
}
