package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/stagedoor/internal/apperr"
	"github.com/iliyamo/stagedoor/internal/model"
	"github.com/iliyamo/stagedoor/internal/showtime"
)

type showFixture struct {
	shows         *ShowRepo
	artist, venue int64
	other         int64 // second venue
	now           time.Time
}

func newShowFixture(t *testing.T) showFixture {
	db := newTestDB(t)
	f := showFixture{shows: NewShowRepo(db), now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	f.artist = mustCreateArtist(t, NewArtistRepo(db), fakeArtist("Guns N Petals"))
	venues := NewVenueRepo(db)
	f.venue = mustCreateVenue(t, venues, fakeVenue("The Musical Hop", "CA", "San Francisco"))
	f.other = mustCreateVenue(t, venues, fakeVenue("Park Square Live", "NY", "New York"))
	return f
}

func TestShowRepo_CreateRejectsDuplicatesAndDanglingRefs(t *testing.T) {
	f := newShowFixture(t)
	ctx := context.Background()

	mustCreateShow(t, f.shows, f.artist, f.venue, f.now)

	err := f.shows.Create(ctx, &model.Show{ArtistID: f.artist, VenueID: f.venue, StartTime: f.now})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	err = f.shows.Create(ctx, &model.Show{ArtistID: 999, VenueID: f.venue, StartTime: f.now})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestShowRepo_CreateTruncatesToSecond(t *testing.T) {
	f := newShowFixture(t)
	ctx := context.Background()

	s := &model.Show{ArtistID: f.artist, VenueID: f.venue, StartTime: f.now.Add(400 * time.Millisecond)}
	require.NoError(t, f.shows.Create(ctx, s))
	assert.Equal(t, f.now, s.StartTime)

	// Same second, different fraction: still the same show.
	err := f.shows.Create(ctx, &model.Show{ArtistID: f.artist, VenueID: f.venue, StartTime: f.now.Add(700 * time.Millisecond)})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	got, err := f.shows.Shows(ctx, showtime.Venue(f.venue), showtime.Range{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, f.now.Equal(got[0].StartTime))
}

func TestShowRepo_ShowsJoinsAndFiltersByRange(t *testing.T) {
	f := newShowFixture(t)
	ctx := context.Background()

	mustCreateShow(t, f.shows, f.artist, f.venue, f.now.Add(24*time.Hour))
	mustCreateShow(t, f.shows, f.artist, f.venue, f.now.Add(-24*time.Hour))
	mustCreateShow(t, f.shows, f.artist, f.venue, f.now)
	mustCreateShow(t, f.shows, f.artist, f.other, f.now.Add(time.Hour))

	all, err := f.shows.Shows(ctx, showtime.Venue(f.venue), showtime.Range{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].StartTime.Equal(f.now.Add(-24*time.Hour)))
	assert.Equal(t, "Guns N Petals", all[0].ArtistName)
	assert.Equal(t, "The Musical Hop", all[0].VenueName)
	assert.Equal(t, time.UTC, all[0].StartTime.Location())

	up, err := f.shows.Shows(ctx, showtime.Venue(f.venue), showtime.Range{From: f.now})
	require.NoError(t, err)
	assert.Len(t, up, 2)

	past, err := f.shows.Shows(ctx, showtime.Venue(f.venue), showtime.Range{Until: f.now})
	require.NoError(t, err)
	assert.Len(t, past, 1)

	byArtist, err := f.shows.Shows(ctx, showtime.Artist(f.artist), showtime.Range{})
	require.NoError(t, err)
	assert.Len(t, byArtist, 4)
}

func TestShowRepo_Exists(t *testing.T) {
	f := newShowFixture(t)
	ctx := context.Background()

	assert.NoError(t, f.shows.Exists(ctx, showtime.Artist(f.artist)))
	assert.ErrorIs(t, f.shows.Exists(ctx, showtime.Artist(f.artist+50)), ErrArtistNotFound)
	assert.ErrorIs(t, f.shows.Exists(ctx, showtime.Venue(f.venue+50)), ErrVenueNotFound)
	assert.ErrorIs(t, f.shows.Exists(ctx, showtime.Ref{Kind: "band", ID: 1}), apperr.ErrInvalidArgument)
}

func TestShowRepo_PartitionerDayBeforeAndAfter(t *testing.T) {
	f := newShowFixture(t)
	before, after := f.now.Add(-24*time.Hour), f.now.Add(24*time.Hour)
	mustCreateShow(t, f.shows, f.artist, f.venue, before)
	mustCreateShow(t, f.shows, f.artist, f.venue, after)

	p := showtime.NewPartitioner(f.shows, showtime.WithClock(fixedClock(f.now)))
	split, err := p.Split(context.Background(), showtime.Venue(f.venue), time.Time{})
	require.NoError(t, err)
	require.Len(t, split.Past, 1)
	require.Len(t, split.Upcoming, 1)
	assert.True(t, split.Past[0].StartTime.Equal(before))
	assert.True(t, split.Upcoming[0].StartTime.Equal(after))

	past, err := p.Past(context.Background(), showtime.Venue(f.venue), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, split.Past, past)

	_, err = p.Upcoming(context.Background(), showtime.Venue(f.venue+9), time.Time{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestShowRepo_ListAllAndBetween(t *testing.T) {
	f := newShowFixture(t)
	ctx := context.Background()

	mustCreateShow(t, f.shows, f.artist, f.other, f.now.Add(2*time.Hour))
	mustCreateShow(t, f.shows, f.artist, f.venue, f.now)
	mustCreateShow(t, f.shows, f.artist, f.venue, f.now.Add(72*time.Hour))

	all, err := f.shows.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].StartTime.Equal(f.now))

	in, err := f.shows.Between(ctx, ShowSearchQuery{From: f.now, To: f.now.Add(2 * time.Hour)})
	require.NoError(t, err)
	assert.Len(t, in, 2)

	open, err := f.shows.Between(ctx, ShowSearchQuery{From: f.now.Add(time.Hour)})
	require.NoError(t, err)
	assert.Len(t, open, 2)

	_, err = f.shows.Between(ctx, ShowSearchQuery{From: f.now, To: f.now.Add(-time.Second)})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}
