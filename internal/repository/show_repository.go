package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/stagedoor/internal/model"
	"github.com/iliyamo/stagedoor/internal/showtime"
)

// ShowRepo manages persistence for shows.  Shows are created and read,
// never updated; they are deleted only through their artist or venue.
// It implements showtime.Store.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// listingSelect joins a show with both endpoints.  Callers append the
// WHERE clause and the ordering.
const listingSelect = `SELECT s.artist_id, s.venue_id, s.start_time,
		a.name, a.image_link, v.name, v.image_link
	FROM shows s
	JOIN artists a ON a.id = s.artist_id
	JOIN venues  v ON v.id = s.venue_id`

const listingOrder = ` ORDER BY s.start_time, s.artist_id, s.venue_id`

// Create inserts a show.  The start time is stored in UTC, truncated to
// the second, and s is updated to match.  A show that already exists is
// a conflict; a missing artist or venue is an invalid argument.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	// Whole seconds: MySQL DATETIME would round anything finer, which
	// would make duplicate detection differ between stores.
	s.StartTime = s.StartTime.UTC().Truncate(time.Second)
	const q = `INSERT INTO shows (artist_id, venue_id, start_time) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, s.ArtistID, s.VenueID, s.StartTime); err != nil {
		return writeErr("show", err)
	}
	return nil
}

// Exists implements showtime.Store.
func (r *ShowRepo) Exists(ctx context.Context, ref showtime.Ref) error {
	table, notFound, ok := refTable(ref)
	if !ok {
		return fmt.Errorf("show store: %w", ref.Validate())
	}
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, ref.ID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return err
}

// Shows implements showtime.Store.  Bounds of rg are compared in UTC.
func (r *ShowRepo) Shows(ctx context.Context, ref showtime.Ref, rg showtime.Range) ([]model.ShowListing, error) {
	column := "s.venue_id"
	if ref.Kind == showtime.KindArtist {
		column = "s.artist_id"
	}
	where := []string{column + " = ?"}
	args := []any{ref.ID}
	if !rg.From.IsZero() {
		where = append(where, "s.start_time >= ?")
		args = append(args, rg.From.UTC())
	}
	if !rg.Until.IsZero() {
		where = append(where, "s.start_time < ?")
		args = append(args, rg.Until.UTC())
	}
	q := listingSelect + ` WHERE ` + strings.Join(where, " AND ") + listingOrder
	return r.listings(ctx, q, args...)
}

// ListAll returns every show with both endpoints, ordered by start time.
func (r *ShowRepo) ListAll(ctx context.Context) ([]model.ShowListing, error) {
	return r.listings(ctx, listingSelect+listingOrder)
}

func (r *ShowRepo) listings(ctx context.Context, q string, args ...any) ([]model.ShowListing, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ShowListing, 0)
	for rows.Next() {
		var l model.ShowListing
		if err := rows.Scan(&l.ArtistID, &l.VenueID, &l.StartTime,
			&l.ArtistName, &l.ArtistImageLink, &l.VenueName, &l.VenueImageLink); err != nil {
			return nil, err
		}
		l.StartTime = l.StartTime.UTC()
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// refTable maps a Ref kind to its table and not-found error.
func refTable(ref showtime.Ref) (table string, notFound error, ok bool) {
	switch ref.Kind {
	case showtime.KindArtist:
		return "artists", ErrArtistNotFound, true
	case showtime.KindVenue:
		return "venues", ErrVenueNotFound, true
	}
	return "", nil, false
}
