package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/stagedoor/internal/model"
)

// VenueRepo manages persistence for venues.
type VenueRepo struct {
	db  *sql.DB
	now func() time.Time // instant used for upcoming show counts
}

// NewVenueRepo constructs a VenueRepo with the given DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db, now: time.Now}
}

const venueColumns = `id, name, city, state, address, phone, genres, image_link,
	facebook_link, website_link, seeking_talent, seeking_description`

// Create inserts v and assigns the generated id back to it.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	genres, err := encodeGenres(v.Genres)
	if err != nil {
		return err
	}
	const q = `INSERT INTO venues (name, city, state, address, phone, genres, image_link,
		facebook_link, website_link, seeking_talent, seeking_description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.City, v.State, v.Address, nullIfEmpty(v.Phone),
		genres, v.ImageLink, v.FacebookLink, v.WebsiteLink, v.SeekingTalent, v.SeekingDescription)
	if err != nil {
		return writeErr("venue", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = id
	return nil
}

// GetByID returns the venue with the given id or ErrVenueNotFound.
func (r *VenueRepo) GetByID(ctx context.Context, id int64) (*model.Venue, error) {
	q := `SELECT ` + venueColumns + ` FROM venues WHERE id = ?`
	var (
		v      model.Venue
		phone  sql.NullString
		genres string
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&v.ID, &v.Name, &v.City, &v.State, &v.Address,
		&phone, &genres, &v.ImageLink, &v.FacebookLink, &v.WebsiteLink, &v.SeekingTalent, &v.SeekingDescription)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	v.Phone = phone.String
	if v.Genres, err = decodeGenres(genres); err != nil {
		return nil, err
	}
	return &v, nil
}

// Exists returns ErrVenueNotFound when no venue has the given id.
func (r *VenueRepo) Exists(ctx context.Context, id int64) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM venues WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrVenueNotFound
	}
	return err
}

// Update overwrites every editable column of the venue identified by v.ID.
func (r *VenueRepo) Update(ctx context.Context, v *model.Venue) error {
	genres, err := encodeGenres(v.Genres)
	if err != nil {
		return err
	}
	const q = `UPDATE venues SET name = ?, city = ?, state = ?, address = ?, phone = ?, genres = ?,
		image_link = ?, facebook_link = ?, website_link = ?, seeking_talent = ?, seeking_description = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.City, v.State, v.Address, nullIfEmpty(v.Phone),
		genres, v.ImageLink, v.FacebookLink, v.WebsiteLink, v.SeekingTalent, v.SeekingDescription, v.ID)
	if err != nil {
		return writeErr("venue", err)
	}
	return affected(res, ErrVenueNotFound)
}

// Delete removes the venue.  Its shows go with it (ON DELETE CASCADE).
func (r *VenueRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res, ErrVenueNotFound)
}

// List returns every venue ordered by state, city and id, with the
// number of shows starting at or after now.
func (r *VenueRepo) List(ctx context.Context) ([]model.VenueSummary, error) {
	const q = `SELECT v.id, v.name, v.city, v.state,
			COALESCE(SUM(CASE WHEN s.start_time >= ? THEN 1 ELSE 0 END), 0) AS upcoming
		FROM venues v
		LEFT JOIN shows s ON s.venue_id = v.id
		GROUP BY v.id, v.name, v.city, v.state
		ORDER BY v.state, v.city, v.id`
	return r.summaries(ctx, q, r.now().UTC())
}

// MatchName returns the venues whose lower-cased name matches the LIKE
// pattern, ordered by id.  It makes VenueRepo a search.Source.
func (r *VenueRepo) MatchName(ctx context.Context, pattern string) ([]model.VenueSummary, error) {
	const q = `SELECT v.id, v.name, v.city, v.state,
			COALESCE(SUM(CASE WHEN s.start_time >= ? THEN 1 ELSE 0 END), 0) AS upcoming
		FROM venues v
		LEFT JOIN shows s ON s.venue_id = v.id
		WHERE LOWER(v.name) LIKE ? ESCAPE '!'
		GROUP BY v.id, v.name, v.city, v.state
		ORDER BY v.id`
	return r.summaries(ctx, q, r.now().UTC(), pattern)
}

func (r *VenueRepo) summaries(ctx context.Context, q string, args ...any) ([]model.VenueSummary, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.VenueSummary, 0)
	for rows.Next() {
		var s model.VenueSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.City, &s.State, &s.UpcomingShows); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
