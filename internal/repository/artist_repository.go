package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/stagedoor/internal/model"
)

// ArtistRepo manages persistence for artists.  Artist names are unique.
type ArtistRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewArtistRepo(db *sql.DB) *ArtistRepo {
	return &ArtistRepo{db: db, now: time.Now}
}

// Create inserts a and assigns the generated id back to it.  A name that
// is already taken yields an apperr.ErrConflict.
func (r *ArtistRepo) Create(ctx context.Context, a *model.Artist) error {
	genres, err := encodeGenres(a.Genres)
	if err != nil {
		return err
	}
	const q = `INSERT INTO artists (name, city, state, phone, genres, image_link,
		facebook_link, website_link, seeking_venue, seeking_description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.City, a.State, nullIfEmpty(a.Phone), genres,
		a.ImageLink, a.FacebookLink, a.WebsiteLink, a.SeekingVenue, a.SeekingDescription)
	if err != nil {
		return writeErr("artist", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

// GetByID returns the artist with the given id or ErrArtistNotFound.
func (r *ArtistRepo) GetByID(ctx context.Context, id int64) (*model.Artist, error) {
	const q = `SELECT id, name, city, state, phone, genres, image_link,
		facebook_link, website_link, seeking_venue, seeking_description
		FROM artists WHERE id = ?`
	var (
		a      model.Artist
		phone  sql.NullString
		genres string
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Name, &a.City, &a.State, &phone, &genres,
		&a.ImageLink, &a.FacebookLink, &a.WebsiteLink, &a.SeekingVenue, &a.SeekingDescription)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtistNotFound
		}
		return nil, err
	}
	a.Phone = phone.String
	if a.Genres, err = decodeGenres(genres); err != nil {
		return nil, err
	}
	return &a, nil
}

// Exists returns ErrArtistNotFound when no artist has the given id.
func (r *ArtistRepo) Exists(ctx context.Context, id int64) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM artists WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrArtistNotFound
	}
	return err
}

// Update overwrites every editable column of the artist identified by a.ID.
func (r *ArtistRepo) Update(ctx context.Context, a *model.Artist) error {
	genres, err := encodeGenres(a.Genres)
	if err != nil {
		return err
	}
	const q = `UPDATE artists SET name = ?, city = ?, state = ?, phone = ?, genres = ?, image_link = ?,
		facebook_link = ?, website_link = ?, seeking_venue = ?, seeking_description = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.City, a.State, nullIfEmpty(a.Phone), genres,
		a.ImageLink, a.FacebookLink, a.WebsiteLink, a.SeekingVenue, a.SeekingDescription, a.ID)
	if err != nil {
		return writeErr("artist", err)
	}
	return affected(res, ErrArtistNotFound)
}

// Delete removes the artist and, by cascade, its shows.
func (r *ArtistRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM artists WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res, ErrArtistNotFound)
}

// List returns every artist ordered by id.
func (r *ArtistRepo) List(ctx context.Context) ([]model.ArtistSummary, error) {
	const q = `SELECT a.id, a.name,
			COALESCE(SUM(CASE WHEN s.start_time >= ? THEN 1 ELSE 0 END), 0) AS upcoming
		FROM artists a
		LEFT JOIN shows s ON s.artist_id = a.id
		GROUP BY a.id, a.name
		ORDER BY a.id`
	return r.summaries(ctx, q, r.now().UTC())
}

// MatchName returns the artists whose lower-cased name matches the LIKE
// pattern, ordered by id.
func (r *ArtistRepo) MatchName(ctx context.Context, pattern string) ([]model.ArtistSummary, error) {
	const q = `SELECT a.id, a.name,
			COALESCE(SUM(CASE WHEN s.start_time >= ? THEN 1 ELSE 0 END), 0) AS upcoming
		FROM artists a
		LEFT JOIN shows s ON s.artist_id = a.id
		WHERE LOWER(a.name) LIKE ? ESCAPE '!'
		GROUP BY a.id, a.name
		ORDER BY a.id`
	return r.summaries(ctx, q, r.now().UTC(), pattern)
}

func (r *ArtistRepo) summaries(ctx context.Context, q string, args ...any) ([]model.ArtistSummary, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ArtistSummary, 0)
	for rows.Next() {
		var s model.ArtistSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.UpcomingShows); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
