// Package showtime splits the shows of an artist or a venue into past
// and upcoming sets.  Membership is derived from the comparison instant
// at read time: a show is past when it started strictly before the
// instant and upcoming otherwise, so the boundary instant is upcoming.
package showtime

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/stagedoor/internal/apperr"
	"github.com/iliyamo/stagedoor/internal/model"
)

// Kind names the side of the show relation a Ref points at.
type Kind string

const (
	KindArtist Kind = "artist"
	KindVenue  Kind = "venue"
)

// Ref identifies an artist or a venue.
type Ref struct {
	Kind Kind
	ID   int64
}

// Artist returns a Ref to the artist with the given id.
func Artist(id int64) Ref { return Ref{Kind: KindArtist, ID: id} }

// Venue returns a Ref to the venue with the given id.
func Venue(id int64) Ref { return Ref{Kind: KindVenue, ID: id} }

func (r Ref) String() string { return fmt.Sprintf("%s %d", r.Kind, r.ID) }

// Validate rejects unknown kinds and non-positive ids.
func (r Ref) Validate() error {
	if r.Kind != KindArtist && r.Kind != KindVenue {
		return fmt.Errorf("unknown entity kind %q: %w", r.Kind, apperr.ErrInvalidArgument)
	}
	if r.ID <= 0 {
		return fmt.Errorf("invalid %s id %d: %w", r.Kind, r.ID, apperr.ErrInvalidArgument)
	}
	return nil
}

// Range is a half-open interval [From, Until) over show start times.
// A zero bound leaves that side open.
type Range struct {
	From  time.Time
	Until time.Time
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.Until.IsZero() && !t.Before(r.Until) {
		return false
	}
	return true
}

// Store is the persistence boundary of the partitioner.  Exists returns
// an error wrapping apperr.ErrNotFound when the entity is missing.
// Shows returns the shows referencing ref whose start time lies in r,
// ordered by start time, joined with the display attributes of the
// other endpoint.
type Store interface {
	Exists(ctx context.Context, ref Ref) error
	Shows(ctx context.Context, ref Ref, r Range) ([]model.ShowListing, error)
}

// Partition is the result of Split: every show of the entity lands in
// exactly one of the two slices.
type Partition struct {
	Past     []model.ShowListing
	Upcoming []model.ShowListing
}

// Split partitions shows around asOf.  Input order is preserved within
// each half.
func Split(shows []model.ShowListing, asOf time.Time) Partition {
	p := Partition{
		Past:     make([]model.ShowListing, 0),
		Upcoming: make([]model.ShowListing, 0),
	}
	for _, s := range shows {
		if s.StartTime.Before(asOf) {
			p.Past = append(p.Past, s)
		} else {
			p.Upcoming = append(p.Upcoming, s)
		}
	}
	return p
}
