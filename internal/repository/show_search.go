package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/stagedoor/internal/apperr"
	"github.com/iliyamo/stagedoor/internal/model"
)

// ShowSearchQuery bounds a show search by start time.  Both ends are
// inclusive; a zero bound leaves that side open.
type ShowSearchQuery struct {
	From time.Time
	To   time.Time
}

// Between returns the shows whose start time lies within q, ordered by
// start time.  An inverted range is rejected.
func (r *ShowRepo) Between(ctx context.Context, q ShowSearchQuery) ([]model.ShowListing, error) {
	if !q.From.IsZero() && !q.To.IsZero() && q.To.Before(q.From) {
		return nil, fmt.Errorf("end_time before start_time: %w", apperr.ErrInvalidArgument)
	}

	cond := "1=1"
	args := []any{}
	if !q.From.IsZero() {
		cond += " AND s.start_time >= ?"
		args = append(args, q.From.UTC())
	}
	if !q.To.IsZero() {
		cond += " AND s.start_time <= ?"
		args = append(args, q.To.UTC())
	}
	return r.listings(ctx, listingSelect+` WHERE `+cond+listingOrder, args...)
}
