package showtime

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/stagedoor/internal/model"
)

// Partitioner answers past/upcoming queries against a Store.  It keeps
// no state between calls.
type Partitioner struct {
	store Store
	now   func() time.Time
}

// Option customises a Partitioner.
type Option func(*Partitioner)

// WithClock replaces time.Now as the source of "now".
func WithClock(now func() time.Time) Option {
	return func(p *Partitioner) { p.now = now }
}

// NewPartitioner returns a Partitioner reading from store.
func NewPartitioner(store Store, opts ...Option) *Partitioner {
	if store == nil {
		panic("nil store passed to NewPartitioner")
	}
	p := &Partitioner{store: store, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Past returns the shows of ref that started before asOf.  A zero asOf
// means now.
func (p *Partitioner) Past(ctx context.Context, ref Ref, asOf time.Time) ([]model.ShowListing, error) {
	return p.query(ctx, ref, Range{Until: p.instant(asOf)})
}

// Upcoming returns the shows of ref starting at or after asOf.  A zero
// asOf means now.
func (p *Partitioner) Upcoming(ctx context.Context, ref Ref, asOf time.Time) ([]model.ShowListing, error) {
	return p.query(ctx, ref, Range{From: p.instant(asOf)})
}

// Split reads every show of ref once and partitions the result in
// memory, so both halves come from the same snapshot.
func (p *Partitioner) Split(ctx context.Context, ref Ref, asOf time.Time) (Partition, error) {
	shows, err := p.query(ctx, ref, Range{})
	if err != nil {
		return Partition{}, err
	}
	return Split(shows, p.instant(asOf)), nil
}

func (p *Partitioner) query(ctx context.Context, ref Ref, r Range) ([]model.ShowListing, error) {
	const op = "showtime.Partitioner"

	if err := ref.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := p.store.Exists(ctx, ref); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	shows, err := p.store.Shows(ctx, ref, r)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, ref, err)
	}
	if shows == nil {
		shows = make([]model.ShowListing, 0)
	}
	return shows, nil
}

func (p *Partitioner) instant(asOf time.Time) time.Time {
	if asOf.IsZero() {
		return p.now().UTC()
	}
	return asOf.UTC()
}
