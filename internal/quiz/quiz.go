// Package quiz selects the next question of a trivia quiz.  A quiz
// session lives entirely on the client: it sends the ids it has already
// seen and gets back a random question it has not, or nothing once the
// pool is exhausted.
package quiz

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/iliyamo/stagedoor/internal/apperr"
	"github.com/iliyamo/stagedoor/internal/model"
)

// Category is the quiz category sent by the client.  ID 0 means all
// categories.
type Category struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// Request is the body of POST /quizzes.
type Request struct {
	PreviousQuestions []int64   `json:"previous_questions"`
	QuizCategory      *Category `json:"quiz_category"`
}

// Validate checks the request before any store access.
func (r Request) Validate() error {
	if r.PreviousQuestions == nil {
		return fmt.Errorf("previous_questions is required: %w", apperr.ErrInvalidArgument)
	}
	if r.QuizCategory == nil {
		return fmt.Errorf("quiz_category is required: %w", apperr.ErrInvalidArgument)
	}
	if r.QuizCategory.ID < 0 {
		return fmt.Errorf("quiz_category.id must not be negative: %w", apperr.ErrInvalidArgument)
	}
	return validateIDs(r.PreviousQuestions)
}

func validateIDs(ids []int64) error {
	for _, id := range ids {
		if id <= 0 {
			return fmt.Errorf("previous question id %d is not positive: %w", id, apperr.ErrInvalidArgument)
		}
	}
	return nil
}

// Store returns the questions eligible for a quiz: every question not in
// excluded, limited to categoryID unless it is zero.
type Store interface {
	EligibleQuestions(ctx context.Context, categoryID int64, excluded []int64) ([]model.Question, error)
}

// Selector picks questions uniformly at random from the eligible pool.
// It holds no per-session state.
type Selector struct {
	store Store
	pick  func(n int) int
}

// Option customises a Selector.
type Option func(*Selector)

// WithPicker replaces the random index source.  pick(n) must return a
// value in [0, n) and be safe for concurrent use.
func WithPicker(pick func(n int) int) Option {
	return func(s *Selector) { s.pick = pick }
}

// NewSelector returns a Selector reading from store.
func NewSelector(store Store, opts ...Option) *Selector {
	if store == nil {
		panic("nil store passed to NewSelector")
	}
	s := &Selector{store: store, pick: rand.IntN}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Next returns a random question from the eligible pool, or nil when no
// question is left.
func (s *Selector) Next(ctx context.Context, categoryID int64, excluded []int64) (*model.Question, error) {
	const op = "quiz.Selector.Next"

	if categoryID < 0 {
		return nil, fmt.Errorf("%s: negative category id: %w", op, apperr.ErrInvalidArgument)
	}
	if err := validateIDs(excluded); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pool, err := s.store.EligibleQuestions(ctx, categoryID, dedupe(excluded))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(pool) == 0 {
		return nil, nil
	}
	q := pool[s.pick(len(pool))]
	return &q, nil
}

// NextFor is Next driven by a client request.
func (s *Selector) NextFor(ctx context.Context, req Request) (*model.Question, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.Next(ctx, req.QuizCategory.ID, req.PreviousQuestions)
}

func dedupe(ids []int64) []int64 {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
