// Package search implements case-insensitive substring search over the
// name or title of stored entities.  Sources do the filtering in the
// store (SQL LIKE on a lower-cased column); this package owns the match
// rule, the pattern escaping and the result shape.
package search

import (
	"context"
	"fmt"
	"strings"
)

// EscapeChar is the LIKE escape character used by every pattern built
// by Pattern.  Queries must declare it with `ESCAPE '!'`; it is portable
// across MySQL and SQLite where a backslash is not.
const EscapeChar = '!'

// Result holds the matching entities in store order and their count.
type Result[T any] struct {
	Items []T
	Count int
}

// Source is a searchable collection.  MatchName returns every entity
// whose searchable field matches the LIKE pattern, ordered by id.
type Source[T any] interface {
	MatchName(ctx context.Context, pattern string) ([]T, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc[T any] func(ctx context.Context, pattern string) ([]T, error)

func (f SourceFunc[T]) MatchName(ctx context.Context, pattern string) ([]T, error) {
	return f(ctx, pattern)
}

// Run searches src for term.  Surrounding whitespace is ignored and an
// empty term matches everything.  An empty result is not an error.
func Run[T any](ctx context.Context, src Source[T], term string) (Result[T], error) {
	items, err := src.MatchName(ctx, Pattern(term))
	if err != nil {
		return Result[T]{}, fmt.Errorf("search: %w", err)
	}
	if items == nil {
		items = make([]T, 0)
	}
	return Result[T]{Items: items, Count: len(items)}, nil
}

// Pattern turns a search term into a lower-cased LIKE pattern matching
// the term anywhere in the value.  Wildcards in the term match
// literally.
func Pattern(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	var b strings.Builder
	b.Grow(len(term) + 2)
	b.WriteByte('%')
	for _, r := range term {
		switch r {
		case '%', '_', EscapeChar:
			b.WriteRune(EscapeChar)
		}
		b.WriteRune(r)
	}
	b.WriteByte('%')
	return b.String()
}

// Contains is the in-memory form of the match rule.
func Contains(value, term string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(strings.TrimSpace(term)))
}
