// Package apperr holds the error kinds shared by every layer of the
// application. Repositories wrap these sentinels into entity specific
// errors (see repository/errors.go) so that handlers can branch on the
// kind with errors.Is without knowing which entity failed.
package apperr

import "errors"

var (
	// ErrNotFound reports that a record addressed by its id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument reports malformed caller input (bad ids,
	// timestamps or request bodies). No partial result accompanies it.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict reports a write rejected by a uniqueness or
	// referential constraint.
	ErrConflict = errors.New("conflict")
)
