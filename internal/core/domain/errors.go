package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingSpace indicates neither a space id nor a resolvable
	// space key was supplied for an operation that needs one.
	ErrMissingSpace = errors.New("missing space identifier")

	// ErrDuplicateID indicates two nodes in one export tree share an
	// id and the index was built in strict mode.
	ErrDuplicateID = errors.New("duplicate node id")

	// ErrMissingPage indicates an update was requested without a page id.
	ErrMissingPage = errors.New("missing page identifier")
)
