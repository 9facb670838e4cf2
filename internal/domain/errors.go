package domain

import "github.com/rotisserie/eris"

var (
	// ErrInvalidInput marks a record that cannot be processed, e.g. a property without an address.
	ErrInvalidInput = eris.New("invalid input")
	// ErrMissingCollaborator marks a required lookup collection that was not supplied at all.
	ErrMissingCollaborator = eris.New("missing collaborator")
	ErrNotFound            = eris.New("not found")
)
