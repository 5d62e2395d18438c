package graphql

import "errors"

// Errors returned when compiling a document. Selections that do not fit the
// schema are never errors; they are left out of the document.
var (
	// ErrRootNotFound is returned when the schema has no root type for the
	// operation kind.
	ErrRootNotFound = errors.New("query root was not found")
	// ErrFragmentConflict is returned when two different fragments are
	// registered under one name.
	ErrFragmentConflict = errors.New("conflicting fragment definitions")
	// ErrVariableConflict is returned when one variable name is bound to
	// arguments of different types.
	ErrVariableConflict = errors.New("conflicting variable bindings")
	// ErrVariableType is returned when typed variables are requested for a
	// variable whose argument declares no type.
	ErrVariableType = errors.New("variable has no declared type")
	// ErrInvalidOption is returned for an option of unknown type.
	ErrInvalidOption = errors.New("invalid option")
)
