package environment

import "errors"

var (
	// ErrNotInitialized is returned when configuration is read before an
	// environment has been selected.
	ErrNotInitialized = errors.New("environment has not been selected")
	// ErrAlreadyInitialized is returned when Set is called after a
	// successful selection has already been made.
	ErrAlreadyInitialized = errors.New("environment has already been selected")
	// ErrUnknownEnvironment is returned when Set names an identifier that
	// is absent from the registry's mapping.
	ErrUnknownEnvironment = errors.New("unknown environment identifier")
)
