package pru

import "errors"

var (
	// ErrNotInitialized indicates a transfer started before Initialize.
	ErrNotInitialized = errors.New("pru: not initialized")
	// ErrMediumClosed indicates the medium was closed while capturing.
	ErrMediumClosed = errors.New("pru: medium closed")
	// ErrMapUnsupported indicates memory mapping is unavailable.
	ErrMapUnsupported = errors.New("pru: memory mapping unsupported")
)
