package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C) or chose to quit.
	ErrAborted = errors.New("tui: aborted")
	// ErrNoFrame is returned when a session runs before the controller has
	// rendered anything.
	ErrNoFrame = errors.New("tui: no frame rendered yet")
)
