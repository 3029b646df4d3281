package formctl

import "errors"

var (
	// ErrDisabled is returned for input received while the form is disabled.
	ErrDisabled = errors.New("formctl: form is disabled")
	// ErrNotStarted is returned by Wait before Start.
	ErrNotStarted = errors.New("formctl: controller not started")
	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("formctl: controller already started")
)
