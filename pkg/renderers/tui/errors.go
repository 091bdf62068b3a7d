package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrUnsupportedControl is returned by EditForm for a field whose control
	// has no terminal editor.
	ErrUnsupportedControl = errors.New("tui: unsupported control")
	// ErrInvalidForm is returned by EditForm when validation still fails
	// after every field was edited.
	ErrInvalidForm = errors.New("tui: form is invalid")
)
