package listcontrol

import "errors"

// ValidationResult is the outcome of a single validation pass. No state is
// carried between evaluations.
type ValidationResult int

const (
	// OK means the collection can be accepted by the host.
	OK ValidationResult = iota
	// EmptyButRequired means the control is required and holds no items.
	EmptyButRequired
	// EntriesInvalid means at least one item is not well formed.
	EntriesInvalid
)

// Error keys hosts use to map results onto their own reporting vocabulary.
const (
	ErrorKeyRequired       = "required"
	ErrorKeyEntriesInvalid = "entries-invalid"
)

var (
	// ErrRequired is returned by Err for EmptyButRequired.
	ErrRequired = errors.New("listcontrol: value is required")
	// ErrEntriesInvalid is returned by Err for EntriesInvalid.
	ErrEntriesInvalid = errors.New("listcontrol: one or more entries are invalid")
)

// Valid reports whether the result is OK.
func (r ValidationResult) Valid() bool {
	return r == OK
}

// ErrorKey returns the host-facing error identifier, or an empty string for OK.
func (r ValidationResult) ErrorKey() string {
	switch r {
	case EmptyButRequired:
		return ErrorKeyRequired
	case EntriesInvalid:
		return ErrorKeyEntriesInvalid
	default:
		return ""
	}
}

// Err converts the result into a sentinel error, nil when valid.
func (r ValidationResult) Err() error {
	switch r {
	case EmptyButRequired:
		return ErrRequired
	case EntriesInvalid:
		return ErrEntriesInvalid
	default:
		return nil
	}
}

func (r ValidationResult) String() string {
	switch r {
	case OK:
		return "ok"
	case EmptyButRequired:
		return "empty-but-required"
	case EntriesInvalid:
		return "entries-invalid"
	default:
		return "unknown"
	}
}
