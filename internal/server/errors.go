package server

import "errors"

// Kind classifies a failure so callers can decide whether it closes one
// connection, logs and recovers, or aborts the process.
type Kind int

const (
	KindProtocolViolation Kind = iota
	KindRegionMissing
	KindDecompressionFailed
	KindInvalidNBT
	KindInvalidSection
	KindBlockNameUnknown
	KindQueueBounded
	KindIoError
	KindConfigError
	KindRegistryLoadError
)

func (k Kind) String() string {
	switch k {
	case KindProtocolViolation:
		return "ProtocolViolation"
	case KindRegionMissing:
		return "RegionMissing"
	case KindDecompressionFailed:
		return "DecompressionFailed"
	case KindInvalidNBT:
		return "InvalidNBT"
	case KindInvalidSection:
		return "InvalidSection"
	case KindBlockNameUnknown:
		return "BlockNameUnknown"
	case KindQueueBounded:
		return "QueueBounded"
	case KindIoError:
		return "IoError"
	case KindConfigError:
		return "ConfigError"
	case KindRegistryLoadError:
		return "RegistryLoadError"
	default:
		return "Unknown"
	}
}

// Error wraps an underlying cause with the Kind that decides how the
// core reacts to it.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap builds an *Error of the given kind around err. Wrap(kind, nil)
// returns nil, so it is safe to call unconditionally on a possibly-nil
// error.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// As reports whether err (or anything it wraps) is a *Error, returning it.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
