package cargo

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per Kind. Match them with errors.Is.
var (
	// ErrIo indicates cargo locate-project could not be executed.
	ErrIo = errors.New("could not execute `cargo locate-project`")
	// ErrCargoExecution indicates cargo locate-project exited unsuccessfully.
	ErrCargoExecution = errors.New("`cargo locate-project` did not exit successfully")
	// ErrStringConversion indicates the output was not valid UTF-8.
	ErrStringConversion = errors.New("output of `cargo locate-project` was not valid UTF-8")
	// ErrParseJSON indicates the output was not valid JSON.
	ErrParseJSON = errors.New("output of `cargo locate-project` was not valid JSON")
	// ErrNoRoot indicates the JSON output had no "root" string.
	ErrNoRoot = errors.New("JSON output of `cargo locate-project` did not contain the expected \"root\" string")
)

// Kind classifies a locate failure.
type Kind int

const (
	KindIo Kind = iota + 1
	KindCargoExecution
	KindStringConversion
	KindParseJSON
	KindNoRoot
)

func (k Kind) String() string {
	switch k {
	case KindIo:
		return "io"
	case KindCargoExecution:
		return "cargo_execution"
	case KindStringConversion:
		return "string_conversion"
	case KindParseJSON:
		return "parse_json"
	case KindNoRoot:
		return "no_root"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindIo:
		return ErrIo
	case KindCargoExecution:
		return ErrCargoExecution
	case KindStringConversion:
		return ErrStringConversion
	case KindParseJSON:
		return ErrParseJSON
	case KindNoRoot:
		return ErrNoRoot
	default:
		return nil
	}
}

// Error is returned by Locate for every failure. Stderr is only set for
// KindCargoExecution, Err is the lower-layer cause when there is one.
type Error struct {
	Kind   Kind
	Stderr []byte
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if s := e.Kind.sentinel(); s != nil {
		msg = s.Error()
	}

	switch {
	case e.Kind == KindCargoExecution:
		return fmt.Sprintf("%s.\nStderr: %s", msg, e.Stderr)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	default:
		return msg
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// UTF8Error describes output that failed strict UTF-8 validation. Output is
// the untouched stdout and Offset the index of the first invalid byte.
type UTF8Error struct {
	Output []byte
	Offset int
	Err    error
}

func (e *UTF8Error) Error() string {
	return fmt.Sprintf("invalid utf-8 sequence from index %d", e.Offset)
}

func (e *UTF8Error) Unwrap() error { return e.Err }
