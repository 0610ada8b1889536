package classfile

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvalidMagic is returned when the input does not start with 0xCAFEBABE.
var ErrInvalidMagic = errors.New("invalid class file magic")

// Phase indicates whether an error happened while decoding or encoding.
type Phase string

const (
	PhaseDecode Phase = "decode"
	PhaseEncode Phase = "encode"
)

// Kind categorizes codec errors.
type Kind string

const (
	// KindStructural covers malformed framing that makes the whole class
	// unreadable: bad magic, unknown pool tag, unknown opcode, reserved
	// frame type, truncated outer structures.
	KindStructural Kind = "structural"
	// KindOutOfBounds is a pool index that does not address an entry.
	KindOutOfBounds Kind = "index_out_of_bounds"
	// KindTypeMismatch is a valid pool index that holds the wrong entry kind.
	KindTypeMismatch Kind = "type_mismatch"
	// KindMalformed is an attribute-local problem; the attribute is dropped.
	KindMalformed Kind = "malformed"
	// KindEOF is premature end of data.
	KindEOF Kind = "eof"
	// KindInvariant is a model inconsistency detected while encoding.
	KindInvariant Kind = "invariant"
	// KindUnsupported is a construct the codec cannot represent.
	KindUnsupported Kind = "unsupported"
)

// Error is the structured error returned by the codec.
type Error struct {
	Cause    error
	Expected any
	Actual   any
	Phase    Phase
	Kind     Kind
	Detail   string
	Offset   int
	Index    int
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}
	if e.Kind == KindOutOfBounds || e.Kind == KindTypeMismatch {
		fmt.Fprintf(&b, " (cp index %d)", e.Index)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Expected != nil || e.Actual != nil {
		fmt.Fprintf(&b, " (expected %v, got %v)", e.Expected, e.Actual)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same phase and kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

func structuralErr(offset int, format string, args ...any) *Error {
	return &Error{Phase: PhaseDecode, Kind: KindStructural, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

func malformedErr(offset int, format string, args ...any) *Error {
	return &Error{Phase: PhaseDecode, Kind: KindMalformed, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

func invariantErr(offset int, expected, actual any, format string, args ...any) *Error {
	return &Error{
		Phase:    PhaseEncode,
		Kind:     KindInvariant,
		Offset:   offset,
		Expected: expected,
		Actual:   actual,
		Detail:   fmt.Sprintf(format, args...),
	}
}

func encodeErr(format string, args ...any) *Error {
	return &Error{Phase: PhaseEncode, Kind: KindUnsupported, Offset: -1, Detail: fmt.Sprintf(format, args...)}
}

// readErr converts a cursor failure into a codec error.
func readErr(offset int, what string, err error) *Error {
	kind := KindStructural
	if errors.Is(err, io.ErrUnexpectedEOF) {
		kind = KindEOF
	}
	return &Error{Phase: PhaseDecode, Kind: kind, Offset: offset, Detail: "read " + what, Cause: err}
}

// IsIndexError reports whether err is a pool index out of range or a pool
// entry of the wrong kind.
func IsIndexError(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == KindOutOfBounds || e.Kind == KindTypeMismatch
	}
	return false
}

// IsStructural reports whether err is a fatal structural decode error.
func IsStructural(err error) bool {
	return hasKind(err, KindStructural)
}

// IsInvariant reports whether err is an encode-time invariant violation.
func IsInvariant(err error) bool {
	return hasKind(err, KindInvariant)
}

func hasKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
