package b64stream

import "fmt"

// ErrorKind separates failures of the underlying io.Reader from
// malformed input.
type ErrorKind int

const (
	// Transport is an error returned by the underlying
	// io.Reader. The Reader remains usable and the call may be
	// retried if the underlying io.Reader recovers.
	Transport ErrorKind = iota + 1
	// Decode is malformed base64. It is permanent.
	Decode
)

func (k ErrorKind) String() string {
	switch k {
	case Transport:
		return "transport"
	case Decode:
		return "decode"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is the error returned by Reader.Read.
type Error struct {
	Kind ErrorKind
	// Offset is a position in the encoded stream.
	//
	// For Decode errors it is the start of the span that failed
	// to decode; the malformed group is at or after it. For
	// Transport errors it is the number of encoded bytes read
	// before the failure.
	Offset int64
	// Err is the underlying error: base64.ErrCorrupt for Decode
	// errors, or the error from the underlying io.Reader.
	Err error
}

func (e *Error) Error() string {
	if e.Kind == Decode {
		return fmt.Sprintf("b64stream: corrupt input at or after offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("b64stream: %s error after %d bytes: %v", e.Kind, e.Offset, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
