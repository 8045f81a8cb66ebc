package b64stream

import (
	"errors"
	"fmt"
	"io"
	"syscall"

	"github.com/ericlagergren/b64stream/base64"
	"github.com/ericlagergren/b64stream/internal/hex"
	"github.com/ericlagergren/b64stream/internal/subtle"
)

const (
	// DefaultBufferSize is the size of the encoded input buffer
	// used by NewReader.
	DefaultBufferSize = 4096

	minBufferSize = 64

	// compactThreshold is the minimum free space at the end of
	// the input buffer. Below it, buffered input is moved back
	// to the front.
	compactThreshold = 32

	maxConsecutiveEmptyReads = 100
)

var errInvalidRead = errors.New("b64stream: reader returned invalid count from Read")

// Reader decodes base64 read from an underlying io.Reader.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	enc *base64.Encoding
	src io.Reader

	// buf[off:off+nbuf] is encoded input that has been read but
	// not yet decoded.
	buf  []byte
	off  int
	nbuf int

	// out[:nout] is decoded output that did not fit in the
	// caller's buffer. A group decodes to at most 3 bytes and
	// at least 1 of them is always delivered.
	out  [2]byte
	nout int

	// pos is the number of encoded bytes decoded so far.
	pos int64
	err error

	// ended is set once a group with padding, or a short final
	// group, has been decoded. Any input after it is corrupt.
	ended bool
}

var _ io.Reader = (*Reader)(nil)

// NewReader returns a Reader that decodes r using enc, with the
// default buffer size.
func NewReader(enc *base64.Encoding, r io.Reader) *Reader {
	return NewReaderSize(enc, r, DefaultBufferSize)
}

// NewReaderSize returns a Reader that decodes r using enc and
// buffers at most size bytes of encoded input.
//
// Sizes smaller than 64 are rounded up to 64.
func NewReaderSize(enc *base64.Encoding, r io.Reader, size int) *Reader {
	if size < minBufferSize {
		size = minBufferSize
	}
	return &Reader{
		enc: enc,
		src: r,
		buf: make([]byte, size),
	}
}

// Reset discards any buffered data, clears any error, and
// switches the Reader to decode r using enc.
//
// Buffered data is zeroed before it is discarded.
func (r *Reader) Reset(enc *base64.Encoding, src io.Reader) {
	subtle.Wipe(r.buf)
	subtle.Wipe(r.out[:])
	if len(r.buf) == 0 {
		r.buf = make([]byte, DefaultBufferSize)
	}
	*r = Reader{
		enc: enc,
		src: src,
		buf: r.buf,
	}
}

// Buffered returns the number of decoded bytes that can be read
// without reading from the underlying io.Reader.
func (r *Reader) Buffered() int {
	return r.nout
}

// Read reads up to len(p) decoded bytes into p.
//
// Read returns io.EOF once the underlying io.Reader returns
// io.EOF and all buffered input has been decoded.
//
// Errors from the underlying io.Reader and malformed input are
// both reported as *Error. Malformed input is permanent: every
// later call returns the same error.
func (r *Reader) Read(p []byte) (n int, err error) {
	if r.err != nil {
		return 0, r.err
	}
	if len(p) == 0 {
		return 0, nil
	}

	rest := p
	if r.nout > 0 {
		rest = r.drainOverflow(rest)
		if len(rest) == 0 || r.nbuf < 4 {
			// Don't block on the source with output in hand.
			return len(p) - len(rest), nil
		}
	}

	for empty := 0; r.nbuf < 4; {
		tail := r.buf[r.off+r.nbuf:]
		m, rerr := r.src.Read(tail)
		if m < 0 || m > len(tail) {
			panic(errInvalidRead)
		}
		r.nbuf += m

		switch {
		case rerr == io.EOF:
			if r.nbuf >= 4 {
				continue
			}
			rest, err = r.drainEnd(rest)
			n = len(p) - len(rest)
			if err == nil && n == 0 {
				err = io.EOF
			}
			return n, err
		case rerr != nil && !errors.Is(rerr, syscall.EINTR):
			return len(p) - len(rest), r.transport(rerr)
		case m > 0:
			empty = 0
		default:
			empty++
			if empty >= maxConsecutiveEmptyReads {
				return len(p) - len(rest), r.transport(io.ErrNoProgress)
			}
		}
	}

	rest, err = r.drain(rest)
	return len(p) - len(rest), err
}

// consume discards n decoded bytes from the front of the input
// buffer.
func (r *Reader) consume(n int) {
	r.off += n
	r.nbuf -= n
	r.pos += int64(n)
	if len(r.buf)-r.off < compactThreshold {
		copy(r.buf, r.buf[r.off:r.off+r.nbuf])
		r.off = 0
	}
}

// drainOverflow copies pending output into p.
func (r *Reader) drainOverflow(p []byte) []byte {
	n := copy(p, r.out[:r.nout])
	r.nout = copy(r.out[:], r.out[n:r.nout])
	return p[n:]
}

// drainBlock decodes a single group, which may be short only at
// the end of the input, into p. Whatever doesn't fit in p is
// kept for the next call.
//
// p must not be empty.
func (r *Reader) drainBlock(p []byte) ([]byte, error) {
	m := r.nbuf
	if m > 4 {
		m = 4
	}
	var b [3]byte
	n, err := r.decode(b[:], m)
	if err != nil {
		return p, err
	}

	c := copy(p, b[:n])
	r.nout = copy(r.out[:], b[c:n])
	subtle.Wipe(b[:])
	return p[c:], nil
}

// decode decodes the next m bytes of buffered input into dst
// and consumes them.
func (r *Reader) decode(dst []byte, m int) (int, error) {
	if r.ended {
		return 0, r.fail(base64.ErrCorrupt)
	}
	n, err := r.enc.Decode(dst, r.buf[r.off:r.off+m])
	if err != nil {
		return 0, r.fail(err)
	}
	// Whole groups decode to exactly 3 bytes each.
	r.ended = n*4 < m*3
	r.consume(m)
	return n, nil
}

type phase int

const (
	// bulkAligned decodes as many whole groups as fit in the
	// caller's buffer straight into it.
	bulkAligned phase = iota
	// trailingGroup decodes one more group when the caller's
	// buffer has room for part of it.
	trailingGroup
)

// drain decodes buffered input into p. The input buffer must
// hold at least one whole group.
func (r *Reader) drain(p []byte) ([]byte, error) {
	if r.nout > 0 {
		p = r.drainOverflow(p)
	}
	for ph := bulkAligned; len(p) > 0; {
		switch ph {
		case bulkAligned:
			ph = trailingGroup
			if len(p) < 3 {
				continue
			}
			m := r.nbuf &^ 3
			if limit := len(p) / 3 * 4; m > limit {
				m = limit
			}
			n, err := r.decode(p, m)
			if err != nil {
				return p, err
			}
			p = p[n:]
		case trailingGroup:
			if r.nbuf < 4 {
				return p, nil
			}
			return r.drainBlock(p)
		}
	}
	return p, nil
}

// drainEnd decodes the rest of the input after the source is
// exhausted. Less than one group remains.
func (r *Reader) drainEnd(p []byte) ([]byte, error) {
	if r.nout > 0 {
		p = r.drainOverflow(p)
	}
	if len(p) > 0 && r.nbuf > 0 {
		return r.drainBlock(p)
	}
	return p, nil
}

func (r *Reader) transport(err error) error {
	return &Error{
		Kind:   Transport,
		Offset: r.pos + int64(r.nbuf),
		Err:    err,
	}
}

func (r *Reader) fail(err error) error {
	r.err = &Error{
		Kind:   Decode,
		Offset: r.pos,
		Err:    err,
	}
	return r.err
}

// GoString implements fmt.GoStringer.
//
// Buffered input and output are printed in hex.
func (r *Reader) GoString() string {
	return fmt.Sprintf("&b64stream.Reader{off:%d, nbuf:%d, buf:%q, out:%q, pos:%d, err:%v}",
		r.off, r.nbuf,
		hex.EncodeToString(r.buf[r.off:r.off+r.nbuf]),
		hex.EncodeToString(r.out[:r.nout]),
		r.pos, r.err)
}
