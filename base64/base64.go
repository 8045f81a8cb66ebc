package base64

import (
	"encoding/base64"
	"encoding/binary"
	"errors"

	"github.com/ericlagergren/b64stream/internal/subtle"
)

const (
	StdPadding = base64.StdPadding // standard padding '='
	NoPadding  = base64.NoPadding  // no padding
)

// ErrCorrupt is returned when the Base64-encoded input is
// incorrect.
var ErrCorrupt = errors.New("base64: input is corrupt")

// StdEncoding is the standard Base64 encoding.
//
// It uses the following table:
//
//	ABCDEFGHIJKLMNOPQRSTUVWXYZ
//	abcdefghijklmnopqrstuvwxyz
//	0123456789
//	+/
var StdEncoding = &Encoding{
	c62:     '+',
	c63:     '/',
	padChar: StdPadding,
}

// RawStdEncoding is the unpadded standard Base64 encoding.
var RawStdEncoding = StdEncoding.WithPadding(NoPadding)

// URLEncoding is the base64url Base64 encoding.
//
// It uses the following table:
//
//	ABCDEFGHIJKLMNOPQRSTUVWXYZ
//	abcdefghijklmnopqrstuvwxyz
//	0123456789
//	-_
var URLEncoding = &Encoding{
	c62:     '-',
	c63:     '_',
	padChar: StdPadding,
}

// RawURLEncoding is the unpadded base64url Base64 encoding.
var RawURLEncoding = URLEncoding.WithPadding(NoPadding)

// Encoding is a particular Base64 encoding.
//
// The two supported alphabets differ only in their last two
// characters, so an Encoding stores just those.
type Encoding struct {
	c62, c63 uint
	padChar  rune
	strict   bool
}

// Strict returns an identical Encoding that operates in "strict"
// mode where all padding bits MUST be zero (see section 3.5 of
// RFC 4648 and golang.org/issues/15656).
func (e Encoding) Strict() *Encoding {
	e.strict = true
	return &e
}

// WithPadding returns an identical Encoding that uses the
// specified padding character, or NoPadding.
//
// The padding character must be less than 0xff and cannot be
// '\r', '\n', or a character in the encoding's alphabet.
func (e Encoding) WithPadding(r rune) *Encoding {
	if r != NoPadding {
		switch {
		case r == '\r', r == '\n', r > 0xff:
			panic("base64: invalid padding")
		case e.revLookup(uint(r)) != 0xff:
			panic("base64: padding contained in alphabet")
		}
	}
	e.padChar = r
	return &e
}

// DecodedLen returns the maximum length in bytes of n bytes of
// Base64-encoded data.
func (e *Encoding) DecodedLen(n int) int {
	if e.padChar == NoPadding {
		return n * 6 / 8
	}
	return n / 4 * 3
}

// Decode decodes src, writing at most DecodedLen(len(src)) bytes
// to dst.
//
// Padded encodings require len(src) to be a multiple of four.
// Unpadded encodings also accept a final group of two or three
// characters.
//
// It returns the total number of bytes written to dst, even when
// src contains invalid Base64. If src contains invalid Base64,
// Decode returns ErrCorrupt.
//
// Decode runs in constant time for the length of src.
func (e *Encoding) Decode(dst, src []byte) (n int, err error) {
	if len(src) == 0 {
		return 0, nil
	}
	switch len(src) % 4 {
	case 0:
		// OK
	case 2, 3:
		if e.padChar != NoPadding {
			// Padded base64 should be a multiple of 4.
			return 0, ErrCorrupt
		}
	default:
		// Even unpadded base64 only has a 2-3 character partial
		// block.
		return 0, ErrCorrupt
	}

	if e.padChar != NoPadding {
		var t int
		t += subtle.ConstantTimeByteEq(src[len(src)-1], byte(e.padChar))
		t += subtle.ConstantTimeByteEq(src[len(src)-2], byte(e.padChar))
		src = src[:len(src)-t]
	}

	var failed byte
	for len(src) >= 8 && len(dst)-n >= 8 {
		c0 := e.revLookup(uint(src[0]))
		c1 := e.revLookup(uint(src[1]))
		c2 := e.revLookup(uint(src[2]))
		c3 := e.revLookup(uint(src[3]))
		c4 := e.revLookup(uint(src[4]))
		c5 := e.revLookup(uint(src[5]))
		c6 := e.revLookup(uint(src[6]))
		c7 := e.revLookup(uint(src[7]))

		c := uint64(c0)<<58 |
			uint64(c1)<<52 |
			uint64(c2)<<46 |
			uint64(c3)<<40 |
			uint64(c4)<<34 |
			uint64(c5)<<28 |
			uint64(c6)<<22 |
			uint64(c7)<<16
		binary.BigEndian.PutUint64(dst[n:], c)

		failed |= c0 | c1 | c2 | c3 | c4 | c5 | c6 | c7

		src = src[8:]
		n += 6
	}

	// dst may be exactly DecodedLen(len(src)) bytes, so the
	// remaining groups are written a byte at a time.
	for len(src) >= 4 {
		c0 := e.revLookup(uint(src[0]))
		c1 := e.revLookup(uint(src[1]))
		c2 := e.revLookup(uint(src[2]))
		c3 := e.revLookup(uint(src[3]))

		dst[n+0] = byte(c0<<2 | c1>>4)
		dst[n+1] = byte(c1<<4 | c2>>2)
		dst[n+2] = byte(c2<<6 | c3)

		failed |= c0 | c1 | c2 | c3

		src = src[4:]
		n += 3
	}

	switch len(src) {
	case 3:
		c0 := e.revLookup(uint(src[0]))
		c1 := e.revLookup(uint(src[1]))
		c2 := e.revLookup(uint(src[2]))

		dst[n+0] = byte(c0<<2 | c1>>4)
		dst[n+1] = byte(c1<<4 | c2>>2)

		failed |= c0 | c1 | c2
		if e.strict {
			// Fail if any bits in [2:0] are non-zero.
			failed |= byte((0 - uint(c2&0x3)) >> 8)
		}
		n += 2
	case 2:
		c0 := e.revLookup(uint(src[0]))
		c1 := e.revLookup(uint(src[1]))

		dst[n+0] = byte(c0<<2 | c1>>4)

		failed |= c0 | c1
		if e.strict {
			// Fail if any bits in [4:0] are non-zero.
			failed |= byte((0 - uint(c1&0xf)) >> 8)
		}
		n++
	case 0:
		// OK
	default:
		failed |= 0xff
	}

	if failed&0xff == 0xff {
		err = ErrCorrupt
	}
	return
}

// DecodeString decodes src.
//
// It returns all bytes written to dst, even when src contains
// invalid Base64. If src contains invalid Base64, DecodeString
// returns ErrCorrupt.
//
// DecodeString runs in constant time for the length of src.
func (e *Encoding) DecodeString(src string) ([]byte, error) {
	dst := make([]byte, e.DecodedLen(len(src)))
	n, err := e.Decode(dst, []byte(src))
	return dst[:n], err
}

// revLookup converts the base64 character c to its 6-bit
// binary value.
//
// If the character is invalid revLookup returns 0xff.
func (e *Encoding) revLookup(c uint) byte {
	// s is the shift (mod 256) that maps c onto its value:
	//
	//    'A'-'Z' -> -65
	//    'a'-'z' -> -71
	//    '0'-'9' -> 4
	//    c62     -> 62-c62
	//    c63     -> 63-c63
	//
	// None of the shifts are zero, and at most one range
	// matches.
	s := inRange(c, 'A', 'Z')&191 ^
		inRange(c, 'a', 'z')&185 ^
		inRange(c, '0', '9')&4 ^
		inRange(c, e.c62, e.c62)&((62-e.c62)&0xff) ^
		inRange(c, e.c63, e.c63)&((63-e.c63)&0xff)
	// If s == 0 then the input is corrupt.
	//
	// Shift off bits [8:0] (which are allowed to be non-zero)
	// and check [16:8].
	return byte((s+c)&0x3f | ((((0 - s) >> 8) & 0xff) ^ 0xff))
}

// inRange returns a value with bits [8:0] set if lo <= c <= hi,
// and zero otherwise.
//
// lo and hi must be in [1, 255] and c must be less than 256.
func inRange(c, lo, hi uint) uint {
	// lo-1-c underflows iff c >= lo and c-hi-1 underflows iff
	// c <= hi.
	return ((lo - 1 - c) & (c - hi - 1)) >> 8
}
