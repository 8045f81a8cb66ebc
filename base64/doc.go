// Package base64 implements constant-time base64 decoding as
// specified by RFC 4648.
//
// It is the decoding primitive behind b64stream.Reader. Encoding
// is left to encoding/base64, since only the decoder handles
// secret-dependent table lookups.
//
// Comparison to encoding/base64
//
// Unlike encoding/base64, this package rejects the newline
// characters '\r' and '\n'. Use b64stream.SkipNewlines to
// remove them first.
//
// Unlike encoding/base64, this package does not return partial
// Base64-encoded data. For example:
//
//	src := []byte("aGVsb?8=")
//	base64.StdEncoding.Decode(dst, src) // 3, CorruptInputError(5)
//	StdEncoding.Decode(dst, src)        // 5, ErrCorrupt
//
// Given the input "aGVsb?8=" encoding/base64 will return (3,
// CorruptInputError(5)). However, this package will return (5,
// ErrCorrupt).
package base64
