// Package b64stream decodes base64 incrementally from an
// io.Reader.
//
// A Reader keeps a fixed-size buffer of encoded input and
// decodes it in whole 4-byte groups, straight into the caller's
// buffer where possible. When the caller's buffer ends partway
// through a group, the remaining one or two decoded bytes are
// returned by the next call to Read. The full payload is never
// held in memory.
//
// Decoding is done by package base64, which runs in constant
// time for the length of its input.
//
// Errors
//
// Read returns *Error for every failure. Transport errors come
// from the underlying io.Reader and leave the Reader usable.
// Decode errors mean the input is not valid base64; the Reader
// does not resynchronize and returns the same error from then
// on.
package b64stream
