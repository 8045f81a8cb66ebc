// https://github.com/jedisct1/libsodium/blob/d4ee08ab8a1c674203796161af6d013283b33d69/src/libsodium/sodium/codecs.c
// https://github.com/jedisct1/libsodium/blob/561e556dad078af581f338fe3de9ee6362d28b16/LICENSE
//
//  Copyright (c) 2013-2022 Frank Denis <j at pureftpd dot org>
//  Portions Copyright (c) 2022 Eric Lagergren
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted, provided that the above
// copyright notice and this permission notice appear in all copies.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
// WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
// MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
// ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
// WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
// ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
// OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.

// Package hex implements constant-time lowercase hexadecimal
// encoding.
//
// It is used to print buffered stream data without leaking its
// contents through timing.
package hex

// EncodedLen returns the length of an encoding of n source
// bytes.
func EncodedLen(n int) int {
	return n * 2
}

// Encode encodes src into EncodedLen(len(src)) bytes of dst.
// It returns the number of bytes written to dst.
//
// Encode runs in constant time for the length of src.
func Encode(dst, src []byte) int {
	j := 0
	for _, v := range src {
		b := uint(v >> 4)
		c := uint(v & 0x0f)

		// 87+x is 'a'+(x-10). For x < 10, x-10 underflows and
		// the mask adds '0'-87 = -39 instead.
		const (
			mask = ^uint(38)
		)
		dst[j+1] = byte(87 + c + (((c - 10) >> 8) & mask))
		dst[j] = byte(87 + b + (((b - 10) >> 8) & mask))
		j += 2
	}
	return len(src) * 2
}

// EncodeToString returns the hexadecimal encoding of src.
//
// EncodeToString runs in constant time for the length of src.
func EncodeToString(src []byte) string {
	dst := make([]byte, EncodedLen(len(src)))
	Encode(dst, src)
	return string(dst)
}
