// Package subtle implements constant-time helpers shared by the
// decoders.
package subtle

import (
	"crypto/subtle"
	"runtime"
)

// ConstantTimeByteEq returns 1 if x == y and 0 otherwise.
func ConstantTimeByteEq(x, y uint8) int {
	return subtle.ConstantTimeByteEq(x, y)
}

// Wipe sets every byte in x to zero.
//
//go:noinline
func Wipe(x []byte) {
	// Marked noinline so that the compiler (hopefully) won't
	// peer inside it and notice that x can be DCEd.
	for i := range x {
		x[i] = 0
	}
	// KeepAlive should (hopefully) nudge the compiler away from
	// DCEing the for-loop.
	runtime.KeepAlive(x)
}
