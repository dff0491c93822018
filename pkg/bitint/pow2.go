// SPDX-License-Identifier: MIT
/*
Package bitint provides the power-of-two helpers used to size the sample
ring and the analysis FFT.

Both structures index with a bit mask instead of a modulo, so their sizes
must be powers of two. The helpers here are allocation free and safe to
call from the capture callback.

Usage:

	capacity := bitint.NextPowerOfTwo(window + hop) // 1536 -> 2048
	mask := bitint.Mask(capacity)                    // 2047
	idx := seq & mask
*/
package bitint

import "math/bits"

// NextPowerOfTwo returns the next power of 2 >= size.
//
// The subtraction (size-1) keeps exact powers of two unchanged:
//
//	Input  Output
//	1536   2048
//	2048   2048
//	0      1
//	-1     1
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}
	return 1 << bits.Len(uint(size-1))
}

// IsPowerOfTwo reports whether n is a positive power of two.
// Powers of two have exactly one bit set, so n&(n-1) clears it to zero.
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// Mask returns the index mask for a power-of-two size n (n-1).
// The result is meaningless when n is not a power of two.
func Mask(n int) uint64 {
	return uint64(n) - 1
}

// Log2 returns the exponent of a power-of-two n, or -1 when n is not one.
func Log2(n int) int {
	if !IsPowerOfTwo(n) {
		return -1
	}
	return bits.TrailingZeros(uint(n))
}
