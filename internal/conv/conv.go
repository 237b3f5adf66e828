// Package conv provides checked integer conversions for the engine ABI boundary.
//
// The native engine speaks 32-bit signed offsets and 16-bit group numbers.
// Narrowing a Go int into either silently would corrupt offset vectors or name
// tables, so these helpers panic instead: an out-of-range value here means a
// subject or pattern larger than the engine can address.
package conv

import "math"

// IntToInt32 converts an int to int32.
// Panics if n is outside the int32 range.
//
//go:inline
func IntToInt32(n int) int32 {
	if n < math.MinInt32 || n > math.MaxInt32 {
		panic("integer overflow: int value out of int32 range")
	}
	return int32(n)
}

// IntToUint16 converts an int to uint16.
// Panics if n < 0 or n > math.MaxUint16.
//
//go:inline
func IntToUint16(n int) uint16 {
	if n < 0 || n > math.MaxUint16 {
		panic("integer overflow: int value out of uint16 range")
	}
	return uint16(n)
}

// Uint64ToUint32 converts a uint64 to uint32.
// Panics if n > math.MaxUint32.
//
//go:inline
func Uint64ToUint32(n uint64) uint32 {
	if n > math.MaxUint32 {
		panic("integer overflow: uint64 value out of uint32 range")
	}
	return uint32(n)
}
