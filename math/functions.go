// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	"github.com/chewxy/math32"
)

// ShtMinV scales a quantized normal component into [-1, 1].
const ShtMinV = float32(1.0 / 32767)

// zeroEpsilon is the engine wide threshold below which a float counts as zero.
const zeroEpsilon = 0.008

// IsZero reports whether |f| is below the engine zero threshold.
func IsZero(f float32) bool {
	return math32.Abs(f) < zeroEpsilon
}

// Normal converts a quantized normal component into a float.
func Normal(n int16) float32 {
	return float32(n) * ShtMinV
}

// Quantize is the inverse of Normal, truncating like a C float to short cast.
func Quantize(f float32) int16 {
	return int16(f * 32767)
}

// Sqrt is sqrtf, correctly rounded in float32.
func Sqrt(x float32) float32 {
	return math32.Sqrt(x)
}

// Trunc drops the fractional part.
func Trunc(x float32) float32 {
	return math32.Trunc(x)
}

// Abs is fabsf.
func Abs(x float32) float32 {
	return math32.Abs(x)
}

type Number interface {
	int | int16 | int64 | float32 | float64
}

// Clamp limits val to [lo, hi].
func Clamp[K Number](lo, val, hi K) K {
	return min(max(val, lo), hi)
}
