// Package kernels declares the mixing kernels used by the graph engine.
//
// They are pure functions over contiguous float64 buffers, separated out so
// that vectorized implementations can back them. Where algo-vecmath exposes
// a matching primitive the kernel delegates to it; the remaining kernels are
// simple scalar loops.
package kernels

import (
	"github.com/cwbudde/algo-vecmath"
)

// Accumulate adds src into dst element-wise. Lengths must match.
func Accumulate(dst, src []float64) {
	vecmath.AddBlockInPlace(dst, src)
}

// AccumulateScaled adds gain*src into dst element-wise. Lengths must match.
func AccumulateScaled(dst, src []float64, gain float64) {
	_ = dst[len(src)-1] // bounds check hint
	for i, v := range src {
		dst[i] += gain * v
	}
}

// Scale multiplies buf by gain in place.
func Scale(buf []float64, gain float64) {
	vecmath.ScaleBlock(buf, buf, gain)
}

// ScaleTo writes gain*src into dst. Lengths must match.
func ScaleTo(dst, src []float64, gain float64) {
	vecmath.ScaleBlock(dst, src, gain)
}

// Offset adds a scalar offset to buf in place.
func Offset(buf []float64, offset float64) {
	for i := range buf {
		buf[i] += offset
	}
}

// Multiply multiplies buf by coeffs element-wise in place. Lengths must match.
func Multiply(buf, coeffs []float64) {
	vecmath.MulBlockInPlace(buf, coeffs)
}

// MultiplyTo writes a*b element-wise into dst. Lengths must match.
func MultiplyTo(dst, a, b []float64) {
	vecmath.MulBlock(dst, a, b)
}
