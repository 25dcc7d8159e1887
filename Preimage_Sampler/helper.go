package Preimage_Sampler

import (
	"math"

	"github.com/tuneinsight/lattigo/v4/ring"
)

// baseDigits decomposes v (which may be negative) into k little-endian
// base-t digits, each in [0,base).
func baseDigits(v int64, base int64, k int) []int64 {
	digits := make([]int64, k)
	temp := v
	for i := 0; i < k; i++ {
		r := temp % base
		if r < 0 {
			r += base
		}
		digits[i] = r
		temp = (temp - r) / base
	}
	return digits
}

// ModQToFloat64 maps x ∈ [0,q) to the centered representative in
// [−⌊q/2⌋, ⌈q/2⌉) as a float64.
func ModQToFloat64(x, q uint64) float64 {
	if x > q/2 {
		return float64(int64(x) - int64(q))
	}
	return float64(x)
}

// PolyNorm2 returns the Euclidean norm of p over the centered
// representatives of its level-0 coefficients.
func PolyNorm2(r *ring.Ring, p *ring.Poly) float64 {
	var sum float64
	for _, coeff := range p.Coeffs[0] {
		c := float64(UnsignedToSigned(coeff, r.Modulus[0]))
		sum += c * c
	}
	return math.Sqrt(sum)
}

// PolyMaxNorm returns the infinity norm of p over R_q.
func PolyMaxNorm(ringQ *ring.Ring, p *ring.Poly) uint64 {
	var max uint64
	for lvl, qi := range ringQ.Modulus {
		for _, c := range p.Coeffs[lvl] {
			var abs uint64
			if c > qi/2 {
				abs = qi - c
			} else {
				abs = c
			}
			if abs > max {
				max = abs
			}
		}
	}
	return max
}

// UnsignedToSigned maps u ∈ [0,q) to s ∈ [−q/2, q/2].
func UnsignedToSigned(u uint64, q uint64) int64 {
	half := q >> 1
	if u > half {
		return int64(u) - int64(q)
	}
	return int64(u)
}

// SignedToUnsigned maps any signed s back to u ∈ [0,q).
func SignedToUnsigned(s int64, q uint64) uint64 {
	m := int64(q)
	r := s % m
	if r < 0 {
		r += m
	}
	return uint64(r)
}
