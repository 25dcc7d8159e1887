// discretegauss.go
// Discrete Gaussian sampling over the integers, with both Peikert
// inversion-sampling and Karney exact rejection sampling.
// See: “Sampling exactly from the discrete Gaussian” (Karney ’13)
//      and Peikert ’14 DG14 inversion method.
//
// The output distribution of Draw depends only on (center, width); a
// trapdoor never enters this file.

package Preimage_Sampler

import (
	"math"
	"math/rand"
	"sort"
)

const (
	karneyThreshold = 300.0 // σ above which we use Karney’s sampler
	acc             = 5e-32 // tail-mass accuracy for inversion CDF
)

// gaussSource wraps an optional caller-injected *rand.Rand. A nil source
// falls back to the process-wide generator, which is safe for concurrent
// draws; an injected source makes runs reproducible but must not be
// shared across goroutines.
type gaussSource struct {
	r *rand.Rand
}

func (g gaussSource) float64() float64 {
	if g.r != nil {
		return g.r.Float64()
	}
	return rand.Float64()
}

func (g gaussSource) float32() float32 {
	if g.r != nil {
		return g.r.Float32()
	}
	return rand.Float32()
}

func (g gaussSource) intn(n int) int {
	if g.r != nil {
		return g.r.Intn(n)
	}
	return rand.Intn(n)
}

func (g gaussSource) int63n(n int64) int64 {
	if g.r != nil {
		return g.r.Int63n(n)
	}
	return rand.Int63n(n)
}

// NormFloat64 draws one standard normal variate from the wrapped source.
func (g gaussSource) normFloat64() float64 {
	if g.r != nil {
		return g.r.NormFloat64()
	}
	return rand.NormFloat64()
}

// DiscreteGaussian encapsulates a sampler for D_ℤ(mean, σ).
type DiscreteGaussian struct {
	sigma   float64     // stddev
	peikert bool        // true ⇒ do inversion sampling
	a       float64     // mass at zero = 1/∑_{x=-M}^M e^{-x^2/(2σ²)}
	cdf     []float64   // cumulative probabilities for x=1…M (only if peikert)
	src     gaussSource // randomness source
}

// NewDiscreteGaussian constructs a DGG with stddev σ drawing from the
// process-wide source. Panics if σ too large (>2^59), as in Palisade.
func NewDiscreteGaussian(std float64) *DiscreteGaussian {
	return NewDiscreteGaussianFromSource(std, nil)
}

// NewDiscreteGaussianFromSource constructs a DGG with stddev σ drawing
// from rng. A nil rng selects the process-wide source.
func NewDiscreteGaussianFromSource(std float64, rng *rand.Rand) *DiscreteGaussian {
	if math.Log2(std) > 59 {
		panic("DiscreteGaussian: standard deviation cannot exceed 59 bits")
	}
	dg := &DiscreteGaussian{sigma: std, src: gaussSource{r: rng}}
	dg.peikert = (std < karneyThreshold)
	if dg.peikert {
		dg.initialize()
	}
	return dg
}

// Sigma returns the configured stddev.
func (dg *DiscreteGaussian) Sigma() float64 { return dg.sigma }

// initialize precomputes the CDF for inversion sampling (Peikert ’14).
func (dg *DiscreteGaussian) initialize() {
	variance := dg.sigma * dg.sigma
	// M ≈ ceil(σ * sqrt(-2 ln(acc)))
	M := int(math.Ceil(dg.sigma * math.Sqrt(-2*math.Log(acc))))
	// compute normalization: sum_{x=-M..M} e^{-x²/(2σ²)}
	sum := 1.0
	for x := 1; x <= M; x++ {
		sum += 2 * math.Exp(-float64(x*x)/(2*variance))
	}
	dg.a = 1 / sum
	// build cdf for x=1…M
	dg.cdf = make([]float64, M)
	for x := 1; x <= M; x++ {
		p := dg.a * math.Exp(-float64(x*x)/(2*variance))
		if x == 1 {
			dg.cdf[x-1] = p
		} else {
			dg.cdf[x-1] = dg.cdf[x-2] + p
		}
	}
}

// Draw samples one integer ∼ D_ℤ(mean, σ).
func (dg *DiscreteGaussian) Draw(mean float64) int64 {
	if dg.peikert {
		base := math.Floor(mean)
		if frac := mean - base; frac != 0 {
			// the precomputed table only covers integer centers
			return int64(base) + dg.drawShifted(frac)
		}
		// inversion sampling
		u := dg.src.float64() - 0.5
		if math.Abs(u) <= dg.a/2 {
			return int64(base)
		}
		target := math.Abs(u) - dg.a/2
		idx := sort.SearchFloat64s(dg.cdf, target)
		sample := int64(idx + 1)
		if u < 0 {
			sample = -sample
		}
		return sample + int64(base)
	}
	// Karney’s exact sampler
	return karney(dg.src, mean, dg.sigma)
}

// drawShifted inversion-samples y ∼ D_ℤ(c, σ) for a fractional center
// c ∈ (0, 1). The weights exp(−(y−c)²/(2σ²)) for y ∈ [−M, M+1] are
// accumulated per call; M is the same tail cut as the table.
func (dg *DiscreteGaussian) drawShifted(c float64) int64 {
	variance := dg.sigma * dg.sigma
	M := len(dg.cdf)
	weights := make([]float64, 2*M+2)
	var sum float64
	for i := range weights {
		x := float64(i-M) - c
		weights[i] = math.Exp(-x * x / (2 * variance))
		sum += weights[i]
	}
	u := dg.src.float64() * sum
	for i, w := range weights {
		u -= w
		if u <= 0 {
			return int64(i - M)
		}
	}
	return int64(M + 1)
}

// karney implements Algorithm 4 (steps D1–D8) from Karney ’13.
func karney(src gaussSource, mean, sigma float64) int64 {
	for {
		k := algoG(src)
		if !algoP(src, k*(k-1)) {
			continue
		}
		s := 1
		if src.intn(2) == 0 {
			s = -1
		}
		di0 := sigma*float64(k) + float64(s)*mean
		i0 := math.Ceil(di0)
		x0 := (i0 - di0) / sigma
		j := src.int63n(int64(math.Ceil(sigma)))
		x := x0 + float64(j)/sigma
		if !(x < 1) || (x == 0 && s < 0 && k == 0) {
			continue
		}
		// D7: must get k+1 true returns from algoB before accepting
		passed := true
		for i := 0; i < k+1; i++ {
			if !algoB(src, k, float32(x)) {
				passed = false
				break
			}
		}
		if !passed {
			continue
		}
		// D8: accept
		return int64(s) * (int64(i0) + j)
	}
}

// algoH: one Bernoulli trial, uses float32 for speed.
func algoH(src gaussSource) bool {
	hA := src.float32()
	if hA > 0.5 {
		return true
	}
	if hA < 0.5 {
		for {
			hB := src.float32()
			if hB > hA {
				return false
			}
			if hB < hA {
				hA = src.float32()
			} else {
				return algoHDouble(src)
			}
			if hA > hB {
				return true
			}
			if hA == hB {
				return algoHDouble(src)
			}
		}
	}
	return algoHDouble(src)
}

// algoHDouble: high-precision fallback for H.
func algoHDouble(src gaussSource) bool {
	hA := src.float64()
	if !(hA < 0.5) {
		return true
	}
	for {
		hB := src.float64()
		if !(hB < hA) {
			return false
		}
		hA = src.float64()
		if !(hA < hB) {
			return true
		}
	}
}

// algoG: count consecutive successes of H.
func algoG(src gaussSource) int {
	n := 0
	for algoH(src) {
		n++
	}
	return n
}

// algoP: accept k(k-1) trials of H.
func algoP(src gaussSource, n int) bool {
	for i := 0; i < n; i++ {
		if !algoH(src) {
			return false
		}
	}
	return true
}

// algoB: inner Bernoulli-rejection of Karney, using float32.
func algoB(src gaussSource, k int, x float32) bool {
	y := x
	m := 2*k + 2
	n := 0
	for {
		z := src.float32()
		if z > y {
			break
		}
		if z < y {
			r := src.float32()
			rTemp := (2*float32(k) + x) / float32(m)
			if r > rTemp {
				break
			}
			if r < rTemp {
				y = z
				n++
				continue
			}
			return algoBDouble(src, k, x)
		}
		return algoBDouble(src, k, x)
	}
	return n%2 == 0
}

// algoBDouble: high-precision fallback for B.
func algoBDouble(src gaussSource, k int, x float32) bool {
	y := x
	m := 2*k + 2
	n := 0
	for {
		z := src.float64()
		if !(z < float64(y)) {
			break
		}
		r := src.float64()
		if !(r < (float64(2*k)+float64(x))/float64(m)) {
			break
		}
		y = float32(z)
		n++
	}
	return n%2 == 0
}
