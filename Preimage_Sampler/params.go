package Preimage_Sampler

import (
	"fmt"
	"math"
)

// SigmaSmoothing is the smoothing-parameter constant used for every base
// Gaussian in the library, from Sec V-A1 of the GPV reference
// implementation literature.
const SigmaSmoothing = 3.19

// GadgetParameters fixes the dimensioning of a classical G-trapdoor:
// rank n, modulus q, gadget base and length, the width m̄ of the
// pseudorandom part and the total width m = m̄ + n·k. Immutable once
// constructed.
type GadgetParameters struct {
	N         int     // rank / security parameter
	Q         uint64  // modulus
	Base      uint64  // gadget base t
	K         int     // gadget length κ = ceil(log_t q)
	MBar      int     // width of the uniform part Ā
	M         int     // total width m = m̄ + n·k
	SigmaTrap float64 // width of the trapdoor distribution for R
}

// GadgetLength returns ceil(log_base q), the number of base-t digits of q.
func GadgetLength(q, base uint64) int {
	k := 0
	rest := q - 1
	for rest > 0 {
		rest /= base
		k++
	}
	return k
}

// defaultMBar is the asymptotic bound m̄ = n·k + (ceil(log2 n))² from the
// trapdoor literature; anything below it makes A distinguishable from
// uniform for the default trapdoor distribution.
func defaultMBar(n, k int) int {
	log2n := 0
	for v := n - 1; v > 0; v >>= 1 {
		log2n++
	}
	if log2n == 0 {
		log2n = 1
	}
	return n*k + log2n*log2n
}

// NewGadgetParameters validates and derives a classical parameter set.
// mBar == 0 selects the default width.
func NewGadgetParameters(n int, q uint64, mBar int, base uint64) (*GadgetParameters, error) {
	if n < 1 {
		return nil, fmt.Errorf("gadget parameters: n = %d violates n >= 1", n)
	}
	if q <= 1 {
		return nil, fmt.Errorf("gadget parameters: q = %d violates q > 1", q)
	}
	if base < 2 {
		return nil, fmt.Errorf("gadget parameters: base = %d violates base >= 2", base)
	}
	k := GadgetLength(q, base)
	min := defaultMBar(n, k)
	if mBar == 0 {
		mBar = min
	}
	if mBar < min {
		return nil, fmt.Errorf("gadget parameters: m_bar = %d violates m_bar >= n*k + log2(n)^2 = %d", mBar, min)
	}
	return &GadgetParameters{
		N:         n,
		Q:         q,
		Base:      base,
		K:         k,
		MBar:      mBar,
		M:         mBar + n*k,
		SigmaTrap: SigmaSmoothing,
	}, nil
}

// DefaultGadgetParameters fixes base 2 and the minimal secure m̄.
func DefaultGadgetParameters(n int, q uint64) (*GadgetParameters, error) {
	return NewGadgetParameters(n, q, 0, 2)
}

// SigmaT returns the gadget-scaled Gaussian width σₜ = (t+1)·σ used for
// both trapdoor sampling and G-sampling.
func (p *GadgetParameters) SigmaT() float64 {
	return float64(p.Base+1) * SigmaSmoothing
}

// SpectralGaussWidth bounds σₜ·(s₁(R)+1) where s₁(R) is the largest
// singular value of the trapdoor, R having m̄ × n·k Gaussian entries of
// width SigmaTrap. Preimage sampling with any width at or above this
// bound succeeds for all but a negligible fraction of trapdoors.
func (p *GadgetParameters) SpectralGaussWidth() float64 {
	nk := float64(p.N * p.K)
	s1 := p.SigmaTrap * (math.Sqrt(float64(p.MBar)) + math.Sqrt(nk) + 4.7)
	return p.SigmaT() * (s1 + 1)
}

// SpectralBound returns the analytic upper bound on the ring sampling
// width,
//
//	s_max = 1.8*(t+1)*sigma^2*(sqrt(n*k)+sqrt(2n)+4.7)
func SpectralBound(n, k int, base uint64) float64 {
	const (
		dgError       = 8.27181e-25
		nMax          = 2048
		spectralConst = 1.8
	)
	sigma := math.Sqrt(math.Log(2*float64(nMax)/dgError) / math.Pi)
	sig2 := sigma * sigma
	term := math.Sqrt(float64(n*k)) + math.Sqrt(2*float64(n)) + 4.7
	return spectralConst * float64(base+1) * sig2 * term
}

// CalculateParams computes σₜ = (t+1)·σ and the spectral bound s for the
// ring setting.
func CalculateParams(base uint64, n, k int) (sigmaT, s float64) {
	sigmaT = float64(base+1) * SigmaSmoothing
	s = SpectralBound(n, k, base)
	return
}

// GadgetParametersRing is the ring analogue of GadgetParameters:
// dimensions counted in ring elements over R_q = Z_q[x]/(x^N+1).
type GadgetParametersRing struct {
	N      int     // ring degree, power of two
	Q      uint64  // single NTT-friendly modulus
	Base   uint64  // gadget base t
	K      int     // gadget length κ
	SigmaT float64 // trapdoor / G-sampling width σₜ
	Sigma  float64 // raw width σ = σₜ/(t+1)
	Bound  float64 // spectral bound s for preimage sampling
}

// NewGadgetParametersRing validates and derives a ring parameter set.
func NewGadgetParametersRing(n int, q uint64, base uint64) (*GadgetParametersRing, error) {
	if n < 1 || n&(n-1) != 0 {
		return nil, fmt.Errorf("ring gadget parameters: degree %d violates n = power of two >= 1", n)
	}
	if q <= 1 {
		return nil, fmt.Errorf("ring gadget parameters: q = %d violates q > 1", q)
	}
	if base < 2 {
		return nil, fmt.Errorf("ring gadget parameters: base = %d violates base >= 2", base)
	}
	k := GadgetLength(q, base)
	sigmaT, bound := CalculateParams(base, n, k)
	return &GadgetParametersRing{
		N:      n,
		Q:      q,
		Base:   base,
		K:      k,
		SigmaT: sigmaT,
		Sigma:  sigmaT / float64(base+1),
		Bound:  bound,
	}, nil
}
