// Package PSF abstracts preimage-sampleable functions: a function family
// with a trapdoor that makes sampling short preimages of arbitrary
// targets feasible, while remaining one-way without it. The two
// implementations wrap the classical and ring G-trapdoor samplers.
package PSF

import (
	"math"
	"math/rand"

	"github.com/tuneinsight/lattigo/v4/ring"
	"github.com/tuneinsight/lattigo/v4/utils"

	mat "github.com/shafriraxu/crypto/Matrix"
	ps "github.com/shafriraxu/crypto/Preimage_Sampler"
)

// normSlack is the headroom over the expected preimage norm s·√dim.
// The norm of an honestly sampled preimage concentrates around that
// mean, so the bound must sit strictly above it.
const normSlack = 1.3

// PSF is a preimage-sampleable function family with public description
// type A, trapdoor type T, domain type D and range type R.
//
// SampP output must depend only on (a, u), not on which trapdoor of a
// was supplied; FA must be deterministic.
type PSF[A, T, D, R any] interface {
	// TrapGen draws a fresh function description with its trapdoor.
	TrapGen() (A, T, error)
	// SampP samples a short preimage of u under a, using the trapdoor.
	SampP(a A, td T, u R) (D, error)
	// FA evaluates the function on a domain element.
	FA(a A, e D) R
	// CheckDomain reports whether e lies in the short domain.
	CheckDomain(e D) bool
}

// PSFGPV is the classical G-trapdoor PSF over Z_q: descriptions are
// matrices A ∈ Z_q^{n×m}, trapdoors the short R, domain elements short
// vectors in Z^m and range elements syndromes in Z_q^n.
type PSFGPV struct {
	Params *ps.GadgetParameters
	S      float64 // preimage sampling width
	Rng    *rand.Rand
}

// NewPSFGPV fixes the sampling width at the spectral bound, the smallest
// width that works for all but a negligible fraction of trapdoors.
func NewPSFGPV(params *ps.GadgetParameters, rng *rand.Rand) *PSFGPV {
	return &PSFGPV{Params: params, S: params.SpectralGaussWidth(), Rng: rng}
}

func (p *PSFGPV) TrapGen() (*mat.MatZq, *mat.MatZ, error) {
	td, err := ps.GenTrapdoor(p.Params, nil, nil, p.Rng)
	if err != nil {
		return nil, nil, err
	}
	return td.A, td.R, nil
}

func (p *PSFGPV) SampP(a *mat.MatZq, td *mat.MatZ, u *mat.MatZq) (*mat.MatZ, error) {
	return ps.SamplePreimage(p.Params, &ps.Trapdoor{A: a, R: td}, u, p.S, p.Rng)
}

func (p *PSFGPV) FA(a *mat.MatZq, e *mat.MatZ) *mat.MatZq {
	return a.MulZ(e)
}

// CheckDomain accepts exactly the vectors of the right shape with
// ‖e‖₂ ≤ 1.3·s·√m.
func (p *PSFGPV) CheckDomain(e *mat.MatZ) bool {
	if e == nil || e.Rows != p.Params.M || e.Cols != 1 {
		return false
	}
	return e.Norm2() <= normSlack*p.S*math.Sqrt(float64(p.Params.M))
}

// PSFGPVRing is the ring analogue over R_q: descriptions are rows of
// k+2 polynomials, domain elements short polynomial vectors.
type PSFGPVRing struct {
	RingQ  *ring.Ring
	Params *ps.GadgetParametersRing
	Prng   utils.PRNG
	Rng    *rand.Rand
}

// NewPSFGPVRing builds the ring PSF for degree n and modulus q.
func NewPSFGPVRing(n int, q, base uint64, rng *rand.Rand) (*PSFGPVRing, error) {
	params, err := ps.NewGadgetParametersRing(n, q, base)
	if err != nil {
		return nil, err
	}
	ringQ, err := ring.NewRing(n, []uint64{q})
	if err != nil {
		return nil, err
	}
	return &PSFGPVRing{RingQ: ringQ, Params: params, Rng: rng}, nil
}

func (p *PSFGPVRing) TrapGen() ([]*ring.Poly, *ps.RingTrapdoor, error) {
	trap := ps.TrapGen(p.RingQ, p.Params.Base, p.Params.SigmaT, p.Prng, p.Rng)
	return trap.A, &trap, nil
}

func (p *PSFGPVRing) SampP(a []*ring.Poly, td *ps.RingTrapdoor, u *ring.Poly) ([]*ring.Poly, error) {
	return ps.GaussSamp(p.RingQ, td, u, p.Params.Sigma, p.Params.Bound, p.Rng), nil
}

func (p *PSFGPVRing) FA(a []*ring.Poly, e []*ring.Poly) *ring.Poly {
	return ps.ApplyRow(p.RingQ, a, e)
}

// CheckDomain accepts exactly the vectors of k+2 polynomials whose
// total coefficient norm satisfies ‖e‖₂ ≤ 1.3·s·√(N·(k+2)).
func (p *PSFGPVRing) CheckDomain(e []*ring.Poly) bool {
	if len(e) != p.Params.K+2 {
		return false
	}
	var sumSq float64
	coeff := p.RingQ.NewPoly()
	for _, poly := range e {
		p.RingQ.InvNTT(poly, coeff)
		n := ps.PolyNorm2(p.RingQ, coeff)
		sumSq += n * n
	}
	dim := float64(p.RingQ.N * (p.Params.K + 2))
	return math.Sqrt(sumSq) <= normSlack*p.Params.Bound*math.Sqrt(dim)
}
