package Preimage_Sampler

import (
	"math"
	"math/big"
	"math/rand"

	"github.com/tuneinsight/lattigo/v4/ring"

	mat "github.com/shafriraxu/crypto/Matrix"
)

// Perturb implements PERTURB(σ,ℓ,h,base) from Alg 3 of the paper.
// Each zi ← Dℤ(mean,σi) via the exact discrete-Gaussian sampler.
func Perturb(sigma float64, ell, h []float64, base uint64, rng *rand.Rand) []int64 {
	k := len(ell)
	// 1) sample z-vector via exact Dℤ
	z := make([]int64, k)
	beta := 0.0
	for i := 0; i < k; i++ {
		mean := beta / ell[i]
		sigmaI := sigma / ell[i]
		dg := NewDiscreteGaussianFromSource(sigmaI, rng)
		z[i] = dg.Draw(mean)
		beta = -float64(z[i]) * h[i]
	}

	// 2) build the gadget-base combination p
	p := make([]int64, k)

	// first coordinate: (2·base+1)*z0 + base·z1
	p[0] = int64(2*base+1)*z[0] + int64(base)*z[1]

	// middle coordinates: base*(z[i−1] + 2·z[i] + z[i+1])
	for i := 1; i < k-1; i++ {
		sum := z[i-1] + 2*z[i] + z[i+1]
		p[i] = int64(base) * sum
	}

	// last coordinate: base*(z[k-2] + 2·z[k-1])
	p[k-1] = int64(base) * (z[k-2] + 2*z[k-1])

	return p
}

// SampleD implements the discrete Sample_D of Alg 3.
//
//	sigma: the stddev σ
//	a    : the accumulator vector a ∈ ℝ^k (modified in place)
//	c    : the conditioning vector c ∈ ℝ^k
//
// returns z ∈ ℤ^k
func SampleD(sigma float64, a, c []float64, rng *rand.Rand) []int {
	k := len(a)
	z := make([]int, k)

	// 1) last coord
	mean := -a[k-1] / c[k-1]
	stdp := sigma / c[k-1]
	dg0 := NewDiscreteGaussianFromSource(stdp, rng)
	z[k-1] = int(dg0.Draw(mean))

	// update a ← a + zₖ₋₁·c
	for i := range a {
		a[i] += float64(z[k-1]) * c[i]
	}

	// 2) remaining coords
	for i := 0; i < k-1; i++ {
		dg := NewDiscreteGaussianFromSource(sigma, rng)
		z[i] = int(dg.Draw(-a[i]))
	}

	return z
}

// gSampler holds the per-parameter-set precomputation for the discrete
// G-sampling of Alg 3: the ℓ/h Cholesky factors of the gadget basis, the
// base-t digits of q, and the d-recurrence in big.Float. One instance
// serves any number of scalar targets; the ring and classical samplers
// both go through it.
type gSampler struct {
	sigmaP    float64 // σ = σₜ/(t+1)
	base      uint64
	q         uint64
	k         int
	ell, h    []float64
	modDigits []int64
	d         []float64
	rng       *rand.Rand
}

const gSamplerPrec = 256 // binary precision for carry recurrences

// newGSampler prepares a G-sampler for width sigma (=σₜ), gadget base t
// and modulus q with k digits.
func newGSampler(sigma float64, base, q uint64, k int, rng *rand.Rand) *gSampler {
	if k < 2 {
		panic("gSampler: gadget length must be at least 2")
	}
	gs := &gSampler{
		sigmaP: sigma / float64(base+1),
		base:   base,
		q:      q,
		k:      k,
		rng:    rng,
	}

	// 1) ℓ[], h[] in float64 (centers themselves are carried in big.Float)
	gs.ell = make([]float64, k)
	gs.h = make([]float64, k)
	gs.ell[0] = math.Sqrt(float64(base)*(1+1/float64(k)) + 1)
	for i := 1; i < k; i++ {
		gs.ell[i] = math.Sqrt(float64(base) * (1 + 1/float64(k-i)))
	}
	gs.h[0] = 0
	for i := 1; i < k; i++ {
		gs.h[i] = math.Sqrt(float64(base) * (1 - 1/float64(k-(i-1))))
	}

	// 2) d-recurrence from the digits of q:
	//    d[0] = q₀/t, d[i] = (d[i-1] + q_i)/t
	gs.modDigits = baseDigits(int64(q), int64(base), k)
	baseB := new(big.Float).SetPrec(gSamplerPrec).SetFloat64(float64(base))
	dBig := make([]*big.Float, k)
	dBig[0] = new(big.Float).SetPrec(gSamplerPrec).
		Quo(
			new(big.Float).SetPrec(gSamplerPrec).SetFloat64(float64(gs.modDigits[0])),
			baseB,
		)
	for i := 1; i < k; i++ {
		tmp := new(big.Float).SetPrec(gSamplerPrec).
			Add(
				dBig[i-1],
				new(big.Float).SetPrec(gSamplerPrec).SetFloat64(float64(gs.modDigits[i])),
			)
		dBig[i] = new(big.Float).SetPrec(gSamplerPrec).Quo(tmp, baseB)
	}
	gs.d = make([]float64, k)
	for i := 0; i < k; i++ {
		gs.d[i], _ = dBig[i].Float64()
	}
	return gs
}

// sample draws t ∈ ℤ^k with Σ base^i·t[i] ≡ v (mod q), distributed as a
// discrete Gaussian over that coset of width σₜ.
func (gs *gSampler) sample(v uint64) []int64 {
	k := gs.k
	vDigits := baseDigits(int64(v), int64(gs.base), k)

	// a) perturb → p[0..k-1]
	p := Perturb(gs.sigmaP, gs.ell, gs.h, gs.base, gs.rng)

	// b) carry recurrence for the centers, in big.Float:
	//    c[0] = (v₀ - p₀)/t, c[i] = (c[i-1] + v_i - p_i)/t
	baseB := new(big.Float).SetPrec(gSamplerPrec).SetFloat64(float64(gs.base))
	cBig := make([]*big.Float, k)
	cBig[0] = new(big.Float).SetPrec(gSamplerPrec).
		Quo(
			new(big.Float).SetPrec(gSamplerPrec).SetFloat64(float64(vDigits[0]-p[0])),
			baseB,
		)
	for i := 1; i < k; i++ {
		tmp := new(big.Float).SetPrec(gSamplerPrec).
			Add(
				cBig[i-1],
				new(big.Float).SetPrec(gSamplerPrec).SetFloat64(float64(vDigits[i]-p[i])),
			)
		cBig[i] = new(big.Float).SetPrec(gSamplerPrec).Quo(tmp, baseB)

		// carry invariant: t·c[i] == c[i-1] + v_i - p_i
		lhs := new(big.Float).SetPrec(gSamplerPrec).Mul(baseB, cBig[i])
		diff := new(big.Float).SetPrec(gSamplerPrec).Sub(lhs, tmp)
		assert(diff.Abs(diff).Cmp(carryTol) <= 0, "gSampler: carry invariant broken at digit %d", i)
	}

	c := make([]float64, k)
	for i := 0; i < k; i++ {
		c[i], _ = cBig[i].Float64()
	}

	// c) discrete-Gaussian sample z[0..k-1]
	z := SampleD(gs.sigmaP, c, gs.d, gs.rng)

	// d) reconstruct t = B·z + v-digits; the telescoping basis guarantees
	//    Σ base^i·t[i] = v + q·z[k-1]
	b := int64(gs.base)
	t := make([]int64, k)
	t[0] = b*int64(z[0]) +
		gs.modDigits[0]*int64(z[k-1]) +
		vDigits[0]
	for i := 1; i < k-1; i++ {
		t[i] = b*int64(z[i]) -
			int64(z[i-1]) +
			gs.modDigits[i]*int64(z[k-1]) +
			vDigits[i]
	}
	t[k-1] = gs.modDigits[k-1]*int64(z[k-1]) -
		int64(z[k-2]) +
		vDigits[k-1]
	return t
}

var carryTol = new(big.Float).SetPrec(gSamplerPrec).SetFloat64(1e-30)

// SampleGDiscrete runs the discrete G-sampling (Alg 3) for every
// coefficient of a ring target.
//
//	ringQ  : R_q ring
//	sigma  : Gaussian width σₜ
//	base   : gadget base t
//	uCoeff : coefficient form of u(x) in [0,q), len = ringQ.N
//	k      : gadget length (digits)
//	rng    : optional deterministic source
//
// returns a k×N matrix Z of ints with Σ base^i·Z[i][j] ≡ uCoeff[j] (mod q).
func SampleGDiscrete(
	ringQ *ring.Ring,
	sigma float64,
	base uint64,
	uCoeff []uint64,
	k int,
	rng *rand.Rand,
) [][]int64 {
	N := ringQ.N
	gs := newGSampler(sigma, base, ringQ.Modulus[0], k, rng)

	Z := make([][]int64, k)
	for i := range Z {
		Z[i] = make([]int64, N)
	}
	for j := 0; j < N; j++ {
		t := gs.sample(uCoeff[j])
		for i := 0; i < k; i++ {
			Z[i][j] = t[i]
		}
	}
	return Z
}

// SampleGVector is the classical counterpart: it samples z ∈ ℤ^{n·k}
// with G·z ≡ v (mod q) for a syndrome v ∈ Z_q^n, one scalar G-sample
// per coordinate.
func SampleGVector(p *GadgetParameters, sigma float64, v *mat.MatZq, rng *rand.Rand) *mat.MatZ {
	if v.Rows != p.N || v.Cols != 1 {
		panic("SampleGVector: syndrome must be n x 1")
	}
	gs := newGSampler(sigma, p.Base, p.Q, p.K, rng)
	z := mat.NewMatZ(p.N*p.K, 1)
	for i := 0; i < p.N; i++ {
		t := gs.sample(v.At(i, 0))
		for j := 0; j < p.K; j++ {
			z.Set(i*p.K+j, 0, t[j])
		}
	}
	return z
}
