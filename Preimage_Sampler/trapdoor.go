package Preimage_Sampler

import (
	"fmt"
	"math/rand"

	"github.com/tuneinsight/lattigo/v4/ring"
	"github.com/tuneinsight/lattigo/v4/utils"

	mat "github.com/shafriraxu/crypto/Matrix"
)

// Trapdoor is a classical G-trapdoor: the public matrix
// A = [Ā | tag·G − Ā·R] together with the secret short R satisfying
// A·[R; I] = tag·G. R is never reconstructible from A alone.
type Trapdoor struct {
	A *mat.MatZq // n × m public matrix
	R *mat.MatZ  // m̄ × n·k secret short matrix
}

// GenTrapdoor builds a classical G-trapdoor for the given parameters.
//
//	aBar : n × m̄ uniform part; nil samples a fresh uniform one
//	tag  : n × n invertible tag; nil selects the identity
//	rng  : randomness source; nil selects the process-wide one
//
// R is drawn entrywise from D_ℤ(0, σ_trap). The only failure mode is a
// dimension mismatch between the supplied matrices and the parameters —
// a parameter error, never a cryptographic one.
func GenTrapdoor(p *GadgetParameters, aBar, tag *mat.MatZq, rng *rand.Rand) (*Trapdoor, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if aBar == nil {
		aBar = mat.NewUniformMatZq(p.N, p.MBar, p.Q, rng)
	} else if aBar.Rows != p.N || aBar.Cols != p.MBar || aBar.Q != p.Q {
		return nil, fmt.Errorf("gen trapdoor: a_bar is %dx%d mod %d, want %dx%d mod %d",
			aBar.Rows, aBar.Cols, aBar.Q, p.N, p.MBar, p.Q)
	}
	if tag == nil {
		tag = mat.IdentityZq(p.N, p.Q)
	} else if tag.Rows != p.N || tag.Cols != p.N || tag.Q != p.Q {
		return nil, fmt.Errorf("gen trapdoor: tag is %dx%d mod %d, want %dx%d mod %d",
			tag.Rows, tag.Cols, tag.Q, p.N, p.N, p.Q)
	}

	// R ← D_{ℤ, σ_trap}^{m̄ × nk}
	dg := NewDiscreteGaussianFromSource(p.SigmaTrap, rng)
	R := mat.NewMatZ(p.MBar, p.N*p.K)
	for i := range R.Data {
		R.Data[i] = dg.Draw(0)
	}

	// A = [Ā | tag·G − Ā·R]
	tagG := tag.Mul(GadgetMatrix(p))
	A2 := tagG.Sub(aBar.MulZ(R))
	A := aBar.ConcatHorizontal(A2)

	return &Trapdoor{A: A, R: R}, nil
}

// RingTrapdoor holds the public key A and the secret trapdoor (r̂,ê) of
// the ring-LWE construction.
// Base = gadget base t, K = gadget dimension κ.
type RingTrapdoor struct {
	A    []*ring.Poly    // full public row: [1, a, g₁−(a·r̂₁+ê₁), …, g_κ−(a·r̂_κ+ê_κ)]
	A1   []*ring.Poly    // first block [1, a]
	A2   []*ring.Poly    // gadget block [gᵢ−(…)]
	R    [2][]*ring.Poly // secret trapdoor rows: R[0]=r̂, R[1]=ê
	Base uint64          // gadget base t
	K    int             // gadget length κ
	Rows int             // =1
	Cols int             // =2
}

// TrapGen implements Algorithm 1 (Ring-LWE trapdoor).
//   - ringQ: the R_q ring
//   - base t, sigmaT: Gaussian width σₜ for sampling r̂, ê
//   - prng: uniformity source for a; nil allocates a fresh one
//   - rng: source for the trapdoor Gaussians; nil uses the process-wide one
func TrapGen(ringQ *ring.Ring, base uint64, sigmaT float64, prng utils.PRNG, rng *rand.Rand) RingTrapdoor {
	// 0) κ = ceil(log_t q)
	k := GadgetLength(ringQ.Modulus[0], base)

	// 1) sample a ← Uniform(R_q)
	if prng == nil {
		var err error
		prng, err = utils.NewPRNG()
		if err != nil {
			panic(err)
		}
	}
	uniform := ring.NewUniformSampler(prng, ringQ)
	a := ringQ.NewPoly()
	uniform.Read(a)
	ringQ.NTT(a, a)

	// 2) sample r̂, ê ∈ R_q^κ from D_{R,σₜ}
	Rhat := make([]*ring.Poly, k)
	Ehat := make([]*ring.Poly, k)
	dg := NewDiscreteGaussianFromSource(sigmaT, rng)
	for j := 0; j < k; j++ {
		Rhat[j] = ringQ.NewPoly()
		Ehat[j] = ringQ.NewPoly()
		for lvl, qi := range ringQ.Modulus {
			mod := int64(qi)
			for i := 0; i < ringQ.N; i++ {
				r := dg.Draw(0)
				e := dg.Draw(0)
				Rhat[j].Coeffs[lvl][i] = uint64((r%mod + mod) % mod)
				Ehat[j].Coeffs[lvl][i] = uint64((e%mod + mod) % mod)
			}
		}
		ringQ.NTT(Rhat[j], Rhat[j])
		ringQ.NTT(Ehat[j], Ehat[j])
	}

	// 3) gadget row g₁,…,g_κ as constant polys
	G := CreateGadgetMatrix(ringQ, base, 1, k)
	for j := range G {
		ringQ.NTT(G[j], G[j])
	}

	// 4) A₂[j] = g_j − (a⋅r̂_j + ê_j), all operands in EVAL.
	// MulCoeffsMontgomery needs one operand in Montgomery form.
	aM := ringQ.NewPoly()
	ringQ.MForm(a, aM)
	A2 := make([]*ring.Poly, k)
	for j := 0; j < k; j++ {
		tmp := ringQ.NewPoly()
		ringQ.MulCoeffsMontgomery(aM, Rhat[j], tmp)
		ringQ.Add(tmp, Ehat[j], tmp)
		A2[j] = ringQ.NewPoly()
		ringQ.Sub(G[j], tmp, A2[j])
	}

	// 5) A₁ = [1, a]
	one := ringQ.NewPoly()
	for lvl := range ringQ.Modulus {
		one.Coeffs[lvl][0] = 1
	}
	ringQ.NTT(one, one)
	A1 := []*ring.Poly{one, a}

	// 6) flatten A = [ A₁ ∥ A₂ ]
	A := append(A1, A2...)

	return RingTrapdoor{
		A:    A,
		A1:   A1,
		A2:   A2,
		R:    [2][]*ring.Poly{Rhat, Ehat},
		Base: base,
		K:    k,
		Rows: 1,
		Cols: 2,
	}
}
