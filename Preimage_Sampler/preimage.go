// preimage.go
// Gaussian preimage sampling for the ring trapdoor (Alg 2, discrete
// branch): a perturbation shaped by the trapdoor plus a G-sample of the
// adjusted syndrome, assembled so that A·x ≡ u exactly.

package Preimage_Sampler

import (
	"math/rand"

	"github.com/tuneinsight/lattigo/v4/ring"
)

// ZtoZhat converts an integer matrix Z ∈ ℤ^{κ×N} into polys in R_q^κ
// (full CRT), returned in EVAL.
func ZtoZhat(Z [][]int64, ringQ *ring.Ring) []*ring.Poly {
	out := make([]*ring.Poly, len(Z))
	for i := range Z {
		P := ringQ.NewPoly()
		for lvl, qi := range ringQ.Modulus {
			for t := 0; t < ringQ.N; t++ {
				P.Coeffs[lvl][t] = SignedToUnsigned(Z[i][t], qi)
			}
		}
		ringQ.NTT(P, P)
		out[i] = P
	}
	return out
}

// GaussSamp draws x ∈ R^{k+2} with A·x ≡ u (mod q), distributed as a
// spherical discrete Gaussian of width s over that coset.
//
//	ringQ      : the R_q ring
//	td         : trapdoor from TrapGen, all polys in EVAL
//	u          : target syndrome in EVAL
//	sigma, s   : smoothing width σ and spectral width s
//	rng        : optional deterministic source
//
// The G-sampler runs at width σₜ = (t+1)·σ; the perturbation covers the
// gap up to s²·I.
func GaussSamp(
	ringQ *ring.Ring,
	td *RingTrapdoor,
	u *ring.Poly,
	sigma, s float64,
	rng *rand.Rand,
) []*ring.Poly {
	N := ringQ.N
	k := td.K
	rHat, eHat := td.R[0], td.R[1]
	sigmaT := float64(td.Base+1) * sigma

	// 1) perturbation p ∈ R^{k+2} in EVAL
	p := SamplePz(ringQ, s, sigmaT, [2][]*ring.Poly{rHat, eHat}, k+2, gSamplerPrec, rng)

	// 2) adjusted syndrome v = u − A·p, back to COEFF.
	// One operand of every product is lifted to Montgomery form so the
	// M⁻¹ factor of MulCoeffsMontgomery cancels.
	pertEval := ringQ.NewPoly()
	tmp := ringQ.NewPoly()
	opM := ringQ.NewPoly()
	for i := range p {
		ringQ.MForm(p[i], opM)
		ringQ.MulCoeffsMontgomery(td.A[i], opM, tmp)
		ringQ.Add(pertEval, tmp, pertEval)
	}
	subEval := ringQ.NewPoly()
	ringQ.Sub(u, pertEval, subEval)
	sub := ringQ.NewPoly()
	ringQ.InvNTT(subEval, sub)

	// 3) discrete G-sample of every coefficient of v
	uCoeffs := make([]uint64, N)
	copy(uCoeffs, sub.Coeffs[0])
	Zmat := SampleGDiscrete(ringQ, sigmaT, td.Base, uCoeffs, k, rng)

	// 4) CRT+NTT each row of Z
	zHat := ZtoZhat(Zmat, ringQ)

	// 5) x = p + [ê·ẑ, r̂·ẑ, ẑ₀, …, ẑ_{κ−1}]
	x := make([]*ring.Poly, k+2)

	zM := make([]*ring.Poly, k)
	for j := 0; j < k; j++ {
		zM[j] = ringQ.NewPoly()
		ringQ.MForm(zHat[j], zM[j])
	}

	sum0 := ringQ.NewPoly()
	tmpez := ringQ.NewPoly()
	for j := 0; j < k; j++ {
		ringQ.MulCoeffsMontgomery(eHat[j], zM[j], tmpez)
		ringQ.Add(sum0, tmpez, sum0)
	}
	x[0] = ringQ.NewPoly()
	ringQ.Add(p[0], sum0, x[0])

	sum1 := ringQ.NewPoly()
	for j := 0; j < k; j++ {
		ringQ.MulCoeffsMontgomery(rHat[j], zM[j], tmpez)
		ringQ.Add(sum1, tmpez, sum1)
	}
	x[1] = ringQ.NewPoly()
	ringQ.Add(p[1], sum1, x[1])

	for i := 2; i < k+2; i++ {
		x[i] = ringQ.NewPoly()
		ringQ.Add(p[i], zHat[i-2], x[i])
	}

	return x
}

// ApplyRow evaluates the public row on a candidate preimage: Σ A[i]·x[i]
// in EVAL. Verifiers compare the result against the syndrome.
func ApplyRow(ringQ *ring.Ring, A, x []*ring.Poly) *ring.Poly {
	acc := ringQ.NewPoly()
	tmp := ringQ.NewPoly()
	xM := ringQ.NewPoly()
	for i := range x {
		ringQ.MForm(x[i], xM)
		ringQ.MulCoeffsMontgomery(A[i], xM, tmp)
		ringQ.Add(acc, tmp, acc)
	}
	return acc
}
