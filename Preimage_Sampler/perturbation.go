// perturbation.go
// Perturbation generation for the ring sampler (Alg 4). The covariance
// shaped by the trapdoor is carried through K_{2N} in arbitrary
// precision; only the leaf integer draws round to float64.

package Preimage_Sampler

import (
	"math"
	"math/big"
	"math/rand"

	"github.com/tuneinsight/lattigo/v4/ring"
)

// Sample2zField performs one 2x2 block step of the recursive field
// sampler: given the Schur blocks a, b, d of the target covariance (Eval
// domain) and centers c0, c1 (Coeff domain), it draws q1 from the d
// block, conditions the a block on the outcome and draws q0.
func Sample2zField(
	a, b, d *CyclotomicFieldElem,
	c0, c1 *CyclotomicFieldElem,
	n int,
	prec uint,
	rng *rand.Rand,
) (q0, q1 *CyclotomicFieldElem) {

	// q1 ← SampleFZ(d, c1)
	dCoeff := FloatToCoeffNegacyclic(d, prec)
	q1 = SampleFZBig(dCoeff, c1, prec, rng)

	// delta = q1 − c1, lifted to Eval
	delta := FieldSubBig(q1, c1)
	delta = FloatToEvalNegacyclic(delta, prec)

	// invD = conj(d)/|d|², the pointwise inverse in Eval
	invD, norms := FieldInverseDiagWithNorm(d)
	invD = FieldScalarDiv(invD, norms)
	invD.Domain = Eval

	// c0' = c0 + b·d⁻¹·(q1 − c1)
	tmp := FieldMulBig(invD, delta)
	tmp.Domain = Eval
	scaledDelta := FieldMulBig(b, tmp)
	scaledDelta.Domain = Eval
	scaledDelta = FloatToCoeffNegacyclic(scaledDelta, prec)
	c0p := FieldAddBig(c0, scaledDelta)

	// a' = a − b·d⁻¹·bᵀ, the Schur complement
	bT := HermitianTransposeFieldElem(b)
	tmpCond := FieldMulBig(invD, bT)
	tmpCond.Domain = Eval
	condEval := FieldMulBig(b, tmpCond)
	condEval.Domain = Eval
	cond := FloatToCoeffNegacyclic(condEval, prec)

	aPr := FloatToCoeffNegacyclic(a.Copy(), prec)
	aPr = FieldSubBig(aPr, cond)

	// q0 ← SampleFZ(a', c0')
	q0 = SampleFZBig(aPr, c0p, prec, rng)
	return
}

// SampleFZBig samples an integer vector whose covariance is the field
// element f (Coeff domain) around center c (Coeff domain), by recursive
// even/odd splitting down to scalar discrete Gaussians.
func SampleFZBig(
	f *CyclotomicFieldElem,
	c *CyclotomicFieldElem,
	prec uint,
	rng *rand.Rand,
) *CyclotomicFieldElem {
	m := f.N

	if m == 1 {
		variance, _ := f.Coeffs[0].Real.Float64()
		assert(variance >= 0, "SampleFZBig: negative leaf variance %g", variance)
		mean, _ := c.Coeffs[0].Real.Float64()
		dg := NewDiscreteGaussianFromSource(math.Sqrt(variance), rng)
		out := NewFieldElemBig(1, prec)
		out.Coeffs[0] = NewBigComplex(float64(dg.Draw(mean)), 0, prec)
		return out
	}

	// split covariance into even/odd strides, lift to Eval
	f0 := f.Copy().ExtractEven()
	f1 := f.Copy().ExtractOdd()
	half := m / 2
	f0 = FloatToEvalNegacyclic(f0, prec)
	f1 = FloatToEvalNegacyclic(f1, prec)

	// centers follow the same permutation
	c0 := c.Copy().ExtractEven()
	c1 := c.Copy().ExtractOdd()

	q0, q1 := Sample2zField(
		f0, f1, f0,
		NewFieldElemBig(half, prec).SetCoeffs(c0),
		NewFieldElemBig(half, prec).SetCoeffs(c1),
		half,
		prec, rng,
	)

	// pack halves and interleave back to natural order
	out := NewFieldElemBig(m, prec)
	for i := 0; i < half; i++ {
		out.Coeffs[i] = q0.Coeffs[i]
		out.Coeffs[i+half] = q1.Coeffs[i]
	}
	InversePermuteFieldElem(out)
	return out
}

// SamplePz implements the perturbation generation of Alg 4.
//
//	ringQ          : the R_q ring
//	s, alpha       : spectral width s and G-sampler width σₜ
//	Ttilde         : trapdoor rows [r̂; ê], each length k, in EVAL
//	expectedLength : k + 2
//	prec           : big.Float precision
//	rng            : optional deterministic source
//
// Returns p ∈ R^{k+2} in EVAL with covariance s²·I − α²·[T;I]·[T;I]ᵀ, so
// that p + [T;I]·z is spherical of width s for a width-α G-sample z.
func SamplePz(
	ringQ *ring.Ring,
	s, alpha float64,
	Ttilde [2][]*ring.Poly,
	expectedLength int,
	prec uint,
	rng *rand.Rand,
) []*ring.Poly {
	n := ringQ.N
	k := len(Ttilde[0])

	// z = (1/α² − 1/s²)^(−1)
	one := new(big.Float).SetPrec(prec).SetFloat64(1.0)
	s2 := new(big.Float).SetPrec(prec).SetFloat64(s * s)
	a2 := new(big.Float).SetPrec(prec).SetFloat64(alpha * alpha)
	invS2 := new(big.Float).SetPrec(prec).Quo(one, s2)
	invA2 := new(big.Float).SetPrec(prec).Quo(one, a2)
	diff := new(big.Float).SetPrec(prec).Sub(invA2, invS2)
	zBig := new(big.Float).SetPrec(prec).Quo(one, diff)
	z := NewBigComplexFromFloat(zBig, big.NewFloat(0).SetPrec(prec))

	// accumulators a = d = s², b = 0, as constants in Coeff domain
	aFld := NewFieldElemBig(n, prec)
	bFld := NewFieldElemBig(n, prec)
	dFld := NewFieldElemBig(n, prec)
	s2c := NewBigComplexFromFloat(s2, big.NewFloat(0).SetPrec(prec))
	aFld.Coeffs[0] = s2c.Copy()
	dFld.Coeffs[0] = s2c.Copy()

	aFld = FloatToEvalNegacyclic(aFld, prec)
	bFld = FloatToEvalNegacyclic(bFld, prec)
	dFld = FloatToEvalNegacyclic(dFld, prec)

	// a −= z·Σ r̂ᵀr̂, b −= z·Σ r̂ᵀê, d −= z·Σ êᵀê, slotwise in Eval
	for j := 0; j < k; j++ {
		rPoly := ringQ.NewPoly()
		ringQ.InvNTT(Ttilde[0][j], rPoly)
		ePoly := ringQ.NewPoly()
		ringQ.InvNTT(Ttilde[1][j], ePoly)

		rF := NegacyclicEvaluatePoly(rPoly, ringQ, prec)
		eF := NegacyclicEvaluatePoly(ePoly, ringQ, prec)
		rT := HermitianTransposeFieldElem(rF)
		eT := HermitianTransposeFieldElem(eF)

		for i := 0; i < n; i++ {
			tmp := rT.Coeffs[i].Mul(rF.Coeffs[i]).Mul(z)
			aFld.Coeffs[i] = aFld.Coeffs[i].Sub(tmp)
			tmp = rT.Coeffs[i].Mul(eF.Coeffs[i]).Mul(z)
			bFld.Coeffs[i] = bFld.Coeffs[i].Sub(tmp)
			tmp = eT.Coeffs[i].Mul(eF.Coeffs[i]).Mul(z)
			dFld.Coeffs[i] = dFld.Coeffs[i].Sub(tmp)
		}
	}

	// q̂ ∈ R^k from D_{√(s²−α²)}, stored in EVAL
	sigmaQ := math.Sqrt(s*s - alpha*alpha)
	qhat := make([]*ring.Poly, k)
	dgQ := NewDiscreteGaussianFromSource(sigmaQ, rng)
	for j := 0; j < k; j++ {
		ints := make([]int64, n)
		for i := range ints {
			ints[i] = dgQ.Draw(0.0)
		}
		P := ringQ.NewPoly()
		for lvl, qi := range ringQ.Modulus {
			for i := 0; i < n; i++ {
				P.Coeffs[lvl][i] = SignedToUnsigned(ints[i], qi)
			}
		}
		ringQ.NTT(P, P)
		qhat[j] = P
	}

	// centers c0, c1 = −α²/(s²−α²) · (r̂ᵀq̂, êᵀq̂)
	scaleN := new(big.Float).SetPrec(prec).SetFloat64(-alpha * alpha)
	scaleD := new(big.Float).SetPrec(prec).Sub(s2, a2)
	scale := new(big.Float).SetPrec(prec).Quo(scaleN, scaleD)
	scaleC := NewBigComplexFromFloat(scale, big.NewFloat(0).SetPrec(prec))

	c0 := NewFieldElemBig(n, prec)
	c1 := NewFieldElemBig(n, prec)
	for j := 0; j < k; j++ {
		qPoly := ringQ.NewPoly()
		ringQ.InvNTT(qhat[j], qPoly)
		rPoly := ringQ.NewPoly()
		ringQ.InvNTT(Ttilde[0][j], rPoly)
		ePoly := ringQ.NewPoly()
		ringQ.InvNTT(Ttilde[1][j], ePoly)

		qF := NegacyclicEvaluatePoly(qPoly, ringQ, prec)
		rF := NegacyclicEvaluatePoly(rPoly, ringQ, prec)
		eF := NegacyclicEvaluatePoly(ePoly, ringQ, prec)
		rT := HermitianTransposeFieldElem(rF)
		eT := HermitianTransposeFieldElem(eF)
		for i := 0; i < n; i++ {
			c0.Coeffs[i] = c0.Coeffs[i].Add(rT.Coeffs[i].Mul(qF.Coeffs[i]))
			c1.Coeffs[i] = c1.Coeffs[i].Add(eT.Coeffs[i].Mul(qF.Coeffs[i]))
		}
	}
	c0 = FieldScalarMulBig(c0, scaleC)
	c1 = FieldScalarMulBig(c1, scaleC)
	c0.Domain = Eval
	c1.Domain = Eval
	c0 = FloatToCoeffNegacyclic(c0, prec)
	c1 = FloatToCoeffNegacyclic(c1, prec)

	// final 2x2 block sample → p0, p1
	p0, p1 := Sample2zField(aFld, bFld, dFld, c0, c1, n, prec, rng)

	out := make([]*ring.Poly, expectedLength)
	P0 := NegacyclicInterpolateElem(p0, ringQ)
	ringQ.NTT(P0, P0)
	P1 := NegacyclicInterpolateElem(p1, ringQ)
	ringQ.NTT(P1, P1)
	out[0], out[1] = P0, P1
	for j := 0; j < k; j++ {
		out[j+2] = qhat[j]
	}
	return out
}
