// bigcomplex.go
// Arbitrary-precision complex arithmetic and the negacyclic FFT embedding
// of R = Z[x]/(x^N+1) into K_{2N}. The perturbation sampler runs entirely
// on these types; float64 never enters until the final rounding step.

package Preimage_Sampler

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"

	"github.com/tuneinsight/lattigo/v4/ring"
)

// Domain marks whether a CyclotomicFieldElem holds polynomial coefficients
// or evaluations at the odd 2N-th roots of unity.
type Domain int

const (
	Coeff Domain = iota
	Eval
)

// BigComplex is a complex number with big.Float real and imaginary parts.
type BigComplex struct {
	Real *big.Float
	Imag *big.Float
}

// NewBigComplex lifts a float64 pair to precision prec.
func NewBigComplex(real, imag float64, prec uint) *BigComplex {
	return &BigComplex{
		Real: new(big.Float).SetPrec(prec).SetFloat64(real),
		Imag: new(big.Float).SetPrec(prec).SetFloat64(imag),
	}
}

// NewBigComplexFromFloat deep-copies the given parts.
func NewBigComplexFromFloat(re, im *big.Float) *BigComplex {
	return &BigComplex{
		Real: new(big.Float).Copy(re),
		Imag: new(big.Float).Copy(im),
	}
}

// NewBigComplexZero returns 0 + 0i at precision prec.
func NewBigComplexZero(prec uint) *BigComplex {
	return NewBigComplex(0, 0, prec)
}

// Add returns z + w.
func (z *BigComplex) Add(w *BigComplex) *BigComplex {
	return &BigComplex{
		Real: new(big.Float).Add(z.Real, w.Real),
		Imag: new(big.Float).Add(z.Imag, w.Imag),
	}
}

// Sub returns z - w.
func (z *BigComplex) Sub(w *BigComplex) *BigComplex {
	return &BigComplex{
		Real: new(big.Float).Sub(z.Real, w.Real),
		Imag: new(big.Float).Sub(z.Imag, w.Imag),
	}
}

// Mul returns z * w.
func (z *BigComplex) Mul(w *BigComplex) *BigComplex {
	ac := new(big.Float).Mul(z.Real, w.Real)
	bd := new(big.Float).Mul(z.Imag, w.Imag)
	ad := new(big.Float).Mul(z.Real, w.Imag)
	bc := new(big.Float).Mul(z.Imag, w.Real)
	return &BigComplex{
		Real: new(big.Float).Sub(ac, bd),
		Imag: new(big.Float).Add(ad, bc),
	}
}

// Conj returns the complex conjugate.
func (z *BigComplex) Conj() *BigComplex {
	return &BigComplex{
		Real: new(big.Float).Copy(z.Real),
		Imag: new(big.Float).Neg(z.Imag),
	}
}

// AbsSquared returns |z|².
func (z *BigComplex) AbsSquared() *big.Float {
	r2 := new(big.Float).Mul(z.Real, z.Real)
	i2 := new(big.Float).Mul(z.Imag, z.Imag)
	return new(big.Float).Add(r2, i2)
}

// Copy returns a deep copy.
func (z *BigComplex) Copy() *BigComplex {
	return &BigComplex{
		Real: new(big.Float).Copy(z.Real),
		Imag: new(big.Float).Copy(z.Imag),
	}
}

// DivBy divides both parts by a real scalar.
func (z *BigComplex) DivBy(scalar *big.Float) *BigComplex {
	return &BigComplex{
		Real: new(big.Float).Quo(z.Real, scalar),
		Imag: new(big.Float).Quo(z.Imag, scalar),
	}
}

// ToComplex rounds to a complex128, losing precision.
func (z *BigComplex) ToComplex() complex128 {
	r, _ := z.Real.Float64()
	i, _ := z.Imag.Float64()
	return complex(r, i)
}

// CyclotomicFieldElem is an element of K_{2N} of length N.
type CyclotomicFieldElem struct {
	N      int
	Coeffs []*BigComplex
	Domain Domain
}

// NewFieldElemBig allocates a zero element in Coeff domain.
func NewFieldElemBig(n int, prec uint) *CyclotomicFieldElem {
	coeffs := make([]*BigComplex, n)
	for i := range coeffs {
		coeffs[i] = NewBigComplexZero(prec)
	}
	return &CyclotomicFieldElem{N: n, Coeffs: coeffs, Domain: Coeff}
}

// Copy returns a deep copy including every BigComplex entry.
func (f *CyclotomicFieldElem) Copy() *CyclotomicFieldElem {
	out := NewFieldElemBig(f.N, f.Coeffs[0].Real.Prec())
	out.Domain = f.Domain
	for i := 0; i < f.N; i++ {
		out.Coeffs[i] = f.Coeffs[i].Copy()
	}
	return out
}

// SetCoeffs copies the coefficients from src into f and returns f.
func (f *CyclotomicFieldElem) SetCoeffs(src *CyclotomicFieldElem) *CyclotomicFieldElem {
	if f.N != src.N {
		panic("SetCoeffs: dimension mismatch")
	}
	for i := 0; i < f.N; i++ {
		f.Coeffs[i] = src.Coeffs[i]
	}
	return f
}

// ExtractEven returns the even-indexed coefficients of f.
func (f *CyclotomicFieldElem) ExtractEven() *CyclotomicFieldElem {
	half := f.N / 2
	out := NewFieldElemBig(half, f.Coeffs[0].Real.Prec())
	for i := 0; i < half; i++ {
		out.Coeffs[i] = f.Coeffs[2*i]
	}
	return out
}

// ExtractOdd returns the odd-indexed coefficients of f.
func (f *CyclotomicFieldElem) ExtractOdd() *CyclotomicFieldElem {
	half := f.N / 2
	out := NewFieldElemBig(half, f.Coeffs[0].Real.Prec())
	for i := 0; i < half; i++ {
		out.Coeffs[i] = f.Coeffs[2*i+1]
	}
	return out
}

// InversePermuteFieldElem interleaves the two halves of x in place: the
// first half lands on even positions, the second half on odd ones. This
// undoes the even/odd split of the recursive sampler.
func InversePermuteFieldElem(x *CyclotomicFieldElem) {
	n := x.N
	tmp := make([]*BigComplex, n)
	half := n / 2
	e, o := 0, half
	for i := 0; e < half; i += 2 {
		tmp[i] = x.Coeffs[e]
		tmp[i+1] = x.Coeffs[o]
		e++
		o++
	}
	copy(x.Coeffs, tmp)
}

// FieldAddBig returns a + b coordinatewise.
func FieldAddBig(a, b *CyclotomicFieldElem) *CyclotomicFieldElem {
	if a.N != b.N {
		panic("FieldAddBig: dimension mismatch")
	}
	res := NewFieldElemBig(a.N, a.Coeffs[0].Real.Prec())
	for i := 0; i < a.N; i++ {
		res.Coeffs[i] = a.Coeffs[i].Add(b.Coeffs[i])
	}
	return res
}

// FieldSubBig returns a − b coordinatewise.
func FieldSubBig(a, b *CyclotomicFieldElem) *CyclotomicFieldElem {
	if a.N != b.N {
		panic("FieldSubBig: dimension mismatch")
	}
	res := NewFieldElemBig(a.N, a.Coeffs[0].Real.Prec())
	for i := 0; i < a.N; i++ {
		res.Coeffs[i] = a.Coeffs[i].Sub(b.Coeffs[i])
	}
	return res
}

// FieldMulBig returns the coordinatewise (Eval-domain) product.
func FieldMulBig(a, b *CyclotomicFieldElem) *CyclotomicFieldElem {
	if a.N != b.N {
		panic("FieldMulBig: dimension mismatch")
	}
	res := NewFieldElemBig(a.N, a.Coeffs[0].Real.Prec())
	for i := 0; i < a.N; i++ {
		res.Coeffs[i] = a.Coeffs[i].Mul(b.Coeffs[i])
	}
	return res
}

// FieldScalarMulBig multiplies every coordinate by s.
func FieldScalarMulBig(a *CyclotomicFieldElem, s *BigComplex) *CyclotomicFieldElem {
	res := NewFieldElemBig(a.N, a.Coeffs[0].Real.Prec())
	for i := 0; i < a.N; i++ {
		res.Coeffs[i] = a.Coeffs[i].Mul(s)
	}
	return res
}

// FieldScalarDiv divides coordinate i by the real scalar norm[i].
func FieldScalarDiv(a *CyclotomicFieldElem, norm []*big.Float) *CyclotomicFieldElem {
	if len(norm) != a.N {
		panic("FieldScalarDiv: length mismatch")
	}
	prec := a.Coeffs[0].Real.Prec()
	zero := new(big.Float).SetPrec(prec)
	res := NewFieldElemBig(a.N, prec)
	for i := 0; i < a.N; i++ {
		if norm[i].Cmp(zero) == 0 {
			panic(fmt.Sprintf("FieldScalarDiv: zero norm at %d", i))
		}
		res.Coeffs[i] = a.Coeffs[i].DivBy(norm[i])
	}
	return res
}

// HermitianTransposeFieldElem applies the field automorphism x ↦ x^{-1},
// which on evaluations is index reversal plus conjugation.
func HermitianTransposeFieldElem(f *CyclotomicFieldElem) *CyclotomicFieldElem {
	n := f.N
	res := NewFieldElemBig(n, f.Coeffs[0].Real.Prec())
	for i := 0; i < n; i++ {
		rev := (n - i) % n
		res.Coeffs[i] = f.Coeffs[rev].Conj()
	}
	return res
}

// FieldInverseDiagWithNorm returns conj(d) together with the per-slot
// norms |d_i|², so that conj(d)/|d|² is the pointwise inverse. Panics on
// a zero slot.
func FieldInverseDiagWithNorm(d *CyclotomicFieldElem) (*CyclotomicFieldElem, []*big.Float) {
	n := d.N
	prec := d.Coeffs[0].Real.Prec()
	inv := NewFieldElemBig(n, prec)
	norms := make([]*big.Float, n)
	zero := new(big.Float).SetPrec(prec)
	for i := 0; i < n; i++ {
		nrm := d.Coeffs[i].AbsSquared()
		if nrm.Cmp(zero) == 0 {
			panic(fmt.Sprintf("FieldInverseDiagWithNorm: zero norm at %d", i))
		}
		inv.Coeffs[i] = d.Coeffs[i].Conj()
		norms[i] = nrm
	}
	return inv, norms
}

// bitReverseBig reverses the low logN bits of i.
func bitReverseBig(i, logN int) int {
	var rev int
	for b := 0; b < logN; b++ {
		rev = (rev << 1) | ((i >> b) & 1)
	}
	return rev
}

// fftBig is an iterative Cooley-Tukey transform over []*BigComplex. The
// length must be a power of two. With invert set, the conjugate roots are
// used and the result is scaled by 1/n. Twiddles come from float64 trig
// lifted to prec bits; the recursion depth keeps their error below the
// rounding tolerance of the callers.
func fftBig(in []*BigComplex, prec uint, invert bool) []*BigComplex {
	n := len(in)
	if n == 0 || (n&(n-1)) != 0 {
		panic("fftBig: length must be a nonzero power of 2")
	}

	result := make([]*BigComplex, n)
	for i := 0; i < n; i++ {
		result[i] = in[i].Copy()
	}

	logN := bits.Len(uint(n)) - 1
	for i := 0; i < n; i++ {
		j := bitReverseBig(i, logN)
		if i < j {
			result[i], result[j] = result[j], result[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		angle := -2.0 * math.Pi / float64(size)
		if invert {
			angle = -angle
		}
		wn := &BigComplex{
			Real: new(big.Float).SetPrec(prec).SetFloat64(math.Cos(angle)),
			Imag: new(big.Float).SetPrec(prec).SetFloat64(math.Sin(angle)),
		}
		for start := 0; start < n; start += size {
			w := &BigComplex{
				Real: big.NewFloat(1).SetPrec(prec),
				Imag: big.NewFloat(0).SetPrec(prec),
			}
			for j := 0; j < half; j++ {
				idx1 := start + j
				idx2 := start + j + half

				temp := result[idx2].Mul(w)
				result[idx2] = result[idx1].Sub(temp)
				result[idx1] = result[idx1].Add(temp)
				w = w.Mul(wn)
			}
		}
	}

	if invert {
		bigN := new(big.Float).SetPrec(prec).SetFloat64(float64(n))
		invN := new(big.Float).SetPrec(prec).Quo(big.NewFloat(1).SetPrec(prec), bigN)
		for i := 0; i < n; i++ {
			result[i].Real.Mul(result[i].Real, invN)
			result[i].Imag.Mul(result[i].Imag, invN)
		}
	}
	return result
}

// FFTBig is the forward transform at the 2n-th roots e^{-2πik/size}.
func FFTBig(coeffs []*BigComplex, prec uint) []*BigComplex {
	return fftBig(coeffs, prec, false)
}

// IFFTBig is the inverse transform, scaled by 1/n.
func IFFTBig(evals []*BigComplex, prec uint) []*BigComplex {
	return fftBig(evals, prec, true)
}

// NegacyclicEvaluatePoly embeds p ∈ R_q into K_{2N}: it evaluates p at the
// odd 2N-th roots of unity, which is a length-2N FFT of the zero-padded,
// sign-lifted coefficient vector restricted to odd spectrum indices.
func NegacyclicEvaluatePoly(p *ring.Poly, ringQ *ring.Ring, prec uint) *CyclotomicFieldElem {
	m := ringQ.N
	twoM := 2 * m

	A := make([]*BigComplex, twoM)
	for i := 0; i < m; i++ {
		signed := UnsignedToSigned(p.Coeffs[0][i], ringQ.Modulus[0])
		A[i] = NewBigComplex(float64(signed), 0, prec)
	}
	for i := m; i < twoM; i++ {
		A[i] = NewBigComplexZero(prec)
	}

	B := FFTBig(A, prec)

	out := NewFieldElemBig(m, prec)
	out.Domain = Eval
	for k := 0; k < m; k++ {
		out.Coeffs[k] = B[2*k+1].Copy()
	}
	return out
}

// NegacyclicInterpolateElem inverts NegacyclicEvaluatePoly: the spectrum
// is re-embedded into the odd slots of a length-2N buffer, inverse
// transformed, doubled (the even slots carried no mass), rounded and
// reduced mod q.
func NegacyclicInterpolateElem(f *CyclotomicFieldElem, ringQ *ring.Ring) *ring.Poly {
	m := ringQ.N
	twoM := 2 * m
	prec := f.Coeffs[0].Real.Prec()

	A := make([]*BigComplex, twoM)
	for i := 0; i < twoM; i += 2 {
		A[i] = NewBigComplexZero(prec)
	}
	for k := 0; k < m; k++ {
		A[2*k+1] = f.Coeffs[k].Copy()
	}

	inv := IFFTBig(A, prec)

	P := ringQ.NewPoly()
	q := int64(ringQ.Modulus[0])
	for j := 0; j < m; j++ {
		f64, _ := inv[j].Real.Float64()
		rInt := int64(math.Round(f64 * 2.0))
		rInt = ((rInt % q) + q) % q
		P.Coeffs[0][j] = uint64(rInt)
	}
	return P
}

// FloatToEvalNegacyclic is the negacyclic forward transform on a field
// element whose coefficients are arbitrary reals, with no modular
// rounding anywhere.
func FloatToEvalNegacyclic(e *CyclotomicFieldElem, prec uint) *CyclotomicFieldElem {
	if e.Domain != Coeff {
		panic("FloatToEvalNegacyclic: input must be in Coeff domain")
	}
	n := e.N
	twoN := 2 * n

	A := make([]*BigComplex, twoN)
	for i := 0; i < n; i++ {
		A[i] = e.Coeffs[i].Copy()
	}
	for i := n; i < twoN; i++ {
		A[i] = NewBigComplexZero(prec)
	}

	B := FFTBig(A, prec)

	out := NewFieldElemBig(n, prec)
	out.Domain = Eval
	for k := 0; k < n; k++ {
		out.Coeffs[k] = B[2*k+1].Copy()
	}
	return out
}

// FloatToCoeffNegacyclic inverts FloatToEvalNegacyclic, again without
// touching modular integers. The factor 2 undoes the half the odd-slot
// embedding introduces.
func FloatToCoeffNegacyclic(e *CyclotomicFieldElem, prec uint) *CyclotomicFieldElem {
	if e.Domain != Eval {
		panic("FloatToCoeffNegacyclic: input must be in Eval domain")
	}
	n := e.N
	twoN := 2 * n

	A := make([]*BigComplex, twoN)
	for i := 0; i < twoN; i += 2 {
		A[i] = NewBigComplexZero(prec)
	}
	for k := 0; k < n; k++ {
		A[2*k+1] = e.Coeffs[k].Copy()
	}

	inv := IFFTBig(A, prec)

	two := new(big.Float).SetPrec(prec).SetFloat64(2)
	out := NewFieldElemBig(n, prec)
	out.Domain = Coeff
	for j := 0; j < n; j++ {
		out.Coeffs[j] = &BigComplex{
			Real: new(big.Float).SetPrec(prec).Mul(inv[j].Real, two),
			Imag: new(big.Float).SetPrec(prec).Mul(inv[j].Imag, two),
		}
	}
	return out
}
