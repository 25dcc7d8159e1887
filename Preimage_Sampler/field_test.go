package Preimage_Sampler

import (
	"math"
	"math/rand"
	"testing"

	"github.com/tuneinsight/lattigo/v4/ring"
)

const testPrec = uint(128)

// negacyclicConvolution multiplies a and b modulo x^n+1 over the integers.
func negacyclicConvolution(a, b []int64) []int64 {
	n := len(a)
	res := make([]int64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			k := i + j
			prod := a[i] * b[j]
			if k >= n {
				k -= n
				prod = -prod
			}
			res[k] += prod
		}
	}
	return res
}

func roundedCoeffs(f *CyclotomicFieldElem) []int64 {
	out := make([]int64, f.N)
	for i := 0; i < f.N; i++ {
		v, _ := f.Coeffs[i].Real.Float64()
		out[i] = int64(math.Round(v))
	}
	return out
}

// TestFFTBigRoundTrip checks IFFTBig(FFTBig(x)) == x up to rounding.
func TestFFTBigRoundTrip(t *testing.T) {
	const n = 32
	rng := rand.New(rand.NewSource(8))

	in := make([]*BigComplex, n)
	for i := range in {
		in[i] = NewBigComplex(float64(rng.Int63n(200)-100), 0, testPrec)
	}
	out := IFFTBig(FFTBig(in, testPrec), testPrec)
	for i := range out {
		got, _ := out[i].Real.Float64()
		want, _ := in[i].Real.Float64()
		if math.Abs(got-want) > 1e-6 {
			t.Fatalf("index %d: got %f want %f", i, got, want)
		}
		im, _ := out[i].Imag.Float64()
		if math.Abs(im) > 1e-6 {
			t.Fatalf("index %d: imaginary residue %g", i, im)
		}
	}
}

// TestNegacyclicRoundTrip checks that interpolate inverts evaluate on
// ring polynomials.
func TestNegacyclicRoundTrip(t *testing.T) {
	const (
		n = 16
		q = uint64(97)
	)
	ringQ, err := ring.NewRing(n, []uint64{q})
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(9))

	p := ringQ.NewPoly()
	for i := 0; i < n; i++ {
		p.Coeffs[0][i] = uint64(rng.Int63n(int64(q)))
	}

	f := NegacyclicEvaluatePoly(p, ringQ, testPrec)
	back := NegacyclicInterpolateElem(f, ringQ)
	for i := 0; i < n; i++ {
		if back.Coeffs[0][i] != p.Coeffs[0][i] {
			t.Fatalf("coefficient %d: got %d want %d", i, back.Coeffs[0][i], p.Coeffs[0][i])
		}
	}
}

// TestFloatNegacyclicRoundTrip checks the pure-float transform pair used
// inside the perturbation sampler.
func TestFloatNegacyclicRoundTrip(t *testing.T) {
	const n = 16
	rng := rand.New(rand.NewSource(10))

	f := NewFieldElemBig(n, testPrec)
	for i := 0; i < n; i++ {
		f.Coeffs[i] = NewBigComplex(rng.Float64()*20-10, 0, testPrec)
	}
	orig := f.Copy()

	ev := FloatToEvalNegacyclic(f, testPrec)
	back := FloatToCoeffNegacyclic(ev, testPrec)
	for i := 0; i < n; i++ {
		got, _ := back.Coeffs[i].Real.Float64()
		want, _ := orig.Coeffs[i].Real.Float64()
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("coefficient %d: got %g want %g", i, got, want)
		}
	}
}

// TestEvalDomainMultiplication checks that slotwise products in the
// evaluation domain match integer negacyclic convolution.
func TestEvalDomainMultiplication(t *testing.T) {
	const (
		n = 16
		q = uint64(7681)
	)
	ringQ, err := ring.NewRing(n, []uint64{q})
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(11))

	a := make([]int64, n)
	b := make([]int64, n)
	pa := ringQ.NewPoly()
	pb := ringQ.NewPoly()
	for i := 0; i < n; i++ {
		a[i] = rng.Int63n(7) - 3
		b[i] = rng.Int63n(7) - 3
		pa.Coeffs[0][i] = SignedToUnsigned(a[i], q)
		pb.Coeffs[0][i] = SignedToUnsigned(b[i], q)
	}

	fa := NegacyclicEvaluatePoly(pa, ringQ, testPrec)
	fb := NegacyclicEvaluatePoly(pb, ringQ, testPrec)
	prod := FieldMulBig(fa, fb)
	prod.Domain = Eval
	got := roundedCoeffs(FloatToCoeffNegacyclic(prod, testPrec))

	want := negacyclicConvolution(a, b)
	for i := 0; i < n; i++ {
		if got[i] != want[i] {
			t.Fatalf("coefficient %d: got %d want %d", i, got[i], want[i])
		}
	}
}

// TestHermitianTransposeInvolution checks that applying the transpose
// twice restores the element.
func TestHermitianTransposeInvolution(t *testing.T) {
	const n = 8
	rng := rand.New(rand.NewSource(12))

	f := NewFieldElemBig(n, testPrec)
	for i := 0; i < n; i++ {
		f.Coeffs[i] = NewBigComplex(rng.Float64()*10-5, rng.Float64()*10-5, testPrec)
	}
	g := HermitianTransposeFieldElem(HermitianTransposeFieldElem(f))
	for i := 0; i < n; i++ {
		gr, _ := g.Coeffs[i].Real.Float64()
		fr, _ := f.Coeffs[i].Real.Float64()
		gi, _ := g.Coeffs[i].Imag.Float64()
		fi, _ := f.Coeffs[i].Imag.Float64()
		if math.Abs(gr-fr) > 1e-12 || math.Abs(gi-fi) > 1e-12 {
			t.Fatalf("coefficient %d changed under double transpose", i)
		}
	}
}

// TestExtractInterleave checks that the even/odd split composed with
// InversePermuteFieldElem is the identity.
func TestExtractInterleave(t *testing.T) {
	const n = 16
	f := NewFieldElemBig(n, testPrec)
	for i := 0; i < n; i++ {
		f.Coeffs[i] = NewBigComplex(float64(i), 0, testPrec)
	}

	even := f.ExtractEven()
	odd := f.ExtractOdd()
	packed := NewFieldElemBig(n, testPrec)
	for i := 0; i < n/2; i++ {
		packed.Coeffs[i] = even.Coeffs[i]
		packed.Coeffs[i+n/2] = odd.Coeffs[i]
	}
	InversePermuteFieldElem(packed)

	for i := 0; i < n; i++ {
		got, _ := packed.Coeffs[i].Real.Float64()
		if got != float64(i) {
			t.Fatalf("position %d: got %f want %d", i, got, i)
		}
	}
}
