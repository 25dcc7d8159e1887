package Preimage_Sampler

import (
	"math/rand"
	"testing"

	"github.com/tuneinsight/lattigo/v4/ring"

	mat "github.com/shafriraxu/crypto/Matrix"
)

// TestSampleGVectorCoset verifies the defining coset property
// G·z ≡ v (mod q) of the discrete G-sampler, per coordinate.
func TestSampleGVectorCoset(t *testing.T) {
	p, err := DefaultGadgetParameters(4, 97)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(5))
	G := GadgetMatrix(p)

	for trial := 0; trial < 10; trial++ {
		v := mat.NewUniformMatZq(p.N, 1, p.Q, rng)
		z := SampleGVector(p, p.SigmaT(), v, rng)
		if !G.MulZ(z).Equal(v) {
			t.Fatalf("trial %d: G*z != v", trial)
		}
	}
}

// TestSampleGDiscreteCoset is the ring-side analogue: every coefficient
// slot must satisfy Σ base^i·Z[i][j] ≡ u[j] (mod q).
func TestSampleGDiscreteCoset(t *testing.T) {
	const (
		n    = 16
		q    = uint64(97)
		base = uint64(2)
	)
	ringQ, err := ring.NewRing(n, []uint64{q})
	if err != nil {
		t.Fatal(err)
	}
	k := GadgetLength(q, base)
	rng := rand.New(rand.NewSource(6))

	uCoeff := make([]uint64, n)
	for j := range uCoeff {
		uCoeff[j] = uint64(rng.Int63n(int64(q)))
	}

	sigmaT, _ := CalculateParams(base, n, k)
	Z := SampleGDiscrete(ringQ, sigmaT, base, uCoeff, k, rng)

	for j := 0; j < n; j++ {
		var acc int64
		pow := int64(1)
		for i := 0; i < k; i++ {
			acc += pow * Z[i][j]
			pow *= int64(base)
		}
		if SignedToUnsigned(acc, q) != uCoeff[j] {
			t.Fatalf("slot %d: digits recombine to %d, want %d", j, SignedToUnsigned(acc, q), uCoeff[j])
		}
	}
}

// TestSampleGVectorWidth checks that samples stay inside the standard
// tail bound for the sampling width.
func TestSampleGVectorWidth(t *testing.T) {
	p, err := DefaultGadgetParameters(4, 97)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(7))
	sigma := p.SigmaT()

	for trial := 0; trial < 10; trial++ {
		v := mat.NewUniformMatZq(p.N, 1, p.Q, rng)
		z := SampleGVector(p, sigma, v, rng)
		for _, c := range z.Data {
			if float64(c) > 12*sigma || float64(c) < -12*sigma {
				t.Fatalf("coordinate %d outside 12 sigma", c)
			}
		}
	}
}
