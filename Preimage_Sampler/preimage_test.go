package Preimage_Sampler

import (
	"math/rand"
	"testing"

	"github.com/tuneinsight/lattigo/v4/ring"
)

// TestZtoZhatRoundTrip ensures that NTT + InvNTT round-trips each gadget row.
func TestZtoZhatRoundTrip(t *testing.T) {
	const (
		n = 16
		q = uint64(97)
	)
	ringQ, err := ring.NewRing(n, []uint64{q})
	if err != nil {
		t.Fatal(err)
	}

	for j := 0; j < n; j++ {
		row := make([]int64, n)
		row[j] = 1
		polys := ZtoZhat([][]int64{row}, ringQ)
		if len(polys) != 1 {
			t.Fatalf("expected 1 poly, got %d", len(polys))
		}
		coeffs := ringQ.NewPoly()
		ringQ.InvNTT(polys[0], coeffs)
		for i := 0; i < n; i++ {
			var want uint64
			if i == j {
				want = 1
			}
			if coeffs.Coeffs[0][i] != want {
				t.Fatalf("delta at %d mismatch index %d: got %d want %d", j, i, coeffs.Coeffs[0][i], want)
			}
		}
	}
}

// TestGaussSampExact runs the full ring pipeline and checks the exact
// coset identity A·x ≡ u (mod q).
func TestGaussSampExact(t *testing.T) {
	const (
		n    = 16
		q    = uint64(97)
		base = uint64(2)
	)
	ringQ, err := ring.NewRing(n, []uint64{q})
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(20))

	k := GadgetLength(q, base)
	sigmaT, s := CalculateParams(base, n, k)
	sigma := sigmaT / float64(base+1)

	trap := TrapGen(ringQ, base, sigmaT, nil, rng)

	// random syndrome in EVAL
	u := ringQ.NewPoly()
	for i := 0; i < n; i++ {
		u.Coeffs[0][i] = uint64(rng.Int63n(int64(q)))
	}
	uEval := ringQ.NewPoly()
	ringQ.NTT(u, uEval)
	uEvalCopy := ringQ.NewPoly()
	ring.Copy(uEval, uEvalCopy)

	x := GaussSamp(ringQ, &trap, uEval, sigma, s, rng)
	if len(x) != k+2 {
		t.Fatalf("preimage has %d polys, want %d", len(x), k+2)
	}

	accumEval := ApplyRow(ringQ, trap.A, x)

	accumCoeff := ringQ.NewPoly()
	uCoeffOrig := ringQ.NewPoly()
	ringQ.InvNTT(accumEval, accumCoeff)
	ringQ.InvNTT(uEvalCopy, uCoeffOrig)

	diff := ringQ.NewPoly()
	ringQ.Sub(accumCoeff, uCoeffOrig, diff)
	for i, coeff := range diff.Coeffs[0] {
		if signed := UnsignedToSigned(coeff, q); signed != 0 {
			t.Fatalf("verification mismatch at slot %d: residue %d mod q", i, signed)
		}
	}
}

// TestSamplePzLength checks the perturbation layout: k+2 polys with the
// q̂ block in the tail.
func TestSamplePzLength(t *testing.T) {
	const (
		n    = 16
		q    = uint64(97)
		base = uint64(2)
	)
	ringQ, err := ring.NewRing(n, []uint64{q})
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(21))

	k := GadgetLength(q, base)
	sigmaT, s := CalculateParams(base, n, k)
	trap := TrapGen(ringQ, base, sigmaT, nil, rng)

	p := SamplePz(ringQ, s, sigmaT, trap.R, k+2, gSamplerPrec, rng)
	if len(p) != k+2 {
		t.Fatalf("perturbation has %d polys, want %d", len(p), k+2)
	}
	for i, poly := range p {
		if poly == nil {
			t.Fatalf("perturbation poly %d is nil", i)
		}
	}
}
