package Preimage_Sampler

import (
	"math/rand"
	"testing"

	"github.com/tuneinsight/lattigo/v4/ring"

	mat "github.com/shafriraxu/crypto/Matrix"
)

// TestGenTrapdoorIdentity checks the defining relation A·[R; I] = G for
// the identity tag.
func TestGenTrapdoorIdentity(t *testing.T) {
	p, err := DefaultGadgetParameters(4, 97)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(13))

	td, err := GenTrapdoor(p, nil, nil, rng)
	if err != nil {
		t.Fatal(err)
	}
	if td.A.Rows != p.N || td.A.Cols != p.M {
		t.Fatalf("public matrix is %dx%d, want %dx%d", td.A.Rows, td.A.Cols, p.N, p.M)
	}

	// [R; I]
	ext := td.R.ConcatVertical(mat.IdentityZ(p.N * p.K))
	if !td.A.MulZ(ext).Equal(GadgetMatrix(p)) {
		t.Fatal("A*[R;I] != G")
	}
}

// TestGenTrapdoorTag checks A·[R; I] = tag·G for a non-trivial tag.
func TestGenTrapdoorTag(t *testing.T) {
	p, err := DefaultGadgetParameters(4, 97)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(14))

	// a diagonal invertible tag
	tag := mat.NewMatZq(p.N, p.N, p.Q)
	for i := 0; i < p.N; i++ {
		tag.Set(i, i, uint64(i+2))
	}

	td, err := GenTrapdoor(p, nil, tag, rng)
	if err != nil {
		t.Fatal(err)
	}
	ext := td.R.ConcatVertical(mat.IdentityZ(p.N * p.K))
	if !td.A.MulZ(ext).Equal(tag.Mul(GadgetMatrix(p))) {
		t.Fatal("A*[R;I] != tag*G")
	}
}

func TestGenTrapdoorDimensionErrors(t *testing.T) {
	p, err := DefaultGadgetParameters(4, 97)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(15))

	badABar := mat.NewMatZq(p.N, p.MBar+1, p.Q)
	if _, err := GenTrapdoor(p, badABar, nil, rng); err == nil {
		t.Fatal("expected error for mis-sized a_bar")
	}
	badTag := mat.NewMatZq(p.N+1, p.N+1, p.Q)
	if _, err := GenTrapdoor(p, nil, badTag, rng); err == nil {
		t.Fatal("expected error for mis-sized tag")
	}
}

// TestTrapGenRing checks the ring relation A₂[j] + a·r̂_j + ê_j = g_j.
func TestTrapGenRing(t *testing.T) {
	const (
		n    = 16
		q    = uint64(97)
		base = uint64(2)
	)
	ringQ, err := ring.NewRing(n, []uint64{q})
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(16))
	sigmaT, _ := CalculateParams(base, n, GadgetLength(q, base))

	trap := TrapGen(ringQ, base, sigmaT, nil, rng)

	G := CreateGadgetMatrix(ringQ, trap.Base, trap.Rows, trap.K)
	aM := ringQ.NewPoly()
	ringQ.MForm(trap.A1[1], aM)
	for j := 0; j < trap.K; j++ {
		ringQ.NTT(G[j], G[j])

		tmp := ringQ.NewPoly()
		ringQ.MulCoeffsMontgomery(aM, trap.R[0][j], tmp)
		ringQ.Add(tmp, trap.R[1][j], tmp)

		sum := ringQ.NewPoly()
		ringQ.Add(tmp, trap.A2[j], sum)

		if !ringQ.Equal(sum, G[j]) {
			t.Fatalf("trapdoor relation broken at gadget index %d", j)
		}
	}
}
