package Preimage_Sampler

import (
	"math/rand"
	"testing"

	mat "github.com/shafriraxu/crypto/Matrix"
)

func TestGadgetVector(t *testing.T) {
	g := GadgetVector(2, 7, 97)
	want := []uint64{1, 2, 4, 8, 16, 32, 64}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("gadget entry %d: got %d want %d", i, g[i], want[i])
		}
	}
}

// TestGadgetDecompose checks that the trapdoor-free inverse satisfies
// G·z ≡ u (mod q) for random syndromes.
func TestGadgetDecompose(t *testing.T) {
	p, err := NewGadgetParameters(4, 97, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(4))
	G := GadgetMatrix(p)

	for trial := 0; trial < 20; trial++ {
		u := mat.NewUniformMatZq(p.N, 1, p.Q, rng)
		z := GadgetDecompose(p, u)
		for _, d := range z.Data {
			if d < 0 || d >= int64(p.Base) {
				t.Fatalf("digit %d out of range [0,%d)", d, p.Base)
			}
		}
		if !G.MulZ(z).Equal(u) {
			t.Fatalf("trial %d: G*decompose(u) != u", trial)
		}
	}
}

func TestGadgetParameterValidation(t *testing.T) {
	if _, err := NewGadgetParameters(0, 97, 0, 2); err == nil {
		t.Fatal("expected error for n = 0")
	}
	if _, err := NewGadgetParameters(4, 1, 0, 2); err == nil {
		t.Fatal("expected error for q = 1")
	}
	if _, err := NewGadgetParameters(4, 97, 0, 1); err == nil {
		t.Fatal("expected error for base = 1")
	}
	if _, err := NewGadgetParameters(4, 97, 3, 2); err == nil {
		t.Fatal("expected error for m_bar below the secure minimum")
	}

	p, err := DefaultGadgetParameters(4, 97)
	if err != nil {
		t.Fatal(err)
	}
	if p.K != 7 {
		t.Fatalf("gadget length: got %d want 7", p.K)
	}
	if p.M != p.MBar+p.N*p.K {
		t.Fatalf("total width %d does not match m_bar + n*k", p.M)
	}
}
