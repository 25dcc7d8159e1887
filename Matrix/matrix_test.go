package matrix

import (
	"bytes"
	"math/rand"
	"testing"
)

// TestMulAgainstNaive cross-checks modular multiplication against a
// direct big-step evaluation on random inputs.
func TestMulAgainstNaive(t *testing.T) {
	const q = uint64(1048573)
	rng := rand.New(rand.NewSource(1))
	a := NewUniformMatZq(5, 7, q, rng)
	b := NewUniformMatZq(7, 3, q, rng)

	got := a.Mul(b)
	for i := 0; i < 5; i++ {
		for j := 0; j < 3; j++ {
			var want uint64
			for l := 0; l < 7; l++ {
				want = (want + a.At(i, l)*b.At(l, j)) % q
			}
			if got.At(i, j) != want {
				t.Fatalf("entry (%d,%d): got %d want %d", i, j, got.At(i, j), want)
			}
		}
	}
}

// TestMulModLargeModulus exercises the 128-bit reduction path: products
// near q^2 for a modulus close to 2^62 overflow 64 bits.
func TestMulModLargeModulus(t *testing.T) {
	q := uint64(1)<<62 - 57
	a := NewMatZq(1, 1, q)
	b := NewMatZq(1, 1, q)
	a.Set(0, 0, q-1)
	b.Set(0, 0, q-2)
	// (q-1)(q-2) = q^2 - 3q + 2 ≡ 2 (mod q)
	if got := a.Mul(b).At(0, 0); got != 2 {
		t.Fatalf("(q-1)(q-2) mod q: got %d want 2", got)
	}
}

func TestMulZMatchesLift(t *testing.T) {
	const q = uint64(97)
	rng := rand.New(rand.NewSource(2))
	a := NewUniformMatZq(3, 4, q, rng)

	z := NewMatZ(4, 2)
	for i := range z.Data {
		z.Data[i] = rng.Int63n(200) - 100
	}

	if !a.MulZ(z).Equal(a.Mul(z.ToZq(q))) {
		t.Fatal("MulZ disagrees with explicit lift")
	}
}

func TestIdentityAndTranspose(t *testing.T) {
	const q = uint64(97)
	rng := rand.New(rand.NewSource(3))
	a := NewUniformMatZq(4, 4, q, rng)

	if !IdentityZq(4, q).Mul(a).Equal(a) {
		t.Fatal("I*A != A")
	}
	if !a.Transpose().Transpose().Equal(a) {
		t.Fatal("double transpose changed the matrix")
	}
}

func TestConcatAndSubMatrix(t *testing.T) {
	const q = uint64(97)
	rng := rand.New(rand.NewSource(4))
	left := NewUniformMatZq(3, 2, q, rng)
	right := NewUniformMatZq(3, 5, q, rng)

	cat := left.ConcatHorizontal(right)
	if cat.Cols != 7 {
		t.Fatalf("concat has %d columns, want 7", cat.Cols)
	}
	if !cat.SubMatrixCols(0, 2).Equal(left) || !cat.SubMatrixCols(2, 7).Equal(right) {
		t.Fatal("SubMatrixCols does not recover the concatenated blocks")
	}
	if !cat.Column(2).Equal(right.Column(0)) {
		t.Fatal("Column does not match the source block")
	}
}

func TestCentered(t *testing.T) {
	const q = uint64(97)
	m := NewMatZq(1, 3, q)
	m.Set(0, 0, 1)
	m.Set(0, 1, 96) // -1
	m.Set(0, 2, 48) // largest positive residue
	if m.Centered(0, 0) != 1 || m.Centered(0, 1) != -1 || m.Centered(0, 2) != 48 {
		t.Fatalf("centered residues: got %d, %d, %d", m.Centered(0, 0), m.Centered(0, 1), m.Centered(0, 2))
	}
}

func TestBytesInjective(t *testing.T) {
	const q = uint64(97)
	a := NewMatZq(2, 3, q)
	b := NewMatZq(3, 2, q)
	// same entries, different shape
	for i := range a.Data {
		a.Data[i] = uint64(i)
		b.Data[i] = uint64(i)
	}
	if bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("encodings of different shapes collide")
	}
	if !bytes.Equal(a.Bytes(), a.Copy().Bytes()) {
		t.Fatal("encoding is not deterministic")
	}
}

func TestMatZNormAndConcat(t *testing.T) {
	m := NewMatZ(2, 1)
	m.Set(0, 0, 3)
	m.Set(1, 0, -4)
	if got := m.Norm2(); got != 5 {
		t.Fatalf("Norm2: got %f want 5", got)
	}
	if got := m.InfNorm(); got != 4 {
		t.Fatalf("InfNorm: got %d want 4", got)
	}

	stacked := m.ConcatVertical(IdentityZ(1))
	if stacked.Rows != 3 || stacked.At(2, 0) != 1 {
		t.Fatal("ConcatVertical misplaced the identity block")
	}
}

func TestUniformRange(t *testing.T) {
	const q = uint64(13)
	rng := rand.New(rand.NewSource(5))
	m := NewUniformMatZq(16, 16, q, rng)
	seen := make(map[uint64]bool)
	for _, v := range m.Data {
		if v >= q {
			t.Fatalf("entry %d out of range", v)
		}
		seen[v] = true
	}
	// 256 draws from 13 residues hit every one with overwhelming probability
	if len(seen) != int(q) {
		t.Fatalf("only %d of %d residues drawn", len(seen), q)
	}
}
