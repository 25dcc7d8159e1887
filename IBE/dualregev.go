// Package IBE implements the GPV identity-based encryption scheme: the
// Dual-Regev bit encryption over Z_q and its identity-based variant
// where per-identity secret keys are short preimages of the hashed
// identity under the master public matrix.
package IBE

import (
	"math/bits"
	"math/rand"

	mat "github.com/shafriraxu/crypto/Matrix"
	ps "github.com/shafriraxu/crypto/Preimage_Sampler"
)

// DualRegev is the bit encryption scheme underlying the IBE. Public
// keys are matrices [A | u] over Z_q with u = A·e for a short secret e.
type DualRegev struct {
	N     int     // lattice rank
	M     int     // width of A
	Q     uint64  // modulus
	R     float64 // width of the secret key distribution
	Alpha float64 // relative error rate, the error std is Alpha*Q
	Rng   *rand.Rand
}

// NewDualRegev returns a scheme for the given dimensions and rates.
func NewDualRegev(n, m int, q uint64, r, alpha float64, rng *rand.Rand) *DualRegev {
	return &DualRegev{N: n, M: m, Q: q, R: r, Alpha: alpha, Rng: rng}
}

// Gen draws a keypair: A uniform, e a short Gaussian vector, and
// pk = [A | A·e]. The secret key is e.
func (d *DualRegev) Gen() (*mat.MatZq, *mat.MatZ) {
	a := mat.NewUniformMatZq(d.N, d.M, d.Q, d.Rng)
	dg := ps.NewDiscreteGaussianFromSource(d.R, d.Rng)
	e := mat.NewMatZ(d.M, 1)
	for i := 0; i < d.M; i++ {
		e.Set(i, 0, dg.Draw(0))
	}
	return a.ConcatHorizontal(a.MulZ(e)), e
}

// Enc encrypts a bit under pk = [A | u] as
// c = pkᵀ·s + x + (0, …, 0, bit·⌊q/2⌋) with s uniform and x Gaussian.
func (d *DualRegev) Enc(pk *mat.MatZq, bit int64) *mat.MatZq {
	if pk.Rows != d.N || pk.Cols != d.M+1 {
		panic("DualRegev: public key dimensions do not match the scheme")
	}
	s := mat.NewUniformMatZq(d.N, 1, d.Q, d.Rng)
	c := pk.Transpose().Mul(s)

	dg := ps.NewDiscreteGaussianFromSource(d.Alpha*float64(d.Q), d.Rng)
	for i := 0; i <= d.M; i++ {
		noisy := int64(c.At(i, 0)) + dg.Draw(0)
		noisy %= int64(d.Q)
		if noisy < 0 {
			noisy += int64(d.Q)
		}
		c.Set(i, 0, uint64(noisy))
	}
	c.Set(d.M, 0, (c.At(d.M, 0)+uint64(bit%2)*(d.Q/2))%d.Q)
	return c
}

// Dec recovers the bit from c as round(c_m − eᵀ·c_{0..m-1}): the
// centered residue is below q/4 for 0 and around q/2 for 1.
func (d *DualRegev) Dec(e *mat.MatZ, c *mat.MatZq) int64 {
	if e.Rows != d.M || e.Cols != 1 || c.Rows != d.M+1 || c.Cols != 1 {
		panic("DualRegev: key or cipher dimensions do not match the scheme")
	}
	v := c.At(d.M, 0) % d.Q
	for i := 0; i < d.M; i++ {
		prod := mulMod(ps.SignedToUnsigned(e.At(i, 0), d.Q), c.At(i, 0), d.Q)
		v = (v + d.Q - prod) % d.Q
	}
	// center to (-q/2, q/2]
	w := int64(v)
	if v > d.Q/2 {
		w = int64(v) - int64(d.Q)
	}
	if w < 0 {
		w = -w
	}
	if uint64(w) < d.Q/4 {
		return 0
	}
	return 1
}

// mulMod reduces a 128-bit product; plain int64 products overflow for
// moduli past 2^31.5.
func mulMod(a, b, q uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, rem := bits.Div64(hi%q, lo, q)
	return rem
}
