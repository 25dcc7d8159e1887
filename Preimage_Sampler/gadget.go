package Preimage_Sampler

import (
	"github.com/tuneinsight/lattigo/v4/ring"

	mat "github.com/shafriraxu/crypto/Matrix"
)

// GadgetVector returns [1, base, …, base^(k-1)] mod q.
func GadgetVector(base uint64, k int, q uint64) []uint64 {
	g := make([]uint64, k)
	var pow uint64 = 1
	for j := 0; j < k; j++ {
		g[j] = pow % q
		pow *= base
	}
	return g
}

// GadgetMatrix builds the classical gadget matrix G = I_n ⊗ gᵀ of size
// n × n·k. Derivable from the parameters alone; no randomness involved.
func GadgetMatrix(p *GadgetParameters) *mat.MatZq {
	g := GadgetVector(p.Base, p.K, p.Q)
	G := mat.NewMatZq(p.N, p.N*p.K, p.Q)
	for i := 0; i < p.N; i++ {
		for j := 0; j < p.K; j++ {
			G.Set(i, i*p.K+j, g[j])
		}
	}
	return G
}

// GadgetDecompose digit-decomposes the syndrome u ∈ Z_q^n into
// z ∈ [0,base)^{n·k} with G·z ≡ u (mod q) — the trapdoor-free inverse
// of the gadget.
func GadgetDecompose(p *GadgetParameters, u *mat.MatZq) *mat.MatZ {
	if u.Rows != p.N || u.Cols != 1 {
		panic("GadgetDecompose: syndrome must be n x 1")
	}
	z := mat.NewMatZ(p.N*p.K, 1)
	for i := 0; i < p.N; i++ {
		digits := baseDigits(int64(u.At(i, 0)), int64(p.Base), p.K)
		for j := 0; j < p.K; j++ {
			z.Set(i*p.K+j, 0, digits[j])
		}
	}
	return z
}

// CreateGadgetMatrix returns the gadget matrix G of size (rows × k).
// In particular, for rows=1 it returns the row-vector
//
//	[ g_1, g_2, …, g_k ]  where  g_j = base^(j-1) mod q
//
// as constant polynomials in Rq.
// We allocate rows*k polys, in row-major order; unused for rows>1 in this trapdoor scheme.
//
// ringQ : the R_q polynomial ring
// base  : the gadget base t
// rows  : number of gadget rows (for our TrapGen, rows == 1)
// k     : gadget length κ
func CreateGadgetMatrix(ringQ *ring.Ring, base uint64, rows, k int) []*ring.Poly {
	N := ringQ.N
	G := make([]*ring.Poly, rows*k)

	// For each row i and gadget index j, set G[i*k + j] = constant poly t^(j)
	for i := 0; i < rows; i++ {
		for j := 0; j < k; j++ {
			idx := i*k + j
			p := ringQ.NewPoly()

			// compute t^j mod each prime in the CRT chain
			for tIdx, qi := range ringQ.Modulus {
				mod := uint64(qi)
				var power uint64 = 1
				for e := 0; e < j; e++ {
					power = (power * base) % mod
				}
				// fill *all* N coefficients with this constant
				for coeffIdx := 0; coeffIdx < N; coeffIdx++ {
					p.Coeffs[tIdx][coeffIdx] = power
				}
			}

			G[idx] = p
		}
	}
	return G
}
