// Package Hash provides full-domain hashes into the syndrome spaces of
// the trapdoor constructions: Z_q^n for the classical setting and R_q
// for the ring setting. Both are deterministic SHAKE-128 expansions with
// rejection sampling, so outputs are uniform and reproducible across
// runs and machines.
package Hash

import (
	"encoding/binary"

	"github.com/tuneinsight/lattigo/v4/ring"
	"golang.org/x/crypto/sha3"

	mat "github.com/shafriraxu/crypto/Matrix"
)

// HashInto hashes arbitrary strings into the range type R.
type HashInto[R any] interface {
	Hash(m string) R
}

// HashMatZq hashes into uniform column vectors over Z_q.
type HashMatZq struct {
	Rows int
	Q    uint64
}

// NewHashMatZq returns a hash into Z_q^rows.
func NewHashMatZq(rows int, q uint64) *HashMatZq {
	if rows < 1 || q < 2 {
		panic("HashMatZq: rows must be >= 1 and q >= 2")
	}
	return &HashMatZq{Rows: rows, Q: q}
}

// Hash expands m into a rows × 1 vector. Each entry is drawn from the
// SHAKE stream by rejection, so the distribution is exactly uniform
// mod q.
func (h *HashMatZq) Hash(m string) *mat.MatZq {
	shake := sha3.NewShake128()
	shake.Write([]byte(m))

	out := mat.NewMatZq(h.Rows, 1, h.Q)
	// largest multiple of q below 2^64; values at or above it are biased
	bound := h.Q * (^uint64(0) / h.Q)
	buf := make([]byte, 8)
	for i := 0; i < h.Rows; i++ {
		for {
			shake.Read(buf)
			v := binary.BigEndian.Uint64(buf)
			if v < bound {
				out.Set(i, 0, v%h.Q)
				break
			}
		}
	}
	return out
}

// HashPolyQ hashes into uniform elements of R_q, returned in the NTT
// domain so they can serve directly as sampling targets.
type HashPolyQ struct {
	RingQ *ring.Ring
}

// NewHashPolyQ returns a hash into R_q.
func NewHashPolyQ(ringQ *ring.Ring) *HashPolyQ {
	return &HashPolyQ{RingQ: ringQ}
}

// Hash expands m into a polynomial with uniform coefficients mod q,
// then lifts it to the NTT domain.
func (h *HashPolyQ) Hash(m string) *ring.Poly {
	shake := sha3.NewShake128()
	shake.Write([]byte(m))

	p := h.RingQ.NewPoly()
	buf := make([]byte, 8)
	for i := 0; i < h.RingQ.N; i++ {
		q := h.RingQ.Modulus[0]
		bound := q * (^uint64(0) / q)
		var c uint64
		for {
			shake.Read(buf)
			v := binary.BigEndian.Uint64(buf)
			if v < bound {
				c = v % q
				break
			}
		}
		for lvl, qi := range h.RingQ.Modulus {
			p.Coeffs[lvl][i] = c % qi
		}
	}
	h.RingQ.NTT(p, p)
	return p
}
