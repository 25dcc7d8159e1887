// Package matrix provides the dense integer matrix arithmetic the
// classical (non-ring) trapdoor construction works over: matrices over
// Z_q with a single machine-word modulus, and matrices over Z for the
// short secret material.
package matrix

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"math/rand"
)

// MatZq is a dense rows×cols matrix over Z_q, row-major, entries in [0,q).
type MatZq struct {
	Rows int      `json:"rows"`
	Cols int      `json:"cols"`
	Q    uint64   `json:"q"`
	Data []uint64 `json:"data"`
}

// NewMatZq allocates a zero matrix over Z_q.
// Panics on non-positive dimensions or q <= 1; those are programmer
// errors, parameter validation happens before matrices are built.
func NewMatZq(rows, cols int, q uint64) *MatZq {
	if rows < 1 || cols < 1 {
		panic(fmt.Sprintf("matrix: invalid dimensions %dx%d", rows, cols))
	}
	if q <= 1 {
		panic(fmt.Sprintf("matrix: invalid modulus %d", q))
	}
	return &MatZq{Rows: rows, Cols: cols, Q: q, Data: make([]uint64, rows*cols)}
}

// IdentityZq returns I_n over Z_q.
func IdentityZq(n int, q uint64) *MatZq {
	m := NewMatZq(n, n, q)
	for i := 0; i < n; i++ {
		m.Data[i*n+i] = 1
	}
	return m
}

// NewUniformMatZq fills a rows×cols matrix with entries drawn uniformly
// from [0,q) using rng. Rejection sampling keeps the draw unbiased.
func NewUniformMatZq(rows, cols int, q uint64, rng *rand.Rand) *MatZq {
	m := NewMatZq(rows, cols, q)
	// largest multiple of q representable in 64 bits
	bound := q * (^uint64(0) / q)
	for i := range m.Data {
		for {
			v := rng.Uint64()
			if v < bound {
				m.Data[i] = v % q
				break
			}
		}
	}
	return m
}

func (m *MatZq) At(i, j int) uint64 { return m.Data[i*m.Cols+j] }

func (m *MatZq) Set(i, j int, v uint64) { m.Data[i*m.Cols+j] = v % m.Q }

func (m *MatZq) Copy() *MatZq {
	out := NewMatZq(m.Rows, m.Cols, m.Q)
	copy(out.Data, m.Data)
	return out
}

func (m *MatZq) dimCheck(other *MatZq) {
	if m.Q != other.Q {
		panic(fmt.Sprintf("matrix: modulus mismatch %d != %d", m.Q, other.Q))
	}
}

// Add returns m + other mod q. Dimension mismatch is a programmer error.
func (m *MatZq) Add(other *MatZq) *MatZq {
	m.dimCheck(other)
	if m.Rows != other.Rows || m.Cols != other.Cols {
		panic(fmt.Sprintf("matrix: add %dx%d with %dx%d", m.Rows, m.Cols, other.Rows, other.Cols))
	}
	out := NewMatZq(m.Rows, m.Cols, m.Q)
	for i := range m.Data {
		out.Data[i] = addMod(m.Data[i], other.Data[i], m.Q)
	}
	return out
}

// Sub returns m - other mod q.
func (m *MatZq) Sub(other *MatZq) *MatZq {
	m.dimCheck(other)
	if m.Rows != other.Rows || m.Cols != other.Cols {
		panic(fmt.Sprintf("matrix: sub %dx%d with %dx%d", m.Rows, m.Cols, other.Rows, other.Cols))
	}
	out := NewMatZq(m.Rows, m.Cols, m.Q)
	for i := range m.Data {
		out.Data[i] = subMod(m.Data[i], other.Data[i], m.Q)
	}
	return out
}

// Mul returns m · other mod q.
func (m *MatZq) Mul(other *MatZq) *MatZq {
	m.dimCheck(other)
	if m.Cols != other.Rows {
		panic(fmt.Sprintf("matrix: mul %dx%d with %dx%d", m.Rows, m.Cols, other.Rows, other.Cols))
	}
	out := NewMatZq(m.Rows, other.Cols, m.Q)
	for i := 0; i < m.Rows; i++ {
		for l := 0; l < m.Cols; l++ {
			a := m.Data[i*m.Cols+l]
			if a == 0 {
				continue
			}
			for j := 0; j < other.Cols; j++ {
				prod := mulMod(a, other.Data[l*other.Cols+j], m.Q)
				idx := i*other.Cols + j
				out.Data[idx] = addMod(out.Data[idx], prod, m.Q)
			}
		}
	}
	return out
}

// MulZ multiplies by an integer matrix, reducing the entries mod q first.
func (m *MatZq) MulZ(other *MatZ) *MatZq {
	return m.Mul(other.ToZq(m.Q))
}

// Transpose returns mᵀ.
func (m *MatZq) Transpose() *MatZq {
	out := NewMatZq(m.Cols, m.Rows, m.Q)
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			out.Data[j*m.Rows+i] = m.Data[i*m.Cols+j]
		}
	}
	return out
}

// ConcatHorizontal returns [m | other].
func (m *MatZq) ConcatHorizontal(other *MatZq) *MatZq {
	m.dimCheck(other)
	if m.Rows != other.Rows {
		panic(fmt.Sprintf("matrix: hconcat %dx%d with %dx%d", m.Rows, m.Cols, other.Rows, other.Cols))
	}
	out := NewMatZq(m.Rows, m.Cols+other.Cols, m.Q)
	for i := 0; i < m.Rows; i++ {
		copy(out.Data[i*out.Cols:], m.Data[i*m.Cols:(i+1)*m.Cols])
		copy(out.Data[i*out.Cols+m.Cols:], other.Data[i*other.Cols:(i+1)*other.Cols])
	}
	return out
}

// Column returns the j-th column as a fresh rows×1 matrix.
func (m *MatZq) Column(j int) *MatZq {
	out := NewMatZq(m.Rows, 1, m.Q)
	for i := 0; i < m.Rows; i++ {
		out.Data[i] = m.Data[i*m.Cols+j]
	}
	return out
}

// SubMatrixCols returns columns [from, to) as a fresh matrix.
func (m *MatZq) SubMatrixCols(from, to int) *MatZq {
	if from < 0 || to > m.Cols || from >= to {
		panic(fmt.Sprintf("matrix: column range [%d,%d) of %d columns", from, to, m.Cols))
	}
	out := NewMatZq(m.Rows, to-from, m.Q)
	for i := 0; i < m.Rows; i++ {
		copy(out.Data[i*out.Cols:], m.Data[i*m.Cols+from:i*m.Cols+to])
	}
	return out
}

func (m *MatZq) Equal(other *MatZq) bool {
	if m.Rows != other.Rows || m.Cols != other.Cols || m.Q != other.Q {
		return false
	}
	for i := range m.Data {
		if m.Data[i] != other.Data[i] {
			return false
		}
	}
	return true
}

// Centered maps entry (i,j) into the symmetric interval [-q/2, q/2).
func (m *MatZq) Centered(i, j int) int64 {
	v := m.At(i, j)
	if v > m.Q/2 {
		return int64(v) - int64(m.Q)
	}
	return int64(v)
}

// Bytes returns a canonical, injective encoding: dimensions, modulus and
// entries in fixed-width big-endian order. Used for memoization keys.
func (m *MatZq) Bytes() []byte {
	out := make([]byte, 0, 24+8*len(m.Data))
	var hdr [8]byte
	binary.BigEndian.PutUint64(hdr[:], uint64(m.Rows))
	out = append(out, hdr[:]...)
	binary.BigEndian.PutUint64(hdr[:], uint64(m.Cols))
	out = append(out, hdr[:]...)
	binary.BigEndian.PutUint64(hdr[:], m.Q)
	out = append(out, hdr[:]...)
	for _, v := range m.Data {
		binary.BigEndian.PutUint64(hdr[:], v)
		out = append(out, hdr[:]...)
	}
	return out
}

func addMod(a, b, q uint64) uint64 {
	s := a + b
	if s >= q || s < a {
		s -= q
	}
	return s
}

func subMod(a, b, q uint64) uint64 {
	if a >= b {
		return a - b
	}
	return a + q - b
}

// mulMod computes a*b mod q without overflow via 128-bit intermediate.
func mulMod(a, b, q uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	_, rem := bits.Div64(hi%q, lo, q)
	return rem
}
