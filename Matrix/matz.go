package matrix

import (
	"encoding/binary"
	"fmt"
	"math"
)

// MatZ is a dense rows×cols integer matrix, row-major. Trapdoor and
// preimage material stays well below 63 bits for any parameter set the
// validators accept, so int64 entries are exact.
type MatZ struct {
	Rows int     `json:"rows"`
	Cols int     `json:"cols"`
	Data []int64 `json:"data"`
}

// NewMatZ allocates a zero integer matrix.
func NewMatZ(rows, cols int) *MatZ {
	if rows < 1 || cols < 1 {
		panic(fmt.Sprintf("matrix: invalid dimensions %dx%d", rows, cols))
	}
	return &MatZ{Rows: rows, Cols: cols, Data: make([]int64, rows*cols)}
}

// IdentityZ returns I_n over Z.
func IdentityZ(n int) *MatZ {
	m := NewMatZ(n, n)
	for i := 0; i < n; i++ {
		m.Data[i*n+i] = 1
	}
	return m
}

func (m *MatZ) At(i, j int) int64 { return m.Data[i*m.Cols+j] }

func (m *MatZ) Set(i, j int, v int64) { m.Data[i*m.Cols+j] = v }

func (m *MatZ) Copy() *MatZ {
	out := NewMatZ(m.Rows, m.Cols)
	copy(out.Data, m.Data)
	return out
}

// Add returns m + other.
func (m *MatZ) Add(other *MatZ) *MatZ {
	if m.Rows != other.Rows || m.Cols != other.Cols {
		panic(fmt.Sprintf("matrix: add %dx%d with %dx%d", m.Rows, m.Cols, other.Rows, other.Cols))
	}
	out := NewMatZ(m.Rows, m.Cols)
	for i := range m.Data {
		out.Data[i] = m.Data[i] + other.Data[i]
	}
	return out
}

// Mul returns m · other over Z.
func (m *MatZ) Mul(other *MatZ) *MatZ {
	if m.Cols != other.Rows {
		panic(fmt.Sprintf("matrix: mul %dx%d with %dx%d", m.Rows, m.Cols, other.Rows, other.Cols))
	}
	out := NewMatZ(m.Rows, other.Cols)
	for i := 0; i < m.Rows; i++ {
		for l := 0; l < m.Cols; l++ {
			a := m.Data[i*m.Cols+l]
			if a == 0 {
				continue
			}
			for j := 0; j < other.Cols; j++ {
				out.Data[i*other.Cols+j] += a * other.Data[l*other.Cols+j]
			}
		}
	}
	return out
}

// ConcatVertical returns [m; other].
func (m *MatZ) ConcatVertical(other *MatZ) *MatZ {
	if m.Cols != other.Cols {
		panic(fmt.Sprintf("matrix: vconcat %dx%d with %dx%d", m.Rows, m.Cols, other.Rows, other.Cols))
	}
	out := NewMatZ(m.Rows+other.Rows, m.Cols)
	copy(out.Data, m.Data)
	copy(out.Data[len(m.Data):], other.Data)
	return out
}

// ToZq lifts the entries into [0,q).
func (m *MatZ) ToZq(q uint64) *MatZq {
	out := NewMatZq(m.Rows, m.Cols, q)
	mod := int64(q)
	for i, v := range m.Data {
		r := v % mod
		if r < 0 {
			r += mod
		}
		out.Data[i] = uint64(r)
	}
	return out
}

func (m *MatZ) Equal(other *MatZ) bool {
	if m.Rows != other.Rows || m.Cols != other.Cols {
		return false
	}
	for i := range m.Data {
		if m.Data[i] != other.Data[i] {
			return false
		}
	}
	return true
}

// Norm2 returns the Euclidean norm over all entries.
func (m *MatZ) Norm2() float64 {
	var sum float64
	for _, v := range m.Data {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

// InfNorm returns max |entry|.
func (m *MatZ) InfNorm() int64 {
	var max int64
	for _, v := range m.Data {
		if v < 0 {
			v = -v
		}
		if v > max {
			max = v
		}
	}
	return max
}

// Bytes returns a canonical, injective encoding matching MatZq.Bytes.
func (m *MatZ) Bytes() []byte {
	out := make([]byte, 0, 16+8*len(m.Data))
	var hdr [8]byte
	binary.BigEndian.PutUint64(hdr[:], uint64(m.Rows))
	out = append(out, hdr[:]...)
	binary.BigEndian.PutUint64(hdr[:], uint64(m.Cols))
	out = append(out, hdr[:]...)
	for _, v := range m.Data {
		binary.BigEndian.PutUint64(hdr[:], uint64(v))
		out = append(out, hdr[:]...)
	}
	return out
}
