package Hash

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lattigo/v4/ring"
)

func TestHashMatZqDeterministic(t *testing.T) {
	h := NewHashMatZq(8, 1048573)

	a := h.Hash("some message")
	b := h.Hash("some message")
	require.True(t, a.Equal(b), "hashing must be deterministic")

	c := h.Hash("some other message")
	require.False(t, a.Equal(c), "distinct messages must hash differently")
}

func TestHashMatZqRange(t *testing.T) {
	const q = uint64(97)
	h := NewHashMatZq(64, q)

	v := h.Hash("range check")
	require.Equal(t, 64, v.Rows)
	require.Equal(t, 1, v.Cols)
	for i := 0; i < v.Rows; i++ {
		require.Less(t, v.At(i, 0), q)
	}
}

func TestHashPolyQDeterministic(t *testing.T) {
	ringQ, err := ring.NewRing(16, []uint64{97})
	require.NoError(t, err)
	h := NewHashPolyQ(ringQ)

	a := h.Hash("identity one")
	b := h.Hash("identity one")
	require.True(t, ringQ.Equal(a, b))

	c := h.Hash("identity two")
	require.False(t, ringQ.Equal(a, c))
}

func TestHashPolyQCoefficientsReduced(t *testing.T) {
	const q = uint64(97)
	ringQ, err := ring.NewRing(16, []uint64{q})
	require.NoError(t, err)
	h := NewHashPolyQ(ringQ)

	p := h.Hash("reduced")
	coeffs := ringQ.NewPoly()
	ringQ.InvNTT(p, coeffs)
	for i, c := range coeffs.Coeffs[0] {
		require.Less(t, c, q, "coefficient %d out of range", i)
	}
}
