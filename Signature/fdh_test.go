package Signature

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGPVSignVerify(t *testing.T) {
	rng := rand.New(rand.NewSource(30))
	scheme, err := InitGPV(2, 97, 0, rng)
	require.NoError(t, err)

	pk, sk, err := scheme.Gen()
	require.NoError(t, err)

	sig, err := scheme.Sign("hello world", sk, pk)
	require.NoError(t, err)

	require.True(t, scheme.Vfy("hello world", sig, pk))
	require.False(t, scheme.Vfy("hello world!", sig, pk), "signature must not verify for a different message")
}

func TestGPVSignMemoized(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	scheme, err := InitGPV(2, 97, 0, rng)
	require.NoError(t, err)

	pk, sk, err := scheme.Gen()
	require.NoError(t, err)

	first, err := scheme.Sign("msg", sk, pk)
	require.NoError(t, err)
	second, err := scheme.Sign("msg", sk, pk)
	require.NoError(t, err)

	require.True(t, first.Equal(second), "re-signing the same message must return the stored preimage")
	require.Equal(t, 1, scheme.StoredSignatures())
}

func TestGPVDistinctKeypairs(t *testing.T) {
	rng := rand.New(rand.NewSource(32))
	scheme, err := InitGPV(2, 97, 0, rng)
	require.NoError(t, err)

	pk1, sk1, err := scheme.Gen()
	require.NoError(t, err)
	pk2, sk2, err := scheme.Gen()
	require.NoError(t, err)

	sig1, err := scheme.Sign("msg", sk1, pk1)
	require.NoError(t, err)
	sig2, err := scheme.Sign("msg", sk2, pk2)
	require.NoError(t, err)

	// same message, separate store entries per public key
	require.Equal(t, 2, scheme.StoredSignatures())
	require.True(t, scheme.Vfy("msg", sig1, pk1))
	require.True(t, scheme.Vfy("msg", sig2, pk2))
	require.False(t, scheme.Vfy("msg", sig1, pk2))
	require.False(t, scheme.Vfy("msg", sig2, pk1))
}

func TestGPVSerializeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(33))
	scheme, err := InitGPV(2, 97, 0, rng)
	require.NoError(t, err)

	pk, sk, err := scheme.Gen()
	require.NoError(t, err)
	sig, err := scheme.Sign("persistent", sk, pk)
	require.NoError(t, err)

	data, err := json.Marshal(scheme)
	require.NoError(t, err)

	restored := new(GPV)
	require.NoError(t, json.Unmarshal(data, restored))

	require.Equal(t, scheme.Params.N, restored.Params.N)
	require.Equal(t, scheme.Params.Q, restored.Params.Q)
	require.Equal(t, 1, restored.StoredSignatures())

	// the restored store must answer Sign without resampling
	again, err := restored.Sign("persistent", sk, pk)
	require.NoError(t, err)
	require.True(t, sig.Equal(again))
	require.True(t, restored.Vfy("persistent", again, pk))
}

func TestStorageKeyNoCollision(t *testing.T) {
	// naive concatenation maps both pairs to "\x01a"
	a := StorageKey([]byte{0x01}, "a")
	b := StorageKey([]byte{0x01, 'a'}, "")
	require.NotEqual(t, a, b)
}

func TestGPVRingSignVerify(t *testing.T) {
	rng := rand.New(rand.NewSource(34))
	scheme, err := InitGPVRing(16, 97, 2, rng)
	require.NoError(t, err)

	pk, sk, err := scheme.Gen()
	require.NoError(t, err)

	sig, err := scheme.Sign("ring message", sk, pk)
	require.NoError(t, err)
	require.Len(t, sig, scheme.Params.K+2)

	require.True(t, scheme.Vfy("ring message", sig, pk))
	require.False(t, scheme.Vfy("other message", sig, pk))

	again, err := scheme.Sign("ring message", sk, pk)
	require.NoError(t, err)
	require.Equal(t, 1, scheme.StoredSignatures())
	for i := range sig {
		require.True(t, scheme.RingQ.Equal(sig[i], again[i]))
	}
}
