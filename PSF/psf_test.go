package PSF

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lattigo/v4/ring"
	"github.com/tuneinsight/lattigo/v4/utils"

	mat "github.com/shafriraxu/crypto/Matrix"
	ps "github.com/shafriraxu/crypto/Preimage_Sampler"
)

func TestPSFGPVRoundTrip(t *testing.T) {
	params, err := ps.DefaultGadgetParameters(2, 97)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(60))
	psf := NewPSFGPV(params, rng)

	a, td, err := psf.TrapGen()
	require.NoError(t, err)

	for trial := 0; trial < 5; trial++ {
		u := mat.NewUniformMatZq(params.N, 1, params.Q, rng)
		e, err := psf.SampP(a, td, u)
		require.NoError(t, err)

		require.True(t, psf.CheckDomain(e), "trial %d: preimage outside domain", trial)
		require.True(t, psf.FA(a, e).Equal(u), "trial %d: FA(a, e) != u", trial)
	}
}

func TestPSFGPVCheckDomainRejects(t *testing.T) {
	params, err := ps.DefaultGadgetParameters(2, 97)
	require.NoError(t, err)
	psf := NewPSFGPV(params, rand.New(rand.NewSource(61)))

	require.False(t, psf.CheckDomain(nil))
	require.False(t, psf.CheckDomain(mat.NewMatZ(params.M+1, 1)), "wrong length must be rejected")

	// entries of 10·s put the norm at 10·s·√m, far past the bound
	long := mat.NewMatZ(params.M, 1)
	for i := 0; i < params.M; i++ {
		long.Set(i, 0, int64(10*psf.S))
	}
	require.False(t, psf.CheckDomain(long), "oversized vector must be rejected")
}

func TestPSFGPVRingRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(62))
	psf, err := NewPSFGPVRing(16, 97, 2, rng)
	require.NoError(t, err)

	a, td, err := psf.TrapGen()
	require.NoError(t, err)

	prng, err := utils.NewPRNG()
	require.NoError(t, err)
	u := ring.NewUniformSampler(prng, psf.RingQ).ReadNew()

	e, err := psf.SampP(a, td, u)
	require.NoError(t, err)

	require.True(t, psf.CheckDomain(e))
	require.True(t, psf.RingQ.Equal(psf.FA(a, e), u))
}
