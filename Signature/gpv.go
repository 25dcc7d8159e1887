package Signature

import (
	"encoding/binary"
	"math/rand"

	"github.com/tuneinsight/lattigo/v4/ring"

	"github.com/shafriraxu/crypto/Hash"
	mat "github.com/shafriraxu/crypto/Matrix"
	"github.com/shafriraxu/crypto/PSF"
	ps "github.com/shafriraxu/crypto/Preimage_Sampler"
)

// GPV is the classical-lattice instantiation: public keys are matrices
// A over Z_q, signatures short integer vectors with A·sig = hash(msg).
type GPV struct {
	*FDH[*mat.MatZq, *mat.MatZ, *mat.MatZ, *mat.MatZq]
	Params *ps.GadgetParameters
}

// InitGPV sets up the scheme for security parameter n and modulus q with
// the default gadget base. s is the preimage sampling width; s <= 0
// selects the spectral width, the smallest that succeeds for almost all
// trapdoors.
func InitGPV(n int, q uint64, s float64, rng *rand.Rand) (*GPV, error) {
	params, err := ps.DefaultGadgetParameters(n, q)
	if err != nil {
		return nil, err
	}
	psf := PSF.NewPSFGPV(params, rng)
	if s > 0 {
		psf.S = s
	}
	hasher := Hash.NewHashMatZq(n, q)
	fdh := NewFDH[*mat.MatZq, *mat.MatZ, *mat.MatZ, *mat.MatZq](
		psf,
		hasher,
		func(a, b *mat.MatZq) bool { return a.Equal(b) },
		func(pk *mat.MatZq, msg string) string { return StorageKey(pk.Bytes(), msg) },
	)
	return &GPV{FDH: fdh, Params: params}, nil
}

// GPVRing is the ring instantiation over R_q = Z_q[x]/(x^N + 1): public
// keys are rows of k+2 polynomials, signatures short polynomial vectors.
type GPVRing struct {
	*FDH[[]*ring.Poly, *ps.RingTrapdoor, []*ring.Poly, *ring.Poly]
	RingQ  *ring.Ring
	Params *ps.GadgetParametersRing
}

// InitGPVRing sets up the ring scheme for degree n (a power of two) and
// NTT-friendly modulus q.
func InitGPVRing(n int, q, base uint64, rng *rand.Rand) (*GPVRing, error) {
	psf, err := PSF.NewPSFGPVRing(n, q, base, rng)
	if err != nil {
		return nil, err
	}
	ringQ := psf.RingQ
	hasher := Hash.NewHashPolyQ(ringQ)
	fdh := NewFDH[[]*ring.Poly, *ps.RingTrapdoor, []*ring.Poly, *ring.Poly](
		psf,
		hasher,
		func(a, b *ring.Poly) bool { return ringQ.Equal(a, b) },
		func(pk []*ring.Poly, msg string) string { return StorageKey(encodePolyRow(pk), msg) },
	)
	return &GPVRing{FDH: fdh, RingQ: ringQ, Params: psf.Params}, nil
}

// encodePolyRow flattens a row of polynomials into a length-prefixed
// byte string, canonical for use in storage keys.
func encodePolyRow(row []*ring.Poly) []byte {
	var size int
	for _, p := range row {
		size += 4 + 8*len(p.Coeffs[0])
	}
	buf := make([]byte, 0, 4+size)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(row)))
	for _, p := range row {
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(p.Coeffs[0])))
		for _, c := range p.Coeffs[0] {
			buf = binary.BigEndian.AppendUint64(buf, c)
		}
	}
	return buf
}
