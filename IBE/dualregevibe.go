package IBE

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"math/rand"
	"sync"

	"github.com/shafriraxu/crypto/Hash"
	mat "github.com/shafriraxu/crypto/Matrix"
	"github.com/shafriraxu/crypto/PSF"
	ps "github.com/shafriraxu/crypto/Preimage_Sampler"
)

// DualRegevIBE is the GPV identity-based encryption scheme: the master
// keypair is a trapdoor function, identities hash to syndromes, and the
// per-identity secret key is a short preimage of that syndrome.
//
// Extraction is memoized: repeated extraction for the same identity
// under the same master keys returns the stored key.
type DualRegevIBE struct {
	DualRegev *DualRegev
	Psf       *PSF.PSFGPV
	Hasher    *Hash.HashMatZq

	mu      sync.Mutex
	storage map[string]*mat.MatZ
}

// NewDualRegevIBE assembles the scheme for rank n, modulus q, preimage
// width r and error rate alpha. The validators are not invoked here;
// call CheckSecurity and CheckCorrectness explicitly where the choice
// of parameters matters.
func NewDualRegevIBE(n int, q uint64, r, alpha float64, rng *rand.Rand) (*DualRegevIBE, error) {
	params, err := ps.DefaultGadgetParameters(n, q)
	if err != nil {
		return nil, err
	}
	psf := PSF.NewPSFGPV(params, rng)
	psf.S = r
	return &DualRegevIBE{
		DualRegev: NewDualRegev(n, params.M, q, r, alpha, rng),
		Psf:       psf,
		Hasher:    Hash.NewHashMatZq(n, q),
		storage:   make(map[string]*mat.MatZ),
	}, nil
}

// NewDualRegevIBEFromN derives a full parameter set from the rank
// alone: q is the largest prime below the smallest power of two for
// which the security bound q ≥ 5·r·(m+1) holds at the spectral preimage
// width, and alpha is set well below the correctness bound so that
// decryption errors stay negligible.
func NewDualRegevIBEFromN(n int, rng *rand.Rand) (*DualRegevIBE, error) {
	if n < 2 {
		return nil, fmt.Errorf("ibe parameters: n = %d violates n >= 2", n)
	}
	for bits := 10; bits <= 62; bits++ {
		q := largestPrimeBelow(uint64(1) << bits)
		params, err := ps.DefaultGadgetParameters(n, q)
		if err != nil {
			continue
		}
		r := params.SpectralGaussWidth()
		m := float64(params.M)
		if float64(q) < 5*r*(m+1) {
			continue
		}
		alpha := 1 / (16 * r * math.Sqrt(m+1) * math.Log2(float64(n)))
		return NewDualRegevIBE(n, q, r, alpha, rng)
	}
	return nil, fmt.Errorf("ibe parameters: no modulus below 2^62 satisfies q >= 5*r*(m+1) for n = %d", n)
}

// largestPrimeBelow returns the largest prime <= bound.
func largestPrimeBelow(bound uint64) uint64 {
	for v := bound; v >= 2; v-- {
		if new(big.Int).SetUint64(v).ProbablyPrime(20) {
			return v
		}
	}
	return 2
}

// Setup generates the master keypair.
func (ibe *DualRegevIBE) Setup() (*mat.MatZq, *mat.MatZ, error) {
	return ibe.Psf.TrapGen()
}

// Extract returns the secret key for an identity: a short preimage of
// the hashed identity under the master public key. The lock is held
// across the preimage computation, so concurrent extraction performs at
// most one sampling per distinct (mpk, msk, identity).
func (ibe *DualRegevIBE) Extract(mpk *mat.MatZq, msk *mat.MatZ, identity string) (*mat.MatZ, error) {
	key := extractKey(mpk, msk, identity)

	ibe.mu.Lock()
	defer ibe.mu.Unlock()
	if sk, ok := ibe.storage[key]; ok {
		return sk, nil
	}

	u := ibe.Hasher.Hash(identity)
	sk, err := ibe.Psf.SampP(mpk, msk, u)
	if err != nil {
		return nil, err
	}
	ibe.storage[key] = sk
	return sk, nil
}

// Enc encrypts a bit for an identity under [mpk | H(identity)]: the
// hashed identity takes the role of the Dual-Regev syndrome, so the
// extracted key decrypts.
func (ibe *DualRegevIBE) Enc(mpk *mat.MatZq, identity string, bit int64) *mat.MatZq {
	u := ibe.Hasher.Hash(identity)
	return ibe.DualRegev.Enc(mpk.ConcatHorizontal(u), bit)
}

// Dec decrypts with an extracted identity key.
func (ibe *DualRegevIBE) Dec(skID *mat.MatZ, cipher *mat.MatZq) int64 {
	return ibe.DualRegev.Dec(skID, cipher)
}

// StoredKeys returns the number of memoized extracted keys.
func (ibe *DualRegevIBE) StoredKeys() int {
	ibe.mu.Lock()
	defer ibe.mu.Unlock()
	return len(ibe.storage)
}

// CheckSecurity verifies the GPV security requirements on the chosen
// parameters: q ≥ 5·r·(m+1), r ≥ √m and m > (n+1)·log₂ q. Each failure
// names the violated inequality.
func (ibe *DualRegevIBE) CheckSecurity() error {
	r := ibe.Psf.S
	m := float64(ibe.DualRegev.M)
	q := float64(ibe.DualRegev.Q)

	if q < 5*r*(m+1) {
		return fmt.Errorf("ibe security: q = %d violates q >= 5*r*(m+1) = %f", ibe.DualRegev.Q, 5*r*(m+1))
	}
	if r < math.Sqrt(m) {
		return fmt.Errorf("ibe security: r = %f violates r >= sqrt(m) = %f", r, math.Sqrt(m))
	}
	if m <= float64(ibe.DualRegev.N+1)*math.Log2(q) {
		return fmt.Errorf("ibe security: m = %d violates m > (n+1)*log2(q) = %f",
			ibe.DualRegev.M, float64(ibe.DualRegev.N+1)*math.Log2(q))
	}
	return nil
}

// CheckCorrectness verifies that decryption succeeds with overwhelming
// probability: n > 1 and α ≤ 1/(2·r·√(m+1)·log₂ n).
func (ibe *DualRegevIBE) CheckCorrectness() error {
	if ibe.DualRegev.N <= 1 {
		return fmt.Errorf("ibe correctness: n = %d violates n > 1", ibe.DualRegev.N)
	}
	r := ibe.Psf.S
	m := float64(ibe.DualRegev.M)
	bound := 1 / (2 * r * math.Sqrt(m+1) * math.Log2(float64(ibe.DualRegev.N)))
	if ibe.DualRegev.Alpha > bound {
		return fmt.Errorf("ibe correctness: alpha = %g violates alpha <= 1/(2*r*sqrt(m+1)*log2(n)) = %g",
			ibe.DualRegev.Alpha, bound)
	}
	return nil
}

// extractKey builds the canonical storage key for a memoized
// extraction. All three parts are length-prefixed.
func extractKey(mpk *mat.MatZq, msk *mat.MatZ, identity string) string {
	pk := mpk.Bytes()
	sk := msk.Bytes()
	buf := make([]byte, 0, 12+len(pk)+len(sk)+len(identity))
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(pk)))
	buf = append(buf, pk...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(sk)))
	buf = append(buf, sk...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(identity)))
	buf = append(buf, identity...)
	return string(buf)
}
