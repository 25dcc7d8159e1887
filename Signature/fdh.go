// Package Signature implements full-domain-hash signatures on top of a
// preimage-sampleable function: sign by sampling a short preimage of the
// hashed message, verify by re-evaluating the function and checking the
// domain bound.
package Signature

import (
	"encoding/binary"
	"sync"

	"github.com/shafriraxu/crypto/Hash"
	"github.com/shafriraxu/crypto/PSF"
)

// FDH is the generic hash-and-sample signature scheme. Signing is
// memoized: re-signing the same message under the same public key
// returns the stored preimage, which is what makes the scheme stateless
// FDH-secure without random nonces.
type FDH[A, T, D, R any] struct {
	Psf    PSF.PSF[A, T, D, R]
	Hasher Hash.HashInto[R]

	equal  func(R, R) bool
	keyFor func(pk A, msg string) string

	mu    sync.Mutex
	store map[string]D
}

// NewFDH assembles a scheme from its components. equal compares range
// elements; keyFor must produce a canonical storage key from (pk, msg)
// with no collisions across distinct pairs.
func NewFDH[A, T, D, R any](
	psf PSF.PSF[A, T, D, R],
	hasher Hash.HashInto[R],
	equal func(R, R) bool,
	keyFor func(pk A, msg string) string,
) *FDH[A, T, D, R] {
	return &FDH[A, T, D, R]{
		Psf:    psf,
		Hasher: hasher,
		equal:  equal,
		keyFor: keyFor,
		store:  make(map[string]D),
	}
}

// Gen draws a fresh keypair.
func (f *FDH[A, T, D, R]) Gen() (A, T, error) {
	return f.Psf.TrapGen()
}

// Sign returns the short preimage of hash(msg) under pk. The lock is
// held across the preimage computation, so concurrent signers of the
// same message observe at most one SampP call per distinct (pk, msg).
func (f *FDH[A, T, D, R]) Sign(msg string, sk T, pk A) (D, error) {
	key := f.keyFor(pk, msg)

	f.mu.Lock()
	defer f.mu.Unlock()
	if sig, ok := f.store[key]; ok {
		return sig, nil
	}

	u := f.Hasher.Hash(msg)
	sig, err := f.Psf.SampP(pk, sk, u)
	if err != nil {
		var zero D
		return zero, err
	}
	f.store[key] = sig
	return sig, nil
}

// Vfy accepts iff sig is in the short domain and maps to hash(msg).
func (f *FDH[A, T, D, R]) Vfy(msg string, sig D, pk A) bool {
	if !f.Psf.CheckDomain(sig) {
		return false
	}
	return f.equal(f.Psf.FA(pk, sig), f.Hasher.Hash(msg))
}

// StoredSignatures returns the number of memoized (pk, msg) entries.
func (f *FDH[A, T, D, R]) StoredSignatures() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.store)
}

// StorageKey builds a canonical key from a public-key encoding and a
// message. Both parts are length-prefixed, so distinct (pk, msg) pairs
// can never collide the way naive concatenation does.
func StorageKey(pk []byte, msg string) string {
	buf := make([]byte, 0, 8+len(pk)+len(msg))
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(pk)))
	buf = append(buf, pk...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(msg)))
	buf = append(buf, msg...)
	return string(buf)
}
