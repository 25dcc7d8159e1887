// Package PKE provides the CCS construction: IND-CCA secure bit
// encryption assembled from an identity-based encryption scheme and a
// one-time signature. Each encryption draws a fresh signature keypair,
// encrypts under the identity given by the verification key, and signs
// the ciphertext; decryption rejects forged ciphertexts by signature
// verification before extracting.
package PKE

import (
	"math/rand"

	"github.com/shafriraxu/crypto/IBE"
	mat "github.com/shafriraxu/crypto/Matrix"
	"github.com/shafriraxu/crypto/Signature"
)

// DecFailure is returned by Dec for ciphertexts whose one-time
// signature does not verify.
const DecFailure int64 = -1

// SecretKey bundles the IBE master keys; decryption extracts
// per-ciphertext keys from them.
type SecretKey struct {
	Mpk *mat.MatZq `json:"master_public_key"`
	Msk *mat.MatZ  `json:"master_secret_key"`
}

// Ciphertext carries the one-time verification key, the IBE ciphertext
// and the signature over it.
type Ciphertext struct {
	VerifyKey *mat.MatZq `json:"verify_key"`
	C         *mat.MatZq `json:"cipher"`
	Sig       *mat.MatZ  `json:"signature"`
}

// CCSfromIBE composes an IBE instance with a signature instance.
type CCSfromIBE struct {
	Ibe *IBE.DualRegevIBE
	Sig *Signature.GPV
}

// NewCCSfromIBE derives both component schemes from the rank alone,
// sharing the modulus chosen by the IBE parameter search.
func NewCCSfromIBE(n int, rng *rand.Rand) (*CCSfromIBE, error) {
	ibe, err := IBE.NewDualRegevIBEFromN(n, rng)
	if err != nil {
		return nil, err
	}
	sig, err := Signature.InitGPV(n, ibe.DualRegev.Q, 0, rng)
	if err != nil {
		return nil, err
	}
	return &CCSfromIBE{Ibe: ibe, Sig: sig}, nil
}

// Gen generates a keypair: the IBE master public key encrypts, the
// master keypair decrypts.
func (c *CCSfromIBE) Gen() (*mat.MatZq, *SecretKey, error) {
	mpk, msk, err := c.Ibe.Setup()
	if err != nil {
		return nil, nil, err
	}
	return mpk, &SecretKey{Mpk: mpk, Msk: msk}, nil
}

// Enc encrypts a bit: a fresh one-time signature keypair is drawn, the
// bit is encrypted under the identity given by the verification key,
// and the ciphertext is signed.
func (c *CCSfromIBE) Enc(pk *mat.MatZq, bit int64) (*Ciphertext, error) {
	vk, sk, err := c.Sig.Gen()
	if err != nil {
		return nil, err
	}
	cipher := c.Ibe.Enc(pk, identityOf(vk), bit)
	sigma, err := c.Sig.Sign(string(cipher.Bytes()), sk, vk)
	if err != nil {
		return nil, err
	}
	return &Ciphertext{VerifyKey: vk, C: cipher, Sig: sigma}, nil
}

// Dec decrypts a ciphertext. A failed signature check yields the
// DecFailure sentinel, never a panic; the secret key for the embedded
// identity is only extracted after the signature verifies.
func (c *CCSfromIBE) Dec(sk *SecretKey, cipher *Ciphertext) (int64, error) {
	if cipher == nil || cipher.VerifyKey == nil || cipher.C == nil || cipher.Sig == nil {
		return DecFailure, nil
	}
	if !c.Sig.Vfy(string(cipher.C.Bytes()), cipher.Sig, cipher.VerifyKey) {
		return DecFailure, nil
	}
	skID, err := c.Ibe.Extract(sk.Mpk, sk.Msk, identityOf(cipher.VerifyKey))
	if err != nil {
		return DecFailure, err
	}
	return c.Ibe.Dec(skID, cipher.C), nil
}

// identityOf is the canonical identity string of a verification key.
func identityOf(vk *mat.MatZq) string {
	return string(vk.Bytes())
}
