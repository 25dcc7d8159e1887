package verifier

import (
	"encoding/json"
	"log"
	"math"
	"os"

	"github.com/shafriraxu/crypto/Hash"
	ps "github.com/shafriraxu/crypto/Preimage_Sampler"
	Parameters "github.com/shafriraxu/crypto/System"

	"github.com/tuneinsight/lattigo/v4/ring"
)

// PublicKey mirrors public_key/public_key.json
type PublicKey struct {
	A    [][]uint64 `json:"A"`
	Base uint64     `json:"base"`
	K    int        `json:"k"`
}

// SignatureData mirrors Signature/Signature.json
type SignatureData struct {
	Message   string     `json:"message"`
	Target    []uint64   `json:"target"`   // syndrome in NTT domain
	Signature [][]uint64 `json:"signature"` // each row already NTT
}

// Verify reloads the signature bundle from disk and checks it against
// the expected message: the stored target must equal the recomputed
// hash, the preimage must map to it under A, and its norm must respect
// the public bound.
func Verify(message string) bool {
	pp, err := loadParams("Parameters/Parameters.json")
	if err != nil {
		log.Fatalf("loading params: %v", err)
	}

	ringQ, err := ring.NewRing(pp.N, []uint64{pp.Q})
	if err != nil {
		log.Fatalf("ring.NewRing: %v", err)
	}

	pk, err := loadPublicKey("public_key/public_key.json")
	if err != nil {
		log.Fatalf("loading public key: %v", err)
	}

	sig, err := loadSignature("Signature/Signature.json")
	if err != nil {
		log.Fatalf("loading signature: %v", err)
	}

	if sig.Message != message {
		log.Println("❌ message-check failed: bundle signs a different message")
		return false
	}
	if len(sig.Target) != pp.N {
		log.Println("❌ length-check failed: incorrect target length in signature data")
		return false
	}

	// recompute the syndrome from the message
	target := Hash.NewHashPolyQ(ringQ).Hash(message)
	storedTarget := ringQ.NewPoly()
	copy(storedTarget.Coeffs[0], sig.Target)
	if !ringQ.Equal(target, storedTarget) {
		log.Println("❌ target-check failed: recomputed hash ≠ target stored in signature")
		return false
	}

	// rebuild A and s in the NTT domain
	Aeval := make([]*ring.Poly, len(pk.A))
	for i, coeffs := range pk.A {
		p := ringQ.NewPoly()
		copy(p.Coeffs[0], coeffs)
		Aeval[i] = p
	}
	if len(sig.Signature) != len(Aeval) {
		log.Printf("❌ length-check failed: signature has %d rows, expected %d", len(sig.Signature), len(Aeval))
		return false
	}
	SEval := make([]*ring.Poly, len(sig.Signature))
	for i, coeffs := range sig.Signature {
		p := ringQ.NewPoly()
		copy(p.Coeffs[0], coeffs)
		SEval[i] = p
	}

	// A·s == target
	if !ringQ.Equal(ps.ApplyRow(ringQ, Aeval, SEval), storedTarget) {
		log.Println("❌ syndrome-check failed: A·s ≠ target")
		return false
	}

	// norm bound ‖s‖₂ ≤ β
	var sumSq float64
	coeff := ringQ.NewPoly()
	for _, p := range SEval {
		ringQ.InvNTT(p, coeff)
		n := ps.PolyNorm2(ringQ, coeff)
		sumSq += n * n
	}
	if norm := math.Sqrt(sumSq); norm > float64(pp.Beta) {
		log.Printf("❌ norm-check failed: ‖s‖=%.2f > β=%d", norm, pp.Beta)
		return false
	}

	log.Println("✅ signature valid")
	return true
}

func loadParams(path string) (*Parameters.SystemParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Parameters.SystemParams
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func loadPublicKey(path string) (*PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pk PublicKey
	if err := json.Unmarshal(data, &pk); err != nil {
		return nil, err
	}
	return &pk, nil
}

func loadSignature(path string) (*SignatureData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sd SignatureData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	return &sd, nil
}
