package signer

import (
	"encoding/json"
	"fmt"
	"log"
	"math/big"
	"os"
	"time"

	"github.com/shafriraxu/crypto/Hash"
	ps "github.com/shafriraxu/crypto/Preimage_Sampler"
	Parameters "github.com/shafriraxu/crypto/System"
	"github.com/shafriraxu/crypto/measure"
	prof "github.com/shafriraxu/crypto/prof"

	"github.com/tuneinsight/lattigo/v4/ring"
)

// PublicKey holds the public part of the trapdoor: the full row A of
// k+2 polynomials in the NTT domain.
type PublicKey struct {
	A    [][]uint64 `json:"A"`
	Base uint64     `json:"base"`
	K    int        `json:"k"`
}

// PrivateKey holds the secret part of the trapdoor.
type PrivateKey struct {
	R0   [][]uint64 `json:"R0"`
	R1   [][]uint64 `json:"R1"`
	Base uint64     `json:"base"`
	K    int        `json:"k"`
}

// SignatureData is the on-disk signature bundle: the signed message,
// its hashed target syndrome and the preimage, all in the NTT domain.
type SignatureData struct {
	Message   string     `json:"message"`
	Target    []uint64   `json:"target"`
	Signature [][]uint64 `json:"signature"`
}

// Sign loads (or generates) a keypair, hashes the message into R_q and
// samples a short preimage of the syndrome. All artifacts are written
// under public_key/, private_key/ and Signature/.
func Sign(message string) {
	defer prof.Track(time.Now(), "Sign")
	params, err := LoadParams("Parameters/Parameters.json")
	if err != nil {
		log.Fatalf("loadParams: %v", err)
	}
	log.Printf("Params: N=%d Q=%d Base=%d K=%d", params.N, params.Q, params.Base, params.K)

	ringQ, err := ring.NewRing(params.N, []uint64{params.Q})
	if err != nil {
		log.Fatalf("ring.NewRing: %v", err)
	}

	var trap ps.RingTrapdoor
	if fileExists("public_key/public_key.json") && fileExists("private_key/private_key.json") {
		log.Println("Loading existing keypair...")
		pk, err := LoadPublicKey("public_key/public_key.json")
		if err != nil {
			log.Fatalf("loadPublicKey: %v", err)
		}
		sk, err := loadPrivateKey("private_key/private_key.json")
		if err != nil {
			log.Fatalf("loadPrivateKey: %v", err)
		}
		trap = assembleTrapdoor(ringQ, pk, sk)
	} else {
		log.Println("Generating new keypair...")
		trap = ps.TrapGen(ringQ, params.Base, params.SigmaT, nil, nil)
		if err := savePublicKey("public_key/public_key.json", &trap); err != nil {
			log.Fatalf("savePublicKey: %v", err)
		}
		if err := savePrivateKey("private_key/private_key.json", &trap); err != nil {
			log.Fatalf("savePrivateKey: %v", err)
		}
	}

	// hash the message into the syndrome space
	target := Hash.NewHashPolyQ(ringQ).Hash(message)
	targetCoeffs := append([]uint64(nil), target.Coeffs[0]...)

	// Gaussian preimage sampling in the NTT domain
	sEval := ps.GaussSamp(ringQ, &trap, target, params.Sigma, params.Bound, nil)

	sNTT := make([][]uint64, len(sEval))
	for i, p := range sEval {
		sNTT[i] = append([]uint64(nil), p.Coeffs[0]...)
	}

	if err := saveSignature("Signature/Signature.json", message, targetCoeffs, sNTT); err != nil {
		log.Fatalf("saveSignature: %v", err)
	}

	if measure.Enabled {
		bytesR := measure.BytesRing(params.N, new(big.Int).SetUint64(params.Q))
		measure.Global.Add("public_key", int64(len(trap.A)*bytesR))
		measure.Global.Add("signature", int64(len(sNTT)*bytesR))
		measure.Global.Dump()
	}
	log.Println("✔ Signing complete")
}

func LoadParams(path string) (*Parameters.SystemParams, error) {
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

func savePublicKey(path string, trap *ps.RingTrapdoor) error {
	_ = os.MkdirAll("public_key", 0755)
	pub := PublicKey{Base: trap.Base, K: trap.K, A: make([][]uint64, len(trap.A))}
	for i, a := range trap.A {
		pub.A[i] = append([]uint64(nil), a.Coeffs[0]...)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteString("{\n  \"A\": [\n"); err != nil {
		return err
	}
	for i, poly := range pub.A {
		line, _ := json.Marshal(poly)
		if i < len(pub.A)-1 {
			fmt.Fprintf(f, "    %s,\n", line)
		} else {
			fmt.Fprintf(f, "    %s\n", line)
		}
	}
	if _, err := f.WriteString("  ],\n"); err != nil {
		return err
	}
	fmt.Fprintf(f, "  \"base\": %d,\n", pub.Base)
	fmt.Fprintf(f, "  \"k\": %d\n", pub.K)
	_, err = f.WriteString("}\n")
	return err
}

func savePrivateKey(path string, trap *ps.RingTrapdoor) error {
	_ = os.MkdirAll("private_key", 0755)
	priv := PrivateKey{
		Base: trap.Base,
		K:    trap.K,
		R0:   make([][]uint64, len(trap.R[0])),
		R1:   make([][]uint64, len(trap.R[1])),
	}
	for i, r0 := range trap.R[0] {
		priv.R0[i] = append([]uint64(nil), r0.Coeffs[0]...)
	}
	for i, r1 := range trap.R[1] {
		priv.R1[i] = append([]uint64(nil), r1.Coeffs[0]...)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteString("{\n  \"R0\": [\n"); err != nil {
		return err
	}
	for i, poly := range priv.R0 {
		line, _ := json.Marshal(poly)
		if i < len(priv.R0)-1 {
			fmt.Fprintf(f, "    %s,\n", line)
		} else {
			fmt.Fprintf(f, "    %s\n", line)
		}
	}
	if _, err := f.WriteString("  ],\n  \"R1\": [\n"); err != nil {
		return err
	}
	for i, poly := range priv.R1 {
		line, _ := json.Marshal(poly)
		if i < len(priv.R1)-1 {
			fmt.Fprintf(f, "    %s,\n", line)
		} else {
			fmt.Fprintf(f, "    %s\n", line)
		}
	}
	if _, err := f.WriteString("  ],\n"); err != nil {
		return err
	}
	fmt.Fprintf(f, "  \"base\": %d,\n", priv.Base)
	fmt.Fprintf(f, "  \"k\": %d\n", priv.K)
	_, err = f.WriteString("}\n")
	return err
}

func saveSignature(path string, message string, target []uint64, signature [][]uint64) error {
	_ = os.MkdirAll("Signature", 0755)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	msg, _ := json.Marshal(message)
	tgt, _ := json.Marshal(target)
	if _, err := fmt.Fprintf(f, "{\n  \"message\": %s,\n  \"target\": %s,\n  \"signature\": [\n", msg, tgt); err != nil {
		return err
	}
	for i, poly := range signature {
		line, _ := json.Marshal(poly)
		if i < len(signature)-1 {
			fmt.Fprintf(f, "    %s,\n", line)
		} else {
			fmt.Fprintf(f, "    %s\n", line)
		}
	}
	_, err = f.WriteString("  ]\n}\n")
	return err
}

func LoadPublicKey(path string) (*PublicKey, error) {
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

func loadPrivateKey(path string) (*PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sk PrivateKey
	if err := json.Unmarshal(data, &sk); err != nil {
		return nil, err
	}
	return &sk, nil
}

func assembleTrapdoor(ringQ *ring.Ring, pk *PublicKey, sk *PrivateKey) ps.RingTrapdoor {
	trap := ps.RingTrapdoor{Base: pk.Base, K: pk.K, Rows: 1, Cols: 2}
	trap.A = make([]*ring.Poly, len(pk.A))
	for i, a := range pk.A {
		p := ringQ.NewPoly()
		copy(p.Coeffs[0], a)
		trap.A[i] = p
	}
	trap.A1 = trap.A[:2]
	trap.A2 = trap.A[2:]
	trap.R[0] = make([]*ring.Poly, len(sk.R0))
	for i, r0 := range sk.R0 {
		p := ringQ.NewPoly()
		copy(p.Coeffs[0], r0)
		trap.R[0][i] = p
	}
	trap.R[1] = make([]*ring.Poly, len(sk.R1))
	for i, r1 := range sk.R1 {
		p := ringQ.NewPoly()
		copy(p.Coeffs[0], r1)
		trap.R[1][i] = p
	}
	return trap
}

func fileExists(path string) bool {
	if _, err := os.Stat(path); err == nil {
		return true
	}
	return false
}
