// Parameters/system.go
package Parameters

import (
	"encoding/json"
	"log"
	"math"
	"os"
	"time"

	"github.com/shafriraxu/crypto/Preimage_Sampler"
	prof "github.com/shafriraxu/crypto/prof"
)

// SystemParams holds all public parameters of the ring signature
// instance used by the command-line pipeline.
type SystemParams struct {
	N      int     `json:"n"`       // ring degree
	Q      uint64  `json:"q"`       // modulus
	Base   uint64  `json:"base"`    // gadget base t
	K      int     `json:"k"`       // gadget decomposition length
	SigmaT float64 `json:"sigma_t"` // gadget-scaled Gaussian width
	Sigma  float64 `json:"sigma"`   // raw Gaussian width
	Bound  float64 `json:"bound"`   // spectral (norm) bound s
	Beta   uint64  `json:"beta"`    // public L2 bound β on full preimages
}

// Generate computes the public parameters and writes them to
// ./Parameters/Parameters.json.
func Generate() {
	defer prof.Track(time.Now(), "GenerateParameters")
	n := 512
	q := uint64(8399873)
	base := uint64(2)

	gp, err := Preimage_Sampler.NewGadgetParametersRing(n, q, base)
	if err != nil {
		log.Fatalf("ring gadget parameters: %v", err)
	}

	// β bounds the L2 norm of a full preimage of k+2 ring elements,
	// with headroom over the expected norm s·√(N·(k+2))
	beta := uint64(math.Ceil(1.3 * gp.Bound * math.Sqrt(float64(n*(gp.K+2)))))

	params := SystemParams{
		N:      gp.N,
		Q:      gp.Q,
		Base:   gp.Base,
		K:      gp.K,
		SigmaT: gp.SigmaT,
		Sigma:  gp.Sigma,
		Bound:  gp.Bound,
		Beta:   beta,
	}

	if err := os.MkdirAll("Parameters", 0755); err != nil {
		log.Fatalf("failed to create Parameters folder: %v", err)
	}
	paramData, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal parameters: %v", err)
	}
	if err := os.WriteFile("Parameters/Parameters.json", paramData, 0644); err != nil {
		log.Fatalf("failed to write Parameters.json: %v", err)
	}
	log.Println("✔ Parameters written to ./Parameters/Parameters.json")
}
