package Signature

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	mat "github.com/shafriraxu/crypto/Matrix"
	"github.com/shafriraxu/crypto/PSF"
	ps "github.com/shafriraxu/crypto/Preimage_Sampler"
)

// gpvState is the persisted form of a classical scheme: its parameters
// and the memoized signatures. Storage keys contain raw public-key
// bytes, so they are hex encoded for JSON.
type gpvState struct {
	Params  *ps.GadgetParameters `json:"parameters"`
	S       float64              `json:"width"`
	Storage map[string]*mat.MatZ `json:"storage"`
}

// MarshalJSON serializes the parameters and signature store. Keypairs
// are not part of the state and must be persisted by the caller.
func (g *GPV) MarshalJSON() ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	storage := make(map[string]*mat.MatZ, len(g.store))
	for k, v := range g.store {
		storage[hex.EncodeToString([]byte(k))] = v
	}
	return json.Marshal(gpvState{
		Params:  g.Params,
		S:       g.Psf.(*PSF.PSFGPV).S,
		Storage: storage,
	})
}

// UnmarshalJSON restores a scheme previously serialized with
// MarshalJSON. The random source of the embedded sampler is left nil,
// so restored schemes sign with the process-wide source.
func (g *GPV) UnmarshalJSON(data []byte) error {
	var state gpvState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	if state.Params == nil {
		return fmt.Errorf("signature state: missing parameters")
	}

	restored, err := InitGPV(state.Params.N, state.Params.Q, state.S, nil)
	if err != nil {
		return err
	}
	*g = *restored
	// keep the serialized parameter set verbatim
	g.Params = state.Params
	g.Psf.(*PSF.PSFGPV).Params = state.Params

	g.mu.Lock()
	defer g.mu.Unlock()
	for k, v := range state.Storage {
		raw, err := hex.DecodeString(k)
		if err != nil {
			return fmt.Errorf("signature state: storage key %q: %w", k, err)
		}
		g.store[string(raw)] = v
	}
	return nil
}
