package Preimage_Sampler

import "log"

// samplerDebug gates the internal numeric invariant checks.
const samplerDebug = true

func assert(cond bool, msg string, args ...any) {
	if samplerDebug && !cond {
		log.Fatalf(msg, args...)
	}
}
