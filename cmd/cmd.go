//go:build !analysis
// +build !analysis

// cmd/app/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	signer "github.com/shafriraxu/crypto/Signer"
	Parameters "github.com/shafriraxu/crypto/System"
	verifier "github.com/shafriraxu/crypto/Verifier"
)

func main() {
	message := "hello world"
	if len(os.Args) > 1 {
		message = strings.Join(os.Args[1:], " ")
	}

	// 1) Generate (or load) public system parameters
	fmt.Println("🔧 Generating public parameters...")
	Parameters.Generate()

	// 2) Run the signer: key-gen + sign the message
	fmt.Println("✍️  Generating keypair and signature...")
	signer.Sign(message)

	// 3) Verify the signature bundle
	fmt.Println("🔍 Verifying signature...")
	if ok := verifier.Verify(message); !ok {
		log.Fatal("❌ Signature verification failed")
	}

	fmt.Println("✅ All done.")
}
