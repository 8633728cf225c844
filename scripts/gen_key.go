// gen_key.go writes a new node key file for use with enr-cli build -j.
// Usage: go run scripts/gen_key.go [-scheme ed25519] [-password pw] <keyfile>
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/Klingon-tech/enr-cli/internal/keysource"
	"github.com/Klingon-tech/enr-cli/pkg/crypto"
	"github.com/Klingon-tech/enr-cli/pkg/identity"
)

func main() {
	schemeName := flag.String("scheme", "secp256k1", "key scheme: secp256k1 or ed25519")
	password := flag.String("password", "", "encrypt the key file with this password")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: gen_key [-scheme s] [-password pw] <keyfile>")
		os.Exit(1)
	}

	scheme, err := crypto.ParseScheme(*schemeName)
	if err != nil {
		fatal(err)
	}
	key, err := crypto.GenerateKey(scheme)
	if err != nil {
		fatal(err)
	}
	defer key.Zero()

	data := []byte(hex.EncodeToString(key.Bytes()) + "\n")
	if *password != "" {
		if data, err = keysource.Encrypt(data, []byte(*password), keysource.DefaultParams()); err != nil {
			fatal(err)
		}
	}
	if err := os.WriteFile(flag.Arg(0), data, 0600); err != nil {
		fatal(err)
	}

	pub := key.PublicKey()
	fmt.Printf("scheme=%s\n", key.Scheme())
	fmt.Printf("pubkey=%s\n", hex.EncodeToString(pub.Bytes()))
	fmt.Printf("node_id=%s\n", identity.NodeIDFromPublicKey(pub))
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
