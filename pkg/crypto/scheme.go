package crypto

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidKeyMaterial is returned when bytes cannot be interpreted as a
	// private or public key of any supported scheme.
	ErrInvalidKeyMaterial = errors.New("invalid key material")

	// ErrUnsupportedKeyScheme is returned for key types outside secp256k1/Ed25519.
	ErrUnsupportedKeyScheme = errors.New("unsupported key scheme")
)

// Scheme identifies a signing scheme.
type Scheme uint8

const (
	// SchemeAuto lets PrivateKeyFromBytes try secp256k1 first, then Ed25519.
	// GenerateKey treats it as Secp256k1.
	SchemeAuto Scheme = iota
	Secp256k1
	Ed25519
)

// String returns the record key name of the scheme.
func (s Scheme) String() string {
	switch s {
	case SchemeAuto:
		return "auto"
	case Secp256k1:
		return "secp256k1"
	case Ed25519:
		return "ed25519"
	default:
		return fmt.Sprintf("scheme(%d)", uint8(s))
	}
}

// ParseScheme converts a scheme name to a Scheme.
func ParseScheme(s string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return SchemeAuto, nil
	case "secp256k1", "secp":
		return Secp256k1, nil
	case "ed25519", "ed":
		return Ed25519, nil
	default:
		return SchemeAuto, fmt.Errorf("%w: %q", ErrUnsupportedKeyScheme, s)
	}
}
