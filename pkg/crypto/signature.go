package crypto

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

const (
	// PrivateKeySize is the length of a secp256k1 scalar or an Ed25519 seed.
	PrivateKeySize = 32

	// SignatureSize is the length of a record signature for either scheme.
	// secp256k1 signatures are r||s without the recovery id.
	SignatureSize = 64

	// Secp256k1PublicKeySize is the compressed SEC1 encoding length.
	Secp256k1PublicKeySize = 33
)

// PrivateKey is a signing key of one of the supported schemes.
// Only the scheme tag and the raw scalar/seed are held; the public key is
// derived on demand.
type PrivateKey struct {
	scheme Scheme
	secp   *secp256k1.PrivateKey
	ed     ed25519.PrivateKey
}

// GenerateKey creates a new random private key. SchemeAuto yields secp256k1.
func GenerateKey(scheme Scheme) (*PrivateKey, error) {
	switch scheme {
	case SchemeAuto, Secp256k1:
		key, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			return nil, fmt.Errorf("generate secp256k1 key: %w", err)
		}
		return &PrivateKey{scheme: Secp256k1, secp: key}, nil
	case Ed25519:
		_, key, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("generate ed25519 key: %w", err)
		}
		return &PrivateKey{scheme: Ed25519, ed: key}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKeyScheme, scheme)
	}
}

// PrivateKeyFromBytes interprets b as a private key. With SchemeAuto the
// bytes are tried as a secp256k1 scalar first and as an Ed25519 seed second.
func PrivateKeyFromBytes(hint Scheme, b []byte) (*PrivateKey, error) {
	switch hint {
	case Secp256k1:
		return secpFromBytes(b)
	case Ed25519:
		return edFromBytes(b)
	case SchemeAuto:
		if key, err := secpFromBytes(b); err == nil {
			return key, nil
		}
		if key, err := edFromBytes(b); err == nil {
			return key, nil
		}
		return nil, fmt.Errorf("%w: %d bytes is not a secp256k1 scalar or ed25519 seed", ErrInvalidKeyMaterial, len(b))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKeyScheme, hint)
	}
}

func secpFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != PrivateKeySize {
		return nil, fmt.Errorf("%w: secp256k1 key must be %d bytes, got %d", ErrInvalidKeyMaterial, PrivateKeySize, len(b))
	}
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(b); overflow || scalar.IsZero() {
		return nil, fmt.Errorf("%w: secp256k1 scalar out of range", ErrInvalidKeyMaterial)
	}
	return &PrivateKey{scheme: Secp256k1, secp: secp256k1.NewPrivateKey(&scalar)}, nil
}

func edFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: ed25519 seed must be %d bytes, got %d", ErrInvalidKeyMaterial, ed25519.SeedSize, len(b))
	}
	return &PrivateKey{scheme: Ed25519, ed: ed25519.NewKeyFromSeed(b)}, nil
}

// Scheme returns the signing scheme of the key.
func (k *PrivateKey) Scheme() Scheme {
	return k.scheme
}

// PublicKey derives the public key.
func (k *PrivateKey) PublicKey() *PublicKey {
	switch k.scheme {
	case Secp256k1:
		return &PublicKey{scheme: Secp256k1, secp: k.secp.PubKey()}
	case Ed25519:
		return &PublicKey{scheme: Ed25519, ed: k.ed.Public().(ed25519.PublicKey)}
	default:
		panic(fmt.Sprintf("crypto: private key with invalid scheme %d", k.scheme))
	}
}

// Sign signs msg. secp256k1 signs Keccak-256(msg) with deterministic RFC6979
// ECDSA and returns r||s; Ed25519 signs msg directly.
func (k *PrivateKey) Sign(msg []byte) ([]byte, error) {
	switch k.scheme {
	case Secp256k1:
		sig := ecdsa.Sign(k.secp, Keccak256(msg))
		r, s := sig.R(), sig.S()
		out := make([]byte, SignatureSize)
		r.PutBytesUnchecked(out[:32])
		s.PutBytesUnchecked(out[32:])
		return out, nil
	case Ed25519:
		return ed25519.Sign(k.ed, msg), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKeyScheme, k.scheme)
	}
}

// Bytes returns the 32-byte secp256k1 scalar or Ed25519 seed.
func (k *PrivateKey) Bytes() []byte {
	switch k.scheme {
	case Secp256k1:
		return k.secp.Serialize()
	case Ed25519:
		seed := k.ed.Seed()
		out := make([]byte, len(seed))
		copy(out, seed)
		return out
	default:
		return nil
	}
}

// Zero securely zeroes the private key memory.
func (k *PrivateKey) Zero() {
	switch k.scheme {
	case Secp256k1:
		k.secp.Zero()
	case Ed25519:
		for i := range k.ed {
			k.ed[i] = 0
		}
	}
}

// PublicKey is a verification key of one of the supported schemes.
type PublicKey struct {
	scheme Scheme
	secp   *secp256k1.PublicKey
	ed     ed25519.PublicKey
}

// ParsePublicKey decodes a public key in its record encoding: 33-byte
// compressed (or 65-byte uncompressed) SEC1 for secp256k1, 32 raw bytes for Ed25519.
func ParsePublicKey(scheme Scheme, b []byte) (*PublicKey, error) {
	switch scheme {
	case Secp256k1:
		pub, err := secp256k1.ParsePubKey(b)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKeyMaterial, err)
		}
		return &PublicKey{scheme: Secp256k1, secp: pub}, nil
	case Ed25519:
		if len(b) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("%w: ed25519 public key must be %d bytes, got %d", ErrInvalidKeyMaterial, ed25519.PublicKeySize, len(b))
		}
		pub := make(ed25519.PublicKey, ed25519.PublicKeySize)
		copy(pub, b)
		return &PublicKey{scheme: Ed25519, ed: pub}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKeyScheme, scheme)
	}
}

// Scheme returns the signing scheme of the key.
func (p *PublicKey) Scheme() Scheme {
	return p.scheme
}

// Bytes returns the record encoding of the key: compressed SEC1 for
// secp256k1, raw 32 bytes for Ed25519.
func (p *PublicKey) Bytes() []byte {
	switch p.scheme {
	case Secp256k1:
		return p.secp.SerializeCompressed()
	case Ed25519:
		out := make([]byte, len(p.ed))
		copy(out, p.ed)
		return out
	default:
		return nil
	}
}

// Uncompressed returns the key bytes hashed into a node id: X||Y (the SEC1
// uncompressed form without its 0x04 tag) for secp256k1, raw 32 bytes for Ed25519.
func (p *PublicKey) Uncompressed() []byte {
	switch p.scheme {
	case Secp256k1:
		return p.secp.SerializeUncompressed()[1:]
	case Ed25519:
		return p.Bytes()
	default:
		return nil
	}
}

// Verify checks sig over msg. It mirrors Sign: secp256k1 verifies against
// Keccak-256(msg) and accepts only low-S signatures. Returns false on any
// malformed input.
func (p *PublicKey) Verify(msg, sig []byte) bool {
	if len(sig) != SignatureSize {
		return false
	}
	switch p.scheme {
	case Secp256k1:
		var r, s secp256k1.ModNScalar
		if overflow := r.SetByteSlice(sig[:32]); overflow || r.IsZero() {
			return false
		}
		if overflow := s.SetByteSlice(sig[32:]); overflow || s.IsZero() || s.IsOverHalfOrder() {
			return false
		}
		return ecdsa.NewSignature(&r, &s).Verify(Keccak256(msg), p.secp)
	case Ed25519:
		return ed25519.Verify(p.ed, msg, sig)
	default:
		return false
	}
}

// Equal reports whether two public keys are the same key.
func (p *PublicKey) Equal(o *PublicKey) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.scheme == o.scheme && bytes.Equal(p.Bytes(), o.Bytes())
}
