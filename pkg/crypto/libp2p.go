package crypto

import (
	"fmt"

	libp2pcrypto "github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/crypto/pb"
)

// Libp2p converts the public key into its libp2p form.
func (p *PublicKey) Libp2p() (libp2pcrypto.PubKey, error) {
	switch p.scheme {
	case Secp256k1:
		return libp2pcrypto.UnmarshalSecp256k1PublicKey(p.Bytes())
	case Ed25519:
		return libp2pcrypto.UnmarshalEd25519PublicKey(p.Bytes())
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKeyScheme, p.scheme)
	}
}

// PublicKeyFromLibp2p converts a libp2p public key. Only secp256k1 and
// Ed25519 keys are accepted.
func PublicKeyFromLibp2p(pk libp2pcrypto.PubKey) (*PublicKey, error) {
	raw, err := pk.Raw()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyMaterial, err)
	}
	switch pk.Type() {
	case pb.KeyType_Secp256k1:
		return ParsePublicKey(Secp256k1, raw)
	case pb.KeyType_Ed25519:
		return ParsePublicKey(Ed25519, raw)
	default:
		return nil, fmt.Errorf("%w: libp2p %s key", ErrUnsupportedKeyScheme, pk.Type())
	}
}

// Libp2p converts the private key into its libp2p form.
func (k *PrivateKey) Libp2p() (libp2pcrypto.PrivKey, error) {
	switch k.scheme {
	case Secp256k1:
		return libp2pcrypto.UnmarshalSecp256k1PrivateKey(k.Bytes())
	case Ed25519:
		return libp2pcrypto.UnmarshalEd25519PrivateKey(k.ed)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKeyScheme, k.scheme)
	}
}

// PrivateKeyFromLibp2p converts a libp2p private key. Only secp256k1 and
// Ed25519 keys are accepted.
func PrivateKeyFromLibp2p(sk libp2pcrypto.PrivKey) (*PrivateKey, error) {
	raw, err := sk.Raw()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyMaterial, err)
	}
	switch sk.Type() {
	case pb.KeyType_Secp256k1:
		return PrivateKeyFromBytes(Secp256k1, raw)
	case pb.KeyType_Ed25519:
		// libp2p stores the 32-byte seed followed by the public key.
		if len(raw) < PrivateKeySize {
			return nil, fmt.Errorf("%w: short ed25519 key", ErrInvalidKeyMaterial)
		}
		return PrivateKeyFromBytes(Ed25519, raw[:PrivateKeySize])
	default:
		return nil, fmt.Errorf("%w: libp2p %s key", ErrUnsupportedKeyScheme, sk.Type())
	}
}
