// Package keysource resolves the signing key of a record from the places a
// user can supply one: a hex string, a key file, or a BIP-39 mnemonic. With
// none of these, a fresh key is generated.
package keysource

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Klingon-tech/enr-cli/internal/log"
	"github.com/Klingon-tech/enr-cli/pkg/crypto"
	libp2pcrypto "github.com/libp2p/go-libp2p/core/crypto"
)

// Origin tells where a key came from.
type Origin string

// Key origins.
const (
	OriginHex       Origin = "hex"
	OriginFile      Origin = "file"
	OriginMnemonic  Origin = "mnemonic"
	OriginGenerated Origin = "generated"
)

// ErrConflictingSources is returned when more than one key source is set.
var ErrConflictingSources = errors.New("only one of private key, key file or mnemonic may be given")

// ErrPasswordWithoutFile is returned when a password is set but no key file is read.
var ErrPasswordWithoutFile = errors.New("password given without a key file")

// Source describes where to obtain the signing key.
type Source struct {
	Hex        string        // hex private key, optional 0x prefix
	File       string        // path to a key file
	Password   string        // decrypts File when set
	Mnemonic   string        // BIP-39 phrase
	Passphrase string        // BIP-39 passphrase
	Account    uint32        // m/44'/60'/<account>'/0/<index>
	Index      uint32        // see Account
	Scheme     crypto.Scheme // interpretation of Hex/File bytes; scheme of generated keys
}

// Load resolves the key.
func (s Source) Load() (*crypto.PrivateKey, Origin, error) {
	set := 0
	for _, v := range []string{s.Hex, s.File, s.Mnemonic} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return nil, "", ErrConflictingSources
	}
	if s.Password != "" && s.File == "" {
		return nil, "", ErrPasswordWithoutFile
	}

	switch {
	case s.Hex != "":
		key, err := FromHex(s.Scheme, s.Hex)
		return key, OriginHex, err
	case s.File != "":
		key, err := s.fromFile()
		return key, OriginFile, err
	case s.Mnemonic != "":
		key, err := FromMnemonic(s.Mnemonic, s.Passphrase, s.Account, s.Index)
		return key, OriginMnemonic, err
	default:
		key, err := crypto.GenerateKey(s.Scheme)
		if err == nil {
			log.Keys.Debug().Str("scheme", key.Scheme().String()).Msg("Generated new key")
		}
		return key, OriginGenerated, err
	}
}

// FromHex parses a hex-encoded private key.
func FromHex(scheme crypto.Scheme, s string) (*crypto.PrivateKey, error) {
	b, err := decodeHex(s)
	if err != nil {
		return nil, fmt.Errorf("%w: private key is not hex: %v", crypto.ErrInvalidKeyMaterial, err)
	}
	return crypto.PrivateKeyFromBytes(scheme, b)
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return hex.DecodeString(s)
}

func (s Source) fromFile() (*crypto.PrivateKey, error) {
	data, err := os.ReadFile(s.File)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	if s.Password != "" {
		plain, err := Decrypt(data, []byte(s.Password))
		if err != nil {
			return nil, fmt.Errorf("%w: key file: %v", crypto.ErrInvalidKeyMaterial, err)
		}
		data = plain
	}
	log.Keys.Debug().Str("path", s.File).Int("size", len(data)).Msg("Loaded key file")
	return FromFileBytes(s.Scheme, data)
}

// FromFileBytes interprets the contents of a key file. Accepted layouts, in
// order: hex text, 32 raw key bytes, or a libp2p protobuf-marshaled
// private key.
func FromFileBytes(scheme crypto.Scheme, data []byte) (*crypto.PrivateKey, error) {
	if text := bytes.TrimSpace(data); len(text) > 0 {
		if b, err := decodeHex(string(text)); err == nil {
			return crypto.PrivateKeyFromBytes(scheme, b)
		}
	}
	if len(data) == crypto.PrivateKeySize {
		return crypto.PrivateKeyFromBytes(scheme, data)
	}
	if sk, err := libp2pcrypto.UnmarshalPrivateKey(data); err == nil {
		return crypto.PrivateKeyFromLibp2p(sk)
	}
	return nil, fmt.Errorf("%w: unrecognized key file layout (%d bytes)", crypto.ErrInvalidKeyMaterial, len(data))
}

// FromMnemonic derives the secp256k1 node key at m/44'/60'/account'/0/index.
func FromMnemonic(mnemonic, passphrase string, account, index uint32) (*crypto.PrivateKey, error) {
	seed, err := SeedFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", crypto.ErrInvalidKeyMaterial, err)
	}
	master, err := NewMasterKey(seed)
	if err != nil {
		return nil, err
	}
	child, err := master.DeriveNodeKey(account, index)
	if err != nil {
		return nil, err
	}
	return child.PrivateKey()
}
