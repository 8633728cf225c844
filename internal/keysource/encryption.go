package keysource

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// SaltSize is the Argon2id salt length of an encrypted key file.
const SaltSize = 32

// Encrypted key file layout:
//
//	salt(32) | memory(4) | iterations(4) | parallelism(1) | nonce(24) | ciphertext
//
// Integers are little-endian.
const (
	paramsSize   = 4 + 4 + 1
	envelopeSize = SaltSize + paramsSize + chacha20poly1305.NonceSizeX
)

// ErrShortEnvelope is returned for data too small to be an encrypted key file.
var ErrShortEnvelope = errors.New("encrypted key file too short")

// EncryptionParams holds Argon2id parameters.
type EncryptionParams struct {
	Memory      uint32 // in KiB
	Iterations  uint32
	Parallelism uint8
}

// DefaultParams returns the Argon2id parameters used for new key files.
func DefaultParams() EncryptionParams {
	return EncryptionParams{
		Memory:      64 * 1024, // 64 MiB
		Iterations:  3,
		Parallelism: 4,
	}
}

func (p EncryptionParams) valid() bool {
	return p.Iterations > 0 && p.Parallelism > 0
}

// envelope is the parsed header of an encrypted key file.
type envelope struct {
	salt   []byte
	params EncryptionParams
	nonce  []byte
	sealed []byte
}

func (e *envelope) marshal() []byte {
	out := make([]byte, 0, envelopeSize+len(e.sealed))
	out = append(out, e.salt...)
	out = binary.LittleEndian.AppendUint32(out, e.params.Memory)
	out = binary.LittleEndian.AppendUint32(out, e.params.Iterations)
	out = append(out, e.params.Parallelism)
	out = append(out, e.nonce...)
	return append(out, e.sealed...)
}

func parseEnvelope(b []byte) (*envelope, error) {
	if len(b) < envelopeSize+chacha20poly1305.Overhead {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortEnvelope, len(b))
	}
	p := b[SaltSize:]
	e := &envelope{
		salt: b[:SaltSize],
		params: EncryptionParams{
			Memory:      binary.LittleEndian.Uint32(p),
			Iterations:  binary.LittleEndian.Uint32(p[4:]),
			Parallelism: p[8],
		},
		nonce:  b[SaltSize+paramsSize : envelopeSize],
		sealed: b[envelopeSize:],
	}
	if !e.params.valid() {
		return nil, fmt.Errorf("invalid key derivation parameters %+v", e.params)
	}
	return e, nil
}

// aead derives the file key from password and returns the cipher.
func (e *envelope) aead(password []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(password, e.salt, e.params.Iterations, e.params.Memory,
		e.params.Parallelism, chacha20poly1305.KeySize)
	defer zero(key)
	return chacha20poly1305.NewX(key)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Encrypt seals a key file body with password using Argon2id and
// XChaCha20-Poly1305. enr-cli itself only reads such files.
func Encrypt(data, password []byte, params EncryptionParams) ([]byte, error) {
	if !params.valid() {
		return nil, fmt.Errorf("invalid key derivation parameters %+v", params)
	}
	e := &envelope{
		salt:   make([]byte, SaltSize),
		params: params,
		nonce:  make([]byte, chacha20poly1305.NonceSizeX),
	}
	if _, err := rand.Read(e.salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	if _, err := rand.Read(e.nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	aead, err := e.aead(password)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	e.sealed = aead.Seal(nil, e.nonce, data, nil)
	return e.marshal(), nil
}

// Decrypt opens data sealed by Encrypt.
func Decrypt(encrypted, password []byte) ([]byte, error) {
	e, err := parseEnvelope(encrypted)
	if err != nil {
		return nil, err
	}
	aead, err := e.aead(password)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	plain, err := aead.Open(nil, e.nonce, e.sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plain, nil
}
