// Package eth2 implements the consensus-layer fields carried in node records:
// the "eth2" fork identifier and the attnets/syncnets subnet bitfields.
package eth2

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
)

// Record keys.
const (
	KeyEth2     = "eth2"
	KeyAttnets  = "attnets"
	KeySyncnets = "syncnets"
)

// ForkIDSize is the encoded size of a ForkID.
const ForkIDSize = 16

// Errors.
var (
	ErrTruncatedExtension = errors.New("truncated eth2 field")
	ErrMalformedExtension = errors.New("malformed eth2 field")
	ErrNoEth2Field        = errors.New("record has no eth2 field")
)

// ForkID identifies the fork a node is on and the next scheduled fork.
type ForkID struct {
	ForkDigest      [4]byte
	NextForkVersion [4]byte
	NextForkEpoch   uint64
}

// ENRKey implements enr.Entry.
func (f ForkID) ENRKey() string { return KeyEth2 }

// MarshalBinary encodes f as digest || version || epoch (big-endian).
func (f ForkID) MarshalBinary() ([]byte, error) {
	return f.Bytes(), nil
}

// Bytes returns the 16-byte encoding of f.
func (f ForkID) Bytes() []byte {
	b := make([]byte, ForkIDSize)
	copy(b[0:4], f.ForkDigest[:])
	copy(b[4:8], f.NextForkVersion[:])
	binary.BigEndian.PutUint64(b[8:16], f.NextForkEpoch)
	return b
}

// UnmarshalBinary decodes exactly ForkIDSize bytes into f.
func (f *ForkID) UnmarshalBinary(b []byte) error {
	switch {
	case len(b) < ForkIDSize:
		return fmt.Errorf("%w: %d of %d bytes", ErrTruncatedExtension, len(b), ForkIDSize)
	case len(b) > ForkIDSize:
		return fmt.Errorf("%w: %d bytes, want %d", ErrMalformedExtension, len(b), ForkIDSize)
	}
	copy(f.ForkDigest[:], b[0:4])
	copy(f.NextForkVersion[:], b[4:8])
	f.NextForkEpoch = binary.BigEndian.Uint64(b[8:16])
	return nil
}

// Decode parses a 16-byte fork identifier.
func Decode(b []byte) (ForkID, error) {
	var f ForkID
	err := f.UnmarshalBinary(b)
	return f, err
}

// DecodeHex parses a hex-encoded fork identifier, with or without 0x prefix.
func DecodeHex(s string) (ForkID, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return ForkID{}, fmt.Errorf("%w: %v", ErrMalformedExtension, err)
	}
	return Decode(b)
}

// Hex returns the hex encoding of f.
func (f ForkID) Hex() string {
	return hex.EncodeToString(f.Bytes())
}

// EncodeRLP stores the fork identifier as a single byte string.
func (f ForkID) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, f.Bytes())
}

// DecodeRLP implements rlp.Decoder.
func (f *ForkID) DecodeRLP(s *rlp.Stream) error {
	b, err := s.Bytes()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedExtension, err)
	}
	return f.UnmarshalBinary(b)
}
