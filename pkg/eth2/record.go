package eth2

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/enr-cli/pkg/enr"
	"github.com/ethereum/go-ethereum/rlp"
)

// Records built with an eth2 entry must carry a decodable fork id.
func init() {
	enr.RegisterValidator(KeyEth2, func(raw rlp.RawValue) error {
		var f ForkID
		return rlp.DecodeBytes(raw, &f)
	})
}

// FromRecord returns the fork identifier stored under "eth2".
func FromRecord(r *enr.Record) (ForkID, error) {
	var f ForkID
	if err := r.Load(KeyEth2, &f); err != nil {
		if errors.Is(err, enr.ErrEntryNotFound) {
			return ForkID{}, ErrNoEth2Field
		}
		return ForkID{}, err
	}
	return f, nil
}

// Attnets returns the attestation subnet bitfield, if present.
func Attnets(r *enr.Record) ([]byte, error) {
	return bitfield(r, KeyAttnets)
}

// Syncnets returns the sync committee subnet bitfield, if present.
func Syncnets(r *enr.Record) ([]byte, error) {
	return bitfield(r, KeySyncnets)
}

func bitfield(r *enr.Record, key string) ([]byte, error) {
	var b []byte
	if err := r.Load(key, &b); err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
