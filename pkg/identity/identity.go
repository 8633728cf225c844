// Package identity derives the two network identities of a node key.
//
// A NodeID is Keccak-256 over the raw public key (64-byte X||Y for
// secp256k1, 32 bytes for Ed25519) and is what discovery uses. A libp2p
// PeerID is an identity multihash over the protobuf-encoded public key. The
// two are different byte strings in different domains and are never
// interchangeable.
package identity

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/Klingon-tech/enr-cli/pkg/crypto"
	"github.com/Klingon-tech/enr-cli/pkg/enr"
	"github.com/ipfs/go-cid"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/multiformats/go-multihash"
)

// NodeIDSize is the length of a NodeID in bytes.
const NodeIDSize = crypto.HashSize

// ErrUnsupportedPeerIDEncoding is returned when a PeerID does not embed a
// supported public key.
var ErrUnsupportedPeerIDEncoding = errors.New("unsupported peer id encoding")

// NodeID is the 32-byte discovery identity of a node.
type NodeID [NodeIDSize]byte

// String returns the lowercase hex encoding.
func (n NodeID) String() string {
	return hex.EncodeToString(n[:])
}

// Bytes returns the ID as a byte slice.
func (n NodeID) Bytes() []byte {
	return n[:]
}

// IsZero reports whether n is the zero ID.
func (n NodeID) IsZero() bool {
	return n == NodeID{}
}

// HexToNodeID parses a hex NodeID, with or without 0x prefix.
func HexToNodeID(s string) (NodeID, error) {
	var n NodeID
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return n, fmt.Errorf("invalid node id: %w", err)
	}
	if len(b) != NodeIDSize {
		return n, fmt.Errorf("invalid node id length: %d, want %d", len(b), NodeIDSize)
	}
	copy(n[:], b)
	return n, nil
}

// NodeIDFromPublicKey hashes the raw public key.
func NodeIDFromPublicKey(pub *crypto.PublicKey) NodeID {
	return NodeID(crypto.Keccak256Array(pub.Uncompressed()))
}

// PeerIDFromPublicKey derives the libp2p PeerID of pub.
func PeerIDFromPublicKey(pub *crypto.PublicKey) (peer.ID, error) {
	lp, err := pub.Libp2p()
	if err != nil {
		return "", err
	}
	id, err := peer.IDFromPublicKey(lp)
	if err != nil {
		return "", fmt.Errorf("derive peer id: %w", err)
	}
	return id, nil
}

// ParsePeerID decodes a PeerID in base58 or CID form.
func ParsePeerID(s string) (peer.ID, error) {
	id, err := peer.Decode(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedPeerIDEncoding, err)
	}
	return id, nil
}

// PeerIDToNodeID recovers the public key embedded in id and returns its
// NodeID. Only identity-multihash PeerIDs of secp256k1 or Ed25519 keys
// carry enough information to do this.
func PeerIDToNodeID(id peer.ID) (NodeID, error) {
	dmh, err := multihash.Decode([]byte(id))
	if err != nil {
		return NodeID{}, fmt.Errorf("%w: %v", ErrUnsupportedPeerIDEncoding, err)
	}
	if dmh.Code != multihash.IDENTITY {
		return NodeID{}, fmt.Errorf("%w: peer id is a %s digest, not an embedded key",
			ErrUnsupportedPeerIDEncoding, multihash.Codes[dmh.Code])
	}
	lp, err := id.ExtractPublicKey()
	if err != nil {
		return NodeID{}, fmt.Errorf("%w: %v", ErrUnsupportedPeerIDEncoding, err)
	}
	pub, err := crypto.PublicKeyFromLibp2p(lp)
	if err != nil {
		return NodeID{}, fmt.Errorf("%w: %w", ErrUnsupportedPeerIDEncoding, err)
	}
	return NodeIDFromPublicKey(pub), nil
}

// PeerIDCID returns the CIDv1 (libp2p-key codec) form of id.
func PeerIDCID(id peer.ID) cid.Cid {
	return cid.NewCidV1(cid.Libp2pKey, multihash.Multihash(id))
}

// RecordNodeID returns the NodeID of the record's identity key.
func RecordNodeID(r *enr.Record) (NodeID, error) {
	pub, err := r.PublicKey()
	if err != nil {
		return NodeID{}, err
	}
	return NodeIDFromPublicKey(pub), nil
}

// RecordPeerID returns the PeerID of the record's identity key.
func RecordPeerID(r *enr.Record) (peer.ID, error) {
	pub, err := r.PublicKey()
	if err != nil {
		return "", err
	}
	return PeerIDFromPublicKey(pub)
}
