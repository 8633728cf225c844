// Package enr implements Ethereum Node Records (EIP-778): a signed, versioned
// key/value record carrying a node's identity key and reachable addresses.
//
// A record is encoded as the RLP list [signature, seq, k1, v1, k2, v2, ...]
// with keys sorted and unique. The signature covers RLP([seq, k1, v1, ...]).
package enr

// IDScheme is the only identity scheme name written into built records.
// Both secp256k1 and Ed25519 keys are declared under it; the public key
// entry name tells them apart.
const IDScheme = "v4"

// MaxRecordSize is the maximum encoded size of a record in bytes.
const MaxRecordSize = 300

// Well-known record keys.
const (
	KeyID        = "id"
	KeySecp256k1 = "secp256k1"
	KeyEd25519   = "ed25519"
	KeyIP4       = "ip"
	KeyIP6       = "ip6"
	KeyTCP4      = "tcp"
	KeyTCP6      = "tcp6"
	KeyUDP4      = "udp"
	KeyUDP6      = "udp6"
	KeyQUIC4     = "quic"
	KeyQUIC6     = "quic6"
)

// TextPrefix is the scheme label of the textual record form.
const TextPrefix = "enr:"

// reserved keys are written by Build from the signing key.
var reserved = map[string]bool{
	KeyID:        true,
	KeySecp256k1: true,
	KeyEd25519:   true,
}
