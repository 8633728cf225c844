package enr

import (
	"encoding/base64"
	"fmt"
	"net"
	"strings"

	"github.com/Klingon-tech/enr-cli/pkg/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

type pair struct {
	k string
	v rlp.RawValue
}

// Record is a signed node record. Records are immutable; use Update to
// derive a new version.
type Record struct {
	seq       uint64
	signature []byte
	pairs     []pair // sorted by key
	raw       []byte // canonical encoding
}

// Decode parses and verifies a binary record.
func Decode(b []byte) (*Record, error) {
	if len(b) > MaxRecordSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrRecordTooLarge, len(b), MaxRecordSize)
	}
	elems, rest, err := rlp.SplitList(b)
	if err != nil {
		return nil, malformed("%v", err)
	}
	if len(rest) != 0 {
		return nil, malformed("%d trailing bytes", len(rest))
	}

	sig, elems, err := rlp.SplitString(elems)
	if err != nil {
		return nil, malformed("signature: %v", err)
	}
	seq, elems, err := rlp.SplitUint64(elems)
	if err != nil {
		return nil, malformed("seq: %v", err)
	}

	r := &Record{seq: seq, signature: append([]byte(nil), sig...)}
	for len(elems) > 0 {
		kb, tail, err := rlp.SplitString(elems)
		if err != nil {
			return nil, malformed("key: %v", err)
		}
		if len(tail) == 0 {
			return nil, malformed("missing value for key %q", kb)
		}
		_, _, next, err := rlp.Split(tail)
		if err != nil {
			return nil, malformed("value of %q: %v", kb, err)
		}
		k := string(kb)
		if n := len(r.pairs); n > 0 && k <= r.pairs[n-1].k {
			return nil, malformed("key %q is duplicate or out of order", k)
		}
		v := tail[:len(tail)-len(next)]
		r.pairs = append(r.pairs, pair{k: k, v: append(rlp.RawValue(nil), v...)})
		elems = next
	}
	r.raw = append([]byte(nil), b...)

	if err := r.verify(); err != nil {
		return nil, err
	}
	return r, nil
}

// Parse decodes the textual form of a record. The "enr:" prefix is optional.
func Parse(s string) (*Record, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, TextPrefix)
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	return Decode(b)
}

func (r *Record) verify() error {
	pub, err := r.PublicKey()
	if err != nil {
		return err
	}
	content, err := r.content()
	if err != nil {
		return malformed("%v", err)
	}
	if !pub.Verify(content, r.signature) {
		return ErrSignatureInvalid
	}
	return nil
}

// content is RLP([seq, k1, v1, ...]), the signed part of the record.
func (r *Record) content() ([]byte, error) {
	return rlp.EncodeToBytes(r.list(false))
}

func (r *Record) encode() ([]byte, error) {
	return rlp.EncodeToBytes(r.list(true))
}

func (r *Record) list(withSig bool) []interface{} {
	list := make([]interface{}, 0, 2+2*len(r.pairs))
	if withSig {
		list = append(list, r.signature)
	}
	list = append(list, r.seq)
	for _, p := range r.pairs {
		list = append(list, p.k, p.v)
	}
	return list
}

// IdentityScheme returns the "id" entry, or "" if absent.
func (r *Record) IdentityScheme() string {
	var id string
	if err := r.Load(KeyID, &id); err != nil {
		return ""
	}
	return id
}

// PublicKey returns the identity public key declared by the record.
func (r *Record) PublicKey() (*crypto.PublicKey, error) {
	id := r.IdentityScheme()
	if id != IDScheme {
		return nil, fmt.Errorf("%w: identity scheme %q", crypto.ErrUnsupportedKeyScheme, id)
	}

	var (
		scheme crypto.Scheme
		key    []byte
	)
	switch {
	case r.Has(KeySecp256k1):
		scheme = crypto.Secp256k1
		if err := r.Load(KeySecp256k1, &key); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
		}
	case r.Has(KeyEd25519):
		scheme = crypto.Ed25519
		if err := r.Load(KeyEd25519, &key); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
		}
	default:
		return nil, fmt.Errorf("%w: record has no public key entry", crypto.ErrUnsupportedKeyScheme)
	}

	pub, err := crypto.ParsePublicKey(scheme, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}
	return pub, nil
}

// Seq returns the sequence number.
func (r *Record) Seq() uint64 {
	return r.seq
}

// Signature returns a copy of the signature.
func (r *Record) Signature() []byte {
	return append([]byte(nil), r.signature...)
}

// Bytes returns a copy of the canonical binary encoding.
func (r *Record) Bytes() []byte {
	return append([]byte(nil), r.raw...)
}

// Size returns the length of the binary encoding.
func (r *Record) Size() int {
	return len(r.raw)
}

// String returns the textual form "enr:<base64url>".
func (r *Record) String() string {
	return TextPrefix + base64.RawURLEncoding.EncodeToString(r.raw)
}

// MarshalText implements encoding.TextMarshaler.
func (r *Record) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Record) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*r = *parsed
	return nil
}

// Keys returns the record's keys in ascending order.
func (r *Record) Keys() []string {
	keys := make([]string, len(r.pairs))
	for i, p := range r.pairs {
		keys[i] = p.k
	}
	return keys
}

// Has reports whether the record contains key.
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Get returns a copy of the raw RLP value stored under key.
func (r *Record) Get(key string) ([]byte, bool) {
	for _, p := range r.pairs {
		if p.k == key {
			return append([]byte(nil), p.v...), true
		}
		if p.k > key {
			break
		}
	}
	return nil, false
}

// Load decodes the value stored under key into val.
func (r *Record) Load(key string, val interface{}) error {
	raw, ok := r.Get(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrEntryNotFound, key)
	}
	if err := rlp.DecodeBytes(raw, val); err != nil {
		return fmt.Errorf("decode %q: %w", key, err)
	}
	return nil
}

// IP4 returns the IPv4 address, if present and well-formed.
func (r *Record) IP4() (net.IP, bool) {
	var ip []byte
	if err := r.Load(KeyIP4, &ip); err != nil || len(ip) != net.IPv4len {
		return nil, false
	}
	return net.IP(ip), true
}

// IP6 returns the IPv6 address, if present and well-formed.
func (r *Record) IP6() (net.IP, bool) {
	var ip []byte
	if err := r.Load(KeyIP6, &ip); err != nil || len(ip) != net.IPv6len {
		return nil, false
	}
	return net.IP(ip), true
}

func (r *Record) port(key string) (uint16, bool) {
	var p uint16
	if err := r.Load(key, &p); err != nil {
		return 0, false
	}
	return p, true
}

// TCP4 returns the IPv4 TCP port.
func (r *Record) TCP4() (uint16, bool) { return r.port(KeyTCP4) }

// TCP6 returns the IPv6 TCP port.
func (r *Record) TCP6() (uint16, bool) { return r.port(KeyTCP6) }

// UDP4 returns the IPv4 UDP port.
func (r *Record) UDP4() (uint16, bool) { return r.port(KeyUDP4) }

// UDP6 returns the IPv6 UDP port.
func (r *Record) UDP6() (uint16, bool) { return r.port(KeyUDP6) }

// QUIC4 returns the IPv4 QUIC port.
func (r *Record) QUIC4() (uint16, bool) { return r.port(KeyQUIC4) }

// QUIC6 returns the IPv6 QUIC port.
func (r *Record) QUIC6() (uint16, bool) { return r.port(KeyQUIC6) }

// Update returns a builder holding the record's non-identity entries with
// the sequence number incremented. Any change to a record must be signed
// under a higher sequence number.
func (r *Record) Update() *Builder {
	b := NewBuilder().Seq(r.seq + 1)
	for _, p := range r.pairs {
		if reserved[p.k] {
			continue
		}
		b.pairs[p.k] = append(rlp.RawValue(nil), p.v...)
	}
	return b
}
