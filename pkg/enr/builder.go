package enr

import (
	"fmt"
	"net"
	"sort"
	"sync"

	"github.com/Klingon-tech/enr-cli/pkg/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// Entry is a typed record value that knows its own key.
type Entry interface {
	ENRKey() string
}

// Validator checks the encoded value stored under one record key.
type Validator func(rlp.RawValue) error

var (
	validatorsMu sync.RWMutex
	validators   = make(map[string]Validator)
)

// RegisterValidator installs v as the check Build runs on the value of key.
// Packages defining extension entries call it from init. It panics if v is
// nil, key is reserved, or key already has a validator.
func RegisterValidator(key string, v Validator) {
	validatorsMu.Lock()
	defer validatorsMu.Unlock()
	if v == nil {
		panic("enr: RegisterValidator with nil validator for " + key)
	}
	if reserved[key] {
		panic("enr: RegisterValidator for reserved key " + key)
	}
	if _, dup := validators[key]; dup {
		panic("enr: RegisterValidator called twice for " + key)
	}
	validators[key] = v
}

func validate(key string, v rlp.RawValue) error {
	validatorsMu.RLock()
	check := validators[key]
	validatorsMu.RUnlock()
	if check == nil {
		return nil
	}
	if err := check(v); err != nil {
		return &FieldError{Field: key, Err: err}
	}
	return nil
}

// Builder constructs records incrementally. The first invalid value is
// remembered and returned by Build.
type Builder struct {
	seq   uint64
	pairs map[string]rlp.RawValue
	err   error
}

// NewBuilder creates a new record builder with sequence number zero.
func NewBuilder() *Builder {
	return &Builder{pairs: make(map[string]rlp.RawValue)}
}

// Seq sets the sequence number.
func (b *Builder) Seq(seq uint64) *Builder {
	b.seq = seq
	return b
}

// IP sets "ip" for IPv4 addresses and "ip6" for IPv6 addresses.
func (b *Builder) IP(ip net.IP) *Builder {
	if ip.To4() != nil {
		return b.IP4(ip)
	}
	return b.IP6(ip)
}

// IP4 sets the IPv4 address.
func (b *Builder) IP4(ip net.IP) *Builder {
	v4 := ip.To4()
	if v4 == nil {
		return b.fail(fieldErr(KeyIP4, "%v is not an IPv4 address", ip))
	}
	return b.SetValue(KeyIP4, []byte(v4))
}

// IP6 sets the IPv6 address.
func (b *Builder) IP6(ip net.IP) *Builder {
	if len(ip) != net.IPv6len || ip.To4() != nil {
		return b.fail(fieldErr(KeyIP6, "%v is not an IPv6 address", ip))
	}
	return b.SetValue(KeyIP6, []byte(ip))
}

// TCP4 sets the IPv4 TCP port.
func (b *Builder) TCP4(port uint16) *Builder { return b.SetValue(KeyTCP4, port) }

// TCP6 sets the IPv6 TCP port.
func (b *Builder) TCP6(port uint16) *Builder { return b.SetValue(KeyTCP6, port) }

// UDP4 sets the IPv4 UDP (discovery) port.
func (b *Builder) UDP4(port uint16) *Builder { return b.SetValue(KeyUDP4, port) }

// UDP6 sets the IPv6 UDP (discovery) port.
func (b *Builder) UDP6(port uint16) *Builder { return b.SetValue(KeyUDP6, port) }

// QUIC4 sets the IPv4 QUIC port.
func (b *Builder) QUIC4(port uint16) *Builder { return b.SetValue(KeyQUIC4, port) }

// QUIC6 sets the IPv6 QUIC port.
func (b *Builder) QUIC6(port uint16) *Builder { return b.SetValue(KeyQUIC6, port) }

// Set stores a typed entry under its own key.
func (b *Builder) Set(e Entry) *Builder {
	return b.SetValue(e.ENRKey(), e)
}

// SetValue RLP-encodes v and stores it under key, replacing any earlier value.
func (b *Builder) SetValue(key string, v interface{}) *Builder {
	if reserved[key] {
		return b.fail(fieldErr(key, "key is reserved for the identity scheme"))
	}
	enc, err := rlp.EncodeToBytes(v)
	if err != nil {
		return b.fail(&FieldError{Field: key, Err: err})
	}
	b.pairs[key] = enc
	return b
}

// SetRaw stores an already RLP-encoded value under key. The value must be
// exactly one RLP item.
func (b *Builder) SetRaw(key string, raw []byte) *Builder {
	if reserved[key] {
		return b.fail(fieldErr(key, "key is reserved for the identity scheme"))
	}
	_, _, rest, err := rlp.Split(raw)
	if err != nil {
		return b.fail(&FieldError{Field: key, Err: err})
	}
	if len(rest) != 0 {
		return b.fail(fieldErr(key, "value is not a single RLP item"))
	}
	b.pairs[key] = append(rlp.RawValue(nil), raw...)
	return b
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Build writes the identity entries for key, then encodes and signs the
// record. Nothing is returned unless the whole record is valid.
func (b *Builder) Build(key *crypto.PrivateKey) (*Record, error) {
	if b.err != nil {
		return nil, b.err
	}

	pub := key.PublicKey()
	pubEntry := KeySecp256k1
	if pub.Scheme() == crypto.Ed25519 {
		pubEntry = KeyEd25519
	}

	r := &Record{seq: b.seq, pairs: make([]pair, 0, len(b.pairs)+2)}
	for k, v := range b.pairs {
		r.pairs = append(r.pairs, pair{k: k, v: v})
	}
	idEnc, _ := rlp.EncodeToBytes(IDScheme)
	pubEnc, _ := rlp.EncodeToBytes(pub.Bytes())
	r.pairs = append(r.pairs, pair{k: KeyID, v: idEnc}, pair{k: pubEntry, v: pubEnc})
	sort.Slice(r.pairs, func(i, j int) bool { return r.pairs[i].k < r.pairs[j].k })
	for _, p := range r.pairs {
		if err := validate(p.k, p.v); err != nil {
			return nil, err
		}
	}

	content, err := r.content()
	if err != nil {
		return nil, fmt.Errorf("encode record content: %w", err)
	}
	sig, err := key.Sign(content)
	if err != nil {
		return nil, fmt.Errorf("sign record: %w", err)
	}
	r.signature = sig

	raw, err := r.encode()
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	if len(raw) > MaxRecordSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrRecordTooLarge, len(raw), MaxRecordSize)
	}
	r.raw = raw
	return r, nil
}
