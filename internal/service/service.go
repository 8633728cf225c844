// Package service runs the build and read paths of enr-cli: it turns raw
// user input into a signed record, or a record string into a verified one.
package service

import (
	"encoding/hex"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/Klingon-tech/enr-cli/internal/log"
	"github.com/Klingon-tech/enr-cli/pkg/crypto"
	"github.com/Klingon-tech/enr-cli/pkg/enr"
	"github.com/Klingon-tech/enr-cli/pkg/eth2"
	"github.com/Klingon-tech/enr-cli/pkg/identity"
)

// Bitfield sizes of the consensus-layer subnet entries.
const (
	AttnetsSize  = 8 // Bitvector[64]
	SyncnetsSize = 1 // Bitvector[4]
)

// Fields are the unvalidated record values given on the command line.
// Empty strings mean "not set".
type Fields struct {
	IPs      []string // at most one IPv4 and one IPv6 address
	Seq      string
	TCP4     string
	TCP6     string
	UDP4     string
	UDP6     string
	QUIC4    string
	QUIC6    string
	Eth2     string // hex-encoded fork id
	Attnets  string // hex
	Syncnets string // hex
}

// Build validates f and signs a record with key.
func Build(f Fields, key *crypto.PrivateKey) (*enr.Record, error) {
	done := log.Benchmark("build record")
	defer done()

	b := enr.NewBuilder()

	if s := strings.TrimSpace(f.Seq); s != "" {
		seq, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, &enr.FieldError{Field: "seq", Err: err}
		}
		b.Seq(seq)
	}

	if err := setIPs(b, f.IPs); err != nil {
		return nil, err
	}

	ports := []struct {
		key   string
		value string
		set   func(uint16) *enr.Builder
	}{
		{enr.KeyTCP4, f.TCP4, b.TCP4},
		{enr.KeyTCP6, f.TCP6, b.TCP6},
		{enr.KeyUDP4, f.UDP4, b.UDP4},
		{enr.KeyUDP6, f.UDP6, b.UDP6},
		{enr.KeyQUIC4, f.QUIC4, b.QUIC4},
		{enr.KeyQUIC6, f.QUIC6, b.QUIC6},
	}
	for _, p := range ports {
		s := strings.TrimSpace(p.value)
		if s == "" {
			continue
		}
		port, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return nil, &enr.FieldError{Field: p.key, Err: err}
		}
		p.set(uint16(port))
	}

	if f.Eth2 != "" {
		fork, err := eth2.DecodeHex(strings.TrimSpace(f.Eth2))
		if err != nil {
			return nil, &enr.FieldError{Field: eth2.KeyEth2, Err: err}
		}
		b.Set(fork)
	}

	bitfields := []struct {
		key   string
		value string
		size  int
	}{
		{eth2.KeyAttnets, f.Attnets, AttnetsSize},
		{eth2.KeySyncnets, f.Syncnets, SyncnetsSize},
	}
	for _, bf := range bitfields {
		if bf.value == "" {
			continue
		}
		raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(bf.value), "0x"))
		if err != nil {
			return nil, &enr.FieldError{Field: bf.key, Err: err}
		}
		if len(raw) != bf.size {
			return nil, &enr.FieldError{Field: bf.key, Err: fmt.Errorf("got %d bytes, want %d", len(raw), bf.size)}
		}
		b.SetValue(bf.key, raw)
	}

	r, err := b.Build(key)
	if err != nil {
		return nil, err
	}
	log.Record.Info().
		Uint64("seq", r.Seq()).
		Int("size", r.Size()).
		Str("scheme", key.Scheme().String()).
		Msg("Built record")
	return r, nil
}

func setIPs(b *enr.Builder, ips []string) error {
	var have4, have6 bool
	for _, s := range ips {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		ip := net.ParseIP(s)
		if ip == nil {
			return &enr.FieldError{Field: enr.KeyIP4, Err: fmt.Errorf("%q is not an IP address", s)}
		}
		if ip.To4() != nil {
			if have4 {
				return &enr.FieldError{Field: enr.KeyIP4, Err: fmt.Errorf("more than one IPv4 address")}
			}
			have4 = true
			b.IP4(ip)
		} else {
			if have6 {
				return &enr.FieldError{Field: enr.KeyIP6, Err: fmt.Errorf("more than one IPv6 address")}
			}
			have6 = true
			b.IP6(ip)
		}
	}
	return nil
}

// Read parses and verifies a record string.
func Read(text string) (*enr.Record, error) {
	r, err := enr.Parse(text)
	if err != nil {
		return nil, err
	}
	log.Record.Debug().
		Uint64("seq", r.Seq()).
		Strs("keys", r.Keys()).
		Msg("Decoded record")
	return r, nil
}

// PeerToNode returns the NodeID embedded in a textual PeerID.
func PeerToNode(s string) (identity.NodeID, error) {
	id, err := identity.ParsePeerID(s)
	if err != nil {
		return identity.NodeID{}, err
	}
	nid, err := identity.PeerIDToNodeID(id)
	if err != nil {
		return identity.NodeID{}, err
	}
	log.Identity.Debug().Str("peer", id.String()).Str("node", nid.String()).Msg("Converted peer id")
	return nid, nil
}
