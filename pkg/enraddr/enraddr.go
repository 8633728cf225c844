// Package enraddr derives dialable addresses from a node record: libp2p
// multiaddrs and the legacy enode URL.
package enraddr

import (
	"fmt"
	"net"
	"strconv"

	"github.com/Klingon-tech/enr-cli/pkg/enr"
	"github.com/Klingon-tech/enr-cli/pkg/identity"
	"github.com/libp2p/go-libp2p/core/peer"
	ma "github.com/multiformats/go-multiaddr"
)

// Transport selects which record ports produce addresses.
type Transport uint8

// Transports, in output order.
const (
	TCP Transport = iota
	UDP
	QUIC
)

var allTransports = []Transport{TCP, UDP, QUIC}

// String returns the transport name.
func (t Transport) String() string {
	switch t {
	case TCP:
		return "tcp"
	case UDP:
		return "udp"
	case QUIC:
		return "quic"
	default:
		return fmt.Sprintf("transport(%d)", uint8(t))
	}
}

// family is one IP version's view of the record.
type family struct {
	proto string // "ip4" or "ip6"
	ip    net.IP
	ports map[Transport]func() (uint16, bool)
}

func families(r *enr.Record) []family {
	var fs []family
	if ip, ok := r.IP4(); ok {
		fs = append(fs, family{
			proto: "ip4",
			ip:    ip,
			ports: map[Transport]func() (uint16, bool){TCP: r.TCP4, UDP: r.UDP4, QUIC: r.QUIC4},
		})
	}
	if ip, ok := r.IP6(); ok {
		fs = append(fs, family{
			proto: "ip6",
			ip:    ip,
			ports: map[Transport]func() (uint16, bool){TCP: r.TCP6, UDP: r.UDP6, QUIC: r.QUIC6},
		})
	}
	return fs
}

// Multiaddrs returns one address per (IP version, transport) pair for which
// the record carries both the IP and the port. IPv4 addresses come first,
// then IPv6; within each, TCP, UDP, QUIC. With no transports given, all
// three are considered.
func Multiaddrs(r *enr.Record, transports ...Transport) ([]ma.Multiaddr, error) {
	if len(transports) == 0 {
		transports = allTransports
	}
	want := make(map[Transport]bool, len(transports))
	for _, t := range transports {
		want[t] = true
	}

	var addrs []ma.Multiaddr
	for _, f := range families(r) {
		for _, t := range allTransports {
			if !want[t] {
				continue
			}
			port, ok := f.ports[t]()
			if !ok {
				continue
			}
			addr, err := ma.NewMultiaddr(format(f.proto, f.ip, t, port))
			if err != nil {
				return nil, fmt.Errorf("build %s multiaddr: %w", t, err)
			}
			addrs = append(addrs, addr)
		}
	}
	return addrs, nil
}

// P2PMultiaddrs is Multiaddrs with the record's PeerID appended to each
// address as /p2p/<peer-id>.
func P2PMultiaddrs(r *enr.Record, transports ...Transport) ([]ma.Multiaddr, error) {
	addrs, err := Multiaddrs(r, transports...)
	if err != nil || len(addrs) == 0 {
		return addrs, err
	}
	id, err := identity.RecordPeerID(r)
	if err != nil {
		return nil, err
	}
	return WithPeerID(addrs, id)
}

// WithPeerID appends /p2p/<id> to each address.
func WithPeerID(addrs []ma.Multiaddr, id peer.ID) ([]ma.Multiaddr, error) {
	suffix, err := ma.NewMultiaddr("/p2p/" + id.String())
	if err != nil {
		return nil, fmt.Errorf("build p2p component: %w", err)
	}
	out := make([]ma.Multiaddr, len(addrs))
	for i, a := range addrs {
		out[i] = a.Encapsulate(suffix)
	}
	return out, nil
}

func format(proto string, ip net.IP, t Transport, port uint16) string {
	p := strconv.Itoa(int(port))
	switch t {
	case TCP:
		return "/" + proto + "/" + ip.String() + "/tcp/" + p
	case UDP:
		return "/" + proto + "/" + ip.String() + "/udp/" + p
	default:
		return "/" + proto + "/" + ip.String() + "/udp/" + p + "/quic-v1"
	}
}

// Enode renders the record as enode://<node-id>[@host[:tcp][?discport=udp]].
// IPv4 is preferred when both address families are present; the ports are
// taken from the same family as the address. Equal TCP and UDP ports
// collapse to a single port.
func Enode(r *enr.Record) (string, error) {
	id, err := identity.RecordNodeID(r)
	if err != nil {
		return "", err
	}
	url := "enode://" + id.String()

	var (
		host           string
		tcp, udp       uint16
		hasTCP, hasUDP bool
	)
	if ip, ok := r.IP4(); ok {
		host = ip.String()
		tcp, hasTCP = r.TCP4()
		udp, hasUDP = r.UDP4()
	} else if ip, ok := r.IP6(); ok {
		host = "[" + ip.String() + "]"
		tcp, hasTCP = r.TCP6()
		udp, hasUDP = r.UDP6()
	} else {
		return url, nil
	}

	url += "@" + host
	switch {
	case hasTCP && hasUDP && tcp != udp:
		url += fmt.Sprintf(":%d?discport=%d", tcp, udp)
	case hasTCP:
		url += fmt.Sprintf(":%d", tcp)
	case hasUDP:
		url += fmt.Sprintf("?discport=%d", udp)
	}
	return url, nil
}
