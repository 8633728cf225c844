// Package report renders what a node record says about a node: its
// identities, addresses and consensus-layer fields.
package report

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/Klingon-tech/enr-cli/pkg/enr"
	"github.com/Klingon-tech/enr-cli/pkg/enraddr"
	"github.com/Klingon-tech/enr-cli/pkg/eth2"
	"github.com/Klingon-tech/enr-cli/pkg/identity"
	"github.com/olekukonko/tablewriter"
)

// Options controls report contents.
type Options struct {
	P2P bool // append /p2p/<peer-id> to multiaddrs
}

// Eth2 is the decoded "eth2" entry.
type Eth2 struct {
	ForkDigest      string `json:"fork_digest"`
	NextForkVersion string `json:"next_fork_version"`
	NextForkEpoch   uint64 `json:"next_fork_epoch"`
	Raw             string `json:"raw"`
}

// Report is the printable view of a record.
type Report struct {
	ENR        string   `json:"enr"`
	Seq        uint64   `json:"seq"`
	Size       int      `json:"size"`
	ID         string   `json:"id"`
	KeyScheme  string   `json:"key_scheme"`
	PublicKey  string   `json:"public_key"`
	NodeID     string   `json:"node_id"`
	PeerID     string   `json:"peer_id"`
	PeerCID    string   `json:"peer_cid"`
	Enode      string   `json:"enode"`
	IP4        string   `json:"ip4,omitempty"`
	IP6        string   `json:"ip6,omitempty"`
	TCP4       *uint16  `json:"tcp4,omitempty"`
	TCP6       *uint16  `json:"tcp6,omitempty"`
	UDP4       *uint16  `json:"udp4,omitempty"`
	UDP6       *uint16  `json:"udp6,omitempty"`
	QUIC4      *uint16  `json:"quic4,omitempty"`
	QUIC6      *uint16  `json:"quic6,omitempty"`
	Eth2       *Eth2    `json:"eth2,omitempty"`
	Eth2Error  string   `json:"eth2_error,omitempty"`
	Attnets    string   `json:"attnets,omitempty"`
	Syncnets   string   `json:"syncnets,omitempty"`
	Keys       []string `json:"keys"`
	Multiaddrs []string `json:"multiaddrs"`
}

// New builds the report of a verified record.
func New(r *enr.Record, opts Options) (*Report, error) {
	pub, err := r.PublicKey()
	if err != nil {
		return nil, err
	}
	pid, err := identity.PeerIDFromPublicKey(pub)
	if err != nil {
		return nil, err
	}
	enode, err := enraddr.Enode(r)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		ENR:        r.String(),
		Seq:        r.Seq(),
		Size:       r.Size(),
		ID:         r.IdentityScheme(),
		KeyScheme:  pub.Scheme().String(),
		PublicKey:  hex.EncodeToString(pub.Bytes()),
		NodeID:     identity.NodeIDFromPublicKey(pub).String(),
		PeerID:     pid.String(),
		PeerCID:    identity.PeerIDCID(pid).String(),
		Enode:      enode,
		Keys:       r.Keys(),
		Multiaddrs: []string{},
	}
	if ip, ok := r.IP4(); ok {
		rep.IP4 = ip.String()
	}
	if ip, ok := r.IP6(); ok {
		rep.IP6 = ip.String()
	}
	rep.TCP4 = port(r.TCP4)
	rep.TCP6 = port(r.TCP6)
	rep.UDP4 = port(r.UDP4)
	rep.UDP6 = port(r.UDP6)
	rep.QUIC4 = port(r.QUIC4)
	rep.QUIC6 = port(r.QUIC6)

	switch fork, err := eth2.FromRecord(r); {
	case err == nil:
		rep.Eth2 = &Eth2{
			ForkDigest:      hex.EncodeToString(fork.ForkDigest[:]),
			NextForkVersion: hex.EncodeToString(fork.NextForkVersion[:]),
			NextForkEpoch:   fork.NextForkEpoch,
			Raw:             fork.Hex(),
		}
	case !errors.Is(err, eth2.ErrNoEth2Field):
		// Extension values are opaque to the signature; a bad one does not
		// invalidate the record.
		rep.Eth2Error = err.Error()
	}
	if b, err := eth2.Attnets(r); err == nil {
		rep.Attnets = hex.EncodeToString(b)
	}
	if b, err := eth2.Syncnets(r); err == nil {
		rep.Syncnets = hex.EncodeToString(b)
	}

	addrs, err := enraddr.Multiaddrs(r)
	if err != nil {
		return nil, err
	}
	if opts.P2P && len(addrs) > 0 {
		if addrs, err = enraddr.WithPeerID(addrs, pid); err != nil {
			return nil, err
		}
	}
	for _, a := range addrs {
		rep.Multiaddrs = append(rep.Multiaddrs, a.String())
	}
	return rep, nil
}

func port(get func() (uint16, bool)) *uint16 {
	p, ok := get()
	if !ok {
		return nil
	}
	return &p
}

// Write renders the report in the given format ("text" or "json").
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case "json":
		return r.WriteJSON(w)
	case "text", "":
		return r.WriteText(w)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText writes the report as a two-column table.
func (r *Report) WriteText(w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, row := range r.rows() {
		table.Append(row)
	}
	table.Render()
	return nil
}

func (r *Report) rows() [][]string {
	rows := [][]string{
		{"ENR", r.ENR},
		{"Seq", strconv.FormatUint(r.Seq, 10)},
		{"Size", strconv.Itoa(r.Size)},
		{"Identity Scheme", r.ID},
		{"Key Scheme", r.KeyScheme},
		{"Public Key", r.PublicKey},
		{"Node ID", r.NodeID},
		{"Peer ID", r.PeerID},
		{"Peer CID", r.PeerCID},
		{"Enode", r.Enode},
	}
	if r.IP4 != "" {
		rows = append(rows, []string{"IPv4", r.IP4})
	}
	if r.IP6 != "" {
		rows = append(rows, []string{"IPv6", r.IP6})
	}
	ports := []struct {
		name string
		p    *uint16
	}{
		{"TCP", r.TCP4}, {"TCP6", r.TCP6},
		{"UDP", r.UDP4}, {"UDP6", r.UDP6},
		{"QUIC", r.QUIC4}, {"QUIC6", r.QUIC6},
	}
	for _, p := range ports {
		if p.p != nil {
			rows = append(rows, []string{p.name, strconv.Itoa(int(*p.p))})
		}
	}
	if r.Eth2 != nil {
		rows = append(rows,
			[]string{"Fork Digest", r.Eth2.ForkDigest},
			[]string{"Next Fork Version", r.Eth2.NextForkVersion},
			[]string{"Next Fork Epoch", strconv.FormatUint(r.Eth2.NextForkEpoch, 10)},
			[]string{"Eth2 Raw", r.Eth2.Raw},
		)
	}
	if r.Eth2Error != "" {
		rows = append(rows, []string{"Eth2", "invalid: " + r.Eth2Error})
	}
	if r.Attnets != "" {
		rows = append(rows, []string{"Attnets", r.Attnets})
	}
	if r.Syncnets != "" {
		rows = append(rows, []string{"Syncnets", r.Syncnets})
	}
	for i, a := range r.Multiaddrs {
		label := ""
		if i == 0 {
			label = "Multiaddrs"
		}
		rows = append(rows, []string{label, a})
	}
	return rows
}
