package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"syscall"

	"github.com/Klingon-tech/enr-cli/config"
	"github.com/Klingon-tech/enr-cli/internal/keysource"
	"github.com/Klingon-tech/enr-cli/internal/log"
	"github.com/Klingon-tech/enr-cli/internal/report"
	"github.com/Klingon-tech/enr-cli/internal/service"
	"github.com/Klingon-tech/enr-cli/pkg/enr"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

func buildCommand() *cli.Command {
	flags := []cli.Flag{
		// Key
		&cli.StringFlag{Name: "private-key", Aliases: []string{"k"}, Usage: "Hex private key"},
		&cli.StringFlag{Name: "key-file", Aliases: []string{"j"}, Usage: "Key file (raw, hex or libp2p-marshaled)"},
		&cli.StringFlag{Name: "password", Usage: "Decrypt the key file with this password (\"-\" to prompt)"},
		&cli.StringFlag{Name: "mnemonic", Usage: "BIP-39 mnemonic to derive the key from"},
		&cli.StringFlag{Name: "passphrase", Usage: "BIP-39 passphrase"},
		&cli.UintFlag{Name: "account", Usage: "Derivation account: m/44'/60'/<account>'/0/<index>"},
		&cli.UintFlag{Name: "index", Usage: "Derivation index"},
		&cli.StringFlag{Name: "scheme", Usage: "Key scheme: secp256k1, ed25519 or auto"},

		// Fields
		&cli.StringSliceFlag{Name: "ip", Aliases: []string{"i"}, Usage: "IPv4 or IPv6 address (repeatable, one per family)"},
		&cli.StringFlag{Name: "seq", Aliases: []string{"s"}, Usage: "Sequence number"},
		&cli.StringFlag{Name: "tcp-port", Aliases: []string{"p"}, Usage: "IPv4 TCP port"},
		&cli.StringFlag{Name: "tcp6-port", Usage: "IPv6 TCP port"},
		&cli.StringFlag{Name: "udp-port", Aliases: []string{"u"}, Usage: "IPv4 UDP port"},
		&cli.StringFlag{Name: "udp6-port", Usage: "IPv6 UDP port"},
		&cli.StringFlag{Name: "quic-port", Usage: "IPv4 QUIC port"},
		&cli.StringFlag{Name: "quic6-port", Usage: "IPv6 QUIC port"},
		&cli.StringFlag{Name: "eth2", Aliases: []string{"f"}, Usage: "Hex-encoded eth2 fork id (16 bytes)"},
		&cli.StringFlag{Name: "attnets", Usage: "Hex attestation subnet bitfield (8 bytes)"},
		&cli.StringFlag{Name: "syncnets", Usage: "Hex sync committee subnet bitfield (1 byte)"},
	}
	return &cli.Command{
		Name:  "build",
		Usage: "Build and sign a record",
		Description: `Builds a record from the given fields and signs it. The key is taken
from --private-key, --key-file or --mnemonic; with none of these a new key
of --scheme is generated.`,
		Flags:  append(flags, outputFlags()...),
		Action: runBuild,
	}
}

func readCommand() *cli.Command {
	return &cli.Command{
		Name:      "read",
		Usage:     "Decode and verify a record",
		ArgsUsage: "<enr>",
		Flags:     outputFlags(),
		Action:    runRead,
	}
}

func peerToNodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "peer-to-node",
		Usage:     "Convert a libp2p peer id to a node id",
		ArgsUsage: "<peer-id>",
		Action:    runPeerToNode,
	}
}

// setup resolves configuration for a command and initializes logging.
func setup(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(&config.Flags{
		Config:     c.String(configFlag),
		KeyScheme:  c.String("scheme"),
		KeyFile:    c.String("key-file"),
		Format:     c.String(formatFlag),
		P2P:        c.Bool(p2pFlag),
		SetP2P:     c.IsSet(p2pFlag),
		LogLevel:   c.String(logLevelFlag),
		LogFile:    c.String(logFileFlag),
		LogJSON:    c.Bool(logJSONFlag),
		SetLogJSON: c.IsSet(logJSONFlag),
	})
	if err != nil {
		return nil, err
	}
	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	return cfg, nil
}

func runBuild(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}

	src := keysource.Source{
		Hex:        c.String("private-key"),
		Mnemonic:   c.String("mnemonic"),
		Passphrase: c.String("passphrase"),
		Account:    uint32(c.Uint("account")),
		Index:      uint32(c.Uint("index")),
		Scheme:     cfg.KeyScheme(),
	}
	// A key file from the config file only applies when no other key was given.
	if c.IsSet("key-file") || (src.Hex == "" && src.Mnemonic == "") {
		src.File = cfg.Key.File
	}
	src.Password = c.String("password")
	if src.File != "" {
		if src.Password, err = password(src.Password); err != nil {
			return err
		}
	}

	key, origin, err := src.Load()
	if err != nil {
		return err
	}
	defer key.Zero()
	log.Keys.Debug().
		Str("origin", string(origin)).
		Str("scheme", key.Scheme().String()).
		Str("private_key", hex.EncodeToString(key.Bytes())).
		Msg("Signing key")

	r, err := service.Build(service.Fields{
		IPs:      c.StringSlice("ip"),
		Seq:      c.String("seq"),
		TCP4:     c.String("tcp-port"),
		TCP6:     c.String("tcp6-port"),
		UDP4:     c.String("udp-port"),
		UDP6:     c.String("udp6-port"),
		QUIC4:    c.String("quic-port"),
		QUIC6:    c.String("quic6-port"),
		Eth2:     c.String("eth2"),
		Attnets:  c.String("attnets"),
		Syncnets: c.String("syncnets"),
	}, key)
	if err != nil {
		return err
	}
	return printRecord(c, cfg, r)
}

func runRead(c *cli.Context) error {
	cfg, err := setup(c)
	if err != nil {
		return err
	}
	if c.NArg() != 1 {
		return fmt.Errorf("usage: enr-cli read <enr>")
	}
	r, err := service.Read(c.Args().First())
	if err != nil {
		return err
	}
	return printRecord(c, cfg, r)
}

func runPeerToNode(c *cli.Context) error {
	if _, err := setup(c); err != nil {
		return err
	}
	if c.NArg() != 1 {
		return fmt.Errorf("usage: enr-cli peer-to-node <peer-id>")
	}
	nid, err := service.PeerToNode(c.Args().First())
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, nid.String())
	return nil
}

func printRecord(c *cli.Context, cfg *config.Config, r *enr.Record) error {
	rep, err := report.New(r, report.Options{P2P: cfg.Output.P2P})
	if err != nil {
		return err
	}
	return rep.Write(c.App.Writer, cfg.Output.Format)
}

// password returns the key file password, prompting on the terminal for "-".
func password(flag string) (string, error) {
	if flag != "-" {
		return flag, nil
	}
	fmt.Fprint(os.Stderr, "Key file password: ")
	pw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}
