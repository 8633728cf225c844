// enr-cli builds, reads and converts Ethereum Node Records.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Flag names shared between commands and setup.
const (
	configFlag   = "config"
	logLevelFlag = "log-level"
	logJSONFlag  = "log-json"
	logFileFlag  = "log-file"
	formatFlag   = "format"
	p2pFlag      = "p2p"
)

func newApp() *cli.App {
	return &cli.App{
		Name:            "enr-cli",
		Usage:           "Build, read and convert Ethereum Node Records",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: configFlag, Usage: "Config file (default: ~/.enr-cli/enr-cli.conf if present)"},
			&cli.StringFlag{Name: logLevelFlag, Usage: "Log level: debug, info, warn, error"},
			&cli.BoolFlag{Name: logJSONFlag, Usage: "Write logs as JSON"},
			&cli.StringFlag{Name: logFileFlag, Usage: "Also write logs to this file"},
		},
		Commands: []*cli.Command{
			buildCommand(),
			readCommand(),
			peerToNodeCommand(),
		},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: formatFlag, Usage: "Output format: text or json"},
		&cli.BoolFlag{Name: p2pFlag, Usage: "Append /p2p/<peer-id> to listed multiaddrs"},
	}
}
