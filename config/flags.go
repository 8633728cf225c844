package config

import (
	"fmt"
	"os"
)

// Flags holds the command-line values that override configuration. The CLI
// fills it from its own flag parser; zero values mean "not given".
type Flags struct {
	Config string

	// Key
	KeyScheme string
	KeyFile   string

	// Output
	Format string
	P2P    bool

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Explicitly-set bool flags (for true/false overrides).
	SetP2P     bool
	SetLogJSON bool
}

// ApplyFlags applies command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	// Key
	if f.KeyScheme != "" {
		cfg.Key.Scheme = f.KeyScheme
	}
	if f.KeyFile != "" {
		cfg.Key.File = f.KeyFile
	}

	// Output
	if f.Format != "" {
		cfg.Output.Format = f.Format
	}
	if f.SetP2P {
		cfg.Output.P2P = f.P2P
	}

	// Logging
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
}

// Load loads configuration with the following precedence:
// 1. Default values
// 2. Config file (explicit path, or the default file if it exists)
// 3. Command-line flags
//
// Nothing is created on disk.
func Load(flags *Flags) (*Config, error) {
	if flags == nil {
		flags = &Flags{}
	}
	cfg := Default()

	configPath := flags.Config
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
	} else {
		configPath = DefaultConfigFile()
	}

	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, fmt.Errorf("applying config file: %w", err)
	}

	// Flags have the highest precedence
	ApplyFlags(cfg, flags)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
