// Package config handles enr-cli runtime configuration.
//
// Settings are resolved from built-in defaults, then an optional
// key = value config file, then command-line flags. Protocol constants
// (record key names, the size limit) are not configurable and live in
// pkg/enr.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds runtime configuration.
type Config struct {
	// Signing key defaults
	Key KeyConfig

	// Report output
	Output OutputConfig

	// Logging
	Log LogConfig
}

// KeyConfig holds key source defaults.
type KeyConfig struct {
	Scheme string `conf:"key.scheme"` // scheme of generated keys and hint for raw key bytes
	File   string `conf:"key.file"`   // key file used when no key is given on the command line
}

// OutputConfig holds report settings.
type OutputConfig struct {
	Format string `conf:"output.format"` // text or json
	P2P    bool   `conf:"output.p2p"`    // append /p2p/<peer-id> to multiaddrs
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultConfigDir returns the platform-specific configuration directory.
//
//	Linux:   ~/.enr-cli
//	macOS:   ~/Library/Application Support/enr-cli
//	Windows: %APPDATA%\enr-cli
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".enr-cli"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "enr-cli")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "enr-cli")
		}
		return filepath.Join(home, "AppData", "Roaming", "enr-cli")
	default:
		return filepath.Join(home, ".enr-cli")
	}
}

// DefaultConfigFile returns the config file read when none is given.
func DefaultConfigFile() string {
	return filepath.Join(DefaultConfigDir(), "enr-cli.conf")
}
