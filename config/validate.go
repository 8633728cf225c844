package config

import (
	"fmt"
	"strings"

	"github.com/Klingon-tech/enr-cli/internal/log"
	"github.com/Klingon-tech/enr-cli/pkg/crypto"
)

// Validate checks the config for obvious operator mistakes and normalizes
// case-insensitive values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	scheme, err := crypto.ParseScheme(cfg.Key.Scheme)
	if err != nil {
		return fmt.Errorf("key.scheme: %w", err)
	}
	cfg.Key.Scheme = scheme.String()

	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	switch cfg.Output.Format {
	case FormatText, FormatJSON:
	case "":
		cfg.Output.Format = FormatText
	default:
		return fmt.Errorf("output.format must be %q or %q", FormatText, FormatJSON)
	}

	if !log.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error")
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	return nil
}

// KeyScheme returns the parsed key scheme. Call after Validate.
func (c *Config) KeyScheme() crypto.Scheme {
	s, _ := crypto.ParseScheme(c.Key.Scheme)
	return s
}
