package config

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Key: KeyConfig{
			Scheme: "auto", // secp256k1, then ed25519 for raw key bytes
		},
		Output: OutputConfig{
			Format: FormatText,
			P2P:    false,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}
