package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvHome           = "PUNKMINT_HOME"
	EnvRPC            = "PUNKMINT_RPC"
	EnvContract       = "PUNKMINT_CONTRACT"
	EnvChainID        = "PUNKMINT_CHAIN_ID"
	EnvWalletFile     = "PUNKMINT_WALLET_FILE"
	EnvWalletPassword = "PUNKMINT_WALLET_PASSWORD" // #nosec G101 -- variable name, not a credential
	EnvOutputFormat   = "PUNKMINT_OUTPUT_FORMAT"
	EnvVerbose        = "PUNKMINT_VERBOSE"
	EnvLogLevel       = "PUNKMINT_LOG_LEVEL"
	EnvNoColor        = "NO_COLOR"
)

// ApplyEnvironment applies environment variable overrides to the configuration.
//
//nolint:gocognit,gocyclo // Environment variable overrides require sequential checks
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvRPC); v != "" {
		cfg.Network.RPC = SanitizeURL(v)
	}

	if v := os.Getenv(EnvContract); v != "" {
		cfg.Contract.Address = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvChainID); v != "" {
		if id, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64); err == nil && id > 0 {
			cfg.Network.ChainID = id
		}
	}

	if v := os.Getenv(EnvWalletFile); v != "" {
		cfg.Wallet.KeyFile = v
	}

	// Never persisted: the password field is excluded from YAML.
	if v, ok := os.LookupEnv(EnvWalletPassword); ok {
		cfg.Wallet.Password = v
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}

// SanitizeURL trims whitespace, quotes, and control characters that tend to
// come along with copy-pasted RPC URLs.
func SanitizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, `"'`)
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == ' ' {
			return -1
		}
		return r
	}, raw)
}
