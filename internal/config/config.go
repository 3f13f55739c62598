// Package config provides configuration management for punkmint.
package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Home     string         `yaml:"home"`
	Network  NetworkConfig  `yaml:"network"`
	Contract ContractConfig `yaml:"contract"`
	Mint     MintConfig     `yaml:"mint"`
	Poller   PollerConfig   `yaml:"poller"`
	Wallet   WalletConfig   `yaml:"wallet"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// NetworkConfig defines the network the client must be connected to.
type NetworkConfig struct {
	Name      string  `yaml:"name"`
	RPC       string  `yaml:"rpc"`
	ChainID   uint64  `yaml:"chain_id"`
	Currency  string  `yaml:"currency"`
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
}

// ContractConfig identifies the NFT contract.
type ContractConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Address     string `yaml:"address"`
	ABIFile     string `yaml:"abi_file,omitempty"`
	MaxSupply   uint64 `yaml:"max_supply"`
}

// MintConfig defines the paid mint call.
type MintConfig struct {
	Price         string        `yaml:"price"`
	Confirmations uint64        `yaml:"confirmations"`
	GasLimit      uint64        `yaml:"gas_limit"`
	ConfirmPoll   time.Duration `yaml:"confirm_poll"`
}

// PollerConfig defines the supply refresh cadence.
type PollerConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// WalletConfig locates the local wallet key file.
type WalletConfig struct {
	KeyFile  string `yaml:"key_file"`
	Password string `yaml:"-"`
	// WorkFactor is log2 of the scrypt cost for new key files; 0 uses
	// age's default.
	WorkFactor int `yaml:"work_factor,omitempty"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return writeFileAtomic(path, data, 0o600)
}

// writeFileAtomic replaces path with data through a synced temp file in the
// same directory, so a crash never leaves a truncated config behind.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err = tmp.Write(data); err == nil {
		err = tmp.Chmod(perm)
	}
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}

	return os.Rename(tmpPath, path) //nolint:gosec // G703: path comes from config home
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// DefaultHome returns the default punkmint home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".punkmint"
	}
	return filepath.Join(home, ".punkmint")
}

// ExpandPath expands a leading "~/" to the user's home directory.
func ExpandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// GetHome returns the punkmint home directory path.
func (c *Config) GetHome() string {
	return c.Home
}

// GetRPC returns the JSON-RPC endpoint.
func (c *Config) GetRPC() string {
	return c.Network.RPC
}

// RequiredChainID returns the chain id every handle must be connected to.
func (c *Config) RequiredChainID() *big.Int {
	return new(big.Int).SetUint64(c.Network.ChainID)
}

// GetContractAddress returns the NFT contract address.
func (c *Config) GetContractAddress() string {
	return c.Contract.Address
}

// GetKeyFile returns the expanded wallet key file path.
func (c *Config) GetKeyFile() string {
	return ExpandPath(c.Wallet.KeyFile)
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}
