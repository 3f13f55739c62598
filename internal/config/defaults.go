package config

import "time"

// Mumbai network defaults.
const (
	// DefaultRPCURL is the public Polygon Mumbai endpoint.
	DefaultRPCURL = "https://rpc-mumbai.maticvigil.com"

	// DefaultChainID is the Polygon Mumbai chain id.
	DefaultChainID uint64 = 80001

	// DefaultMintPrice is the price of one token in native units.
	DefaultMintPrice = "0.01"

	// DefaultMaxSupply is the collection size shown when the contract
	// does not expose maxTokenIds().
	DefaultMaxSupply uint64 = 10

	// DefaultPollInterval is how often the minted count is refreshed.
	DefaultPollInterval = 5 * time.Second

	// DefaultConfirmPoll is how often a pending receipt is polled.
	DefaultConfirmPoll = 2 * time.Second
)

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.punkmint",
		Network: NetworkConfig{
			Name:      "mumbai",
			RPC:       DefaultRPCURL,
			ChainID:   DefaultChainID,
			Currency:  "MATIC",
			RateLimit: 5,
			RateBurst: 10,
		},
		Contract: ContractConfig{
			Name:        "LW3Punks",
			Description: "It's an NFT collection for LearnWeb3 students.",
			Address:     "",
			MaxSupply:   DefaultMaxSupply,
		},
		Mint: MintConfig{
			Price:         DefaultMintPrice,
			Confirmations: 1,
			GasLimit:      0, // estimate
			ConfirmPoll:   DefaultConfirmPoll,
		},
		Poller: PollerConfig{
			Interval: DefaultPollInterval,
		},
		Wallet: WalletConfig{
			KeyFile: "~/.punkmint/wallet.age",
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.punkmint/punkmint.log",
		},
	}
}
