package cli

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/punkmint/internal/chain"
	"github.com/mrz1836/punkmint/internal/config"
	"github.com/mrz1836/punkmint/internal/connection"
	"github.com/mrz1836/punkmint/internal/contract"
	"github.com/mrz1836/punkmint/internal/metrics"
	"github.com/mrz1836/punkmint/internal/mint"
	"github.com/mrz1836/punkmint/internal/network"
	"github.com/mrz1836/punkmint/internal/notify"
	"github.com/mrz1836/punkmint/internal/poller"
	"github.com/mrz1836/punkmint/internal/wallet"
)

// dialFn opens the JSON-RPC connection. Tests replace it with an
// in-memory node.
//
//nolint:gochecknoglobals // Replaced in tests
var dialFn = chain.Dial

// stack is the mint client assembled from configuration: one wallet
// session shared by the guard, the contract gateway, and the poller.
type stack struct {
	cfg      *config.Config
	logger   *config.Logger
	provider *connection.Provider
	guard    *network.Guard
	gateway  *contract.Gateway
	source   *poller.ContractSource
}

// buildStack validates the configuration and wires the client. Nothing
// touches the network until the first Acquire.
func buildStack(c *config.Config, log *config.Logger, prompter wallet.Prompter, notifier notify.Notifier) (*stack, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	address, err := chain.ParseAddress(c.Contract.Address)
	if err != nil {
		return nil, err
	}
	price, err := chain.ParseEther(c.Mint.Price)
	if err != nil {
		return nil, err
	}
	parsed, err := contract.LoadABI(config.ExpandPath(c.Contract.ABIFile))
	if err != nil {
		return nil, err
	}
	gateway, err := contract.NewGateway(contract.Config{
		Address:  address,
		ABI:      parsed,
		Price:    price,
		GasLimit: c.Mint.GasLimit,
	})
	if err != nil {
		return nil, err
	}

	limiter := chain.NewRateLimiter(c.Network.RateLimit, c.Network.RateBurst)
	endpoint := c.Network.RPC
	keyFile := wallet.NewKeyFile(wallet.KeyFileConfig{
		Path:     c.GetKeyFile(),
		Password: c.Wallet.Password,
		Prompter: prompter,
		Dial: func(ctx context.Context) (chain.Backend, error) {
			b, err := dialFn(ctx, endpoint)
			if err != nil {
				return nil, err
			}
			return chain.NewLimitedBackend(b, endpoint, limiter, metrics.Global), nil
		},
	})

	provider := connection.NewProvider(keyFile, log.With("connection"))
	guard := network.NewGuard(c.RequiredChainID(), networkDisplayName(c.Network.Name), notifier, log.With("network"))

	return &stack{
		cfg:      c,
		logger:   log,
		provider: provider,
		guard:    guard,
		gateway:  gateway,
		source:   &poller.ContractSource{Connections: provider, Guard: guard, Gateway: gateway},
	}, nil
}

// workflow returns a mint workflow reporting to notifier.
func (s *stack) workflow(notifier notify.Notifier) *mint.Workflow {
	return mint.NewWorkflow(&mint.Config{
		Connections:   s.provider,
		Guard:         s.guard,
		Gateway:       s.gateway,
		Confirmations: s.cfg.Mint.Confirmations,
		ConfirmPoll:   s.cfg.Mint.ConfirmPoll,
		TokenName:     tokenName(s.cfg.Contract.Name),
		Notifier:      notifier,
		Logger:        s.logger.With("mint"),
	})
}

// newPoller returns a supply poller over the stack's contract source.
func (s *stack) newPoller() *poller.Poller {
	return poller.New(s.source, s.cfg.Poller.Interval, s.logger.With("poller"), nil)
}

// maxSupply reads maxTokenIds(), falling back to the configured size.
func (s *stack) maxSupply(ctx context.Context) string {
	v, err := s.source.ReadMaxSupply(ctx)
	if err != nil {
		s.logger.Debug("reading max supply: %v", err)
		return s.defaultMaxSupply()
	}
	return v
}

func (s *stack) defaultMaxSupply() string {
	return strconv.FormatUint(s.cfg.Contract.MaxSupply, 10)
}

// Close ends the wallet session.
func (s *stack) Close() {
	s.provider.Close()
}

// networkDisplayName capitalizes a configured network name: "mumbai"
// becomes "Mumbai".
func networkDisplayName(name string) string {
	if name == "" {
		return "the configured network"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// tokenName is the singular of a collection name: "LW3Punks" mints an
// "LW3Punk".
func tokenName(collection string) string {
	if len(collection) > 1 && strings.HasSuffix(collection, "s") {
		return collection[:len(collection)-1]
	}
	return collection
}

// contextWithTimeout returns a timeout context rooted in the command context.
func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	return context.WithTimeout(base, d)
}
