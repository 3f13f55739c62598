package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/punkmint/internal/chain"
	"github.com/mrz1836/punkmint/internal/output"
	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

// connectTimeout bounds the connect command.
const connectTimeout = time.Minute

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect the wallet and check the network",
	Long: `Unlock the wallet, connect it to the configured RPC endpoint, and report
the account, the network it is on, and its native balance.

Exits with a network error when the endpoint is not on the required chain.

Example:
  punkmint connect
  punkmint connect -o json`,
	RunE: runConnect,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(connectCmd)
}

// connectResult is the JSON shape of the connect command.
type connectResult struct {
	Account         string `json:"account"`
	Network         string `json:"network"`
	ChainID         string `json:"chain_id"`
	RequiredChainID string `json:"required_chain_id"`
	NetworkOK       bool   `json:"network_ok"`
	Balance         string `json:"balance"`
	Currency        string `json:"currency"`
}

func (r connectResult) Fields() output.Fields {
	status := "ok"
	if !r.NetworkOK {
		status = "wrong network (need chain " + r.RequiredChainID + ")"
	}
	return output.Fields{
		{Label: "Account", Value: r.Account},
		{Label: "Network", Value: r.Network},
		{Label: "Chain ID", Value: r.ChainID},
		{Label: "Status", Value: status},
		{Label: "Balance", Value: r.Balance + " " + r.Currency},
	}
}

func runConnect(cmd *cobra.Command, _ []string) error {
	ctx, cancel := contextWithTimeout(cmd, connectTimeout)
	defer cancel()

	st, err := buildStack(cfg, logger, terminalPrompter{}, output.NewNoticeWriter(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer st.Close()

	h, err := st.provider.Acquire(ctx, false)
	if err != nil {
		return err
	}

	actual, err := h.NetworkID(ctx)
	if err != nil {
		return err
	}
	balance, err := h.Backend().BalanceAt(ctx, h.Account(), nil)
	if err != nil {
		return minterr.Classify(minterr.ErrNetworkError, err)
	}

	_, validateErr := st.guard.Validate(ctx, h)

	result := connectResult{
		Account:         h.Account().Hex(),
		Network:         networkDisplayName(cfg.Network.Name),
		ChainID:         actual.String(),
		RequiredChainID: st.guard.Required().String(),
		NetworkOK:       validateErr == nil,
		Balance:         chain.FormatEther(balance),
		Currency:        cfg.Network.Currency,
	}
	if !result.NetworkOK {
		result.Network = ""
	}
	if err := formatter.Print(result); err != nil {
		return err
	}
	return validateErr
}
