package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/punkmint/internal/mint"
	"github.com/mrz1836/punkmint/internal/output"
	"github.com/mrz1836/punkmint/internal/wallet"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	mintYes     bool
	mintTimeout time.Duration
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint one token",
	Long: `Mint one LW3Punk, paying the configured price (0.01 MATIC by default),
and wait for the transaction to be confirmed.

The wallet must be on the required network; nothing is sent otherwise.
Every transaction is confirmed before signing unless --yes is given.

Example:
  punkmint mint
  punkmint mint --yes --timeout 10m`,
	RunE: runMint,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(mintCmd)

	mintCmd.Flags().BoolVarP(&mintYes, "yes", "y", false, "sign without asking for confirmation")
	mintCmd.Flags().DurationVar(&mintTimeout, "timeout", 5*time.Minute, "give up waiting after this long")
}

// mintResult is the JSON shape of the mint command.
type mintResult struct {
	TxHash    string `json:"tx_hash"`
	Block     uint64 `json:"block"`
	GasUsed   uint64 `json:"gas_used"`
	Minted    string `json:"minted,omitempty"`
	MaxSupply string `json:"max_supply,omitempty"`
}

func (r mintResult) Fields() output.Fields {
	fields := output.Fields{
		{Label: "Transaction", Value: r.TxHash},
		{Label: "Block", Value: strconv.FormatUint(r.Block, 10)},
		{Label: "Gas used", Value: strconv.FormatUint(r.GasUsed, 10)},
	}
	if r.Minted != "" {
		fields = append(fields, output.Field{Label: "Supply", Value: r.Minted + "/" + r.MaxSupply + " have been minted"})
	}
	return fields
}

func runMint(cmd *cobra.Command, _ []string) error {
	ctx, cancel := contextWithTimeout(cmd, mintTimeout)
	defer cancel()

	var prompter wallet.Prompter = terminalPrompter{}
	if mintYes {
		prompter = wallet.AutoConfirm{Prompter: prompter}
	}

	notices := output.NewNoticeWriter(cmd.ErrOrStderr())
	st, err := buildStack(cfg, logger, prompter, notices)
	if err != nil {
		return err
	}
	defer st.Close()

	stderr := cmd.ErrOrStderr()
	progress := func(stage mint.Stage) {
		switch stage {
		case mint.Connecting, mint.ValidatingNetwork, mint.Submitting, mint.Confirming:
			if !formatter.IsJSON() {
				outln(stderr, stage.String()+"...")
			}
		}
	}

	res, err := st.workflow(notices).Run(ctx, progress)
	if err != nil {
		return err
	}

	result := mintResult{
		TxHash:  res.TxHash.Hex(),
		Block:   res.Block,
		GasUsed: res.GasUsed,
	}
	if minted, readErr := st.source.ReadSupply(ctx); readErr == nil {
		result.Minted = minted
		result.MaxSupply = st.maxSupply(ctx)
	}
	return formatter.Print(result)
}
