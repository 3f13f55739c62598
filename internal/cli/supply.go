package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/punkmint/internal/output"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var supplyWatch bool

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var supplyCmd = &cobra.Command{
	Use:   "supply",
	Short: "Show how many tokens have been minted",
	Long: `Read tokenIds() from the contract and show it against the collection
size. With --watch, keep polling at poller.interval until interrupted.

Example:
  punkmint supply
  punkmint supply --watch`,
	RunE: runSupply,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(supplyCmd)

	supplyCmd.Flags().BoolVarP(&supplyWatch, "watch", "w", false, "keep polling until interrupted")
}

// supplyResult is the JSON shape of the supply command.
type supplyResult struct {
	Minted    string    `json:"minted"`
	MaxSupply string    `json:"max_supply"`
	At        time.Time `json:"at"`
}

func (r supplyResult) String() string {
	return r.Minted + "/" + r.MaxSupply + " have been minted"
}

func runSupply(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	st, err := buildStack(cfg, logger, terminalPrompter{}, output.NewNoticeWriter(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer st.Close()

	// The contract source only reads through an open session.
	if _, err := st.provider.Acquire(ctx, false); err != nil {
		return err
	}

	if !supplyWatch {
		minted, err := st.source.ReadSupply(ctx)
		if err != nil {
			return err
		}
		return formatter.Print(supplyResult{Minted: minted, MaxSupply: st.maxSupply(ctx), At: time.Now()})
	}

	p := st.newPoller()
	snapshots, err := p.Start(ctx)
	if err != nil {
		return err
	}
	defer p.Stop()

	maxSupply := st.maxSupply(ctx)
	for snap := range snapshots {
		if err := formatter.Print(supplyResult{Minted: snap.Minted, MaxSupply: maxSupply, At: snap.At}); err != nil {
			return err
		}
	}
	return nil
}
