package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/punkmint/internal/notify"
	"github.com/mrz1836/punkmint/internal/tui"
	"github.com/mrz1836/punkmint/internal/ui"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var appCmd = &cobra.Command{
	Use:   "app",
	Short: "Open the interactive mint screen",
	Long: `Open a full-screen view of the collection: connect the wallet, watch the
minted count refresh, and mint with a single key.

Keys:
  enter  connect, or mint when connected
  r      reconnect the wallet
  x      dismiss the current notice
  q      quit`,
	RunE: runApp,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(appCmd)
}

func runApp(cmd *cobra.Command, _ []string) error {
	prompter := tui.NewPrompter()
	hub := &notify.Broadcaster{}

	st, err := buildStack(cfg, logger, prompter, hub)
	if err != nil {
		return err
	}

	machine := newMachine(st, hub)
	defer machine.Close()

	return tui.Run(cmd.Context(), machine, prompter, tui.Options{
		Title:       cfg.Contract.Name,
		Description: cfg.Contract.Description,
		AutoConnect: true,
	})
}

// newMachine builds the session state machine over st and attaches it to
// hub so the guard and the workflow notices reach the display. Closing the
// machine ends the wallet session.
func newMachine(st *stack, hub *notify.Broadcaster) *ui.Machine {
	machine := ui.New(&ui.Config{
		Connections:      st.provider,
		Workflow:         st.workflow(hub),
		Poller:           st.newPoller(),
		MaxSupply:        st.source,
		DefaultMaxSupply: st.defaultMaxSupply(),
		Logger:           st.logger.With("ui"),
	})
	hub.Attach(machine)
	return machine
}
