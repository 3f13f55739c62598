package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the mint screen until the user quits or ctx is cancelled.
func Run(ctx context.Context, machine Machine, prompter *Prompter, opts Options) error {
	p := tea.NewProgram(
		New(ctx, machine, prompter, opts),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	if ctx.Err() != nil {
		// Interrupted by signal; not a failure of the program.
		return nil
	}
	return err
}
