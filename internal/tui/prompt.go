package tui

import (
	"context"

	"github.com/mrz1836/punkmint/internal/wallet"
)

type promptKind int

const (
	promptPassword promptKind = iota
	promptConfirm
)

type answer struct {
	text string
	ok   bool
}

// request is one question waiting for the user.
type request struct {
	kind  promptKind
	text  string
	reply chan answer
}

// Prompter answers wallet prompts from inside the running program. The
// wallet blocks in Password or Confirm until the model has shown the
// question and the user answered it.
type Prompter struct {
	requests chan *request
}

// Compile-time interface check
var _ wallet.Prompter = (*Prompter)(nil)

// NewPrompter creates a Prompter. Pass it to both the wallet and New.
func NewPrompter() *Prompter {
	return &Prompter{requests: make(chan *request)}
}

// Password implements wallet.Prompter.
func (p *Prompter) Password(ctx context.Context, prompt string) (string, error) {
	a, err := p.ask(ctx, promptPassword, prompt)
	return a.text, err
}

// Confirm implements wallet.Prompter.
func (p *Prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	a, err := p.ask(ctx, promptConfirm, prompt)
	return a.ok, err
}

func (p *Prompter) ask(ctx context.Context, kind promptKind, text string) (answer, error) {
	req := &request{kind: kind, text: text, reply: make(chan answer, 1)}

	select {
	case p.requests <- req:
	case <-ctx.Done():
		return answer{}, ctx.Err()
	}

	select {
	case a := <-req.reply:
		return a, nil
	case <-ctx.Done():
		return answer{}, ctx.Err()
	}
}
