// Package tui renders the mint session in the terminal with bubbletea.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrz1836/punkmint/internal/ui"
	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

// Machine is the session the model drives.
type Machine interface {
	State() ui.State
	Subscribe(fn func(ui.State))
	Connect(ctx context.Context) error
	PrimaryAction(ctx context.Context) (ui.Action, error)
	Reconnect(ctx context.Context) error
	DismissNotice()
}

// Compile-time interface check
var _ Machine = (*ui.Machine)(nil)

type (
	stateMsg  ui.State
	actionMsg struct {
		action ui.Action
		err    error
	}
	promptMsg struct{ req *request }
)

// Options configures the model.
type Options struct {
	// Title is the collection name shown in the header.
	Title string
	// Description is shown under the title.
	Description string
	// AutoConnect connects the wallet as soon as the program starts.
	AutoConnect bool
}

// Model is the bubbletea model of the mint screen.
type Model struct {
	ctx      context.Context
	machine  Machine
	prompter *Prompter
	opts     Options

	// changed is signalled by the machine on every state change; the
	// model then reads the latest state itself.
	changed chan struct{}

	state    ui.State
	lastErr  error
	spin     spinner.Model
	input    textinput.Model
	prompt   *request
	width    int
	quitting bool
}

// New creates the model. prompter may be nil when the wallet never asks.
func New(ctx context.Context, machine Machine, prompter *Prompter, opts Options) Model {
	changed := make(chan struct{}, 1)
	machine.Subscribe(func(ui.State) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	in := textinput.New()
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '•'
	in.CharLimit = 256
	in.Width = 40
	in.PromptStyle = lipgloss.NewStyle().Foreground(colorAccent)

	return Model{
		ctx:      ctx,
		machine:  machine,
		prompter: prompter,
		opts:     opts,
		changed:  changed,
		state:    machine.State(),
		spin:     sp,
		input:    in,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, m.waitForState(), m.waitForPrompt()}
	if m.opts.AutoConnect {
		cmds = append(cmds, m.connect())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case stateMsg:
		m.state = ui.State(msg)
		return m, m.waitForState()

	case actionMsg:
		m.lastErr = msg.err
		return m, nil

	case promptMsg:
		m.prompt = msg.req
		if msg.req.kind == promptPassword {
			m.input.Reset()
			m.input.Prompt = "Password: "
			return m, m.input.Focus()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.prompt != nil {
			return m.handlePromptKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "enter", " ":
		if m.state.Loading {
			return m, nil
		}
		m.lastErr = nil
		return m, m.primaryAction()
	case "r":
		if !m.state.WalletConnected || m.state.Loading {
			return m, nil
		}
		m.lastErr = nil
		return m, m.reconnect()
	case "esc", "x":
		m.lastErr = nil
		m.machine.DismissNotice()
		return m, nil
	}
	return m, nil
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	req := m.prompt
	key := msg.String()

	if key == "ctrl+c" {
		m.answer(req, answer{})
		m.quitting = true
		return m, tea.Quit
	}

	if req.kind == promptConfirm {
		switch key {
		case "y", "Y", "enter":
			m.answer(req, answer{ok: true})
		case "n", "N", "esc":
			m.answer(req, answer{})
		default:
			return m, nil
		}
		m.prompt = nil
		return m, m.waitForPrompt()
	}

	switch key {
	case "enter":
		m.answer(req, answer{text: m.input.Value()})
	case "esc":
		m.answer(req, answer{})
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	m.input.Reset()
	m.input.Blur()
	m.prompt = nil
	return m, m.waitForPrompt()
}

// answer replies without blocking; the wallet may have given up waiting.
func (m Model) answer(req *request, a answer) {
	select {
	case req.reply <- a:
	default:
	}
}

func (m Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.changed:
			return stateMsg(m.machine.State())
		case <-m.ctx.Done():
			return tea.QuitMsg{}
		}
	}
}

func (m Model) waitForPrompt() tea.Cmd {
	if m.prompter == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case req := <-m.prompter.requests:
			return promptMsg{req: req}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m Model) connect() tea.Cmd {
	return func() tea.Msg {
		return actionMsg{action: ui.ActionConnect, err: m.machine.Connect(m.ctx)}
	}
}

func (m Model) primaryAction() tea.Cmd {
	return func() tea.Msg {
		action, err := m.machine.PrimaryAction(m.ctx)
		return actionMsg{action: action, err: err}
	}
}

func (m Model) reconnect() tea.Cmd {
	return func() tea.Msg {
		return actionMsg{action: ui.ActionConnect, err: m.machine.Reconnect(m.ctx)}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := m.opts.Title
	if title == "" {
		title = "punkmint"
	}
	b.WriteString(titleStyle.Render("Welcome to " + title + "!"))
	b.WriteString("\n")
	if m.opts.Description != "" {
		b.WriteString(textStyle.Render(m.opts.Description))
		b.WriteString("\n")
	}

	if m.state.WalletConnected {
		b.WriteString(textStyle.Render(m.state.Progress()))
		b.WriteString("\n")
		if m.state.Account != "" {
			b.WriteString(mutedStyle.Render("Account " + m.state.Account))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.renderButton())
	b.WriteString("\n")

	if n := m.state.Notice; n != nil {
		color := noticeColor(n.Level)
		b.WriteString(noticeBox.BorderForeground(color).Foreground(color).Render(n.Message))
		b.WriteString("\n")
	} else if msg := errorText(m.lastErr); msg != "" {
		b.WriteString(noticeBox.BorderForeground(colorError).Foreground(colorError).Render(msg))
		b.WriteString("\n")
	}

	if m.prompt != nil {
		b.WriteString(m.renderPrompt())
		b.WriteString("\n")
	}

	b.WriteString(mutedStyle.Render(m.help()))
	return appStyle.Render(b.String())
}

func (m Model) renderButton() string {
	label := m.state.Label()
	if m.state.Loading {
		return busyButtonStyle.Render(m.spin.View() + " " + label)
	}
	return buttonStyle.Render(label)
}

func (m Model) renderPrompt() string {
	if m.prompt.kind == promptConfirm {
		return promptBox.Render(m.prompt.text + "\n" + mutedStyle.Render("y confirm • n decline"))
	}
	return promptBox.Render(m.prompt.text + "\n" + m.input.View() + "\n" + mutedStyle.Render("enter submit • esc cancel"))
}

func (m Model) help() string {
	if m.state.WalletConnected {
		return "enter mint • r reconnect • x dismiss • q quit"
	}
	return "enter connect • q quit"
}

// errorText renders failures the machine did not already turn into a
// notice.
func errorText(err error) string {
	if err == nil || minterr.Is(err, minterr.ErrMintPending) {
		return ""
	}
	if minterr.Is(err, context.Canceled) {
		return ""
	}
	var me *minterr.MintError
	if minterr.As(err, &me) {
		return me.Message
	}
	return err.Error()
}
