// Package ui holds the session state of the mint client and the single
// primary action whose meaning depends on it.
package ui

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/mrz1836/punkmint/internal/config"
	"github.com/mrz1836/punkmint/internal/connection"
	"github.com/mrz1836/punkmint/internal/mint"
	"github.com/mrz1836/punkmint/internal/notify"
	"github.com/mrz1836/punkmint/internal/poller"
	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

// Connector manages the wallet session.
type Connector interface {
	Acquire(ctx context.Context, needsWriteAccess bool) (*connection.Handle, error)
	Reconnect(ctx context.Context) (*connection.Handle, error)
	Close()
}

// Minter runs the mint workflow.
type Minter interface {
	Run(ctx context.Context, obs mint.Observer) (*mint.Result, error)
}

// SupplyPoller streams supply snapshots.
type SupplyPoller interface {
	Start(ctx context.Context) (<-chan poller.Snapshot, error)
	Stop()
}

// MaxSupplyReader reads the collection size.
type MaxSupplyReader interface {
	ReadMaxSupply(ctx context.Context) (string, error)
}

// Compile-time interface checks
var (
	_ Connector       = (*connection.Provider)(nil)
	_ Minter          = (*mint.Workflow)(nil)
	_ SupplyPoller    = (*poller.Poller)(nil)
	_ MaxSupplyReader = (*poller.ContractSource)(nil)
	_ notify.Notifier = (*Machine)(nil)
)

// Config holds the collaborators of a Machine.
type Config struct {
	Connections Connector
	Workflow    Minter
	Poller      SupplyPoller
	// MaxSupply is optional; without it, or when the read fails,
	// DefaultMaxSupply is shown.
	MaxSupply        MaxSupplyReader
	DefaultMaxSupply string
	Logger           config.LogWriter
}

// Machine owns State. State changes only when an operation completes or a
// workflow stage is entered, and every change is pushed to subscribers.
type Machine struct {
	cfg Config

	// busy is taken before any action starts, so concurrent triggers
	// collapse into one.
	busy atomic.Bool

	mu          sync.Mutex
	state       State
	subscribers []func(State)
	polling     bool

	life   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Machine. Close releases it.
func New(cfg *Config) *Machine {
	c := *cfg
	if c.Logger == nil {
		c.Logger = config.NullLogger()
	}
	if c.DefaultMaxSupply == "" {
		c.DefaultMaxSupply = "0"
	}

	life, cancel := context.WithCancel(context.Background())
	return &Machine{
		cfg: c,
		state: State{
			MintedCount: "0",
			MaxSupply:   c.DefaultMaxSupply,
		},
		life:   life,
		cancel: cancel,
	}
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Label returns the caption of the primary button.
func (m *Machine) Label() string {
	return m.State().Label()
}

// Subscribe registers fn to receive every state change. fn is called
// without locks held and must not block for long.
func (m *Machine) Subscribe(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// PrimaryAction connects when disconnected and mints when connected. While
// another action is in flight, in particular while a mint is pending, it
// does nothing and returns ActionNone.
func (m *Machine) PrimaryAction(ctx context.Context) (Action, error) {
	if !m.busy.CompareAndSwap(false, true) {
		return ActionNone, nil
	}
	defer m.busy.Store(false)

	st := m.State()
	switch {
	case !st.WalletConnected:
		return ActionConnect, m.connect(ctx)
	case st.Loading:
		return ActionNone, nil
	default:
		_, err := m.cfg.Workflow.Run(ctx, m.observe)
		return ActionMint, err
	}
}

// Connect establishes the wallet session and starts the supply poller
// exactly once. It does nothing while connected.
func (m *Machine) Connect(ctx context.Context) error {
	if !m.busy.CompareAndSwap(false, true) {
		return nil
	}
	defer m.busy.Store(false)
	return m.connect(ctx)
}

func (m *Machine) connect(ctx context.Context) error {
	if m.State().WalletConnected {
		return nil
	}

	h, err := m.cfg.Connections.Acquire(ctx, false)
	if err != nil {
		m.cfg.Logger.Error("connect: %v", err)
		m.reportConnectFailure(err)
		return err
	}

	m.update(func(s *State) {
		s.WalletConnected = true
		s.Account = h.Account().Hex()
	})
	m.startPolling()
	return nil
}

// Reconnect replaces the wallet session, picking up a changed account. The
// poller keeps running and reads through the new session; when the prompt
// is declined its reads fail quietly until the user connects again.
func (m *Machine) Reconnect(ctx context.Context) error {
	if !m.busy.CompareAndSwap(false, true) {
		return nil
	}
	defer m.busy.Store(false)

	h, err := m.cfg.Connections.Reconnect(ctx)
	if err != nil {
		m.cfg.Logger.Error("reconnect: %v", err)
		m.update(func(s *State) {
			s.WalletConnected = false
			s.Account = ""
		})
		m.reportConnectFailure(err)
		return err
	}

	m.update(func(s *State) {
		s.WalletConnected = true
		s.Account = h.Account().Hex()
	})
	m.startPolling()
	return nil
}

// Notify implements notify.Notifier. A notice identical to the one on
// display is dropped so that per-tick warnings do not repeat.
func (m *Machine) Notify(n notify.Notice) {
	m.updateIf(func(s *State) bool {
		if s.Notice != nil && *s.Notice == n {
			return false
		}
		s.Notice = &n
		return true
	})
}

// DismissNotice clears the notice on display.
func (m *Machine) DismissNotice() {
	m.update(func(s *State) { s.Notice = nil })
}

// Close stops the poller and ends the wallet session.
func (m *Machine) Close() {
	m.cancel()

	m.mu.Lock()
	polling := m.polling
	m.mu.Unlock()
	if polling && m.cfg.Poller != nil {
		m.cfg.Poller.Stop()
	}
	m.wg.Wait()

	m.cfg.Connections.Close()
}

// observe mirrors workflow stages into Loading: set once the transaction
// is being submitted, cleared when the run ends either way.
func (m *Machine) observe(stage mint.Stage) {
	m.update(func(s *State) {
		s.Stage = stage
		switch stage {
		case mint.Submitting, mint.Confirming:
			s.Loading = true
		case mint.Succeeded, mint.Failed, mint.Idle:
			s.Loading = false
		}
	})
}

func (m *Machine) startPolling() {
	m.mu.Lock()
	if m.polling || m.cfg.Poller == nil {
		m.mu.Unlock()
		return
	}
	m.polling = true
	m.mu.Unlock()

	snapshots, err := m.cfg.Poller.Start(m.life)
	if err != nil {
		m.cfg.Logger.Error("starting supply poller: %v", err)
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.loadMaxSupply()
		for snap := range snapshots {
			minted := snap.Minted
			m.update(func(s *State) { s.MintedCount = minted })
		}
	}()
}

func (m *Machine) loadMaxSupply() {
	if m.cfg.MaxSupply == nil {
		return
	}
	maxSupply, err := m.cfg.MaxSupply.ReadMaxSupply(m.life)
	if err != nil {
		m.cfg.Logger.Debug("reading max supply, keeping %s: %v", m.cfg.DefaultMaxSupply, err)
		return
	}
	m.update(func(s *State) { s.MaxSupply = maxSupply })
}

func (m *Machine) reportConnectFailure(err error) {
	if minterr.Is(err, minterr.ErrWrongNetwork) {
		return
	}
	var me *minterr.MintError
	if minterr.As(err, &me) {
		notify.Errorf(m, "Could not connect your wallet: %s", me.Message)
		return
	}
	notify.Errorf(m, "Could not connect your wallet: %v", err)
}

func (m *Machine) update(fn func(*State)) {
	m.updateIf(func(s *State) bool {
		fn(s)
		return true
	})
}

// updateIf applies fn and notifies subscribers when fn reports a change.
func (m *Machine) updateIf(fn func(*State) bool) {
	m.mu.Lock()
	if !fn(&m.state) {
		m.mu.Unlock()
		return
	}
	st := m.state
	subs := slices.Clone(m.subscribers)
	m.mu.Unlock()

	for _, sub := range subs {
		sub(st)
	}
}
