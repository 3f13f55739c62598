// Package mint runs one paid mint from wallet connection to confirmation.
package mint

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mrz1836/punkmint/internal/chain"
	"github.com/mrz1836/punkmint/internal/config"
	"github.com/mrz1836/punkmint/internal/metrics"
	"github.com/mrz1836/punkmint/internal/notify"
	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

// Stage is a step of the mint workflow.
type Stage int

// Workflow stages, in order.
const (
	Idle Stage = iota
	Connecting
	ValidatingNetwork
	Submitting
	Confirming
	Succeeded
	Failed
)

// String implements fmt.Stringer.
func (s Stage) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case ValidatingNetwork:
		return "validating network"
	case Submitting:
		return "submitting"
	case Confirming:
		return "confirming"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result describes a confirmed mint.
type Result struct {
	TxHash  common.Hash `json:"tx_hash"`
	Block   uint64      `json:"block"`
	GasUsed uint64      `json:"gas_used"`
}

// Config holds the collaborators of a Workflow.
type Config struct {
	Connections HandleProvider
	Guard       NetworkValidator
	Gateway     ContractBinder

	// Confirmations is how deep the mint must be buried; 0 means 1.
	Confirmations uint64
	// ConfirmPoll is the receipt polling interval.
	ConfirmPoll time.Duration
	// TokenName names the token in the success notice.
	TokenName string

	Notifier notify.Notifier
	Logger   config.LogWriter
	Metrics  *metrics.Metrics
}

// Workflow mints one token per Run. Runs never overlap: a Run started
// while another is in flight fails with errors.ErrMintPending. Failures
// are never retried.
type Workflow struct {
	cfg     Config
	running atomic.Bool

	mu    sync.Mutex
	stage Stage
}

// NewWorkflow creates a workflow.
func NewWorkflow(cfg *Config) *Workflow {
	c := *cfg
	if c.Confirmations == 0 {
		c.Confirmations = 1
	}
	if c.ConfirmPoll <= 0 {
		c.ConfirmPoll = config.DefaultConfirmPoll
	}
	if c.TokenName == "" {
		c.TokenName = "token"
	}
	if c.Notifier == nil {
		c.Notifier = notify.Discard
	}
	if c.Logger == nil {
		c.Logger = config.NullLogger()
	}
	if c.Metrics == nil {
		c.Metrics = metrics.Global
	}
	return &Workflow{cfg: c}
}

// Pending reports whether a Run is in flight.
func (w *Workflow) Pending() bool {
	return w.running.Load()
}

// Stage returns the stage of the current or last run.
func (w *Workflow) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

// Run performs one mint. obs may be nil.
func (w *Workflow) Run(ctx context.Context, obs Observer) (*Result, error) {
	if !w.running.CompareAndSwap(false, true) {
		return nil, minterr.ErrMintPending
	}
	defer w.running.Store(false)

	if obs == nil {
		obs = func(Stage) {}
	}
	enter := func(s Stage) {
		w.mu.Lock()
		w.stage = s
		w.mu.Unlock()
		w.cfg.Logger.Debug("mint stage: %s", s)
		obs(s)
	}

	w.cfg.Metrics.RecordMintStarted()
	res, err := w.run(ctx, enter)
	w.cfg.Metrics.RecordMintFinished(err)

	if err != nil {
		enter(Failed)
		w.cfg.Logger.Error("mint failed: %v", err)
		w.report(err)
		return nil, err
	}

	enter(Succeeded)
	w.cfg.Logger.Debug("mint confirmed: tx %s block %d", res.TxHash.Hex(), res.Block)
	notify.Successf(w.cfg.Notifier, "You have successfully minted a %s!", w.cfg.TokenName)
	return res, nil
}

func (w *Workflow) run(ctx context.Context, enter func(Stage)) (*Result, error) {
	enter(Connecting)
	handle, err := w.cfg.Connections.Acquire(ctx, true)
	if err != nil {
		return nil, err
	}

	enter(ValidatingNetwork)
	handle, err = w.cfg.Guard.Validate(ctx, handle)
	if err != nil {
		return nil, err
	}

	enter(Submitting)
	proxy, err := w.cfg.Gateway.Bind(handle)
	if err != nil {
		return nil, err
	}
	tx, err := proxy.Mint(ctx)
	if err != nil {
		return nil, err
	}
	w.cfg.Logger.Debug("mint submitted: tx %s nonce %d", tx.Hash().Hex(), tx.Nonce())

	enter(Confirming)
	receipt, err := chain.WaitConfirmations(ctx, handle.Backend(), tx, w.cfg.Confirmations, w.cfg.ConfirmPoll)
	if err != nil {
		return nil, err
	}

	return &Result{
		TxHash:  tx.Hash(),
		Block:   receipt.BlockNumber.Uint64(),
		GasUsed: receipt.GasUsed,
	}, nil
}

// report shows a failure to the user. The network guard already told the
// user to switch networks, so wrong-network failures stay silent here.
func (w *Workflow) report(err error) {
	if minterr.Is(err, minterr.ErrWrongNetwork) {
		return
	}
	var me *minterr.MintError
	if errors.As(err, &me) {
		notify.Errorf(w.cfg.Notifier, "Mint failed: %s", me.Message)
		return
	}
	notify.Errorf(w.cfg.Notifier, "Mint failed: %v", err)
}
