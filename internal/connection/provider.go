// Package connection hands out chain handles backed by a single wallet
// session per process.
package connection

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/mrz1836/punkmint/internal/config"
	"github.com/mrz1836/punkmint/internal/wallet"
	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

// Provider obtains chain handles from a wallet. The first Acquire connects
// the wallet, which prompts the user; later calls reuse the session. The
// read handle is cached until Reconnect; write handles are built fresh on
// every call because the wallet may switch network or account in between.
type Provider struct {
	wallet wallet.Wallet
	logger config.LogWriter

	mu      sync.Mutex
	session wallet.Session
	read    *Handle
}

// NewProvider creates a provider for w.
func NewProvider(w wallet.Wallet, logger config.LogWriter) *Provider {
	if logger == nil {
		logger = config.NullLogger()
	}
	return &Provider{wallet: w, logger: logger}
}

// Acquire returns a read handle, or a write handle when needsWriteAccess is
// set. Connection failures are reported as errors.ErrConnection.
func (p *Provider) Acquire(ctx context.Context, needsWriteAccess bool) (*Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.connectLocked(ctx); err != nil {
		return nil, err
	}
	if !needsWriteAccess {
		return p.read, nil
	}
	return &Handle{session: p.session, writable: true}, nil
}

// Current returns the cached read handle without ever prompting. Background
// readers use it so that only the user opens the wallet prompt; without a
// session it fails with errors.ErrConnection.
func (p *Provider) Current() (*Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.read == nil {
		return nil, minterr.WithSuggestion(minterr.ErrConnection, "connect your wallet first")
	}
	return p.read, nil
}

func (p *Provider) connectLocked(ctx context.Context) error {
	if p.session != nil {
		return nil
	}

	p.logger.Debug("connecting wallet")
	session, err := p.wallet.Connect(ctx)
	if err != nil {
		if !minterr.Is(err, minterr.ErrConnection) {
			err = minterr.Classify(minterr.ErrConnection, err)
		}
		p.logger.Error("wallet connection failed: %v", err)
		return err
	}
	p.session = session
	p.read = &Handle{session: session}
	p.logger.Debug("wallet connected: %s", session.Account().Hex())
	return nil
}

// Connected reports whether a wallet session is established.
func (p *Provider) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session != nil
}

// Account returns the connected account.
func (p *Provider) Account() (common.Address, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return common.Address{}, false
	}
	return p.session.Account(), true
}

// Reconnect drops the current session and connects again. Readers never
// observe the gap between the two.
func (p *Provider) Reconnect(ctx context.Context) (*Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closeLocked()
	if err := p.connectLocked(ctx); err != nil {
		return nil, err
	}
	return p.read, nil
}

// Close ends the wallet session. A later Acquire connects again.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
}

func (p *Provider) closeLocked() {
	if p.session != nil {
		p.session.Close()
		p.logger.Debug("wallet session closed")
	}
	p.session = nil
	p.read = nil
}
