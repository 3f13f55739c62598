// Package wallettest provides scripted wallets for tests of code built on
// wallet.Wallet.
package wallettest

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/mrz1836/punkmint/internal/chain"
	"github.com/mrz1836/punkmint/internal/wallet"
	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

// Wallet connects to a fixed backend with a fixed key.
type Wallet struct {
	mu         sync.Mutex
	backend    chain.Backend
	key        *ecdsa.PrivateKey
	connectErr error
	rejectSign bool
	connects   int
	sessions   []*Session
}

// Compile-time interface checks
var (
	_ wallet.Wallet  = (*Wallet)(nil)
	_ wallet.Session = (*Session)(nil)
)

// New returns a wallet holding a fresh key connected to backend.
func New(backend chain.Backend) *Wallet {
	key, err := crypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return &Wallet{backend: backend, key: key}
}

// Address returns the wallet account.
func (w *Wallet) Address() common.Address {
	return crypto.PubkeyToAddress(w.key.PublicKey)
}

// RejectConnect makes Connect fail as if the user dismissed the prompt.
func (w *Wallet) RejectConnect() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.connectErr = minterr.WithDetails(minterr.ErrConnection, map[string]string{
		"reason": "connection request declined",
	})
}

// FailConnect makes Connect fail with err.
func (w *Wallet) FailConnect(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.connectErr = err
}

// RejectSignatures makes every signature request fail as if declined.
func (w *Wallet) RejectSignatures(reject bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rejectSign = reject
}

// Connects counts wallet prompts.
func (w *Wallet) Connects() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connects
}

// Sessions returns every session handed out.
func (w *Wallet) Sessions() []*Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]*Session(nil), w.sessions...)
}

// Connect implements wallet.Wallet.
func (w *Wallet) Connect(context.Context) (wallet.Session, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.connects++
	if w.connectErr != nil {
		return nil, w.connectErr
	}
	s := &Session{wallet: w}
	w.sessions = append(w.sessions, s)
	return s, nil
}

// Session is a connected Wallet.
type Session struct {
	wallet *Wallet

	mu     sync.Mutex
	closed bool
}

// Account implements wallet.Session.
func (s *Session) Account() common.Address { return s.wallet.Address() }

// Backend implements wallet.Session.
func (s *Session) Backend() chain.Backend { return s.wallet.backend }

// ChainID implements wallet.Session.
func (s *Session) ChainID(ctx context.Context) (*big.Int, error) {
	return s.wallet.backend.ChainID(ctx)
}

// Signer implements wallet.Session.
func (s *Session) Signer(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.wallet.key, chainID)
	if err != nil {
		return nil, err
	}
	sign := opts.Signer
	opts.Signer = func(from common.Address, tx *types.Transaction) (*types.Transaction, error) {
		s.wallet.mu.Lock()
		reject := s.wallet.rejectSign
		s.wallet.mu.Unlock()
		if reject {
			return nil, minterr.WithDetails(minterr.ErrTxRejected, map[string]string{
				"reason": "signature declined",
			})
		}
		return sign(from, tx)
	}
	opts.Context = ctx
	return opts, nil
}

// Close implements wallet.Session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
