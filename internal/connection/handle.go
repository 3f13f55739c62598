package connection

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/mrz1836/punkmint/internal/chain"
	"github.com/mrz1836/punkmint/internal/wallet"
	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

// Handle is read-only or write-capable access to the network the wallet
// session is connected to. A handle only carries a chain id once the
// network guard has verified it; Pin returns a new handle and never
// modifies the receiver, so a cached handle is never trusted across calls.
type Handle struct {
	session  wallet.Session
	writable bool
	chainID  *big.Int
}

// Backend returns the node connection of the session.
func (h *Handle) Backend() chain.Backend {
	return h.session.Backend()
}

// Account returns the wallet account of the session.
func (h *Handle) Account() common.Address {
	return h.session.Account()
}

// Writable reports whether the handle may sign transactions.
func (h *Handle) Writable() bool {
	return h.writable
}

// NetworkID reads the chain id the wallet is connected to right now.
func (h *Handle) NetworkID(ctx context.Context) (*big.Int, error) {
	id, err := h.session.ChainID(ctx)
	if err != nil {
		return nil, minterr.Classify(minterr.ErrNetworkError, err)
	}
	return id, nil
}

// Pin returns a copy of h bound to a verified chain id.
func (h *Handle) Pin(id *big.Int) *Handle {
	return &Handle{
		session:  h.session,
		writable: h.writable,
		chainID:  new(big.Int).Set(id),
	}
}

// ChainID returns the verified chain id, if the handle was pinned.
func (h *Handle) ChainID() (*big.Int, bool) {
	if h.chainID == nil {
		return nil, false
	}
	return new(big.Int).Set(h.chainID), true
}

// Transactor returns signing options for the pinned chain id.
func (h *Handle) Transactor(ctx context.Context) (*bind.TransactOpts, error) {
	if !h.writable {
		return nil, minterr.WithDetails(minterr.ErrConnection, map[string]string{
			"reason": "read-only handle cannot sign",
		})
	}
	id, ok := h.ChainID()
	if !ok {
		return nil, minterr.WithDetails(minterr.ErrWrongNetwork, map[string]string{
			"reason": "network not verified",
		})
	}
	return h.session.Signer(ctx, id)
}
