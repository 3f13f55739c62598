// Package wallet defines the boundary between the mint client and the key
// holder that signs its transactions, and ships one concrete holder: an
// age-encrypted key file unlocked with a password prompt.
package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/mrz1836/punkmint/internal/chain"
)

// Wallet is an external key holder. Connect asks the user for access;
// declining, or having no wallet at all, fails with errors.ErrConnection.
type Wallet interface {
	Connect(ctx context.Context) (Session, error)
}

// Session is an unlocked wallet bound to one RPC node.
type Session interface {
	// Account returns the address transactions are sent from.
	Account() common.Address

	// Backend returns access to the node the wallet is connected to.
	Backend() chain.Backend

	// ChainID returns the chain id the wallet is currently connected to.
	ChainID(ctx context.Context) (*big.Int, error)

	// Signer returns transaction options that sign for chainID. Every
	// signature is confirmed with the user; declining fails the send with
	// errors.ErrTxRejected.
	Signer(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error)

	// Close locks the wallet and releases the node connection.
	Close()
}

// Prompter asks the user for wallet input.
type Prompter interface {
	// Password asks for a secret. An empty answer means the user declined.
	Password(ctx context.Context, prompt string) (string, error)

	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// AutoConfirm wraps a Prompter so that Confirm always answers yes.
// Used by non-interactive mints (--yes).
type AutoConfirm struct {
	Prompter
}

// Confirm implements Prompter.
func (AutoConfirm) Confirm(context.Context, string) (bool, error) {
	return true, nil
}
