package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/mrz1836/punkmint/internal/chain"
	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

// DialFunc opens the node connection a session signs against.
type DialFunc func(ctx context.Context) (chain.Backend, error)

// KeyFileConfig configures a KeyFile wallet.
type KeyFileConfig struct {
	// Path is the age-encrypted key file.
	Path string

	// Password unlocks the key without prompting when set.
	Password string

	// Prompter asks for the password and confirms every signature.
	Prompter Prompter

	// Dial connects the unlocked wallet to its node.
	Dial DialFunc
}

// KeyFile is a Wallet backed by a local encrypted key file.
type KeyFile struct {
	cfg KeyFileConfig
}

// Compile-time interface checks
var (
	_ Wallet  = (*KeyFile)(nil)
	_ Session = (*keySession)(nil)
)

// NewKeyFile creates a key file wallet.
func NewKeyFile(cfg KeyFileConfig) *KeyFile {
	return &KeyFile{cfg: cfg}
}

// Connect unlocks the key file and connects it to the node. A missing key
// file, a declined or wrong password, or an unreachable node all fail with
// errors.ErrConnection.
func (w *KeyFile) Connect(ctx context.Context) (Session, error) {
	info, err := ReadKeyInfo(w.cfg.Path)
	if err != nil {
		return nil, minterr.Classify(minterr.ErrConnection, err)
	}

	password := w.cfg.Password
	if password == "" {
		if w.cfg.Prompter == nil {
			return nil, minterr.WithSuggestion(minterr.ErrConnection, "run interactively or set PUNKMINT_WALLET_PASSWORD")
		}
		password, err = w.cfg.Prompter.Password(ctx, fmt.Sprintf("Password for %s: ", info.Address.Hex()))
		if err != nil {
			return nil, minterr.Classify(minterr.ErrConnection, err)
		}
		if password == "" {
			return nil, minterr.WithDetails(minterr.ErrConnection, map[string]string{
				"reason": "connection request declined",
			})
		}
	}

	raw, _, err := UnlockKey(w.cfg.Path, password)
	if err != nil {
		return nil, minterr.Classify(minterr.ErrConnection, err)
	}
	key := newSecret(raw)
	zero(raw)

	if w.cfg.Dial == nil {
		key.destroy()
		return nil, minterr.Classify(minterr.ErrConnection, errors.New("no RPC endpoint configured"))
	}
	backend, err := w.cfg.Dial(ctx)
	if err != nil {
		key.destroy()
		return nil, minterr.Classify(minterr.ErrConnection, err)
	}

	return &keySession{
		account:  info.Address,
		backend:  backend,
		key:      key,
		prompter: w.cfg.Prompter,
	}, nil
}

type keySession struct {
	account  common.Address
	backend  chain.Backend
	key      *secret
	prompter Prompter

	closeOnce sync.Once
}

func (s *keySession) Account() common.Address { return s.account }

func (s *keySession) Backend() chain.Backend { return s.backend }

func (s *keySession) ChainID(ctx context.Context) (*big.Int, error) {
	return s.backend.ChainID(ctx)
}

func (s *keySession) Signer(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error) {
	priv, err := s.privateKey()
	if err != nil {
		return nil, err
	}

	opts, err := bind.NewKeyedTransactorWithChainID(priv, chainID)
	if err != nil {
		return nil, minterr.Classify(minterr.ErrConnection, err)
	}

	sign := opts.Signer
	opts.Signer = func(from common.Address, tx *types.Transaction) (*types.Transaction, error) {
		if err := s.confirm(ctx, tx); err != nil {
			return nil, err
		}
		return sign(from, tx)
	}
	opts.Context = ctx
	return opts, nil
}

func (s *keySession) Close() {
	s.closeOnce.Do(func() {
		s.key.destroy()
		s.backend.Close()
	})
}

func (s *keySession) privateKey() (*ecdsa.PrivateKey, error) {
	raw := s.key.bytes()
	if raw == nil {
		return nil, minterr.WithDetails(minterr.ErrConnection, map[string]string{
			"reason": "wallet is locked",
		})
	}
	key, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, minterr.Classify(minterr.ErrInvalidKey, err)
	}
	return key, nil
}

// confirm asks the user to approve a signature.
func (s *keySession) confirm(ctx context.Context, tx *types.Transaction) error {
	if s.prompter == nil {
		return minterr.WithDetails(minterr.ErrTxRejected, map[string]string{
			"reason": "no prompt available to confirm the signature",
		})
	}

	to := "contract creation"
	if tx.To() != nil {
		to = tx.To().Hex()
	}
	ok, err := s.prompter.Confirm(ctx, fmt.Sprintf("Sign transaction to %s paying %s?", to, chain.FormatEther(tx.Value())))
	if err != nil {
		return minterr.Classify(minterr.ErrTxRejected, err)
	}
	if !ok {
		return minterr.WithDetails(minterr.ErrTxRejected, map[string]string{
			"reason": "signature declined",
		})
	}
	return nil
}
