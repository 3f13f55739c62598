package chain

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/mrz1836/punkmint/internal/metrics"
)

// LimitedBackend wraps a Backend so that every RPC the mint client issues
// waits on the endpoint's rate limiter and is recorded in metrics.
// Methods not overridden here pass through to the wrapped backend.
type LimitedBackend struct {
	Backend

	endpoint string
	limiter  *RateLimiter
	metrics  *metrics.Metrics
}

// Compile-time interface check
var _ Backend = (*LimitedBackend)(nil)

// NewLimitedBackend wraps b. A nil limiter disables throttling and a nil
// metrics sink records into metrics.Global.
func NewLimitedBackend(b Backend, endpoint string, limiter *RateLimiter, m *metrics.Metrics) *LimitedBackend {
	if limiter == nil {
		limiter = NewRateLimiter(0, 1)
	}
	if m == nil {
		m = metrics.Global
	}
	return &LimitedBackend{
		Backend:  b,
		endpoint: endpoint,
		limiter:  limiter,
		metrics:  m,
	}
}

// observe throttles and times fn. A pending receipt is not a failure.
func (b *LimitedBackend) observe(ctx context.Context, fn func() error) error {
	if err := b.limiter.Wait(ctx, b.endpoint); err != nil {
		return err
	}
	start := time.Now()
	err := fn()
	recorded := err
	if errors.Is(err, ethereum.NotFound) {
		recorded = nil
	}
	b.metrics.RecordRPCCall(time.Since(start), recorded)
	return err
}

// ChainID implements Backend.
func (b *LimitedBackend) ChainID(ctx context.Context) (id *big.Int, err error) {
	err = b.observe(ctx, func() error {
		id, err = b.Backend.ChainID(ctx)
		return err
	})
	return id, err
}

// BlockNumber implements Backend.
func (b *LimitedBackend) BlockNumber(ctx context.Context) (n uint64, err error) {
	err = b.observe(ctx, func() error {
		n, err = b.Backend.BlockNumber(ctx)
		return err
	})
	return n, err
}

// BalanceAt implements Backend.
func (b *LimitedBackend) BalanceAt(ctx context.Context, account common.Address, block *big.Int) (bal *big.Int, err error) {
	err = b.observe(ctx, func() error {
		bal, err = b.Backend.BalanceAt(ctx, account, block)
		return err
	})
	return bal, err
}

// TransactionReceipt implements Backend.
func (b *LimitedBackend) TransactionReceipt(ctx context.Context, hash common.Hash) (r *types.Receipt, err error) {
	err = b.observe(ctx, func() error {
		r, err = b.Backend.TransactionReceipt(ctx, hash)
		return err
	})
	return r, err
}

// CallContract implements bind.ContractCaller.
func (b *LimitedBackend) CallContract(ctx context.Context, call ethereum.CallMsg, block *big.Int) (out []byte, err error) {
	err = b.observe(ctx, func() error {
		out, err = b.Backend.CallContract(ctx, call, block)
		return err
	})
	return out, err
}

// EstimateGas implements bind.ContractTransactor.
func (b *LimitedBackend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (gas uint64, err error) {
	err = b.observe(ctx, func() error {
		gas, err = b.Backend.EstimateGas(ctx, call)
		return err
	})
	return gas, err
}

// SuggestGasPrice implements bind.ContractTransactor.
func (b *LimitedBackend) SuggestGasPrice(ctx context.Context) (price *big.Int, err error) {
	err = b.observe(ctx, func() error {
		price, err = b.Backend.SuggestGasPrice(ctx)
		return err
	})
	return price, err
}

// PendingNonceAt implements bind.ContractTransactor.
func (b *LimitedBackend) PendingNonceAt(ctx context.Context, account common.Address) (nonce uint64, err error) {
	err = b.observe(ctx, func() error {
		nonce, err = b.Backend.PendingNonceAt(ctx, account)
		return err
	})
	return nonce, err
}

// SendTransaction implements bind.ContractTransactor.
func (b *LimitedBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return b.observe(ctx, func() error {
		return b.Backend.SendTransaction(ctx, tx)
	})
}
