package chain_test

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/mrz1836/punkmint/internal/chain"
)

// fakeBackend overrides the calls under test. Anything else panics on the
// nil embedded interface.
type fakeBackend struct {
	chain.Backend

	mu       sync.Mutex
	chainID  int64
	head     uint64
	receipts []*types.Receipt // served in order, nil means pending
	lookups  int
	failWith error
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return big.NewInt(f.chainID), nil
}

func (f *fakeBackend) BlockNumber(context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.head++
	return f.head, nil
}

func (f *fakeBackend) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.lookups
	f.lookups++
	if i >= len(f.receipts) {
		i = len(f.receipts) - 1
	}
	if i < 0 || f.receipts[i] == nil {
		return nil, ethereum.NotFound
	}
	return f.receipts[i], nil
}
