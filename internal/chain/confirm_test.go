package chain_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/punkmint/internal/chain"
	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

func testTx() *types.Transaction {
	return types.NewTx(&types.LegacyTx{Nonce: 7, Gas: 21000, GasPrice: big.NewInt(1)})
}

func TestWaitConfirmations_Mined(t *testing.T) {
	t.Parallel()

	mined := &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(42)}
	b := &fakeBackend{receipts: []*types.Receipt{nil, nil, mined}}

	rcpt, err := chain.WaitConfirmations(context.Background(), b, testTx(), 1, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, mined, rcpt)
	assert.Equal(t, 3, b.lookups)
}

func TestWaitConfirmations_Reverted(t *testing.T) {
	t.Parallel()

	failed := &types.Receipt{Status: types.ReceiptStatusFailed, BlockNumber: big.NewInt(9)}
	b := &fakeBackend{receipts: []*types.Receipt{failed}}

	rcpt, err := chain.WaitConfirmations(context.Background(), b, testTx(), 1, time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, minterr.ErrTxReverted)
	assert.Equal(t, failed, rcpt)
}

func TestWaitConfirmations_WaitsForDepth(t *testing.T) {
	t.Parallel()

	mined := &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(1)}
	b := &fakeBackend{receipts: []*types.Receipt{mined}}

	_, err := chain.WaitConfirmations(context.Background(), b, testTx(), 3, time.Millisecond)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, b.head, uint64(3))
}

func TestWaitConfirmations_Canceled(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{receipts: []*types.Receipt{nil}}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := chain.WaitConfirmations(ctx, b, testTx(), 1, time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, minterr.ErrNetworkError)
}
