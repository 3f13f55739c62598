package chain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/punkmint/internal/chain"
	"github.com/mrz1836/punkmint/internal/metrics"
)

func TestLimitedBackend_RecordsCalls(t *testing.T) {
	t.Parallel()

	m := &metrics.Metrics{}
	b := chain.NewLimitedBackend(&fakeBackend{chainID: 80001}, "mumbai", nil, m)

	id, err := b.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(80001), id.Int64())

	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.RPCCallsTotal)
	assert.Equal(t, int64(0), snap.RPCErrorsTotal)
}

func TestLimitedBackend_RecordsErrors(t *testing.T) {
	t.Parallel()

	m := &metrics.Metrics{}
	b := chain.NewLimitedBackend(&fakeBackend{failWith: errors.New("boom")}, "mumbai", nil, m)

	_, err := b.ChainID(context.Background())
	require.Error(t, err)
	assert.Equal(t, int64(1), m.Snapshot().RPCErrorsTotal)
}

func TestLimitedBackend_PendingReceiptIsNotAnError(t *testing.T) {
	t.Parallel()

	m := &metrics.Metrics{}
	b := chain.NewLimitedBackend(&fakeBackend{}, "mumbai", nil, m)

	_, err := b.TransactionReceipt(context.Background(), common.Hash{})
	require.Error(t, err)
	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.RPCCallsTotal)
	assert.Equal(t, int64(0), snap.RPCErrorsTotal)
}

func TestLimitedBackend_RespectsLimiter(t *testing.T) {
	t.Parallel()

	limiter := chain.NewRateLimiter(0.001, 1)
	b := chain.NewLimitedBackend(&fakeBackend{chainID: 1}, "slow", limiter, &metrics.Metrics{})

	_, err := b.ChainID(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = b.ChainID(ctx)
	require.Error(t, err)
}
