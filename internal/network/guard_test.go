package network_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/punkmint/internal/chain/chaintest"
	"github.com/mrz1836/punkmint/internal/connection"
	"github.com/mrz1836/punkmint/internal/network"
	"github.com/mrz1836/punkmint/internal/notify"
	"github.com/mrz1836/punkmint/internal/wallet/wallettest"
	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

type recorder struct{ notices []notify.Notice }

func (r *recorder) Notify(n notify.Notice) { r.notices = append(r.notices, n) }

func handleOn(t *testing.T, chainID int64) (*connection.Handle, *chaintest.Node) {
	t.Helper()
	node := chaintest.NewNode(chainID, big.NewInt(1e16), 0, 10)
	h, err := connection.NewProvider(wallettest.New(node), nil).Acquire(context.Background(), true)
	require.NoError(t, err)
	return h, node
}

func TestGuard_Pass(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	g := network.NewGuard(big.NewInt(80001), "Mumbai", rec, nil)
	h, _ := handleOn(t, 80001)

	pinned, err := g.Validate(context.Background(), h)
	require.NoError(t, err)

	id, ok := pinned.ChainID()
	require.True(t, ok)
	assert.Equal(t, int64(80001), id.Int64())
	assert.Empty(t, rec.notices)
}

func TestGuard_WrongNetwork(t *testing.T) {
	t.Parallel()

	for _, actual := range []int64{1, 137, 80002, 0} {
		rec := &recorder{}
		g := network.NewGuard(big.NewInt(80001), "Mumbai", rec, nil)
		h, node := handleOn(t, actual)

		pinned, err := g.Validate(context.Background(), h)
		require.ErrorIs(t, err, minterr.ErrWrongNetwork)
		assert.Nil(t, pinned)
		assert.Zero(t, node.ContractCalls(), "no contract call on chain %d", actual)

		require.Len(t, rec.notices, 1)
		assert.Equal(t, notify.Warning, rec.notices[0].Level)
		assert.Equal(t, "Change the network to Mumbai", rec.notices[0].Message)

		var me *minterr.MintError
		require.ErrorAs(t, err, &me)
		assert.Equal(t, "80001", me.Details["expected"])
	}
}

func TestGuard_ReadFailure(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	g := network.NewGuard(big.NewInt(80001), "Mumbai", rec, nil)
	h, node := handleOn(t, 80001)
	node.FailChainID(assert.AnError)

	_, err := g.Validate(context.Background(), h)
	require.ErrorIs(t, err, minterr.ErrNetworkError)
	assert.Empty(t, rec.notices)
}

func TestGuard_Required(t *testing.T) {
	t.Parallel()

	id := big.NewInt(80001)
	g := network.NewGuard(id, "Mumbai", nil, nil)
	id.SetInt64(1)
	assert.Equal(t, int64(80001), g.Required().Int64())
}
