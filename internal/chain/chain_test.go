package chain_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/punkmint/internal/chain"
	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
}

// newRPCServer answers JSON-RPC methods from a fixed table.
func newRPCServer(t *testing.T, results map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if result, ok := results[req.Method]; ok {
			resp["result"] = result
		} else {
			resp["error"] = map[string]any{"code": -32601, "message": "method not found"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDial_ReadsFromNode(t *testing.T) {
	t.Parallel()

	srv := newRPCServer(t, map[string]string{
		"eth_chainId":     "0x13881",
		"eth_blockNumber": "0x64",
		"eth_getBalance":  "0xde0b6b3a7640000",
	})

	b, err := chain.Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer b.Close()

	id, err := b.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "80001", id.String())

	head, err := b.BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(100), head)

	bal, err := b.BalanceAt(context.Background(), common.HexToAddress("0x01"), nil)
	require.NoError(t, err)
	assert.Equal(t, "1", chain.FormatEther(bal))
}

func TestDial_LimitedBackendOverRPC(t *testing.T) {
	t.Parallel()

	srv := newRPCServer(t, map[string]string{"eth_chainId": "0x1"})

	b, err := chain.Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	defer b.Close()

	limited := chain.NewLimitedBackend(b, srv.URL, chain.NewRateLimiter(100, 1), nil)
	id, err := limited.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Int64())

	_, err = limited.BlockNumber(context.Background())
	require.Error(t, err, "method not in the table")
}

func TestDial_EmptyURL(t *testing.T) {
	t.Parallel()

	_, err := chain.Dial(context.Background(), "")
	require.ErrorIs(t, err, minterr.ErrConfigInvalid)
}

func TestDial_BadScheme(t *testing.T) {
	t.Parallel()

	_, err := chain.Dial(context.Background(), "ftp://example.com")
	require.ErrorIs(t, err, minterr.ErrNetworkError)
}
