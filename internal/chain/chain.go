// Package chain provides the EVM plumbing shared by the mint client: the
// Backend capability handed out by wallets, RPC rate limiting and metering,
// amount and address handling, transaction error classification, and
// confirmation waiting.
package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

// NativeDecimals is the number of decimals of the native currency of every
// EVM network (wei per ether, or per MATIC).
const NativeDecimals = 18

// Backend is read and write access to one JSON-RPC node. It is what a
// wallet session exposes and what contract proxies are bound to.
type Backend interface {
	bind.ContractBackend

	// ChainID returns the chain id the node is serving.
	ChainID(ctx context.Context) (*big.Int, error)

	// BlockNumber returns the current head block number.
	BlockNumber(ctx context.Context) (uint64, error)

	// TransactionReceipt returns the receipt of a mined transaction, or
	// ethereum.NotFound while it is still pending.
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)

	// BalanceAt returns the native balance of an account.
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)

	// Close releases the underlying connection.
	Close()
}

// Compile-time interface check
var _ Backend = (*ethclient.Client)(nil)

// Dial connects to a JSON-RPC endpoint.
func Dial(ctx context.Context, rpcURL string) (Backend, error) {
	if rpcURL == "" {
		return nil, minterr.WithDetails(minterr.ErrConfigInvalid, map[string]string{
			"field":  "network.rpc",
			"reason": "RPC URL is required",
		})
	}

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, minterr.Classify(minterr.ErrNetworkError, fmt.Errorf("dialing %s: %w", rpcURL, err))
	}
	return client, nil
}
