// Package chaintest provides an in-memory node hosting a mint contract for
// tests of code built on chain.Backend.
package chaintest

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/mrz1836/punkmint/internal/chain"
)

// Selectors of the mint contract's functions.
var (
	MintSelector        = crypto.Keccak256([]byte("mint()"))[:4]
	TokenIDsSelector    = crypto.Keccak256([]byte("tokenIds()"))[:4]
	MaxTokenIDsSelector = crypto.Keccak256([]byte("maxTokenIds()"))[:4]
)

// ContractAddress is where the node hosts its mint contract.
//
//nolint:gochecknoglobals // test fixture
var ContractAddress = common.HexToAddress("0x0000000000000000000000000000000000001001")

// Node is a single-contract chain. Methods not listed below panic through
// the nil embedded Backend.
type Node struct {
	chain.Backend

	mu            sync.Mutex
	chainID       int64
	price         *big.Int
	minted        uint64
	maxSupply     uint64
	head          uint64
	nonces        map[common.Address]uint64
	receipts      map[common.Hash]*types.Receipt
	pendingPolls  int
	sent          []*types.Transaction
	contractCalls int
	failReads     int
	sendErr       error
	chainIDErr    error
}

// NewNode returns a node on chainID whose contract charges price and has
// minted tokens out of maxSupply.
func NewNode(chainID int64, price *big.Int, minted, maxSupply uint64) *Node {
	return &Node{
		chainID:   chainID,
		price:     new(big.Int).Set(price),
		minted:    minted,
		maxSupply: maxSupply,
		head:      100,
		nonces:    make(map[common.Address]uint64),
		receipts:  make(map[common.Hash]*types.Receipt),
	}
}

// SetChainID switches the network the node reports.
func (n *Node) SetChainID(id int64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.chainID = id
}

// FailReads makes the next count contract reads fail.
func (n *Node) FailReads(count int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failReads = count
}

// FailSends makes every SendTransaction fail with err.
func (n *Node) FailSends(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sendErr = err
}

// FailChainID makes ChainID fail with err.
func (n *Node) FailChainID(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.chainIDErr = err
}

// DelayReceipts keeps each new receipt hidden for polls lookups.
func (n *Node) DelayReceipts(polls int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pendingPolls = polls
}

// Minted returns the on-chain minted count.
func (n *Node) Minted() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.minted
}

// Sent returns every transaction the node accepted.
func (n *Node) Sent() []*types.Transaction {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*types.Transaction(nil), n.sent...)
}

// ContractCalls counts requests that touched the contract: calls, gas
// estimates, and sends.
func (n *Node) ContractCalls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.contractCalls
}

// ChainID implements chain.Backend.
func (n *Node) ChainID(context.Context) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.chainIDErr != nil {
		return nil, n.chainIDErr
	}
	return big.NewInt(n.chainID), nil
}

// BlockNumber implements chain.Backend.
func (n *Node) BlockNumber(context.Context) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.head, nil
}

// BalanceAt implements chain.Backend.
func (n *Node) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	return new(big.Int).Mul(big.NewInt(5), big.NewInt(1e18)), nil
}

// HeaderByNumber implements bind.ContractTransactor.
func (n *Node) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return &types.Header{Number: new(big.Int).SetUint64(n.head)}, nil
}

// CodeAt implements bind.ContractCaller.
func (n *Node) CodeAt(_ context.Context, account common.Address, _ *big.Int) ([]byte, error) {
	if account == ContractAddress {
		return []byte{0x60, 0x80}, nil
	}
	return nil, nil
}

// PendingCodeAt implements bind.ContractTransactor.
func (n *Node) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return n.CodeAt(ctx, account, nil)
}

// PendingNonceAt implements bind.ContractTransactor.
func (n *Node) PendingNonceAt(_ context.Context, account common.Address) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.nonces[account], nil
}

// SuggestGasPrice implements bind.ContractTransactor.
func (n *Node) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(30_000_000_000), nil
}

// SuggestGasTipCap implements bind.ContractTransactor.
func (n *Node) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

// EstimateGas implements bind.ContractTransactor.
func (n *Node) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.contractCalls++
	return 120_000, nil
}

// CallContract implements bind.ContractCaller.
func (n *Node) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.contractCalls++

	if n.failReads > 0 {
		n.failReads--
		return nil, errors.New("header not found")
	}
	if call.To == nil || *call.To != ContractAddress || len(call.Data) < 4 {
		return nil, errors.New("execution reverted")
	}

	switch string(call.Data[:4]) {
	case string(TokenIDsSelector):
		return word(n.minted), nil
	case string(MaxTokenIDsSelector):
		return word(n.maxSupply), nil
	default:
		return nil, errors.New("execution reverted")
	}
}

// SendTransaction implements bind.ContractTransactor. Mint calls are mined
// at once; a wrong payment or an exhausted supply produces a failed receipt.
func (n *Node) SendTransaction(_ context.Context, tx *types.Transaction) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.contractCalls++

	if n.sendErr != nil {
		return n.sendErr
	}

	from, err := types.Sender(types.LatestSignerForChainID(big.NewInt(n.chainID)), tx)
	if err != nil {
		return err
	}
	n.nonces[from] = tx.Nonce() + 1
	n.sent = append(n.sent, tx)
	n.head++

	status := types.ReceiptStatusSuccessful
	isMint := tx.To() != nil && *tx.To() == ContractAddress &&
		len(tx.Data()) >= 4 && string(tx.Data()[:4]) == string(MintSelector)
	switch {
	case !isMint, tx.Value().Cmp(n.price) != 0, n.minted >= n.maxSupply:
		status = types.ReceiptStatusFailed
	default:
		n.minted++
	}

	n.receipts[tx.Hash()] = &types.Receipt{
		Status:      status,
		TxHash:      tx.Hash(),
		BlockNumber: new(big.Int).SetUint64(n.head),
		GasUsed:     90_000,
	}
	return nil
}

// TransactionReceipt implements chain.Backend.
func (n *Node) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	r, ok := n.receipts[hash]
	if !ok {
		return nil, ethereum.NotFound
	}
	if n.pendingPolls > 0 {
		n.pendingPolls--
		return nil, ethereum.NotFound
	}
	return r, nil
}

// Close implements chain.Backend.
func (n *Node) Close() {}

func word(v uint64) []byte {
	return common.LeftPadBytes(new(big.Int).SetUint64(v).Bytes(), 32)
}
