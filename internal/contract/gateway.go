// Package contract binds the NFT contract to verified chain handles.
package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/mrz1836/punkmint/internal/chain"
	"github.com/mrz1836/punkmint/internal/connection"
	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

// Config describes the deployed contract.
type Config struct {
	Address common.Address
	ABI     abi.ABI
	// Price is the mint payment in wei.
	Price *big.Int
	// GasLimit fixes the mint gas limit; zero estimates it.
	GasLimit uint64
}

// Gateway produces contract proxies for chain handles.
type Gateway struct {
	cfg Config
}

// NewGateway validates cfg and creates a gateway.
func NewGateway(cfg Config) (*Gateway, error) {
	if cfg.Address == (common.Address{}) {
		return nil, minterr.WithDetails(minterr.ErrConfigInvalid, map[string]string{
			"field":  "contract.address",
			"reason": "contract address is required",
		})
	}
	if cfg.Price == nil || cfg.Price.Sign() < 0 {
		return nil, minterr.WithDetails(minterr.ErrConfigInvalid, map[string]string{
			"field":  "mint.price",
			"reason": "price must be zero or positive",
		})
	}
	if err := checkABI(cfg.ABI); err != nil {
		return nil, err
	}
	cfg.Price = new(big.Int).Set(cfg.Price)
	return &Gateway{cfg: cfg}, nil
}

// Address returns the contract address.
func (g *Gateway) Address() common.Address {
	return g.cfg.Address
}

// Price returns the mint payment in wei.
func (g *Gateway) Price() *big.Int {
	return new(big.Int).Set(g.cfg.Price)
}

// Bind creates a proxy over h. It makes no network call, and refuses
// handles whose network has not been verified.
func (g *Gateway) Bind(h *connection.Handle) (*Proxy, error) {
	if _, ok := h.ChainID(); !ok {
		return nil, minterr.WithDetails(minterr.ErrWrongNetwork, map[string]string{
			"reason": "network not verified",
		})
	}
	backend := h.Backend()
	return &Proxy{
		handle:   h,
		contract: bind.NewBoundContract(g.cfg.Address, g.cfg.ABI, backend, backend, backend),
		price:    g.cfg.Price,
		gasLimit: g.cfg.GasLimit,
	}, nil
}

// Proxy is the callable surface of the contract on one handle. A proxy is
// immutable; a new handle needs a new proxy.
type Proxy struct {
	handle   *connection.Handle
	contract *bind.BoundContract
	price    *big.Int
	gasLimit uint64
}

// Mint submits mint() paying the configured price and returns the pending
// transaction. Failures are classified: a declined signature is
// errors.ErrTxRejected, a poor account errors.ErrInsufficientFunds, and a
// call the contract refuses errors.ErrTxReverted.
func (p *Proxy) Mint(ctx context.Context) (*types.Transaction, error) {
	opts, err := p.handle.Transactor(ctx)
	if err != nil {
		return nil, err
	}

	gasPrice, err := p.handle.Backend().SuggestGasPrice(ctx)
	if err != nil {
		return nil, chain.ClassifyTxError(err)
	}

	opts.Context = ctx
	opts.Value = new(big.Int).Set(p.price)
	opts.GasPrice = gasPrice
	opts.GasLimit = p.gasLimit

	tx, err := p.contract.Transact(opts, MethodMint)
	if err != nil {
		return nil, chain.ClassifyTxError(err)
	}
	return tx, nil
}

// ReadSupply returns tokenIds(), the number of tokens minted so far, as a
// decimal string.
func (p *Proxy) ReadSupply(ctx context.Context) (string, error) {
	v, err := p.readUint(ctx, MethodTokenIDs)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// ReadMaxSupply returns maxTokenIds() as a decimal string.
func (p *Proxy) ReadMaxSupply(ctx context.Context) (string, error) {
	v, err := p.readUint(ctx, MethodMaxTokenIDs)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func (p *Proxy) readUint(ctx context.Context, method string) (*big.Int, error) {
	var out []interface{}
	if err := p.contract.Call(&bind.CallOpts{Context: ctx}, &out, method); err != nil {
		return nil, fmt.Errorf("calling %s(): %w", method, err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("calling %s(): unexpected %d outputs", method, len(out))
	}
	v, ok := abi.ConvertType(out[0], new(big.Int)).(*big.Int)
	if !ok {
		return nil, fmt.Errorf("calling %s(): result is not an integer", method)
	}
	return v, nil
}
