package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

// ReceiptReader is the part of a Backend needed to await confirmations.
type ReceiptReader interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// WaitConfirmations polls until tx has been mined and buried under
// confirmations blocks (1 means "included"), or ctx is done. Lookup errors
// while polling are tolerated; the node may simply not have indexed the
// transaction yet. A receipt with failed status returns ErrTxReverted along
// with the receipt.
func WaitConfirmations(ctx context.Context, r ReceiptReader, tx *types.Transaction, confirmations uint64, poll time.Duration) (*types.Receipt, error) {
	if confirmations == 0 {
		confirmations = 1
	}
	if poll <= 0 {
		poll = time.Second
	}

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	var receipt *types.Receipt
	for {
		if receipt == nil {
			rcpt, err := r.TransactionReceipt(ctx, tx.Hash())
			switch {
			case err == nil && rcpt != nil:
				if rcpt.Status == types.ReceiptStatusFailed {
					return rcpt, minterr.WithDetails(minterr.ErrTxReverted, map[string]string{
						"tx":    tx.Hash().Hex(),
						"block": fmt.Sprint(rcpt.BlockNumber),
					})
				}
				receipt = rcpt
			case err != nil && !errors.Is(err, ethereum.NotFound) && ctx.Err() != nil:
				return nil, minterr.Classify(minterr.ErrNetworkError, ctx.Err())
			}
		}

		if receipt != nil {
			if confirmations == 1 {
				return receipt, nil
			}
			head, err := r.BlockNumber(ctx)
			if err == nil && receipt.BlockNumber != nil &&
				head+1 >= receipt.BlockNumber.Uint64()+confirmations {
				return receipt, nil
			}
		}

		select {
		case <-ctx.Done():
			return nil, minterr.Classify(minterr.ErrNetworkError, ctx.Err())
		case <-ticker.C:
		}
	}
}
