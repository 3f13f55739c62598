package chain

import (
	"context"
	"errors"
	"strings"

	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

// ClassifyTxError maps a failure from submitting or confirming a
// transaction onto the mint error taxonomy. Node errors arrive as plain
// JSON-RPC messages, so classification is by message content. Errors that
// already carry a MintError kind are returned unchanged.
func ClassifyTxError(err error) error {
	if err == nil {
		return nil
	}

	var me *minterr.MintError
	if errors.As(err, &me) {
		return err
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "insufficient funds"):
		return minterr.Classify(minterr.ErrInsufficientFunds, err)
	case strings.Contains(msg, "reverted"),
		strings.Contains(msg, "no contract code"):
		return minterr.Classify(minterr.ErrTxReverted, err)
	case strings.Contains(msg, "user denied"),
		strings.Contains(msg, "user rejected"),
		strings.Contains(msg, "rejected by user"):
		return minterr.Classify(minterr.ErrTxRejected, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return minterr.Wrap(minterr.Classify(minterr.ErrNetworkError, err), "transaction abandoned")
	default:
		return minterr.Classify(minterr.ErrNetworkError, err)
	}
}
