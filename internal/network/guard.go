// Package network enforces that a chain handle is connected to the
// network the contract lives on before anything touches the contract.
package network

import (
	"context"
	"math/big"

	"github.com/mrz1836/punkmint/internal/config"
	"github.com/mrz1836/punkmint/internal/connection"
	"github.com/mrz1836/punkmint/internal/notify"
	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

// Guard validates handles against the required chain id.
type Guard struct {
	required *big.Int
	name     string
	notifier notify.Notifier
	logger   config.LogWriter
}

// NewGuard creates a guard for chainID. name is the human network name
// used in the notice ("Mumbai").
func NewGuard(chainID *big.Int, name string, notifier notify.Notifier, logger config.LogWriter) *Guard {
	if notifier == nil {
		notifier = notify.Discard
	}
	if logger == nil {
		logger = config.NullLogger()
	}
	return &Guard{
		required: new(big.Int).Set(chainID),
		name:     name,
		notifier: notifier,
		logger:   logger,
	}
}

// Required returns the chain id handles must be connected to.
func (g *Guard) Required() *big.Int {
	return new(big.Int).Set(g.required)
}

// Validate reads the live chain id of h. On a match it returns h pinned to
// that id. On a mismatch it notifies the user and fails with
// errors.ErrWrongNetwork; there is no retry.
func (g *Guard) Validate(ctx context.Context, h *connection.Handle) (*connection.Handle, error) {
	actual, err := h.NetworkID(ctx)
	if err != nil {
		g.logger.Error("reading chain id: %v", err)
		return nil, err
	}

	if actual.Cmp(g.required) != 0 {
		notify.Warnf(g.notifier, "Change the network to %s", g.name)
		err := minterr.WithDetails(minterr.ErrWrongNetwork, map[string]string{
			"expected": g.required.String(),
			"actual":   actual.String(),
		})
		g.logger.Error("%v", err)
		return nil, err
	}

	return h.Pin(actual), nil
}
