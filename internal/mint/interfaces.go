package mint

import (
	"context"

	"github.com/mrz1836/punkmint/internal/connection"
	"github.com/mrz1836/punkmint/internal/contract"
	"github.com/mrz1836/punkmint/internal/network"
)

// HandleProvider hands out chain handles.
type HandleProvider interface {
	Acquire(ctx context.Context, needsWriteAccess bool) (*connection.Handle, error)
}

// NetworkValidator verifies the network of a handle.
type NetworkValidator interface {
	Validate(ctx context.Context, h *connection.Handle) (*connection.Handle, error)
}

// ContractBinder binds the contract to a verified handle.
type ContractBinder interface {
	Bind(h *connection.Handle) (*contract.Proxy, error)
}

// Observer is told about every stage the workflow enters.
type Observer func(Stage)

// Compile-time interface checks
var (
	_ HandleProvider   = (*connection.Provider)(nil)
	_ NetworkValidator = (*network.Guard)(nil)
	_ ContractBinder   = (*contract.Gateway)(nil)
)
