package poller

import (
	"context"

	"github.com/mrz1836/punkmint/internal/connection"
	"github.com/mrz1836/punkmint/internal/contract"
	"github.com/mrz1836/punkmint/internal/network"
)

// ContractSource reads tokenIds() through the cached read handle. It never
// connects the wallet itself: until the user connects, or after a failed
// reconnect, reads fail with errors.ErrConnection. Every read validates the
// network first and binds a fresh proxy, so a wallet that moved to another
// network yields errors instead of foreign data.
type ContractSource struct {
	Connections *connection.Provider
	Guard       *network.Guard
	Gateway     *contract.Gateway
}

// Compile-time interface check
var _ Source = (*ContractSource)(nil)

// ReadSupply implements Source.
func (s *ContractSource) ReadSupply(ctx context.Context) (string, error) {
	proxy, err := s.proxy(ctx)
	if err != nil {
		return "", err
	}
	return proxy.ReadSupply(ctx)
}

// ReadMaxSupply reads maxTokenIds() the same way.
func (s *ContractSource) ReadMaxSupply(ctx context.Context) (string, error) {
	proxy, err := s.proxy(ctx)
	if err != nil {
		return "", err
	}
	return proxy.ReadMaxSupply(ctx)
}

func (s *ContractSource) proxy(ctx context.Context) (*contract.Proxy, error) {
	h, err := s.Connections.Current()
	if err != nil {
		return nil, err
	}
	h, err = s.Guard.Validate(ctx, h)
	if err != nil {
		return nil, err
	}
	return s.Gateway.Bind(h)
}
