package config

import (
	"net"
	"net/url"
	"strings"

	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

// ValidateRPCURL accepts https/wss endpoints anywhere and http/ws only on
// loopback hosts. An empty URL is accepted so defaults can fill it later.
func ValidateRPCURL(raw string) error {
	if raw == "" {
		return nil
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return minterr.WithDetails(minterr.ErrConfigInvalid, map[string]string{
			"field": "network.rpc",
			"url":   raw,
		})
	}

	switch strings.ToLower(u.Scheme) {
	case "https", "wss":
		return nil
	case "http", "ws":
		if isLoopback(u.Hostname()) {
			return nil
		}
		return minterr.WithSuggestion(
			minterr.WithDetails(minterr.ErrConfigInvalid, map[string]string{
				"field": "network.rpc",
				"url":   raw,
			}),
			"use https:// for remote RPC endpoints",
		)
	default:
		return minterr.WithDetails(minterr.ErrConfigInvalid, map[string]string{
			"field":  "network.rpc",
			"scheme": u.Scheme,
		})
	}
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// Validate checks the settings the mint client cannot run without.
func (c *Config) Validate() error {
	if c.Network.RPC == "" {
		return invalidField("network.rpc", "RPC endpoint is required")
	}
	if err := ValidateRPCURL(c.Network.RPC); err != nil {
		return err
	}
	if c.Network.ChainID == 0 {
		return invalidField("network.chain_id", "chain id must be positive")
	}
	if strings.TrimSpace(c.Contract.Address) == "" {
		return minterr.WithSuggestion(
			invalidField("contract.address", "contract address is required"),
			"set contract.address in config.yaml or "+EnvContract,
		)
	}
	if strings.TrimSpace(c.Mint.Price) == "" {
		return invalidField("mint.price", "mint price is required")
	}
	if c.Mint.Confirmations == 0 {
		return invalidField("mint.confirmations", "at least one confirmation is required")
	}
	if c.Poller.Interval <= 0 {
		return invalidField("poller.interval", "poll interval must be positive")
	}
	return nil
}

func invalidField(field, reason string) error {
	return minterr.WithDetails(minterr.ErrConfigInvalid, map[string]string{
		"field":  field,
		"reason": reason,
	})
}
