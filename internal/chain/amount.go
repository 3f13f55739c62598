package chain

import (
	"math/big"
	"strings"

	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

// ParseUnits parses a decimal amount string into the smallest unit with the
// given number of decimals. "0.01" with 18 decimals is 10000000000000000.
// Amounts with more fractional digits than decimals are rejected rather
// than truncated.
//
//nolint:gocognit,gocyclo // Decimal parsing requires sequential validation steps
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" || strings.HasPrefix(amount, "-") || strings.HasPrefix(amount, "+") {
		return nil, invalidAmount(amount)
	}

	intPart, fracPart, hasPoint := strings.Cut(amount, ".")
	if hasPoint && strings.Contains(fracPart, ".") {
		return nil, invalidAmount(amount)
	}
	if intPart == "" && fracPart == "" {
		return nil, invalidAmount(amount)
	}
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > decimals {
		return nil, invalidAmount(amount)
	}

	for _, part := range []string{intPart, fracPart} {
		for _, c := range part {
			if c < '0' || c > '9' {
				return nil, invalidAmount(amount)
			}
		}
	}

	fracPart += strings.Repeat("0", decimals-len(fracPart))

	result, ok := new(big.Int).SetString(intPart+fracPart, 10)
	if !ok {
		return nil, invalidAmount(amount)
	}
	return result, nil
}

// ParseEther parses a native currency amount into wei.
func ParseEther(amount string) (*big.Int, error) {
	return ParseUnits(amount, NativeDecimals)
}

// FormatUnits renders an amount in the smallest unit as a decimal string
// with trailing fractional zeros removed. 1500000000000000000 with 18
// decimals is "1.5"; whole amounts render without a point.
func FormatUnits(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}

	negative := amount.Sign() < 0
	str := new(big.Int).Abs(amount).String()

	for len(str) <= decimals {
		str = "0" + str
	}

	point := len(str) - decimals
	intPart, fracPart := str[:point], strings.TrimRight(str[point:], "0")

	result := intPart
	if fracPart != "" {
		result += "." + fracPart
	}
	if negative {
		result = "-" + result
	}
	return result
}

// FormatEther renders a wei amount in native units.
func FormatEther(amount *big.Int) string {
	return FormatUnits(amount, NativeDecimals)
}

func invalidAmount(amount string) error {
	return minterr.WithDetails(minterr.ErrInvalidAmount, map[string]string{
		"amount": amount,
	})
}
