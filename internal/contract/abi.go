package contract

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

// Contract method names the client calls.
const (
	MethodMint        = "mint"
	MethodTokenIDs    = "tokenIds"
	MethodMaxTokenIDs = "maxTokenIds"
)

//go:embed lw3punks.abi.json
var defaultABI string

// LoadABI parses the ABI at path, or the embedded LW3Punks ABI when path
// is empty, and checks it exposes a payable mint() and a tokenIds() view.
func LoadABI(path string) (abi.ABI, error) {
	source := defaultABI
	if path != "" {
		// #nosec G304 -- path comes from validated config
		data, err := os.ReadFile(path)
		if err != nil {
			return abi.ABI{}, minterr.WithDetails(minterr.ErrConfigInvalid, map[string]string{
				"field":  "contract.abi_file",
				"reason": err.Error(),
			})
		}
		source = string(data)
	}

	parsed, err := abi.JSON(strings.NewReader(source))
	if err != nil {
		return abi.ABI{}, minterr.Classify(minterr.ErrConfigInvalid, fmt.Errorf("parsing contract ABI: %w", err))
	}
	if err := checkABI(parsed); err != nil {
		return abi.ABI{}, err
	}
	return parsed, nil
}

func checkABI(parsed abi.ABI) error {
	mint, ok := parsed.Methods[MethodMint]
	if !ok || !mint.IsPayable() || len(mint.Inputs) != 0 {
		return invalidABI("mint() payable is missing")
	}
	supply, ok := parsed.Methods[MethodTokenIDs]
	if !ok || !supply.IsConstant() || len(supply.Outputs) != 1 || supply.Outputs[0].Type.T != abi.UintTy {
		return invalidABI("tokenIds() view returns (uint256) is missing")
	}
	return nil
}

func invalidABI(reason string) error {
	return minterr.WithDetails(minterr.ErrConfigInvalid, map[string]string{
		"field":  "contract.abi_file",
		"reason": reason,
	})
}
