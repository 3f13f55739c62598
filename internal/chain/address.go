package chain

import (
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"

	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

// IsValidAddress reports whether s is 0x followed by 40 hex characters.
// The checksum is not verified.
func IsValidAddress(s string) bool {
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return false
	}
	_, err := hex.DecodeString(s[2:])
	return err == nil
}

// ToChecksumAddress converts an address to EIP-55 mixed case.
// Invalid input is returned unchanged.
func ToChecksumAddress(address string) string {
	if !IsValidAddress(address) {
		return address
	}

	lower := strings.ToLower(address[2:])

	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(lower))
	hash := hex.EncodeToString(hasher.Sum(nil))

	out := []byte("0x" + lower)
	for i := 0; i < 40; i++ {
		c := lower[i]
		if c >= 'a' && c <= 'f' && hash[i] >= '8' {
			out[i+2] = c - 32
		}
	}
	return string(out)
}

// ValidateChecksumAddress rejects malformed addresses and mixed-case
// addresses whose EIP-55 checksum does not match. All-lowercase and
// all-uppercase addresses carry no checksum and are accepted.
func ValidateChecksumAddress(address string) error {
	if !IsValidAddress(address) {
		return minterr.WithDetails(minterr.ErrInvalidAddress, map[string]string{
			"address": address,
		})
	}

	body := address[2:]
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return nil
	}

	if ToChecksumAddress(address) != address {
		return minterr.WithDetails(minterr.ErrInvalidChecksum, map[string]string{
			"address": address,
		})
	}
	return nil
}

// ParseAddress validates an address string and converts it.
func ParseAddress(address string) (common.Address, error) {
	address = strings.TrimSpace(address)
	if err := ValidateChecksumAddress(address); err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(address), nil
}
