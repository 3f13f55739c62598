package wallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip32"

	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

// DerivationPathFormat is the BIP44 Ethereum path; the last segment is the
// address index. Polygon uses the Ethereum coin type.
const DerivationPathFormat = "m/44'/60'/0'/0/%d"

// DerivationPath returns the BIP44 path for index.
func DerivationPath(index uint32) string {
	return fmt.Sprintf(DerivationPathFormat, index)
}

// DeriveKey derives the private key at DerivationPath(index) from a BIP39 seed.
func DeriveKey(seed []byte, index uint32) (*ecdsa.PrivateKey, error) {
	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("creating master key: %w", err)
	}

	path := []uint32{
		bip32.FirstHardenedChild + 44,
		bip32.FirstHardenedChild + 60,
		bip32.FirstHardenedChild,
		0,
		index,
	}
	for _, child := range path {
		if key, err = key.NewChildKey(child); err != nil {
			return nil, fmt.Errorf("deriving %s: %w", DerivationPath(index), err)
		}
	}

	raw := common.LeftPadBytes(key.Key, 32)
	defer zero(raw)
	return crypto.ToECDSA(raw)
}

// KeyFromMnemonic validates mnemonic and derives the key at index.
func KeyFromMnemonic(mnemonic, passphrase string, index uint32) (*ecdsa.PrivateKey, error) {
	seed, err := MnemonicToSeed(mnemonic, passphrase)
	if err != nil {
		return nil, err
	}
	defer zero(seed)
	return DeriveKey(seed, index)
}

// ParseHexKey parses a 32-byte hex private key with optional 0x prefix.
func ParseHexKey(s string) (*ecdsa.PrivateKey, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != 64 {
		return nil, minterr.ErrInvalidKey
	}

	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, minterr.ErrInvalidKey
	}
	defer zero(raw)

	key, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, minterr.Classify(minterr.ErrInvalidKey, err)
	}
	return key, nil
}

// InputFormat is the kind of secret a user pasted into wallet import.
type InputFormat int

// Input formats.
const (
	FormatUnknown InputFormat = iota
	FormatMnemonic
	FormatHexKey
)

// String implements fmt.Stringer.
func (f InputFormat) String() string {
	switch f {
	case FormatMnemonic:
		return "mnemonic"
	case FormatHexKey:
		return "hex"
	default:
		return "unknown"
	}
}

// DetectInputFormat guesses whether input is a phrase or a raw hex key.
func DetectInputFormat(input string) InputFormat {
	input = strings.TrimSpace(input)
	if len(strings.Fields(NormalizeMnemonicInput(input))) >= 12 {
		return FormatMnemonic
	}
	hexPart := strings.TrimPrefix(strings.TrimPrefix(input, "0x"), "0X")
	if len(hexPart) == 64 {
		if _, err := hex.DecodeString(hexPart); err == nil {
			return FormatHexKey
		}
	}
	return FormatUnknown
}
