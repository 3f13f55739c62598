package wallet

import (
	"crypto/ecdsa"

	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

// Create generates a fresh mnemonic, derives the first account from it, and
// stores that key at path. The mnemonic is returned once for the user to
// back up; only the derived key is persisted.
func Create(path, password string, words int) (string, *KeyInfo, error) {
	mnemonic, err := GenerateMnemonic(words)
	if err != nil {
		return "", nil, err
	}

	key, err := KeyFromMnemonic(mnemonic, "", 0)
	if err != nil {
		return "", nil, err
	}
	defer wipeKey(key)

	info, err := SaveKey(path, key, DerivationPath(0), password)
	if err != nil {
		return "", nil, err
	}
	return mnemonic, info, nil
}

// Import stores the key described by input, either a BIP39 phrase (account
// at index) or a raw hex private key.
func Import(path, password, input string, index uint32) (*KeyInfo, error) {
	var (
		key            *ecdsa.PrivateKey
		derivationPath string
		err            error
	)

	switch DetectInputFormat(input) {
	case FormatMnemonic:
		key, err = KeyFromMnemonic(input, "", index)
		derivationPath = DerivationPath(index)
	case FormatHexKey:
		key, err = ParseHexKey(input)
	default:
		if typos := DetectTypos(input); len(typos) > 0 {
			return nil, minterr.WithSuggestion(minterr.ErrInvalidMnemonic, FormatTypoSuggestions(typos))
		}
		return nil, minterr.WithSuggestion(minterr.ErrInvalidInput,
			"enter a 12 or 24 word recovery phrase or a 64 character hex private key")
	}
	if err != nil {
		return nil, err
	}
	defer wipeKey(key)

	return SaveKey(path, key, derivationPath, password)
}

// wipeKey zeroes the scalar of a key that is no longer needed.
func wipeKey(key *ecdsa.PrivateKey) {
	if key == nil || key.D == nil {
		return
	}
	key.D.SetInt64(0)
}
