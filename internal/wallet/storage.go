package wallet

import (
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

const (
	keyFileVersion     = 1
	keyFilePermissions = 0o600
	keyDirPermissions  = 0o750
)

// scryptWorkFactor overrides age's default scrypt cost when non-zero.
//
//nolint:gochecknoglobals // process-wide setting, see SetScryptWorkFactor
var scryptWorkFactor atomic.Int32

// SetScryptWorkFactor sets log2 of the scrypt cost used to encrypt new key
// files. Zero restores age's default. Existing files keep their own cost.
func SetScryptWorkFactor(logN int) {
	scryptWorkFactor.Store(int32(logN)) //nolint:gosec // G115: small config value
}

// KeyInfo is the public metadata stored next to the encrypted key.
type KeyInfo struct {
	Address        common.Address `json:"address"`
	DerivationPath string         `json:"derivation_path,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// keyFile is the on-disk layout: cleartext metadata plus the
// age-encrypted 32-byte private key.
type keyFile struct {
	Version      int     `json:"version"`
	Info         KeyInfo `json:"wallet"`
	EncryptedKey []byte  `json:"encrypted_key"`
}

// SaveKey encrypts key with password and writes it to path. An existing
// file is never overwritten.
func SaveKey(path string, key *ecdsa.PrivateKey, derivationPath, password string) (*KeyInfo, error) {
	if password == "" {
		return nil, minterr.WithDetails(minterr.ErrInvalidInput, map[string]string{
			"reason": "password must not be empty",
		})
	}

	if _, err := os.Stat(path); err == nil {
		return nil, minterr.WithDetails(minterr.ErrWalletExists, map[string]string{"path": path})
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking key file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), keyDirPermissions); err != nil {
		return nil, fmt.Errorf("creating wallet directory: %w", err)
	}

	raw := crypto.FromECDSA(key)
	defer zero(raw)

	sealed, err := encrypt(raw, password, int(scryptWorkFactor.Load()))
	if err != nil {
		return nil, err
	}

	kf := keyFile{
		Version: keyFileVersion,
		Info: KeyInfo{
			Address:        crypto.PubkeyToAddress(key.PublicKey),
			DerivationPath: derivationPath,
			CreatedAt:      time.Now().UTC(),
		},
		EncryptedKey: sealed,
	}

	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling key file: %w", err)
	}

	// O_EXCL closes the race between the Stat above and the write.
	// #nosec G304 -- path comes from validated config
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, keyFilePermissions)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, minterr.WithDetails(minterr.ErrWalletExists, map[string]string{"path": path})
		}
		return nil, fmt.Errorf("writing key file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("writing key file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("writing key file: %w", err)
	}

	return &kf.Info, nil
}

// ReadKeyInfo returns the public metadata of the key file at path without
// decrypting it.
func ReadKeyInfo(path string) (*KeyInfo, error) {
	kf, err := readKeyFile(path)
	if err != nil {
		return nil, err
	}
	return &kf.Info, nil
}

// UnlockKey decrypts the key file at path and returns the raw private key.
// The caller owns the returned slice and should zero it.
func UnlockKey(path, password string) ([]byte, *KeyInfo, error) {
	kf, err := readKeyFile(path)
	if err != nil {
		return nil, nil, err
	}

	raw, err := decrypt(kf.EncryptedKey, password)
	if err != nil {
		return nil, nil, minterr.ErrDecryptionFailed
	}

	key, err := crypto.ToECDSA(raw)
	if err != nil {
		zero(raw)
		return nil, nil, minterr.Classify(minterr.ErrInvalidKey, err)
	}
	if crypto.PubkeyToAddress(key.PublicKey) != kf.Info.Address {
		zero(raw)
		return nil, nil, minterr.WithDetails(minterr.ErrDecryptionFailed, map[string]string{
			"reason": "key does not match stored address",
		})
	}

	return raw, &kf.Info, nil
}

func readKeyFile(path string) (*keyFile, error) {
	// #nosec G304 -- path comes from validated config
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, minterr.WithSuggestion(
			minterr.WithDetails(minterr.ErrWalletNotFound, map[string]string{"path": path}),
			"create one with 'punkmint wallet create' or 'punkmint wallet import'",
		)
	}
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}

	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parsing key file: %w", err)
	}
	if kf.Version != keyFileVersion {
		return nil, fmt.Errorf("unsupported key file version %d", kf.Version)
	}
	return &kf, nil
}
