package wallet_test

import (
	"context"
	"errors"
	"math/big"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/punkmint/internal/chain"
	"github.com/mrz1836/punkmint/internal/wallet"
	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

type stubPrompter struct {
	password string
	confirm  bool
	err      error
	asked    atomic.Int32
}

func (p *stubPrompter) Password(context.Context, string) (string, error) {
	p.asked.Add(1)
	return p.password, p.err
}

func (p *stubPrompter) Confirm(context.Context, string) (bool, error) {
	return p.confirm, nil
}

type stubBackend struct {
	chain.Backend

	closed atomic.Bool
}

func (b *stubBackend) ChainID(context.Context) (*big.Int, error) { return big.NewInt(80001), nil }

func (b *stubBackend) Close() { b.closed.Store(true) }

func newKeyFile(t *testing.T, password string) (string, common.Address) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "wallet.age")
	info, err := wallet.SaveKey(path, key, "", password)
	require.NoError(t, err)
	return path, info.Address
}

func dialStub(b *stubBackend) wallet.DialFunc {
	return func(context.Context) (chain.Backend, error) { return b, nil }
}

func TestKeyFile_Connect(t *testing.T) {
	t.Parallel()

	path, addr := newKeyFile(t, "pw")
	backend := &stubBackend{}
	prompter := &stubPrompter{password: "pw"}

	w := wallet.NewKeyFile(wallet.KeyFileConfig{Path: path, Prompter: prompter, Dial: dialStub(backend)})
	session, err := w.Connect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, addr, session.Account())
	assert.Equal(t, int32(1), prompter.asked.Load())

	id, err := session.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(80001), id.Int64())

	session.Close()
	session.Close()
	assert.True(t, backend.closed.Load())
}

func TestKeyFile_ConnectWithConfiguredPassword(t *testing.T) {
	t.Parallel()

	path, _ := newKeyFile(t, "pw")
	prompter := &stubPrompter{}

	w := wallet.NewKeyFile(wallet.KeyFileConfig{Path: path, Password: "pw", Prompter: prompter, Dial: dialStub(&stubBackend{})})
	_, err := w.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(0), prompter.asked.Load())
}

func TestKeyFile_ConnectFailures(t *testing.T) {
	t.Parallel()

	path, _ := newKeyFile(t, "pw")

	tests := []struct {
		name  string
		cfg   wallet.KeyFileConfig
		cause error
	}{
		{
			name:  "no wallet",
			cfg:   wallet.KeyFileConfig{Path: filepath.Join(t.TempDir(), "none.age"), Prompter: &stubPrompter{password: "pw"}},
			cause: minterr.ErrWalletNotFound,
		},
		{
			name: "declined",
			cfg:  wallet.KeyFileConfig{Path: path, Prompter: &stubPrompter{}},
		},
		{
			name: "prompt aborted",
			cfg:  wallet.KeyFileConfig{Path: path, Prompter: &stubPrompter{err: errors.New("EOF")}},
		},
		{
			name: "no prompter",
			cfg:  wallet.KeyFileConfig{Path: path},
		},
		{
			name:  "wrong password",
			cfg:   wallet.KeyFileConfig{Path: path, Prompter: &stubPrompter{password: "nope"}},
			cause: minterr.ErrDecryptionFailed,
		},
		{
			name: "node unreachable",
			cfg: wallet.KeyFileConfig{Path: path, Password: "pw", Dial: func(context.Context) (chain.Backend, error) {
				return nil, errors.New("connection refused")
			}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := wallet.NewKeyFile(tc.cfg).Connect(context.Background())
			require.ErrorIs(t, err, minterr.ErrConnection)
			if tc.cause != nil {
				assert.ErrorIs(t, err, tc.cause)
			}
		})
	}
}

func TestKeySession_Signer(t *testing.T) {
	t.Parallel()

	path, addr := newKeyFile(t, "pw")
	chainID := big.NewInt(80001)
	to := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	tx := types.NewTx(&types.LegacyTx{Nonce: 1, To: &to, Value: big.NewInt(1e16), Gas: 90000, GasPrice: big.NewInt(1)})

	t.Run("confirmed", func(t *testing.T) {
		t.Parallel()
		session, err := wallet.NewKeyFile(wallet.KeyFileConfig{
			Path: path, Password: "pw", Prompter: &stubPrompter{confirm: true}, Dial: dialStub(&stubBackend{}),
		}).Connect(context.Background())
		require.NoError(t, err)
		defer session.Close()

		opts, err := session.Signer(context.Background(), chainID)
		require.NoError(t, err)
		assert.Equal(t, addr, opts.From)

		signed, err := opts.Signer(addr, tx)
		require.NoError(t, err)
		sender, err := types.Sender(types.LatestSignerForChainID(chainID), signed)
		require.NoError(t, err)
		assert.Equal(t, addr, sender)
	})

	t.Run("declined", func(t *testing.T) {
		t.Parallel()
		session, err := wallet.NewKeyFile(wallet.KeyFileConfig{
			Path: path, Password: "pw", Prompter: &stubPrompter{confirm: false}, Dial: dialStub(&stubBackend{}),
		}).Connect(context.Background())
		require.NoError(t, err)
		defer session.Close()

		opts, err := session.Signer(context.Background(), chainID)
		require.NoError(t, err)
		_, err = opts.Signer(addr, tx)
		assert.ErrorIs(t, err, minterr.ErrTxRejected)
	})

	t.Run("auto confirm", func(t *testing.T) {
		t.Parallel()
		session, err := wallet.NewKeyFile(wallet.KeyFileConfig{
			Path: path, Password: "pw", Prompter: wallet.AutoConfirm{Prompter: &stubPrompter{}}, Dial: dialStub(&stubBackend{}),
		}).Connect(context.Background())
		require.NoError(t, err)
		defer session.Close()

		opts, err := session.Signer(context.Background(), chainID)
		require.NoError(t, err)
		_, err = opts.Signer(addr, tx)
		assert.NoError(t, err)
	})

	t.Run("locked after close", func(t *testing.T) {
		t.Parallel()
		session, err := wallet.NewKeyFile(wallet.KeyFileConfig{
			Path: path, Password: "pw", Dial: dialStub(&stubBackend{}),
		}).Connect(context.Background())
		require.NoError(t, err)
		session.Close()

		_, err = session.Signer(context.Background(), chainID)
		assert.ErrorIs(t, err, minterr.ErrConnection)
	})
}
