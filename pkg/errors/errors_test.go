package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

var (
	errInner = errors.New("inner")
	errPlain = errors.New("plain error")
)

func TestExitCodes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"success", nil, minterr.ExitSuccess},
		{"general error", minterr.ErrGeneral, minterr.ExitGeneral},
		{"connection", minterr.ErrConnection, minterr.ExitAuth},
		{"wrong network", minterr.ErrWrongNetwork, minterr.ExitNetwork},
		{"tx rejected", minterr.ErrTxRejected, minterr.ExitAuth},
		{"tx reverted", minterr.ErrTxReverted, minterr.ExitPermission},
		{"insufficient funds", minterr.ErrInsufficientFunds, minterr.ExitPermission},
		{"transient read", minterr.ErrTransientRead, minterr.ExitNetwork},
		{"config invalid", minterr.ErrConfigInvalid, minterr.ExitInput},
		{"plain error", errPlain, minterr.ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, minterr.ExitCode(tt.err))
		})
	}
}

func TestWrapPreservesIdentity(t *testing.T) {
	t.Parallel()
	sentinels := []error{
		minterr.ErrConnection,
		minterr.ErrWrongNetwork,
		minterr.ErrTxRejected,
		minterr.ErrTxReverted,
		minterr.ErrInsufficientFunds,
		minterr.ErrMintPending,
	}
	for _, sentinel := range sentinels {
		wrapped := minterr.Wrap(sentinel, "minting")
		require.ErrorIs(t, wrapped, sentinel)
		assert.Contains(t, wrapped.Error(), "minting")
	}

	wrapped := minterr.Wrap(minterr.ErrWrongNetwork, "context")
	assert.NotErrorIs(t, wrapped, minterr.ErrConnection)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	t.Run("keeps kind and cause", func(t *testing.T) {
		t.Parallel()
		err := minterr.Classify(minterr.ErrTxReverted, errInner)

		require.ErrorIs(t, err, minterr.ErrTxReverted)
		require.ErrorIs(t, err, errInner)
		assert.Equal(t, "TX_REVERTED", minterr.Code(err))
		assert.Equal(t, minterr.ExitPermission, minterr.ExitCode(err))
		assert.Equal(t, "transaction reverted by contract: inner", err.Error())
	})

	t.Run("nil cause", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, minterr.Classify(minterr.ErrTxReverted, nil))
	})
}

func TestWithDetails(t *testing.T) {
	t.Parallel()
	details := map[string]string{"expected": "80001", "actual": "1"}

	err := minterr.WithDetails(minterr.ErrWrongNetwork, details)

	var me *minterr.MintError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, details, me.Details)
	assert.Equal(t, "wallet is connected to the wrong network (actual: 1) (expected: 80001)", err.Error())
}

func TestWithDetails_nonMintError(t *testing.T) {
	t.Parallel()
	result := minterr.WithDetails(errPlain, map[string]string{"k": "v"})

	var me *minterr.MintError
	require.ErrorAs(t, result, &me)
	assert.Equal(t, "GENERAL_ERROR", me.Code)
	assert.Equal(t, errPlain, me.Cause)
	assert.NoError(t, minterr.WithDetails(nil, nil))
}

func TestWithSuggestion(t *testing.T) {
	t.Parallel()
	err := minterr.WithDetails(minterr.ErrWrongNetwork, map[string]string{"key": "value"})
	err = minterr.WithSuggestion(err, "switch the wallet to Mumbai")

	var me *minterr.MintError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, map[string]string{"key": "value"}, me.Details)
	assert.Equal(t, "switch the wallet to Mumbai", me.Suggestion)
	assert.NoError(t, minterr.WithSuggestion(nil, "x"))
}

func TestMintError_Error(t *testing.T) {
	t.Parallel()

	t.Run("message only", func(t *testing.T) {
		t.Parallel()
		err := &minterr.MintError{Code: "TEST", Message: "something failed"}
		assert.Equal(t, "something failed", err.Error())
	})

	t.Run("details and cause", func(t *testing.T) {
		t.Parallel()
		err := &minterr.MintError{
			Code:    "TEST",
			Message: "outer",
			Details: map[string]string{"beta": "2", "alpha": "1"},
			Cause:   errInner,
		}
		assert.Equal(t, "outer (alpha: 1) (beta: 2): inner", err.Error())
	})
}

func TestMintError_Is(t *testing.T) {
	t.Parallel()
	a := &minterr.MintError{Code: "SAME", Message: "a"}
	b := &minterr.MintError{Code: "SAME", Message: "b"}
	c := &minterr.MintError{Code: "OTHER", Message: "c"}

	assert.True(t, a.Is(b))
	assert.False(t, a.Is(c))
	assert.False(t, a.Is(errPlain))
}

func TestCode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "MINT_PENDING", minterr.Code(minterr.ErrMintPending))
	assert.Equal(t, "GENERAL_ERROR", minterr.Code(errPlain))
	assert.Equal(t, "GENERAL_ERROR", minterr.Code(nil))

	custom := minterr.New("CUSTOM", "custom message")
	assert.Equal(t, "CUSTOM", minterr.Code(custom))
	assert.Equal(t, "custom message", custom.Error())
}
