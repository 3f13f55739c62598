// Package errors provides structured error handling for punkmint.
// It defines the error taxonomy of the mint client (connection, network,
// transaction, and read failures), exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess    = 0 // Successful execution
	ExitGeneral    = 1 // General/unknown error
	ExitInput      = 2 // Invalid input or configuration
	ExitAuth       = 3 // Wallet could not be unlocked or user declined
	ExitNotFound   = 4 // Resource not found
	ExitPermission = 5 // Insufficient funds or contract refused the call
	ExitNetwork    = 6 // Wrong network or RPC unavailable
)

// MintError is the structured error type for punkmint.
type MintError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *MintError) Error() string {
	msg := e.Message

	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *MintError) Unwrap() error {
	return e.Cause
}

// Is matches any MintError carrying the same code.
func (e *MintError) Is(target error) bool {
	var t *MintError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &MintError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &MintError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	// Connection errors: no wallet available or the user dismissed the prompt.
	ErrConnection = &MintError{
		Code:     "CONNECTION_FAILED",
		Message:  "could not connect to wallet",
		ExitCode: ExitAuth,
	}

	ErrWrongNetwork = &MintError{
		Code:     "WRONG_NETWORK",
		Message:  "wallet is connected to the wrong network",
		ExitCode: ExitNetwork,
	}

	ErrNetworkError = &MintError{
		Code:     "NETWORK_ERROR",
		Message:  "network communication failed",
		ExitCode: ExitNetwork,
	}

	// Transaction errors.
	ErrTxRejected = &MintError{
		Code:     "TX_REJECTED",
		Message:  "transaction was not signed",
		ExitCode: ExitAuth,
	}

	ErrTxReverted = &MintError{
		Code:     "TX_REVERTED",
		Message:  "transaction reverted by contract",
		ExitCode: ExitPermission,
	}

	ErrInsufficientFunds = &MintError{
		Code:     "INSUFFICIENT_FUNDS",
		Message:  "insufficient funds for transaction",
		ExitCode: ExitPermission,
	}

	ErrMintPending = &MintError{
		Code:     "MINT_PENDING",
		Message:  "a mint is already in progress",
		ExitCode: ExitGeneral,
	}

	// Read errors.
	ErrTransientRead = &MintError{
		Code:     "TRANSIENT_READ",
		Message:  "reading contract state failed",
		ExitCode: ExitNetwork,
	}

	ErrPollerStarted = &MintError{
		Code:     "POLLER_STARTED",
		Message:  "supply poller already started",
		ExitCode: ExitGeneral,
	}

	// Chain input errors.
	ErrInvalidAddress = &MintError{
		Code:     "INVALID_ADDRESS",
		Message:  "invalid address format",
		ExitCode: ExitInput,
	}

	ErrInvalidChecksum = &MintError{
		Code:     "INVALID_CHECKSUM",
		Message:  "invalid address checksum",
		ExitCode: ExitInput,
	}

	ErrInvalidAmount = &MintError{
		Code:     "INVALID_AMOUNT",
		Message:  "invalid amount format",
		ExitCode: ExitInput,
	}

	// Wallet errors.
	ErrWalletNotFound = &MintError{
		Code:     "WALLET_NOT_FOUND",
		Message:  "wallet not found",
		ExitCode: ExitNotFound,
	}

	ErrWalletExists = &MintError{
		Code:     "WALLET_EXISTS",
		Message:  "wallet already exists",
		ExitCode: ExitInput,
	}

	ErrInvalidMnemonic = &MintError{
		Code:     "INVALID_MNEMONIC",
		Message:  "invalid mnemonic phrase",
		ExitCode: ExitInput,
	}

	ErrInvalidKey = &MintError{
		Code:     "INVALID_KEY",
		Message:  "invalid private key",
		ExitCode: ExitInput,
	}

	ErrDecryptionFailed = &MintError{
		Code:     "DECRYPTION_FAILED",
		Message:  "decryption failed - wrong password or corrupted file",
		ExitCode: ExitAuth,
	}

	// Config errors.
	ErrConfigNotFound = &MintError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &MintError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration is invalid",
		ExitCode: ExitInput,
	}
)

// New creates a new MintError with the given code and message.
func New(code, message string) *MintError {
	return &MintError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var me *MintError
	if errors.As(err, &me) {
		return &MintError{
			Code:       me.Code,
			Message:    fmt.Sprintf("%s: %s", msg, me.Message),
			Details:    me.Details,
			Suggestion: me.Suggestion,
			Cause:      err,
			ExitCode:   me.ExitCode,
		}
	}

	return &MintError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// Classify attaches the kind of sentinel to an arbitrary cause, keeping the
// cause reachable through errors.Is/As.
func Classify(kind *MintError, cause error) error {
	if cause == nil {
		return nil
	}
	return &MintError{
		Code:       kind.Code,
		Message:    kind.Message,
		Suggestion: kind.Suggestion,
		Cause:      cause,
		ExitCode:   kind.ExitCode,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var me *MintError
	if errors.As(err, &me) {
		return &MintError{
			Code:       me.Code,
			Message:    me.Message,
			Details:    details,
			Suggestion: me.Suggestion,
			Cause:      me.Cause,
			ExitCode:   me.ExitCode,
		}
	}

	return &MintError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var me *MintError
	if errors.As(err, &me) {
		return &MintError{
			Code:       me.Code,
			Message:    me.Message,
			Details:    me.Details,
			Suggestion: suggestion,
			Cause:      me.Cause,
			ExitCode:   me.ExitCode,
		}
	}

	return &MintError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var me *MintError
	if errors.As(err, &me) {
		return me.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var me *MintError
	if errors.As(err, &me) {
		return me.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
