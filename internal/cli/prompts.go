package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/mrz1836/punkmint/internal/wallet"
	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

// minPasswordLength is the shortest accepted key file password.
const minPasswordLength = 8

// Prompt functions, replaced in tests.
//
//nolint:gochecknoglobals // Replaced in tests
var (
	promptPasswordFn    = promptPassword
	promptNewPasswordFn = promptNewPassword
	promptConfirmFn     = promptConfirm
	promptSecretFn      = promptSecret
)

//nolint:gochecknoglobals // stdin is read through one buffer
var (
	stdinOnce   sync.Once
	stdinReader *bufio.Reader
)

func stdin() *bufio.Reader {
	stdinOnce.Do(func() { stdinReader = bufio.NewReader(os.Stdin) })
	return stdinReader
}

// terminalPrompter answers wallet prompts on the controlling terminal.
type terminalPrompter struct{}

// Compile-time interface check
var _ wallet.Prompter = terminalPrompter{}

// Password implements wallet.Prompter.
func (terminalPrompter) Password(_ context.Context, prompt string) (string, error) {
	pw, err := promptPasswordFn(prompt)
	if err != nil {
		return "", err
	}
	defer zeroBytes(pw)
	return string(pw), nil
}

// Confirm implements wallet.Prompter.
func (terminalPrompter) Confirm(_ context.Context, prompt string) (bool, error) {
	return promptConfirmFn(prompt), nil
}

// readHidden reads one line without echo from a terminal, or a plain line
// when stdin is piped.
func readHidden(prompt string) ([]byte, error) {
	out(os.Stderr, "%s", prompt)

	fd := int(os.Stdin.Fd()) //nolint:gosec // G115: Fd() returns uintptr, safe conversion for term.ReadPassword
	if !term.IsTerminal(fd) {
		line, err := stdin().ReadString('\n')
		if err != nil && line == "" {
			return nil, fmt.Errorf("reading input: %w", err)
		}
		return []byte(strings.TrimRight(line, "\r\n")), nil
	}

	secret, err := term.ReadPassword(fd)
	outln(os.Stderr) // Add newline after hidden input
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return secret, nil
}

// promptPassword prompts for a password with hidden input.
// The caller is responsible for zeroing the returned bytes after use.
func promptPassword(prompt string) ([]byte, error) {
	return readHidden(prompt)
}

// promptNewPassword prompts for a new password with confirmation.
// The caller is responsible for zeroing the returned bytes after use.
func promptNewPassword() ([]byte, error) {
	password, err := promptPasswordFn("Enter encryption password: ")
	if err != nil {
		return nil, err
	}

	if len(password) < minPasswordLength {
		zeroBytes(password)
		return nil, minterr.WithSuggestion(
			minterr.ErrInvalidInput,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength),
		)
	}

	confirm, err := promptPasswordFn("Confirm password: ")
	if err != nil {
		zeroBytes(password)
		return nil, err
	}
	defer zeroBytes(confirm)

	if string(password) != string(confirm) {
		zeroBytes(password)
		return nil, minterr.WithSuggestion(minterr.ErrInvalidInput, "passwords do not match")
	}

	return password, nil
}

// promptConfirm asks a yes/no question; anything but y/yes is no.
func promptConfirm(prompt string) bool {
	out(os.Stderr, "%s [y/N]: ", prompt)

	line, err := stdin().ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	response := strings.ToLower(strings.TrimSpace(line))
	return response == "y" || response == "yes"
}

// promptSecret reads a recovery phrase or private key without echo.
func promptSecret() (string, error) {
	outln(os.Stderr, "Enter your recovery phrase (12 or 24 words) or hex private key.")
	secret, err := readHidden("Secret: ")
	if err != nil {
		return "", err
	}
	defer zeroBytes(secret)

	input := strings.TrimSpace(string(secret))
	if input == "" {
		return "", minterr.WithSuggestion(minterr.ErrInvalidInput, "no input provided")
	}
	return input, nil
}

// zeroBytes overwrites b.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
