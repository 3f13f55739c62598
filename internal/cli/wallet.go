package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/punkmint/internal/output"
	"github.com/mrz1836/punkmint/internal/wallet"
)

// out is a helper for CLI output that ignores write errors (standard pattern for CLI tools).
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func out(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format, args...)
}

// outln is a helper for CLI output with newline.
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func outln(w io.Writer, args ...interface{}) {
	fmt.Fprintln(w, args...)
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	// createWords is the number of words for mnemonic generation.
	createWords int
	// importIndex is the account index derived from an imported phrase.
	importIndex uint32
)

// walletCmd is the parent command for wallet operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage the local wallet",
	Long: `Create, import, and inspect the encrypted key file punkmint signs with.

The key is stored age-encrypted at wallet.key_file (default
~/.punkmint/wallet.age).`,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new wallet",
	Long: `Generate a new recovery phrase, derive the first account from it, and
store that account's key encrypted with a password.

The recovery phrase is shown once. Write it down.

Example:
  punkmint wallet create
  punkmint wallet create --words 24`,
	RunE: runWalletCreate,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a recovery phrase or private key",
	Long: `Import an existing account from a BIP39 recovery phrase (path
m/44'/60'/0'/0/<index>) or a hex private key.

Example:
  punkmint wallet import
  punkmint wallet import --index 2`,
	RunE: runWalletImport,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var walletAddressCmd = &cobra.Command{
	Use:   "address",
	Short: "Show the wallet address",
	Long:  `Print the address stored in the key file. No password is needed.`,
	RunE:  runWalletAddress,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(walletCmd)
	walletCmd.AddCommand(walletCreateCmd)
	walletCmd.AddCommand(walletImportCmd)
	walletCmd.AddCommand(walletAddressCmd)

	walletCreateCmd.Flags().IntVar(&createWords, "words", 12, "recovery phrase length: 12 or 24")
	walletImportCmd.Flags().Uint32Var(&importIndex, "index", 0, "account index for recovery phrases")
}

// walletResult is the JSON shape of the wallet commands.
type walletResult struct {
	Address        string `json:"address"`
	DerivationPath string `json:"derivation_path,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	KeyFile        string `json:"key_file"`
	Mnemonic       string `json:"mnemonic,omitempty"`
}

func newWalletResult(info *wallet.KeyInfo, path string) walletResult {
	r := walletResult{
		Address:        info.Address.Hex(),
		DerivationPath: info.DerivationPath,
		KeyFile:        path,
	}
	if !info.CreatedAt.IsZero() {
		r.CreatedAt = info.CreatedAt.UTC().Format(time.RFC3339)
	}
	return r
}

func (r walletResult) Fields() output.Fields {
	return output.Fields{
		{Label: "Address", Value: r.Address},
		{Label: "Derivation path", Value: r.DerivationPath},
		{Label: "Key file", Value: r.KeyFile},
		{Label: "Created", Value: r.CreatedAt},
	}
}

// newWalletPassword returns the configured password or asks for a new one.
func newWalletPassword() (string, error) {
	if cfg.Wallet.Password != "" {
		return cfg.Wallet.Password, nil
	}
	pw, err := promptNewPasswordFn()
	if err != nil {
		return "", err
	}
	defer zeroBytes(pw)
	return string(pw), nil
}

func runWalletCreate(_ *cobra.Command, _ []string) error {
	path := cfg.GetKeyFile()

	password, err := newWalletPassword()
	if err != nil {
		return err
	}

	mnemonic, info, err := wallet.Create(path, password, createWords)
	if err != nil {
		return err
	}
	logger.Debug("created wallet %s at %s", info.Address.Hex(), path)

	result := newWalletResult(info, path)
	if formatter.IsJSON() {
		result.Mnemonic = mnemonic
		return formatter.Print(result)
	}

	w := formatter.Writer()
	outln(w, "Wallet created.")
	outln(w)
	outln(w, "Recovery phrase (write it down, it is not shown again):")
	outln(w)
	outln(w, "  "+mnemonic)
	outln(w)
	return result.Fields().Render(w)
}

func runWalletImport(_ *cobra.Command, _ []string) error {
	path := cfg.GetKeyFile()

	input, err := promptSecretFn()
	if err != nil {
		return err
	}

	password, err := newWalletPassword()
	if err != nil {
		return err
	}

	info, err := wallet.Import(path, password, input, importIndex)
	if err != nil {
		return err
	}
	logger.Debug("imported wallet %s at %s", info.Address.Hex(), path)

	result := newWalletResult(info, path)
	if !formatter.IsJSON() {
		outln(os.Stderr, "Wallet imported.")
	}
	return formatter.Print(result)
}

func runWalletAddress(_ *cobra.Command, _ []string) error {
	path := cfg.GetKeyFile()

	info, err := wallet.ReadKeyInfo(path)
	if err != nil {
		return err
	}

	result := newWalletResult(info, path)
	return formatter.Print(result)
}
