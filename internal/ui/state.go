package ui

import (
	"fmt"

	"github.com/mrz1836/punkmint/internal/mint"
	"github.com/mrz1836/punkmint/internal/notify"
)

// Button captions.
const (
	LabelConnect = "Connect your wallet"
	LabelLoading = "Loading..."
	LabelMint    = "Public Mint 🚀"
)

// Action is what the primary action did.
type Action int

// Primary actions.
const (
	ActionNone Action = iota
	ActionConnect
	ActionMint
)

// String implements fmt.Stringer.
func (a Action) String() string {
	switch a {
	case ActionConnect:
		return "connect"
	case ActionMint:
		return "mint"
	default:
		return "none"
	}
}

// State is the session as the display sees it.
type State struct {
	WalletConnected bool           `json:"wallet_connected"`
	Loading         bool           `json:"loading"`
	MintedCount     string         `json:"minted_count"`
	MaxSupply       string         `json:"max_supply"`
	Account         string         `json:"account,omitempty"`
	Stage           mint.Stage     `json:"-"`
	Notice          *notify.Notice `json:"-"`
}

// Progress renders the supply line, e.g. "3/10 have been minted".
func (s State) Progress() string {
	return fmt.Sprintf("%s/%s have been minted", s.MintedCount, s.MaxSupply)
}

// Label returns the caption of the primary button.
func (s State) Label() string {
	switch {
	case !s.WalletConnected:
		return LabelConnect
	case s.Loading:
		return LabelLoading
	default:
		return LabelMint
	}
}
