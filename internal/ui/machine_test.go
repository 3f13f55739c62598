package ui_test

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/punkmint/internal/chain/chaintest"
	"github.com/mrz1836/punkmint/internal/connection"
	"github.com/mrz1836/punkmint/internal/contract"
	"github.com/mrz1836/punkmint/internal/metrics"
	"github.com/mrz1836/punkmint/internal/mint"
	"github.com/mrz1836/punkmint/internal/network"
	"github.com/mrz1836/punkmint/internal/notify"
	"github.com/mrz1836/punkmint/internal/poller"
	"github.com/mrz1836/punkmint/internal/ui"
	"github.com/mrz1836/punkmint/internal/wallet/wallettest"
	minterr "github.com/mrz1836/punkmint/pkg/errors"
)

const waitFor = 5 * time.Second

type history struct {
	mu     sync.Mutex
	states []ui.State
}

func (h *history) record(s ui.State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.states = append(h.states, s)
}

func (h *history) loadingValues() []bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []bool
	for _, s := range h.states {
		if len(out) == 0 || out[len(out)-1] != s.Loading {
			out = append(out, s.Loading)
		}
	}
	return out
}

func (h *history) notices() []notify.Notice {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []notify.Notice
	var last *notify.Notice
	for _, s := range h.states {
		if s.Notice != nil && s.Notice != last {
			out = append(out, *s.Notice)
		}
		last = s.Notice
	}
	return out
}

type fixture struct {
	node    *chaintest.Node
	wallet  *wallettest.Wallet
	machine *ui.Machine
	history *history
}

func newFixture(t *testing.T, chainID int64, minted uint64) *fixture {
	t.Helper()

	node := chaintest.NewNode(chainID, big.NewInt(1e16), minted, 10)
	w := wallettest.New(node)
	hub := &notify.Broadcaster{}
	m := &metrics.Metrics{}

	provider := connection.NewProvider(w, nil)
	guard := network.NewGuard(big.NewInt(80001), "Mumbai", hub, nil)
	parsed, err := contract.LoadABI("")
	require.NoError(t, err)
	gateway, err := contract.NewGateway(contract.Config{Address: chaintest.ContractAddress, ABI: parsed, Price: big.NewInt(1e16)})
	require.NoError(t, err)

	source := &poller.ContractSource{Connections: provider, Guard: guard, Gateway: gateway}
	machine := ui.New(&ui.Config{
		Connections: provider,
		Workflow: mint.NewWorkflow(&mint.Config{
			Connections: provider,
			Guard:       guard,
			Gateway:     gateway,
			ConfirmPoll: time.Millisecond,
			TokenName:   "LW3Punk",
			Notifier:    hub,
			Metrics:     m,
		}),
		Poller:           poller.New(source, 5*time.Millisecond, nil, m),
		MaxSupply:        source,
		DefaultMaxSupply: "10",
	})
	hub.Attach(machine)
	t.Cleanup(machine.Close)

	h := &history{}
	machine.Subscribe(h.record)

	return &fixture{node: node, wallet: w, machine: machine, history: h}
}

func (f *fixture) connect(t *testing.T) {
	t.Helper()
	action, err := f.machine.PrimaryAction(context.Background())
	require.NoError(t, err)
	require.Equal(t, ui.ActionConnect, action)
}

func (f *fixture) waitMinted(t *testing.T, want string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.machine.State().MintedCount == want
	}, waitFor, time.Millisecond, "minted count never became %s", want)
}

func TestMachine_InitialState(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 80001, 0)
	st := f.machine.State()
	assert.False(t, st.WalletConnected)
	assert.False(t, st.Loading)
	assert.Equal(t, "0/10 have been minted", st.Progress())
	assert.Equal(t, ui.LabelConnect, f.machine.Label())
}

// Disconnected, primary action connects, the poller starts, and the
// first read is displayed.
func TestMachine_ConnectStartsPolling(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 80001, 3)
	f.connect(t)

	st := f.machine.State()
	assert.True(t, st.WalletConnected)
	assert.Equal(t, f.wallet.Address().Hex(), st.Account)
	assert.Equal(t, ui.LabelMint, f.machine.Label())

	f.waitMinted(t, "3")
	assert.Equal(t, "3/10 have been minted", f.machine.State().Progress())

	// Connecting again is a no-op: no second prompt, no second poller.
	require.NoError(t, f.machine.Connect(context.Background()))
	require.NoError(t, f.machine.Connect(context.Background()))
	assert.Equal(t, 1, f.wallet.Connects())
}

func TestMachine_ConnectRejected(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 80001, 3)
	f.wallet.RejectConnect()

	action, err := f.machine.PrimaryAction(context.Background())
	assert.Equal(t, ui.ActionConnect, action)
	require.ErrorIs(t, err, minterr.ErrConnection)
	assert.False(t, f.machine.State().WalletConnected)

	notices := f.history.notices()
	require.Len(t, notices, 1)
	assert.Equal(t, notify.Error, notices[0].Level)
}

// Connected on chain 1: the mint is refused before anything is sent and
// loading never turns on.
func TestMachine_WrongNetwork(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 1, 3)
	f.connect(t)

	action, err := f.machine.PrimaryAction(context.Background())
	assert.Equal(t, ui.ActionMint, action)
	require.ErrorIs(t, err, minterr.ErrWrongNetwork)

	assert.Empty(t, f.node.Sent())
	assert.Zero(t, f.node.ContractCalls())
	assert.Equal(t, []bool{false}, f.history.loadingValues())

	st := f.machine.State()
	require.NotNil(t, st.Notice)
	assert.Equal(t, notify.Notice{Level: notify.Warning, Message: "Change the network to Mumbai"}, *st.Notice)
	assert.Len(t, f.history.notices(), 1, "repeated warnings are shown once")
}

// Correct network, mint pays 0.01 and confirms: loading goes true then
// false, a success notice shows, and the next poll shows one more token.
func TestMachine_MintSucceeds(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 80001, 3)
	f.connect(t)
	f.waitMinted(t, "3")

	action, err := f.machine.PrimaryAction(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ui.ActionMint, action)

	sent := f.node.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "10000000000000000", sent[0].Value().String())

	assert.Equal(t, []bool{false, true, false}, f.history.loadingValues())
	st := f.machine.State()
	assert.False(t, st.Loading)
	assert.Equal(t, mint.Succeeded, st.Stage)
	require.NotNil(t, st.Notice)
	assert.Equal(t, notify.Success, st.Notice.Level)

	f.waitMinted(t, "4")
	assert.Equal(t, "4/10 have been minted", f.machine.State().Progress())
}

// The user declines to sign: loading resets, nothing succeeds, and the
// rest of the state is as before.
func TestMachine_SignatureRejected(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 80001, 3)
	f.connect(t)
	f.waitMinted(t, "3")
	f.wallet.RejectSignatures(true)

	_, err := f.machine.PrimaryAction(context.Background())
	require.ErrorIs(t, err, minterr.ErrTxRejected)

	st := f.machine.State()
	assert.False(t, st.Loading)
	assert.True(t, st.WalletConnected)
	assert.Equal(t, "3", st.MintedCount)
	assert.Empty(t, f.node.Sent())
	for _, n := range f.history.notices() {
		assert.NotEqual(t, notify.Success, n.Level)
	}
	assert.Equal(t, ui.LabelMint, f.machine.Label(), "ready to retry")
}

// While a mint is pending every further trigger is a no-op.
func TestMachine_PrimaryActionIsNoopWhilePending(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 80001, 3)
	f.connect(t)
	f.node.DelayReceipts(1_000_000)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := f.machine.PrimaryAction(ctx)
		done <- err
	}()

	require.Eventually(t, func() bool { return f.machine.State().Loading }, waitFor, time.Millisecond)
	assert.Equal(t, ui.LabelLoading, f.machine.Label())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			action, err := f.machine.PrimaryAction(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, ui.ActionNone, action)
		}()
	}
	wg.Wait()
	assert.Len(t, f.node.Sent(), 1)

	cancel()
	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(waitFor):
		t.Fatal("pending mint ignored cancellation")
	}
	assert.False(t, f.machine.State().Loading)
}

func TestMachine_Reconnect(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 80001, 3)
	f.connect(t)

	require.NoError(t, f.machine.Reconnect(context.Background()))
	assert.Equal(t, 2, f.wallet.Connects())
	assert.True(t, f.wallet.Sessions()[0].Closed())
	assert.True(t, f.machine.State().WalletConnected)

	f.wallet.RejectConnect()
	require.ErrorIs(t, f.machine.Reconnect(context.Background()), minterr.ErrConnection)
	assert.False(t, f.machine.State().WalletConnected)
	assert.Equal(t, ui.LabelConnect, f.machine.Label())
}

func TestMachine_DeclinedReconnectStopsPrompting(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 80001, 3)
	f.connect(t)

	f.wallet.RejectConnect()
	require.ErrorIs(t, f.machine.Reconnect(context.Background()), minterr.ErrConnection)
	assert.Equal(t, 2, f.wallet.Connects())

	// Several poll intervals pass; only the user may open the prompt again.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 2, f.wallet.Connects())
	assert.False(t, f.machine.State().WalletConnected)
}

func TestMachine_NoticeDedupAndDismiss(t *testing.T) {
	t.Parallel()

	f := newFixture(t, 80001, 0)
	warn := notify.Notice{Level: notify.Warning, Message: "Change the network to Mumbai"}

	f.machine.Notify(warn)
	f.machine.Notify(warn)
	assert.Len(t, f.history.notices(), 1)

	f.machine.DismissNotice()
	assert.Nil(t, f.machine.State().Notice)

	f.machine.Notify(warn)
	assert.Len(t, f.history.notices(), 2)
}

func TestState_Label(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ui.LabelConnect, ui.State{}.Label())
	assert.Equal(t, ui.LabelConnect, ui.State{Loading: true}.Label())
	assert.Equal(t, ui.LabelLoading, ui.State{WalletConnected: true, Loading: true}.Label())
	assert.Equal(t, ui.LabelMint, ui.State{WalletConnected: true}.Label())
	assert.Equal(t, "mint", ui.ActionMint.String())
}
