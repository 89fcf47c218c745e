package tui

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/simonvc/swipeledger/internal/client"
	"github.com/simonvc/swipeledger/internal/engine"
	"github.com/simonvc/swipeledger/internal/ledger"
	"github.com/simonvc/swipeledger/internal/server"
	"github.com/simonvc/swipeledger/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, store.DriverMemory, "", ledger.DefaultSeed())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng, err := engine.New(ctx, st, engine.WithLogger(log))
	require.NoError(t, err)

	ts := httptest.NewServer(server.New(eng, "", log).Handler())
	t.Cleanup(ts.Close)

	app := NewApp(client.New(ts.URL))
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds msg to the app and then every message its commands produce,
// stopping at the first batch so the test stays synchronous.
func send(a *App, msg tea.Msg) {
	_, cmd := a.Update(msg)
	for cmd != nil {
		next := cmd()
		switch next.(type) {
		case nil, tea.BatchMsg:
			return
		}
		_, cmd = a.Update(next)
	}
}

func TestDashboardView(t *testing.T) {
	app := newTestApp(t)
	send(app, app.dashboard.init(app.client)())

	view := app.View()
	assert.Contains(t, view, "Cash in hand")
	assert.Contains(t, view, "Wallet A (Razorpay)")
}

func TestTabsCycle(t *testing.T) {
	app := newTestApp(t)
	for _, want := range tabModes[1:] {
		app.Update(tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, want, app.mode)
	}
	app.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, modeDashboard, app.mode)

	app.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, modeWallets, app.mode)
}

func TestAccountDrillDown(t *testing.T) {
	app := newTestApp(t)
	app.switchTab(1)
	send(app, app.accountList.init(app.client)())
	require.NotEmpty(t, app.accountList.accounts)

	send(app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, modeAccountDetail, app.mode)
	require.NotNil(t, app.accountDetail.statement)
	assert.Contains(t, app.View(), "Account: "+app.accountList.accounts[0].ID)

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeAccountList, app.mode)
}

func TestAccountFilter(t *testing.T) {
	app := newTestApp(t)
	app.switchTab(1)
	send(app, app.accountList.init(app.client)())
	all := len(app.accountList.accounts)

	send(app, runes("f"))
	assert.Equal(t, "ASSET", app.accountList.filterType())
	assert.Less(t, len(app.accountList.accounts), all)
	for _, a := range app.accountList.accounts {
		assert.Equal(t, ledger.TypeAsset, a.Type)
	}
}

func TestWalletReconcile(t *testing.T) {
	app := newTestApp(t)
	app.switchTab(len(tabModes) - 1)
	send(app, app.wallets.init(app.client)())
	require.Len(t, app.wallets.rows, 2)

	app.Update(runes("r"))
	require.True(t, app.wallets.reconciling)

	// q goes to the input rather than quitting.
	app.Update(runes("q"))
	assert.Equal(t, "q", app.wallets.input.Value())
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, app.wallets.reconciling)
	assert.Contains(t, app.View(), "Error:")

	app.wallets.input.SetValue("")
	app.Update(runes("1500"))
	send(app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, app.wallets.reconciling)
	assert.Equal(t, "Wallet reconciled, balance now 1,500.00", app.statusMsg)

	send(app, app.wallets.init(app.client)())
	assert.Equal(t, "1500.00", app.wallets.rows[0].balance.StringFixed(2))
}
