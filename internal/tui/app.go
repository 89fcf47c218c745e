package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/simonvc/swipeledger/internal/client"
	"github.com/simonvc/swipeledger/internal/ledger"
)

type mode int

const (
	modeDashboard mode = iota
	modeAccountList
	modeAccountDetail
	modeTransactionList
	modeTransactionDetail
	modeBalanceSheet
	modeProfitAndLoss
	modeWallets
)

var tabModes = []mode{modeDashboard, modeAccountList, modeTransactionList, modeBalanceSheet, modeProfitAndLoss, modeWallets}

func tabLabel(m mode) string {
	switch m {
	case modeDashboard:
		return "Dashboard"
	case modeAccountList:
		return "Accounts"
	case modeTransactionList:
		return "Transactions"
	case modeBalanceSheet:
		return "Balance Sheet"
	case modeProfitAndLoss:
		return "P&L"
	case modeWallets:
		return "Wallets"
	default:
		return ""
	}
}

type App struct {
	client        *client.Client
	mode          mode
	tabIndex      int
	width, height int
	statusMsg     string

	dashboard     dashboardModel
	accountList   accountListModel
	accountDetail accountDetailModel
	txnList       txnListModel
	txnDetail     txnDetailModel
	balanceSheet  balanceSheetModel
	pnl           pnlModel
	wallets       walletsModel
}

func NewApp(c *client.Client) *App {
	return &App{
		client:      c,
		mode:        modeDashboard,
		accountList: newAccountList(),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.init(a.client),
		a.accountList.init(a.client),
		a.txnList.init(a.client),
		a.balanceSheet.init(a.client),
		a.pnl.init(a.client),
		a.wallets.init(a.client),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = msg.Width
		a.height = msg.Height
		h := msg.Height - 6
		a.dashboard.width, a.dashboard.height = msg.Width, h
		a.accountList.width, a.accountList.height = msg.Width, h
		a.accountDetail.width, a.accountDetail.height = msg.Width, h
		a.txnList.width, a.txnList.height = msg.Width, h
		a.txnDetail.width = msg.Width
		a.balanceSheet.width, a.balanceSheet.height = msg.Width, h
		a.pnl.width, a.pnl.height = msg.Width, h
		a.wallets.width, a.wallets.height = msg.Width, h
		return a, nil
	}

	// Route data-loaded messages to their sub-model regardless of active mode,
	// since Init fires every load at once.
	switch typedMsg := msg.(type) {
	case dashboardLoadedMsg:
		a.dashboard, _ = a.dashboard.update(msg)
		return a, nil
	case accountsLoadedMsg:
		a.accountList, _ = a.accountList.update(msg, a.client)
		return a, nil
	case accountDetailLoadedMsg:
		a.accountDetail, _ = a.accountDetail.update(msg)
		return a, nil
	case txnsLoadedMsg:
		a.txnList, _ = a.txnList.update(msg)
		return a, nil
	case txnDetailLoadedMsg:
		a.txnDetail, _ = a.txnDetail.update(msg)
		return a, nil
	case balanceSheetLoadedMsg:
		a.balanceSheet, _ = a.balanceSheet.update(msg)
		return a, nil
	case pnlLoadedMsg:
		a.pnl, _ = a.pnl.update(msg)
		return a, nil
	case walletsLoadedMsg:
		a.wallets, _ = a.wallets.update(msg)
		return a, nil
	case walletReconcileRequestMsg:
		id, actual := typedMsg.id, typedMsg.actual
		return a, func() tea.Msg {
			res, err := a.client.ReconcileWallet(context.Background(), id, actual)
			return walletReconciledMsg{result: res, err: err}
		}
	case walletReconciledMsg:
		a.wallets, _ = a.wallets.update(msg)
		if typedMsg.err != nil {
			return a, nil
		}
		a.statusMsg = reconcileStatus(typedMsg.result)
		return a, a.refreshAll()
	}

	// While the wallet view is reading an amount, it gets every key.
	if a.mode == modeWallets && a.wallets.reconciling {
		var cmd tea.Cmd
		a.wallets, cmd = a.wallets.update(msg)
		return a, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit

		case key.Matches(msg, keys.Tab):
			a.switchTab(a.tabIndex + 1)
			return a, a.refreshTab()

		case key.Matches(msg, keys.ShiftTab):
			a.switchTab(a.tabIndex - 1)
			return a, a.refreshTab()

		case key.Matches(msg, keys.Refresh):
			a.statusMsg = ""
			return a, a.refreshTab()

		case key.Matches(msg, keys.Escape):
			switch a.mode {
			case modeAccountDetail:
				a.mode = modeAccountList
			case modeTransactionDetail:
				a.mode = modeTransactionList
			}
			return a, nil

		case key.Matches(msg, keys.Enter):
			switch a.mode {
			case modeAccountList:
				if acctID := a.accountList.selectedID(); acctID != "" {
					a.mode = modeAccountDetail
					return a, a.accountDetail.init(a.client, acctID)
				}
				return a, nil
			case modeTransactionList:
				if txnID := a.txnList.selectedID(); txnID != "" {
					a.mode = modeTransactionDetail
					return a, a.txnDetail.init(a.client, txnID)
				}
				return a, nil
			}
		}
	}

	// Delegate update to active sub-model
	var cmd tea.Cmd
	switch a.mode {
	case modeAccountList:
		a.accountList, cmd = a.accountList.update(msg, a.client)
	case modeTransactionList:
		a.txnList, cmd = a.txnList.update(msg)
	case modeWallets:
		a.wallets, cmd = a.wallets.update(msg)
	}
	return a, cmd
}

func (a *App) switchTab(i int) {
	a.tabIndex = (i + len(tabModes)) % len(tabModes)
	a.mode = tabModes[a.tabIndex]
	a.statusMsg = ""
}

func (a *App) refreshTab() tea.Cmd {
	switch a.mode {
	case modeDashboard:
		return a.dashboard.init(a.client)
	case modeAccountList:
		return a.accountList.init(a.client)
	case modeTransactionList:
		return a.txnList.init(a.client)
	case modeBalanceSheet:
		return a.balanceSheet.init(a.client)
	case modeProfitAndLoss:
		return a.pnl.init(a.client)
	case modeWallets:
		return a.wallets.init(a.client)
	}
	return nil
}

// refreshAll reloads every view that a new posting can change.
func (a *App) refreshAll() tea.Cmd {
	return tea.Batch(
		a.dashboard.init(a.client),
		a.txnList.init(a.client),
		a.balanceSheet.init(a.client),
		a.pnl.init(a.client),
		a.wallets.init(a.client),
	)
}

func reconcileStatus(res *client.ReconcileResult) string {
	if res == nil || !res.Adjusted {
		return "Wallet already matches the provider balance"
	}
	return "Wallet reconciled, balance now " + ledger.FormatAmount(res.Balance)
}

func (a *App) View() string {
	tabs := ""
	for i, m := range tabModes {
		label := tabLabel(m)
		if i == a.tabIndex {
			tabs += activeTabStyle.Render(label)
		} else {
			tabs += inactiveTabStyle.Render(label)
		}
		if i < len(tabModes)-1 {
			tabs += " "
		}
	}

	var content string
	switch a.mode {
	case modeDashboard:
		content = a.dashboard.view()
	case modeAccountList:
		content = a.accountList.view()
	case modeAccountDetail:
		content = a.accountDetail.view()
	case modeTransactionList:
		content = a.txnList.view()
	case modeTransactionDetail:
		content = a.txnDetail.view()
	case modeBalanceSheet:
		content = a.balanceSheet.view()
	case modeProfitAndLoss:
		content = a.pnl.view()
	case modeWallets:
		content = a.wallets.view()
	}

	status := ""
	if a.statusMsg != "" {
		status = successStyle.Render(a.statusMsg)
	}

	helpText := dimStyle.Render("tab:switch  enter:select  esc:back  f:filter  r:reconcile  g:refresh  q:quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		tabs,
		"",
		content,
		"",
		status,
		helpText,
	)
}
