package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/simonvc/swipeledger/internal/client"
	"github.com/simonvc/swipeledger/internal/ledger"
)

type dashboardLoadedMsg struct {
	dashboard *ledger.Dashboard
	err       error
}

type dashboardModel struct {
	dashboard *ledger.Dashboard
	loading   bool
	err       error
	width     int
	height    int
}

func (m *dashboardModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		d, err := c.Dashboard(context.Background())
		return dashboardLoadedMsg{dashboard: d, err: err}
	}
}

func (m dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		m.dashboard = msg.dashboard
		m.err = msg.err
	}
	return m, nil
}

func card(label string, amount decimal.Decimal) string {
	return cardStyle.Render(dimStyle.Render(label) + "\n" + profitStyle(amount).Render(signed(amount)))
}

func (m *dashboardModel) view() string {
	if m.loading {
		return "Loading dashboard..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	d := m.dashboard
	if d == nil {
		return dimStyle.Render("No data available.")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Dashboard"))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		card("Cash in hand", d.Cash),
		card("Bank", d.Bank),
		card("Wallets", d.Wallets),
		card("Revenue", d.Revenue),
	))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  %s\n", headerStyle.Render("Wallet balances")))
	if len(d.WalletLines) == 0 {
		b.WriteString(dimStyle.Render("    (no wallets)") + "\n")
	}
	for _, l := range d.WalletLines {
		b.WriteString(fmt.Sprintf("    %-30s %16s\n", clip(l.AccountName, 30), signed(l.Balance)))
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("  %s\n", headerStyle.Render(fmt.Sprintf("Recent transactions (%d total)", d.Transactions))))
	if len(d.Recent) == 0 {
		b.WriteString(dimStyle.Render("    (none yet)") + "\n")
	}
	for _, t := range d.Recent {
		debit, _ := ledger.Totals(t.Entries)
		b.WriteString(fmt.Sprintf("    %-16s %-14s %14s  %s\n",
			t.Date.Local().Format("2006-01-02 15:04"), t.Type, ledger.FormatAmount(debit), clip(t.Description, 40)))
	}
	return b.String()
}
