package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/simonvc/swipeledger/internal/client"
	"github.com/simonvc/swipeledger/internal/ledger"
)

type txnDetailLoadedMsg struct {
	txn *ledger.Transaction
	err error
}

type txnDetailModel struct {
	txn     *ledger.Transaction
	loading bool
	err     error
	width   int
}

func (m *txnDetailModel) init(c *client.Client, id string) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		txn, err := c.GetTransaction(context.Background(), id)
		return txnDetailLoadedMsg{txn: txn, err: err}
	}
}

func (m txnDetailModel) update(msg tea.Msg) (txnDetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case txnDetailLoadedMsg:
		m.loading = false
		m.txn = msg.txn
		m.err = msg.err
	}
	return m, nil
}

func (m *txnDetailModel) view() string {
	if m.loading {
		return "Loading transaction..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.txn == nil {
		return ""
	}
	t := m.txn

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Transaction: %s", t.ID)))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Description:"), t.Description))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Type:"), t.Type))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Date:"), t.Date.Local().Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Status:"), t.Status))
	if t.Metadata.CustomerID != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Customer:"), t.Metadata.CustomerID))
	}
	if t.Metadata.WalletID != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Wallet:"), t.Metadata.WalletID))
	}
	if t.Metadata.CardType != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Card:"), strings.ToUpper(string(t.Metadata.CardType))))
	}
	b.WriteString("\n")

	header := fmt.Sprintf("  %-4s %-40s %15s %15s", "SIDE", "ACCOUNT", "DEBIT", "CREDIT")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for _, e := range t.Entries {
		if e.Credit.IsZero() {
			line := fmt.Sprintf("  %-4s %-40s %15s %15s", "DR", e.AccountID, ledger.FormatAmount(e.Debit), "")
			b.WriteString(debitStyle.Render(line))
		} else {
			line := fmt.Sprintf("  %-4s %-40s %15s %15s", "CR", e.AccountID, "", ledger.FormatAmount(e.Credit))
			b.WriteString(creditStyle.Render(line))
		}
		b.WriteString("\n")
	}
	debit, credit := ledger.Totals(t.Entries)
	b.WriteString(fmt.Sprintf("  %-45s %15s %15s\n", "", ledger.FormatAmount(debit), ledger.FormatAmount(credit)))

	b.WriteString("\n" + dimStyle.Render("  Press ESC to go back"))
	return b.String()
}
