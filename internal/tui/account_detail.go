package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/simonvc/swipeledger/internal/client"
	"github.com/simonvc/swipeledger/internal/ledger"
)

type accountDetailLoadedMsg struct {
	statement *ledger.Statement
	err       error
}

// accountDetailModel shows an account statement with a running balance.
type accountDetailModel struct {
	statement *ledger.Statement
	loading   bool
	err       error
	width     int
	height    int
}

func (m *accountDetailModel) init(c *client.Client, id string) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		st, err := c.AccountStatement(context.Background(), id)
		return accountDetailLoadedMsg{statement: st, err: err}
	}
}

func (m accountDetailModel) update(msg tea.Msg) (accountDetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case accountDetailLoadedMsg:
		m.loading = false
		m.statement = msg.statement
		m.err = msg.err
	}
	return m, nil
}

func (m *accountDetailModel) view() string {
	if m.loading {
		return "Loading account..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.statement == nil {
		return ""
	}
	acct := m.statement.Account

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Account: %s", acct.ID)))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Name:"), acct.Name))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Type:"), acct.Type))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Category:"), acct.Category))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Opening:"), signed(m.statement.OpeningBalance)))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Balance:"), signed(m.statement.ClosingBalance)))
	b.WriteString("\n")

	if len(m.statement.Lines) == 0 {
		b.WriteString(dimStyle.Render("  No postings."))
	} else {
		header := fmt.Sprintf("  %-16s %-14s %-28s %14s %14s %16s", "DATE", "TYPE", "DESCRIPTION", "DEBIT", "CREDIT", "BALANCE")
		b.WriteString(headerStyle.Render(header))
		b.WriteString("\n")

		// Newest postings last, so show the tail when the statement is long.
		lines := m.statement.Lines
		if rows := m.height - 12; rows > 0 && len(lines) > rows {
			lines = lines[len(lines)-rows:]
		}
		for _, l := range lines {
			debit, credit := "", ""
			if !l.Debit.IsZero() {
				debit = ledger.FormatAmount(l.Debit)
			}
			if !l.Credit.IsZero() {
				credit = ledger.FormatAmount(l.Credit)
			}
			line := fmt.Sprintf("  %-16s %-14s %-28s %14s %14s %16s",
				l.Date.Local().Format("2006-01-02 15:04"), l.Type, clip(l.Description, 28), debit, credit, signed(l.Balance))
			if l.Debit.GreaterThan(l.Credit) {
				b.WriteString(debitStyle.Render(line))
			} else {
				b.WriteString(creditStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n" + dimStyle.Render("  Press ESC to go back"))
	return b.String()
}
