package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/simonvc/swipeledger/internal/client"
	"github.com/simonvc/swipeledger/internal/ledger"
)

type accountsLoadedMsg struct {
	accounts []ledger.Account
	err      error
}

type accountListModel struct {
	accounts []ledger.Account
	cursor   int
	loading  bool
	err      error
	width    int
	height   int

	// filter indexes into ledger.AllAccountTypes; -1 shows every type.
	filter int
}

func newAccountList() accountListModel {
	return accountListModel{filter: -1}
}

func (m *accountListModel) filterType() string {
	if m.filter < 0 {
		return ""
	}
	return string(ledger.AllAccountTypes[m.filter])
}

func (m *accountListModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	typ := m.filterType()
	return func() tea.Msg {
		accounts, err := c.ListAccounts(context.Background(), typ, "")
		return accountsLoadedMsg{accounts: accounts, err: err}
	}
}

func (m accountListModel) update(msg tea.Msg, c *client.Client) (accountListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case accountsLoadedMsg:
		m.loading = false
		m.accounts = msg.accounts
		m.err = msg.err
		if m.cursor >= len(m.accounts) {
			m.cursor = max(len(m.accounts)-1, 0)
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.accounts)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Filter):
			m.filter++
			if m.filter >= len(ledger.AllAccountTypes) {
				m.filter = -1
			}
			m.cursor = 0
			return m, m.init(c)
		}
	}
	return m, nil
}

func (m *accountListModel) selectedID() string {
	if m.cursor >= 0 && m.cursor < len(m.accounts) {
		return m.accounts[m.cursor].ID
	}
	return ""
}

func (m *accountListModel) view() string {
	if m.loading {
		return "Loading accounts..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}

	var b strings.Builder

	title := "Accounts"
	if t := m.filterType(); t != "" {
		title += " (" + t + ")"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if len(m.accounts) == 0 {
		b.WriteString(dimStyle.Render("No accounts found."))
		return b.String()
	}

	header := fmt.Sprintf("  %-12s %-30s %-10s %-10s %16s", "ID", "NAME", "TYPE", "CATEGORY", "OPENING")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	start, end := visibleRows(m.cursor, len(m.accounts), m.height)
	for i := start; i < end; i++ {
		a := m.accounts[i]
		line := fmt.Sprintf("  %-12s %-30s %-10s %-10s %16s",
			clip(a.ID, 12), clip(a.Name, 30), a.Type, a.Category, signed(a.SeedBalance))
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line[2:]))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n  %d accounts", len(m.accounts)))
	return b.String()
}
