package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/simonvc/swipeledger/internal/client"
	"github.com/simonvc/swipeledger/internal/ledger"
)

type walletRow struct {
	wallet  ledger.Wallet
	balance decimal.Decimal
}

type walletsLoadedMsg struct {
	rows []walletRow
	err  error
}

// walletReconcileRequestMsg is sent when the user confirms an actual balance.
type walletReconcileRequestMsg struct {
	id     string
	actual decimal.Decimal
}

// walletReconciledMsg is sent after the server books the adjustment.
type walletReconciledMsg struct {
	result *client.ReconcileResult
	err    error
}

type walletsModel struct {
	rows    []walletRow
	cursor  int
	loading bool
	err     error
	width   int
	height  int

	reconciling bool
	input       textinput.Model
}

func (m *walletsModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		wallets, err := c.ListWallets(context.Background())
		if err != nil {
			return walletsLoadedMsg{err: err}
		}
		rows := make([]walletRow, 0, len(wallets))
		for _, w := range wallets {
			bal, err := c.GetAccountBalance(context.Background(), w.LedgerAccountID)
			if err != nil {
				return walletsLoadedMsg{err: err}
			}
			rows = append(rows, walletRow{wallet: w, balance: bal.Balance})
		}
		return walletsLoadedMsg{rows: rows}
	}
}

func (m walletsModel) update(msg tea.Msg) (walletsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case walletsLoadedMsg:
		m.loading = false
		m.rows = msg.rows
		m.err = msg.err
		if m.cursor >= len(m.rows) {
			m.cursor = max(len(m.rows)-1, 0)
		}
		return m, nil

	case walletReconciledMsg:
		m.err = msg.err
		return m, nil
	}

	if m.reconciling {
		return m.updateInput(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Reconcile):
			if m.selected() == nil {
				return m, nil
			}
			m.input = textinput.New()
			m.input.Placeholder = "e.g. 125000.00"
			m.input.CharLimit = 20
			m.input.Focus()
			m.reconciling = true
			m.err = nil
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m walletsModel) updateInput(msg tea.Msg) (walletsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEsc:
			m.reconciling = false
			return m, nil
		case tea.KeyEnter:
			actual, err := ledger.ParseAmount(m.input.Value())
			if err != nil {
				m.err = err
				return m, nil
			}
			m.reconciling = false
			id := m.selected().wallet.ID
			return m, func() tea.Msg {
				return walletReconcileRequestMsg{id: id, actual: actual}
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *walletsModel) selected() *walletRow {
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		return &m.rows[m.cursor]
	}
	return nil
}

func (m *walletsModel) view() string {
	if m.loading {
		return "Loading wallets..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Wallets"))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(dimStyle.Render("No wallets found."))
	} else {
		header := fmt.Sprintf("  %-12s %-28s %16s  %s", "ID", "NAME", "BALANCE", "GATEWAYS")
		b.WriteString(headerStyle.Render(header))
		b.WriteString("\n")

		start, end := visibleRows(m.cursor, len(m.rows), m.height-6)
		for i := start; i < end; i++ {
			r := m.rows[i]
			names := make([]string, len(r.wallet.PGs))
			for j, pg := range r.wallet.PGs {
				names[j] = pg.Name
			}
			line := fmt.Sprintf("  %-12s %-28s %16s  %s",
				clip(r.wallet.ID, 12), clip(r.wallet.Name, 28), signed(r.balance), strings.Join(names, ", "))
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> " + line[2:]))
			} else {
				b.WriteString(line)
			}
			b.WriteString("\n")
		}

		if sel := m.selected(); sel != nil {
			b.WriteString("\n")
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %-16s %8s %8s %8s %8s", "MDR %", "VISA", "MASTER", "AMEX", "RUPAY")))
			b.WriteString("\n")
			for _, pg := range sel.wallet.PGs {
				b.WriteString(fmt.Sprintf("  %-16s %8s %8s %8s %8s\n", clip(pg.Name, 16),
					pg.Charges.Rate(ledger.CardVisa), pg.Charges.Rate(ledger.CardMaster),
					pg.Charges.Rate(ledger.CardAmex), pg.Charges.Rate(ledger.CardRupay)))
			}
		}
	}

	if m.reconciling {
		sel := m.selected()
		b.WriteString("\n" + warnStyle.Render(fmt.Sprintf("  Actual balance of %s: ", sel.wallet.Name)) + m.input.View())
		b.WriteString("\n" + dimStyle.Render("  enter:reconcile  esc:cancel"))
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("  Error: "+m.err.Error()))
	}
	return b.String()
}
