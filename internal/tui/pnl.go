package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/simonvc/swipeledger/internal/client"
	"github.com/simonvc/swipeledger/internal/ledger"
)

type pnlLoadedMsg struct {
	pl       *ledger.ProfitAndLoss
	segments *ledger.Segments
	err      error
}

// pnlModel shows the profit and loss statement with swipe profit by card network.
type pnlModel struct {
	pl       *ledger.ProfitAndLoss
	segments *ledger.Segments
	loading  bool
	err      error
	width    int
	height   int
}

func (m *pnlModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		pl, err := c.ProfitAndLoss(context.Background())
		if err != nil {
			return pnlLoadedMsg{err: err}
		}
		seg, err := c.Segments(context.Background())
		return pnlLoadedMsg{pl: pl, segments: seg, err: err}
	}
}

func (m pnlModel) update(msg tea.Msg) (pnlModel, tea.Cmd) {
	switch msg := msg.(type) {
	case pnlLoadedMsg:
		m.loading = false
		m.pl = msg.pl
		m.segments = msg.segments
		m.err = msg.err
	}
	return m, nil
}

func (m *pnlModel) view() string {
	if m.loading {
		return "Loading profit and loss..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.pl == nil {
		return dimStyle.Render("No data available.")
	}

	var b strings.Builder
	w := m.width
	if w < 60 {
		w = 80
	}
	nameW := min(max(w-40, 10), 40)

	b.WriteString(titleStyle.Render(centerStr("PROFIT AND LOSS", w)))
	b.WriteString("\n\n")
	renderReportLines(&b, "Income", m.pl.Income, m.pl.TotalIncome, nameW, w)
	renderReportLines(&b, "Expenses", m.pl.Expenses, m.pl.TotalExpenses, nameW, w)

	b.WriteString(fmt.Sprintf("    %s\n", strings.Repeat("═", w-8)))
	net := fmt.Sprintf("    %-*s %16s", nameW+13, "Net Profit", signed(m.pl.NetProfit))
	b.WriteString(profitStyle(m.pl.NetProfit).Render(net))
	b.WriteString("\n")

	if m.segments != nil && len(m.segments.ByCard) > 0 {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("  %s\n", headerStyle.Render("Swipe profit by card")))
		b.WriteString(dimStyle.Render(fmt.Sprintf("    %-10s %6s %14s %14s %14s", "CARD", "COUNT", "INCOME", "EXPENSE", "PROFIT")))
		b.WriteString("\n")
		for _, s := range m.segments.ByCard {
			line := fmt.Sprintf("    %-10s %6d %14s %14s %14s",
				s.Name, s.Count, ledger.FormatAmount(s.Income), ledger.FormatAmount(s.Expense), signed(s.Profit))
			b.WriteString(profitStyle(s.Profit).Render(line))
			b.WriteString("\n")
		}
	}
	return b.String()
}
