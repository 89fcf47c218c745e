package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/simonvc/swipeledger/internal/client"
	"github.com/simonvc/swipeledger/internal/ledger"
)

type balanceSheetLoadedMsg struct {
	bs  *ledger.BalanceSheet
	err error
}

type balanceSheetModel struct {
	bs      *ledger.BalanceSheet
	loading bool
	err     error
	width   int
	height  int
}

func (m *balanceSheetModel) init(c *client.Client) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		bs, err := c.BalanceSheet(context.Background())
		return balanceSheetLoadedMsg{bs: bs, err: err}
	}
}

func (m balanceSheetModel) update(msg tea.Msg) (balanceSheetModel, tea.Cmd) {
	switch msg := msg.(type) {
	case balanceSheetLoadedMsg:
		m.loading = false
		m.bs = msg.bs
		m.err = msg.err
	}
	return m, nil
}

func (m *balanceSheetModel) view() string {
	if m.loading {
		return "Loading balance sheet..."
	}
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	if m.bs == nil {
		return dimStyle.Render("No data available.")
	}

	var b strings.Builder
	w := m.width
	if w < 60 {
		w = 80
	}
	nameW := min(max(w-40, 10), 40)

	b.WriteString(titleStyle.Render(centerStr("BALANCE SHEET", w)))
	b.WriteString("\n\n")
	renderReportLines(&b, "Assets", m.bs.Assets, m.bs.TotalAssets, nameW, w)
	renderReportLines(&b, "Liabilities", m.bs.Liabilities, m.bs.TotalLiabilities, nameW, w)
	renderReportLines(&b, "Equity", m.bs.Equity, m.bs.TotalEquity, nameW, w)

	b.WriteString(fmt.Sprintf("    %s\n", strings.Repeat("═", w-8)))
	b.WriteString(fmt.Sprintf("    %-*s %16s\n", nameW+13, "Total L + E", signed(m.bs.TotalLiabilities.Add(m.bs.TotalEquity))))

	b.WriteString("\n")
	if m.bs.Balanced {
		b.WriteString(successStyle.Render("    [BALANCED]"))
	} else {
		b.WriteString(errorStyle.Render("    [UNBALANCED! off by " + signed(m.bs.Difference) + "]"))
	}
	return b.String()
}

// renderReportLines writes one titled section of a report with its total.
func renderReportLines(b *strings.Builder, title string, lines []ledger.ReportLine, total decimal.Decimal, nameW, w int) {
	b.WriteString(fmt.Sprintf("  %s\n", headerStyle.Render(title)))
	if len(lines) == 0 {
		b.WriteString(dimStyle.Render("    (no entries)") + "\n\n")
		return
	}
	for _, l := range lines {
		b.WriteString(fmt.Sprintf("    %-12s %-*s %16s\n", clip(l.AccountID, 12), nameW, clip(l.AccountName, nameW), signed(l.Balance)))
	}
	b.WriteString(fmt.Sprintf("    %s\n", strings.Repeat("─", w-8)))
	b.WriteString(fmt.Sprintf("    %-*s %16s\n\n", nameW+13, "Total "+title, signed(total)))
}
