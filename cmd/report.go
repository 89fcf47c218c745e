package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/simonvc/swipeledger/internal/ledger"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Financial reports",
}

var balanceSheetCmd = &cobra.Command{
	Use:   "balance-sheet",
	Short: "Show balance sheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		bs, err := apiClient().BalanceSheet(context.Background())
		if err != nil {
			return err
		}
		printBalanceSheet(bs)
		return nil
	},
}

var pnlCmd = &cobra.Command{
	Use:   "pnl",
	Short: "Show profit and loss",
	RunE: func(cmd *cobra.Command, args []string) error {
		pl, err := apiClient().ProfitAndLoss(context.Background())
		if err != nil {
			return err
		}
		printProfitAndLoss(pl)
		return nil
	},
}

var trialBalanceCmd = &cobra.Command{
	Use:   "trial",
	Short: "Show trial balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		tb, err := apiClient().TrialBalance(context.Background())
		if err != nil {
			return err
		}
		printTrialBalance(tb)
		return nil
	},
}

var segmentsCmd = &cobra.Command{
	Use:   "segments",
	Short: "Show swipe profit by card, wallet and customer",
	RunE: func(cmd *cobra.Command, args []string) error {
		seg, err := apiClient().Segments(context.Background())
		if err != nil {
			return err
		}
		printSegments(seg)
		return nil
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show cash, bank and wallet positions",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := apiClient().Dashboard(context.Background())
		if err != nil {
			return err
		}
		printDashboard(d)
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Replay the ledger and check cached balances against it",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := apiClient().Verify(context.Background())
		if err != nil {
			return err
		}
		if res.CacheMatchesReplay && res.StoreMatchesReplay {
			fmt.Println("Balances match a full replay of the ledger.")
			return nil
		}
		fmt.Printf("cache matches replay: %v\n", res.CacheMatchesReplay)
		fmt.Printf("store matches replay: %v\n", res.StoreMatchesReplay)
		for _, id := range res.Mismatched {
			fmt.Printf("  mismatch: %s\n", id)
		}
		return fmt.Errorf("ledger verification failed")
	},
}

func printBalanceSheet(bs *ledger.BalanceSheet) {
	w := 60
	fmt.Println()
	fmt.Println(center("BALANCE SHEET", w))
	fmt.Println(center(strings.Repeat("=", 20), w))
	fmt.Println()

	printSection("ASSETS", bs.Assets, w)
	printTotal("Total Assets", bs.TotalAssets, "─", w)

	printSection("LIABILITIES", bs.Liabilities, w)
	printTotal("Total Liabilities", bs.TotalLiabilities, "─", w)

	printSection("EQUITY", bs.Equity, w)
	printTotal("Total Equity", bs.TotalEquity, "─", w)

	printTotal("Total L + E", bs.TotalLiabilities.Add(bs.TotalEquity), "═", w)

	if bs.Balanced {
		fmt.Println("  [BALANCED]")
	} else {
		fmt.Printf("  [UNBALANCED! off by %s]\n", formatSigned(bs.Difference))
	}
}

func printProfitAndLoss(pl *ledger.ProfitAndLoss) {
	w := 60
	fmt.Println()
	fmt.Println(center("PROFIT AND LOSS", w))
	fmt.Println(center(strings.Repeat("=", 20), w))
	fmt.Println()

	printSection("INCOME", pl.Income, w)
	printTotal("Total Income", pl.TotalIncome, "─", w)

	printSection("EXPENSES", pl.Expenses, w)
	printTotal("Total Expenses", pl.TotalExpenses, "─", w)

	printTotal("Net Profit", pl.NetProfit, "═", w)
}

func printSection(title string, lines []ledger.ReportLine, w int) {
	fmt.Printf("  %s\n", title)
	fmt.Printf("  %s\n", strings.Repeat("─", w-4))
	for _, l := range lines {
		fmt.Printf("  %-8s %-*s%15s\n", truncate(l.AccountID, 8), w-26, truncate(l.AccountName, 30), formatSigned(l.Balance))
	}
}

func printTotal(label string, amount decimal.Decimal, rule string, w int) {
	fmt.Printf("%*s%s\n", w-15, "", strings.Repeat(rule, 13))
	fmt.Printf("%-*s%15s\n\n", w-15, label, formatSigned(amount))
}

func printTrialBalance(tb *ledger.TrialBalance) {
	w := 72
	fmt.Println()
	fmt.Println(center("TRIAL BALANCE", w))
	fmt.Println(center(strings.Repeat("=", 20), w))
	fmt.Println()

	fmt.Printf("  %-8s %-30s %15s %15s\n", "ID", "NAME", "DEBIT", "CREDIT")
	fmt.Printf("  %-8s %-30s %15s %15s\n", "----", "----", "-----", "------")
	for _, l := range tb.Lines {
		fmt.Printf("  %-8s %-30s %15s %15s\n", truncate(l.AccountID, 8), truncate(l.AccountName, 30), blankZero(l.Debit), blankZero(l.Credit))
	}
	fmt.Printf("  %s\n", strings.Repeat("─", w-4))
	fmt.Printf("  %-39s %15s %15s\n", "TOTALS", ledger.FormatAmount(tb.TotalDebit), ledger.FormatAmount(tb.TotalCredit))

	if tb.Balanced {
		fmt.Println("\n  [BALANCED]")
	} else {
		fmt.Println("\n  [UNBALANCED!]")
	}
}

func printSegments(seg *ledger.Segments) {
	header := func(title string) {
		fmt.Printf("\n  %s\n", title)
		fmt.Printf("  %-24s %6s %14s %14s %14s\n", "", "COUNT", "INCOME", "EXPENSE", "PROFIT")
	}
	row := func(s ledger.SegmentPL) {
		fmt.Printf("  %-24s %6d %14s %14s %14s\n", truncate(s.Name, 24), s.Count,
			ledger.FormatAmount(s.Income), ledger.FormatAmount(s.Expense), formatSigned(s.Profit))
	}

	fmt.Println()
	fmt.Println(center("SWIPE SEGMENTS", 76))
	fmt.Println(center(strings.Repeat("=", 20), 76))

	header("TOTAL")
	row(seg.Total)
	header("BY CARD")
	for _, s := range seg.ByCard {
		row(s)
	}
	header("BY WALLET")
	for _, s := range seg.ByWallet {
		row(s)
	}
	header("TOP CUSTOMERS")
	for _, s := range seg.TopCustomers {
		row(s)
	}
}

func printDashboard(d *ledger.Dashboard) {
	fmt.Printf("Cash:          %15s\n", formatSigned(d.Cash))
	fmt.Printf("Bank:          %15s\n", formatSigned(d.Bank))
	fmt.Printf("Wallets:       %15s\n", formatSigned(d.Wallets))
	fmt.Printf("Revenue:       %15s\n", formatSigned(d.Revenue))
	fmt.Printf("Transactions:  %15d\n", d.Transactions)

	if len(d.WalletLines) > 0 {
		fmt.Println("\nWALLETS")
		for _, l := range d.WalletLines {
			fmt.Printf("  %-30s %15s\n", truncate(l.AccountName, 30), formatSigned(l.Balance))
		}
	}
	if len(d.Recent) > 0 {
		fmt.Println("\nRECENT")
		for _, t := range d.Recent {
			fmt.Printf("  %s  %-14s %s\n", t.Date.Local().Format("2006-01-02 15:04"), t.Type, truncate(t.Description, 40))
		}
	}
}

func init() {
	reportCmd.AddCommand(balanceSheetCmd, pnlCmd, trialBalanceCmd, segmentsCmd, dashboardCmd, verifyCmd)
	rootCmd.AddCommand(reportCmd)
}
