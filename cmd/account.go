package cmd

import (
	"context"
	"fmt"

	"github.com/simonvc/swipeledger/internal/client"
	"github.com/simonvc/swipeledger/internal/ledger"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage the chart of accounts",
}

// account create
var (
	acctCreateName     string
	acctCreateType     string
	acctCreateCategory string
	acctCreateSeed     string
)

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, err := ledger.ParseAmount(acctCreateSeed)
		if err != nil {
			return err
		}
		created, err := apiClient().CreateAccount(context.Background(), client.AccountRequest{
			Name:        acctCreateName,
			Type:        acctCreateType,
			Category:    acctCreateCategory,
			SeedBalance: seed,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Account created: %s (%s) %s/%s opening %s\n",
			created.ID, created.Name, created.Type, created.Category, ledger.FormatAmount(created.SeedBalance))
		return nil
	},
}

// account list
var (
	acctListType     string
	acctListCategory string
)

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		accounts, err := apiClient().ListAccounts(context.Background(), acctListType, acctListCategory)
		if err != nil {
			return err
		}

		if len(accounts) == 0 {
			fmt.Println("No accounts found.")
			return nil
		}

		fmt.Printf("%-12s %-30s %-10s %-10s\n", "ID", "NAME", "TYPE", "CATEGORY")
		fmt.Printf("%-12s %-30s %-10s %-10s\n", "----", "----", "----", "--------")
		for _, a := range accounts {
			fmt.Printf("%-12s %-30s %-10s %-10s\n", a.ID, truncate(a.Name, 30), a.Type, a.Category)
		}
		return nil
	},
}

// account get
var accountGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get account details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		acct, err := apiClient().GetAccount(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("ID:       %s\n", acct.ID)
		fmt.Printf("Name:     %s\n", acct.Name)
		fmt.Printf("Type:     %s (%s normal)\n", ledger.TypeLabel(acct.Type), ledger.NormalBalance(acct.Type))
		fmt.Printf("Category: %s\n", acct.Category)
		fmt.Printf("Opening:  %s\n", ledger.FormatAmount(acct.SeedBalance))
		if !acct.CreatedAt.IsZero() {
			fmt.Printf("Created:  %s\n", acct.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

// account balance
var accountBalanceCmd = &cobra.Command{
	Use:   "balance [id]",
	Short: "Get account balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bal, err := apiClient().GetAccountBalance(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Account: %s\n", bal.AccountID)
		fmt.Printf("Balance: %s %s\n", bal.Formatted, bal.Currency)
		return nil
	},
}

// account ledger
var accountLedgerCmd = &cobra.Command{
	Use:   "ledger [id]",
	Short: "Show an account statement with running balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := apiClient().AccountStatement(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s  %s\n\n", st.Account.ID, st.Account.Name)
		fmt.Printf("%-16s %-34s %14s %14s %16s\n", "DATE", "DESCRIPTION", "DEBIT", "CREDIT", "BALANCE")
		fmt.Printf("%-16s %-34s %14s %14s %16s\n", "", "Opening balance", "", "", formatSigned(st.OpeningBalance))
		for _, l := range st.Lines {
			fmt.Printf("%-16s %-34s %14s %14s %16s\n",
				l.Date.Local().Format("2006-01-02 15:04"),
				truncate(l.Description, 34),
				blankZero(l.Debit),
				blankZero(l.Credit),
				formatSigned(l.Balance))
		}
		fmt.Printf("%-16s %-34s %14s %14s %16s\n", "", "Closing balance", "", "", formatSigned(st.ClosingBalance))
		return nil
	},
}

func init() {
	accountCreateCmd.Flags().StringVar(&acctCreateName, "name", "", "Account name")
	accountCreateCmd.Flags().StringVar(&acctCreateType, "type", "", "ASSET, LIABILITY, INCOME or EXPENSE")
	accountCreateCmd.Flags().StringVar(&acctCreateCategory, "category", "", "Cash, Bank, Wallet, Customer, Revenue, Expense or Equity")
	accountCreateCmd.Flags().StringVar(&acctCreateSeed, "opening", "0", "Opening balance")
	accountCreateCmd.MarkFlagRequired("name")
	accountCreateCmd.MarkFlagRequired("type")
	accountCreateCmd.MarkFlagRequired("category")

	accountListCmd.Flags().StringVar(&acctListType, "type", "", "Filter by type")
	accountListCmd.Flags().StringVar(&acctListCategory, "category", "", "Filter by category")

	accountCmd.AddCommand(accountCreateCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountGetCmd)
	accountCmd.AddCommand(accountBalanceCmd)
	accountCmd.AddCommand(accountLedgerCmd)

	rootCmd.AddCommand(accountCmd)
}
