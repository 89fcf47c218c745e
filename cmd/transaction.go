package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/simonvc/swipeledger/internal/client"
	"github.com/simonvc/swipeledger/internal/ledger"
	"github.com/spf13/cobra"
)

var transactionCmd = &cobra.Command{
	Use:     "txn",
	Aliases: []string{"transaction"},
	Short:   "Post and inspect transactions",
}

// txn post
var (
	txnDescription string
	txnType        string
	txnEntries     []string // format: "account_id:dr|cr:amount"
)

func parseEntry(s string) (ledger.Entry, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return ledger.Entry{}, fmt.Errorf("invalid entry format %q, expected account_id:dr|cr:amount", s)
	}
	amount, err := ledger.ParseAmount(parts[2])
	if err != nil {
		return ledger.Entry{}, fmt.Errorf("entry %q: %w", s, err)
	}
	switch strings.ToLower(parts[1]) {
	case "dr":
		return ledger.Dr(parts[0], amount), nil
	case "cr":
		return ledger.Cr(parts[0], amount), nil
	}
	return ledger.Entry{}, fmt.Errorf("entry %q: side must be dr or cr", s)
}

var transactionPostCmd = &cobra.Command{
	Use:   "post",
	Short: "Post a journal transaction",
	Long:  "Post a balanced transaction.\nEach --entry is formatted as \"account_id:dr|cr:amount\" (e.g. \"E003:dr:25000\")",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := client.TransactionRequest{
			Description: txnDescription,
			Type:        ledger.TxnType(strings.ToUpper(txnType)),
		}
		for _, s := range txnEntries {
			e, err := parseEntry(s)
			if err != nil {
				return err
			}
			req.Entries = append(req.Entries, e)
		}

		created, err := apiClient().PostTransaction(context.Background(), req)
		if err != nil {
			return err
		}
		printTransaction(created)
		return nil
	},
}

// txn list
var txnQuery client.TxnQuery

var transactionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		txnQuery.Type = strings.ToUpper(txnQuery.Type)
		txns, err := apiClient().ListTransactions(context.Background(), txnQuery)
		if err != nil {
			return err
		}

		if len(txns) == 0 {
			fmt.Println("No transactions found.")
			return nil
		}

		fmt.Printf("%-36s %-16s %-15s %14s  %s\n", "ID", "DATE", "TYPE", "AMOUNT", "DESCRIPTION")
		fmt.Printf("%-36s %-16s %-15s %14s  %s\n", "----", "----", "----", "------", "-----------")
		for _, t := range txns {
			debit, _ := ledger.Totals(t.Entries)
			fmt.Printf("%-36s %-16s %-15s %14s  %s\n",
				t.ID,
				t.Date.Local().Format("2006-01-02 15:04"),
				t.Type,
				ledger.FormatAmount(debit),
				truncate(t.Description, 40),
			)
		}
		return nil
	},
}

// txn get
var transactionGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get transaction details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		txn, err := apiClient().GetTransaction(context.Background(), args[0])
		if err != nil {
			return err
		}
		printTransaction(txn)
		return nil
	},
}

func init() {
	transactionPostCmd.Flags().StringVar(&txnDescription, "description", "", "Transaction description")
	transactionPostCmd.Flags().StringVar(&txnType, "type", string(ledger.TxnJournal), "Transaction type")
	transactionPostCmd.Flags().StringArrayVar(&txnEntries, "entry", nil, "Entry in format account_id:dr|cr:amount (can be repeated)")
	transactionPostCmd.MarkFlagRequired("description")
	transactionPostCmd.MarkFlagRequired("entry")

	transactionListCmd.Flags().StringVar(&txnQuery.AccountID, "account", "", "Filter by account ID")
	transactionListCmd.Flags().StringVar(&txnQuery.CustomerID, "customer", "", "Filter by customer ID")
	transactionListCmd.Flags().StringVar(&txnQuery.WalletID, "wallet", "", "Filter by wallet ID")
	transactionListCmd.Flags().StringVar(&txnQuery.Type, "type", "", "Filter by transaction type")
	transactionListCmd.Flags().IntVar(&txnQuery.Limit, "limit", 50, "Maximum rows")

	transactionCmd.AddCommand(transactionPostCmd)
	transactionCmd.AddCommand(transactionListCmd)
	transactionCmd.AddCommand(transactionGetCmd)

	rootCmd.AddCommand(transactionCmd)
}
