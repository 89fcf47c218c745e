package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/simonvc/swipeledger/internal/client"
	"github.com/simonvc/swipeledger/internal/ledger"
	"github.com/spf13/cobra"
)

var customerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Manage customers",
}

var (
	custName  string
	custPhone string
	custRates string
)

var customerCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a customer and open their payable account",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := client.CustomerRequest{Name: custName, Phone: custPhone}
		if custRates != "" {
			rates, err := parseRates(custRates, ledger.DefaultCommissionRates)
			if err != nil {
				return err
			}
			req.CommissionRates = &rates
		}
		cust, err := apiClient().CreateCustomer(context.Background(), req)
		if err != nil {
			return err
		}
		printCustomer(cust)
		return nil
	},
}

var customerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List customers",
	RunE: func(cmd *cobra.Command, args []string) error {
		customers, err := apiClient().ListCustomers(context.Background())
		if err != nil {
			return err
		}
		if len(customers) == 0 {
			fmt.Println("No customers found.")
			return nil
		}
		fmt.Printf("%-38s %-24s %-12s %-38s %s\n", "ID", "NAME", "PHONE", "ACCOUNT", "RATES")
		for _, c := range customers {
			fmt.Printf("%-38s %-24s %-12s %-38s %s\n", c.ID, truncate(c.Name, 24), c.Phone, c.LedgerAccountID, ratesString(c.CommissionRates))
		}
		return nil
	},
}

var customerGetCmd = &cobra.Command{
	Use:   "get [id-or-phone]",
	Short: "Show a customer by id, or by phone with --phone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := apiClient()
		var (
			cust *ledger.Customer
			err  error
		)
		if byPhone, _ := cmd.Flags().GetBool("phone"); byPhone {
			cust, err = c.FindCustomerByPhone(context.Background(), args[0])
		} else {
			cust, err = c.GetCustomer(context.Background(), args[0])
		}
		if err != nil {
			return err
		}
		printCustomer(cust)
		bal, err := c.GetAccountBalance(context.Background(), cust.LedgerAccountID)
		if err == nil {
			fmt.Printf("Payable:  %s %s\n", bal.Formatted, bal.Currency)
		}
		return nil
	},
}

var customerUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Edit a customer's name, phone or commission rates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := apiClient()
		var upd ledger.CustomerUpdate
		if cmd.Flags().Changed("name") {
			upd.Name = &custName
		}
		if cmd.Flags().Changed("phone") {
			upd.Phone = &custPhone
		}
		if cmd.Flags().Changed("rates") {
			cur, err := c.GetCustomer(context.Background(), args[0])
			if err != nil {
				return err
			}
			rates, err := parseRates(custRates, cur.CommissionRates)
			if err != nil {
				return err
			}
			upd.CommissionRates = &rates
		}
		cust, err := c.UpdateCustomer(context.Background(), args[0], upd)
		if err != nil {
			return err
		}
		printCustomer(cust)
		return nil
	},
}

func printCustomer(c *ledger.Customer) {
	fmt.Printf("ID:       %s\n", c.ID)
	fmt.Printf("Name:     %s\n", c.Name)
	fmt.Printf("Phone:    %s\n", c.Phone)
	fmt.Printf("Account:  %s\n", c.LedgerAccountID)
	fmt.Printf("Rates:    %s\n", ratesString(c.CommissionRates))
}

func ratesString(r ledger.Rates) string {
	parts := make([]string, 0, len(ledger.AllCardTypes))
	for _, card := range ledger.AllCardTypes {
		parts = append(parts, fmt.Sprintf("%s %s%%", card, r.Rate(card)))
	}
	return strings.Join(parts, ", ")
}

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallets and their payment gateways",
}

var (
	walletName    string
	walletPGName  string
	walletCharges string
)

var walletCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a wallet with its first payment gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		charges, err := parseRates(walletCharges, ledger.Rates{})
		if err != nil {
			return err
		}
		w, err := apiClient().CreateWallet(context.Background(), client.WalletRequest{
			Name: walletName,
			PG:   ledger.PGConfig{Name: walletPGName, Charges: charges},
		})
		if err != nil {
			return err
		}
		printWallet(w)
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wallets with their ledger balances",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := apiClient()
		wallets, err := c.ListWallets(context.Background())
		if err != nil {
			return err
		}
		if len(wallets) == 0 {
			fmt.Println("No wallets found.")
			return nil
		}
		fmt.Printf("%-38s %-24s %18s  %s\n", "ID", "NAME", "BALANCE", "GATEWAYS")
		for _, w := range wallets {
			balance := "?"
			if bal, err := c.GetAccountBalance(context.Background(), w.LedgerAccountID); err == nil {
				balance = bal.Formatted
			}
			names := make([]string, len(w.PGs))
			for i, pg := range w.PGs {
				names[i] = pg.Name
			}
			fmt.Printf("%-38s %-24s %18s  %s\n", w.ID, truncate(w.Name, 24), balance, strings.Join(names, ", "))
		}
		return nil
	},
}

var walletAddPGCmd = &cobra.Command{
	Use:   "add-pg [wallet-id]",
	Short: "Add a payment gateway to a wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		charges, err := parseRates(walletCharges, ledger.Rates{})
		if err != nil {
			return err
		}
		w, err := apiClient().AddWalletPG(context.Background(), args[0], ledger.PGConfig{Name: walletPGName, Charges: charges})
		if err != nil {
			return err
		}
		printWallet(w)
		return nil
	},
}

var walletUpdatePGCmd = &cobra.Command{
	Use:   "update-pg [wallet-id] [pg-name]",
	Short: "Change a payment gateway's name or MDR charges",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := apiClient()
		w, err := c.GetWallet(context.Background(), args[0])
		if err != nil {
			return err
		}
		pg, ok := w.PG(args[1])
		if !ok {
			return fmt.Errorf("%w: %s", ledger.ErrPGNotFound, args[1])
		}
		if cmd.Flags().Changed("pg") {
			pg.Name = walletPGName
		}
		if pg.Charges, err = parseRates(walletCharges, pg.Charges); err != nil {
			return err
		}
		w, err = c.UpdateWalletPG(context.Background(), args[0], args[1], pg)
		if err != nil {
			return err
		}
		printWallet(w)
		return nil
	},
}

var walletReconcileCmd = &cobra.Command{
	Use:   "reconcile [wallet-id] [actual-balance]",
	Short: "Book the difference between the ledger and the provider's balance",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		actual, err := ledger.ParseAmount(args[1])
		if err != nil {
			return err
		}
		res, err := apiClient().ReconcileWallet(context.Background(), args[0], actual)
		if err != nil {
			return err
		}
		if !res.Adjusted {
			fmt.Printf("Wallet %s already reconciled at %s\n", res.WalletID, ledger.FormatAmount(res.Balance))
			return nil
		}
		printTransaction(res.Transaction)
		fmt.Printf("\nWallet balance now %s\n", ledger.FormatAmount(res.Balance))
		return nil
	},
}

func printWallet(w *ledger.Wallet) {
	fmt.Printf("ID:       %s\n", w.ID)
	fmt.Printf("Name:     %s\n", w.Name)
	fmt.Printf("Account:  %s\n", w.LedgerAccountID)
	fmt.Printf("Gateways:\n")
	for _, pg := range w.PGs {
		fmt.Printf("  %-16s %s\n", pg.Name, ratesString(pg.Charges))
	}
}

func init() {
	customerCreateCmd.Flags().StringVar(&custName, "name", "", "Customer name")
	customerCreateCmd.Flags().StringVar(&custPhone, "phone", "", "Phone number")
	customerCreateCmd.Flags().StringVar(&custRates, "rates", "", "Commission rates, e.g. visa=2,amex=3.5")
	customerCreateCmd.MarkFlagRequired("name")

	customerGetCmd.Flags().Bool("phone", false, "Look the customer up by phone number")

	customerUpdateCmd.Flags().StringVar(&custName, "name", "", "New name")
	customerUpdateCmd.Flags().StringVar(&custPhone, "phone", "", "New phone number")
	customerUpdateCmd.Flags().StringVar(&custRates, "rates", "", "Rates to change, e.g. visa=2.2")

	customerCmd.AddCommand(customerCreateCmd, customerListCmd, customerGetCmd, customerUpdateCmd)
	rootCmd.AddCommand(customerCmd)

	walletCreateCmd.Flags().StringVar(&walletName, "name", "", "Wallet name")
	for _, c := range []*cobra.Command{walletCreateCmd, walletAddPGCmd, walletUpdatePGCmd} {
		c.Flags().StringVar(&walletPGName, "pg", "", "Payment gateway name")
		c.Flags().StringVar(&walletCharges, "charges", "", "MDR per card, e.g. visa=1.2,amex=2.5")
	}
	walletCreateCmd.MarkFlagRequired("name")
	walletCreateCmd.MarkFlagRequired("pg")
	walletAddPGCmd.MarkFlagRequired("pg")

	walletCmd.AddCommand(walletCreateCmd, walletListCmd, walletAddPGCmd, walletUpdatePGCmd, walletReconcileCmd)
	rootCmd.AddCommand(walletCmd)
}
