package cmd

import (
	"context"
	"fmt"

	"github.com/simonvc/swipeledger/internal/client"
	"github.com/simonvc/swipeledger/internal/ledger"
	"github.com/spf13/cobra"
)

var (
	wfCustomer string
	wfWallet   string
	wfPG       string
	wfCard     string
	wfAmount   string
	wfRate     string
	wfFee      string
	wfAccount  string
	wfQuote    bool
	wfMDR      string
)

var swipeCmd = &cobra.Command{
	Use:   "swipe",
	Short: "Swipe-then-pay: the customer's card is swiped first, then they are paid out",
}

var swipeInflowCmd = &cobra.Command{
	Use:   "inflow",
	Short: "Record a card swipe through a wallet gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := ledger.ParseAmount(wfAmount)
		if err != nil {
			return err
		}
		rate, err := optionalAmount(wfRate)
		if err != nil {
			return err
		}
		req := client.SwipeRequest{
			CustomerID:  wfCustomer,
			WalletID:    wfWallet,
			PGName:      wfPG,
			CardType:    wfCard,
			Amount:      amount,
			ServiceRate: rate,
		}

		c := apiClient()
		if wfQuote {
			q, err := c.QuoteSwipe(context.Background(), req)
			if err != nil {
				return err
			}
			printQuote(q)
			return nil
		}
		res, err := c.SwipeInflow(context.Background(), req)
		if err != nil {
			return err
		}
		printTransaction(res.Transaction)
		fmt.Println()
		printQuote(res.Quote)
		return nil
	},
}

var swipePayoutCmd = &cobra.Command{
	Use:   "payout",
	Short: "Pay a customer what they are owed from a swipe",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := ledger.ParseAmount(wfAmount)
		if err != nil {
			return err
		}
		fee, err := ledger.ParseAmount(wfFee)
		if err != nil {
			return err
		}
		t, err := apiClient().SwipePayout(context.Background(), client.PayoutRequest{
			CustomerID:      wfCustomer,
			PayoutAccountID: wfAccount,
			Amount:          amount,
			TransferFee:     fee,
		})
		if err != nil {
			return err
		}
		printTransaction(t)
		return nil
	},
}

var paySwipeCmd = &cobra.Command{
	Use:   "payswipe",
	Short: "Pay-then-swipe: the customer is advanced money and recovered by a later swipe",
}

var advanceCmd = &cobra.Command{
	Use:   "advance",
	Short: "Advance money to a customer",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := ledger.ParseAmount(wfAmount)
		if err != nil {
			return err
		}
		t, err := apiClient().AdvancePay(context.Background(), client.AdvanceRequest{
			CustomerID:      wfCustomer,
			SourceAccountID: wfAccount,
			Amount:          amount,
		})
		if err != nil {
			return err
		}
		printTransaction(t)
		return nil
	},
}

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Recover an advance with a card swipe",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := ledger.ParseAmount(wfAmount)
		if err != nil {
			return err
		}
		charges, err := ledger.ParseAmount(wfFee)
		if err != nil {
			return err
		}
		mdr, err := optionalAmount(wfMDR)
		if err != nil {
			return err
		}
		commission, err := optionalAmount(wfRate)
		if err != nil {
			return err
		}
		t, err := apiClient().Recover(context.Background(), client.RecoveryRequest{
			CustomerID:       wfCustomer,
			WalletID:         wfWallet,
			PGName:           wfPG,
			CardType:         wfCard,
			Amount:           amount,
			Charges:          charges,
			CollectAccountID: wfAccount,
			MDRRate:          mdr,
			CommissionRate:   commission,
		})
		if err != nil {
			return err
		}
		printTransaction(t)
		return nil
	},
}

var transferName string

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Send money out of a wallet for a walk-in or registered customer",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := ledger.ParseAmount(wfAmount)
		if err != nil {
			return err
		}
		charge, err := ledger.ParseAmount(wfFee)
		if err != nil {
			return err
		}
		t, err := apiClient().MoneyTransfer(context.Background(), client.TransferRequest{
			CustomerID:      wfCustomer,
			CustomerName:    transferName,
			WalletID:        wfWallet,
			InflowAccountID: wfAccount,
			Amount:          amount,
			Charge:          charge,
		})
		if err != nil {
			return err
		}
		printTransaction(t)
		return nil
	},
}

func printQuote(q *ledger.SwipeQuote) {
	fmt.Printf("Amount:       %15s\n", ledger.FormatAmount(q.Amount))
	fmt.Printf("Service fee:  %15s  (%s%%)\n", ledger.FormatAmount(q.ServiceFee), q.ServiceRate)
	fmt.Printf("MDR:          %15s  (%s%%)\n", ledger.FormatAmount(q.MDR), q.MDRRate)
	fmt.Printf("Net payable:  %15s\n", ledger.FormatAmount(q.NetPayable))
	fmt.Printf("Est. profit:  %15s\n", formatSigned(q.EstimatedProfit))
}

func init() {
	swipeInflowCmd.Flags().StringVar(&wfCustomer, "customer", "", "Customer ID")
	swipeInflowCmd.Flags().StringVar(&wfWallet, "wallet", "", "Wallet ID")
	swipeInflowCmd.Flags().StringVar(&wfPG, "pg", "", "Payment gateway (default: the wallet's first)")
	swipeInflowCmd.Flags().StringVar(&wfCard, "card", "", "Card network: visa, master, amex or rupay")
	swipeInflowCmd.Flags().StringVar(&wfAmount, "amount", "", "Swiped amount")
	swipeInflowCmd.Flags().StringVar(&wfRate, "rate", "", "Service rate override in percent, saved on the customer")
	swipeInflowCmd.Flags().BoolVar(&wfQuote, "quote", false, "Show the fee breakdown without posting")
	for _, f := range []string{"customer", "wallet", "card", "amount"} {
		swipeInflowCmd.MarkFlagRequired(f)
	}

	swipePayoutCmd.Flags().StringVar(&wfCustomer, "customer", "", "Customer ID")
	swipePayoutCmd.Flags().StringVar(&wfAmount, "amount", "", "Amount to pay out")
	swipePayoutCmd.Flags().StringVar(&wfFee, "fee", "0", "Transfer fee paid to the bank")
	swipePayoutCmd.Flags().StringVar(&wfAccount, "from", "", "Paying account (default: bank)")
	swipePayoutCmd.MarkFlagRequired("customer")
	swipePayoutCmd.MarkFlagRequired("amount")

	swipeCmd.AddCommand(swipeInflowCmd, swipePayoutCmd)
	rootCmd.AddCommand(swipeCmd)

	advanceCmd.Flags().StringVar(&wfCustomer, "customer", "", "Customer ID")
	advanceCmd.Flags().StringVar(&wfAmount, "amount", "", "Amount advanced")
	advanceCmd.Flags().StringVar(&wfAccount, "from", "", "Paying account (default: bank)")
	advanceCmd.MarkFlagRequired("customer")
	advanceCmd.MarkFlagRequired("amount")

	recoverCmd.Flags().StringVar(&wfCustomer, "customer", "", "Customer ID")
	recoverCmd.Flags().StringVar(&wfWallet, "wallet", "", "Wallet ID")
	recoverCmd.Flags().StringVar(&wfPG, "pg", "", "Payment gateway (default: the wallet's first)")
	recoverCmd.Flags().StringVar(&wfCard, "card", "", "Card network: visa, master, amex or rupay")
	recoverCmd.Flags().StringVar(&wfAmount, "amount", "", "Swiped amount")
	recoverCmd.Flags().StringVar(&wfFee, "charges", "0", "Charges collected from the customer")
	recoverCmd.Flags().StringVar(&wfAccount, "collect", "", "Account the charges are collected into (default: cash)")
	recoverCmd.Flags().StringVar(&wfMDR, "mdr", "", "MDR rate override in percent")
	recoverCmd.Flags().StringVar(&wfRate, "rate", "", "Commission rate override in percent")
	for _, f := range []string{"customer", "wallet", "card", "amount"} {
		recoverCmd.MarkFlagRequired(f)
	}

	paySwipeCmd.AddCommand(advanceCmd, recoverCmd)
	rootCmd.AddCommand(paySwipeCmd)

	transferCmd.Flags().StringVar(&wfCustomer, "customer", "", "Registered customer ID")
	transferCmd.Flags().StringVar(&transferName, "name", "", "Walk-in customer name")
	transferCmd.Flags().StringVar(&wfWallet, "wallet", "", "Wallet the money leaves from")
	transferCmd.Flags().StringVar(&wfAmount, "amount", "", "Amount sent")
	transferCmd.Flags().StringVar(&wfFee, "charge", "0", "Charge collected")
	transferCmd.Flags().StringVar(&wfAccount, "into", "", "Account the customer pays into (default: cash)")
	transferCmd.MarkFlagRequired("wallet")
	transferCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(transferCmd)
}
