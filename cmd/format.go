package cmd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/simonvc/swipeledger/internal/ledger"
)

func center(s string, w int) string {
	if len(s) >= w {
		return s
	}
	pad := (w - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-2] + ".."
	}
	return s
}

func formatSigned(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "(" + ledger.FormatAmount(amount.Neg()) + ")"
	}
	return ledger.FormatAmount(amount)
}

func blankZero(amount decimal.Decimal) string {
	if amount.IsZero() {
		return ""
	}
	return ledger.FormatAmount(amount)
}

func optionalAmount(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := ledger.ParseAmount(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// parseRates reads "visa=2,amex=3.5" on top of base.
func parseRates(s string, base ledger.Rates) (ledger.Rates, error) {
	rates := base
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, val, ok := strings.Cut(part, "=")
		if !ok {
			return rates, fmt.Errorf("invalid rate %q, expected card=percent", part)
		}
		card, err := ledger.ParseCardType(name)
		if err != nil {
			return rates, err
		}
		pct, err := ledger.ParseAmount(val)
		if err != nil {
			return rates, err
		}
		rates = rates.With(card, pct)
	}
	return rates, rates.Validate()
}

func printTransaction(t *ledger.Transaction) {
	fmt.Printf("ID:          %s\n", t.ID)
	fmt.Printf("Type:        %s\n", t.Type)
	fmt.Printf("Description: %s\n", t.Description)
	fmt.Printf("Date:        %s\n", t.Date.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Status:      %s\n", t.Status)
	if t.Metadata.CustomerID != "" {
		fmt.Printf("Customer:    %s\n", t.Metadata.CustomerID)
	}
	if t.Metadata.WalletID != "" {
		fmt.Printf("Wallet:      %s\n", t.Metadata.WalletID)
	}
	if t.Metadata.CardType != "" {
		fmt.Printf("Card:        %s\n", strings.ToUpper(string(t.Metadata.CardType)))
	}
	fmt.Printf("Entries:\n")
	fmt.Printf("  %-40s %14s %14s\n", "ACCOUNT", "DEBIT", "CREDIT")
	for _, e := range t.Entries {
		fmt.Printf("  %-40s %14s %14s\n", e.AccountID, blankZero(e.Debit), blankZero(e.Credit))
	}
}
