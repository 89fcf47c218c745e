package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type CardType string

const (
	CardVisa   CardType = "visa"
	CardMaster CardType = "master"
	CardAmex   CardType = "amex"
	CardRupay  CardType = "rupay"
)

var AllCardTypes = []CardType{CardVisa, CardMaster, CardAmex, CardRupay}

func ValidCardType(c CardType) bool {
	for _, v := range AllCardTypes {
		if v == c {
			return true
		}
	}
	return false
}

// ParseCardType accepts a card network name in any case.
func ParseCardType(s string) (CardType, error) {
	c := CardType(strings.ToLower(strings.TrimSpace(s)))
	if !ValidCardType(c) {
		return "", fmt.Errorf("%w: %q (want visa, master, amex or rupay)", ErrInvalidCardType, s)
	}
	return c, nil
}

// Rates maps every card network to a percentage. It is a value type: assigning
// a Rates copies it.
type Rates struct {
	Visa   decimal.Decimal `json:"visa" yaml:"visa"`
	Master decimal.Decimal `json:"master" yaml:"master"`
	Amex   decimal.Decimal `json:"amex" yaml:"amex"`
	Rupay  decimal.Decimal `json:"rupay" yaml:"rupay"`
}

// NewRates builds a Rates from float percentages, in visa, master, amex, rupay order.
func NewRates(visa, master, amex, rupay float64) Rates {
	return Rates{
		Visa:   decimal.NewFromFloat(visa),
		Master: decimal.NewFromFloat(master),
		Amex:   decimal.NewFromFloat(amex),
		Rupay:  decimal.NewFromFloat(rupay),
	}
}

// DefaultCommissionRates applies to customers created without explicit rates.
var DefaultCommissionRates = NewRates(2.0, 2.0, 3.5, 1.0)

// Rate returns the percentage for a card network. Unknown networks panic: callers
// must go through ParseCardType first.
func (r Rates) Rate(c CardType) decimal.Decimal {
	switch c {
	case CardVisa:
		return r.Visa
	case CardMaster:
		return r.Master
	case CardAmex:
		return r.Amex
	case CardRupay:
		return r.Rupay
	}
	panic(fmt.Sprintf("ledger: unknown card type %q", c))
}

// With returns a copy of r with the rate for c replaced.
func (r Rates) With(c CardType, rate decimal.Decimal) Rates {
	switch c {
	case CardVisa:
		r.Visa = rate
	case CardMaster:
		r.Master = rate
	case CardAmex:
		r.Amex = rate
	case CardRupay:
		r.Rupay = rate
	default:
		panic(fmt.Sprintf("ledger: unknown card type %q", c))
	}
	return r
}

// Validate rejects negative percentages. There is no upper bound.
func (r Rates) Validate() error {
	for _, c := range AllCardTypes {
		if r.Rate(c).IsNegative() {
			return fmt.Errorf("%w: %s is %s", ErrNegativeRate, c, r.Rate(c))
		}
	}
	return nil
}
