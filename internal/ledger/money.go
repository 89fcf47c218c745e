package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the single implicit currency of the books.
const Currency = "INR"

// Epsilon is the tolerance for comparing currency amounts.
var Epsilon = decimal.New(1, -2)

var hundred = decimal.NewFromInt(100)

// Round rounds to 2 decimal places, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns amount * rate / 100 rounded to 2 places.
func Percent(amount, rate decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(rate).Div(hundred))
}

// NearlyEqual reports whether a and b differ by no more than Epsilon.
func NearlyEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Epsilon)
}

// ParseAmount parses a decimal amount such as "1250.5" or "-10".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty amount", ErrInvalidInput)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q", ErrInvalidInput, s)
	}
	return d, nil
}

// FormatAmount renders an amount with two decimals and Indian digit grouping, e.g. 1250000 -> "12,50,000.00".
func FormatAmount(d decimal.Decimal) string {
	s := Round(d).StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	if len(whole) > 3 {
		head, tail := whole[:len(whole)-3], whole[len(whole)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		whole = strings.Join(groups, ",") + "," + tail
	}
	return sign + whole + "." + frac
}
