package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ReportLine is one account on a financial statement.
type ReportLine struct {
	AccountID   string          `json:"account_id"`
	AccountName string          `json:"account_name"`
	Category    Category        `json:"category"`
	Balance     decimal.Decimal `json:"balance"`
}

type ProfitAndLoss struct {
	Income        []ReportLine    `json:"income"`
	Expenses      []ReportLine    `json:"expenses"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

type BalanceSheet struct {
	Assets           []ReportLine    `json:"assets"`
	Liabilities      []ReportLine    `json:"liabilities"`
	Equity           []ReportLine    `json:"equity"`
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	TotalEquity      decimal.Decimal `json:"total_equity"`
	NetProfit        decimal.Decimal `json:"net_profit"`
	Difference       decimal.Decimal `json:"difference"`
	Balanced         bool            `json:"balanced"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

// TrialBalanceLine shows an account's balance on its debit or credit side.
type TrialBalanceLine struct {
	AccountID   string          `json:"account_id"`
	AccountName string          `json:"account_name"`
	Type        AccountType     `json:"type"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

type TrialBalance struct {
	Lines       []TrialBalanceLine `json:"lines"`
	TotalDebit  decimal.Decimal    `json:"total_debit"`
	TotalCredit decimal.Decimal    `json:"total_credit"`
	Balanced    bool               `json:"balanced"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// CurrentEarningsID labels the synthetic equity line used when the chart has no
// retained earnings account to carry the period's profit.
const CurrentEarningsID = "~earnings"

func line(a Account, balance decimal.Decimal) ReportLine {
	return ReportLine{AccountID: a.ID, AccountName: a.Name, Category: a.Category, Balance: balance}
}

func sum(lines []ReportLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Balance)
	}
	return total
}

// BuildProfitAndLoss partitions income and expense accounts and nets them.
func BuildProfitAndLoss(accounts []Account, balances Balances) *ProfitAndLoss {
	pl := &ProfitAndLoss{Income: []ReportLine{}, Expenses: []ReportLine{}}
	for _, a := range accounts {
		switch a.Type {
		case TypeIncome:
			pl.Income = append(pl.Income, line(a, balances.Get(a.ID)))
		case TypeExpense:
			pl.Expenses = append(pl.Expenses, line(a, balances.Get(a.ID)))
		}
	}
	pl.TotalIncome = sum(pl.Income)
	pl.TotalExpenses = sum(pl.Expenses)
	pl.NetProfit = pl.TotalIncome.Sub(pl.TotalExpenses)
	return pl
}

// BuildBalanceSheet partitions assets, liabilities and equity and folds the current
// net profit into the retained earnings line. The fold is presentation only: no
// transaction is posted. The accounting equation is checked, not enforced.
func BuildBalanceSheet(accounts []Account, balances Balances, retainedEarningsID string) *BalanceSheet {
	pl := BuildProfitAndLoss(accounts, balances)
	bs := &BalanceSheet{
		Assets:      []ReportLine{},
		Liabilities: []ReportLine{},
		Equity:      []ReportLine{},
		NetProfit:   pl.NetProfit,
	}

	folded := false
	for _, a := range accounts {
		bal := balances.Get(a.ID)
		switch {
		case a.IsEquity():
			if a.ID == retainedEarningsID {
				bal = bal.Add(pl.NetProfit)
				folded = true
			}
			bs.Equity = append(bs.Equity, line(a, bal))
		case a.Type == TypeAsset:
			bs.Assets = append(bs.Assets, line(a, bal))
		case a.Type == TypeLiability:
			bs.Liabilities = append(bs.Liabilities, line(a, bal))
		}
	}
	if !folded && !pl.NetProfit.IsZero() {
		bs.Equity = append(bs.Equity, ReportLine{
			AccountID:   CurrentEarningsID,
			AccountName: "Current Period Earnings",
			Category:    CategoryEquity,
			Balance:     pl.NetProfit,
		})
	}

	bs.TotalAssets = sum(bs.Assets)
	bs.TotalLiabilities = sum(bs.Liabilities)
	bs.TotalEquity = sum(bs.Equity)
	bs.Difference = bs.TotalAssets.Sub(bs.TotalLiabilities.Add(bs.TotalEquity))
	bs.Balanced = bs.Difference.Abs().LessThanOrEqual(Epsilon)
	return bs
}

// BuildTrialBalance lists every account with a non-zero balance on its natural side.
// A debit-normal account with a negative balance shows on the credit side, and vice versa.
func BuildTrialBalance(accounts []Account, balances Balances) *TrialBalance {
	tb := &TrialBalance{Lines: []TrialBalanceLine{}, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, a := range accounts {
		bal := balances.Get(a.ID)
		if bal.IsZero() {
			continue
		}
		l := TrialBalanceLine{AccountID: a.ID, AccountName: a.Name, Type: a.Type, Debit: decimal.Zero, Credit: decimal.Zero}
		debitSide := DebitNormal(a.Type) == bal.IsPositive()
		if debitSide {
			l.Debit = bal.Abs()
			tb.TotalDebit = tb.TotalDebit.Add(l.Debit)
		} else {
			l.Credit = bal.Abs()
			tb.TotalCredit = tb.TotalCredit.Add(l.Credit)
		}
		tb.Lines = append(tb.Lines, l)
	}
	tb.Balanced = NearlyEqual(tb.TotalDebit, tb.TotalCredit)
	return tb
}

// StatementLine is one posting on an account statement with the balance after it.
type StatementLine struct {
	TransactionID string          `json:"transaction_id"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Type          TxnType         `json:"type"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Balance       decimal.Decimal `json:"balance"`
}

type Statement struct {
	Account        Account         `json:"account"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Lines          []StatementLine `json:"lines"`
}

// BuildStatement lists the completed postings to one account in chronological order
// (by date, then by ledger position) with a running balance starting from the seed.
// txns must be in ledger order, most recent first.
func BuildStatement(acct Account, txns []Transaction) *Statement {
	st := &Statement{Account: acct, OpeningBalance: acct.SeedBalance, Lines: []StatementLine{}}

	var postings []*Transaction
	for i := len(txns) - 1; i >= 0; i-- {
		t := &txns[i]
		if t.Status == StatusCompleted && t.Touches(acct.ID) {
			postings = append(postings, t)
		}
	}
	sort.SliceStable(postings, func(i, j int) bool {
		return postings[i].Date.Before(postings[j].Date)
	})

	running := acct.SeedBalance
	for _, t := range postings {
		debit, credit := decimal.Zero, decimal.Zero
		for _, e := range t.Entries {
			if e.AccountID != acct.ID {
				continue
			}
			debit = debit.Add(e.Debit)
			credit = credit.Add(e.Credit)
			running = running.Add(Effect(acct.Type, e))
		}
		st.Lines = append(st.Lines, StatementLine{
			TransactionID: t.ID,
			Date:          t.Date,
			Description:   t.Description,
			Type:          t.Type,
			Debit:         debit,
			Credit:        credit,
			Balance:       running,
		})
	}
	st.ClosingBalance = running
	return st
}
