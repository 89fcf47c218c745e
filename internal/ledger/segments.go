package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SegmentPL is the income and expense attributable to a slice of the ledger.
type SegmentPL struct {
	Key     string          `json:"key"`
	Name    string          `json:"name"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Profit  decimal.Decimal `json:"profit"`
	Count   int             `json:"count"`
}

// TxnPL is the profit of a single swipe.
type TxnPL struct {
	TransactionID string          `json:"transaction_id"`
	Date          time.Time       `json:"date"`
	Customer      string          `json:"customer"`
	Wallet        string          `json:"wallet"`
	Card          string          `json:"card"`
	Revenue       decimal.Decimal `json:"revenue"`
	Cost          decimal.Decimal `json:"cost"`
	Profit        decimal.Decimal `json:"profit"`
}

type Segments struct {
	Total        SegmentPL   `json:"total"`
	ByCard       []SegmentPL `json:"by_card"`
	ByWallet     []SegmentPL `json:"by_wallet"`
	TopCustomers []SegmentPL `json:"top_customers"`
	Swipes       []TxnPL     `json:"swipes"`
}

// TopCustomerLimit caps the customer ranking.
const TopCustomerLimit = 10

// segmenter attributes transaction entries to income and expense by account type.
type segmenter struct {
	types map[string]AccountType
}

func (s segmenter) add(seg *SegmentPL, t *Transaction) {
	for _, e := range t.Entries {
		switch s.types[e.AccountID] {
		case TypeIncome:
			seg.Income = seg.Income.Add(e.Credit.Sub(e.Debit))
		case TypeExpense:
			seg.Expense = seg.Expense.Add(e.Debit.Sub(e.Credit))
		}
	}
	seg.Profit = seg.Income.Sub(seg.Expense)
}

func (s segmenter) over(key, name string, txns []*Transaction) SegmentPL {
	seg := SegmentPL{Key: key, Name: name, Income: decimal.Zero, Expense: decimal.Zero, Profit: decimal.Zero}
	for _, t := range txns {
		s.add(&seg, t)
	}
	seg.Count = len(txns)
	return seg
}

// BuildSegments slices completed transactions by card network, wallet and customer
// and prices every wallet swipe individually. Swipes keep the order of txns.
func BuildSegments(accounts []Account, customers []Customer, wallets []Wallet, txns []Transaction) *Segments {
	s := segmenter{types: make(map[string]AccountType, len(accounts))}
	for _, a := range accounts {
		s.types[a.ID] = a.Type
	}

	completed := make([]*Transaction, 0, len(txns))
	for i := range txns {
		if txns[i].Status == StatusCompleted {
			completed = append(completed, &txns[i])
		}
	}
	where := func(keep func(*Transaction) bool) []*Transaction {
		var out []*Transaction
		for _, t := range completed {
			if keep(t) {
				out = append(out, t)
			}
		}
		return out
	}

	out := &Segments{Total: s.over("total", "All transactions", completed)}

	for _, c := range AllCardTypes {
		subset := where(func(t *Transaction) bool { return t.Metadata.CardType == c })
		out.ByCard = append(out.ByCard, s.over(string(c), cardLabel(c), subset))
	}

	walletNames := make(map[string]string, len(wallets))
	for _, w := range wallets {
		walletNames[w.ID] = w.Name
		id := w.ID
		subset := where(func(t *Transaction) bool { return t.Metadata.WalletID == id })
		out.ByWallet = append(out.ByWallet, s.over(w.ID, w.Name, subset))
	}

	customerNames := make(map[string]string, len(customers))
	for _, c := range customers {
		customerNames[c.ID] = c.Name
		id := c.ID
		subset := where(func(t *Transaction) bool { return t.Metadata.CustomerID == id })
		seg := s.over(c.ID, c.Name, subset)
		seg.Count = 0
		for _, t := range subset {
			if t.Type == TxnSwipePay {
				seg.Count++
			}
		}
		out.TopCustomers = append(out.TopCustomers, seg)
	}
	sort.SliceStable(out.TopCustomers, func(i, j int) bool {
		return out.TopCustomers[i].Profit.GreaterThan(out.TopCustomers[j].Profit)
	})
	if len(out.TopCustomers) > TopCustomerLimit {
		out.TopCustomers = out.TopCustomers[:TopCustomerLimit]
	}

	out.Swipes = []TxnPL{}
	for _, t := range completed {
		if t.Type != TxnSwipePay || t.Metadata.WalletID == "" {
			continue
		}
		seg := s.over(t.ID, "", []*Transaction{t})
		line := TxnPL{
			TransactionID: t.ID,
			Date:          t.Date,
			Customer:      "Unknown",
			Wallet:        "N/A",
			Card:          "N/A",
			Revenue:       seg.Income,
			Cost:          seg.Expense,
			Profit:        seg.Profit,
		}
		if name, ok := customerNames[t.Metadata.CustomerID]; ok {
			line.Customer = name
		}
		if name, ok := walletNames[t.Metadata.WalletID]; ok {
			line.Wallet = name
		}
		if t.Metadata.CardType != "" {
			line.Card = strings.ToUpper(string(t.Metadata.CardType))
		}
		out.Swipes = append(out.Swipes, line)
	}
	return out
}

// Dashboard is the headline position of the business.
type Dashboard struct {
	Cash         decimal.Decimal `json:"cash"`
	Bank         decimal.Decimal `json:"bank"`
	Wallets      decimal.Decimal `json:"wallets"`
	Revenue      decimal.Decimal `json:"revenue"`
	WalletLines  []ReportLine    `json:"wallet_lines"`
	Transactions int             `json:"transactions"`
	Recent       []Transaction   `json:"recent"`
}

// RecentLimit is how many transactions the dashboard lists.
const RecentLimit = 5

// BuildDashboard totals cash, bank, wallet and income balances. txns must be in
// ledger order, most recent first.
func BuildDashboard(accounts []Account, wallets []Wallet, balances Balances, txns []Transaction) *Dashboard {
	d := &Dashboard{
		Cash: decimal.Zero, Bank: decimal.Zero, Wallets: decimal.Zero, Revenue: decimal.Zero,
		WalletLines:  []ReportLine{},
		Transactions: len(txns),
	}
	byID := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
		bal := balances.Get(a.ID)
		switch {
		case a.Type == TypeIncome:
			d.Revenue = d.Revenue.Add(bal)
		case a.Type == TypeAsset && a.Category == CategoryCash:
			d.Cash = d.Cash.Add(bal)
		case a.Type == TypeAsset && a.Category == CategoryBank:
			d.Bank = d.Bank.Add(bal)
		}
	}
	for _, w := range wallets {
		bal := balances.Get(w.LedgerAccountID)
		d.Wallets = d.Wallets.Add(bal)
		l := ReportLine{AccountID: w.LedgerAccountID, AccountName: w.Name, Category: CategoryWallet, Balance: bal}
		if a, ok := byID[w.LedgerAccountID]; ok {
			l.Category = a.Category
		}
		d.WalletLines = append(d.WalletLines, l)
	}
	n := len(txns)
	if n > RecentLimit {
		n = RecentLimit
	}
	d.Recent = append([]Transaction{}, txns[:n]...)
	return d
}
