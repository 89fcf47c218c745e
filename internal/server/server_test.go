package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/simonvc/swipeledger/internal/engine"
	"github.com/simonvc/swipeledger/internal/ledger"
	"github.com/simonvc/swipeledger/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, store.DriverMemory, "", ledger.DefaultSeed())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng, err := engine.New(ctx, st, engine.WithLogger(log))
	require.NoError(t, err)

	ts := httptest.NewServer(New(eng, "", log).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string, out any) int {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.Unmarshal(data, out), "body: %s", data)
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/health", "", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAccountsAPI(t *testing.T) {
	ts := newTestServer(t)

	var accounts []ledger.Account
	assert.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/v1/accounts?category=wallet", "", &accounts))
	assert.Len(t, accounts, 2)

	assert.Equal(t, http.StatusBadRequest, do(t, ts, http.MethodGet, "/api/v1/accounts?type=EQUITY", "", nil))

	var acct ledger.Account
	status := do(t, ts, http.MethodPost, "/api/v1/accounts",
		`{"name":"Kotak Current","type":"asset","category":"Bank","seed_balance":"0"}`, &acct)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, strings.HasPrefix(acct.ID, "A-"))

	var errBody errorResponse
	status = do(t, ts, http.MethodPost, "/api/v1/accounts", `{"type":"ASSET"}`, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotNil(t, errBody.Details)

	var bal balanceResponse
	assert.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/v1/accounts/A002/balance", "", &bal))
	assert.Equal(t, "1200000.00", bal.Balance.StringFixed(2))
	assert.Equal(t, "12,00,000.00", bal.Formatted)

	assert.Equal(t, http.StatusNotFound, do(t, ts, http.MethodGet, "/api/v1/accounts/Z999", "", nil))
	assert.Equal(t, http.StatusNotFound, do(t, ts, http.MethodGet, "/api/v1/accounts/Z999/balance", "", nil))
}

func TestPostTransactionAPI(t *testing.T) {
	ts := newTestServer(t)

	var txn ledger.Transaction
	status := do(t, ts, http.MethodPost, "/api/v1/transactions", `{
		"description": "Office rent",
		"entries": [
			{"account_id": "E003", "debit": 25000},
			{"account_id": "A002", "credit": 25000}
		]}`, &txn)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, ledger.TxnJournal, txn.Type)

	var got ledger.Transaction
	assert.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/v1/transactions/"+txn.ID, "", &got))
	assert.Equal(t, "Office rent", got.Description)

	var list []ledger.Transaction
	assert.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/v1/transactions?account_id=E003", "", &list))
	assert.Len(t, list, 1)

	var ledgerTxns []ledger.Transaction
	assert.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/v1/accounts/A002/ledger", "", &ledgerTxns))
	assert.Len(t, ledgerTxns, 1)

	var st ledger.Statement
	assert.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/v1/accounts/A002/statement", "", &st))
	assert.Equal(t, "1175000.00", st.ClosingBalance.StringFixed(2))
}

func TestPostTransactionErrors(t *testing.T) {
	ts := newTestServer(t)

	var body struct {
		Error   string `json:"error"`
		Details struct {
			TotalDebit  string   `json:"total_debit"`
			TotalCredit string   `json:"total_credit"`
			IDs         []string `json:"ids"`
		} `json:"details"`
	}
	status := do(t, ts, http.MethodPost, "/api/v1/transactions", `{"description":"x","entries":[
		{"account_id":"A001","debit":100},{"account_id":"A002","credit":90}]}`, &body)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "100", body.Details.TotalDebit)
	assert.Equal(t, "90", body.Details.TotalCredit)

	status = do(t, ts, http.MethodPost, "/api/v1/transactions", `{"description":"x","entries":[
		{"account_id":"X1","debit":100},{"account_id":"A002","credit":100}]}`, &body)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, []string{"X1"}, body.Details.IDs)

	status = do(t, ts, http.MethodPost, "/api/v1/transactions", `{"description":"x","entries":[
		{"account_id":"A001","debit":100}]}`, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status = do(t, ts, http.MethodPost, "/api/v1/transactions", `{"description":"x","type":"REFUND","entries":[
		{"account_id":"A001","debit":1},{"account_id":"A002","credit":1}]}`, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = do(t, ts, http.MethodPost, "/api/v1/transactions", `{"description":"x","metadata":{"card_type":"diners"},"entries":[
		{"account_id":"A001","debit":1},{"account_id":"A002","credit":1}]}`, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	var txn ledger.Transaction
	status = do(t, ts, http.MethodPost, "/api/v1/transactions", `{"description":"x","metadata":{"card_type":"VISA"},"entries":[
		{"account_id":"A001","debit":1},{"account_id":"A002","credit":1}]}`, &txn)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, ledger.CardVisa, txn.Metadata.CardType)

	assert.Equal(t, http.StatusBadRequest, do(t, ts, http.MethodPost, "/api/v1/transactions", `{`, nil))
	assert.Equal(t, http.StatusNotFound, do(t, ts, http.MethodGet, "/api/v1/transactions/nope", "", nil))
	assert.Equal(t, http.StatusBadRequest, do(t, ts, http.MethodGet, "/api/v1/transactions?limit=-1", "", nil))
}

func TestCustomersAPI(t *testing.T) {
	ts := newTestServer(t)

	var cust ledger.Customer
	status := do(t, ts, http.MethodPost, "/api/v1/customers", `{"name":"Anil","phone":"9000000001"}`, &cust)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, strings.HasPrefix(cust.ID, "C-"))
	assert.Equal(t, "3.5", cust.CommissionRates.Amex.String())

	assert.Equal(t, http.StatusBadRequest, do(t, ts, http.MethodPost, "/api/v1/customers", `{"name":"Bad","phone":"abc"}`, nil))

	var found ledger.Customer
	assert.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/v1/customers/lookup?phone=9000000001", "", &found))
	assert.Equal(t, cust.ID, found.ID)
	assert.Equal(t, http.StatusNotFound, do(t, ts, http.MethodGet, "/api/v1/customers/lookup?phone=1", "", nil))

	var updated ledger.Customer
	status = do(t, ts, http.MethodPatch, "/api/v1/customers/"+cust.ID, `{"name":"Anil Kumar"}`, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Anil Kumar", updated.Name)
	assert.Equal(t, "9000000001", updated.Phone)

	var all []ledger.Customer
	assert.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/v1/customers", "", &all))
	assert.Len(t, all, 4)
	assert.Equal(t, http.StatusNotFound, do(t, ts, http.MethodGet, "/api/v1/customers/C404", "", nil))
}

func TestWalletsAPI(t *testing.T) {
	ts := newTestServer(t)

	var wallet ledger.Wallet
	status := do(t, ts, http.MethodPost, "/api/v1/wallets",
		`{"name":"Wallet C","pg":{"name":"Basic","charges":{"visa":1,"master":1,"amex":2,"rupay":0}}}`, &wallet)
	require.Equal(t, http.StatusCreated, status)

	status = do(t, ts, http.MethodPost, "/api/v1/wallets/"+wallet.ID+"/pgs", `{"name":"Gold","charges":{"visa":0.5}}`, &wallet)
	require.Equal(t, http.StatusCreated, status)
	assert.Len(t, wallet.PGs, 2)
	assert.Equal(t, http.StatusConflict, do(t, ts, http.MethodPost, "/api/v1/wallets/"+wallet.ID+"/pgs", `{"name":"Gold"}`, nil))

	status = do(t, ts, http.MethodPut, "/api/v1/wallets/"+wallet.ID+"/pgs/Basic", `{"name":"Basic","charges":{"visa":2}}`, &wallet)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "2", wallet.PGs[0].Charges.Visa.String())
	assert.Equal(t, http.StatusNotFound, do(t, ts, http.MethodPut, "/api/v1/wallets/"+wallet.ID+"/pgs/Nope", `{"name":"Nope"}`, nil))

	var rec reconcileResponse
	assert.Equal(t, http.StatusOK, do(t, ts, http.MethodPost, "/api/v1/wallets/W001/reconcile", `{"actual_balance":0}`, &rec))
	assert.False(t, rec.Adjusted)

	assert.Equal(t, http.StatusOK, do(t, ts, http.MethodPost, "/api/v1/wallets/W001/reconcile", `{"actual_balance":"150.25"}`, &rec))
	assert.True(t, rec.Adjusted)
	require.NotNil(t, rec.Transaction)
	assert.Equal(t, ledger.TxnReconciliation, rec.Transaction.Type)
	assert.Equal(t, "150.25", rec.Balance.StringFixed(2))

	assert.Equal(t, http.StatusNotFound, do(t, ts, http.MethodPost, "/api/v1/wallets/W404/reconcile", `{"actual_balance":1}`, nil))
}

func TestWorkflowsAPI(t *testing.T) {
	ts := newTestServer(t)

	var quote ledger.SwipeQuote
	status := do(t, ts, http.MethodPost, "/api/v1/workflows/swipe-inflow/quote",
		`{"customer_id":"C001","wallet_id":"W001","card_type":"VISA","amount":10000}`, &quote)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "9800.00", quote.NetPayable.StringFixed(2))

	var swipe swipeInflowResponse
	status = do(t, ts, http.MethodPost, "/api/v1/workflows/swipe-inflow",
		`{"customer_id":"C001","wallet_id":"W001","card_type":"visa","amount":10000}`, &swipe)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, ledger.TxnSwipePay, swipe.Transaction.Type)
	assert.Equal(t, "80.00", swipe.Quote.EstimatedProfit.StringFixed(2))

	assert.Equal(t, http.StatusBadRequest, do(t, ts, http.MethodPost, "/api/v1/workflows/swipe-inflow",
		`{"customer_id":"C001","wallet_id":"W001","card_type":"diners","amount":10}`, nil))
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, ts, http.MethodPost, "/api/v1/workflows/swipe-inflow",
		`{"customer_id":"C001","wallet_id":"W001","card_type":"visa","amount":0}`, nil))

	assert.Equal(t, http.StatusCreated, do(t, ts, http.MethodPost, "/api/v1/workflows/swipe-payout",
		`{"customer_id":"C001","amount":9800,"transfer_fee":10}`, nil))
	assert.Equal(t, http.StatusCreated, do(t, ts, http.MethodPost, "/api/v1/workflows/advance-pay",
		`{"customer_id":"C002","amount":5000}`, nil))
	assert.Equal(t, http.StatusCreated, do(t, ts, http.MethodPost, "/api/v1/workflows/recovery",
		`{"customer_id":"C002","wallet_id":"W002","card_type":"master","amount":5000,"charges":100}`, nil))
	assert.Equal(t, http.StatusCreated, do(t, ts, http.MethodPost, "/api/v1/workflows/money-transfer",
		`{"wallet_id":"W001","amount":1000,"charge":20}`, nil))
	assert.Equal(t, http.StatusBadRequest, do(t, ts, http.MethodPost, "/api/v1/workflows/money-transfer",
		`{"amount":1000}`, nil))

	var bs ledger.BalanceSheet
	assert.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/v1/reports/balance-sheet", "", &bs))
	assert.True(t, bs.Balanced)

	var pl ledger.ProfitAndLoss
	assert.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/v1/reports/profit-and-loss", "", &pl))
	assert.True(t, pl.NetProfit.IsPositive())

	var tb ledger.TrialBalance
	assert.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/v1/reports/trial-balance", "", &tb))
	assert.True(t, tb.Balanced)

	var seg ledger.Segments
	assert.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/v1/reports/segments", "", &seg))
	assert.NotEmpty(t, seg.Swipes)

	var dash ledger.Dashboard
	assert.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/v1/reports/dashboard", "", &dash))
	assert.Equal(t, 5, dash.Transactions)

	var v engine.Verification
	assert.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/v1/reports/verify", "", &v))
	assert.True(t, v.OK())
}

func TestErrorsAreJSON(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/api/v1/customers", "application/json", bytes.NewBufferString(`{"name":""}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}
