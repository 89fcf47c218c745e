package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simonvc/swipeledger/internal/ledger"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Accounts

type AccountRequest struct {
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	SeedBalance decimal.Decimal `json:"seed_balance"`
}

func (c *Client) CreateAccount(ctx context.Context, req AccountRequest) (*ledger.Account, error) {
	var result ledger.Account
	if err := c.post(ctx, "/api/v1/accounts", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListAccounts(ctx context.Context, typ, category string) ([]ledger.Account, error) {
	params := url.Values{}
	if typ != "" {
		params.Set("type", typ)
	}
	if category != "" {
		params.Set("category", category)
	}
	var result []ledger.Account
	if err := c.get(ctx, "/api/v1/accounts?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetAccount(ctx context.Context, id string) (*ledger.Account, error) {
	var result ledger.Account
	if err := c.get(ctx, "/api/v1/accounts/"+url.PathEscape(id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type BalanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	Formatted string          `json:"formatted"`
}

func (c *Client) GetAccountBalance(ctx context.Context, id string) (*BalanceResponse, error) {
	var result BalanceResponse
	if err := c.get(ctx, "/api/v1/accounts/"+url.PathEscape(id)+"/balance", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) AccountLedger(ctx context.Context, id string) ([]ledger.Transaction, error) {
	var result []ledger.Transaction
	if err := c.get(ctx, "/api/v1/accounts/"+url.PathEscape(id)+"/ledger", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) AccountStatement(ctx context.Context, id string) (*ledger.Statement, error) {
	var result ledger.Statement
	if err := c.get(ctx, "/api/v1/accounts/"+url.PathEscape(id)+"/statement", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Transactions

type TransactionRequest struct {
	Description string          `json:"description"`
	Type        ledger.TxnType  `json:"type,omitempty"`
	Entries     []ledger.Entry  `json:"entries"`
	Metadata    ledger.Metadata `json:"metadata"`
}

func (c *Client) PostTransaction(ctx context.Context, req TransactionRequest) (*ledger.Transaction, error) {
	var result ledger.Transaction
	if err := c.post(ctx, "/api/v1/transactions", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type TxnQuery struct {
	AccountID  string
	CustomerID string
	WalletID   string
	Type       string
	Limit      int
}

func (c *Client) ListTransactions(ctx context.Context, q TxnQuery) ([]ledger.Transaction, error) {
	params := url.Values{}
	for k, v := range map[string]string{
		"account_id": q.AccountID, "customer_id": q.CustomerID, "wallet_id": q.WalletID, "type": q.Type,
	} {
		if v != "" {
			params.Set(k, v)
		}
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	var result []ledger.Transaction
	if err := c.get(ctx, "/api/v1/transactions?"+params.Encode(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetTransaction(ctx context.Context, id string) (*ledger.Transaction, error) {
	var result ledger.Transaction
	if err := c.get(ctx, "/api/v1/transactions/"+url.PathEscape(id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Customers

type CustomerRequest struct {
	Name            string        `json:"name"`
	Phone           string        `json:"phone,omitempty"`
	CommissionRates *ledger.Rates `json:"commission_rates,omitempty"`
}

func (c *Client) CreateCustomer(ctx context.Context, req CustomerRequest) (*ledger.Customer, error) {
	var result ledger.Customer
	if err := c.post(ctx, "/api/v1/customers", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListCustomers(ctx context.Context) ([]ledger.Customer, error) {
	var result []ledger.Customer
	if err := c.get(ctx, "/api/v1/customers", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetCustomer(ctx context.Context, id string) (*ledger.Customer, error) {
	var result ledger.Customer
	if err := c.get(ctx, "/api/v1/customers/"+url.PathEscape(id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) FindCustomerByPhone(ctx context.Context, phone string) (*ledger.Customer, error) {
	var result ledger.Customer
	if err := c.get(ctx, "/api/v1/customers/lookup?phone="+url.QueryEscape(phone), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, upd ledger.CustomerUpdate) (*ledger.Customer, error) {
	var result ledger.Customer
	if err := c.patch(ctx, "/api/v1/customers/"+url.PathEscape(id), upd, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Wallets

type WalletRequest struct {
	Name string          `json:"name"`
	PG   ledger.PGConfig `json:"pg"`
}

func (c *Client) CreateWallet(ctx context.Context, req WalletRequest) (*ledger.Wallet, error) {
	var result ledger.Wallet
	if err := c.post(ctx, "/api/v1/wallets", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListWallets(ctx context.Context) ([]ledger.Wallet, error) {
	var result []ledger.Wallet
	if err := c.get(ctx, "/api/v1/wallets", &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetWallet(ctx context.Context, id string) (*ledger.Wallet, error) {
	var result ledger.Wallet
	if err := c.get(ctx, "/api/v1/wallets/"+url.PathEscape(id), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) AddWalletPG(ctx context.Context, walletID string, pg ledger.PGConfig) (*ledger.Wallet, error) {
	var result ledger.Wallet
	if err := c.post(ctx, "/api/v1/wallets/"+url.PathEscape(walletID)+"/pgs", pg, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UpdateWalletPG(ctx context.Context, walletID, name string, pg ledger.PGConfig) (*ledger.Wallet, error) {
	var result ledger.Wallet
	path := "/api/v1/wallets/" + url.PathEscape(walletID) + "/pgs/" + url.PathEscape(name)
	if err := c.put(ctx, path, pg, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type ReconcileResult struct {
	WalletID    string              `json:"wallet_id"`
	Adjusted    bool                `json:"adjusted"`
	Transaction *ledger.Transaction `json:"transaction,omitempty"`
	Balance     decimal.Decimal     `json:"balance"`
}

func (c *Client) ReconcileWallet(ctx context.Context, walletID string, actual decimal.Decimal) (*ReconcileResult, error) {
	var result ReconcileResult
	body := map[string]any{"actual_balance": actual}
	if err := c.post(ctx, "/api/v1/wallets/"+url.PathEscape(walletID)+"/reconcile", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Workflows

type SwipeRequest struct {
	CustomerID  string           `json:"customer_id"`
	WalletID    string           `json:"wallet_id"`
	PGName      string           `json:"pg_name,omitempty"`
	CardType    string           `json:"card_type"`
	Amount      decimal.Decimal  `json:"amount"`
	ServiceRate *decimal.Decimal `json:"service_rate,omitempty"`
}

type SwipeResult struct {
	Transaction *ledger.Transaction `json:"transaction"`
	Quote       *ledger.SwipeQuote  `json:"quote"`
}

func (c *Client) SwipeInflow(ctx context.Context, req SwipeRequest) (*SwipeResult, error) {
	var result SwipeResult
	if err := c.post(ctx, "/api/v1/workflows/swipe-inflow", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) QuoteSwipe(ctx context.Context, req SwipeRequest) (*ledger.SwipeQuote, error) {
	var result ledger.SwipeQuote
	if err := c.post(ctx, "/api/v1/workflows/swipe-inflow/quote", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type PayoutRequest struct {
	CustomerID      string          `json:"customer_id"`
	PayoutAccountID string          `json:"payout_account_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	TransferFee     decimal.Decimal `json:"transfer_fee"`
}

func (c *Client) SwipePayout(ctx context.Context, req PayoutRequest) (*ledger.Transaction, error) {
	return c.workflow(ctx, "swipe-payout", req)
}

type AdvanceRequest struct {
	CustomerID      string          `json:"customer_id"`
	SourceAccountID string          `json:"source_account_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
}

func (c *Client) AdvancePay(ctx context.Context, req AdvanceRequest) (*ledger.Transaction, error) {
	return c.workflow(ctx, "advance-pay", req)
}

type RecoveryRequest struct {
	CustomerID       string           `json:"customer_id"`
	WalletID         string           `json:"wallet_id"`
	PGName           string           `json:"pg_name,omitempty"`
	CardType         string           `json:"card_type"`
	Amount           decimal.Decimal  `json:"amount"`
	Charges          decimal.Decimal  `json:"charges"`
	CollectAccountID string           `json:"collect_account_id,omitempty"`
	MDRRate          *decimal.Decimal `json:"mdr_rate,omitempty"`
	CommissionRate   *decimal.Decimal `json:"commission_rate,omitempty"`
}

func (c *Client) Recover(ctx context.Context, req RecoveryRequest) (*ledger.Transaction, error) {
	return c.workflow(ctx, "recovery", req)
}

type TransferRequest struct {
	CustomerID      string          `json:"customer_id,omitempty"`
	CustomerName    string          `json:"customer_name,omitempty"`
	WalletID        string          `json:"wallet_id"`
	InflowAccountID string          `json:"inflow_account_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Charge          decimal.Decimal `json:"charge"`
}

func (c *Client) MoneyTransfer(ctx context.Context, req TransferRequest) (*ledger.Transaction, error) {
	return c.workflow(ctx, "money-transfer", req)
}

func (c *Client) workflow(ctx context.Context, name string, body any) (*ledger.Transaction, error) {
	var result ledger.Transaction
	if err := c.post(ctx, "/api/v1/workflows/"+name, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Reports

func (c *Client) BalanceSheet(ctx context.Context) (*ledger.BalanceSheet, error) {
	var result ledger.BalanceSheet
	if err := c.get(ctx, "/api/v1/reports/balance-sheet", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ProfitAndLoss(ctx context.Context) (*ledger.ProfitAndLoss, error) {
	var result ledger.ProfitAndLoss
	if err := c.get(ctx, "/api/v1/reports/profit-and-loss", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) TrialBalance(ctx context.Context) (*ledger.TrialBalance, error) {
	var result ledger.TrialBalance
	if err := c.get(ctx, "/api/v1/reports/trial-balance", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Segments(ctx context.Context) (*ledger.Segments, error) {
	var result ledger.Segments
	if err := c.get(ctx, "/api/v1/reports/segments", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Dashboard(ctx context.Context) (*ledger.Dashboard, error) {
	var result ledger.Dashboard
	if err := c.get(ctx, "/api/v1/reports/dashboard", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type Verification struct {
	CacheMatchesReplay bool     `json:"cache_matches_replay"`
	StoreMatchesReplay bool     `json:"store_matches_replay"`
	Mismatched         []string `json:"mismatched,omitempty"`
}

// Verify asks the server to replay the ledger. The server answers 409 when the
// cached balances have drifted; that is still a verification, not a failure.
func (c *Client) Verify(ctx context.Context) (*Verification, error) {
	var result Verification
	err := c.get(ctx, "/api/v1/reports/verify", &result)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
		if jerr := json.Unmarshal([]byte(apiErr.Message), &result); jerr != nil {
			return nil, err
		}
		return &result, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Ping checks if the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "/health", nil)
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.doRequest(req, result)
}

func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	return c.send(ctx, http.MethodPost, path, body, result)
}

func (c *Client) put(ctx context.Context, path string, body any, result any) error {
	return c.send(ctx, http.MethodPut, path, body, result)
}

func (c *Client) patch(ctx context.Context, path string, body any, result any) error {
	return c.send(ctx, http.MethodPatch, path, body, result)
}

func (c *Client) send(ctx context.Context, method, path string, body any, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doRequest(req, result)
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int             `json:"-"`
	Message string          `json:"error"`
	Details json.RawMessage `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
}

func (c *Client) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(bodyBytes, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = string(bodyBytes)
		}
		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(bodyBytes, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
