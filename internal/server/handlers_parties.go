package server

import (
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/simonvc/swipeledger/internal/engine"
	"github.com/simonvc/swipeledger/internal/ledger"
)

type createCustomerRequest struct {
	Name            string        `json:"name" validate:"required"`
	Phone           string        `json:"phone" validate:"omitempty,numeric,min=6,max=15"`
	CommissionRates *ledger.Rates `json:"commission_rates"`
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if !s.decode(w, r, &req) {
		return
	}
	cust, err := s.engine.CreateCustomer(r.Context(), engine.CustomerRequest{
		Name:  req.Name,
		Phone: req.Phone,
		Rates: req.CommissionRates,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cust)
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.engine.ListCustomers(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if customers == nil {
		customers = []ledger.Customer{}
	}
	writeJSON(w, http.StatusOK, customers)
}

func (s *Server) getCustomer(w http.ResponseWriter, r *http.Request) {
	cust, err := s.engine.GetCustomer(r.Context(), pathParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cust)
}

func (s *Server) lookupCustomer(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		writeError(w, http.StatusBadRequest, "phone is required", nil)
		return
	}
	cust, err := s.engine.FindCustomerByPhone(r.Context(), phone)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cust)
}

func (s *Server) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var req ledger.CustomerUpdate
	if !s.decode(w, r, &req) {
		return
	}
	cust, err := s.engine.UpdateCustomer(r.Context(), pathParam(r, "id"), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cust)
}

type pgRequest struct {
	Name    string       `json:"name" validate:"required"`
	Charges ledger.Rates `json:"charges"`
}

func (p pgRequest) config() ledger.PGConfig {
	return ledger.PGConfig{Name: p.Name, Charges: p.Charges}
}

type createWalletRequest struct {
	Name string    `json:"name" validate:"required"`
	PG   pgRequest `json:"pg"`
}

func (s *Server) createWallet(w http.ResponseWriter, r *http.Request) {
	var req createWalletRequest
	if !s.decode(w, r, &req) {
		return
	}
	wallet, err := s.engine.CreateWallet(r.Context(), engine.WalletRequest{Name: req.Name, PG: req.PG.config()})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wallet)
}

func (s *Server) listWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := s.engine.ListWallets(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if wallets == nil {
		wallets = []ledger.Wallet{}
	}
	writeJSON(w, http.StatusOK, wallets)
}

func (s *Server) getWallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := s.engine.GetWallet(r.Context(), pathParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

func (s *Server) addWalletPG(w http.ResponseWriter, r *http.Request) {
	var req pgRequest
	if !s.decode(w, r, &req) {
		return
	}
	wallet, err := s.engine.AddWalletPG(r.Context(), pathParam(r, "id"), req.config())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wallet)
}

func (s *Server) updateWalletPG(w http.ResponseWriter, r *http.Request) {
	var req pgRequest
	if !s.decode(w, r, &req) {
		return
	}
	wallet, err := s.engine.UpdateWalletPG(r.Context(), pathParam(r, "id"), pathParam(r, "name"), req.config())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

type reconcileRequest struct {
	ActualBalance decimal.Decimal `json:"actual_balance"`
}

type reconcileResponse struct {
	WalletID    string              `json:"wallet_id"`
	Adjusted    bool                `json:"adjusted"`
	Transaction *ledger.Transaction `json:"transaction,omitempty"`
	Balance     decimal.Decimal     `json:"balance"`
}

func (s *Server) reconcileWallet(w http.ResponseWriter, r *http.Request) {
	var req reconcileRequest
	if !s.decode(w, r, &req) {
		return
	}
	id := pathParam(r, "id")
	wallet, err := s.engine.GetWallet(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	txn, err := s.engine.Reconcile(r.Context(), id, req.ActualBalance)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reconcileResponse{
		WalletID:    id,
		Adjusted:    txn != nil,
		Transaction: txn,
		Balance:     s.engine.AccountBalance(r.Context(), wallet.LedgerAccountID),
	})
}
