package server

import (
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/simonvc/swipeledger/internal/engine"
	"github.com/simonvc/swipeledger/internal/ledger"
	"github.com/simonvc/swipeledger/internal/store"
)

type createAccountRequest struct {
	Name        string          `json:"name" validate:"required"`
	Type        string          `json:"type" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	SeedBalance decimal.Decimal `json:"seed_balance"`
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if !s.decode(w, r, &req) {
		return
	}
	typ, err := ledger.ParseAccountType(req.Type)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cat, err := ledger.ParseCategory(req.Category)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	acct, err := s.engine.CreateAccount(r.Context(), engine.AccountRequest{
		Name:        req.Name,
		Type:        typ,
		Category:    cat,
		SeedBalance: req.SeedBalance,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, acct)
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	filter := store.AccountFilter{}
	if t := r.URL.Query().Get("type"); t != "" {
		typ, err := ledger.ParseAccountType(t)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		filter.Type = typ
	}
	if c := r.URL.Query().Get("category"); c != "" {
		cat, err := ledger.ParseCategory(c)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		filter.Category = cat
	}

	accounts, err := s.engine.ListAccounts(r.Context(), filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if accounts == nil {
		accounts = []ledger.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	acct, err := s.engine.GetAccount(r.Context(), pathParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

type balanceResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	Formatted string          `json:"formatted"`
}

func (s *Server) getAccountBalance(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if _, err := s.engine.GetAccount(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	balance := s.engine.AccountBalance(r.Context(), id)
	writeJSON(w, http.StatusOK, balanceResponse{
		AccountID: id,
		Balance:   balance,
		Currency:  ledger.Currency,
		Formatted: ledger.FormatAmount(balance),
	})
}

func (s *Server) getAccountLedger(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if _, err := s.engine.GetAccount(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	txns, err := s.engine.Ledger(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if txns == nil {
		txns = []ledger.Transaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) getAccountStatement(w http.ResponseWriter, r *http.Request) {
	st, err := s.engine.Statement(r.Context(), pathParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
