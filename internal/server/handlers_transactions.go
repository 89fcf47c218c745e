package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simonvc/swipeledger/internal/engine"
	"github.com/simonvc/swipeledger/internal/ledger"
	"github.com/simonvc/swipeledger/internal/store"
)

type entryRequest struct {
	AccountID string          `json:"account_id" validate:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

type createTransactionRequest struct {
	Description string          `json:"description" validate:"required"`
	Type        ledger.TxnType  `json:"type"`
	Date        time.Time       `json:"date"`
	Entries     []entryRequest  `json:"entries" validate:"dive"`
	Metadata    ledger.Metadata `json:"metadata"`
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Type == "" {
		req.Type = ledger.TxnJournal
	}
	if req.Metadata.CardType != "" {
		card, err := ledger.ParseCardType(string(req.Metadata.CardType))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		req.Metadata.CardType = card
	}
	entries := make([]ledger.Entry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, ledger.Entry{AccountID: e.AccountID, Debit: e.Debit, Credit: e.Credit})
	}

	txn, err := s.engine.Post(r.Context(), engine.PostRequest{
		Description: req.Description,
		Type:        req.Type,
		Entries:     entries,
		Metadata:    req.Metadata,
		Date:        req.Date,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.TxnFilter{
		AccountID:  q.Get("account_id"),
		CustomerID: q.Get("customer_id"),
		WalletID:   q.Get("wallet_id"),
		Type:       ledger.TxnType(q.Get("type")),
	}
	if filter.Type != "" && !ledger.ValidTxnType(filter.Type) {
		writeError(w, http.StatusBadRequest, "invalid transaction type: "+string(filter.Type), nil)
		return
	}
	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid "+name+": "+v, nil)
			return
		}
		*dst = n
	}

	txns, err := s.engine.Transactions(r.Context(), filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if txns == nil {
		txns = []ledger.Transaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}

func (s *Server) getTransaction(w http.ResponseWriter, r *http.Request) {
	txn, err := s.engine.GetTransaction(r.Context(), pathParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txn)
}
