package server

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simonvc/swipeledger/internal/engine"
	"github.com/simonvc/swipeledger/internal/ledger"
)

type swipeInflowRequest struct {
	CustomerID  string           `json:"customer_id" validate:"required"`
	WalletID    string           `json:"wallet_id" validate:"required"`
	PGName      string           `json:"pg_name"`
	CardType    string           `json:"card_type" validate:"required"`
	Amount      decimal.Decimal  `json:"amount"`
	ServiceRate *decimal.Decimal `json:"service_rate"`
	Date        time.Time        `json:"date"`
}

func (req swipeInflowRequest) toEngine() (engine.SwipeInflowRequest, error) {
	card, err := ledger.ParseCardType(req.CardType)
	if err != nil {
		return engine.SwipeInflowRequest{}, err
	}
	return engine.SwipeInflowRequest{
		CustomerID:  req.CustomerID,
		WalletID:    req.WalletID,
		PGName:      req.PGName,
		Card:        card,
		Amount:      req.Amount,
		ServiceRate: req.ServiceRate,
		Date:        req.Date,
	}, nil
}

type swipeInflowResponse struct {
	Transaction *ledger.Transaction `json:"transaction"`
	Quote       *ledger.SwipeQuote  `json:"quote"`
}

func (s *Server) swipeInflow(w http.ResponseWriter, r *http.Request) {
	var body swipeInflowRequest
	if !s.decode(w, r, &body) {
		return
	}
	req, err := body.toEngine()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	txn, quote, err := s.engine.SwipeInflow(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, swipeInflowResponse{Transaction: txn, Quote: quote})
}

func (s *Server) quoteSwipe(w http.ResponseWriter, r *http.Request) {
	var body swipeInflowRequest
	if !s.decode(w, r, &body) {
		return
	}
	req, err := body.toEngine()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	quote, err := s.engine.QuoteSwipe(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

type swipePayoutRequest struct {
	CustomerID      string          `json:"customer_id" validate:"required"`
	PayoutAccountID string          `json:"payout_account_id"`
	Amount          decimal.Decimal `json:"amount"`
	TransferFee     decimal.Decimal `json:"transfer_fee"`
	Date            time.Time       `json:"date"`
}

func (s *Server) swipePayout(w http.ResponseWriter, r *http.Request) {
	var req swipePayoutRequest
	if !s.decode(w, r, &req) {
		return
	}
	txn, err := s.engine.SwipePayout(r.Context(), engine.SwipePayoutRequest{
		CustomerID:      req.CustomerID,
		PayoutAccountID: req.PayoutAccountID,
		Amount:          req.Amount,
		TransferFee:     req.TransferFee,
		Date:            req.Date,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

type advancePayRequest struct {
	CustomerID      string          `json:"customer_id" validate:"required"`
	SourceAccountID string          `json:"source_account_id"`
	Amount          decimal.Decimal `json:"amount"`
	Date            time.Time       `json:"date"`
}

func (s *Server) advancePay(w http.ResponseWriter, r *http.Request) {
	var req advancePayRequest
	if !s.decode(w, r, &req) {
		return
	}
	txn, err := s.engine.AdvancePay(r.Context(), engine.AdvanceRequest{
		CustomerID:      req.CustomerID,
		SourceAccountID: req.SourceAccountID,
		Amount:          req.Amount,
		Date:            req.Date,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

type recoveryRequest struct {
	CustomerID       string           `json:"customer_id" validate:"required"`
	WalletID         string           `json:"wallet_id" validate:"required"`
	PGName           string           `json:"pg_name"`
	CardType         string           `json:"card_type" validate:"required"`
	Amount           decimal.Decimal  `json:"amount"`
	Charges          decimal.Decimal  `json:"charges"`
	CollectAccountID string           `json:"collect_account_id"`
	MDRRate          *decimal.Decimal `json:"mdr_rate"`
	CommissionRate   *decimal.Decimal `json:"commission_rate"`
	Date             time.Time        `json:"date"`
}

func (s *Server) recovery(w http.ResponseWriter, r *http.Request) {
	var req recoveryRequest
	if !s.decode(w, r, &req) {
		return
	}
	card, err := ledger.ParseCardType(req.CardType)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	txn, err := s.engine.Recover(r.Context(), engine.RecoveryRequest{
		CustomerID:       req.CustomerID,
		WalletID:         req.WalletID,
		PGName:           req.PGName,
		Card:             card,
		Amount:           req.Amount,
		Charges:          req.Charges,
		CollectAccountID: req.CollectAccountID,
		MDRRate:          req.MDRRate,
		CommissionRate:   req.CommissionRate,
		Date:             req.Date,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}

type moneyTransferRequest struct {
	CustomerID      string          `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	WalletID        string          `json:"wallet_id" validate:"required"`
	InflowAccountID string          `json:"inflow_account_id"`
	Amount          decimal.Decimal `json:"amount"`
	Charge          decimal.Decimal `json:"charge"`
	Date            time.Time       `json:"date"`
}

func (s *Server) moneyTransfer(w http.ResponseWriter, r *http.Request) {
	var req moneyTransferRequest
	if !s.decode(w, r, &req) {
		return
	}
	txn, err := s.engine.MoneyTransfer(r.Context(), engine.TransferRequest{
		CustomerID:      req.CustomerID,
		CustomerName:    req.CustomerName,
		WalletID:        req.WalletID,
		InflowAccountID: req.InflowAccountID,
		Amount:          req.Amount,
		Charge:          req.Charge,
		Date:            req.Date,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, txn)
}
