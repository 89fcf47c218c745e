package server

import (
	"net/http"
)

func (s *Server) balanceSheet(w http.ResponseWriter, r *http.Request) {
	bs, err := s.engine.BalanceSheet(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

func (s *Server) profitAndLoss(w http.ResponseWriter, r *http.Request) {
	pl, err := s.engine.ProfitAndLoss(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pl)
}

func (s *Server) trialBalance(w http.ResponseWriter, r *http.Request) {
	tb, err := s.engine.TrialBalance(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tb)
}

func (s *Server) segments(w http.ResponseWriter, r *http.Request) {
	seg, err := s.engine.Segments(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, seg)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.engine.Dashboard(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// verify replays the ledger and reports whether cached balances still agree.
func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	v, err := s.engine.VerifyProjection(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	status := http.StatusOK
	if !v.OK() {
		status = http.StatusConflict
	}
	writeJSON(w, status, v)
}
