package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/simonvc/swipeledger/internal/ledger"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, details any) {
	writeJSON(w, status, errorResponse{Error: msg, Details: details})
}

// fail maps err to a status and writes it. Unexpected errors are logged.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, details := mapError(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, status, err.Error(), details)
}

func mapError(err error) (int, any) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fmt.Sprintf("failed on '%s' rule", fe.Tag())
		}
		return http.StatusBadRequest, details
	}
	var unbalanced *ledger.UnbalancedError
	if errors.As(err, &unbalanced) {
		return http.StatusUnprocessableEntity, unbalanced
	}
	var invalid *ledger.InvalidAccountError
	if errors.As(err, &invalid) {
		return http.StatusUnprocessableEntity, invalid
	}

	switch {
	case errors.Is(err, ledger.ErrAccountNotFound),
		errors.Is(err, ledger.ErrCustomerNotFound),
		errors.Is(err, ledger.ErrWalletNotFound),
		errors.Is(err, ledger.ErrPGNotFound),
		errors.Is(err, ledger.ErrTransactionNotFound):
		return http.StatusNotFound, nil
	case errors.Is(err, ledger.ErrDuplicateAccount),
		errors.Is(err, ledger.ErrDuplicateCustomer),
		errors.Is(err, ledger.ErrDuplicateWallet),
		errors.Is(err, ledger.ErrDuplicatePG),
		errors.Is(err, ledger.ErrDuplicateTransaction):
		return http.StatusConflict, nil
	case errors.Is(err, ledger.ErrTooFewEntries),
		errors.Is(err, ledger.ErrNegativeAmount),
		errors.Is(err, ledger.ErrInvalidAmount):
		return http.StatusUnprocessableEntity, nil
	case errors.Is(err, ledger.ErrInvalidInput),
		errors.Is(err, ledger.ErrInvalidAccountID),
		errors.Is(err, ledger.ErrInvalidAccountType),
		errors.Is(err, ledger.ErrInvalidCategory),
		errors.Is(err, ledger.ErrInvalidCardType),
		errors.Is(err, ledger.ErrInvalidTxnType),
		errors.Is(err, ledger.ErrNegativeRate),
		errors.Is(err, ledger.ErrWalletWithoutPG):
		return http.StatusBadRequest, nil
	default:
		return http.StatusInternalServerError, nil
	}
}

// decode reads a JSON body into v and runs its validate tags.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error(), nil)
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		s.fail(w, r, err)
		return false
	}
	return true
}

func pathParam(r *http.Request, name string) string {
	v, err := url.PathUnescape(chi.URLParam(r, name))
	if err != nil {
		return chi.URLParam(r, name)
	}
	return v
}
