package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/simonvc/swipeledger/internal/engine"
)

type Server struct {
	engine   *engine.Engine
	router   chi.Router
	addr     string
	log      *slog.Logger
	validate *validator.Validate
	http     *http.Server
}

func New(eng *engine.Engine, addr string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	s := &Server{engine: eng, router: r, addr: addr, log: log, validate: validator.New()}
	s.http = &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}

	r.Get("/health", s.health)

	r.Route("/api/v1", func(r chi.Router) {
		// Accounts
		r.Post("/accounts", s.createAccount)
		r.Get("/accounts", s.listAccounts)
		r.Get("/accounts/{id}", s.getAccount)
		r.Get("/accounts/{id}/balance", s.getAccountBalance)
		r.Get("/accounts/{id}/ledger", s.getAccountLedger)
		r.Get("/accounts/{id}/statement", s.getAccountStatement)

		// Transactions
		r.Post("/transactions", s.createTransaction)
		r.Get("/transactions", s.listTransactions)
		r.Get("/transactions/{id}", s.getTransaction)

		// Customers
		r.Post("/customers", s.createCustomer)
		r.Get("/customers", s.listCustomers)
		r.Get("/customers/lookup", s.lookupCustomer)
		r.Get("/customers/{id}", s.getCustomer)
		r.Patch("/customers/{id}", s.updateCustomer)

		// Wallets
		r.Post("/wallets", s.createWallet)
		r.Get("/wallets", s.listWallets)
		r.Get("/wallets/{id}", s.getWallet)
		r.Post("/wallets/{id}/pgs", s.addWalletPG)
		r.Put("/wallets/{id}/pgs/{name}", s.updateWalletPG)
		r.Post("/wallets/{id}/reconcile", s.reconcileWallet)

		// Workflows
		r.Post("/workflows/swipe-inflow", s.swipeInflow)
		r.Post("/workflows/swipe-inflow/quote", s.quoteSwipe)
		r.Post("/workflows/swipe-payout", s.swipePayout)
		r.Post("/workflows/advance-pay", s.advancePay)
		r.Post("/workflows/recovery", s.recovery)
		r.Post("/workflows/money-transfer", s.moneyTransfer)

		// Reports
		r.Get("/reports/balance-sheet", s.balanceSheet)
		r.Get("/reports/profit-and-loss", s.profitAndLoss)
		r.Get("/reports/trial-balance", s.trialBalance)
		r.Get("/reports/segments", s.segments)
		r.Get("/reports/dashboard", s.dashboard)
		r.Get("/reports/verify", s.verify)
	})

	return s
}

func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

func (s *Server) Serve(ln net.Listener) error {
	s.log.Info("swipeledger server listening", "addr", ln.Addr().String())
	err := s.http.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Info("request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
