package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/simonvc/swipeledger/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		eng, closeStore, err := openEngine(ctx, log)
		if err != nil {
			return err
		}
		defer closeStore()

		srv := server.New(eng, cfg.Addr, log)
		errc := make(chan error, 1)
		go func() { errc <- srv.ListenAndServe() }()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8899", "Listen address")
	serveCmd.Flags().String("store", "memory", "Store driver: memory or sqlite")
	serveCmd.Flags().String("dsn", "", "SQLite DSN (default: shared in-memory database)")
	serveCmd.Flags().String("seed", "", "YAML seed file (default: built-in chart)")
	for _, name := range []string{"addr", "store", "dsn", "seed"} {
		v.BindPFlag(name, serveCmd.Flags().Lookup(name))
	}
	rootCmd.AddCommand(serveCmd)
}
