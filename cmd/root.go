package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/simonvc/swipeledger/internal/client"
	"github.com/simonvc/swipeledger/internal/config"
	"github.com/simonvc/swipeledger/internal/engine"
	"github.com/simonvc/swipeledger/internal/store"
	"github.com/spf13/cobra"
)

var (
	flagConfig string

	v   = config.New()
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "swipeledger",
	Short: "Double-entry ledger for a card-swipe payment agent",
	Long: "A double-entry ledger for a payment agent that settles customer card swipes through\n" +
		"wallet gateways, with reconciliation and balance sheet / P&L reporting.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(v, flagConfig)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("server", config.DefaultServer, "Server address")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (yaml, json or toml)")
	v.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
}

func Execute() error {
	return rootCmd.Execute()
}

func apiClient() *client.Client {
	return client.New(cfg.Server)
}

func newLogger() (*slog.Logger, error) {
	return config.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)
}

// openEngine opens the configured store, seeds it and builds the engine over it.
// The returned close function releases the store.
func openEngine(ctx context.Context, log *slog.Logger) (*engine.Engine, func() error, error) {
	seed, err := config.LoadSeed(cfg.Seed)
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(ctx, cfg.Store, cfg.DSN, seed)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	eng, err := engine.New(ctx, st, engine.WithLogger(log))
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return eng, st.Close, nil
}
