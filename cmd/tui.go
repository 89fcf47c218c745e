package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/simonvc/swipeledger/internal/client"
	"github.com/simonvc/swipeledger/internal/config"
	"github.com/simonvc/swipeledger/internal/server"
	"github.com/simonvc/swipeledger/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		serverAddr := cfg.Server

		if !cmd.Flags().Changed("server") {
			// Run an embedded server on a loopback port. Request logs would
			// tear the alt screen, so only warnings get through.
			log, err := config.NewLogger(os.Stderr, "warn", cfg.Log.Format)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			eng, closeStore, err := openEngine(ctx, log)
			if err != nil {
				return err
			}
			defer closeStore()

			ln, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				return fmt.Errorf("embedded server: %w", err)
			}
			srv := server.New(eng, ln.Addr().String(), log)
			go func() {
				if err := srv.Serve(ln); err != nil {
					log.Error("embedded server stopped", "error", err)
				}
			}()
			defer func() {
				shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
				defer done()
				srv.Shutdown(shutdownCtx)
			}()
			serverAddr = "http://" + ln.Addr().String()

			// Wait for server to be ready
			c := client.New(serverAddr)
			waitCtx, waitCancel := context.WithTimeout(ctx, 5*time.Second)
			defer waitCancel()
			for {
				if err := c.Ping(waitCtx); err == nil {
					break
				}
				if waitCtx.Err() != nil {
					return fmt.Errorf("timeout waiting for embedded server")
				}
				time.Sleep(50 * time.Millisecond)
			}
		}

		app := tui.NewApp(client.New(serverAddr))
		p := tea.NewProgram(app, tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
