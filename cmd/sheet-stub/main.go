// Command sheet-stub serves a fake spreadsheet endpoint for local runs of
// the dashboard.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/painel/internal/stub"
	"github.com/okian/painel/pkg/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sheet-stub",
	Short: "Fake spreadsheet endpoint for the sales dashboard",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("log-format")
		if err := logger.Init(logger.WithFormat(logger.Format(format))); err != nil {
			return err
		}
		level, _ := cmd.Flags().GetString("log-level")
		return logger.SetLevelString(level)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	serveCmd.Flags().String("addr", ":8787", "listen address")
	serveCmd.Flags().String("token", "", "token the dashboard must send")
	serveCmd.Flags().String("fixture", "", "serve this file verbatim instead of generated rows")
	serveCmd.Flags().Uint64("seed", 1, "seed for generated values")
	serveCmd.Flags().String("sheet", "Comercial", "sheet name reported in the payload")
	_ = serveCmd.MarkFlagRequired("token")
	dumpCmd.Flags().Uint64("seed", 1, "seed for generated values")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dumpCmd)
}

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the fake endpoint over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		token, _ := cmd.Flags().GetString("token")
		fixture, _ := cmd.Flags().GetString("fixture")
		seed, _ := cmd.Flags().GetUint64("seed")
		sheet, _ := cmd.Flags().GetString("sheet")

		opts := []stub.Option{stub.WithGenerator(stub.NewGenerator(seed, stub.WithSheet(sheet)))}
		if fixture != "" {
			body, err := os.ReadFile(fixture)
			if err != nil {
				return fmt.Errorf("read fixture: %w", err)
			}
			opts = append(opts, stub.WithFixture(body))
		}
		h, err := stub.NewHandler(token, opts...)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: readHeaderTimeout}
		serveErr := make(chan error, 1)
		go func() {
			logger.Get().Info(ctx, "sheet stub listening", logger.String("addr", addr), logger.Any("fixture", fixture != ""))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
		}()

		select {
		case <-ctx.Done():
		case err := <-serveErr:
			return err
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

// --- Dump Command ---

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print one generated payload, to start a fixture from",
	RunE: func(cmd *cobra.Command, _ []string) error {
		seed, _ := cmd.Flags().GetUint64("seed")
		doc := stub.NewGenerator(seed).Document()
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	},
}
