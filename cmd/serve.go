package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibmatch/internal/catalog"
	"github.com/lehigh-university-libraries/bibmatch/internal/config"
	"github.com/lehigh-university-libraries/bibmatch/internal/dataset"
	"github.com/lehigh-university-libraries/bibmatch/internal/handlers"
	"github.com/lehigh-university-libraries/bibmatch/internal/pipeline"
	"github.com/lehigh-university-libraries/bibmatch/internal/stats"
)

func newServeCmd() *cobra.Command {
	var port string
	var configPath string
	var flags config.Config

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start an HTTP API that decides single records",
		Long: `Loads a catalog snapshot and serves match decisions over HTTP.

POST a line MARC or MARCXML record to /api/decisions to get its decision. Decisions made
since startup are listed at /api/decisions and counters are exposed at /metrics.`,
		Example: `  # Serve NYP decisions on the default port 8888
  bibmatch serve --system nyp --catalog ./catalog.parquet

  # Decide a record
  curl -X POST localhost:8888/api/decisions -d '{"marc":"*00112345\n*020  $a9780134685991\n^\n"}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, &cfg, flags)
			// records arrive in requests
			if err := cfg.ValidateExcept("VendorFile"); err != nil {
				return err
			}

			rows, err := dataset.NewLoader(cfg.CatalogFile).Load()
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			index, err := catalog.LoadIndex(rows, cfg.System)
			if err != nil {
				return err
			}

			recorder := stats.NewRecorder()
			opts := pipeline.Options{
				System:   cfg.System,
				Library:  cfg.Library,
				Agent:    cfg.Agent,
				Recorder: recorder,
			}
			p, err := pipeline.New(index, opts)
			if err != nil {
				return err
			}

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handlers.New(p, opts).Routes(recorder.Registry()),
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Bibmatch API available", "addr", addr, "catalog_records", index.Len(), "system", cfg.System)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	def := config.Default()
	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config file")
	cmd.Flags().StringVar((*string)(&flags.System), "system", "", "Institution rule set (nyp or bpl)")
	cmd.Flags().StringVar((*string)(&flags.Library), "library", string(def.Library), "Default destination library (branches or research)")
	cmd.Flags().StringVar((*string)(&flags.Agent), "agent", string(def.Agent), "Workflow agent (cat, sel or acq)")
	cmd.Flags().StringVar(&flags.CatalogFile, "catalog", "", "Catalog snapshot (.jsonl or .parquet)")

	return cmd
}
