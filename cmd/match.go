package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibmatch/internal/catalog"
	"github.com/lehigh-university-libraries/bibmatch/internal/config"
	"github.com/lehigh-university-libraries/bibmatch/internal/dataset"
	"github.com/lehigh-university-libraries/bibmatch/internal/pipeline"
	"github.com/lehigh-university-libraries/bibmatch/internal/report"
	"github.com/lehigh-university-libraries/bibmatch/internal/stats"
)

func newMatchCmd() *cobra.Command {
	var configPath string
	var flags config.Config

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Decide insert, attach or overlay for a file of vendor records",
		Long: `Match every vendor record against a catalog snapshot and write the decisions.

Settings come from defaults, then the --config YAML file, then BIBMATCH_* environment
variables (a .env file is read first), then flags.`,
		Example: `  # Catalog branch records for NYP
  bibmatch match --system nyp --vendor ./vendor.jsonl --catalog ./catalog.parquet

  # Selection workflow with 8 workers and a metrics file
  bibmatch match --config bibmatch.yaml --agent sel --concurrency 8 --metrics-file ./bibmatch.prom`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, &cfg, flags)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return executeMatch(cmd, cfg)
		},
	}

	def := config.Default()
	cmd.Flags().StringVar(&configPath, "config", "", "Path to YAML config file")
	cmd.Flags().StringVar((*string)(&flags.System), "system", "", "Institution rule set (nyp or bpl)")
	cmd.Flags().StringVar((*string)(&flags.Library), "library", string(def.Library), "Destination library (branches or research)")
	cmd.Flags().StringVar((*string)(&flags.Agent), "agent", string(def.Agent), "Workflow agent (cat, sel or acq)")
	cmd.Flags().StringVar(&flags.VendorFile, "vendor", "", "Vendor records (.jsonl or .parquet)")
	cmd.Flags().StringVar(&flags.CatalogFile, "catalog", "", "Catalog snapshot (.jsonl or .parquet)")
	cmd.Flags().StringVar(&flags.ReportDir, "report-dir", def.ReportDir, "Directory for decision reports")
	cmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	cmd.Flags().IntVar(&flags.Concurrency, "concurrency", def.Concurrency, "Number of records decided at once")
	cmd.Flags().IntVar(&flags.Limit, "limit", 0, "Number of vendor records to read (0 for all)")

	return cmd
}

// applyFlags copies the flags set on the command line over cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config, flags config.Config) {
	set := cmd.Flags().Changed
	if set("system") {
		cfg.System = flags.System
	}
	if set("library") {
		cfg.Library = flags.Library
	}
	if set("agent") {
		cfg.Agent = flags.Agent
	}
	if set("vendor") {
		cfg.VendorFile = flags.VendorFile
	}
	if set("catalog") {
		cfg.CatalogFile = flags.CatalogFile
	}
	if set("report-dir") {
		cfg.ReportDir = flags.ReportDir
	}
	if set("metrics-file") {
		cfg.MetricsFile = flags.MetricsFile
	}
	if set("concurrency") {
		cfg.Concurrency = flags.Concurrency
	}
	if set("limit") {
		cfg.Limit = flags.Limit
	}
}

func executeMatch(cmd *cobra.Command, cfg config.Config) error {
	slog.Info("Starting match run", "system", cfg.System, "library", cfg.Library, "agent", cfg.Agent)

	catalogRows, err := dataset.NewLoader(cfg.CatalogFile).Load()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	index, err := catalog.LoadIndex(catalogRows, cfg.System)
	if err != nil {
		return err
	}
	slog.Info("Catalog loaded", "records", index.Len())

	vendorRows, err := dataset.NewLoader(cfg.VendorFile).LoadSample(cfg.Limit)
	if err != nil {
		return fmt.Errorf("failed to load vendor records: %w", err)
	}
	slog.Info("Vendor records loaded", "records", len(vendorRows))

	recorder := stats.NewRecorder()
	p, err := pipeline.New(index, pipeline.Options{
		System:      cfg.System,
		Library:     cfg.Library,
		Agent:       cfg.Agent,
		Concurrency: cfg.Concurrency,
		Recorder:    recorder,
	})
	if err != nil {
		return err
	}

	results, err := p.Run(cmd.Context(), vendorRows)
	if err != nil {
		return fmt.Errorf("match run interrupted: %w", err)
	}

	rep := report.New(report.NewRun(cfg.System, cfg.Library, cfg.Agent, cfg.VendorFile, cfg.CatalogFile), results)
	files, err := rep.Save(cfg.ReportDir)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	if cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			return err
		}
		slog.Info("Metrics written", "path", cfg.MetricsFile)
	}

	out := cmd.OutOrStdout()
	rep.PrintSummary(out)
	fmt.Fprintf(out, "\nDecisions saved to: %s\n", files.Decisions)
	fmt.Fprintf(out, "Duplicates:         %s\n", files.Duplicates)
	fmt.Fprintf(out, "Conflicts:          %s\n", files.Conflicts)

	if rep.Summary.Failed > 0 {
		slog.Warn("Some records could not be decided", "failed", rep.Summary.Failed)
	}
	return nil
}
