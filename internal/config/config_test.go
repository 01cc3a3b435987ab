package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lehigh-university-libraries/bibmatch/internal/vocab"
)

func validConfig() Config {
	cfg := Default()
	cfg.System = vocab.SystemNYP
	cfg.VendorFile = "vendor.jsonl"
	cfg.CatalogFile = "catalog.parquet"
	return cfg
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bibmatch.yaml")
	content := "system: nyp\nlibrary: research\nvendor_file: from-file.jsonl\nconcurrency: 4\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("BIBMATCH_VENDOR_FILE", "from-env.jsonl")
	t.Setenv("BIBMATCH_CATALOG_FILE", "catalog.parquet")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	expected := Config{
		System:      vocab.SystemNYP,
		Library:     vocab.LibraryResearch,
		Agent:       vocab.AgentCataloging,
		VendorFile:  "from-env.jsonl",
		CatalogFile: "catalog.parquet",
		ReportDir:   "reports",
		Concurrency: 4,
	}
	if diff := cmp.Diff(expected, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"BIBMATCH_SYSTEM":       "bpl",
		"BIBMATCH_AGENT":        "sel",
		"BIBMATCH_REPORT_DIR":   "out",
		"BIBMATCH_METRICS_FILE": "bibmatch.prom",
		"BIBMATCH_CONCURRENCY":  "8",
	}
	cfg := Default()
	if err := cfg.ApplyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}

	if cfg.System != vocab.SystemBPL || cfg.Agent != vocab.AgentSelection || cfg.ReportDir != "out" ||
		cfg.MetricsFile != "bibmatch.prom" || cfg.Concurrency != 8 {
		t.Errorf("unexpected config %+v", cfg)
	}

	env["BIBMATCH_CONCURRENCY"] = "many"
	if err := cfg.ApplyEnv(func(k string) string { return env[k] }); err == nil {
		t.Error("Expected error for non-numeric concurrency")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing system", mutate: func(c *Config) { c.System = "" }, wantErr: "System"},
		{name: "unknown system", mutate: func(c *Config) { c.System = "lpl" }, wantErr: "oneof"},
		{name: "unknown agent", mutate: func(c *Config) { c.Agent = "ill" }, wantErr: "Agent"},
		{name: "missing vendor file", mutate: func(c *Config) { c.VendorFile = "" }, wantErr: "VendorFile"},
		{name: "zero concurrency", mutate: func(c *Config) { c.Concurrency = 0 }, wantErr: "Concurrency"},
		{name: "negative limit", mutate: func(c *Config) { c.Limit = -1 }, wantErr: "Limit"},
		{name: "bpl research", mutate: func(c *Config) { c.System = vocab.SystemBPL; c.Library = vocab.LibraryResearch }, wantErr: "library"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_BPLResearchIsUnknownLibrary(t *testing.T) {
	cfg := validConfig()
	cfg.System = vocab.SystemBPL
	cfg.Library = vocab.LibraryResearch

	if err := cfg.Validate(); !errors.Is(err, vocab.ErrUnknownLibrary) {
		t.Errorf("expected ErrUnknownLibrary, got %v", err)
	}
}

func TestValidateExcept(t *testing.T) {
	cfg := validConfig()
	cfg.VendorFile = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Validate should require a vendor file")
	}
	if err := cfg.ValidateExcept("VendorFile"); err != nil {
		t.Errorf("ValidateExcept: %v", err)
	}

	cfg.System = ""
	if err := cfg.ValidateExcept("VendorFile"); err == nil {
		t.Error("ValidateExcept should still check the other fields")
	}
}
