// Package config resolves the settings of a matching run from defaults, an
// optional YAML file and BIBMATCH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/bibmatch/internal/vocab"
)

// Config holds everything a run needs.
type Config struct {
	System  vocab.System  `yaml:"system" validate:"required,oneof=nyp bpl"`
	Library vocab.Library `yaml:"library" validate:"required,oneof=branches research"`
	Agent   vocab.Agent   `yaml:"agent" validate:"required,oneof=cat sel acq"`

	VendorFile  string `yaml:"vendor_file" validate:"required"`
	CatalogFile string `yaml:"catalog_file" validate:"required"`
	ReportDir   string `yaml:"report_dir" validate:"required"`
	MetricsFile string `yaml:"metrics_file"`

	Concurrency int `yaml:"concurrency" validate:"min=1,max=256"`
	// Limit caps the vendor records read; zero reads them all.
	Limit int `yaml:"limit" validate:"min=0"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Library:     vocab.LibraryBranches,
		Agent:       vocab.AgentCataloging,
		ReportDir:   "reports",
		Concurrency: 1,
	}
}

// Load applies the YAML file at path, when path is not empty, and then the
// environment on top of the defaults. The result is not validated so callers
// can apply flags first.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile overlays the settings present in a YAML file.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays the BIBMATCH_* variables that getenv reports as set.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	strs := map[string]*string{
		"BIBMATCH_VENDOR_FILE":  &c.VendorFile,
		"BIBMATCH_CATALOG_FILE": &c.CatalogFile,
		"BIBMATCH_REPORT_DIR":   &c.ReportDir,
		"BIBMATCH_METRICS_FILE": &c.MetricsFile,
	}
	for key, dst := range strs {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	if v := getenv("BIBMATCH_SYSTEM"); v != "" {
		c.System = vocab.System(v)
	}
	if v := getenv("BIBMATCH_LIBRARY"); v != "" {
		c.Library = vocab.Library(v)
	}
	if v := getenv("BIBMATCH_AGENT"); v != "" {
		c.Agent = vocab.Agent(v)
	}
	if v := getenv("BIBMATCH_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BIBMATCH_CONCURRENCY %q: %w", v, err)
		}
		c.Concurrency = n
	}
	return nil
}

var validate = validator.New()

// Validate checks field constraints and that the destination library exists
// in the chosen system.
func (c Config) Validate() error {
	return c.check(validate.Struct(c))
}

// ValidateExcept is Validate without the constraints of the named fields.
func (c Config) ValidateExcept(fields ...string) error {
	return c.check(validate.StructExcept(c, fields...))
}

func (c Config) check(err error) error {
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid configuration: %s fails %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.System == vocab.SystemBPL && c.Library != vocab.LibraryBranches {
		return fmt.Errorf("invalid configuration: %w %q for system %q", vocab.ErrUnknownLibrary, c.Library, c.System)
	}
	return nil
}
