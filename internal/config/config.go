package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/ledgercat/internal/classifier"
	"github.com/cleared-dev/ledgercat/internal/importer"
	"github.com/cleared-dev/ledgercat/internal/journal"
	"github.com/cleared-dev/ledgercat/internal/model"
)

// FileName is the config file at the project root.
const FileName = "ledgercat.yaml"

// Environment variables that override the config file.
const (
	EnvLogLevel  = "LEDGERCAT_LOG_LEVEL"
	EnvLogFormat = "LEDGERCAT_LOG_FORMAT"
	EnvModelPath = "LEDGERCAT_MODEL_PATH"
)

// Config represents the top-level ledgercat.yaml configuration.
type Config struct {
	Business   BusinessConfig          `yaml:"business"`
	Paths      PathsConfig             `yaml:"paths"`
	Ledger     LedgerConfig            `yaml:"ledger"`
	Classifier classifier.TrainOptions `yaml:"classifier"`
	Journal    JournalConfig           `yaml:"journal"`
	Log        LogConfig               `yaml:"log"`
	Git        GitConfig               `yaml:"git"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name string `yaml:"name"`
}

// PathsConfig locates inputs and outputs, relative to the project root.
type PathsConfig struct {
	ImportDir string `yaml:"import_dir" validate:"required"`
	Rules     string `yaml:"rules" validate:"required"`
	Chart     string `yaml:"chart" validate:"required"`
	Model     string `yaml:"model" validate:"required"`
	OutputDir string `yaml:"output_dir" validate:"required"`
	LogDir    string `yaml:"log_dir" validate:"required"`
}

// LedgerConfig describes the source ledger layout.
type LedgerConfig struct {
	Sheet   string           `yaml:"sheet"` // xlsx only; empty reads the first sheet
	Columns importer.Columns `yaml:"columns"`
}

// JournalConfig controls posting.
type JournalConfig struct {
	CashAccount string  `yaml:"cash_account" validate:"required"`
	Tolerance   float64 `yaml:"tolerance" validate:"gt=0"`
	// RejectUnmapped fails the run when a category is missing from the chart.
	RejectUnmapped bool `yaml:"reject_unmapped"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name" validate:"required_if=AutoCommit true"`
	AuthorEmail string `yaml:"author_email" validate:"omitempty,email"`
}

// Load reads a ledgercat.yaml file from disk. Fields missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadProject reads <repoRoot>/ledgercat.yaml, applies environment
// overrides and validates the result.
func LoadProject(repoRoot string) (*Config, error) {
	cfg, err := Load(filepath.Join(repoRoot, FileName))
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(filepath.Join(repoRoot, ".env")); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{Name: businessName},
		Paths: PathsConfig{
			ImportDir: "import",
			Rules:     filepath.Join("rules", "vendor_mapping.csv"),
			Chart:     filepath.Join("accounts", "chart-of-accounts.csv"),
			Model:     filepath.Join("models", "category.model"),
			OutputDir: "output",
			LogDir:    "logs",
		},
		Ledger: LedgerConfig{
			Sheet:   "Ledger Sample",
			Columns: importer.DefaultColumns(),
		},
		Classifier: classifier.DefaultTrainOptions(),
		Journal: JournalConfig{
			CashAccount: model.CashAccount,
			Tolerance:   0.01,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Git: GitConfig{
			AuthorName:  "ledgercat",
			AuthorEmail: "ledgercat@example.com",
		},
	}
}

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Fields map[string]string // field namespace -> failed rule
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid config: " + strings.Join(parts, ", ")
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.TrimPrefix(fe.Namespace(), "Config.")] = fe.Tag()
	}
	return &ValidationError{Fields: fields}
}

// ApplyEnv loads envFile if it exists, then applies LEDGERCAT_* overrides.
// Variables already set in the process environment win over the file.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", filepath.Base(envFile), err)
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = strings.ToLower(v)
	}
	if v := os.Getenv(EnvModelPath); v != "" {
		c.Paths.Model = v
	}
	return nil
}

// JournalOptions converts the journal section to posting options.
func (c *Config) JournalOptions() journal.Options {
	return journal.Options{
		CashAccount: c.Journal.CashAccount,
		Tolerance:   decimal.NewFromFloat(c.Journal.Tolerance),
	}
}

// Resolve joins a configured path onto repoRoot unless it is absolute.
func Resolve(repoRoot, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(repoRoot, path)
}
