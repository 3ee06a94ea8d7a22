// Package config layers run settings: built-in defaults, then an
// optional YAML file, then DOCSEAL_* environment variables. Command-line
// flags are applied last, by the command layer.
//
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nroyer/docseal/internal/batch"
	"github.com/nroyer/docseal/internal/invoice"
	"github.com/nroyer/docseal/internal/password"
	"github.com/nroyer/docseal/internal/protect"
)

type Config struct {
	Protect ProtectConfig `yaml:"protect"`
	Lookup  LookupConfig  `yaml:"lookup"`
	Log     LogConfig     `yaml:"log"`
}

type ProtectConfig struct {
	Workers        int      `yaml:"workers"`
	Recursive      bool     `yaml:"recursive"`
	DeleteSource   bool     `yaml:"delete_source"`
	PasswordLength int      `yaml:"password_length"`
	Strategy       string   `yaml:"strategy"`
	Policy         string   `yaml:"policy"`
	Ext            string   `yaml:"ext"`
	Exclude        []string `yaml:"exclude"`
}

type LookupConfig struct {
	Sheet         string   `yaml:"sheet"`
	SearchColumn  string   `yaml:"search_column"`
	ResultColumns []string `yaml:"result_columns"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Protect: ProtectConfig{
			Workers:        1,
			PasswordLength: password.DefaultLength,
			Strategy:       invoice.StrategyPositional,
			Policy:         protect.PolicyStrict,
			Ext:            ".pdf",
		},
		Lookup: LookupConfig{
			SearchColumn:  "A",
			ResultColumns: []string{"B"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the effective configuration. The YAML file at path (when
// path is non-empty) overlays the defaults; keys it does not set keep
// their default values. Environment variables overlay the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Protect.Workers = getEnvInt("DOCSEAL_WORKERS", c.Protect.Workers)
	c.Protect.Recursive = getEnvBool("DOCSEAL_RECURSIVE", c.Protect.Recursive)
	c.Protect.DeleteSource = getEnvBool("DOCSEAL_DELETE_SOURCE", c.Protect.DeleteSource)
	c.Protect.PasswordLength = getEnvInt("DOCSEAL_PASSWORD_LENGTH", c.Protect.PasswordLength)
	c.Protect.Strategy = getEnv("DOCSEAL_STRATEGY", c.Protect.Strategy)
	c.Protect.Policy = getEnv("DOCSEAL_POLICY", c.Protect.Policy)
	c.Protect.Ext = getEnv("DOCSEAL_EXT", c.Protect.Ext)
	c.Lookup.Sheet = getEnv("DOCSEAL_SHEET", c.Lookup.Sheet)
	c.Lookup.SearchColumn = getEnv("DOCSEAL_SEARCH_COLUMN", c.Lookup.SearchColumn)
	c.Log.Level = getEnv("DOCSEAL_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("DOCSEAL_LOG_FORMAT", c.Log.Format)
}

// BatchOptions lowers the protect section onto runner options.
func (c *Config) BatchOptions() (*batch.Options, error) {
	opts := batch.DefaultOptions().
		WithWorkers(c.Protect.Workers).
		WithRecursive(c.Protect.Recursive).
		WithDeleteSource(c.Protect.DeleteSource).
		WithPasswordLength(c.Protect.PasswordLength).
		WithStrategy(c.Protect.Strategy).
		WithPolicy(c.Protect.Policy).
		WithExt(NormalizeExt(c.Protect.Ext))

	for _, pattern := range c.Protect.Exclude {
		if err := opts.AddExcludePattern(pattern); err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}
	return opts, nil
}

// NormalizeExt ensures an extension carries its leading dot.
func NormalizeExt(ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
