package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// WorkDir is the working directory captured when the config was created
	WorkDir string `yaml:"-"`

	// Report settings
	Destination  string `yaml:"destination"`
	Title        string `yaml:"title"`
	Mode         string `yaml:"mode"`
	LiteralsPath string `yaml:"literals"`

	// Sink settings
	SnapshotPath string `yaml:"snapshot"`
	MetricsFile  string `yaml:"metrics_file"`
	HistoryDSN   string `yaml:"history_dsn"`

	// Command flags
	Flags Flags `yaml:"-"`
}

// Flags holds command-line flags
type Flags struct {
	Destination string
	Title       string
	Mode        string
	Literals    string
	Snapshot    string
	MetricsFile string
	HistoryDSN  string
	NoProgress  bool
	Quiet       bool
	NameFilter  string
	OnlyFailed  bool
}

// New creates a new Config with defaults. The default destination is resolved
// against the working directory once, here.
func New() *Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return &Config{
		WorkDir:      wd,
		Destination:  filepath.Join(wd, DefaultDestinationFile),
		SnapshotPath: DefaultSnapshotFile,
	}
}

// Resolve layers the YAML config file, the dotenv file, STORY_* environment
// variables and finally flags over the defaults.
func (c *Config) Resolve(flags Flags) error {
	if err := c.LoadFile(filepath.Join(c.WorkDir, DefaultConfigFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	// .env is optional; existing environment variables win over it
	if err := godotenv.Load(filepath.Join(c.WorkDir, DefaultEnvFile)); err != nil {
		_ = err
	}

	c.ApplyEnv()
	c.ApplyFlags(flags)
	return nil
}

// LoadFile merges a YAML config file into c
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from STORY_* environment variables
func (c *Config) ApplyEnv() {
	setFromEnv(&c.Destination, EnvDestination)
	setFromEnv(&c.Title, EnvTitle)
	setFromEnv(&c.Mode, EnvMode)
	setFromEnv(&c.LiteralsPath, EnvLiterals)
	setFromEnv(&c.SnapshotPath, EnvSnapshot)
	setFromEnv(&c.MetricsFile, EnvMetricsFile)
	setFromEnv(&c.HistoryDSN, EnvHistoryDSN)
}

// ApplyFlags overrides settings from command flags that were set
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags
	setIfNotEmpty(&c.Destination, flags.Destination)
	setIfNotEmpty(&c.Title, flags.Title)
	setIfNotEmpty(&c.Mode, flags.Mode)
	setIfNotEmpty(&c.LiteralsPath, flags.Literals)
	setIfNotEmpty(&c.SnapshotPath, flags.Snapshot)
	setIfNotEmpty(&c.MetricsFile, flags.MetricsFile)
	setIfNotEmpty(&c.HistoryDSN, flags.HistoryDSN)
}

// GetDestination returns the absolute report path
func (c *Config) GetDestination() string {
	return c.abs(c.Destination)
}

// GetSnapshotPath returns the absolute path of the last-run snapshot
func (c *Config) GetSnapshotPath() string {
	return c.abs(c.SnapshotPath)
}

// GetLiteralsPath returns the absolute path of the literals override file, or "" when unset
func (c *Config) GetLiteralsPath() string {
	return c.abs(c.LiteralsPath)
}

// GetMetricsFile returns the absolute path of the Prometheus textfile, or "" when unset
func (c *Config) GetMetricsFile() string {
	return c.abs(c.MetricsFile)
}

// IsHTML reports whether the HTML report was selected
func (c *Config) IsHTML() bool {
	return strings.EqualFold(strings.TrimSpace(c.Mode), ModeHTML)
}

func (c *Config) abs(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.WorkDir, path)
}

func setFromEnv(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
