package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	ExcludePatterns []string `yaml:"exclude_patterns"`
	MinFileSize     string   `yaml:"min_file_size"` // e.g., "1KB"; "0" disables the filter
	Workers         int      `yaml:"workers"`       // 0 = host parallelism
	PrefixSize      string   `yaml:"prefix_size"`   // partial-hash prefix, e.g., "8KB"
	Digest          string   `yaml:"digest"`        // "sha256" or "blake2b"
	Format          string   `yaml:"format"`        // default report format
	NoProgress      bool     `yaml:"no_progress"`   // suppress the live progress line
	Verbose         bool     `yaml:"verbose"`
}

// Load loads configuration from a file
func Load(configPath string) (*Config, error) {
	// If config doesn't exist, return default config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefault(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Save saves configuration to a file
func Save(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration before any scan starts. All errors
// here are fatal; nothing about a scan can be salvaged from a bad config.
func (c *Config) Validate() error {
	for _, pattern := range c.ExcludePatterns {
		if _, err := filepath.Match(pattern, "probe"); err != nil {
			return fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
	}

	if c.MinFileSize != "" {
		if _, err := utils.ParseSize(c.MinFileSize); err != nil {
			return fmt.Errorf("invalid min_file_size: %w", err)
		}
	}

	if c.PrefixSize != "" {
		size, err := utils.ParseSize(c.PrefixSize)
		if err != nil {
			return fmt.Errorf("invalid prefix_size: %w", err)
		}
		if size == 0 {
			return fmt.Errorf("prefix_size must be positive")
		}
	}

	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}

	if c.Digest != "" {
		if _, err := scanner.ParseDigestAlgorithm(c.Digest); err != nil {
			return err
		}
	}

	switch c.Format {
	case "", "summary", "groups", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q (use summary, groups, json or yaml)", c.Format)
	}

	return nil
}

// ScannerOptions translates the configuration into engine options for the
// given root directory
func (c *Config) ScannerOptions(root string) (scanner.Options, error) {
	opts := scanner.Options{
		Root:            root,
		ExcludePatterns: c.ExcludePatterns,
		Workers:         c.Workers,
		Algorithm:       scanner.DigestAlgorithm(c.Digest),
	}

	if c.MinFileSize != "" {
		size, err := utils.ParseSize(c.MinFileSize)
		if err != nil {
			return opts, fmt.Errorf("invalid min_file_size: %w", err)
		}
		opts.MinFileSize = size
	}

	if c.PrefixSize != "" {
		size, err := utils.ParseSize(c.PrefixSize)
		if err != nil {
			return opts, fmt.Errorf("invalid prefix_size: %w", err)
		}
		opts.PrefixSize = size
	}

	return opts, nil
}

// GetConfigPath returns the default config path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(homeDir, ".config", "dupescan")
	return filepath.Join(configDir, "config.yaml"), nil
}
