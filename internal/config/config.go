package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const appDir = "tagview"

// Config holds all tagview configuration
type Config struct {
	DatabasePath string        `json:"database_path"`
	Seed         SeedConfig    `json:"seed"`
	Gmail        GmailConfig   `json:"gmail"`
	Display      DisplayConfig `json:"display"`
	LogFile      string        `json:"log_file"`
}

// SeedConfig points at the files loaded into an empty database on first run.
// Empty paths use the built-in starter tags and views and no messages.
type SeedConfig struct {
	Tags     string `json:"tags"`
	Views    string `json:"views"`
	Messages string `json:"messages"`
}

// GmailConfig controls the Gmail mail source
type GmailConfig struct {
	Enabled      bool   `json:"enabled"`
	Credentials  string `json:"credentials"`
	Token        string `json:"token"`
	MaxMessages  int64  `json:"max_messages"`
	Query        string `json:"query"`
	ImportLabels bool   `json:"import_labels"` // Add user labels to the registry on sync
}

// DisplayConfig holds column widths for the text renderer
type DisplayConfig struct {
	SenderWidth  int    `json:"sender_width"`
	SubjectWidth int    `json:"subject_width"`
	DateFormat   string `json:"date_format"` // Go layout; empty renders relative times
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		DatabasePath: DefaultDatabasePath(),
		Gmail: GmailConfig{
			MaxMessages:  100,
			ImportLabels: true,
		},
		Display: DisplayConfig{
			SenderWidth:  22,
			SubjectWidth: 48,
		},
	}
}

// LoadConfig loads configuration from file. A missing file yields defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
			}
		}
	}

	cfg.expandPaths()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database_path cannot be empty")
	}
	if c.Gmail.MaxMessages < 0 {
		return fmt.Errorf("gmail.max_messages cannot be negative")
	}
	if c.Display.SenderWidth < 0 || c.Display.SubjectWidth < 0 {
		return fmt.Errorf("display widths cannot be negative")
	}
	return nil
}

func (c *Config) expandPaths() {
	c.DatabasePath = ExpandPath(c.DatabasePath)
	c.Seed.Tags = ExpandPath(c.Seed.Tags)
	c.Seed.Views = ExpandPath(c.Seed.Views)
	c.Seed.Messages = ExpandPath(c.Seed.Messages)
	c.Gmail.Credentials = ExpandPath(c.Gmail.Credentials)
	c.Gmail.Token = ExpandPath(c.Gmail.Token)
	c.LogFile = ExpandPath(c.LogFile)
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appDir)
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.json")
}

// DefaultDatabasePath returns the default SQLite database path
func DefaultDatabasePath() string {
	dir := configDir()
	if dir == "" {
		return "tagview.db"
	}
	return filepath.Join(dir, "tagview.db")
}

// DefaultCredentialPaths returns the default paths for credentials and token
func DefaultCredentialPaths() (string, string) {
	dir := configDir()
	if dir == "" {
		return "", ""
	}
	return filepath.Join(dir, "credentials.json"), filepath.Join(dir, "token.json")
}

// DefaultLogDir returns the default log directory path
func DefaultLogDir() string {
	return configDir()
}

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return home
	}
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	return filepath.Join(home, path[2:])
}
