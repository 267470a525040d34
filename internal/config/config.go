// Package config loads editor configuration from a YAML file plus a local
// .env for provider credentials. Precedence: CLI flags > environment >
// config file > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config contains the editor configuration.
type Config struct {
	Verbose      bool   `yaml:"verbose"`
	OutputDir    string `yaml:"output_dir"`
	AudioFormat  string `yaml:"audio_format"`
	DiscogsToken string `yaml:"discogs_token"`
	WebAddr      string `yaml:"web_addr"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		AudioFormat: "mp3",
		OutputDir:   filepath.Join(homeDir(), "Music"),
		WebAddr:     "127.0.0.1:8175",
	}
}

// Load reads configuration from a YAML file, falling back to standard
// locations when path is empty and to defaults when no file exists. A .env
// file in the working directory and the process environment can supply the
// Discogs token without putting it in the config file.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	// Missing .env is the normal case.
	_ = godotenv.Load()

	if path == "" {
		path = FindConfigFile()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if token := os.Getenv("DISCOGS_TOKEN"); token != "" {
		cfg.DiscogsToken = token
	}
	cfg.OutputDir = ExpandHome(cfg.OutputDir)

	return cfg, nil
}

// FindConfigFile searches standard locations for a config file.
func FindConfigFile() string {
	home := homeDir()
	locations := []string{
		"./cueforge.yaml",
		"./cueforge.yml",
		filepath.Join(home, ".config", "cueforge", "config.yaml"),
		filepath.Join(home, ".config", "cueforge", "config.yml"),
	}

	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Save writes the configuration to a YAML file, creating directories as
// needed.
func Save(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfigPath returns where --init-config writes.
func DefaultConfigPath() string {
	return filepath.Join(homeDir(), ".config", "cueforge", "config.yaml")
}

// DefaultLogDir returns the default log directory.
func DefaultLogDir() string {
	return filepath.Join(homeDir(), ".local", "share", "cueforge", "logs")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	validFormats := []string{"mp3", "m4a", "flac", "wav", "opus", "copy"}
	valid := false
	for _, f := range validFormats {
		if c.AudioFormat == f {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unsupported audio format %q, valid formats: %v", c.AudioFormat, validFormats)
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}
	if c.WebAddr == "" {
		return fmt.Errorf("web_addr cannot be empty")
	}
	return nil
}
