// Package config loads the gvault configuration file.
//
// The file lives at <user config dir>/gvault/config.yaml and supplies
// defaults that command-line flags and environment variables override.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// VaultRootEnv overrides the configured vault root.
const VaultRootEnv = "GVAULT_ROOT"

// Config is the on-disk configuration.
type Config struct {
	// VaultRoot is the directory of the markdown vault exports are
	// written into.
	VaultRoot string `yaml:"vault_root,omitempty"`

	// DefaultAccount is used when --account is not given.
	DefaultAccount string `yaml:"default_account,omitempty"`

	// NoteTemplate is the skeleton for brand-new daily notes. The
	// {{date}} placeholder is replaced with the note's date.
	NoteTemplate string `yaml:"note_template,omitempty"`
}

// Path returns the location of the configuration file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, "gvault", "config.yaml"), nil
}

// Load reads the configuration file. A missing file is not an error and
// yields an empty configuration.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// ResolveVaultRoot returns the vault root with precedence: explicit
// flag value, GVAULT_ROOT environment variable, config file. Empty
// means unresolved.
func ResolveVaultRoot(flagValue string, cfg *Config) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(VaultRootEnv); env != "" {
		return env
	}
	if cfg != nil {
		return cfg.VaultRoot
	}
	return ""
}

// ResolveAccount returns the account with precedence: explicit flag
// value, config file, the literal "default".
func ResolveAccount(flagValue string, cfg *Config) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg != nil && cfg.DefaultAccount != "" {
		return cfg.DefaultAccount
	}
	return "default"
}
