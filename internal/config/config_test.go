package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "vault_root: /home/user/vault\ndefault_account: work\nnote_template: |\n  # {{date}}\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.VaultRoot != "/home/user/vault" {
		t.Errorf("VaultRoot = %q", cfg.VaultRoot)
	}
	if cfg.DefaultAccount != "work" {
		t.Errorf("DefaultAccount = %q", cfg.DefaultAccount)
	}
	if cfg.NoteTemplate != "# {{date}}\n" {
		t.Errorf("NoteTemplate = %q", cfg.NoteTemplate)
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if *cfg != (Config{}) {
		t.Errorf("missing file should yield empty config, got %+v", cfg)
	}
}

func TestLoadFrom_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("vault_root: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() should fail on malformed YAML")
	}
}

func TestResolveVaultRoot(t *testing.T) {
	cfg := &Config{VaultRoot: "/from/config"}

	t.Setenv(VaultRootEnv, "")
	if got := ResolveVaultRoot("/from/flag", cfg); got != "/from/flag" {
		t.Errorf("flag should win, got %q", got)
	}
	if got := ResolveVaultRoot("", cfg); got != "/from/config" {
		t.Errorf("config should be the fallback, got %q", got)
	}

	t.Setenv(VaultRootEnv, "/from/env")
	if got := ResolveVaultRoot("", cfg); got != "/from/env" {
		t.Errorf("env should beat config, got %q", got)
	}
	if got := ResolveVaultRoot("/from/flag", cfg); got != "/from/flag" {
		t.Errorf("flag should beat env, got %q", got)
	}

	t.Setenv(VaultRootEnv, "")
	if got := ResolveVaultRoot("", nil); got != "" {
		t.Errorf("unresolved root should be empty, got %q", got)
	}
}

func TestResolveAccount(t *testing.T) {
	cfg := &Config{DefaultAccount: "work"}

	if got := ResolveAccount("personal", cfg); got != "personal" {
		t.Errorf("flag should win, got %q", got)
	}
	if got := ResolveAccount("", cfg); got != "work" {
		t.Errorf("config should be the fallback, got %q", got)
	}
	if got := ResolveAccount("", nil); got != "default" {
		t.Errorf("default account expected, got %q", got)
	}
	if got := ResolveAccount("", &Config{}); got != "default" {
		t.Errorf("default account expected, got %q", got)
	}
}
