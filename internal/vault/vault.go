package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Vault is a markdown note vault rooted at a local directory.
type Vault struct {
	root string
}

// New opens a vault at root. The directory must already exist; gvault
// never creates a vault root on its own, only subdirectories within it.
func New(root string) (*Vault, error) {
	if root == "" {
		return nil, fmt.Errorf("vault root is required")
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("vault root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault root %s is not a directory", root)
	}

	return &Vault{root: root}, nil
}

// Root returns the vault root directory.
func (v *Vault) Root() string {
	return v.root
}

// DailyNotePath returns the absolute path of the daily note for date:
// <root>/daily/YYYY/YYYY-MM/YYYY-MM-DD.md.
func (v *Vault) DailyNotePath(date time.Time) string {
	return filepath.Join(v.root,
		"daily",
		date.Format("2006"),
		date.Format("2006-01"),
		date.Format("2006-01-02")+".md",
	)
}

// ReadDailyNote returns the content of the daily note for date.
// A missing note is an empty note, not an error.
func (v *Vault) ReadDailyNote(date time.Time) (string, error) {
	data, err := os.ReadFile(v.DailyNotePath(date))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read daily note: %w", err)
	}
	return string(data), nil
}

// WriteDailyNote writes the full content of the daily note for date,
// creating parent directories as needed.
func (v *Vault) WriteDailyNote(date time.Time, content string) error {
	path := v.DailyNotePath(date)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create daily note directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write daily note: %w", err)
	}
	return nil
}

// dateOnly truncates t to midnight in its own location. Bucketing and
// range iteration work at day granularity.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
