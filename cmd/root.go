package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gvault/gvault/internal/config"
	"github.com/gvault/gvault/internal/vault"
)

// rootCmd represents the base command for the gvault application
var rootCmd = &cobra.Command{
	Use:   "gvault",
	Short: "Google services CLI with markdown vault export",
	Long: `gvault gives you command-line access to Gmail, Google Calendar,
Google Tasks and Google Drive, and exports calendar events, tasks and
email threads into a markdown note vault. Daily note exports merge with
existing notes and preserve items you have already checked off.

It can run as:
  - A standalone CLI tool (default)
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
}

var (
	accountFlag string
	verbosity   int

	// cliConfig holds the loaded configuration file. Populated before any
	// subcommand runs; an absent file yields an empty configuration.
	cliConfig *config.Config
)

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "gvault version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&accountFlag, "account", "", "Google account name (default: config file default_account, else \"default\")")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		setupLogging(verbosity)

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cliConfig = cfg
		return nil
	}

	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newMailCmd())
	rootCmd.AddCommand(newCalendarCmd())
	rootCmd.AddCommand(newTaskCmd())
	rootCmd.AddCommand(newDriveCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}

// setupLogging configures the default slog logger. Logs go to stderr so
// that stdout stays reserved for command output.
func setupLogging(verbosity int) {
	level := slog.LevelWarn
	switch {
	case verbosity == 1:
		level = slog.LevelInfo
	case verbosity >= 2:
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// currentAccount resolves the account for this invocation: the --account
// flag, the config file default, or "default".
func currentAccount() string {
	return config.ResolveAccount(accountFlag, cliConfig)
}

// openVault resolves the vault root (per-command --vault flag, then
// GVAULT_ROOT, then the config file) and opens it. The root directory
// must exist.
func openVault(flagValue string) (*vault.Vault, error) {
	root := config.ResolveVaultRoot(flagValue, cliConfig)
	if root == "" {
		return nil, fmt.Errorf("no vault configured: pass --vault, set %s, or set vault_root in %s", config.VaultRootEnv, configPathHint())
	}
	return vault.New(root)
}

// noteTemplate returns the daily note template from the config file, or
// nil for the built-in one.
func noteTemplate() vault.NoteTemplate {
	if cliConfig != nil && cliConfig.NoteTemplate != "" {
		return vault.TemplateFromString(cliConfig.NoteTemplate)
	}
	return nil
}

func configPathHint() string {
	path, err := config.Path()
	if err != nil {
		return "the config file"
	}
	return path
}
