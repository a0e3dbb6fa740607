package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/gvault/gvault/internal/calendar"
	"github.com/gvault/gvault/internal/drive"
	"github.com/gvault/gvault/internal/gmail"
	"github.com/gvault/gvault/internal/google"
	"github.com/gvault/gvault/internal/instrumentation"
	"github.com/gvault/gvault/internal/logging"
	"github.com/gvault/gvault/internal/tasks"
	"github.com/gvault/gvault/internal/vault"
)

// Config configures a ServerContext.
type Config struct {
	// ReadOnly disables every tool that mutates Google services.
	ReadOnly bool

	// VaultRoot is the note vault directory used by the export tools and
	// the vault resources. Empty leaves the server without a vault; tools
	// that need one return an error explaining how to configure it.
	VaultRoot string

	// NoteTemplate renders the skeleton for brand-new daily notes.
	// Nil selects the built-in template.
	NoteTemplate vault.NoteTemplate

	// TokenProvider supplies OAuth tokens for Google API clients.
	// Nil falls back to the token files under the user cache directory.
	TokenProvider google.TokenProvider

	// Instrumentation provides metrics and tracing. Nil or disabled
	// leaves tool handlers uninstrumented.
	Instrumentation *instrumentation.Provider

	// AuditLogger records tool invocations for audit purposes.
	AuditLogger *instrumentation.AuditLogger

	// Logger receives server diagnostics. Nil falls back to slog.Default.
	Logger logging.Logger
}

// ServerContext holds the shared state of the MCP server: one lazily
// created Google API client per (service, account) pair, the vault
// configuration, and the optional instrumentation hooks.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	gmailClients    map[string]*gmail.Client
	calendarClients map[string]*calendar.Client
	tasksClients    map[string]*tasks.Client
	driveClients    map[string]*drive.Client

	tokenProvider google.TokenProvider

	readOnly     bool
	vaultRoot    string
	noteTemplate vault.NoteTemplate

	instrumentation *instrumentation.Provider
	metrics         *instrumentation.Metrics
	auditLogger     *instrumentation.AuditLogger
	logger          logging.Logger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context. Clients are not created
// up front; each is built on first use for its account so that the
// server can start before any account is authenticated.
func NewServerContext(ctx context.Context, config Config) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	logger := config.Logger
	if logger == nil {
		logger = logging.NewSlogAdapter(slog.Default())
	}

	var metrics *instrumentation.Metrics
	if config.Instrumentation != nil {
		metrics = config.Instrumentation.Metrics()
	}

	return &ServerContext{
		ctx:             shutdownCtx,
		cancel:          cancel,
		gmailClients:    make(map[string]*gmail.Client),
		calendarClients: make(map[string]*calendar.Client),
		tasksClients:    make(map[string]*tasks.Client),
		driveClients:    make(map[string]*drive.Client),
		tokenProvider:   config.TokenProvider,
		readOnly:        config.ReadOnly,
		vaultRoot:       config.VaultRoot,
		noteTemplate:    config.NoteTemplate,
		instrumentation: config.Instrumentation,
		metrics:         metrics,
		auditLogger:     config.AuditLogger,
		logger:          logger,
	}, nil
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// GmailClientForAccount returns the Gmail client for a specific account,
// creating and caching it on first use. Returns an error with
// authentication instructions if the account has no token.
func (sc *ServerContext) GmailClientForAccount(account string) (*gmail.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.gmailClients[account]; ok {
		return client, nil
	}

	if !sc.hasToken(account) {
		return nil, errors.New(google.GetAuthenticationErrorMessage(account))
	}

	var client *gmail.Client
	var err error
	if sc.tokenProvider != nil {
		client, err = gmail.NewClientForAccountWithProvider(sc.ctx, account, sc.tokenProvider)
	} else {
		client, err = gmail.NewClientForAccount(sc.ctx, account)
	}
	if err != nil {
		sc.logger.Warn("failed to create Gmail client", logging.Service(instrumentation.ServiceGmail), logging.Account(account), logging.Err(err))
		sc.recordAuth(instrumentation.OAuthResultFailure)
		return nil, err
	}

	sc.recordAuth(instrumentation.OAuthResultSuccess)
	sc.gmailClients[account] = client
	return client, nil
}

// GmailClient returns the Gmail client for the default account.
func (sc *ServerContext) GmailClient() (*gmail.Client, error) {
	return sc.GmailClientForAccount(google.DefaultAccount)
}

// SetGmailClientForAccount sets the Gmail client for a specific account.
func (sc *ServerContext) SetGmailClientForAccount(account string, client *gmail.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.gmailClients[account] = client
}

// CalendarClientForAccount returns the Calendar client for a specific
// account, creating and caching it on first use. Returns an error with
// authentication instructions if the account has no token.
func (sc *ServerContext) CalendarClientForAccount(account string) (*calendar.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.calendarClients[account]; ok {
		return client, nil
	}

	if !sc.hasToken(account) {
		return nil, errors.New(google.GetAuthenticationErrorMessage(account))
	}

	var client *calendar.Client
	var err error
	if sc.tokenProvider != nil {
		client, err = calendar.NewClientForAccountWithProvider(sc.ctx, account, sc.tokenProvider)
	} else {
		client, err = calendar.NewClientForAccount(sc.ctx, account)
	}
	if err != nil {
		sc.logger.Warn("failed to create Calendar client", logging.Service(instrumentation.ServiceCalendar), logging.Account(account), logging.Err(err))
		sc.recordAuth(instrumentation.OAuthResultFailure)
		return nil, err
	}

	sc.recordAuth(instrumentation.OAuthResultSuccess)
	sc.calendarClients[account] = client
	return client, nil
}

// CalendarClient returns the Calendar client for the default account.
func (sc *ServerContext) CalendarClient() (*calendar.Client, error) {
	return sc.CalendarClientForAccount(google.DefaultAccount)
}

// SetCalendarClientForAccount sets the Calendar client for a specific account.
func (sc *ServerContext) SetCalendarClientForAccount(account string, client *calendar.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.calendarClients[account] = client
}

// TasksClientForAccount returns the Tasks client for a specific account,
// creating and caching it on first use. Returns an error with
// authentication instructions if the account has no token.
func (sc *ServerContext) TasksClientForAccount(account string) (*tasks.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.tasksClients[account]; ok {
		return client, nil
	}

	if !sc.hasToken(account) {
		return nil, errors.New(google.GetAuthenticationErrorMessage(account))
	}

	var client *tasks.Client
	var err error
	if sc.tokenProvider != nil {
		client, err = tasks.NewClientForAccountWithProvider(sc.ctx, account, sc.tokenProvider)
	} else {
		client, err = tasks.NewClientForAccount(sc.ctx, account)
	}
	if err != nil {
		sc.logger.Warn("failed to create Tasks client", logging.Service(instrumentation.ServiceTasks), logging.Account(account), logging.Err(err))
		sc.recordAuth(instrumentation.OAuthResultFailure)
		return nil, err
	}

	sc.recordAuth(instrumentation.OAuthResultSuccess)
	sc.tasksClients[account] = client
	return client, nil
}

// TasksClient returns the Tasks client for the default account.
func (sc *ServerContext) TasksClient() (*tasks.Client, error) {
	return sc.TasksClientForAccount(google.DefaultAccount)
}

// SetTasksClientForAccount sets the Tasks client for a specific account.
func (sc *ServerContext) SetTasksClientForAccount(account string, client *tasks.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.tasksClients[account] = client
}

// DriveClientForAccount returns the Drive client for a specific account,
// creating and caching it on first use. Returns an error with
// authentication instructions if the account has no token.
func (sc *ServerContext) DriveClientForAccount(account string) (*drive.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.driveClients[account]; ok {
		return client, nil
	}

	if !sc.hasToken(account) {
		return nil, errors.New(google.GetAuthenticationErrorMessage(account))
	}

	var client *drive.Client
	var err error
	if sc.tokenProvider != nil {
		client, err = drive.NewClientForAccountWithProvider(sc.ctx, account, sc.tokenProvider)
	} else {
		client, err = drive.NewClientForAccount(sc.ctx, account)
	}
	if err != nil {
		sc.logger.Warn("failed to create Drive client", logging.Service(instrumentation.ServiceDrive), logging.Account(account), logging.Err(err))
		sc.recordAuth(instrumentation.OAuthResultFailure)
		return nil, err
	}

	sc.recordAuth(instrumentation.OAuthResultSuccess)
	sc.driveClients[account] = client
	return client, nil
}

// DriveClient returns the Drive client for the default account.
func (sc *ServerContext) DriveClient() (*drive.Client, error) {
	return sc.DriveClientForAccount(google.DefaultAccount)
}

// SetDriveClientForAccount sets the Drive client for a specific account.
func (sc *ServerContext) SetDriveClientForAccount(account string, client *drive.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.driveClients[account] = client
}

// hasToken reports whether a token exists for the account, consulting
// the configured token provider when one is set. Callers must hold sc.mu.
func (sc *ServerContext) hasToken(account string) bool {
	if sc.tokenProvider != nil {
		return sc.tokenProvider.HasTokenForAccount(account)
	}
	return google.HasTokenForAccount(account)
}

func (sc *ServerContext) recordAuth(result string) {
	if sc.metrics != nil {
		sc.metrics.RecordOAuthAuth(sc.ctx, result)
	}
}

// ReadOnly reports whether mutating tools are disabled.
func (sc *ServerContext) ReadOnly() bool {
	return sc.readOnly
}

// Vault opens the note vault the export tools write to. Returns an
// error when no vault root is configured or the directory is missing.
func (sc *ServerContext) Vault() (*vault.Vault, error) {
	sc.mu.RLock()
	root := sc.vaultRoot
	sc.mu.RUnlock()

	if root == "" {
		return nil, errors.New("no vault configured: start the server with --vault, set GVAULT_ROOT, or set vault_root in the config file")
	}
	return vault.New(root)
}

// VaultRoot returns the configured vault root, which may be empty.
func (sc *ServerContext) VaultRoot() string {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.vaultRoot
}

// SetVaultRoot replaces the vault root.
func (sc *ServerContext) SetVaultRoot(root string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.vaultRoot = root
}

// NoteTemplate returns the configured daily note template, or nil when
// the built-in template should be used.
func (sc *ServerContext) NoteTemplate() vault.NoteTemplate {
	return sc.noteTemplate
}

// Metrics returns the metrics recorder, or nil when instrumentation is
// not configured.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics replaces the metrics recorder.
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// AuditLogger returns the audit logger, or nil when audit logging is
// not configured.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger replaces the audit logger.
func (sc *ServerContext) SetAuditLogger(logger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = logger
}

// Logger returns the server logger. Never nil.
func (sc *ServerContext) Logger() logging.Logger {
	return sc.logger
}

// IsShutdown returns whether the server has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
