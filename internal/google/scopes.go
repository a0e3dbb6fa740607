package google

// DefaultOAuthScopes are the Google OAuth scopes gvault requests during
// the auth flow. They are used consistently for every OAuth
// configuration the application builds.
//
// The scopes provide access to:
//   - Gmail: full access (read, modify, send)
//   - Google Calendar: full access
//   - Google Tasks: full access
//   - Google Drive: full access
//   - Contacts: read-only
var DefaultOAuthScopes = []string{
	// Gmail scope (includes send)
	"https://mail.google.com/",

	// Google Calendar scope
	"https://www.googleapis.com/auth/calendar",

	// Google Tasks scope
	"https://www.googleapis.com/auth/tasks",

	// Google Drive scope
	"https://www.googleapis.com/auth/drive",

	// Contacts scope
	"https://www.googleapis.com/auth/contacts.readonly",
}
