// Package google provides OAuth2 authentication and token management for
// the Google APIs used by gvault.
//
// Client credentials are read from the environment (GVAULT_CREDENTIALS_JSON
// or GVAULT_CREDENTIALS_FILE) and per-account tokens are cached under the
// user cache directory. The TokenProvider interface allows different token
// sources to be plugged in.
package google
