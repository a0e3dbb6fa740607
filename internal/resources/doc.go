// Package resources provides the MCP resources served alongside the
// tools: vault://daily/today exposes the current daily note and
// user://profile the Gmail profile of the default account.
package resources
