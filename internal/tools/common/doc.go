// Package common holds the helpers shared by all MCP tool packages:
// account resolution, date-range argument parsing, JSON tool results,
// and the instrumentation wrapper applied to every handler.
package common
