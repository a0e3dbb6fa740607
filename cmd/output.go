package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// printJSON writes v as indented JSON to stdout.
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// validateFormat checks a --format value.
func validateFormat(format string) error {
	if format != "json" && format != "text" {
		return fmt.Errorf("invalid format %q, must be 'json' or 'text'", format)
	}
	return nil
}

// truncate shortens s to at most n characters for table columns.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// formatSize renders a byte count in human readable units.
func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGT"[exp])
}

// confirmf prompts on stderr and reads a yes/no answer from stdin.
// Anything other than y or yes declines.
func confirmf(format string, args ...interface{}) bool {
	fmt.Fprintf(os.Stderr, format+" [y/N]: ", args...)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
