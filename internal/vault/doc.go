// Package vault implements the markdown note vault that gvault exports
// Google Workspace data into.
//
// The vault is a plain directory tree. Daily notes live at
// daily/YYYY/YYYY-MM/YYYY-MM-DD.md and carry one managed section per
// entity type ("## Calendar", "## Tasks"). Exported email threads live
// under emails/, one folder per thread.
//
// # Smart merge
//
// Exports are re-runnable. Instead of overwriting a daily note, an export
// replaces only its own section and preserves the checked state of
// checklist items the user has ticked off by hand. Items are matched
// across runs by signature: a stable string derived from the remote
// item's identifying fields (time range and title for events, title and
// due date for tasks). An item whose signature survives keeps its
// checkbox; an item that disappeared from the remote side vanishes from
// the note; a renamed or rescheduled item counts as a new, unchecked one.
//
// All other note content - frontmatter, personal sections, stray text -
// is preserved byte for byte.
//
// # Example
//
//	v, err := vault.New("/home/user/notes")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	exp := vault.NewCalendarExporter(v)
//	path, err := exp.Export(date, events)
package vault
