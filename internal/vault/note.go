package vault

import (
	"strings"
	"time"
)

// NoteTemplate produces the skeleton of a brand-new daily note: the
// frontmatter and title that precede the first managed section. The
// returned text must end with a blank line; the section is appended
// directly after it.
type NoteTemplate func(date time.Time) string

// DailyNoteTemplate is the default skeleton: daily frontmatter plus an
// H1 title, both carrying the ISO date.
func DailyNoteTemplate(date time.Time) string {
	d := date.Format("2006-01-02")
	return "---\n" +
		"date: " + d + "\n" +
		"type: daily\n" +
		"tags:\n" +
		"  - daily\n" +
		"---\n\n" +
		"# " + d + "\n\n"
}

// TemplateFromString builds a NoteTemplate from a literal skeleton.
// Every "{{date}}" placeholder is replaced with the ISO date, and the
// result is normalized to end with a single blank line.
func TemplateFromString(skeleton string) NoteTemplate {
	return func(date time.Time) string {
		out := strings.ReplaceAll(skeleton, "{{date}}", date.Format("2006-01-02"))
		return strings.TrimRight(out, "\n") + "\n\n"
	}
}

// Merge places section (whose first line is "## "+heading) into existing
// note content and returns the full new document:
//
//   - empty or whitespace-only existing: a new document is produced from
//     the daily template followed by the section.
//   - heading present: the old section, from its heading line up to the
//     next "## " line or EOF, is replaced by the new one.
//   - heading absent: the section is appended after the existing content.
//
// Content outside the managed section survives byte for byte, and the
// result always ends with exactly one newline, so re-running a merge with
// unchanged input reproduces the file exactly.
func Merge(existing, section, heading string, date time.Time) string {
	return MergeWithTemplate(existing, section, heading, date, DailyNoteTemplate)
}

// MergeWithTemplate is Merge with a custom skeleton for new documents.
func MergeWithTemplate(existing, section, heading string, date time.Time, tmpl NoteTemplate) string {
	if tmpl == nil {
		tmpl = DailyNoteTemplate
	}

	if strings.TrimSpace(existing) == "" {
		return tmpl(date) + section + "\n"
	}

	start, end, found := sectionSpan(existing, heading)
	if !found {
		return strings.TrimRight(existing, " \t\r\n") + "\n\n" + section + "\n"
	}

	before, after := existing[:start], existing[end:]
	if after == "" {
		return before + section + "\n"
	}
	return before + section + "\n\n" + after
}
