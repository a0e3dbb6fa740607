package vault

import (
	"testing"
)

func TestExtractSection(t *testing.T) {
	doc := "---\ndate: 2025-01-10\n---\n\n# 2025-01-10\n\n" +
		"## Calendar\n- [ ] 09:00-09:30 Standup @ Room A\n- [x] All day: Offsite\n\n" +
		"## Tasks\n\n### Today\n- [ ] Write report (due: 2025-01-10)\n\n" +
		"## Notes\nfree text\n"

	tests := []struct {
		name    string
		heading string
		want    string
	}{
		{
			name:    "middle section",
			heading: "Calendar",
			want:    "- [ ] 09:00-09:30 Standup @ Room A\n- [x] All day: Offsite",
		},
		{
			name:    "section with subheadings",
			heading: "Tasks",
			want:    "### Today\n- [ ] Write report (due: 2025-01-10)",
		},
		{
			name:    "last section",
			heading: "Notes",
			want:    "free text",
		},
		{
			name:    "absent section",
			heading: "Journal",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSection(doc, tt.heading)
			if got != tt.want {
				t.Errorf("ExtractSection(%q) = %q, want %q", tt.heading, got, tt.want)
			}
		})
	}
}

func TestExtractSection_HeadingVariants(t *testing.T) {
	// Trailing spaces on the heading line are tolerated; deeper headings
	// and mid-line matches are not section boundaries.
	doc := "## Calendar  \n- [ ] item\n### Calendar\nnot a boundary\ntext ## Calendar\n"
	got := ExtractSection(doc, "Calendar")
	want := "- [ ] item\n### Calendar\nnot a boundary\ntext ## Calendar"
	if got != want {
		t.Errorf("ExtractSection = %q, want %q", got, want)
	}

	if got := ExtractSection("## CalendarX\n- [ ] item\n", "Calendar"); got != "" {
		t.Errorf("expected no match for longer heading, got %q", got)
	}
}

func TestExtractSection_EmptyDoc(t *testing.T) {
	if got := ExtractSection("", "Calendar"); got != "" {
		t.Errorf("expected empty result for empty doc, got %q", got)
	}
}

func TestExtractSection_UnterminatedLastLine(t *testing.T) {
	// Section at EOF without a trailing newline.
	got := ExtractSection("# title\n\n## Calendar\n- [x] late item", "Calendar")
	if got != "- [x] late item" {
		t.Errorf("got %q", got)
	}
}

func TestParseCheckedItems_Events(t *testing.T) {
	section := "- [ ] 09:00-09:30 Standup @ Room A\n" +
		"- [x] 10:00-11:00 Design review\n" +
		"- [x] All day: Offsite @ Berlin\n" +
		"- No events scheduled\n" +
		"\n" +
		"### Subheading\n" +
		"random text\n"

	got := ParseCheckedItems(section, EventSignatureFromItem)

	want := map[Signature]bool{
		"09:00-09:30 Standup":       false,
		"10:00-11:00 Design review": true,
		"All day: Offsite":          true,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d items, want %d: %v", len(got), len(want), got)
	}
	for sig, state := range want {
		parsed, ok := got[sig]
		if !ok {
			t.Errorf("missing signature %q", sig)
			continue
		}
		if parsed != state {
			t.Errorf("signature %q: got checked=%v, want %v", sig, parsed, state)
		}
	}
}

func TestParseCheckedItems_Tasks(t *testing.T) {
	section := "### Today\n" +
		"- [x] Write report (due: 2025-01-10)\n" +
		"  carried-over note line\n" +
		"- [ ] Buy groceries\n"

	got := ParseCheckedItems(section, TaskSignatureFromItem)

	if len(got) != 2 {
		t.Fatalf("got %d items, want 2: %v", len(got), got)
	}
	if !got["Write report (due: 2025-01-10)"] {
		t.Error("expected checked state for task with due date")
	}
	if got["Buy groceries"] {
		t.Error("expected unchecked state for bare task")
	}
}

func TestParseCheckedItems_UppercaseXNotChecked(t *testing.T) {
	got := ParseCheckedItems("- [X] Shouty item\n", TaskSignatureFromItem)
	if len(got) != 0 {
		t.Errorf("uppercase X must not parse as a checklist item, got %v", got)
	}
}

func TestParseCheckedItems_DuplicateLastWins(t *testing.T) {
	section := "- [ ] Same item\n- [x] Same item\n"
	got := ParseCheckedItems(section, TaskSignatureFromItem)
	if !got["Same item"] {
		t.Error("last occurrence should win")
	}
}

func TestParseCheckedItems_IndentedLinesAreNotes(t *testing.T) {
	// Indented lines are notes continuations. A note that quotes a
	// checklist item must not leak its state onto the real item.
	section := "- [ ] Ship it\n" +
		"  - [x] Ship it\n" +
		"- [x] Prep release\n"

	got := ParseCheckedItems(section, TaskSignatureFromItem)

	if len(got) != 2 {
		t.Fatalf("got %d items, want 2: %v", len(got), got)
	}
	if got["Ship it"] {
		t.Error("top-level item must stay unchecked; the indented copy is a note")
	}
	if !got["Prep release"] {
		t.Error("expected checked state for the second item")
	}
}

func TestEventSignatureFromItem(t *testing.T) {
	tests := []struct {
		item string
		want Signature
	}{
		{"09:00-09:30 Standup @ Room A", "09:00-09:30 Standup"},
		{"09:00-09:30 Standup", "09:00-09:30 Standup"},
		{"All day: Offsite @ Berlin @ HQ", "All day: Offsite"},
		{"10:00-11:00 1:1 w/ Sam", "10:00-11:00 1:1 w/ Sam"},
	}
	for _, tt := range tests {
		if got := EventSignatureFromItem(tt.item); got != tt.want {
			t.Errorf("EventSignatureFromItem(%q) = %q, want %q", tt.item, got, tt.want)
		}
	}
}
