package vault

import (
	"strings"
	"testing"
)

func TestMerge_EmptyDocumentGetsSkeleton(t *testing.T) {
	date := day(t, "2025-01-10")
	section := "## Calendar\n- [ ] 09:00-09:30 Standup @ Room A"

	got := Merge("", section, CalendarHeading, date)
	want := "---\n" +
		"date: 2025-01-10\n" +
		"type: daily\n" +
		"tags:\n" +
		"  - daily\n" +
		"---\n" +
		"\n" +
		"# 2025-01-10\n" +
		"\n" +
		"## Calendar\n" +
		"- [ ] 09:00-09:30 Standup @ Room A\n"

	if got != want {
		t.Errorf("Merge into empty =\n%q\nwant:\n%q", got, want)
	}
}

func TestMerge_WhitespaceOnlyTreatedAsEmpty(t *testing.T) {
	date := day(t, "2025-01-10")
	got := Merge("\n\n  \n", "## Calendar\n- No events scheduled", CalendarHeading, date)
	if !strings.HasPrefix(got, "---\ndate: 2025-01-10\n") {
		t.Errorf("whitespace-only document should get the skeleton:\n%q", got)
	}
}

func TestMerge_ReplacesSectionBeforeAnother(t *testing.T) {
	existing := "---\ndate: 2025-01-10\n---\n\n# 2025-01-10\n\n" +
		"## Calendar\n- [x] 09:00-09:30 Old meeting\n\n" +
		"## Tasks\n\n### Today\n- [ ] Write report (due: 2025-01-10)\n"

	section := "## Calendar\n- [ ] 10:00-11:00 New meeting"
	got := Merge(existing, section, CalendarHeading, day(t, "2025-01-10"))

	want := "---\ndate: 2025-01-10\n---\n\n# 2025-01-10\n\n" +
		"## Calendar\n- [ ] 10:00-11:00 New meeting\n\n" +
		"## Tasks\n\n### Today\n- [ ] Write report (due: 2025-01-10)\n"

	if got != want {
		t.Errorf("Merge =\n%q\nwant:\n%q", got, want)
	}
}

func TestMerge_ReplacesLastSection(t *testing.T) {
	existing := "# 2025-01-10\n\n## Notes\nkeep me\n\n## Calendar\n- [ ] old\n"
	got := Merge(existing, "## Calendar\n- [ ] new", CalendarHeading, day(t, "2025-01-10"))
	want := "# 2025-01-10\n\n## Notes\nkeep me\n\n## Calendar\n- [ ] new\n"
	if got != want {
		t.Errorf("Merge =\n%q\nwant:\n%q", got, want)
	}
}

func TestMerge_AppendsWhenSectionAbsent(t *testing.T) {
	existing := "# My day\n\nsome journaling"
	got := Merge(existing, "## Tasks", TasksHeading, day(t, "2025-01-10"))
	want := "# My day\n\nsome journaling\n\n## Tasks\n"
	if got != want {
		t.Errorf("Merge =\n%q\nwant:\n%q", got, want)
	}
}

func TestMerge_PreservesUnrelatedContent(t *testing.T) {
	existing := "---\ndate: 2025-01-10\ncustom: value\n---\n\n# 2025-01-10\n\n" +
		"## Journal\nI wrote *this* by hand.\n\n" +
		"## Calendar\n- [ ] 09:00-09:30 Standup\n\n" +
		"## Scratch\n- random bullet\n  indented continuation\n"

	got := Merge(existing, "## Calendar\n- No events scheduled", CalendarHeading, day(t, "2025-01-10"))

	for _, fragment := range []string{
		"custom: value",
		"## Journal\nI wrote *this* by hand.",
		"## Scratch\n- random bullet\n  indented continuation\n",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("fragment %q lost during merge:\n%s", fragment, got)
		}
	}
	if strings.Contains(got, "09:00-09:30 Standup") {
		t.Error("old section content should be gone")
	}
}

func TestMerge_Idempotent(t *testing.T) {
	date := day(t, "2025-01-10")
	section := "## Calendar\n- [ ] 09:00-09:30 Standup @ Room A\n- [ ] All day: Offsite"

	once := Merge("", section, CalendarHeading, date)
	twice := Merge(once, section, CalendarHeading, date)
	if once != twice {
		t.Errorf("merge not idempotent:\nonce:\n%q\ntwice:\n%q", once, twice)
	}
}

func TestMergeWithTemplate_CustomSkeleton(t *testing.T) {
	tmpl := TemplateFromString("---\ndate: {{date}}\ntype: standup\n---\n\n# Standup {{date}}\n")
	got := MergeWithTemplate("", "## Calendar\n- No events scheduled", CalendarHeading, day(t, "2025-01-10"), tmpl)
	want := "---\ndate: 2025-01-10\ntype: standup\n---\n\n# Standup 2025-01-10\n\n## Calendar\n- No events scheduled\n"
	if got != want {
		t.Errorf("custom template merge =\n%q\nwant:\n%q", got, want)
	}
}

func TestTemplateFromString_NormalizesTrailingBlank(t *testing.T) {
	tmpl := TemplateFromString("# {{date}}\n\n\n\n")
	got := tmpl(day(t, "2025-01-10"))
	if got != "# 2025-01-10\n\n" {
		t.Errorf("template output = %q", got)
	}
}
