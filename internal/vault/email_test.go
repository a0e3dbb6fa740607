package vault

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"alice@example.com", "alice-example-com"},
		{"Re: [Urgent] Q1 plan!!!", "re-urgent-q1-plan"},
		{"already-slugged", "already-slugged"},
		{"___", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEmailAddress(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alice Smith <alice@example.com>", "alice@example.com"},
		{"bob@example.com", "bob@example.com"},
		{"<carol@example.com>", "carol@example.com"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		if got := emailAddress(tt.in); got != tt.want {
			t.Errorf("emailAddress(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestThreadFolderName(t *testing.T) {
	m := EmailMessage{
		ThreadID: "thread-abcdef1234567890",
		From:     "Alice Smith <alice@example.com>",
		Subject:  "Quarterly Report",
		Date:     mustTime(t, "2025-01-10 09:15"),
	}
	if got, want := threadFolderName(m), "2025-01-10-0915-alice-example-com-quarterly-report"; got != want {
		t.Errorf("threadFolderName = %q, want %q", got, want)
	}

	m.Date = time.Time{}
	if got, want := threadFolderName(m), "thread-abcdef123-alice-example-com-quarterly-report"; got != want {
		t.Errorf("zero-date threadFolderName = %q, want %q", got, want)
	}
}

func TestExportThread_NewNote(t *testing.T) {
	v := testVault(t)
	exp := NewEmailExporter(v)

	msg := EmailMessage{
		ID:       "msg-1",
		ThreadID: "thread-1",
		From:     "Alice <alice@example.com>",
		To:       "bob@example.com",
		Subject:  "Project kickoff",
		Date:     mustTime(t, "2025-01-10 09:15"),
		Labels:   []string{"INBOX", "IMPORTANT", "UNREAD"},
		Body:     "Let's start Monday.",
	}

	notePath, err := exp.ExportThread([]EmailMessage{msg})
	if err != nil {
		t.Fatalf("ExportThread: %v", err)
	}

	wantDir := filepath.Join(v.Root(), "emails", "2025-01-10-0915-alice-example-com-project-kickoff")
	if notePath != filepath.Join(wantDir, "2025-01-10-0915-alice-example-com-project-kickoff.md") {
		t.Fatalf("note path = %q", notePath)
	}

	data, err := os.ReadFile(notePath)
	if err != nil {
		t.Fatal(err)
	}
	note := string(data)

	for _, want := range []string{
		"subject: Project kickoff",
		"thread_id: thread-1",
		"message_count: 1",
		"- msg-1",
		"- email",
		"- gmail/important",
		"# Message 1/1",
		"**From:** Alice <alice@example.com>",
		"**To:** bob@example.com",
		"**Message ID:** `msg-1`",
		"## Message Body\n\nLet's start Monday.\n",
	} {
		if !strings.Contains(note, want) {
			t.Errorf("note missing %q:\n%s", want, note)
		}
	}
	for _, reject := range []string{"gmail/inbox", "gmail/unread", "**CC:**"} {
		if strings.Contains(note, reject) {
			t.Errorf("note should not contain %q:\n%s", reject, note)
		}
	}
	if !strings.HasSuffix(note, "\n") {
		t.Error("note must end with a newline")
	}
}

func TestExportThread_AppendsOnlyNewMessages(t *testing.T) {
	v := testVault(t)
	exp := NewEmailExporter(v)

	m1 := EmailMessage{
		ID:       "msg-1",
		ThreadID: "thread-1",
		From:     "alice@example.com",
		To:       "bob@example.com",
		Subject:  "Hello",
		Date:     mustTime(t, "2025-01-10 09:15"),
		Body:     "First message.",
	}
	m2 := m1
	m2.ID = "msg-2"
	m2.From, m2.To = m1.To, m1.From
	m2.Body = "Reply."

	if _, err := exp.ExportThread([]EmailMessage{m1}); err != nil {
		t.Fatal(err)
	}
	notePath, err := exp.ExportThread([]EmailMessage{m1, m2})
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(notePath)
	if err != nil {
		t.Fatal(err)
	}
	note := string(data)

	if !strings.Contains(note, "message_count: 2") {
		t.Errorf("frontmatter should cover the whole thread:\n%s", note)
	}
	if !strings.Contains(note, "- msg-1") || !strings.Contains(note, "- msg-2") {
		t.Errorf("frontmatter should index both messages:\n%s", note)
	}
	if strings.Count(note, "First message.") != 1 {
		t.Errorf("existing message must not be duplicated:\n%s", note)
	}
	if !strings.Contains(note, "Reply.") {
		t.Errorf("new message missing:\n%s", note)
	}
	if !strings.Contains(note, "\n\n---\n\n# Message 2/2") {
		t.Errorf("appended message should follow a separator:\n%s", note)
	}

	// Nothing new: the note stays byte-identical.
	if _, err := exp.ExportThread([]EmailMessage{m1, m2}); err != nil {
		t.Fatal(err)
	}
	after, err := os.ReadFile(notePath)
	if err != nil {
		t.Fatal(err)
	}
	if string(after) != note {
		t.Errorf("re-export without new messages changed the note")
	}
}

func TestExportThread_SavesAttachments(t *testing.T) {
	v := testVault(t)
	exp := NewEmailExporter(v)

	msg := EmailMessage{
		ID:       "msg-1",
		ThreadID: "thread-1",
		From:     "alice@example.com",
		To:       "bob@example.com",
		Subject:  "Report attached",
		Date:     mustTime(t, "2025-01-10 09:15"),
		Body:     "See attachment.",
		Attachments: []EmailAttachment{
			{Filename: "report.pdf", MimeType: "application/pdf", Size: 512, Data: []byte("%PDF-fake")},
		},
	}

	notePath, err := exp.ExportThread([]EmailMessage{msg})
	if err != nil {
		t.Fatal(err)
	}

	saved := filepath.Join(filepath.Dir(notePath), "report.pdf")
	data, err := os.ReadFile(saved)
	if err != nil {
		t.Fatalf("attachment not saved: %v", err)
	}
	if string(data) != "%PDF-fake" {
		t.Errorf("attachment content = %q", data)
	}

	noteData, err := os.ReadFile(notePath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(noteData), "- [[report.pdf]] (0.5 KB, application/pdf)") {
		t.Errorf("note missing attachment link:\n%s", noteData)
	}
}

func TestExportThread_AttachmentSavingDisabled(t *testing.T) {
	v := testVault(t)
	exp := NewEmailExporter(v)
	exp.SetSaveAttachments(false)

	msg := EmailMessage{
		ID:       "msg-1",
		ThreadID: "thread-1",
		From:     "alice@example.com",
		To:       "bob@example.com",
		Subject:  "Report attached",
		Date:     mustTime(t, "2025-01-10 09:15"),
		Attachments: []EmailAttachment{
			{Filename: "report.pdf", MimeType: "application/pdf", Size: 512, Data: []byte("%PDF-fake")},
		},
	}

	notePath, err := exp.ExportThread([]EmailMessage{msg})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(filepath.Dir(notePath), "report.pdf")); !os.IsNotExist(err) {
		t.Error("attachment file should not be written when saving is disabled")
	}

	noteData, err := os.ReadFile(notePath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(noteData), "- [[report.pdf]]") {
		t.Errorf("link should still be emitted:\n%s", noteData)
	}
}

func TestExportThread_NoMessages(t *testing.T) {
	if _, err := NewEmailExporter(testVault(t)).ExportThread(nil); err == nil {
		t.Error("expected error for empty thread")
	}
}

func TestExportThread_EmptyBodyPlaceholder(t *testing.T) {
	v := testVault(t)
	msg := EmailMessage{
		ID:       "msg-1",
		ThreadID: "thread-1",
		From:     "alice@example.com",
		To:       "bob@example.com",
		Subject:  "Empty",
		Date:     mustTime(t, "2025-01-10 09:15"),
	}

	notePath, err := NewEmailExporter(v).ExportThread([]EmailMessage{msg})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(notePath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "## Message Body\n\n(No content)\n") {
		t.Errorf("empty body should render a placeholder:\n%s", data)
	}
}
