package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EmailAttachment is a file saved alongside an exported thread note.
type EmailAttachment struct {
	Filename string
	MimeType string
	Size     int64
	Data     []byte
}

// EmailMessage is one message of an exported Gmail thread.
type EmailMessage struct {
	ID          string
	ThreadID    string
	From        string
	To          string
	Cc          string
	Subject     string
	Date        time.Time
	Labels      []string
	Body        string
	Attachments []EmailAttachment
}

// emailFrontmatter is the YAML header of a thread note. It doubles as the
// append-mode index: message_ids records which messages the note already
// contains.
type emailFrontmatter struct {
	Subject      string                `yaml:"subject"`
	From         string                `yaml:"from"`
	To           string                `yaml:"to"`
	Cc           string                `yaml:"cc,omitempty"`
	Date         string                `yaml:"date"`
	ThreadID     string                `yaml:"thread_id"`
	MessageCount int                   `yaml:"message_count"`
	MessageIDs   []string              `yaml:"message_ids"`
	Tags         []string              `yaml:"tags"`
	Attachments  []emailAttachmentMeta `yaml:"attachments,omitempty"`
}

type emailAttachmentMeta struct {
	Filename string `yaml:"filename"`
	Size     int64  `yaml:"size"`
	MimeType string `yaml:"mime_type"`
}

// Gmail system labels that would be noise as note tags.
var skippedLabelTags = map[string]bool{
	"unread":              true,
	"inbox":               true,
	"sent":                true,
	"category-promotions": true,
	"category-updates":    true,
}

// EmailExporter writes Gmail threads into the vault's emails/ tree, one
// folder per thread holding the note and its attachments.
type EmailExporter struct {
	vault           *Vault
	saveAttachments bool
}

// NewEmailExporter returns an email exporter over v that saves
// attachments by default.
func NewEmailExporter(v *Vault) *EmailExporter {
	return &EmailExporter{vault: v, saveAttachments: true}
}

// SetSaveAttachments controls whether attachment data is written to the
// thread folder. Attachment wiki-links in the note are emitted either way.
func (e *EmailExporter) SetSaveAttachments(save bool) {
	e.saveAttachments = save
}

// ExportThread writes the messages of one thread to a thread folder and
// returns the note path. Re-exporting a thread appends only messages the
// note does not already contain; a thread with nothing new leaves the
// note untouched.
func (e *EmailExporter) ExportThread(messages []EmailMessage) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages to export")
	}

	first := messages[0]
	folderName := threadFolderName(first)
	dir := filepath.Join(e.vault.Root(), "emails", folderName)
	notePath := filepath.Join(dir, folderName+".md")

	existing := ""
	if data, err := os.ReadFile(notePath); err == nil {
		existing = string(data)
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read thread note: %w", err)
	}
	existingIDs := existingMessageIDs(existing)

	var fresh []EmailMessage
	for _, m := range messages {
		if !existingIDs[m.ID] {
			fresh = append(fresh, m)
		}
	}
	if existing != "" && len(fresh) == 0 {
		return notePath, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create thread folder: %w", err)
	}

	if e.saveAttachments {
		for _, m := range fresh {
			for _, att := range m.Attachments {
				if len(att.Data) == 0 {
					continue
				}
				path := filepath.Join(dir, filepath.Base(att.Filename))
				if err := os.WriteFile(path, att.Data, 0o644); err != nil {
					return "", fmt.Errorf("failed to save attachment %s: %w", att.Filename, err)
				}
			}
		}
	}

	header, err := buildEmailFrontmatter(messages)
	if err != nil {
		return "", err
	}

	var blocks []string
	for i, m := range messages {
		if existingIDs[m.ID] {
			continue
		}
		blocks = append(blocks, formatEmailMessage(m, i+1, len(messages)))
	}

	var content string
	if existing == "" {
		content = header + "\n\n" + strings.Join(blocks, "\n\n---\n\n")
	} else {
		body := stripEmailFrontmatter(existing)
		content = header + "\n\n" + strings.TrimRight(body, "\n") + "\n\n---\n\n" + strings.Join(blocks, "\n\n---\n\n")
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	if err := os.WriteFile(notePath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write thread note: %w", err)
	}
	return notePath, nil
}

// threadFolderName builds the thread folder name from the first message:
// a YYYY-MM-DD-HHMM stamp plus slugs of the sender address and subject.
// A message without a usable date falls back to the thread ID prefix.
func threadFolderName(first EmailMessage) string {
	stamp := first.Date.Format("2006-01-02-1504")
	if first.Date.IsZero() {
		stamp = first.ThreadID
		if len(stamp) > 16 {
			stamp = stamp[:16]
		}
	}
	return stamp + "-" + slugify(emailAddress(first.From)) + "-" + slugify(first.Subject)
}

// buildEmailFrontmatter renders the YAML header covering all messages of
// the thread, including ones already present in the note.
func buildEmailFrontmatter(messages []EmailMessage) (string, error) {
	first := messages[0]

	fm := emailFrontmatter{
		Subject:      first.Subject,
		From:         first.From,
		To:           first.To,
		Cc:           first.Cc,
		ThreadID:     first.ThreadID,
		MessageCount: len(messages),
		Tags:         []string{"email"},
	}
	if !first.Date.IsZero() {
		fm.Date = first.Date.Format(time.RFC3339)
	}

	seen := make(map[string]bool)
	for _, m := range messages {
		fm.MessageIDs = append(fm.MessageIDs, m.ID)
		for _, label := range m.Labels {
			tag := strings.ReplaceAll(strings.ToLower(label), "_", "-")
			if skippedLabelTags[tag] || seen[tag] {
				continue
			}
			seen[tag] = true
			fm.Tags = append(fm.Tags, "gmail/"+tag)
		}
		for _, att := range m.Attachments {
			fm.Attachments = append(fm.Attachments, emailAttachmentMeta{
				Filename: att.Filename,
				Size:     att.Size,
				MimeType: att.MimeType,
			})
		}
	}

	data, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("failed to marshal thread frontmatter: %w", err)
	}
	return "---\n" + string(data) + "---", nil
}

// formatEmailMessage renders one message block of the note.
func formatEmailMessage(m EmailMessage, index, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Message %d/%d\n\n", index, total)
	fmt.Fprintf(&b, "**From:** %s\n", m.From)
	fmt.Fprintf(&b, "**To:** %s\n", m.To)
	if m.Cc != "" {
		fmt.Fprintf(&b, "**CC:** %s\n", m.Cc)
	}
	if !m.Date.IsZero() {
		fmt.Fprintf(&b, "**Date:** %s\n", m.Date.Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "**Message ID:** `%s`\n", m.ID)

	if len(m.Attachments) > 0 {
		b.WriteString("\n**Attachments:**\n")
		for _, att := range m.Attachments {
			fmt.Fprintf(&b, "- [[%s]] (%.1f KB, %s)\n", att.Filename, float64(att.Size)/1024, att.MimeType)
		}
	}

	body := m.Body
	if body == "" {
		body = "(No content)"
	}
	b.WriteString("\n## Message Body\n\n")
	b.WriteString(body)

	return b.String()
}

// existingMessageIDs reads the message_ids list from the note's
// frontmatter. A note without parseable frontmatter contains no known
// messages.
func existingMessageIDs(content string) map[string]bool {
	ids := make(map[string]bool)
	block, ok := frontmatterBlock(content)
	if !ok {
		return ids
	}

	var fm emailFrontmatter
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return ids
	}
	for _, id := range fm.MessageIDs {
		ids[id] = true
	}
	return ids
}

// frontmatterBlock returns the YAML between the leading "---" fences.
func frontmatterBlock(content string) (string, bool) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t") != "---" {
		return "", false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == "---" {
			return strings.Join(lines[1:i], "\n"), true
		}
	}
	return "", false
}

// stripEmailFrontmatter removes the leading frontmatter fence so a fresh
// header can replace it on append.
func stripEmailFrontmatter(content string) string {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t") != "---" {
		return content
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == "---" {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}
	return content
}

// emailAddress extracts the address part of a From header, handling the
// "Name <addr>" form.
func emailAddress(from string) string {
	if i := strings.IndexByte(from, '<'); i >= 0 {
		if j := strings.IndexByte(from[i:], '>'); j > 0 {
			return from[i+1 : i+j]
		}
	}
	fields := strings.Fields(from)
	if len(fields) == 0 {
		return "unknown"
	}
	return fields[0]
}

// slugify lowercases s and collapses every run of non-alphanumeric
// characters into a single hyphen.
func slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
