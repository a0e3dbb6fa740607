package gmail

import (
	"net/mail"
	"strings"
	"time"

	gmail "google.golang.org/api/gmail/v1"
)

// ThreadSummary is a condensed view of a Gmail thread for listings.
// Subject, From and Date come from the first message in the thread.
type ThreadSummary struct {
	ID           string    `json:"id"`
	Subject      string    `json:"subject"`
	From         string    `json:"from"`
	Date         time.Time `json:"date,omitempty"`
	Snippet      string    `json:"snippet,omitempty"`
	Labels       []string  `json:"labels,omitempty"`
	MessageCount int       `json:"message_count"`
	MessageIDs   []string  `json:"message_ids"`
}

// MessageDetail is a fully expanded Gmail message including bodies and
// attachment metadata.
type MessageDetail struct {
	ID           string            `json:"id"`
	ThreadID     string            `json:"thread_id"`
	Subject      string            `json:"subject"`
	From         string            `json:"from"`
	To           string            `json:"to"`
	Cc           string            `json:"cc,omitempty"`
	Date         time.Time         `json:"date,omitempty"`
	Labels       []string          `json:"labels,omitempty"`
	Snippet      string            `json:"snippet,omitempty"`
	BodyText     string            `json:"body_text,omitempty"`
	BodyHTML     string            `json:"body_html,omitempty"`
	Attachments  []*AttachmentInfo `json:"attachments,omitempty"`
	SizeEstimate int64             `json:"size_estimate,omitempty"`
}

// HeaderValue extracts a header value from a Gmail message.
// Header names are matched case-insensitively per RFC 5322.
func HeaderValue(m *gmail.Message, header string) string {
	if m == nil || m.Payload == nil {
		return ""
	}
	for _, h := range m.Payload.Headers {
		if strings.EqualFold(h.Name, header) {
			return h.Value
		}
	}
	return ""
}

// parseMessageDate parses an RFC 5322 Date header value.
// Invalid or empty values yield the zero time rather than an error.
func parseMessageDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := mail.ParseDate(value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// subjectOrFallback returns the subject or a placeholder when empty.
func subjectOrFallback(subject string) string {
	if subject == "" {
		return "(No Subject)"
	}
	return subject
}

// toThreadSummary condenses a thread into its listing view.
// The thread must carry at least metadata-format messages.
func toThreadSummary(t *gmail.Thread) *ThreadSummary {
	s := &ThreadSummary{
		ID:           t.Id,
		Snippet:      t.Snippet,
		MessageCount: len(t.Messages),
		MessageIDs:   make([]string, 0, len(t.Messages)),
	}

	for _, m := range t.Messages {
		s.MessageIDs = append(s.MessageIDs, m.Id)
	}

	if len(t.Messages) == 0 {
		return s
	}

	first := t.Messages[0]
	s.Subject = subjectOrFallback(HeaderValue(first, "Subject"))
	s.From = HeaderValue(first, "From")
	s.Date = parseMessageDate(HeaderValue(first, "Date"))
	s.Labels = first.LabelIds
	if s.Snippet == "" {
		s.Snippet = first.Snippet
	}

	return s
}

// toMessageDetail expands a full-format message into its detail view,
// extracting text and HTML bodies and attachment metadata.
func toMessageDetail(m *gmail.Message) *MessageDetail {
	d := &MessageDetail{
		ID:           m.Id,
		ThreadID:     m.ThreadId,
		Subject:      subjectOrFallback(HeaderValue(m, "Subject")),
		From:         HeaderValue(m, "From"),
		To:           HeaderValue(m, "To"),
		Cc:           HeaderValue(m, "Cc"),
		Date:         parseMessageDate(HeaderValue(m, "Date")),
		Labels:       m.LabelIds,
		Snippet:      m.Snippet,
		SizeEstimate: m.SizeEstimate,
	}

	bodies := extractBodies(m.Payload)
	d.BodyText = bodies.text
	d.BodyHTML = bodies.html

	walkParts(m.Payload, func(part *gmail.MessagePart) {
		if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
			d.Attachments = append(d.Attachments, &AttachmentInfo{
				MessageID:    m.Id,
				PartID:       part.PartId,
				AttachmentID: part.Body.AttachmentId,
				Filename:     part.Filename,
				MimeType:     part.MimeType,
				Size:         part.Body.Size,
			})
		}
	})

	return d
}
