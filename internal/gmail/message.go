package gmail

import (
	"encoding/base64"
	"fmt"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

const (
	// MaxAttachmentSize defines the maximum attachment size in bytes (25MB)
	MaxAttachmentSize = 25 * 1024 * 1024
)

// AttachmentInfo represents an attachment's metadata
type AttachmentInfo struct {
	MessageID    string `json:"message_id"`
	PartID       string `json:"part_id,omitempty"`
	AttachmentID string `json:"attachment_id"`
	Filename     string `json:"filename"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
}

// GetMessage retrieves a full Gmail message
func (c *Client) GetMessage(messageID string) (*gmail.Message, error) {
	msg, err := c.svc.Messages.Get("me", messageID).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return msg, nil
}

// GetMessageDetail retrieves a message and expands it into its detail view
// with decoded bodies and attachment metadata.
func (c *Client) GetMessageDetail(messageID string) (*MessageDetail, error) {
	msg, err := c.GetMessage(messageID)
	if err != nil {
		return nil, err
	}
	return toMessageDetail(msg), nil
}

// GetMessageBody extracts the text or HTML body from a message.
// Format must be "text" or "html"; an empty format defaults to "text".
func (c *Client) GetMessageBody(messageID string, format string) (string, error) {
	msg, err := c.GetMessage(messageID)
	if err != nil {
		return "", err
	}
	return c.extractBodyFromMessage(msg, format)
}

// extractBodyFromMessage pulls the body in the requested format out of an
// already fetched message. When the requested format is absent the other
// one is returned instead, since many senders emit HTML-only messages.
func (c *Client) extractBodyFromMessage(msg *gmail.Message, format string) (string, error) {
	if format == "" {
		format = "text"
	}
	if format != "text" && format != "html" {
		return "", fmt.Errorf("invalid format %s, must be 'text' or 'html'", format)
	}

	bodies := extractBodies(msg.Payload)

	body, fallback := bodies.text, bodies.html
	if format == "html" {
		body, fallback = bodies.html, bodies.text
	}
	if body == "" {
		body = fallback
	}
	if body == "" {
		return "", fmt.Errorf("unable to extract message body (tried text and html): message %s has no readable body part", msg.Id)
	}
	return body, nil
}

// ListAttachments extracts all attachments from a message
func (c *Client) ListAttachments(messageID string) ([]*AttachmentInfo, error) {
	msg, err := c.GetMessage(messageID)
	if err != nil {
		return nil, err
	}

	var attachments []*AttachmentInfo
	walkParts(msg.Payload, func(part *gmail.MessagePart) {
		if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
			attachments = append(attachments, &AttachmentInfo{
				MessageID:    messageID,
				PartID:       part.PartId,
				AttachmentID: part.Body.AttachmentId,
				Filename:     part.Filename,
				MimeType:     part.MimeType,
				Size:         part.Body.Size,
			})
		}
	})

	return attachments, nil
}

// GetAttachment retrieves the content of an attachment (returns []byte)
func (c *Client) GetAttachment(messageID, attachmentID string) ([]byte, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}
	if attachmentID == "" {
		return nil, fmt.Errorf("attachmentID is required")
	}

	attachment, err := c.svc.Messages.Attachments.Get("me", messageID, attachmentID).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment %s: %w", attachmentID, err)
	}

	// Check size limit
	if attachment.Size > MaxAttachmentSize {
		return nil, fmt.Errorf("attachment size %d exceeds maximum size %d", attachment.Size, MaxAttachmentSize)
	}

	data, err := decodeBase64URL(attachment.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode attachment data: %w", err)
	}

	return data, nil
}

// bodyParts accumulates the decoded text and HTML bodies of a message.
// Multipart messages may split a body across several parts.
type bodyParts struct {
	text string
	html string
}

// extractBodies walks the message payload and concatenates the decoded
// text/plain and text/html parts. Attachment parts are skipped.
func extractBodies(payload *gmail.MessagePart) bodyParts {
	var bodies bodyParts

	walkParts(payload, func(part *gmail.MessagePart) {
		if part.Filename != "" || part.Body == nil || part.Body.Data == "" {
			return
		}
		decoded, err := decodeBase64URL(part.Body.Data)
		if err != nil {
			return
		}
		switch part.MimeType {
		case "text/plain":
			bodies.text += string(decoded)
		case "text/html":
			bodies.html += string(decoded)
		}
	})

	return bodies
}

// walkParts recursively walks through message parts
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}

	fn(part)

	for _, subpart := range part.Parts {
		walkParts(subpart, fn)
	}
}

// decodeBase64URL decodes Gmail API body data, which uses RFC 4648
// base64url encoding. Some producers emit standard base64, so that is
// tried as a fallback.
func decodeBase64URL(data string) ([]byte, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(data)
}

// SanitizeFilename sanitizes a filename to prevent path traversal attacks
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.ReplaceAll(filename, "..", "_")
	return filename
}
