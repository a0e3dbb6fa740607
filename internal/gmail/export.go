package gmail

import (
	"fmt"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/gvault/gvault/internal/vault"
)

// ThreadMessages fetches a full thread and converts its messages into the
// form the vault exporter consumes. Attachment metadata is always included;
// the attachment data itself is only downloaded when includeAttachments is
// true. Labels are passed through as raw Gmail label IDs, the exporter maps
// them to note tags.
func (c *Client) ThreadMessages(threadID string, includeAttachments bool) ([]vault.EmailMessage, error) {
	thread, err := c.GetThread(threadID)
	if err != nil {
		return nil, err
	}

	messages := make([]vault.EmailMessage, 0, len(thread.Messages))
	for _, msg := range thread.Messages {
		converted, err := c.toVaultMessage(msg, includeAttachments)
		if err != nil {
			return nil, err
		}
		messages = append(messages, converted)
	}

	return messages, nil
}

func (c *Client) toVaultMessage(msg *gmail.Message, includeAttachments bool) (vault.EmailMessage, error) {
	detail := toMessageDetail(msg)

	// Exported notes prefer the plain text body
	body := detail.BodyText
	if body == "" {
		body = detail.BodyHTML
	}

	converted := vault.EmailMessage{
		ID:       detail.ID,
		ThreadID: detail.ThreadID,
		From:     detail.From,
		To:       detail.To,
		Cc:       detail.Cc,
		Subject:  detail.Subject,
		Date:     detail.Date,
		Labels:   detail.Labels,
		Body:     body,
	}

	for _, att := range detail.Attachments {
		attachment := vault.EmailAttachment{
			Filename: SanitizeFilename(att.Filename),
			MimeType: att.MimeType,
			Size:     att.Size,
		}
		if includeAttachments {
			data, err := c.GetAttachment(msg.Id, att.AttachmentID)
			if err != nil {
				return vault.EmailMessage{}, fmt.Errorf("failed to download attachment %s: %w", att.Filename, err)
			}
			attachment.Data = data
		}
		converted.Attachments = append(converted.Attachments, attachment)
	}

	return converted, nil
}
