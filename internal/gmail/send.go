package gmail

import (
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

// EmailMessage represents an email to be sent
type EmailMessage struct {
	To      []string
	Cc      []string
	Bcc     []string
	Subject string
	Body    string
	IsHTML  bool
}

// SendEmail sends an email through the Gmail API and returns the ID of
// the sent message. The user's Gmail signature is appended to the body.
func (c *Client) SendEmail(msg *EmailMessage) (string, error) {
	if len(msg.To) == 0 {
		return "", fmt.Errorf("at least one recipient is required")
	}
	if msg.Subject == "" {
		return "", fmt.Errorf("subject is required")
	}
	if msg.Body == "" {
		return "", fmt.Errorf("body is required")
	}

	// Build the message in RFC 2822 format
	var b strings.Builder

	b.WriteString("To: ")
	b.WriteString(strings.Join(msg.To, ", "))
	b.WriteString("\r\n")

	if len(msg.Cc) > 0 {
		b.WriteString("Cc: ")
		b.WriteString(strings.Join(msg.Cc, ", "))
		b.WriteString("\r\n")
	}

	if len(msg.Bcc) > 0 {
		b.WriteString("Bcc: ")
		b.WriteString(strings.Join(msg.Bcc, ", "))
		b.WriteString("\r\n")
	}

	// Encode the subject for non-ASCII characters like umlauts
	b.WriteString("Subject: ")
	b.WriteString(encodeRFC2047(msg.Subject))
	b.WriteString("\r\n")

	if msg.IsHTML {
		b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	} else {
		b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	}
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("\r\n")

	b.WriteString(c.appendSignature(msg.Body, msg.IsHTML))

	// The Gmail API expects the raw message in base64url format
	gmailMsg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(b.String())),
	}

	sent, err := c.svc.Messages.Send("me", gmailMsg).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	return sent.Id, nil
}

// GetSignature fetches the user's Gmail signature (primary send-as address).
// The signature is cached after the first fetch.
func (c *Client) GetSignature() (string, error) {
	if c.signature != "" {
		return c.signature, nil
	}

	// If the signature cannot be fetched the email is sent without one,
	// so lookup failures are not treated as errors
	sendAs, err := c.svc.Settings.SendAs.Get("me", "me").Do()
	if err != nil {
		return "", nil
	}

	if sendAs.Signature != "" {
		c.signature = sendAs.Signature
	}

	return c.signature, nil
}

// appendSignature adds the user's signature to the email body
func (c *Client) appendSignature(body string, isHTML bool) string {
	signature, err := c.GetSignature()
	if err != nil || signature == "" {
		return body
	}

	if isHTML {
		return body + "<br><br>-- <br>" + signature
	}

	return body + "\n\n-- \n" + signature
}

// encodeRFC2047 encodes a string for use in email headers according to
// RFC 2047. ASCII-only strings are returned unchanged.
func encodeRFC2047(s string) string {
	needsEncoding := false
	for _, r := range s {
		if r > 127 {
			needsEncoding = true
			break
		}
	}
	if !needsEncoding {
		return s
	}

	return mime.BEncoding.Encode("UTF-8", s)
}
