package gmail

import (
	"encoding/base64"
	"strings"
	"testing"

	gmail "google.golang.org/api/gmail/v1"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{
			name:     "normal filename",
			filename: "document.pdf",
			want:     "document.pdf",
		},
		{
			name:     "filename with forward slash",
			filename: "path/to/document.pdf",
			want:     "path_to_document.pdf",
		},
		{
			name:     "filename with backslash",
			filename: "path\\to\\document.pdf",
			want:     "path_to_document.pdf",
		},
		{
			name:     "filename with parent directory",
			filename: "../../../etc/passwd",
			want:     "______etc_passwd",
		},
		{
			name:     "filename with mixed separators",
			filename: "../path\\to/document.pdf",
			want:     "__path_to_document.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.filename); got != tt.want {
				t.Errorf("SanitizeFilename() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWalkParts(t *testing.T) {
	tests := []struct {
		name          string
		part          *gmail.MessagePart
		expectedParts int
	}{
		{
			name: "single part",
			part: &gmail.MessagePart{
				PartId:   "0",
				MimeType: "text/plain",
			},
			expectedParts: 1,
		},
		{
			name: "nested parts",
			part: &gmail.MessagePart{
				PartId:   "0",
				MimeType: "multipart/mixed",
				Parts: []*gmail.MessagePart{
					{
						PartId:   "0.0",
						MimeType: "text/plain",
					},
					{
						PartId:   "0.1",
						MimeType: "text/html",
					},
				},
			},
			expectedParts: 3, // parent + 2 children
		},
		{
			name: "deeply nested parts",
			part: &gmail.MessagePart{
				PartId:   "0",
				MimeType: "multipart/mixed",
				Parts: []*gmail.MessagePart{
					{
						PartId:   "0.0",
						MimeType: "multipart/alternative",
						Parts: []*gmail.MessagePart{
							{
								PartId:   "0.0.0",
								MimeType: "text/plain",
							},
							{
								PartId:   "0.0.1",
								MimeType: "text/html",
							},
						},
					},
					{
						PartId:   "0.1",
						MimeType: "application/pdf",
					},
				},
			},
			expectedParts: 5, // parent + 2 children + 2 grandchildren
		},
		{
			name:          "nil part",
			part:          nil,
			expectedParts: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count := 0
			walkParts(tt.part, func(part *gmail.MessagePart) {
				count++
			})

			if count != tt.expectedParts {
				t.Errorf("walkParts() visited %d parts, want %d", count, tt.expectedParts)
			}
		})
	}
}

func TestListAttachments_Parsing(t *testing.T) {
	tests := []struct {
		name         string
		payload      *gmail.MessagePart
		wantCount    int
		wantFilename string
	}{
		{
			name: "message with single attachment",
			payload: &gmail.MessagePart{
				PartId:   "1",
				Filename: "document.pdf",
				MimeType: "application/pdf",
				Body: &gmail.MessagePartBody{
					AttachmentId: "att123",
					Size:         1024,
				},
			},
			wantCount:    1,
			wantFilename: "document.pdf",
		},
		{
			name: "message with no attachments",
			payload: &gmail.MessagePart{
				PartId:   "0",
				MimeType: "text/plain",
				Body: &gmail.MessagePartBody{
					Data: base64.URLEncoding.EncodeToString([]byte("Hello")),
				},
			},
			wantCount: 0,
		},
		{
			name: "message with multiple attachments",
			payload: &gmail.MessagePart{
				PartId:   "0",
				MimeType: "multipart/mixed",
				Parts: []*gmail.MessagePart{
					{
						PartId:   "0.0",
						MimeType: "text/plain",
						Body: &gmail.MessagePartBody{
							Data: base64.URLEncoding.EncodeToString([]byte("Body text")),
						},
					},
					{
						PartId:   "0.1",
						Filename: "image.png",
						MimeType: "image/png",
						Body: &gmail.MessagePartBody{
							AttachmentId: "att456",
							Size:         2048,
						},
					},
					{
						PartId:   "0.2",
						Filename: "document.pdf",
						MimeType: "application/pdf",
						Body: &gmail.MessagePartBody{
							AttachmentId: "att789",
							Size:         3072,
						},
					},
				},
			},
			wantCount: 2,
		},
		{
			name: "message with nested attachments",
			payload: &gmail.MessagePart{
				PartId:   "0",
				MimeType: "multipart/mixed",
				Parts: []*gmail.MessagePart{
					{
						PartId:   "0.0",
						MimeType: "multipart/alternative",
						Parts: []*gmail.MessagePart{
							{
								PartId:   "0.0.0",
								MimeType: "text/plain",
								Body: &gmail.MessagePartBody{
									Data: base64.URLEncoding.EncodeToString([]byte("Text")),
								},
							},
						},
					},
					{
						PartId:   "0.1",
						Filename: "file.txt",
						MimeType: "text/plain",
						Body: &gmail.MessagePartBody{
							AttachmentId: "att999",
							Size:         512,
						},
					},
				},
			},
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attachments []*AttachmentInfo
			walkParts(tt.payload, func(part *gmail.MessagePart) {
				if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
					attachments = append(attachments, &AttachmentInfo{
						MessageID:    "test-msg-id",
						PartID:       part.PartId,
						AttachmentID: part.Body.AttachmentId,
						Filename:     part.Filename,
						MimeType:     part.MimeType,
						Size:         part.Body.Size,
					})
				}
			})

			if len(attachments) != tt.wantCount {
				t.Errorf("found %d attachments, want %d", len(attachments), tt.wantCount)
			}

			if tt.wantCount > 0 && tt.wantFilename != "" {
				if attachments[0].Filename != tt.wantFilename {
					t.Errorf("first attachment filename = %v, want %v", attachments[0].Filename, tt.wantFilename)
				}
			}
		})
	}
}

func TestGetAttachment_Validation(t *testing.T) {
	tests := []struct {
		name         string
		messageID    string
		attachmentID string
		errContains  string
	}{
		{
			name:         "empty messageID",
			messageID:    "",
			attachmentID: "att123",
			errContains:  "messageID is required",
		},
		{
			name:         "empty attachmentID",
			messageID:    "msg123",
			attachmentID: "",
			errContains:  "attachmentID is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{}

			_, err := c.GetAttachment(tt.messageID, tt.attachmentID)
			if err == nil {
				t.Fatal("GetAttachment() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("GetAttachment() error = %v, should contain %v", err, tt.errContains)
			}
		})
	}
}

func TestMaxAttachmentSize(t *testing.T) {
	const expectedSize = 25 * 1024 * 1024 // 25MB

	if MaxAttachmentSize != expectedSize {
		t.Errorf("MaxAttachmentSize = %d, want %d", MaxAttachmentSize, expectedSize)
	}
}

func TestDecodeBase64URL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "url base64",
			input: base64.URLEncoding.EncodeToString([]byte("Hello, World!")),
			want:  "Hello, World!",
		},
		{
			name:  "standard base64 fallback",
			input: base64.StdEncoding.EncodeToString([]byte("Special: !@#$%^&*()")),
			want:  "Special: !@#$%^&*()",
		},
		{
			name:    "invalid data",
			input:   "not base64 at all!!!",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := decodeBase64URL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("decodeBase64URL() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && string(decoded) != tt.want {
				t.Errorf("decodeBase64URL() = %v, want %v", string(decoded), tt.want)
			}
		})
	}
}

func TestExtractBodies(t *testing.T) {
	payload := &gmail.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmail.MessagePart{
			{
				MimeType: "text/plain",
				Body: &gmail.MessagePartBody{
					Data: base64.URLEncoding.EncodeToString([]byte("Part one. ")),
				},
			},
			{
				MimeType: "text/plain",
				Body: &gmail.MessagePartBody{
					Data: base64.URLEncoding.EncodeToString([]byte("Part two.")),
				},
			},
			{
				MimeType: "text/html",
				Body: &gmail.MessagePartBody{
					Data: base64.URLEncoding.EncodeToString([]byte("<p>HTML part</p>")),
				},
			},
			{
				// Attachment parts carry a filename and must not leak
				// into the body
				Filename: "report.txt",
				MimeType: "text/plain",
				Body: &gmail.MessagePartBody{
					Data: base64.URLEncoding.EncodeToString([]byte("attachment content")),
				},
			},
		},
	}

	bodies := extractBodies(payload)

	if bodies.text != "Part one. Part two." {
		t.Errorf("text body = %q, want %q", bodies.text, "Part one. Part two.")
	}
	if bodies.html != "<p>HTML part</p>" {
		t.Errorf("html body = %q, want %q", bodies.html, "<p>HTML part</p>")
	}
}

func TestExtractBodyFromMessage(t *testing.T) {
	client := &Client{}

	tests := []struct {
		name    string
		message *gmail.Message
		format  string
		want    string
		wantErr bool
	}{
		{
			name: "simple text message",
			message: &gmail.Message{
				Id: "msg123",
				Payload: &gmail.MessagePart{
					MimeType: "text/plain",
					Body: &gmail.MessagePartBody{
						Data: base64.URLEncoding.EncodeToString([]byte("Hello, this is a test message")),
					},
				},
			},
			format: "text",
			want:   "Hello, this is a test message",
		},
		{
			name: "html message",
			message: &gmail.Message{
				Id: "msg456",
				Payload: &gmail.MessagePart{
					MimeType: "text/html",
					Body: &gmail.MessagePartBody{
						Data: base64.URLEncoding.EncodeToString([]byte("<html><body>HTML content</body></html>")),
					},
				},
			},
			format: "html",
			want:   "<html><body>HTML content</body></html>",
		},
		{
			name: "multipart message with text",
			message: &gmail.Message{
				Id: "msg789",
				Payload: &gmail.MessagePart{
					MimeType: "multipart/alternative",
					Parts: []*gmail.MessagePart{
						{
							MimeType: "text/plain",
							Body: &gmail.MessagePartBody{
								Data: base64.URLEncoding.EncodeToString([]byte("Plain text body")),
							},
						},
						{
							MimeType: "text/html",
							Body: &gmail.MessagePartBody{
								Data: base64.URLEncoding.EncodeToString([]byte("<html>HTML body</html>")),
							},
						},
					},
				},
			},
			format: "text",
			want:   "Plain text body",
		},
		{
			name: "message with no body",
			message: &gmail.Message{
				Id: "msg999",
				Payload: &gmail.MessagePart{
					MimeType: "text/plain",
					Body:     &gmail.MessagePartBody{},
				},
			},
			format:  "text",
			wantErr: true,
		},
		{
			name: "invalid format",
			message: &gmail.Message{
				Id: "msg111",
				Payload: &gmail.MessagePart{
					MimeType: "text/plain",
					Body: &gmail.MessagePartBody{
						Data: base64.URLEncoding.EncodeToString([]byte("Test")),
					},
				},
			},
			format:  "invalid",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.extractBodyFromMessage(tt.message, tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("extractBodyFromMessage() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("extractBodyFromMessage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractBodyFromMessage_Formats(t *testing.T) {
	client := &Client{}

	// Both formats must work against the same multipart message
	message := &gmail.Message{
		Id: "msg-multipart",
		Payload: &gmail.MessagePart{
			MimeType: "multipart/alternative",
			Parts: []*gmail.MessagePart{
				{
					MimeType: "text/plain",
					Body: &gmail.MessagePartBody{
						Data: base64.URLEncoding.EncodeToString([]byte("Plain text version")),
					},
				},
				{
					MimeType: "text/html",
					Body: &gmail.MessagePartBody{
						Data: base64.URLEncoding.EncodeToString([]byte("<p>HTML version</p>")),
					},
				},
			},
		},
	}

	gotText, err := client.extractBodyFromMessage(message, "text")
	if err != nil {
		t.Errorf("extractBodyFromMessage(text) error = %v", err)
	}
	if gotText != "Plain text version" {
		t.Errorf("extractBodyFromMessage(text) = %v, want 'Plain text version'", gotText)
	}

	gotHTML, err := client.extractBodyFromMessage(message, "html")
	if err != nil {
		t.Errorf("extractBodyFromMessage(html) error = %v", err)
	}
	if gotHTML != "<p>HTML version</p>" {
		t.Errorf("extractBodyFromMessage(html) = %v, want '<p>HTML version</p>'", gotHTML)
	}

	// Empty format defaults to text
	gotDefault, err := client.extractBodyFromMessage(message, "")
	if err != nil {
		t.Errorf("extractBodyFromMessage('') error = %v", err)
	}
	if gotDefault != "Plain text version" {
		t.Errorf("extractBodyFromMessage('') = %v, want 'Plain text version'", gotDefault)
	}
}

// When the requested format is not available the other format is used,
// so HTML-only messages still return a body.
func TestExtractBodyFromMessage_FallbackToHTML(t *testing.T) {
	client := &Client{}

	t.Run("html-only message with text format request falls back to html", func(t *testing.T) {
		message := &gmail.Message{
			Id: "msg-html-only",
			Payload: &gmail.MessagePart{
				MimeType: "text/html",
				Body: &gmail.MessagePartBody{
					Data: base64.URLEncoding.EncodeToString([]byte("<p>HTML only content</p>")),
				},
			},
		}

		got, err := client.extractBodyFromMessage(message, "text")
		if err != nil {
			t.Errorf("extractBodyFromMessage() should have fallen back to HTML, got error = %v", err)
		}
		if got != "<p>HTML only content</p>" {
			t.Errorf("extractBodyFromMessage() = %v, want '<p>HTML only content</p>'", got)
		}
	})

	t.Run("message with no text or html returns comprehensive error", func(t *testing.T) {
		message := &gmail.Message{
			Id: "msg-no-body",
			Payload: &gmail.MessagePart{
				MimeType: "multipart/mixed",
				Parts: []*gmail.MessagePart{
					{
						MimeType: "application/pdf",
						Body: &gmail.MessagePartBody{
							AttachmentId: "att123",
						},
					},
				},
			},
		}

		_, err := client.extractBodyFromMessage(message, "text")
		if err == nil {
			t.Fatal("extractBodyFromMessage() should have returned error for message with no body")
		}
		if !strings.Contains(err.Error(), "tried text and html") {
			t.Errorf("error should indicate both formats were tried, got: %v", err)
		}
	})

	t.Run("text-only message with html format request falls back to text", func(t *testing.T) {
		message := &gmail.Message{
			Id: "msg-text-only",
			Payload: &gmail.MessagePart{
				MimeType: "text/plain",
				Body: &gmail.MessagePartBody{
					Data: base64.URLEncoding.EncodeToString([]byte("plain only")),
				},
			},
		}

		got, err := client.extractBodyFromMessage(message, "html")
		if err != nil {
			t.Errorf("extractBodyFromMessage() should have fallen back to text, got error = %v", err)
		}
		if got != "plain only" {
			t.Errorf("extractBodyFromMessage() = %v, want 'plain only'", got)
		}
	})
}
