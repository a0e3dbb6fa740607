package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gvault/gvault/internal/gmail"
	"github.com/gvault/gvault/internal/logging"
	"github.com/gvault/gvault/internal/vault"
)

func newMailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mail",
		Short: "Gmail operations",
		Long: `List, read and send Gmail messages, search contacts, and export
threads into the note vault.`,
	}

	cmd.AddCommand(newMailListCmd())
	cmd.AddCommand(newMailGetCmd())
	cmd.AddCommand(newMailSendCmd())
	cmd.AddCommand(newMailExportCmd())
	cmd.AddCommand(newMailContactsCmd())
	return cmd
}

// todayQuery narrows a Gmail query to the last day when --today is set.
func todayQuery(query string, today bool) string {
	if !today {
		return query
	}
	if query == "" {
		return "newer_than:1d"
	}
	return query + " newer_than:1d"
}

func newMailListCmd() *cobra.Command {
	var (
		query      string
		today      bool
		maxResults int64
		format     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List Gmail threads",
		Long: `List Gmail threads, newest first. Supports the full Gmail search
syntax via --query (e.g. 'is:unread from:boss@work.com newer_than:7d').`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			client, err := gmail.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			threads, err := client.ListThreads(todayQuery(query, today), maxResults)
			if err != nil {
				return err
			}

			if format == "json" {
				return printJSON(threads)
			}
			printThreadTable(threads)
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Gmail search query")
	cmd.Flags().BoolVar(&today, "today", false, "Only threads from the last day")
	cmd.Flags().Int64VarP(&maxResults, "max-results", "n", 50, "Maximum number of threads")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or text")
	return cmd
}

func printThreadTable(threads []*gmail.ThreadSummary) {
	if len(threads) == 0 {
		fmt.Println("No threads found.")
		return
	}

	fmt.Printf("%-20s %-40s %-30s %-17s %s\n", "THREAD_ID", "SUBJECT", "FROM", "DATE", "MSGS")
	for _, t := range threads {
		date := ""
		if !t.Date.IsZero() {
			date = t.Date.Format("2006-01-02 15:04")
		}
		fmt.Printf("%-20s %-40s %-30s %-17s %d\n",
			truncate(t.ID, 20), truncate(t.Subject, 40), truncate(t.From, 30), date, t.MessageCount)
	}
	fmt.Printf("\nTotal: %d threads\n", len(threads))
}

func newMailGetCmd() *cobra.Command {
	var (
		body   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "get MESSAGE_ID",
		Short: "Show a single Gmail message",
		Long: `Show a Gmail message by ID. The default output is the full message
detail; --body text or --body html prints just the requested body.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			if body != "" && body != "text" && body != "html" {
				return fmt.Errorf("invalid body format %q, must be 'text' or 'html'", body)
			}

			client, err := gmail.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			if body != "" {
				content, err := client.GetMessageBody(args[0], body)
				if err != nil {
					return err
				}
				fmt.Println(content)
				return nil
			}

			detail, err := client.GetMessageDetail(args[0])
			if err != nil {
				return err
			}

			if format == "json" {
				return printJSON(detail)
			}
			printMessageText(detail)
			return nil
		},
	}

	cmd.Flags().StringVar(&body, "body", "", "Print only the message body: text or html")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or text")
	return cmd
}

func printMessageText(d *gmail.MessageDetail) {
	fmt.Printf("Message ID: %s\n", d.ID)
	fmt.Printf("Thread ID:  %s\n", d.ThreadID)
	fmt.Printf("From:       %s\n", d.From)
	fmt.Printf("To:         %s\n", d.To)
	if d.Cc != "" {
		fmt.Printf("Cc:         %s\n", d.Cc)
	}
	fmt.Printf("Subject:    %s\n", d.Subject)
	if !d.Date.IsZero() {
		fmt.Printf("Date:       %s\n", d.Date.Format("2006-01-02 15:04"))
	}
	if len(d.Labels) > 0 {
		fmt.Printf("Labels:     %s\n", strings.Join(d.Labels, ", "))
	}

	if len(d.Attachments) > 0 {
		fmt.Printf("\nAttachments (%d):\n", len(d.Attachments))
		for _, att := range d.Attachments {
			fmt.Printf("  - %s (%s, %s)\n", att.Filename, formatSize(att.Size), att.MimeType)
		}
	}

	if d.BodyText != "" {
		fmt.Println()
		fmt.Println(d.BodyText)
	}
}

func newMailSendCmd() *cobra.Command {
	var (
		to       string
		cc       string
		bcc      string
		subject  string
		body     string
		bodyFile string
		html     bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send an email",
		Long: `Send an email through Gmail. Recipients take comma-separated
addresses; the body comes from --body or from a file via --body-file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if body == "" && bodyFile == "" {
				return fmt.Errorf("either --body or --body-file is required")
			}
			if body != "" && bodyFile != "" {
				return fmt.Errorf("--body and --body-file are mutually exclusive")
			}
			if bodyFile != "" {
				data, err := os.ReadFile(bodyFile)
				if err != nil {
					return fmt.Errorf("failed to read body file: %w", err)
				}
				body = string(data)
			}

			client, err := gmail.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			id, err := client.SendEmail(&gmail.EmailMessage{
				To:      splitAddressList(to),
				Cc:      splitAddressList(cc),
				Bcc:     splitAddressList(bcc),
				Subject: subject,
				Body:    body,
				IsHTML:  html,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Message sent: %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", "", "Recipient addresses, comma-separated (required)")
	cmd.Flags().StringVar(&cc, "cc", "", "CC addresses, comma-separated")
	cmd.Flags().StringVar(&bcc, "bcc", "", "BCC addresses, comma-separated")
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Subject line (required)")
	cmd.Flags().StringVarP(&body, "body", "b", "", "Body content")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "Read the body from a file")
	cmd.Flags().BoolVar(&html, "html", false, "Send the body as HTML instead of plain text")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

// splitAddressList splits a comma-separated address list, dropping empty
// entries.
func splitAddressList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	addresses := make([]string, 0, len(parts))
	for _, part := range parts {
		if addr := strings.TrimSpace(part); addr != "" {
			addresses = append(addresses, addr)
		}
	}
	if len(addresses) == 0 {
		return nil
	}
	return addresses
}

// mailExportSummary is the JSON result of a mail export run.
type mailExportSummary struct {
	ExportedThreads  int      `json:"exported_threads"`
	ExportedMessages int      `json:"exported_messages"`
	SavedAttachments int      `json:"saved_attachments"`
	Notes            []string `json:"notes"`
	Failures         []string `json:"failures,omitempty"`
}

func newMailExportCmd() *cobra.Command {
	var (
		query         string
		today         bool
		maxResults    int64
		vaultRoot     string
		noAttachments bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export Gmail threads to the vault",
		Long: `Export Gmail threads matching a query into the note vault, one
folder per thread under emails/ with a markdown note and the thread's
attachments. Re-exporting a thread appends only messages the note does
not contain yet.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" && !today {
				return fmt.Errorf("specify --query or --today to select threads")
			}

			v, err := openVault(vaultRoot)
			if err != nil {
				return err
			}

			client, err := gmail.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			threads, err := client.ListThreads(todayQuery(query, today), maxResults)
			if err != nil {
				return err
			}
			if len(threads) == 0 {
				fmt.Println("No threads found matching query.")
				return nil
			}

			exporter := vault.NewEmailExporter(v)
			exporter.SetSaveAttachments(!noAttachments)

			var summary mailExportSummary
			for _, t := range threads {
				messages, err := client.ThreadMessages(t.ID, !noAttachments)
				if err != nil {
					slog.Warn("failed to fetch thread", logging.Err(err), "thread_id", t.ID)
					summary.Failures = append(summary.Failures, fmt.Sprintf("%s: %v", t.ID, err))
					continue
				}

				note, err := exporter.ExportThread(messages)
				if err != nil {
					slog.Warn("failed to export thread", logging.Err(err), "thread_id", t.ID)
					summary.Failures = append(summary.Failures, fmt.Sprintf("%s: %v", t.ID, err))
					continue
				}

				summary.ExportedThreads++
				summary.ExportedMessages += len(messages)
				for _, m := range messages {
					for _, att := range m.Attachments {
						if len(att.Data) > 0 {
							summary.SavedAttachments++
						}
					}
				}
				summary.Notes = append(summary.Notes, note)
			}

			if err := printJSON(summary); err != nil {
				return err
			}
			if len(summary.Failures) > 0 {
				return fmt.Errorf("%d of %d threads failed", len(summary.Failures), len(threads))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Gmail search query selecting the threads")
	cmd.Flags().BoolVar(&today, "today", false, "Only threads from the last day")
	cmd.Flags().Int64VarP(&maxResults, "max-results", "n", 50, "Maximum number of threads")
	cmd.Flags().StringVar(&vaultRoot, "vault", "", "Vault root directory (default: GVAULT_ROOT or config file)")
	cmd.Flags().BoolVar(&noAttachments, "no-attachments", false, "Skip downloading and saving attachments")
	return cmd
}

func newMailContactsCmd() *cobra.Command {
	var maxResults int64

	cmd := &cobra.Command{
		Use:   "contacts QUERY",
		Short: "Search contacts",
		Long: `Search the account's contacts and the people interacted with by
name or email address.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := gmail.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			contacts, err := client.SearchContacts(args[0], maxResults)
			if err != nil {
				return err
			}
			return printJSON(contacts)
		},
	}

	cmd.Flags().Int64VarP(&maxResults, "max-results", "n", 10, "Maximum number of contacts")
	return cmd
}
