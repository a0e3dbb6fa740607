package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gvault/gvault/internal/drive"
)

func newDriveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drive",
		Short: "Google Drive operations",
		Long: `List, search, download and upload Drive files, and manage the
folder hierarchy.`,
	}

	cmd.AddCommand(newDriveListCmd())
	cmd.AddCommand(newDriveSearchCmd())
	cmd.AddCommand(newDriveGetCmd())
	cmd.AddCommand(newDriveDownloadCmd())
	cmd.AddCommand(newDriveUploadCmd())
	cmd.AddCommand(newDriveMkdirCmd())
	cmd.AddCommand(newDriveRenameCmd())
	cmd.AddCommand(newDriveMoveCmd())
	cmd.AddCommand(newDriveDeleteCmd())
	return cmd
}

func newDriveListCmd() *cobra.Command {
	var (
		folder         string
		query          string
		orderBy        string
		maxResults     int64
		includeTrashed bool
		format         string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List Drive files",
		Long: `List Drive files, most recently modified first. --query takes the
raw Drive query language (e.g. "mimeType='application/pdf'" or
"name contains 'invoice'").`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			client, err := drive.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			files, err := client.ListFiles(cmd.Context(), &drive.ListOptions{
				Query:          query,
				FolderID:       folder,
				OrderBy:        orderBy,
				MaxResults:     maxResults,
				IncludeTrashed: includeTrashed,
			})
			if err != nil {
				return err
			}

			if format == "json" {
				return printJSON(files)
			}
			printFileTable(files)
			return nil
		},
	}

	cmd.Flags().StringVar(&folder, "folder", "", "List only direct children of this folder ID")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Drive query language filter")
	cmd.Flags().StringVar(&orderBy, "order-by", "", "Sort order (default: modifiedTime desc)")
	cmd.Flags().Int64VarP(&maxResults, "max-results", "n", 100, "Maximum number of files")
	cmd.Flags().BoolVar(&includeTrashed, "trashed", false, "Include trashed files")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or text")
	return cmd
}

func printFileTable(files []*drive.FileInfo) {
	if len(files) == 0 {
		fmt.Println("No files found.")
		return
	}

	header := fmt.Sprintf("%-35s %-40s %-30s %-10s %-20s", "ID", "NAME", "TYPE", "SIZE", "MODIFIED")
	fmt.Println(header)
	fmt.Println(strings.Repeat("=", len(header)))

	for _, f := range files {
		size := "-"
		if !f.IsFolder() && f.Size > 0 {
			size = formatSize(f.Size)
		}
		modified := ""
		if !f.ModifiedTime.IsZero() {
			modified = f.ModifiedTime.Format("2006-01-02 15:04")
		}
		fmt.Printf("%-35s %-40s %-30s %-10s %-20s\n",
			truncate(f.ID, 35), truncate(f.Name, 40), truncate(f.MimeType, 30), size, modified)
	}

	fmt.Printf("\nTotal: %d files\n", len(files))
}

func newDriveSearchCmd() *cobra.Command {
	var (
		folder     string
		mimeType   string
		shared     bool
		maxResults int64
		format     string
	)

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search Drive files by name",
		Long: `Search for files whose name contains the query. Trashed files are
excluded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			client, err := drive.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			files, err := client.SearchFiles(cmd.Context(), drive.SearchOptions{
				NameContains: args[0],
				MimeType:     mimeType,
				FolderID:     folder,
				SharedWithMe: shared,
				MaxResults:   maxResults,
			})
			if err != nil {
				return err
			}

			if format == "json" {
				return printJSON(files)
			}
			printFileTable(files)
			return nil
		},
	}

	cmd.Flags().StringVar(&folder, "folder", "", "Search only direct children of this folder ID")
	cmd.Flags().StringVar(&mimeType, "mime-type", "", "Match only this MIME type")
	cmd.Flags().BoolVar(&shared, "shared-with-me", false, "Search only files shared with you")
	cmd.Flags().Int64VarP(&maxResults, "max-results", "n", 100, "Maximum number of files")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or text")
	return cmd
}

func newDriveGetCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "get FILE_ID",
		Short: "Show file metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}

			client, err := drive.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			file, err := client.GetFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if format == "json" {
				return printJSON(file)
			}
			printFileText(file)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or text")
	return cmd
}

func printFileText(f *drive.FileInfo) {
	fmt.Printf("Name:         %s\n", f.Name)
	fmt.Printf("ID:           %s\n", f.ID)
	fmt.Printf("MIME Type:    %s\n", f.MimeType)
	if !f.IsFolder() && f.Size > 0 {
		fmt.Printf("Size:         %s\n", formatSize(f.Size))
	}
	if !f.CreatedTime.IsZero() {
		fmt.Printf("Created:      %s\n", f.CreatedTime.Format("2006-01-02 15:04"))
	}
	if !f.ModifiedTime.IsZero() {
		fmt.Printf("Modified:     %s\n", f.ModifiedTime.Format("2006-01-02 15:04"))
	}
	fmt.Printf("Shared:       %t\n", f.Shared)
	fmt.Printf("Trashed:      %t\n", f.Trashed)
	if f.WebViewLink != "" {
		fmt.Printf("Web Link:     %s\n", f.WebViewLink)
	}
	if len(f.Owners) > 0 {
		names := make([]string, 0, len(f.Owners))
		for _, o := range f.Owners {
			names = append(names, o.DisplayName)
		}
		fmt.Printf("Owners:       %s\n", strings.Join(names, ", "))
	}
}

func newDriveDownloadCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download FILE_ID",
		Short: "Download a file",
		Long: `Download a file's content. Google Workspace documents are exported
to an equivalent office format. Without --output the file is written
to the current directory under its Drive name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := drive.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				file, err := client.GetFile(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				path = file.Name
			}

			content, err := client.DownloadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer content.Close()

			out, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}

			written, err := io.Copy(out, content)
			if err != nil {
				out.Close()
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			fmt.Printf("Downloaded %s to %s\n", formatSize(written), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: the file's Drive name)")
	return cmd
}

func newDriveUploadCmd() *cobra.Command {
	var (
		folder string
		name   string
	)

	cmd := &cobra.Command{
		Use:   "upload PATH",
		Short: "Upload a file",
		Long: `Upload a local file to Drive. The MIME type is detected from the
file extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer in.Close()

			targetName := name
			if targetName == "" {
				targetName = filepath.Base(args[0])
			}

			client, err := drive.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			file, err := client.UploadFile(cmd.Context(), targetName, in, &drive.UploadOptions{
				FolderID: folder,
			})
			if err != nil {
				return err
			}
			return printJSON(file)
		},
	}

	cmd.Flags().StringVar(&folder, "folder", "", "Destination folder ID (default: My Drive root)")
	cmd.Flags().StringVar(&name, "name", "", "Name in Drive (default: the local file name)")
	return cmd
}

func newDriveMkdirCmd() *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "mkdir NAME",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := drive.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			folder, err := client.CreateFolder(cmd.Context(), args[0], parent)
			if err != nil {
				return err
			}
			return printJSON(folder)
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "Parent folder ID (default: My Drive root)")
	return cmd
}

func newDriveRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename FILE_ID NEW_NAME",
		Short: "Rename a file or folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := drive.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			file, err := client.RenameFile(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(file)
		},
	}
}

func newDriveMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move FILE_ID NEW_PARENT_ID",
		Short: "Move a file to another folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := drive.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			file, err := client.MoveFile(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(file)
		},
	}
}

func newDriveDeleteCmd() *cobra.Command {
	var (
		permanent bool
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "delete FILE_ID",
		Short: "Trash or delete a file",
		Long: `Move a file to the Drive trash, where it stays recoverable. With
--permanent the file is deleted outright and cannot be recovered.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := drive.NewClientForAccount(cmd.Context(), currentAccount())
			if err != nil {
				return err
			}

			file, err := client.GetFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if !force {
				prompt := "Move %q to trash?"
				if permanent {
					prompt = "Permanently delete %q? This cannot be undone."
				}
				if !confirmf(prompt, file.Name) {
					fmt.Println("Deletion cancelled.")
					return nil
				}
			}

			if err := client.DeleteFile(cmd.Context(), args[0], permanent); err != nil {
				return err
			}

			if permanent {
				fmt.Printf("Permanently deleted: %s\n", file.Name)
			} else {
				fmt.Printf("Moved to trash: %s\n", file.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&permanent, "permanent", false, "Delete permanently instead of trashing")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	return cmd
}
