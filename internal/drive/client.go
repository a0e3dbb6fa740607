package drive

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/gvault/gvault/internal/google"
)

const (
	// FolderMimeType is the MIME type for Google Drive folders
	FolderMimeType = "application/vnd.google-apps.folder"

	// workspaceMimePrefix marks Google Workspace documents, which have
	// no binary content and cannot be downloaded directly.
	workspaceMimePrefix = "application/vnd.google-apps."

	// defaultMaxFiles is the result cap used when the caller does not
	// set one. maxPageSize is the API's per-page limit.
	defaultMaxFiles = 100
	maxPageSize     = 100

	defaultOrderBy = "modifiedTime desc"
)

// fileInfoFields is the metadata requested for every file returned by
// this package.
const fileInfoFields = "id, name, mimeType, size, createdTime, modifiedTime, webViewLink, webContentLink, parents, owners, shared, trashed, trashedTime"

// Client wraps the Google Drive API service
type Client struct {
	service *drive.Service
	account string // The account this client is associated with
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// HasToken checks if a valid OAuth token exists for the default account
func HasToken() bool {
	return google.HasToken()
}

// NewClientForAccount creates a new Google Drive client with OAuth2
// authentication for a specific account using the on-disk token cache.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	client, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	return newClientWithHTTPClient(ctx, client, account)
}

// NewClientForAccountWithProvider creates a new Google Drive client
// whose OAuth token comes from the given provider instead of the
// on-disk cache.
func NewClientForAccountWithProvider(ctx context.Context, account string, provider google.TokenProvider) (*Client, error) {
	client, err := google.GetHTTPClientForAccountWithProvider(ctx, account, provider)
	if err != nil {
		return nil, err
	}

	return newClientWithHTTPClient(ctx, client, account)
}

func newClientWithHTTPClient(ctx context.Context, client *http.Client, account string) (*Client, error) {
	svc, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		service: svc,
		account: account,
	}, nil
}

// NewClient creates a new Google Drive client for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, google.DefaultAccount)
}

// ListFiles lists files in Google Drive with optional filtering. It
// paginates through results up to the configured maximum and excludes
// trashed files unless asked otherwise.
func (c *Client) ListFiles(ctx context.Context, opts *ListOptions) ([]*FileInfo, error) {
	var options ListOptions
	if opts != nil {
		options = *opts
	}

	query := options.Query
	if options.FolderID != "" {
		clause := fmt.Sprintf("'%s' in parents", options.FolderID)
		if query != "" {
			query = query + " and " + clause
		} else {
			query = clause
		}
	}
	query = buildListFilesQuery(query, options.IncludeTrashed)

	orderBy := options.OrderBy
	if orderBy == "" {
		orderBy = defaultOrderBy
	}

	maxResults := options.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxFiles
	}
	pageSize := maxResults
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var files []*FileInfo
	pageToken := ""
	for {
		call := c.service.Files.List().
			Context(ctx).
			PageSize(pageSize).
			OrderBy(orderBy).
			Fields(googleapi.Field("nextPageToken, files(" + fileInfoFields + ")"))
		if query != "" {
			call = call.Q(query)
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		result, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		for _, f := range result.Files {
			files = append(files, toFileInfo(f))
		}

		if result.NextPageToken == "" || int64(len(files)) >= maxResults {
			break
		}
		pageToken = result.NextPageToken
	}

	if int64(len(files)) > maxResults {
		files = files[:maxResults]
	}

	return files, nil
}

// buildListFilesQuery combines the caller's query with the trashed
// filter. The user query is parenthesized so its operator precedence
// survives the combination.
func buildListFilesQuery(userQuery string, includeTrashed bool) string {
	if includeTrashed {
		return userQuery
	}
	if userQuery == "" {
		return "trashed=false"
	}
	return "(" + userQuery + ") and trashed=false"
}

// SearchFiles searches for files matching the given criteria.
func (c *Client) SearchFiles(ctx context.Context, opts SearchOptions) ([]*FileInfo, error) {
	return c.ListFiles(ctx, &ListOptions{
		Query:      buildSearchQuery(opts),
		MaxResults: opts.MaxResults,
	})
}

// buildSearchQuery renders SearchOptions into the Drive query language.
func buildSearchQuery(opts SearchOptions) string {
	var parts []string
	if opts.NameContains != "" {
		parts = append(parts, fmt.Sprintf("name contains '%s'", escapeQueryTerm(opts.NameContains)))
	}
	if opts.MimeType != "" {
		parts = append(parts, fmt.Sprintf("mimeType='%s'", opts.MimeType))
	}
	if opts.FolderID != "" {
		parts = append(parts, fmt.Sprintf("'%s' in parents", opts.FolderID))
	}
	if opts.SharedWithMe {
		parts = append(parts, "sharedWithMe=true")
	}
	return strings.Join(parts, " and ")
}

// escapeQueryTerm escapes single quotes in a value embedded in a Drive
// query string.
func escapeQueryTerm(s string) string {
	return strings.ReplaceAll(s, `'`, `\'`)
}

// GetFile retrieves metadata for a specific file, including its
// permissions.
func (c *Client) GetFile(ctx context.Context, fileID string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	file, err := c.service.Files.Get(fileID).
		Context(ctx).
		Fields(googleapi.Field(fileInfoFields + ", permissions")).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", fileID, err)
	}

	return toFileInfo(file), nil
}

// DownloadFile downloads the content of a file. Google Workspace
// documents have no binary content and are rejected; they must be
// exported to a regular format first.
func (c *Client) DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}

	meta, err := c.service.Files.Get(fileID).Context(ctx).Fields("mimeType").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", fileID, err)
	}
	if strings.HasPrefix(meta.MimeType, workspaceMimePrefix) {
		return nil, fmt.Errorf("cannot download Google Workspace files directly (type %s)", meta.MimeType)
	}

	resp, err := c.service.Files.Get(fileID).
		Context(ctx).
		Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}

	return resp.Body, nil
}

// UploadFile uploads a file to Google Drive. It refuses to upload when
// a non-trashed file with the same name already exists in the target
// folder.
func (c *Client) UploadFile(ctx context.Context, name string, content io.Reader, opts *UploadOptions) (*FileInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("file name is required")
	}
	if content == nil {
		return nil, fmt.Errorf("file content is required")
	}

	var folderID, description, mimeType string
	if opts != nil {
		folderID = opts.FolderID
		description = opts.Description
		mimeType = opts.MimeType
	}
	if mimeType == "" {
		mimeType = detectMimeType(name)
	}

	// The existence check is best effort; the upload proceeds when the
	// check itself fails.
	if existing, err := c.findExisting(ctx, name, folderID, ""); err == nil && existing != nil {
		return nil, fmt.Errorf("file %q already exists in %s (ID: %s)", name, locationName(folderID), existing.ID)
	}

	file := &drive.File{
		Name:        name,
		Description: description,
		MimeType:    mimeType,
	}
	if folderID != "" {
		file.Parents = []string{folderID}
	}

	created, err := c.service.Files.Create(file).
		Context(ctx).
		Media(content, googleapi.ContentType(mimeType)).
		Fields(googleapi.Field(fileInfoFields)).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return toFileInfo(created), nil
}

// detectMimeType guesses a MIME type from the file name's extension.
func detectMimeType(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// CreateFolder creates a new folder in Google Drive. It refuses to
// create a folder whose name already exists in the parent.
func (c *Client) CreateFolder(ctx context.Context, name, parentID string) (*FileInfo, error) {
	if name == "" {
		return nil, fmt.Errorf("folder name is required")
	}

	if existing, err := c.findExisting(ctx, name, parentID, FolderMimeType); err == nil && existing != nil {
		return nil, fmt.Errorf("folder %q already exists in %s (ID: %s)", name, locationName(parentID), existing.ID)
	}

	file := &drive.File{
		Name:     name,
		MimeType: FolderMimeType,
	}
	if parentID != "" {
		file.Parents = []string{parentID}
	}

	created, err := c.service.Files.Create(file).
		Context(ctx).
		Fields(googleapi.Field(fileInfoFields)).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	return toFileInfo(created), nil
}

// findExisting looks for a non-trashed file with the exact name among
// the children of folderID (the My Drive root when empty). mimeType
// narrows the match when set.
func (c *Client) findExisting(ctx context.Context, name, folderID, mimeType string) (*FileInfo, error) {
	parts := []string{fmt.Sprintf("name='%s'", escapeQueryTerm(name))}
	if mimeType != "" {
		parts = append(parts, fmt.Sprintf("mimeType='%s'", mimeType))
	}
	parent := folderID
	if parent == "" {
		parent = "root"
	}
	parts = append(parts, fmt.Sprintf("'%s' in parents", parent))

	files, err := c.ListFiles(ctx, &ListOptions{
		Query:      strings.Join(parts, " and "),
		MaxResults: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	return files[0], nil
}

// locationName names an upload target for error messages.
func locationName(folderID string) string {
	if folderID == "" {
		return "My Drive root"
	}
	return "folder " + folderID
}

// RenameFile renames a file or folder.
func (c *Client) RenameFile(ctx context.Context, fileID, newName string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}
	if newName == "" {
		return nil, fmt.Errorf("new name is required")
	}

	updated, err := c.service.Files.Update(fileID, &drive.File{Name: newName}).
		Context(ctx).
		Fields(googleapi.Field(fileInfoFields)).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to rename file %s: %w", fileID, err)
	}

	return toFileInfo(updated), nil
}

// MoveFile moves a file or folder into the destination folder,
// detaching it from all current parents.
func (c *Client) MoveFile(ctx context.Context, fileID, destFolderID string) (*FileInfo, error) {
	if fileID == "" {
		return nil, fmt.Errorf("fileID is required")
	}
	if destFolderID == "" {
		return nil, fmt.Errorf("destination folder ID is required")
	}

	current, err := c.service.Files.Get(fileID).Context(ctx).Fields("parents").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", fileID, err)
	}

	call := c.service.Files.Update(fileID, &drive.File{}).
		Context(ctx).
		AddParents(destFolderID).
		Fields(googleapi.Field(fileInfoFields))
	if len(current.Parents) > 0 {
		call = call.RemoveParents(strings.Join(current.Parents, ","))
	}

	updated, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to move file %s: %w", fileID, err)
	}

	return toFileInfo(updated), nil
}

// DeleteFile moves a file to the trash, or deletes it permanently when
// permanent is true. Trashed files can still be restored from the
// Drive UI.
func (c *Client) DeleteFile(ctx context.Context, fileID string, permanent bool) error {
	if fileID == "" {
		return fmt.Errorf("fileID is required")
	}

	if permanent {
		if err := c.service.Files.Delete(fileID).Context(ctx).Do(); err != nil {
			return fmt.Errorf("failed to delete file %s: %w", fileID, err)
		}
		return nil
	}

	if _, err := c.service.Files.Update(fileID, &drive.File{Trashed: true}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to trash file %s: %w", fileID, err)
	}
	return nil
}

// toFileInfo converts a Drive API File to our FileInfo type
func toFileInfo(f *drive.File) *FileInfo {
	fileInfo := &FileInfo{
		ID:             f.Id,
		Name:           f.Name,
		MimeType:       f.MimeType,
		Size:           f.Size,
		WebViewLink:    f.WebViewLink,
		WebContentLink: f.WebContentLink,
		Parents:        f.Parents,
		Shared:         f.Shared,
		Trashed:        f.Trashed,
	}

	// Parse timestamps
	if f.CreatedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
			fileInfo.CreatedTime = t
		}
	}
	if f.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.ModifiedTime); err == nil {
			fileInfo.ModifiedTime = t
		}
	}
	if f.TrashedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.TrashedTime); err == nil {
			fileInfo.TrashedTime = &t
		}
	}

	// Convert owners
	for _, owner := range f.Owners {
		fileInfo.Owners = append(fileInfo.Owners, User{
			DisplayName:  owner.DisplayName,
			EmailAddress: owner.EmailAddress,
			PhotoLink:    owner.PhotoLink,
		})
	}

	// Convert permissions if present
	for _, perm := range f.Permissions {
		fileInfo.Permissions = append(fileInfo.Permissions, *toPermission(perm))
	}

	return fileInfo
}

// toPermission converts a Drive API Permission to our Permission type
func toPermission(p *drive.Permission) *Permission {
	return &Permission{
		ID:           p.Id,
		Type:         p.Type,
		Role:         p.Role,
		EmailAddress: p.EmailAddress,
		Domain:       p.Domain,
		DisplayName:  p.DisplayName,
	}
}
