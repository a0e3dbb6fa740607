package drive

import "time"

// FileInfo represents metadata about a file or folder in Google Drive
type FileInfo struct {
	// ID is the unique identifier for the file
	ID string `json:"id"`

	// Name is the name of the file
	Name string `json:"name"`

	// MimeType is the MIME type of the file
	MimeType string `json:"mimeType"`

	// Size is the size of the file in bytes (not populated for folders)
	Size int64 `json:"size,omitempty"`

	// CreatedTime is when the file was created
	CreatedTime time.Time `json:"createdTime"`

	// ModifiedTime is when the file was last modified
	ModifiedTime time.Time `json:"modifiedTime"`

	// WebViewLink is a link for opening the file in a relevant Google editor or viewer
	WebViewLink string `json:"webViewLink,omitempty"`

	// WebContentLink is a link for downloading the file content (not available for folders)
	WebContentLink string `json:"webContentLink,omitempty"`

	// Parents are the IDs of the parent folders
	Parents []string `json:"parents,omitempty"`

	// Owners are the owners of the file
	Owners []User `json:"owners,omitempty"`

	// Shared indicates whether the file is shared
	Shared bool `json:"shared"`

	// Permissions are the access permissions for the file
	Permissions []Permission `json:"permissions,omitempty"`

	// TrashedTime is when the file was trashed (if trashed)
	TrashedTime *time.Time `json:"trashedTime,omitempty"`

	// Trashed indicates whether the file is in the trash
	Trashed bool `json:"trashed"`
}

// IsFolder reports whether the file is a Drive folder
func (f *FileInfo) IsFolder() bool {
	return f.MimeType == FolderMimeType
}

// User represents a Google Drive user (owner, permission holder, etc.)
type User struct {
	// DisplayName is the display name of the user
	DisplayName string `json:"displayName"`

	// EmailAddress is the email address of the user
	EmailAddress string `json:"emailAddress"`

	// PhotoLink is a link to the user's profile photo
	PhotoLink string `json:"photoLink,omitempty"`
}

// Permission represents access permissions for a file
type Permission struct {
	// ID is the unique identifier for the permission
	ID string `json:"id"`

	// Type is the type of grantee (user, group, domain, anyone)
	Type string `json:"type"`

	// Role is the role granted by this permission (owner, organizer, fileOrganizer, writer, commenter, reader)
	Role string `json:"role"`

	// EmailAddress is the email address of the user or group (if type is user or group)
	EmailAddress string `json:"emailAddress,omitempty"`

	// Domain is the domain to which this permission refers (if type is domain)
	Domain string `json:"domain,omitempty"`

	// DisplayName is the display name of the user or group
	DisplayName string `json:"displayName,omitempty"`
}

// ListOptions contains options for listing files
type ListOptions struct {
	// Query is a query for filtering the file results using Google Drive's query language
	// See https://developers.google.com/drive/api/guides/search-files
	// Examples:
	//   "name contains 'report'"
	//   "mimeType='application/pdf'"
	//   "'me' in owners"
	Query string

	// FolderID restricts the listing to direct children of this folder
	FolderID string

	// OrderBy specifies the sort order of the result set.
	// Defaults to "modifiedTime desc".
	OrderBy string

	// MaxResults is the maximum number of files to return.
	// Zero or negative means the default of 100.
	MaxResults int64

	// IncludeTrashed includes trashed files in results
	IncludeTrashed bool
}

// SearchOptions contains criteria for searching files. All set criteria
// must match. Trashed files are always excluded.
type SearchOptions struct {
	// NameContains matches files whose name contains this string
	NameContains string

	// MimeType matches files of exactly this MIME type
	MimeType string

	// FolderID restricts the search to direct children of this folder
	FolderID string

	// SharedWithMe restricts the search to files shared with the user
	SharedWithMe bool

	// MaxResults is the maximum number of files to return.
	// Zero or negative means the default of 100.
	MaxResults int64
}

// UploadOptions contains options for uploading a file
type UploadOptions struct {
	// FolderID is the folder to upload into (empty = My Drive root)
	FolderID string

	// Description is a short description of the file
	Description string

	// MimeType is the MIME type of the file. When empty it is detected
	// from the file name's extension, falling back to
	// "application/octet-stream".
	MimeType string
}
