package gdrive

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	FolderMimeType   = "application/vnd.google-apps.folder"
	DocumentMimeType = "application/vnd.google-apps.document"
	JSONMimeType     = "application/json"
)

var (
	ErrNotConfigured    = errors.New("google drive is not configured")
	ErrArtifactTooLarge = errors.New("artifact is too large to read")
)

// RemoteStoreError wraps every failed Drive call.
type RemoteStoreError struct {
	Op  string
	Err error
}

func (e *RemoteStoreError) Error() string {
	return fmt.Sprintf("drive %s: %v", e.Op, e.Err)
}

func (e *RemoteStoreError) Unwrap() error { return e.Err }

func remoteErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var rse *RemoteStoreError
	if errors.As(err, &rse) {
		return err
	}
	return &RemoteStoreError{Op: op, Err: err}
}

type Folder struct {
	ID         string
	Name       string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

type File struct {
	ID         string
	Name       string
	MimeType   string
	ModifiedAt time.Time
}

// Store is the durable folder/file store. One folder per project,
// artifacts are append-only.
type Store interface {
	// FindFolder prefers an exact name match and otherwise returns the first candidate.
	FindFolder(ctx context.Context, name string) (string, bool, error)
	// CreateFolder returns the existing folder when one is found by name.
	CreateFolder(ctx context.Context, name string) (string, error)
	// ListFoldersUnderRoot is ordered most recently modified first.
	ListFoldersUnderRoot(ctx context.Context) ([]Folder, error)
	ListFiles(ctx context.Context, folderID string) ([]File, error)
	// WriteArtifact always creates a new file. Names ending in .json are
	// stored as raw JSON; anything else becomes a Docs document.
	WriteArtifact(ctx context.Context, folderID, name, content string) (string, error)
	// ReadArtifact returns plain text for both stored representations.
	ReadArtifact(ctx context.Context, fileID string) (string, error)
}

// IsStructured reports whether an artifact name denotes the JSON twin.
func IsStructured(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".json")
}

// Disabled is used when no Drive credentials are configured.
type Disabled struct{}

func (Disabled) FindFolder(ctx context.Context, name string) (string, bool, error) {
	return "", false, remoteErr("find folder", ErrNotConfigured)
}

func (Disabled) CreateFolder(ctx context.Context, name string) (string, error) {
	return "", remoteErr("create folder", ErrNotConfigured)
}

func (Disabled) ListFoldersUnderRoot(ctx context.Context) ([]Folder, error) {
	return nil, remoteErr("list folders", ErrNotConfigured)
}

func (Disabled) ListFiles(ctx context.Context, folderID string) ([]File, error) {
	return nil, remoteErr("list files", ErrNotConfigured)
}

func (Disabled) WriteArtifact(ctx context.Context, folderID, name, content string) (string, error) {
	return "", remoteErr("write artifact", ErrNotConfigured)
}

func (Disabled) ReadArtifact(ctx context.Context, fileID string) (string, error) {
	return "", remoteErr("read artifact", ErrNotConfigured)
}
