// Package drivetest provides an in-memory gdrive.Store for tests.
package drivetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lpworks/lp-intake-backend/internal/clock"
	"github.com/lpworks/lp-intake-backend/internal/gdrive"
)

type file struct {
	meta    gdrive.File
	parent  string
	content string
}

// Store keeps folders and files in memory. Every folder lives under root.
type Store struct {
	mu      sync.Mutex
	clock   clock.Clock
	nextID  int
	folders []gdrive.Folder
	files   []*file
	fail    error
	writes  int
}

func New(clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.Real()
	}
	return &Store{clock: clk}
}

// SetFailure makes every call fail with err wrapped as a RemoteStoreError.
// Pass nil to recover.
func (s *Store) SetFailure(err error) {
	s.mu.Lock()
	s.fail = err
	s.mu.Unlock()
}

// AddFolder seeds a folder directly, bypassing find-before-create.
func (s *Store) AddFolder(name string, modified time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id("folder")
	s.folders = append(s.folders, gdrive.Folder{ID: id, Name: name, CreatedAt: modified, ModifiedAt: modified})
	return id
}

// AddFile seeds an artifact with an explicit modification time.
func (s *Store) AddFile(folderID, name, content string, modified time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addFile(folderID, name, content, modified)
}

// Files returns the files of a folder in creation order.
func (s *Store) Files(folderID string) []gdrive.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []gdrive.File
	for _, f := range s.files {
		if f.parent == folderID {
			out = append(out, f.meta)
		}
	}
	return out
}

func (s *Store) Content(fileID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.files {
		if f.meta.ID == fileID {
			return f.content
		}
	}
	return ""
}

func (s *Store) FolderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.folders)
}

func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *Store) FindFolder(ctx context.Context, name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("find folder"); err != nil {
		return "", false, err
	}
	return s.find(name)
}

func (s *Store) CreateFolder(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("create folder"); err != nil {
		return "", err
	}
	if id, ok, _ := s.find(name); ok {
		return id, nil
	}
	now := s.clock.Now()
	id := s.id("folder")
	s.folders = append(s.folders, gdrive.Folder{ID: id, Name: name, CreatedAt: now, ModifiedAt: now})
	return id, nil
}

func (s *Store) ListFoldersUnderRoot(ctx context.Context) ([]gdrive.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("list folders"); err != nil {
		return nil, err
	}
	out := append([]gdrive.Folder(nil), s.folders...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ModifiedAt.After(out[j].ModifiedAt)
	})
	return out, nil
}

func (s *Store) ListFiles(ctx context.Context, folderID string) ([]gdrive.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("list files"); err != nil {
		return nil, err
	}
	var out []gdrive.File
	for _, f := range s.files {
		if f.parent == folderID {
			out = append(out, f.meta)
		}
	}
	return out, nil
}

func (s *Store) WriteArtifact(ctx context.Context, folderID, name, content string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("write artifact"); err != nil {
		return "", err
	}
	s.writes++
	now := s.clock.Now()
	for i := range s.folders {
		if s.folders[i].ID == folderID {
			s.folders[i].ModifiedAt = now
		}
	}
	return s.addFile(folderID, name, content, now), nil
}

func (s *Store) ReadArtifact(ctx context.Context, fileID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("read artifact"); err != nil {
		return "", err
	}
	for _, f := range s.files {
		if f.meta.ID == fileID {
			return f.content, nil
		}
	}
	return "", &gdrive.RemoteStoreError{Op: "read artifact", Err: fmt.Errorf("file %s not found", fileID)}
}

func (s *Store) find(name string) (string, bool, error) {
	var first string
	for _, f := range s.folders {
		if f.Name == name {
			return f.ID, true, nil
		}
		if first == "" && strings.EqualFold(f.Name, name) {
			first = f.ID
		}
	}
	return first, first != "", nil
}

func (s *Store) addFile(folderID, name, content string, modified time.Time) string {
	mime := gdrive.DocumentMimeType
	if gdrive.IsStructured(name) {
		mime = gdrive.JSONMimeType
	}
	id := s.id("file")
	s.files = append(s.files, &file{
		meta:    gdrive.File{ID: id, Name: name, MimeType: mime, ModifiedAt: modified},
		parent:  folderID,
		content: content,
	})
	return id
}

func (s *Store) failure(op string) error {
	if s.fail == nil {
		return nil
	}
	return &gdrive.RemoteStoreError{Op: op, Err: s.fail}
}

func (s *Store) id(kind string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", kind, s.nextID)
}

var _ gdrive.Store = (*Store)(nil)
