package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lpworks/lp-intake-backend/internal/logging"
	"github.com/lpworks/lp-intake-backend/internal/projects/domain"
	"github.com/lpworks/lp-intake-backend/internal/projects/render"
)

// Artifact name prefixes, numbered by pipeline stage.
const (
	PrefixClientIntake      = "01_client_intake"
	PrefixHearingIntake     = "02_hearing_intake"
	PrefixFinalizedCopy     = "03_finalized_copy"
	PrefixDesignInstruction = "04_design_instruction"

	untitledService = "untitled"
)

// Stage artifacts that are not full record snapshots, including names
// written by earlier releases.
var nonRecordPrefixes = []string{
	PrefixFinalizedCopy,
	PrefixDesignInstruction,
	"03_確定LPコピー",
	"04_デザイン指示",
}

// IsRecordSnapshot reports whether an artifact holds a full project record.
func IsRecordSnapshot(name string) bool {
	if !strings.HasSuffix(strings.ToLower(name), ".json") {
		return false
	}
	for _, p := range nonRecordPrefixes {
		if strings.HasPrefix(name, p) {
			return false
		}
	}
	return true
}

// FolderName is the Drive folder name of a project.
func FolderName(number, serviceName string) string {
	if strings.TrimSpace(serviceName) == "" {
		serviceName = untitledService
	}
	return number + "_" + serviceName
}

// ParseFolderName splits "<number>_<service>"; the service part may itself
// contain underscores.
func ParseFolderName(name string) (number, serviceName string, ok bool) {
	parts := strings.SplitN(name, "_", 2)
	if len(parts) < 2 || parts[0] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// ArtifactPair identifies the two files written for one stage.
type ArtifactPair struct {
	FolderID       string `json:"project_folder_id"`
	JSONFileID     string `json:"json_file_id"`
	ReadableFileID string `json:"readable_file_id"`
}

// RemoteMirrorError means local state was saved but Drive was not updated.
type RemoteMirrorError struct {
	Err error
}

func (e *RemoteMirrorError) Error() string {
	return "saved locally but not to google drive: " + e.Err.Error()
}

func (e *RemoteMirrorError) Unwrap() error { return e.Err }

// SnapshotError means a snapshot could not be written to Drive. A snapshot
// changes no local state, so there is nothing to mirror later.
type SnapshotError struct {
	Err error
}

func (e *SnapshotError) Error() string {
	return "snapshot not written to google drive: " + e.Err.Error()
}

func (e *SnapshotError) Unwrap() error { return e.Err }

// Snapshot writes the full working record to Drive under prefix.
func (s *ProjectService) Snapshot(ctx context.Context, projectID, prefix string) (*ArtifactPair, error) {
	if strings.TrimSpace(prefix) == "" {
		prefix = PrefixClientIntake
	}

	rec, err := s.EnsureWorking(ctx, projectID)
	if err != nil {
		return nil, err
	}
	rec.ProjectNumber = s.number(ctx, rec)

	pair, err := s.WriteArtifacts(ctx, rec, prefix, nil, func(r *domain.Record) string {
		return render.Record(r, s.clock.Now())
	})
	if err != nil {
		return nil, &SnapshotError{Err: err}
	}
	return pair, nil
}

// WriteArtifacts resolves the project's folder and writes "<prefix>.json"
// and "<prefix>". A nil structured value writes the record itself. New
// folder links are written back to the ephemeral store.
func (s *ProjectService) WriteArtifacts(ctx context.Context, rec *domain.Record, prefix string, structured any, readable func(*domain.Record) string) (*ArtifactPair, error) {
	log := logging.FromContext(ctx)

	if rec.ProjectNumber == "" {
		rec.ProjectNumber = s.number(ctx, rec)
	}
	folderID, err := s.resolveFolder(ctx, rec)
	if err != nil {
		return nil, err
	}
	if folderID != rec.ProjectFolderID {
		rec.ProjectFolderID = folderID
		if _, err := s.store.Merge(ctx, rec.ProjectID, &domain.Record{ProjectFolderID: folderID}); err != nil {
			log.LogWarnf("project.link_folder", "could not record folder %s for %s: %v", folderID, rec.ProjectID, err)
		}
	}

	if structured == nil {
		structured = rec
	}
	data, err := json.MarshalIndent(structured, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", prefix, err)
	}

	jsonID, err := s.durable.WriteArtifact(ctx, folderID, prefix+".json", string(data))
	if err != nil {
		return nil, err
	}
	readableID, err := s.durable.WriteArtifact(ctx, folderID, prefix, readable(rec))
	if err != nil {
		return nil, err
	}

	log.LogInfof("project.artifacts", "wrote %s for %s to folder %s", prefix, rec.ProjectID, folderID)
	return &ArtifactPair{FolderID: folderID, JSONFileID: jsonID, ReadableFileID: readableID}, nil
}

// resolveFolder looks the folder up by name first. The cached id is used
// when the name no longer matches (e.g. the service was renamed), and a
// new folder is created only when neither exists.
func (s *ProjectService) resolveFolder(ctx context.Context, rec *domain.Record) (string, error) {
	name := FolderName(rec.ProjectNumber, rec.ServiceName())

	id, found, err := s.durable.FindFolder(ctx, name)
	if err != nil {
		return "", err
	}
	if found {
		return id, nil
	}
	if rec.ProjectFolderID != "" {
		return rec.ProjectFolderID, nil
	}
	return s.durable.CreateFolder(ctx, name)
}
