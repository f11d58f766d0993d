package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/lpworks/lp-intake-backend/internal/gdrive"
	"github.com/lpworks/lp-intake-backend/internal/logging"
	"github.com/lpworks/lp-intake-backend/internal/projects/domain"
	"golang.org/x/sync/errgroup"
)

// Resolve returns the project as seen through both stores. Drive fields win
// per top-level field; projectID always wins. Drive errors are logged and
// the ephemeral view is returned.
func (s *ProjectService) Resolve(ctx context.Context, projectID string) (*domain.Record, error) {
	log := logging.FromContext(ctx)

	rec, err := s.store.Get(ctx, projectID)
	if errors.Is(err, domain.ErrProjectNotFound) {
		recovered, ok := s.findInDurable(ctx, projectID)
		if !ok {
			return nil, domain.ErrProjectNotFound
		}
		rec = recovered
	} else if err != nil {
		return nil, err
	} else if rec.ProjectFolderID != "" {
		snapshot, err := s.readFolderRecord(ctx, rec.ProjectFolderID)
		if err != nil {
			log.LogWarnf("project.resolve", "using ephemeral copy of %s: %v", projectID, err)
		} else if snapshot != nil {
			domain.Overlay(rec, snapshot)
		}
	}

	rec.ProjectID = projectID
	if rec.ProjectNumber == "" {
		if n, ok := s.registry.Get(projectID); ok {
			rec.ProjectNumber = n
		}
	}
	return rec, nil
}

// List unions ephemeral and Drive summaries (Drive wins per id), attaches a
// project number to each and sorts newest first.
func (s *ProjectService) List(ctx context.Context) ([]domain.Summary, error) {
	byID := make(map[string]domain.Summary)

	temp, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, sum := range temp {
		sum.Source = domain.SourceTemp
		byID[sum.ProjectID] = sum
	}

	for _, rec := range s.durableRecords(ctx) {
		sum := rec.Summary()
		sum.Source = domain.SourceDrive
		byID[sum.ProjectID] = sum
	}

	out := make([]domain.Summary, 0, len(byID))
	for _, sum := range byID {
		rec := &domain.Record{ProjectID: sum.ProjectID, ProjectNumber: sum.ProjectNumber}
		sum.ProjectNumber = s.number(ctx, rec)
		out = append(out, sum)
	}
	sortByRecency(out)
	return out, nil
}

func sortByRecency(list []domain.Summary) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].UpdatedAt, list[j].UpdatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}

// durableRecords reads every project folder under the Drive root.
func (s *ProjectService) durableRecords(ctx context.Context) []*domain.Record {
	log := logging.FromContext(ctx)

	folders, err := s.durable.ListFoldersUnderRoot(ctx)
	if err != nil {
		log.LogWarnf("project.list", "skipping drive projects: %v", err)
		return nil
	}

	var (
		mu  sync.Mutex
		out []*domain.Record
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.listConcurrency)
	for _, f := range folders {
		g.Go(func() error {
			rec, ok := s.folderRecord(gctx, f)
			if !ok {
				return nil
			}
			mu.Lock()
			out = append(out, rec)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// findInDurable scans project folders for one whose recovered id matches.
// Folders carrying the registry's number for the id are checked first.
func (s *ProjectService) findInDurable(ctx context.Context, projectID string) (*domain.Record, bool) {
	folders, err := s.durable.ListFoldersUnderRoot(ctx)
	if err != nil {
		logging.FromContext(ctx).LogWarnf("project.find", "drive unavailable while looking for %s: %v", projectID, err)
		return nil, false
	}

	if n, ok := s.registry.Get(projectID); ok {
		sort.SliceStable(folders, func(i, j int) bool {
			return strings.HasPrefix(folders[i].Name, n+"_") && !strings.HasPrefix(folders[j].Name, n+"_")
		})
	}

	for _, f := range folders {
		rec, ok := s.folderRecord(ctx, f)
		if ok && rec.ProjectID == projectID {
			return rec, true
		}
	}
	return nil, false
}

// folderRecord recovers a project from a "<number>_<service>" folder. When
// no readable snapshot exists the id falls back to "project-<number>".
func (s *ProjectService) folderRecord(ctx context.Context, f gdrive.Folder) (*domain.Record, bool) {
	number, serviceName, ok := ParseFolderName(f.Name)
	if !ok {
		return nil, false
	}

	rec, err := s.readFolderRecord(ctx, f.ID)
	if err != nil {
		logging.FromContext(ctx).LogWarnf("project.folder", "folder %s has no readable snapshot: %v", f.Name, err)
	}
	if rec == nil {
		rec = &domain.Record{}
	}
	if rec.ProjectID == "" {
		rec.ProjectID = "project-" + number
	}
	if rec.ServiceName() == "" {
		if rec.BasicInfo == nil {
			rec.BasicInfo = domain.Fields{}
		}
		rec.BasicInfo[domain.FieldServiceName] = serviceName
	}
	if rec.ProjectNumber == "" {
		rec.ProjectNumber = number
	}
	rec.ProjectFolderID = f.ID
	if !f.CreatedAt.IsZero() {
		created := f.CreatedAt
		rec.CreatedAt = &created
	}
	if !f.ModifiedAt.IsZero() {
		modified := f.ModifiedAt
		rec.UpdatedAt = &modified
	}
	return rec, true
}

// readFolderRecord decodes the newest record snapshot in a folder.
// It returns nil, nil when the folder holds none.
func (s *ProjectService) readFolderRecord(ctx context.Context, folderID string) (*domain.Record, error) {
	files, err := s.durable.ListFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}

	var latest *gdrive.File
	for i := range files {
		if !IsRecordSnapshot(files[i].Name) {
			continue
		}
		if latest == nil || files[i].ModifiedAt.After(latest.ModifiedAt) {
			latest = &files[i]
		}
	}
	if latest == nil {
		return nil, nil
	}

	content, err := s.durable.ReadArtifact(ctx, latest.ID)
	if err != nil {
		return nil, err
	}
	var rec domain.Record
	if err := json.Unmarshal([]byte(content), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
