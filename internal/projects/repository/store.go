package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lpworks/lp-intake-backend/internal/clock"
	"github.com/lpworks/lp-intake-backend/internal/logging"
	"github.com/lpworks/lp-intake-backend/internal/projects/domain"
)

// Backend persists working records. Load returns domain.ErrProjectNotFound
// for unknown ids.
type Backend interface {
	Load(ctx context.Context, projectID string) (*domain.Record, error)
	Save(ctx context.Context, rec *domain.Record) error
	List(ctx context.Context) ([]*domain.Record, error)
}

// Store is the working copy of every project. Writes land in process memory
// first and are then pushed to the backend; a backend failure is logged and
// the write still counts for the life of the process.
type Store struct {
	mu      sync.RWMutex
	mem     map[string]*domain.Record
	backend Backend
	clock   clock.Clock
}

func NewStore(backend Backend, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.Real()
	}
	return &Store{
		mem:     make(map[string]*domain.Record),
		backend: backend,
		clock:   clk,
	}
}

// Put upserts a whole record. created_at is kept from the stored record
// (or the input) and set to now only when neither has one.
func (s *Store) Put(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	if rec == nil || rec.ProjectID == "" {
		return nil, fmt.Errorf("%w: project_id is required", domain.ErrInvalidRecord)
	}

	next := rec.Clone()
	now := s.clock.Now().UTC()
	if next.CreatedAt == nil {
		if existing, err := s.Get(ctx, rec.ProjectID); err == nil && existing.CreatedAt != nil {
			next.CreatedAt = existing.CreatedAt
		} else {
			next.CreatedAt = &now
		}
	}
	next.UpdatedAt = &now

	s.store(ctx, next)
	return next.Clone(), nil
}

// Get returns the newest copy known to memory or the backend.
func (s *Store) Get(ctx context.Context, projectID string) (*domain.Record, error) {
	s.mu.RLock()
	mem := s.mem[projectID]
	s.mu.RUnlock()

	var stored *domain.Record
	if s.backend != nil {
		rec, err := s.backend.Load(ctx, projectID)
		switch {
		case err == nil:
			stored = rec
		case errors.Is(err, domain.ErrProjectNotFound):
		default:
			logging.FromContext(ctx).LogWarnf("ephemeral.get", "backend read failed for %s: %v", projectID, err)
		}
	}

	best := newer(mem, stored)
	if best == nil {
		return nil, domain.ErrProjectNotFound
	}
	return best.Clone(), nil
}

// Merge applies a section-scoped partial update to an existing record.
func (s *Store) Merge(ctx context.Context, projectID string, patch *domain.Record) (*domain.Record, error) {
	existing, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	domain.Merge(existing, patch)
	now := s.clock.Now().UTC()
	existing.UpdatedAt = &now

	s.store(ctx, existing)
	return existing.Clone(), nil
}

// List returns slim summaries, newest first.
func (s *Store) List(ctx context.Context) ([]domain.Summary, error) {
	byID := make(map[string]*domain.Record)

	if s.backend != nil {
		recs, err := s.backend.List(ctx)
		if err != nil {
			logging.FromContext(ctx).LogWarnf("ephemeral.list", "backend list failed: %v", err)
		}
		for _, r := range recs {
			byID[r.ProjectID] = r
		}
	}

	s.mu.RLock()
	for id, r := range s.mem {
		byID[id] = newer(r, byID[id])
	}
	s.mu.RUnlock()

	out := make([]domain.Summary, 0, len(byID))
	for _, r := range byID {
		out = append(out, r.Summary())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return unix(out[i].UpdatedAt) > unix(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *Store) store(ctx context.Context, rec *domain.Record) {
	s.mu.Lock()
	s.mem[rec.ProjectID] = rec.Clone()
	s.mu.Unlock()

	if s.backend == nil {
		return
	}
	if err := s.backend.Save(ctx, rec); err != nil {
		logging.FromContext(ctx).LogWarnf("ephemeral.save", "kept %s in memory only: %v", rec.ProjectID, err)
	}
}

func newer(a, b *domain.Record) *domain.Record {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case unix(b.UpdatedAt) > unix(a.UpdatedAt):
		return b
	default:
		return a
	}
}

func unix(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixNano()
}
