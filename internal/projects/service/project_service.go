package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lpworks/lp-intake-backend/internal/clock"
	"github.com/lpworks/lp-intake-backend/internal/gdrive"
	"github.com/lpworks/lp-intake-backend/internal/logging"
	"github.com/lpworks/lp-intake-backend/internal/projects/domain"
)

// EphemeralStore is the volatile working copy of project records.
type EphemeralStore interface {
	Put(ctx context.Context, rec *domain.Record) (*domain.Record, error)
	Get(ctx context.Context, projectID string) (*domain.Record, error)
	Merge(ctx context.Context, projectID string, patch *domain.Record) (*domain.Record, error)
	List(ctx context.Context) ([]domain.Summary, error)
}

// NumberRegistry assigns human-readable project numbers.
type NumberRegistry interface {
	Get(projectID string) (string, bool)
	GetOrCreate(ctx context.Context, projectID string) (string, error)
}

// ProjectService owns project records across the ephemeral store and Drive.
type ProjectService struct {
	store    EphemeralStore
	durable  gdrive.Store
	registry NumberRegistry
	clock    clock.Clock
	newID    func() string

	listConcurrency int
}

type Option func(*ProjectService)

func WithClock(c clock.Clock) Option {
	return func(s *ProjectService) { s.clock = c }
}

// WithIDSource replaces uuid generation for new project ids.
func WithIDSource(f func() string) Option {
	return func(s *ProjectService) { s.newID = f }
}

func WithListConcurrency(n int) Option {
	return func(s *ProjectService) {
		if n > 0 {
			s.listConcurrency = n
		}
	}
}

func NewProjectService(store EphemeralStore, durable gdrive.Store, registry NumberRegistry, opts ...Option) *ProjectService {
	if durable == nil {
		durable = gdrive.Disabled{}
	}
	s := &ProjectService{
		store:           store,
		durable:         durable,
		registry:        registry,
		clock:           clock.Real(),
		newID:           func() string { return uuid.New().String() },
		listConcurrency: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new project under a fresh id and assigns its number.
func (s *ProjectService) Create(ctx context.Context, rec *domain.Record) (*domain.Record, error) {
	next := rec.Clone()
	if next == nil {
		next = &domain.Record{}
	}
	next.ProjectID = s.newID()
	next.CreatedAt = nil
	next.ProjectFolderID = ""

	number, err := s.registry.GetOrCreate(ctx, next.ProjectID)
	if err != nil {
		return nil, err
	}
	next.ProjectNumber = number

	saved, err := s.store.Put(ctx, next)
	if err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}
	logging.FromContext(ctx).LogInfof("project.create", "created %s (%s)", saved.ProjectID, number)
	return saved, nil
}

// Update merges a partial record into the working copy, rehydrating it
// from Drive first when the ephemeral copy is gone.
func (s *ProjectService) Update(ctx context.Context, projectID string, patch *domain.Record) (*domain.Record, error) {
	if _, err := s.EnsureWorking(ctx, projectID); err != nil {
		return nil, err
	}
	return s.store.Merge(ctx, projectID, patch)
}

// Patch merges into the working copy without rehydration.
func (s *ProjectService) Patch(ctx context.Context, projectID string, patch *domain.Record) (*domain.Record, error) {
	return s.store.Merge(ctx, projectID, patch)
}

// EnsureWorking returns the ephemeral record, re-seeding it from Drive when
// the ephemeral copy has vanished.
func (s *ProjectService) EnsureWorking(ctx context.Context, projectID string) (*domain.Record, error) {
	rec, err := s.store.Get(ctx, projectID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, domain.ErrProjectNotFound) {
		return nil, err
	}

	recovered, ok := s.findInDurable(ctx, projectID)
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	logging.FromContext(ctx).LogInfof("project.rehydrate", "restored %s from drive folder %s", projectID, recovered.ProjectFolderID)
	return s.store.Put(ctx, recovered)
}

func (s *ProjectService) number(ctx context.Context, rec *domain.Record) string {
	if n, ok := s.registry.Get(rec.ProjectID); ok {
		return n
	}
	if rec.ProjectNumber != "" {
		return rec.ProjectNumber
	}
	n, err := s.registry.GetOrCreate(ctx, rec.ProjectID)
	if err != nil {
		logging.FromContext(ctx).LogWarnf("project.number", "no number for %s: %v", rec.ProjectID, err)
		return ""
	}
	return n
}
