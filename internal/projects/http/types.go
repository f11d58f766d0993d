package http

import (
	"context"

	"github.com/lpworks/lp-intake-backend/internal/projects/domain"
	"github.com/lpworks/lp-intake-backend/internal/projects/service"
)

// Projects is the project service surface the handlers call.
type Projects interface {
	Create(ctx context.Context, rec *domain.Record) (*domain.Record, error)
	Resolve(ctx context.Context, projectID string) (*domain.Record, error)
	Update(ctx context.Context, projectID string, patch *domain.Record) (*domain.Record, error)
	List(ctx context.Context) ([]domain.Summary, error)
	Snapshot(ctx context.Context, projectID, prefix string) (*service.ArtifactPair, error)
}

// Handler bundles the dependencies for project HTTP endpoints.
type Handler struct {
	projects Projects
}

func New(projects Projects) *Handler {
	return &Handler{projects: projects}
}

type snapshotReq struct {
	FileNamePrefix string `json:"fileNamePrefix"`
}
