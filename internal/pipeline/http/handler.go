package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	httpapi "github.com/lpworks/lp-intake-backend/internal/api/http"
	"github.com/lpworks/lp-intake-backend/internal/pipeline"
	"github.com/lpworks/lp-intake-backend/internal/projects/domain"
	"github.com/lpworks/lp-intake-backend/internal/projects/service"
)

// Pipeline is the stage surface the handlers call.
type Pipeline interface {
	Analyze(ctx context.Context, projectID string) (*domain.Analysis, error)
	GenerateQuestions(ctx context.Context, projectID string) ([]domain.Question, error)
	Structure(ctx context.Context, projectID string) (json.RawMessage, error)
	GenerateCopy(ctx context.Context, projectID string) (*domain.LPCopy, error)
	SaveCopy(ctx context.Context, projectID string, edited *domain.LPCopy) (*domain.LPCopy, error)
	FinalizeCopy(ctx context.Context, projectID string, supplied *domain.LPCopy) (*pipeline.Finalized[domain.LPCopy], error)
	GenerateDesignInstruction(ctx context.Context, projectID string) (*domain.DesignInstruction, error)
	SaveDesignInstruction(ctx context.Context, projectID string, edited *domain.DesignInstruction) (*domain.DesignInstruction, error)
	FinalizeDesignInstruction(ctx context.Context, projectID string, supplied *domain.DesignInstruction) (*pipeline.Finalized[domain.DesignInstruction], error)
}

type Handler struct {
	pipe Pipeline
}

func New(pipe Pipeline) *Handler {
	return &Handler{pipe: pipe}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
	rg.POST("/questions", h.questions)
	rg.POST("/structure", h.structure)
	rg.POST("/copy/generate", h.generateCopy)
	rg.POST("/copy/save", h.saveCopy)
	rg.POST("/copy/finalize", h.finalizeCopy)
	rg.POST("/design-instruction/generate", h.generateDesignInstruction)
	rg.POST("/design-instruction/save", h.saveDesignInstruction)
	rg.POST("/design-instruction/finalize", h.finalizeDesignInstruction)
}

type stageReq struct {
	ProjectID         string                    `json:"project_id"`
	Copy              *domain.LPCopy            `json:"copy,omitempty"`
	DesignInstruction *domain.DesignInstruction `json:"design_instruction,omitempty"`
}

// bind reads the request body and requires a project id.
func bind(c *gin.Context) (stageReq, bool) {
	var req stageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "invalid request body", err.Error())
		return req, false
	}
	req.ProjectID = strings.TrimSpace(req.ProjectID)
	if req.ProjectID == "" {
		httpapi.Fail(c, http.StatusBadRequest, "project_id is required")
		return req, false
	}
	return req, true
}

func (h *Handler) analyze(c *gin.Context) {
	req, ok := bind(c)
	if !ok {
		return
	}
	analysis, err := h.pipe.Analyze(c.Request.Context(), req.ProjectID)
	if err != nil {
		httpapi.Error(c, "pipeline.analyze", "analysis failed", err)
		return
	}
	httpapi.OK(c, http.StatusOK, "analysis complete", gin.H{"analysis": analysis})
}

func (h *Handler) questions(c *gin.Context) {
	req, ok := bind(c)
	if !ok {
		return
	}
	questions, err := h.pipe.GenerateQuestions(c.Request.Context(), req.ProjectID)
	if err != nil {
		httpapi.Error(c, "pipeline.questions", "question generation failed", err)
		return
	}
	httpapi.OK(c, http.StatusOK, "questions generated", gin.H{"questions": questions})
}

func (h *Handler) structure(c *gin.Context) {
	req, ok := bind(c)
	if !ok {
		return
	}
	structured, err := h.pipe.Structure(c.Request.Context(), req.ProjectID)
	if err != nil {
		httpapi.Error(c, "pipeline.structure", "structuring failed", err)
		return
	}
	httpapi.OK(c, http.StatusOK, "intake structured", gin.H{"structured_content": structured})
}

func (h *Handler) generateCopy(c *gin.Context) {
	req, ok := bind(c)
	if !ok {
		return
	}
	draft, err := h.pipe.GenerateCopy(c.Request.Context(), req.ProjectID)
	if err != nil {
		httpapi.Error(c, "pipeline.copy.generate", "copy generation failed", err)
		return
	}
	httpapi.OK(c, http.StatusOK, "copy generated", gin.H{"copy": draft})
}

func (h *Handler) saveCopy(c *gin.Context) {
	req, ok := bind(c)
	if !ok {
		return
	}
	saved, err := h.pipe.SaveCopy(c.Request.Context(), req.ProjectID, req.Copy)
	if err != nil {
		httpapi.Error(c, "pipeline.copy.save", "failed to save copy", err)
		return
	}
	httpapi.OK(c, http.StatusOK, "copy saved", gin.H{"copy": saved})
}

func (h *Handler) finalizeCopy(c *gin.Context) {
	req, ok := bind(c)
	if !ok {
		return
	}
	res, err := h.pipe.FinalizeCopy(c.Request.Context(), req.ProjectID, req.Copy)
	if err != nil {
		var mirror *service.RemoteMirrorError
		if errors.As(err, &mirror) {
			httpapi.DriveFailure(c, "pipeline.copy.finalize",
				"copy finalized locally, but saving to Google Drive failed; retry to mirror it", err)
			return
		}
		httpapi.Error(c, "pipeline.copy.finalize", "copy finalization failed", err)
		return
	}
	httpapi.OK(c, http.StatusOK, "copy finalized and saved to Google Drive", gin.H{
		"copy":         res.Content,
		"finalized_at": res.FinalizedAt,
		"artifacts":    res.Artifacts,
	})
}

func (h *Handler) generateDesignInstruction(c *gin.Context) {
	req, ok := bind(c)
	if !ok {
		return
	}
	draft, err := h.pipe.GenerateDesignInstruction(c.Request.Context(), req.ProjectID)
	if err != nil {
		httpapi.Error(c, "pipeline.design.generate", "design instruction generation failed", err)
		return
	}
	httpapi.OK(c, http.StatusOK, "design instruction generated", gin.H{"design_instruction": draft})
}

func (h *Handler) saveDesignInstruction(c *gin.Context) {
	req, ok := bind(c)
	if !ok {
		return
	}
	saved, err := h.pipe.SaveDesignInstruction(c.Request.Context(), req.ProjectID, req.DesignInstruction)
	if err != nil {
		httpapi.Error(c, "pipeline.design.save", "failed to save design instruction", err)
		return
	}
	httpapi.OK(c, http.StatusOK, "design instruction saved", gin.H{"design_instruction": saved})
}

func (h *Handler) finalizeDesignInstruction(c *gin.Context) {
	req, ok := bind(c)
	if !ok {
		return
	}
	res, err := h.pipe.FinalizeDesignInstruction(c.Request.Context(), req.ProjectID, req.DesignInstruction)
	if err != nil {
		var mirror *service.RemoteMirrorError
		if errors.As(err, &mirror) {
			httpapi.DriveFailure(c, "pipeline.design.finalize",
				"design instruction finalized locally, but saving to Google Drive failed; retry to mirror it", err)
			return
		}
		httpapi.Error(c, "pipeline.design.finalize", "design instruction finalization failed", err)
		return
	}
	httpapi.OK(c, http.StatusOK, "design instruction finalized and saved to Google Drive", gin.H{
		"design_instruction": res.Content,
		"finalized_at":       res.FinalizedAt,
		"artifacts":          res.Artifacts,
	})
}
