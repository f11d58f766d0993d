package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	httpapi "github.com/lpworks/lp-intake-backend/internal/api/http"
	"github.com/lpworks/lp-intake-backend/internal/projects/format"
)

func (h *Handler) intake(c *gin.Context) {
	var body format.Payload
	if err := c.ShouldBindJSON(&body); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := format.ValidateIntake(&body); err != nil {
		httpapi.Error(c, "project.intake", "failed to save project", err)
		return
	}

	rec, err := h.projects.Create(c.Request.Context(), format.ToInternal(&body))
	if err != nil {
		httpapi.Error(c, "project.intake", "failed to save project", err)
		return
	}

	httpapi.OK(c, http.StatusOK, "project saved", gin.H{
		"project_id":     rec.ProjectID,
		"project_number": rec.ProjectNumber,
	})
}

func (h *Handler) get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		httpapi.Fail(c, http.StatusBadRequest, "project ID is required")
		return
	}

	rec, err := h.projects.Resolve(c.Request.Context(), id)
	if err != nil {
		httpapi.Error(c, "project.get", "failed to get project", err)
		return
	}

	c.JSON(http.StatusOK, format.ToView(rec))
}

func (h *Handler) update(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		httpapi.Fail(c, http.StatusBadRequest, "project ID is required")
		return
	}

	var body format.Payload
	if err := c.ShouldBindJSON(&body); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	rec, err := h.projects.Update(c.Request.Context(), id, format.ToInternal(&body))
	if err != nil {
		httpapi.Error(c, "project.update", "failed to update project", err)
		return
	}

	httpapi.OK(c, http.StatusOK, "project updated", gin.H{"project_id": rec.ProjectID})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.projects.List(c.Request.Context())
	if err != nil {
		httpapi.Error(c, "project.list", "failed to list projects", err)
		return
	}
	httpapi.OK(c, http.StatusOK, "", gin.H{"projects": format.ToSummaryViews(items)})
}

func (h *Handler) snapshot(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		httpapi.Fail(c, http.StatusBadRequest, "project ID is required")
		return
	}

	var body snapshotReq
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		httpapi.Fail(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	pair, err := h.projects.Snapshot(c.Request.Context(), id, body.FileNamePrefix)
	if err != nil {
		httpapi.Error(c, "project.snapshot", "failed to save to Google Drive", err)
		return
	}

	httpapi.OK(c, http.StatusOK, "saved to Google Drive as JSON and readable document", gin.H{
		"project_folder_id": pair.FolderID,
		"json_file_id":      pair.JSONFileID,
		"readable_file_id":  pair.ReadableFileID,
	})
}
