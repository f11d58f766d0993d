package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lpworks/lp-intake-backend/internal/ai"
	"github.com/lpworks/lp-intake-backend/internal/gdrive"
	"github.com/lpworks/lp-intake-backend/internal/logging"
	"github.com/lpworks/lp-intake-backend/internal/projects/domain"
	"github.com/lpworks/lp-intake-backend/internal/projects/service"
)

// OK writes a success envelope. Payload keys sit next to success and message.
func OK(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{"success": true, "message": message}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// Fail writes a failure envelope.
func Fail(c *gin.Context, status int, message string, errs ...string) {
	body := gin.H{"success": false, "message": message}
	if len(errs) > 0 {
		body["errors"] = errs
	}
	c.JSON(status, body)
}

// Error maps err onto the failure envelope. fallback is the message used for
// unexpected errors; their detail is logged, not returned.
func Error(c *gin.Context, operation, fallback string, err error) {
	var (
		verr   *domain.ValidationError
		pre    *domain.PrerequisiteError
		perr   *ai.ParseError
		mirror *service.RemoteMirrorError
		snap   *service.SnapshotError
	)
	log := logging.FromContext(c.Request.Context())

	switch {
	case errors.As(err, &verr):
		Fail(c, http.StatusBadRequest, "validation failed", verr.Messages()...)
	case errors.Is(err, domain.ErrProjectNotFound):
		Fail(c, http.StatusNotFound, "project not found")
	case errors.As(err, &pre):
		Fail(c, http.StatusBadRequest, pre.Error())
	case errors.As(err, &perr):
		log.LogError(operation, err)
		Fail(c, http.StatusInternalServerError, "could not read the AI response", perr.Excerpt)
	case errors.As(err, &mirror):
		DriveFailure(c, operation, "saved locally, but saving to Google Drive failed; retry to mirror it", err)
	case errors.As(err, &snap):
		DriveFailure(c, operation, "saving to Google Drive failed; nothing was changed locally, retry the snapshot", err)
	case errors.Is(err, ai.ErrNotConfigured):
		Fail(c, http.StatusServiceUnavailable, "AI generation is not configured")
	default:
		log.LogError(operation, err)
		Fail(c, http.StatusInternalServerError, fallback)
	}
}

// DriveFailure writes a 500 for a failed Drive write. The cause is logged;
// the caller only learns which Drive operation failed.
func DriveFailure(c *gin.Context, operation, message string, err error) {
	logging.FromContext(c.Request.Context()).LogError(operation, err)

	var errs []string
	var rse *gdrive.RemoteStoreError
	if errors.As(err, &rse) {
		errs = append(errs, "google drive "+rse.Op+" failed")
	}
	Fail(c, http.StatusInternalServerError, message, errs...)
}
