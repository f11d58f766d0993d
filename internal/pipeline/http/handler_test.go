package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lpworks/lp-intake-backend/internal/ai"
	"github.com/lpworks/lp-intake-backend/internal/gdrive"
	"github.com/lpworks/lp-intake-backend/internal/pipeline"
	"github.com/lpworks/lp-intake-backend/internal/projects/domain"
	"github.com/lpworks/lp-intake-backend/internal/projects/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPipeline returns err from every call, or fixed results when err is nil.
type stubPipeline struct {
	err      error
	gotID    string
	gotCopy  *domain.LPCopy
	finalErr error
}

func (s *stubPipeline) Analyze(_ context.Context, id string) (*domain.Analysis, error) {
	s.gotID = id
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Analysis{Summary: "ok"}, nil
}

func (s *stubPipeline) GenerateQuestions(_ context.Context, id string) ([]domain.Question, error) {
	s.gotID = id
	return []domain.Question{{Question: "q", Priority: domain.PriorityLow}}, s.err
}

func (s *stubPipeline) Structure(_ context.Context, id string) (json.RawMessage, error) {
	s.gotID = id
	return json.RawMessage(`{"hero":"x"}`), s.err
}

func (s *stubPipeline) GenerateCopy(_ context.Context, id string) (*domain.LPCopy, error) {
	s.gotID = id
	if s.err != nil {
		return nil, s.err
	}
	return &domain.LPCopy{Hero: domain.Hero{Headline: "h"}}, nil
}

func (s *stubPipeline) SaveCopy(_ context.Context, id string, c *domain.LPCopy) (*domain.LPCopy, error) {
	s.gotID, s.gotCopy = id, c
	return c, s.err
}

func (s *stubPipeline) FinalizeCopy(_ context.Context, id string, c *domain.LPCopy) (*pipeline.Finalized[domain.LPCopy], error) {
	s.gotID, s.gotCopy = id, c
	res := &pipeline.Finalized[domain.LPCopy]{Content: c, FinalizedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)}
	if s.finalErr != nil {
		return res, s.finalErr
	}
	res.Artifacts = &service.ArtifactPair{FolderID: "f1", JSONFileID: "j1", ReadableFileID: "r1"}
	return res, nil
}

func (s *stubPipeline) GenerateDesignInstruction(_ context.Context, id string) (*domain.DesignInstruction, error) {
	s.gotID = id
	return &domain.DesignInstruction{}, s.err
}

func (s *stubPipeline) SaveDesignInstruction(_ context.Context, id string, d *domain.DesignInstruction) (*domain.DesignInstruction, error) {
	s.gotID = id
	return d, s.err
}

func (s *stubPipeline) FinalizeDesignInstruction(_ context.Context, id string, d *domain.DesignInstruction) (*pipeline.Finalized[domain.DesignInstruction], error) {
	s.gotID = id
	if s.finalErr != nil {
		return &pipeline.Finalized[domain.DesignInstruction]{Content: d}, s.finalErr
	}
	return &pipeline.Finalized[domain.DesignInstruction]{Content: d, Artifacts: &service.ArtifactPair{FolderID: "f1"}}, nil
}

func serve(t *testing.T, stub *stubPipeline, path, body string) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(stub).Register(r.Group("/api/v1/pipeline"))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/pipeline"+path, bytes.NewBufferString(body)))

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return rr.Code, out
}

func TestHandler_RequiresProjectID(t *testing.T) {
	for _, path := range []string{"/analyze", "/questions", "/structure", "/copy/generate", "/copy/save",
		"/copy/finalize", "/design-instruction/generate", "/design-instruction/save", "/design-instruction/finalize"} {
		t.Run(strings.TrimPrefix(path, "/"), func(t *testing.T) {
			status, body := serve(t, &stubPipeline{}, path, `{"project_id": "  "}`)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "project_id is required", body["message"])
		})
	}

	status, _ := serve(t, &stubPipeline{}, "/analyze", `not json`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHandler_Analyze(t *testing.T) {
	stub := &stubPipeline{}
	status, body := serve(t, stub, "/analyze", `{"project_id": "p1"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "p1", stub.gotID)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "ok", body["analysis"].(map[string]any)["summary"])
}

func TestHandler_StageErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"prerequisite", &domain.PrerequisiteError{Stage: "design instruction generation", Missing: "a finalized copy"}, http.StatusBadRequest},
		{"not found", domain.ErrProjectNotFound, http.StatusNotFound},
		{"parse", &ai.ParseError{Stage: "copy", Excerpt: "nope", Err: errors.New("bad")}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := serve(t, &stubPipeline{err: tt.err}, "/copy/generate", `{"project_id": "p1"}`)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestHandler_FinalizeCopy(t *testing.T) {
	t.Run("passes the supplied copy", func(t *testing.T) {
		stub := &stubPipeline{}
		status, body := serve(t, stub, "/copy/finalize", `{"project_id": "p1", "copy": {"hero": {"headline": "Final"}}}`)
		require.Equal(t, http.StatusOK, status)
		require.NotNil(t, stub.gotCopy)
		assert.Equal(t, "Final", stub.gotCopy.Hero.Headline)
		assert.Equal(t, "j1", body["artifacts"].(map[string]any)["json_file_id"])
	})

	t.Run("drive failure after local finalize", func(t *testing.T) {
		stub := &stubPipeline{finalErr: &service.RemoteMirrorError{Err: errors.New("quota")}}
		status, body := serve(t, stub, "/copy/finalize", `{"project_id": "p1"}`)
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, false, body["success"])
		assert.Contains(t, body["message"], "finalized locally")
		assert.Nil(t, stub.gotCopy)
	})
}

func TestHandler_FinalizeDesignInstruction_MirrorFailure(t *testing.T) {
	stub := &stubPipeline{finalErr: &service.RemoteMirrorError{Err: errors.New("quota")}}
	status, body := serve(t, stub, "/design-instruction/finalize", `{"project_id": "p1"}`)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, body["message"], "design instruction finalized locally")
}

func TestHandler_FinalizeHidesDriveDetail(t *testing.T) {
	cause := &gdrive.RemoteStoreError{
		Op:  "find folder",
		Err: errors.New(`oauth2: "invalid_grant" refresh_token=1//0gXYZ`),
	}
	for _, path := range []string{"/copy/finalize", "/design-instruction/finalize"} {
		t.Run(path, func(t *testing.T) {
			stub := &stubPipeline{finalErr: &service.RemoteMirrorError{Err: cause}}
			status, body := serve(t, stub, path, `{"project_id": "p1"}`)
			assert.Equal(t, http.StatusInternalServerError, status)
			assert.Equal(t, []any{"google drive find folder failed"}, body["errors"])
			assert.NotContains(t, fmt.Sprint(body), "invalid_grant")
		})
	}
}
