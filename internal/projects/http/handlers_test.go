package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lpworks/lp-intake-backend/internal/clock"
	"github.com/lpworks/lp-intake-backend/internal/gdrive/drivetest"
	"github.com/lpworks/lp-intake-backend/internal/projects/registry"
	"github.com/lpworks/lp-intake-backend/internal/projects/repository"
	"github.com/lpworks/lp-intake-backend/internal/projects/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *gin.Engine
	drive  *drivetest.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clk := clock.Fake(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))
	drive := drivetest.New(clk)
	reg := registry.New(context.Background(), registry.NewFileStorage(filepath.Join(t.TempDir(), "numbers.json")), clk)
	n := 0
	svc := service.NewProjectService(repository.NewStore(nil, clk), drive, reg,
		service.WithClock(clk),
		service.WithIDSource(func() string {
			n++
			return fmt.Sprintf("p%d", n)
		}),
	)

	r := gin.New()
	New(svc).Register(r.Group("/api/v1"))
	return &testServer{router: r, drive: drive}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, httptest.NewRequest(method, path, &buf))

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return rr.Code, out
}

var intakeBody = map[string]any{
	"basicInfo": map[string]any{"companyName": "Acme", "serviceName": "Widget"},
	"goals":     map[string]any{"mainPurpose": "contact"},
}

func TestIntake(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/api/v1/intake", intakeBody)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "p1", body["project_id"])
	assert.Equal(t, "2026-001", body["project_number"])

	status, body = s.do(t, http.MethodPost, "/api/v1/intake", map[string]any{"basicInfo": map[string]any{"companyName": "Acme"}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, []any{"service name is required"}, body["errors"])
}

func TestGetAndUpdate(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/v1/intake", intakeBody)

	status, body := s.do(t, http.MethodPut, "/api/v1/project/p1", map[string]any{
		"targetInfo": map[string]any{"mainTarget": "SMBs"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	status, body = s.do(t, http.MethodGet, "/api/v1/project/p1", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "p1", body["project_id"])
	assert.Equal(t, "2026-001", body["project_number"])
	assert.Equal(t, "absent", body["copy_stage"])

	basic := body["basicInfo"].(map[string]any)
	assert.Equal(t, "Acme", basic["companyName"])
	target := body["targetInfo"].(map[string]any)
	assert.Equal(t, "SMBs", target["mainTarget"])
	assert.Equal(t, "", target["targetIssues"])
	goals := body["goals"].(map[string]any)
	assert.Equal(t, "contact", goals["mainPurpose"])
}

func TestProjectNotFound(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/api/v1/project/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "project not found", body["message"])

	status, _ = s.do(t, http.MethodPut, "/api/v1/project/nope", map[string]any{"goals": map[string]any{}})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.do(t, http.MethodPost, "/api/v1/project/nope/snapshot", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestList(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/v1/intake", intakeBody)

	status, body := s.do(t, http.MethodGet, "/api/v1/projects", nil)
	require.Equal(t, http.StatusOK, status)
	projects := body["projects"].([]any)
	require.Len(t, projects, 1)
	entry := projects[0].(map[string]any)
	assert.Equal(t, "p1", entry["project_id"])
	assert.Equal(t, "temp", entry["source"])
	assert.Equal(t, "Widget", entry["basicInfo"].(map[string]any)["serviceName"])
}

func TestSnapshot(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/v1/intake", intakeBody)

	status, body := s.do(t, http.MethodPost, "/api/v1/project/p1/snapshot", map[string]any{"fileNamePrefix": "02_hearing_intake"})
	require.Equal(t, http.StatusOK, status)
	folderID := body["project_folder_id"].(string)
	files := s.drive.Files(folderID)
	require.Len(t, files, 2)
	assert.Equal(t, "02_hearing_intake.json", files[0].Name)
	assert.Equal(t, body["json_file_id"], files[0].ID)

	s.drive.SetFailure(errors.New("drive down"))
	status, body = s.do(t, http.MethodPost, "/api/v1/project/p1/snapshot", nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "nothing was changed locally")
	assert.NotContains(t, fmt.Sprint(body), "drive down")
}
