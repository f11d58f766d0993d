package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpworks/lp-intake-backend/config"
	"github.com/lpworks/lp-intake-backend/internal/gdrive"
)

func fileConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Storage: config.StorageConfig{
			EphemeralBackend: config.BackendFile,
			EphemeralDir:     filepath.Join(dir, "projects"),
			RegistryBackend:  config.BackendFile,
			RegistryPath:     filepath.Join(dir, "project_numbers.json"),
		},
	}
}

func request(t *testing.T, r http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(rr, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return rr.Code, out
}

func TestBuildRouter_WithoutRemoteServices(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := NewApp(context.Background(), fileConfig(t))
	require.NoError(t, err)
	defer app.Close()
	assert.IsType(t, gdrive.Disabled{}, app.Drive)
	assert.Nil(t, app.Redis)

	r := BuildRouter(RouterDeps{ServiceName: "lp", Version: "test", CORSOrigins: []string{"http://localhost:3000"}, App: app})

	status, body := request(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"redis": "disabled", "drive": "disabled"}, body["dependencies"])

	status, body = request(t, r, http.MethodPost, "/api/v1/intake",
		`{"basicInfo": {"companyName": "Acme", "serviceName": "Widget"}}`)
	require.Equal(t, http.StatusOK, status)
	id := body["project_id"].(string)
	assert.NotEmpty(t, id)

	status, body = request(t, r, http.MethodPost, "/api/v1/pipeline/analyze", `{"project_id": "`+id+`"}`)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, false, body["success"])

	status, body = request(t, r, http.MethodPost, "/api/v1/project/"+id+"/snapshot", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, body["message"], "retry the snapshot")
}

func TestNewApp_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := fileConfig(t)
	cfg.Storage.EphemeralBackend = config.BackendRedis
	cfg.Storage.RegistryBackend = config.BackendRedis
	cfg.Redis.Addr = mr.Addr()

	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	defer app.Close()
	require.NotNil(t, app.Redis)

	rec, err := app.Projects.Create(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, mr.Exists("lp:project:"+rec.ProjectID))
	assert.True(t, mr.Exists("lp:registry"))
}

func TestOpenRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := OpenRedis(context.Background(), RedisOptions{Config: config.RedisConfig{Addr: addr}})
	assert.Error(t, err)
}

func TestBuildRouter_IntakeAPIKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := NewApp(context.Background(), fileConfig(t))
	require.NoError(t, err)
	r := BuildRouter(RouterDeps{App: app, IntakeAPIKey: "k"})

	status, _ := request(t, r, http.MethodPost, "/api/v1/intake", `{"basicInfo": {"companyName": "A", "serviceName": "B"}}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = request(t, r, http.MethodGet, "/api/v1/projects", "")
	assert.Equal(t, http.StatusOK, status)
}
