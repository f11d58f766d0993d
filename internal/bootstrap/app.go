package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/lpworks/lp-intake-backend/config"
	"github.com/lpworks/lp-intake-backend/internal/ai"
	"github.com/lpworks/lp-intake-backend/internal/clock"
	"github.com/lpworks/lp-intake-backend/internal/gdrive"
	"github.com/lpworks/lp-intake-backend/internal/logging"
	"github.com/lpworks/lp-intake-backend/internal/pipeline"
	"github.com/lpworks/lp-intake-backend/internal/projects/registry"
	"github.com/lpworks/lp-intake-backend/internal/projects/repository"
	"github.com/lpworks/lp-intake-backend/internal/projects/service"
)

// App holds the wired services shared by the API server and the worker CLI.
type App struct {
	Config   *config.Config
	Clock    clock.Clock
	Redis    *redis.Client
	Drive    gdrive.Store
	Registry *registry.Registry
	Projects *service.ProjectService
	Pipeline *pipeline.Service
	AI       ai.Generator
}

// NewApp builds every service from cfg. Drive and the AI collaborator are
// optional; without them writes to Drive and generation fail per call.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.FromContext(ctx)
	app := &App{Config: cfg, Clock: clock.Real()}

	if cfg.Storage.EphemeralBackend == config.BackendRedis || cfg.Storage.RegistryBackend == config.BackendRedis {
		client, err := OpenRedis(ctx, RedisOptions{Config: cfg.Redis})
		if err != nil {
			return nil, err
		}
		app.Redis = client
	}

	var backend repository.Backend
	switch cfg.Storage.EphemeralBackend {
	case config.BackendRedis:
		backend = repository.NewRedisBackend(app.Redis, cfg.Redis.TTL)
	default:
		backend = repository.NewFileBackend(cfg.Storage.EphemeralDir)
	}
	store := repository.NewStore(backend, app.Clock)

	var regStorage registry.Storage
	switch cfg.Storage.RegistryBackend {
	case config.BackendRedis:
		regStorage = registry.NewRedisStorage(app.Redis)
	default:
		regStorage = registry.NewFileStorage(cfg.Storage.RegistryPath)
	}
	app.Registry = registry.New(ctx, regStorage, app.Clock)

	app.Drive = gdrive.Disabled{}
	if cfg.Drive.Enabled() {
		drive, err := newDrive(ctx, cfg.Drive)
		if err != nil {
			return nil, err
		}
		app.Drive = drive
	} else {
		log.LogWarn("bootstrap.drive", "Google Drive credentials not set; durable writes are disabled")
	}

	if cfg.AI.APIKey != "" {
		gen, err := ai.NewGeminiClient(ctx, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Timeout)
		if err != nil {
			return nil, err
		}
		app.AI = gen
	} else {
		log.LogWarn("bootstrap.ai", "GEMINI_API_KEY not set; pipeline generation is disabled")
	}

	app.Projects = service.NewProjectService(store, app.Drive, app.Registry, service.WithClock(app.Clock))
	app.Pipeline = pipeline.NewService(app.Projects, app.AI, app.Clock)
	return app, nil
}

func newDrive(ctx context.Context, cfg config.DriveConfig) (*gdrive.Client, error) {
	creds, err := secret(cfg.CredentialsJSON, cfg.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("drive credentials: %w", err)
	}
	token, err := secret(cfg.TokenJSON, cfg.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("drive token: %w", err)
	}
	return gdrive.New(ctx, gdrive.Config{
		CredentialsJSON:   creds,
		TokenJSON:         token,
		RootFolderID:      cfg.RootFolderID,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
	})
}

// secret prefers the inline value over the file.
func secret(inline, path string) ([]byte, error) {
	if inline != "" {
		return []byte(inline), nil
	}
	if path == "" {
		return nil, nil
	}
	return os.ReadFile(path)
}

func (a *App) Close() error {
	if a.Redis != nil {
		return a.Redis.Close()
	}
	return nil
}
