package bootstrap

import (
	"context"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/lpworks/lp-intake-backend/internal/api/http"
	"github.com/lpworks/lp-intake-backend/internal/api/http/middleware"
	authmw "github.com/lpworks/lp-intake-backend/internal/auth/middleware"
	"github.com/lpworks/lp-intake-backend/internal/gdrive"
	pipelinehttp "github.com/lpworks/lp-intake-backend/internal/pipeline/http"
	projectshttp "github.com/lpworks/lp-intake-backend/internal/projects/http"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins []string
	App         *App
	// Auth enables bearer-token checks on /api/v1 when non-nil.
	Auth *auth.Client
	// IntakeAPIKey, when set, is required as X-API-Key on POST /intake.
	IntakeAPIKey string
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	if len(dep.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     dep.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID, middleware.HeaderAPIKey},
			ExposeHeaders:    []string{middleware.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dependencyChecks(dep.App)...)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	if dep.Auth != nil {
		api.Use(authmw.FirebaseAuthMiddleware(dep.Auth))
	}

	var intakeGuards []gin.HandlerFunc
	if dep.IntakeAPIKey != "" {
		intakeGuards = append(intakeGuards, middleware.APIKeyMiddleware(dep.IntakeAPIKey))
	}
	projectshttp.New(dep.App.Projects).Register(api, intakeGuards...)
	pipelinehttp.New(dep.App.Pipeline).Register(api.Group("/pipeline"))

	return r
}

func dependencyChecks(app *App) []httpapi.DependencyCheck {
	redisCheck := httpapi.DependencyCheck{Name: "redis"}
	if app.Redis != nil {
		redisCheck.Ping = func(ctx context.Context) error { return app.Redis.Ping(ctx).Err() }
	}
	driveCheck := httpapi.DependencyCheck{Name: "drive"}
	if client, ok := app.Drive.(*gdrive.Client); ok {
		driveCheck.Ping = client.Ping
	}
	return []httpapi.DependencyCheck{redisCheck, driveCheck}
}
