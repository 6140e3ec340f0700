package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cvbuilder-backend/internal/account"
	googleauth "cvbuilder-backend/internal/auth"
	"cvbuilder-backend/internal/documents"
	"cvbuilder-backend/internal/enhance"
	"cvbuilder-backend/internal/exports"
	"cvbuilder-backend/internal/shared/config"
	"cvbuilder-backend/internal/shared/metrics"
	"cvbuilder-backend/internal/shared/server/middleware"
	"cvbuilder-backend/internal/shared/server/respond"
	"cvbuilder-backend/internal/uploads"
	"cvbuilder-backend/internal/usage"
	"cvbuilder-backend/internal/users"
	"cvbuilder-backend/internal/wizard"
)

// RouterDeps carries the wired handlers into router construction.
type RouterDeps struct {
	Config           config.Config
	DocumentsHandler *documents.Handler
	WizardHandler    *wizard.Handler
	ExportsHandler   *exports.Handler
	EnhanceHandler   *enhance.Handler
	UsersHandler     *users.Handler
	AccountHandler   *account.Handler
	UsageHandler     *usage.Handler
	GoogleAuth       *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.GET("/metrics", metrics.Handler())

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.DocumentsHandler != nil {
		deps.DocumentsHandler.RegisterRoutes(api)
	}
	if deps.WizardHandler != nil {
		deps.WizardHandler.RegisterRoutes(api)
	}
	if deps.ExportsHandler != nil {
		deps.ExportsHandler.RegisterRoutes(api)
	}
	if deps.EnhanceHandler != nil {
		deps.EnhanceHandler.RegisterRoutes(api)
	}
	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterRoutes(api)
	}
	uploads.RegisterRoutes(api)
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
		if deps.Config.Env == "dev" || deps.Config.Env == "local" {
			deps.UsageHandler.RegisterDevRoutes(api)
		}
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
