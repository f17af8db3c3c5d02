package app

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/casavia/casavia/internal/auth"
	"github.com/casavia/casavia/internal/cards"
	"github.com/casavia/casavia/internal/observability"
	"github.com/casavia/casavia/internal/properties"
	"github.com/casavia/casavia/internal/rbac"
	"github.com/casavia/casavia/internal/shared"
	"github.com/casavia/casavia/internal/users"
	"github.com/casavia/casavia/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	SessionManager     *shared.SessionManager
	AuthHandler        *auth.Handler
	UsersHandler       *users.Handler
	CardsHandler       *cards.Handler
	PropertiesHandler  *properties.Handler
	PermissionsHandler *rbac.PermissionsHandler
	JobsHandler        *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	params.AuthHandler.MountPublicRoutes(r)
	params.PropertiesHandler.MountPublicRoutes(r)

	r.Group(func(r chi.Router) {
		r.Use(RequireAuth)
		params.AuthHandler.MountRoutes(r)
		params.UsersHandler.MountRoutes(r)
		params.CardsHandler.MountRoutes(r)
		params.PropertiesHandler.MountRoutes(r)
		if params.PermissionsHandler != nil {
			r.Route("/permissions", params.PermissionsHandler.MountRoutes)
		}
		if params.JobsHandler != nil {
			r.Route("/jobs", params.JobsHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	// Local blob storage is served straight from disk; S3 URLs point at
	// the bucket and never reach this route.
	if params.Config != nil && params.Config.StorageDriver == "local" {
		prefix := strings.TrimSuffix(params.Config.StorageBaseURL, "/") + "/"
		fileServer := http.StripPrefix(prefix, http.FileServer(http.Dir(params.Config.StorageBasePath)))
		r.Handle(prefix+"*", blobCacheHandler(fileServer))
	}

	return r
}

// blobCacheHandler wraps the blob file server with Cache-Control headers.
func blobCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
