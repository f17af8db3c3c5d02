package rbac

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casavia/casavia/internal/platform/httpx"
	"github.com/casavia/casavia/internal/shared"
)

// PermissionsHandler exposes the permission catalogue to administrators.
type PermissionsHandler struct {
	logger  *slog.Logger
	service *Service
	rbac    *Middleware
}

// NewPermissionsHandler builds a PermissionsHandler instance.
func NewPermissionsHandler(logger *slog.Logger, service *Service, rbac *Middleware) *PermissionsHandler {
	return &PermissionsHandler{logger: logger, service: service, rbac: rbac}
}

// MountRoutes registers permission routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermUsersView))
		r.Get("/", h.listPermissions)
	})
}

func (h *PermissionsHandler) listPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.service.ListPermissions(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	out := make([]map[string]any, 0, len(perms))
	for _, p := range perms {
		out = append(out, map[string]any{"id": p.ID, "name": p.Name})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"permissions": out})
}
