package users

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casavia/casavia/internal/platform/httpx"
	"github.com/casavia/casavia/internal/platform/storage"
	"github.com/casavia/casavia/internal/record"
	"github.com/casavia/casavia/internal/shared"
)

// Handler wires the profile endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	blobs   storage.Store
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, blobs storage.Store) *Handler {
	return &Handler{logger: logger, service: service, blobs: blobs}
}

// MountRoutes registers profile routes. The router guards them with the
// authentication middleware.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/profile", h.showProfile)
	r.Post("/profile", h.updateProfile)
}

func (h *Handler) showProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	user, err := h.service.FindByID(r.Context(), actor)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"user": UserResponse(user, h.blobs)})
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		if err := r.ParseForm(); err != nil {
			httpx.BadRequest(w, "malformed form payload")
			return
		}
	}

	user, err := h.service.FindByID(r.Context(), actor)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	input := record.FromForm(r.Form)
	photo, closePhoto := httpx.FormUpload(r, "profile_photo")
	if closePhoto != nil {
		defer closePhoto()
	}

	user, err = h.service.UpdateOrCreate(r.Context(), user, input, photo)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	if _, err := h.service.Save(r.Context(), user); err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"id": user.ID, "message": "updated"})
}

// UserResponse is the public JSON shape of a user.
func UserResponse(u *User, blobs storage.Store) map[string]any {
	photoURL := ""
	if u.ProfilePhoto != "" && blobs != nil {
		photoURL = blobs.URL(u.ProfilePhoto)
	}
	return map[string]any{
		"id":            u.ID,
		"name":          u.Name,
		"title":         u.Title,
		"email":         u.Email,
		"phone_number":  u.PhoneNumber,
		"address":       u.Address,
		"address_2":     u.Address2,
		"city":          u.City,
		"state":         u.State,
		"country":       u.Country,
		"zip_code":      u.ZipCode,
		"about":         u.About,
		"profile_photo": photoURL,
		"landline":      u.Landline,
		"facebook":      u.Facebook,
		"twitter":       u.Twitter,
		"linkedin":      u.LinkedIn,
		"google_plus":   u.GooglePlus,
		"instagram":     u.Instagram,
		"tumbler":       u.Tumbler,
		"created_at":    u.CreatedAt,
		"updated_at":    u.UpdatedAt,
	}
}
