package properties

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"

	"github.com/casavia/casavia/internal/platform/httpx"
	"github.com/casavia/casavia/internal/platform/storage"
	"github.com/casavia/casavia/internal/record"
	"github.com/casavia/casavia/internal/shared"
)

// Handler wires the property listing endpoints. Listings are public to
// read; mutations require an authenticated actor and are further gated
// by the save-time permission checks.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	blobs     storage.Store
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, blobs storage.Store) *Handler {
	return &Handler{logger: logger, service: service, blobs: blobs, validator: httpx.NewValidator()}
}

// MountPublicRoutes registers the read-only listing routes.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/properties", h.index)
	r.Get("/properties/{slug}", h.show)
}

// MountRoutes registers the mutating routes. The router guards them with
// the authentication middleware.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/properties", h.store)
	r.Post("/properties/{slug}/edit", h.edit)
	r.Delete("/properties/{slug}", h.destroy)
}

type propertyForm struct {
	Title  string `form:"title" validate:"required"`
	Price  string `form:"price" validate:"required"`
	Type   string `form:"type" validate:"required"`
	Status string `form:"status" validate:"required"`
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	out := make([]map[string]any, 0, len(list))
	for i := range list {
		out = append(out, PropertyResponse(&list[i], h.blobs))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"properties": out})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	property, err := h.service.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"property": PropertyResponse(property, h.blobs)})
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	input, gallery, closeGallery, err := h.decodeListing(r)
	if err != nil {
		httpx.BadRequest(w, "malformed request body")
		return
	}
	if closeGallery != nil {
		defer closeGallery()
	}

	form := propertyForm{
		Title:  cast.ToString(input["title"]),
		Price:  cast.ToString(input["price"]),
		Type:   cast.ToString(input["type"]),
		Status: cast.ToString(input["status"]),
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Error(w, validationError(err))
		return
	}

	property, err := h.service.UpdateOrCreate(r.Context(), nil, input, gallery)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	property, err = h.service.Save(r.Context(), property, actor)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"id": property.ID, "slug": property.Slug, "message": "created",
	})
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	property, err := h.service.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpx.Error(w, err)
		return
	}
	input, gallery, closeGallery, err := h.decodeListing(r)
	if err != nil {
		httpx.BadRequest(w, "malformed request body")
		return
	}
	if closeGallery != nil {
		defer closeGallery()
	}

	property, err = h.service.UpdateOrCreate(r.Context(), property, input, gallery)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	property, err = h.service.Save(r.Context(), property, actor)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"id": property.ID, "message": "updated"})
}

func (h *Handler) destroy(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "slug"), actor); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Property deleted"})
}

// decodeListing reads the listing payload: multipart forms carry gallery
// files alongside the fields, JSON bodies carry fields only.
func (h *Handler) decodeListing(r *http.Request) (record.Values, []storage.Upload, func(), error) {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var input record.Values
		if err := httpx.DecodeJSON(r, &input); err != nil {
			return nil, nil, nil, err
		}
		return input, nil, nil, nil
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		if err := r.ParseForm(); err != nil {
			return nil, nil, nil, err
		}
	}
	gallery, closeGallery := httpx.FormUploads(r, "gallery")
	return record.FromForm(r.Form), gallery, closeGallery, nil
}

// PropertyResponse is the public JSON shape of a listing. Enum codes are
// rendered back as identifiers and gallery paths as public URLs.
func PropertyResponse(p *Property, blobs storage.Store) map[string]any {
	gallery := make([]string, 0, len(p.Gallery))
	for _, path := range p.Gallery {
		if blobs != nil {
			gallery = append(gallery, blobs.URL(path))
		}
	}
	return map[string]any{
		"id":             p.ID,
		"user_id":        p.UserID,
		"title":          p.Title,
		"description":    p.Description,
		"price":          p.Price,
		"address":        p.Address,
		"city":           p.City,
		"state":          p.State,
		"bedrooms":       p.Bedrooms,
		"bathrooms":      p.Bathrooms,
		"area":           p.Area,
		"type":           TypeName(p.Type),
		"status":         StatusName(p.Status),
		"other_features": FeatureNames(p.OtherFeatures),
		"gallery":        gallery,
		"slug":           p.Slug,
		"created_at":     p.CreatedAt,
		"updated_at":     p.UpdatedAt,
	}
}

func validationError(err error) error {
	fields, ok := err.(validator.ValidationErrors)
	if !ok {
		return shared.NewValidation(err.Error())
	}
	missing := make([]string, 0, len(fields))
	for _, f := range fields {
		missing = append(missing, f.Field())
	}
	return shared.NewValidation("The following fields are required: " + strings.Join(missing, ", "))
}
