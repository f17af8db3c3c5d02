package auth

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/casavia/casavia/internal/platform/httpx"
	"github.com/casavia/casavia/internal/platform/storage"
	"github.com/casavia/casavia/internal/record"
	"github.com/casavia/casavia/internal/shared"
	"github.com/casavia/casavia/internal/users"
)

// Handler wires the authentication endpoints.
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

// MountPublicRoutes registers register and login. Login is rate-limited
// by client IP.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Post("/auth/register", h.register)
	r.With(httprate.LimitByIP(10, time.Minute)).Post("/auth/login", h.login)
}

// MountRoutes registers the authenticated routes. The router guards them
// with the authentication middleware.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/auth/logout", h.logout)
	r.Get("/auth/me", h.me)
}

type registerForm struct {
	Email       string `form:"email" validate:"required,email"`
	Password    string `form:"password" validate:"required"`
	Name        string `form:"name" validate:"required"`
	Title       string `form:"title" validate:"required"`
	PhoneNumber string `form:"phone_number" validate:"required"`
	Address     string `form:"address" validate:"required"`
	City        string `form:"city" validate:"required"`
	State       string `form:"state" validate:"required"`
	Country     string `form:"country" validate:"required"`
	ZipCode     string `form:"zip_code" validate:"required"`
	About       string `form:"about" validate:"required"`
}

type loginForm struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		if err := r.ParseForm(); err != nil {
			httpx.BadRequest(w, "malformed form payload")
			return
		}
	}
	input := record.FromForm(r.Form)

	form := registerForm{
		Email:       r.FormValue("email"),
		Password:    r.FormValue("password"),
		Name:        r.FormValue("name"),
		Title:       r.FormValue("title"),
		PhoneNumber: r.FormValue("phone_number"),
		Address:     r.FormValue("address"),
		City:        r.FormValue("city"),
		State:       r.FormValue("state"),
		Country:     r.FormValue("country"),
		ZipCode:     r.FormValue("zip_code"),
		About:       r.FormValue("about"),
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Error(w, validationError(err))
		return
	}

	photo, closePhoto := httpx.FormUpload(r, "profile_photo")
	if closePhoto != nil {
		defer closePhoto()
	}
	if photo == nil {
		httpx.Error(w, shared.NewValidation("The profile_photo field is required"))
		return
	}

	user, err := h.service.Register(r.Context(), input, photo)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"message": "Registration sucessful!", "id": user.ID,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := httpx.DecodeJSON(r, &form); err != nil {
			httpx.BadRequest(w, "malformed request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			httpx.BadRequest(w, "malformed request body")
			return
		}
		form.Email = r.PostFormValue("email")
		form.Password = r.PostFormValue("password")
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Error(w, validationError(err))
		return
	}

	token, err := h.service.Login(r.Context(), form.Email, form.Password, r.RemoteAddr, r.UserAgent())
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"token": token})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	token := shared.TokenFromContext(r.Context())
	if token == "" {
		httpx.Unauthorized(w)
		return
	}
	if err := h.service.Logout(r.Context(), token); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Logged out"})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	user, grants, err := h.service.Me(r.Context(), actor)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	body := users.UserResponse(user, h.blobs)
	body["permissions"] = grants.Permissions
	body["roles"] = grants.Roles
	httpx.JSON(w, http.StatusOK, map[string]any{"user": body})
}

func validationError(err error) error {
	if fields, ok := err.(validator.ValidationErrors); ok && len(fields) > 0 {
		return shared.NewValidation("The " + fields[0].Field() + " field is missing or invalid")
	}
	return shared.NewValidation(err.Error())
}
