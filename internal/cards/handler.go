package cards

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"

	"github.com/casavia/casavia/internal/platform/httpx"
	"github.com/casavia/casavia/internal/record"
	"github.com/casavia/casavia/internal/shared"
)

// Handler wires the card endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: httpx.NewValidator()}
}

// MountRoutes registers card routes. The router guards them with the
// authentication middleware.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/cards", h.index)
	r.Post("/cards", h.store)
	r.Get("/cards/{id}", h.show)
	r.Delete("/cards/{id}", h.destroy)
	r.Post("/cards/{id}/edit", h.edit)
}

type cardForm struct {
	Name            string `form:"name" validate:"required"`
	CardNumber      string `form:"card_number" validate:"required"`
	ExpirationMonth int    `form:"expiration_month" validate:"required"`
	ExpirationYear  int    `form:"expiration_year" validate:"required"`
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	list, err := h.service.ListByOwner(r.Context(), actor)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	out := make([]map[string]any, 0, len(list))
	for i := range list {
		out = append(out, CardResponse(&list[i]))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"cards": out})
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	input, err := decodeInput(r)
	if err != nil {
		httpx.BadRequest(w, "malformed request body")
		return
	}

	form := cardForm{
		Name:            cast.ToString(input["name"]),
		CardNumber:      cast.ToString(input["card_number"]),
		ExpirationMonth: cast.ToInt(input["expiration_month"]),
		ExpirationYear:  cast.ToInt(input["expiration_year"]),
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Error(w, validationError(err))
		return
	}

	card, err := h.service.UpdateOrCreate(r.Context(), nil, input)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	card, err = h.service.Save(r.Context(), card, actor)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": card.ID, "message": "created"})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	id, err := pathID(r)
	if err != nil {
		httpx.BadRequest(w, "invalid card id")
		return
	}
	card, err := h.service.Find(r.Context(), id, actor)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"card": CardResponse(card)})
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	id, err := pathID(r)
	if err != nil {
		httpx.BadRequest(w, "invalid card id")
		return
	}
	card, err := h.service.Find(r.Context(), id, actor)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	input, err := decodeInput(r)
	if err != nil {
		httpx.BadRequest(w, "malformed request body")
		return
	}
	card, err = h.service.UpdateOrCreate(r.Context(), card, input)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	card, err = h.service.Save(r.Context(), card, actor)
	if err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"id": card.ID, "message": "updated"})
}

func (h *Handler) destroy(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.ActorFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	id, err := pathID(r)
	if err != nil {
		httpx.BadRequest(w, "invalid card id")
		return
	}
	if err := h.service.Delete(r.Context(), id, actor); err != nil {
		httpx.Error(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "Card deleted"})
}

// CardResponse is the public JSON shape of a card.
func CardResponse(c *Card) map[string]any {
	return map[string]any{
		"id":               c.ID,
		"user_id":          c.UserID,
		"name":             c.Name,
		"card_number":      c.CardNumber,
		"expiration_month": c.ExpirationMonth,
		"expiration_year":  c.ExpirationYear,
		"created_at":       c.CreatedAt,
		"updated_at":       c.UpdatedAt,
	}
}

func decodeInput(r *http.Request) (record.Values, error) {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var input record.Values
		if err := httpx.DecodeJSON(r, &input); err != nil {
			return nil, err
		}
		return input, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return record.FromForm(r.Form), nil
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
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
