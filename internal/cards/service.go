package cards

import (
	"context"
	"log/slog"

	"github.com/spf13/cast"

	"github.com/casavia/casavia/internal/record"
	"github.com/casavia/casavia/internal/shared"
)

// Auditor records card mutations. A nil auditor disables the trail.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service builds and persists cards. Operations take their subject card
// and, for inserts, the owning user as explicit arguments.
type Service struct {
	repo   Repository
	audit  Auditor
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, audit Auditor, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// UpdateOrCreate projects input onto the card; a nil card starts a new
// one. The result is not persisted; call Save.
func (s *Service) UpdateOrCreate(ctx context.Context, card *Card, input record.Values, exclude ...string) (*Card, error) {
	if card == nil {
		card = &Card{}
	}
	record.Apply(card, Schema, input, exclude...)
	return card, nil
}

// Save persists the card. A card without identity is inserted under the
// owner; an existing card is updated in place.
func (s *Service) Save(ctx context.Context, card *Card, ownerID int64) (*Card, error) {
	action := "card.updated"
	if card.ID == 0 {
		action = "card.created"
		card.UserID = ownerID
	}
	if err := s.repo.Save(ctx, card); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, ownerID, action, card.ID)
	return card, nil
}

// Find fetches a card, refusing access to cards the actor does not own.
func (s *Service) Find(ctx context.Context, id, actorID int64) (*Card, error) {
	card, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if card.UserID != actorID {
		return nil, shared.NewNotFound("Card not found")
	}
	return card, nil
}

// ListByOwner returns the actor's cards.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]Card, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Delete removes a card after an ownership check.
func (s *Service) Delete(ctx context.Context, id, actorID int64) error {
	card, err := s.Find(ctx, id, actorID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, card.ID); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "card.deleted", card.ID)
	return nil
}

// recordAudit writes the trail entry. Failures are logged, never surfaced.
func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, cardID int64) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "card",
		EntityID: cast.ToString(cardID),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("record audit log", slog.String("action", action), slog.Any("error", err))
	}
}
