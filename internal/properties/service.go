package properties

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/spf13/cast"

	"github.com/casavia/casavia/internal/platform/storage"
	"github.com/casavia/casavia/internal/record"
	"github.com/casavia/casavia/internal/shared"
)

// GalleryBucket is where listing photos are stored.
const GalleryBucket = "property_gallery"

// Authorizer answers permission queries for save-time gates.
type Authorizer interface {
	HasPermission(ctx context.Context, userID int64, permission string) (bool, error)
}

// Auditor records listing mutations. A nil auditor disables the trail.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service builds and persists property listings. Creation requires the
// property_create permission, updates property_update; both are checked
// at save time against the acting user.
type Service struct {
	repo   Repository
	authz  Authorizer
	blobs  storage.Store
	audit  Auditor
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository, authz Authorizer, blobs storage.Store, audit Auditor, logger *slog.Logger) *Service {
	return &Service{repo: repo, authz: authz, blobs: blobs, audit: audit, logger: logger, now: time.Now}
}

// UpdateOrCreate projects input onto the property (a nil property starts
// a new one) and runs the excluded-column hooks: a supplied gallery
// replaces the stored blobs, and type/status/other_features identifiers
// are resolved against their enumerations. An unresolvable identifier
// aborts with the valid choices listed; assignments already made to the
// in-memory entity stand, only persistence is prevented. The result is
// not persisted; call Save.
func (s *Service) UpdateOrCreate(ctx context.Context, property *Property, input record.Values, gallery []storage.Upload, exclude ...string) (*Property, error) {
	if property == nil {
		property = &Property{}
	}

	record.Apply(property, Schema, input, exclude...)

	if len(gallery) > 0 {
		paths, err := s.replaceGallery(ctx, property.Gallery, gallery)
		if err != nil {
			return nil, err
		}
		property.Gallery = paths
	}

	if input.Has("other_features") {
		identifiers, err := featureIdentifiers(input["other_features"])
		if err != nil {
			return nil, err
		}
		codes, err := ResolveFeatures(identifiers)
		if err != nil {
			return nil, err
		}
		property.OtherFeatures = codes
	}

	if input.Has("type") {
		code, err := ResolveType(cast.ToString(input["type"]))
		if err != nil {
			return nil, err
		}
		property.Type = code
	}

	if input.Has("status") {
		code, err := ResolveStatus(cast.ToString(input["status"]))
		if err != nil {
			return nil, err
		}
		property.Status = code
	}

	return property, nil
}

// Save persists the property. An existing property requires the
// property_update permission. A new one gets its slug assigned, requires
// property_create, and is inserted under the acting user.
func (s *Service) Save(ctx context.Context, property *Property, actorID int64) (*Property, error) {
	action := "property.updated"
	if property.ID != 0 {
		if err := s.requirePermission(ctx, actorID, shared.PermPropertyUpdate,
			"This user can't update a property"); err != nil {
			return nil, err
		}
	} else {
		action = "property.created"
		property.Slug = Slugify(property.Title, s.now())
		if err := s.requirePermission(ctx, actorID, shared.PermPropertyCreate,
			"This user can't create a property"); err != nil {
			return nil, err
		}
		property.UserID = actorID
	}
	if err := s.repo.Save(ctx, property); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, actorID, action, property, map[string]any{"title": property.Title})
	return property, nil
}

// Find fetches a property by ID.
func (s *Service) Find(ctx context.Context, id int64) (*Property, error) {
	return s.repo.Find(ctx, id)
}

// FindBySlug fetches a property by its slug.
func (s *Service) FindBySlug(ctx context.Context, slug string) (*Property, error) {
	return s.repo.FindBySlug(ctx, slug)
}

// List returns all listings.
func (s *Service) List(ctx context.Context) ([]Property, error) {
	return s.repo.List(ctx)
}

// Delete removes a property and its gallery blobs. Only the owner holding
// property_delete may delete.
func (s *Service) Delete(ctx context.Context, slug string, actorID int64) error {
	property, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if property.UserID != actorID {
		return shared.NewForbidden("This user can't delete a property")
	}
	if err := s.requirePermission(ctx, actorID, shared.PermPropertyDelete,
		"This user can't delete a property"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, property.ID); err != nil {
		return err
	}
	s.deleteBlobs(ctx, property.Gallery)
	s.recordAudit(ctx, actorID, "property.deleted", property, map[string]any{"slug": property.Slug})
	return nil
}

// recordAudit writes the trail entry. Failures are logged, never surfaced.
func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, property *Property, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "property",
		EntityID: cast.ToString(property.ID),
		Meta:     meta,
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("record audit log", slog.String("action", action), slog.Any("error", err))
	}
}

func (s *Service) requirePermission(ctx context.Context, actorID int64, permission, denied string) error {
	ok, err := s.authz.HasPermission(ctx, actorID, permission)
	if err != nil {
		return shared.WrapUpstream(err, "permission check failed")
	}
	if !ok {
		return shared.NewForbidden(denied)
	}
	return nil
}

// replaceGallery stores the new photo set first, then deletes the
// previous blobs. Failed deletes are logged, not surfaced.
func (s *Service) replaceGallery(ctx context.Context, previous []string, uploads []storage.Upload) ([]string, error) {
	paths := make([]string, 0, len(uploads))
	for _, up := range uploads {
		path, err := s.blobs.Put(ctx, GalleryBucket, up)
		if err != nil {
			return nil, shared.WrapUpstream(err, "gallery upload failed")
		}
		paths = append(paths, path)
	}
	s.deleteBlobs(ctx, previous)
	return paths, nil
}

func (s *Service) deleteBlobs(ctx context.Context, paths []string) {
	for _, path := range paths {
		if err := s.blobs.Delete(ctx, path); err != nil && s.logger != nil {
			s.logger.Warn("delete gallery blob", slog.String("path", path), slog.Any("error", err))
		}
	}
}

// featureIdentifiers accepts the other_features payload either as a JSON
// array string (multipart forms) or as a decoded array (JSON bodies).
func featureIdentifiers(v any) ([]string, error) {
	switch val := v.(type) {
	case string:
		var out []string
		if err := json.Unmarshal([]byte(val), &out); err != nil {
			return nil, shared.NewValidation("other_features must be a JSON array of feature identifiers")
		}
		return out, nil
	case []string:
		return val, nil
	case []any:
		out, err := cast.ToStringSliceE(val)
		if err != nil {
			return nil, shared.NewValidation("other_features must be a JSON array of feature identifiers")
		}
		return out, nil
	default:
		return nil, shared.NewValidation("other_features must be a JSON array of feature identifiers")
	}
}
