package rbac

import (
	"context"
	"errors"
)

// ErrNoUser indicates a resolution was attempted without a user.
var ErrNoUser = errors.New("rbac: user not set")

// Service resolves effective permissions and answers authorization
// queries. Results are computed freshly on every call; role or permission
// reassignment is visible immediately.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve computes the user's effective grant set: direct permissions
// unioned with the permissions of every assigned role, deduplicated by name.
func (s *Service) Resolve(ctx context.Context, userID int64) (Grants, error) {
	if userID == 0 {
		return Grants{}, ErrNoUser
	}

	direct, err := s.repo.DirectPermissions(ctx, userID)
	if err != nil {
		return Grants{}, err
	}
	roleGrants, err := s.repo.RolePermissions(ctx, userID)
	if err != nil {
		return Grants{}, err
	}

	permSeen := make(map[string]struct{}, len(direct))
	roleSeen := make(map[string]struct{})
	grants := Grants{}
	for _, name := range direct {
		if _, ok := permSeen[name]; ok {
			continue
		}
		permSeen[name] = struct{}{}
		grants.Permissions = append(grants.Permissions, name)
	}
	for _, rg := range roleGrants {
		if _, ok := roleSeen[rg.Role]; !ok {
			roleSeen[rg.Role] = struct{}{}
			grants.Roles = append(grants.Roles, rg.Role)
		}
		if rg.Permission == "" {
			continue
		}
		if _, ok := permSeen[rg.Permission]; ok {
			continue
		}
		permSeen[rg.Permission] = struct{}{}
		grants.Permissions = append(grants.Permissions, rg.Permission)
	}
	return grants, nil
}

// HasPermission reports whether the permission appears in the user's
// freshly resolved grant set.
func (s *Service) HasPermission(ctx context.Context, userID int64, permission string) (bool, error) {
	grants, err := s.Resolve(ctx, userID)
	if err != nil {
		return false, err
	}
	return grants.Has(permission), nil
}

// HasRole checks the user's role assignment relation directly, bypassing
// the resolve path.
func (s *Service) HasRole(ctx context.Context, userID int64, role string) (bool, error) {
	if userID == 0 {
		return false, ErrNoUser
	}
	return s.repo.HasRole(ctx, userID, role)
}

// ListPermissions returns all known permissions.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.repo.ListPermissions(ctx)
}
