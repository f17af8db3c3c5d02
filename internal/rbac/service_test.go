package rbac

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	direct map[int64][]string
	grants map[int64][]RoleGrant
	roles  map[int64]map[string]bool

	directErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		direct: make(map[int64][]string),
		grants: make(map[int64][]RoleGrant),
		roles:  make(map[int64]map[string]bool),
	}
}

func (m *mockRepo) DirectPermissions(ctx context.Context, userID int64) ([]string, error) {
	if m.directErr != nil {
		return nil, m.directErr
	}
	return m.direct[userID], nil
}

func (m *mockRepo) RolePermissions(ctx context.Context, userID int64) ([]RoleGrant, error) {
	return m.grants[userID], nil
}

func (m *mockRepo) HasRole(ctx context.Context, userID int64, role string) (bool, error) {
	return m.roles[userID][role], nil
}

func (m *mockRepo) ListPermissions(ctx context.Context) ([]Permission, error) {
	return nil, nil
}

func TestResolveUnionsDirectAndRolePermissions(t *testing.T) {
	repo := newMockRepo()
	repo.direct[1] = []string{"property_create", "users_view"}
	repo.grants[1] = []RoleGrant{
		{Role: "agent", Permission: "property_create"},
		{Role: "agent", Permission: "property_update"},
		{Role: "reviewer", Permission: "users_view"},
	}
	svc := NewService(repo)

	grants, err := svc.Resolve(context.Background(), 1)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"property_create", "users_view", "property_update"}, grants.Permissions)
	assert.ElementsMatch(t, []string{"agent", "reviewer"}, grants.Roles)
}

func TestResolveRoleWithoutPermissions(t *testing.T) {
	repo := newMockRepo()
	repo.grants[1] = []RoleGrant{{Role: "viewer", Permission: ""}}
	svc := NewService(repo)

	grants, err := svc.Resolve(context.Background(), 1)
	require.NoError(t, err)

	assert.Empty(t, grants.Permissions)
	assert.Equal(t, []string{"viewer"}, grants.Roles)
}

func TestResolveRequiresUser(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Resolve(context.Background(), 0)
	assert.ErrorIs(t, err, ErrNoUser)
}

func TestHasPermissionMatchesResolve(t *testing.T) {
	repo := newMockRepo()
	repo.grants[1] = []RoleGrant{{Role: "agent", Permission: "property_create"}}
	svc := NewService(repo)

	ok, err := svc.HasPermission(context.Background(), 1, "property_create")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasPermission(context.Background(), 1, "property_update")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasPermissionNeverCachesAcrossCalls(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	ok, err := svc.HasPermission(context.Background(), 1, "property_update")
	require.NoError(t, err)
	require.False(t, ok)

	// Reassign the role's permissions and query again.
	repo.grants[1] = []RoleGrant{{Role: "agent", Permission: "property_update"}}
	ok, err = svc.HasPermission(context.Background(), 1, "property_update")
	require.NoError(t, err)
	assert.True(t, ok, "reassignment must be visible on the next call")
}

func TestHasRoleUsesAssignmentRelation(t *testing.T) {
	repo := newMockRepo()
	repo.roles[1] = map[string]bool{"agent": true}
	svc := NewService(repo)

	ok, err := svc.HasRole(context.Background(), 1, "agent")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasRole(context.Background(), 1, "admin")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.HasRole(context.Background(), 0, "agent")
	assert.ErrorIs(t, err, ErrNoUser)
}
