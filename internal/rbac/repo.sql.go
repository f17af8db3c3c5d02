package rbac

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines the read queries the resolver depends on.
type Repository interface {
	// DirectPermissions returns the names of permissions granted to the
	// user directly, outside any role.
	DirectPermissions(ctx context.Context, userID int64) ([]string, error)

	// RolePermissions returns one row per (role, permission) pair for the
	// user's assigned roles; a role without permissions yields a single
	// row with an empty permission name.
	RolePermissions(ctx context.Context, userID int64) ([]RoleGrant, error)

	// HasRole checks the user's role assignment relation directly.
	HasRole(ctx context.Context, userID int64, role string) (bool, error)

	// ListPermissions returns all known permissions ordered by name.
	ListPermissions(ctx context.Context) ([]Permission, error)
}

// RoleGrant is one row of the role/permission join.
type RoleGrant struct {
	Role       string
	Permission string
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// DirectPermissions returns the user's direct permission names.
func (r *PGRepository) DirectPermissions(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.name
		FROM permissions p
		JOIN user_permissions up ON up.permission_id = p.id
		WHERE up.user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// RolePermissions returns the user's roles joined with their permissions.
func (r *PGRepository) RolePermissions(ctx context.Context, userID int64) ([]RoleGrant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.name, COALESCE(p.name, '')
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		LEFT JOIN role_permissions rp ON rp.role_id = r.id
		LEFT JOIN permissions p ON p.id = rp.permission_id
		WHERE ur.user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var grants []RoleGrant
	for rows.Next() {
		var grant RoleGrant
		if err := rows.Scan(&grant.Role, &grant.Permission); err != nil {
			return nil, err
		}
		grants = append(grants, grant)
	}
	return grants, rows.Err()
}

// HasRole checks the assignment relation without going through Resolve.
func (r *PGRepository) HasRole(ctx context.Context, userID int64, role string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM user_roles ur
			JOIN roles r ON r.id = ur.role_id
			WHERE ur.user_id = $1 AND r.name = $2
		)`, userID, role).Scan(&exists)
	return exists, err
}

// ListPermissions returns all permissions ordered by name.
func (r *PGRepository) ListPermissions(ctx context.Context) ([]Permission, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM permissions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var perms []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
