package rbac

import "time"

// Role represents a named group of permissions assignable to users.
type Role struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Permission represents an atomic capability, held directly by a user or
// transitively through a role.
type Permission struct {
	ID   int64
	Name string
}

// Grants holds the effective permission and role names resolved for a user.
type Grants struct {
	Permissions []string
	Roles       []string
}

// Has reports whether the grant set contains the permission name.
func (g Grants) Has(permission string) bool {
	for _, p := range g.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
