package shared

// Platform permission names. These are the closed set of capabilities a
// user can hold directly or through a role.
const (
	PermPropertyCreate = "property_create"
	PermPropertyUpdate = "property_update"
	PermPropertyDelete = "property_delete"

	PermUsersView = "users_view"
	PermUsersEdit = "users_edit"
)

// PropertyScopes lists all permissions related to property listings.
func PropertyScopes() []string {
	return []string{
		PermPropertyCreate,
		PermPropertyUpdate,
		PermPropertyDelete,
	}
}
