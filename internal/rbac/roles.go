package rbac

// App role names, read from app_metadata.role. Keep these stable; they are part of auth/RBAC contracts.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"

	// RoleService is the Supabase service role; it bypasses every check.
	RoleService = "service_role"
)

// DefaultRole applies when a session carries no app role.
const DefaultRole = RoleMember

// Editors may change assistants and tools.
var Editors = []string{RoleOwner, RoleAdmin, RoleMember}

// SecretManagers may create, rotate or delete credentials.
var SecretManagers = []string{RoleOwner, RoleAdmin}

func IsService(role string) bool { return role == RoleService }

func effective(role string) string {
	if role == "" {
		return DefaultRole
	}
	return role
}
