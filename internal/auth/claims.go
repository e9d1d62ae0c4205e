package auth

import "github.com/golang-jwt/jwt/v5"

// AppMetadata is the server-controlled part of a Supabase user.
// Only the service role can write it, so tenant and app role are read from here.
type AppMetadata struct {
	ClientID string `json:"client_id,omitempty"`
	Role     string `json:"role,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// Claims is the Supabase access token shape.
// Role is the Postgres role ("authenticated", "service_role"), not the app role.
type Claims struct {
	jwt.RegisteredClaims

	Email       string      `json:"email,omitempty"`
	Role        string      `json:"role"`
	AppMetadata AppMetadata `json:"app_metadata"`
	SessionID   string      `json:"session_id,omitempty"`
}

// Identity is what the console knows about a verified session.
type Identity struct {
	UserID   string
	Email    string
	ClientID string
	Role     string
}

// Supabase database roles.
const (
	DBRoleAuthenticated = "authenticated"
	DBRoleService       = "service_role"
)
