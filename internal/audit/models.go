package audit

import "time"

// Event is an immutable, append-only record of a console mutation.
//
// Invariants:
// - Events are never updated or deleted.
// - client_id is required for tenancy isolation.
// - actor and ip capture are best-effort; a failed append never fails the mutation.
//
// Storage (Postgres): table console_audit_events, INSERT-only.
type Event struct {
	ID       string `json:"id" db:"id"`
	ClientID string `json:"client_id" db:"client_id"`

	Type EventType `json:"type" db:"type"`

	// ActorUserID is the Supabase subject of the session that made the change.
	ActorUserID string `json:"actor_user_id,omitempty" db:"actor_user_id"`
	ActorRole   string `json:"actor_role,omitempty" db:"actor_role"`

	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	// ResourceID is the assistant, tool or credential id, or the E.164 number.
	ResourceID string `json:"resource_id,omitempty" db:"resource_id"`

	Message string `json:"message,omitempty" db:"message"`

	// Metadata is optional JSON. Secret values must never be put here.
	Metadata string `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventAssistantCreated EventType = "assistant.created"
	EventAssistantUpdated EventType = "assistant.updated"
	EventAssistantDeleted EventType = "assistant.deleted"

	EventPhoneNumberAssigned   EventType = "phone_number.assigned"
	EventPhoneNumberUnassigned EventType = "phone_number.unassigned"

	EventToolCreated EventType = "tool.created"
	EventToolUpdated EventType = "tool.updated"
	EventToolDeleted EventType = "tool.deleted"
	EventToolTested  EventType = "tool.tested"

	EventCredentialCreated EventType = "credential.created"
	EventCredentialUpdated EventType = "credential.updated"
	EventCredentialDeleted EventType = "credential.deleted"
)
