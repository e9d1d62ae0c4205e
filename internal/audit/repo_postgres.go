package audit

import (
	"context"
	"database/sql"

	"vox-console/pkg/utils"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS console_audit_events (
  id uuid PRIMARY KEY,
  client_id text NOT NULL,
  type text NOT NULL,
  actor_user_id text,
  actor_role text,
  ip_address text,
  resource_id text,
  message text,
  metadata jsonb,
  created_at timestamptz NOT NULL
)`

const indexDDL = `
CREATE INDEX IF NOT EXISTS console_audit_events_client_created
  ON console_audit_events (client_id, created_at)`

// PostgresRepo appends events through database/sql (pgx stdlib driver).
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

// Migrate creates the table and index when missing.
func (r *PostgresRepo) Migrate(ctx context.Context) error {
	return utils.EnsureSchema(ctx, r.db, schemaDDL, indexDDL)
}

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	return utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		return insertEvent(ctx, tx, e)
	})
}

func insertEvent(ctx context.Context, tx *sql.Tx, e Event) error {
	const q = `
INSERT INTO console_audit_events (
  id, client_id, type, actor_user_id, actor_role, ip_address, resource_id, message, metadata, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10
)
`
	_, err := tx.ExecContext(ctx, q,
		e.ID,
		e.ClientID,
		string(e.Type),
		nullString(e.ActorUserID),
		nullString(e.ActorRole),
		nullString(e.IPAddress),
		nullString(e.ResourceID),
		nullString(e.Message),
		nullString(e.Metadata),
		e.CreatedAt,
	)
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
