package database

import "context"

// Schema is applied at startup. Statements are idempotent so repeated
// startups against the same database are safe.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		email         TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		tokens        BIGINT NOT NULL DEFAULT 0 CHECK (tokens >= 0),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS models (
		name           TEXT PRIMARY KEY,
		artifact       BYTEA NOT NULL,
		algorithm      TEXT NOT NULL,
		feature_names  TEXT[] NOT NULL,
		label_name     TEXT NOT NULL,
		schema_version INT NOT NULL DEFAULT 1,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS usage_logs (
		id         BIGSERIAL PRIMARY KEY,
		email      TEXT NOT NULL,
		action     TEXT NOT NULL,
		model_name TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_usage_logs_email_action ON usage_logs (email, action)`,
	`CREATE INDEX IF NOT EXISTS idx_usage_logs_created_at ON usage_logs (created_at)`,
}

// Migrate creates the schema if it does not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
