package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE SCHEMA IF NOT EXISTS lexdesk`,

	`CREATE TABLE IF NOT EXISTS lexdesk.users (
		id                text PRIMARY KEY,
		advocate_id       text,
		roles             jsonb NOT NULL DEFAULT '[]',
		email             text NOT NULL,
		name              text NOT NULL,
		phone             text,
		address           text,
		password_hash     text NOT NULL DEFAULT '',
		profile_image_key text,
		created_by        text,
		created_at        timestamptz NOT NULL,
		updated_at        timestamptz NOT NULL,
		last_login_at     timestamptz
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON lexdesk.users (lower(email))`,
	`CREATE INDEX IF NOT EXISTS users_advocate_idx ON lexdesk.users (advocate_id)`,

	`CREATE TABLE IF NOT EXISTS lexdesk.cases (
		id                text PRIMARY KEY,
		advocate_id       text NOT NULL,
		client_id         text NOT NULL,
		case_number       text NOT NULL,
		title             text NOT NULL,
		description       text,
		case_type         text NOT NULL,
		court             text,
		judge             text,
		opposing_party    text,
		status            text NOT NULL,
		priority          text NOT NULL,
		registration_date timestamptz NOT NULL,
		next_hearing_date timestamptz,
		notes             jsonb NOT NULL DEFAULT '[]',
		tasks             jsonb NOT NULL DEFAULT '[]',
		created_by        text NOT NULL,
		created_at        timestamptz NOT NULL,
		updated_at        timestamptz NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS cases_tenant_number_key ON lexdesk.cases (advocate_id, case_number)`,
	`CREATE INDEX IF NOT EXISTS cases_client_idx ON lexdesk.cases (advocate_id, client_id)`,

	`CREATE TABLE IF NOT EXISTS lexdesk.case_documents (
		id              text PRIMARY KEY,
		case_id         text NOT NULL,
		advocate_id     text NOT NULL,
		file_name       text NOT NULL,
		file_size_bytes bigint NOT NULL,
		mime_type       text NOT NULL,
		storage_key     text NOT NULL,
		uploaded_by     text NOT NULL,
		uploaded_at     timestamptz NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS case_documents_case_idx ON lexdesk.case_documents (advocate_id, case_id)`,
	`CREATE INDEX IF NOT EXISTS case_documents_key_idx ON lexdesk.case_documents (storage_key)`,

	`CREATE TABLE IF NOT EXISTS lexdesk.hearings (
		id           text PRIMARY KEY,
		advocate_id  text NOT NULL,
		case_id      text NOT NULL,
		title        text NOT NULL,
		hearing_date timestamptz NOT NULL,
		location     text,
		status       text NOT NULL,
		notes        text,
		created_by   text NOT NULL,
		created_at   timestamptz NOT NULL,
		updated_at   timestamptz NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS hearings_case_idx ON lexdesk.hearings (advocate_id, case_id)`,
	`CREATE INDEX IF NOT EXISTS hearings_date_idx ON lexdesk.hearings (advocate_id, hearing_date)`,
}

// Migrate applies the schema idempotently. Statements are plain
// CREATE IF NOT EXISTS so re-running is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}
