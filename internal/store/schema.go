package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Table and column names shared by the repositories.
const (
	usersTable       = "users"
	snippetsTable    = "snippets"
	snippetTagsTable = "snippet_tags"
)

// schema lists the DDL run at open, in order. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT    NOT NULL PRIMARY KEY,
		email         TEXT    NOT NULL UNIQUE,
		password_hash TEXT    NOT NULL,
		name          TEXT    NOT NULL DEFAULT '',
		created_at    INTEGER NOT NULL,
		updated_at    INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS snippets (
		id                     TEXT    NOT NULL PRIMARY KEY,
		title                  TEXT    NOT NULL,
		description            TEXT    NOT NULL DEFAULT '',
		code                   TEXT    NOT NULL,
		language               TEXT    NOT NULL,
		author_id              TEXT    NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		time_complexity        TEXT    NOT NULL,
		space_complexity       TEXT    NOT NULL,
		complexity_explanation TEXT    NOT NULL DEFAULT '',
		complexity_confidence  REAL    NOT NULL,
		complexity_rule        TEXT    NOT NULL DEFAULT '',
		created_at             INTEGER NOT NULL,
		updated_at             INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS snippet_tags (
		snippet_id TEXT    NOT NULL REFERENCES snippets(id) ON DELETE CASCADE,
		tag        TEXT    NOT NULL,
		position   INTEGER NOT NULL,
		PRIMARY KEY (snippet_id, tag)
	)`,
	`CREATE INDEX IF NOT EXISTS snippets_created_at ON snippets(created_at)`,
	`CREATE INDEX IF NOT EXISTS snippets_author_id ON snippets(author_id)`,
	`CREATE INDEX IF NOT EXISTS snippets_language ON snippets(language)`,
	`CREATE INDEX IF NOT EXISTS snippet_tags_tag ON snippet_tags(tag)`,
}

// migrate creates missing tables and indexes. Existing ones are left as is.
func migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
