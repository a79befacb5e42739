package cdb

import (
	"context"
	"database/sql"
	"time"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS links (
		id UUID NOT NULL DEFAULT gen_random_uuid() PRIMARY KEY,
		url STRING UNIQUE,
		retrieved_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS edges (
		id UUID NOT NULL DEFAULT gen_random_uuid() PRIMARY KEY,
		src UUID NOT NULL REFERENCES links(id) ON DELETE CASCADE,
		dest UUID NOT NULL REFERENCES links(id) ON DELETE CASCADE,
		relation STRING NOT NULL DEFAULT 'link',
		updated_at TIMESTAMP,
		CONSTRAINT edge_links UNIQUE(src, dest, relation)
	)`,
}

// ensureSchema creates the links and edges tables if they are missing.
func ensureSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
