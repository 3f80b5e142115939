package database

import (
	"context"
	"database/sql"
	_ "embed"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

//go:embed schema.sql
var schema string

// Statements splits the embedded schema into individual statements.
// Comment lines are dropped; the schema contains no literal semicolons.
func Statements() []string {
	var lines []string
	for _, l := range strings.Split(schema, "\n") {
		if strings.HasPrefix(strings.TrimSpace(l), "--") {
			continue
		}
		lines = append(lines, l)
	}
	var out []string
	for _, s := range strings.Split(strings.Join(lines, "\n"), ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Migrate applies the schema. It is safe to run repeatedly.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := Statements()
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "migrate: statement %d", i+1)
		}
	}
	log.Info().Int("statements", len(stmts)).Msg("schema applied")
	return nil
}
