package db

import (
	"context"
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/chabro2633/diary-korean/internal/logging"
)

//go:embed schema/postgres/*.sql schema/sqlite/*.sql
var schemaFS embed.FS

// Migrate applies the embedded schema files for the handle's dialect in
// lexical order. Every statement is idempotent, so re-running is safe.
func Migrate(ctx context.Context, d DB) error {
	dir := path.Join("schema", d.Dialect().String())
	entries, err := schemaFS.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read schema dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	log := logging.Component("migrate")
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		data, err := schemaFS.ReadFile(path.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		if _, err := d.Exec(ctx, string(data)); err != nil {
			return fmt.Errorf("execute %s: %w", entry.Name(), err)
		}
		log.Debug().Str("file", entry.Name()).Str("dialect", d.Dialect().String()).Msg("migration applied")
	}
	return nil
}
