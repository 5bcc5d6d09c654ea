package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Migrate applies migrations and optional seed files found in the repository.
// It creates a `schema_migrations` table to track applied migrations and applies
// any SQL files in `db/migrations/` that have not yet been recorded. Seed files
// (prompt templates and response schemas) are applied idempotently.
func Migrate(ctx context.Context, d *DB, migrationFS embed.FS, seedFS embed.FS) error {
	// ensure migrations table exists
	if _, err := d.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}
	migDir := "migrations"

	entries, err := fs.ReadDir(migrationFS, migDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	// collect .sql files and sort
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(strings.ToLower(name), ".sql") {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	for _, fname := range files {
		// use filename (without extension) as migration version key
		version := strings.TrimSuffix(fname, path.Ext(fname))

		var count int
		row := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, version)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("scan migration applied count: %w", err)
		}
		if count > 0 {
			continue
		}

		p := path.Join(migDir, fname)
		b, err := fs.ReadFile(migrationFS, p)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", fname, err)
		}
		if _, err := d.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("exec migration %s: %w", fname, err)
		}

		if _, err := d.Exec(ctx, `INSERT INTO schema_migrations (version, applied) VALUES (?, strftime('%s','now'))`, version); err != nil {
			return fmt.Errorf("record migration %s: %w", fname, err)
		}
	}

	// seed prompt templates: files named template_<name>_<version>.txt
	tplEntries, err := fs.ReadDir(seedFS, "seed")
	if err != nil {
		// seeding is optional
		return nil
	}
	for _, e := range tplEntries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		p := path.Join("seed", name)

		switch {
		case strings.HasPrefix(name, "template_") && strings.HasSuffix(name, ".txt"):
			parts := strings.Split(strings.TrimSuffix(strings.TrimPrefix(name, "template_"), ".txt"), "_")
			if len(parts) < 2 {
				continue
			}
			version := parts[len(parts)-1]
			tplName := strings.Join(parts[:len(parts)-1], "_")
			b, err := fs.ReadFile(seedFS, p)
			if err != nil {
				return fmt.Errorf("read seed template %s: %w", name, err)
			}
			// each template validates against the schema seeded under the same name+version
			schemaVer := tplName + "_" + version
			if _, err := d.Exec(ctx, `INSERT OR REPLACE INTO prompt_templates (name, version, template_text, schema_version, created, updated) VALUES (?, ?, ?, ?, strftime('%s','now'), strftime('%s','now'))`, tplName, version, string(b), schemaVer); err != nil {
				return fmt.Errorf("seed template %s: %w", name, err)
			}

		case strings.HasPrefix(name, "schema_") && strings.HasSuffix(name, ".json"):
			version := strings.TrimSuffix(strings.TrimPrefix(name, "schema_"), ".json")
			b, err := fs.ReadFile(seedFS, p)
			if err != nil {
				return fmt.Errorf("read seed schema %s: %w", name, err)
			}
			if _, err := d.Exec(ctx, `INSERT OR REPLACE INTO response_schemas (version, description, schema_json, created, updated) VALUES (?, ?, ?, strftime('%s','now'), strftime('%s','now'))`, version, "seeded schema", string(b)); err != nil {
				return fmt.Errorf("seed schema %s: %w", name, err)
			}
		}
	}

	return nil
}
