package db_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	dbfs "github.com/buildfastwithai/jd-qna/db"
	"github.com/buildfastwithai/jd-qna/internal/db"
)

func newTestDB(t *testing.T) *db.DB {
	t.Helper()

	conn, err := db.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func countRows(t *testing.T, conn *db.DB, table string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow(context.Background(), `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestWithTxCommit(t *testing.T) {
	conn := newTestDB(t)
	ctx := context.Background()

	if _, err := conn.Exec(ctx, `CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	err := conn.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO items (name) VALUES (?)`, "a")
		return err
	})
	if err != nil {
		t.Fatalf("with tx: %v", err)
	}

	if n := countRows(t, conn, "items"); n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}
}

func TestWithTxRollback(t *testing.T) {
	conn := newTestDB(t)
	ctx := context.Background()

	if _, err := conn.Exec(ctx, `CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	boom := errors.New("boom")
	err := conn.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO items (name) VALUES (?)`, "a"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("with tx err = %v, want boom", err)
	}

	if n := countRows(t, conn, "items"); n != 0 {
		t.Errorf("rows = %d, want 0 after rollback", n)
	}
}

func TestMigrateAppliesAndSeeds(t *testing.T) {
	conn := newTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx, conn, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if n := countRows(t, conn, "schema_migrations"); n == 0 {
		t.Error("no migrations recorded")
	}
	if n := countRows(t, conn, "prompt_templates"); n != 3 {
		t.Errorf("seeded %d templates, want 3", n)
	}
	if n := countRows(t, conn, "response_schemas"); n != 3 {
		t.Errorf("seeded %d schemas, want 3", n)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	conn := newTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx, conn, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	applied := countRows(t, conn, "schema_migrations")
	templates := countRows(t, conn, "prompt_templates")

	if err := db.Migrate(ctx, conn, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if n := countRows(t, conn, "schema_migrations"); n != applied {
		t.Errorf("migration count changed: %d -> %d", applied, n)
	}
	if n := countRows(t, conn, "prompt_templates"); n != templates {
		t.Errorf("template count changed: %d -> %d", templates, n)
	}
}
