package sqlite

import (
	"context"
	"database/sql"

	"github.com/buildfastwithai/jd-qna/pkg/models"
)

func (r *SQLiteRepo) GetTemplate(ctx context.Context, name, version string) (*models.PromptTemplate, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, name, version, template_text, schema_version, created, updated FROM prompt_templates WHERE name = ? AND version = ?`, name, version)
	var t models.PromptTemplate
	var schemaVer sql.NullString
	if err := row.Scan(&t.ID, &t.Name, &t.Version, &t.TemplateTxt, &schemaVer, &t.Created, &t.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if schemaVer.Valid {
		v := schemaVer.String
		t.SchemaVer = &v
	}
	return &t, nil
}

// CreateSchema inserts or updates a response schema by version.
func (r *SQLiteRepo) CreateSchema(ctx context.Context, version, description, schemaJSON string) (int64, error) {
	res, err := r.conn.Exec(ctx, `INSERT INTO response_schemas (version, description, schema_json, created, updated) VALUES (?, ?, ?, strftime('%s','now'), strftime('%s','now')) ON CONFLICT(version) DO UPDATE SET description=excluded.description, schema_json=excluded.schema_json, updated=strftime('%s','now')`, version, description, schemaJSON)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRepo) GetSchemaByVersion(ctx context.Context, version string) (*models.ResponseSchema, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, version, description, schema_json, created, updated FROM response_schemas WHERE version = ?`, version)
	var s models.ResponseSchema
	if err := row.Scan(&s.ID, &s.Version, &s.Description, &s.SchemaJSON, &s.Created, &s.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteRepo) ListSchemas(ctx context.Context) ([]models.ResponseSchema, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, version, description, schema_json, created, updated FROM response_schemas ORDER BY version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ResponseSchema
	for rows.Next() {
		var s models.ResponseSchema
		if err := rows.Scan(&s.ID, &s.Version, &s.Description, &s.SchemaJSON, &s.Created, &s.Updated); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
