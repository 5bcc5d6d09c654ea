package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/buildfastwithai/jd-qna/pkg/models"
)

func (r *SQLiteRepo) CreateFeedback(ctx context.Context, f *models.Feedback) (int64, error) {
	if f == nil {
		return 0, fmt.Errorf("feedback is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO feedbacks (skill_id, content, created) VALUES (?, ?, ?)`, f.SkillID, f.Content, now())
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) ListFeedbackBySkill(ctx context.Context, skillID int64) ([]models.Feedback, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, skill_id, content, created FROM feedbacks WHERE skill_id = ? ORDER BY created DESC`, skillID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Feedback
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(&f.ID, &f.SkillID, &f.Content, &f.Created); err != nil {
			return nil, err
		}
		out = append(out, f)
	}

	return out, rows.Err()
}

// UpsertGlobalFeedback keeps at most one note per record.
func (r *SQLiteRepo) UpsertGlobalFeedback(ctx context.Context, recordID int64, content string) (*models.GlobalFeedback, error) {
	ts := now()
	_, err := r.conn.Exec(ctx, `INSERT INTO global_feedbacks (record_id, content, created, updated) VALUES (?, ?, ?, ?)
		ON CONFLICT(record_id) DO UPDATE SET content=excluded.content, updated=excluded.updated`, recordID, content, ts, ts)
	if err != nil {
		return nil, err
	}

	return r.GetGlobalFeedback(ctx, recordID)
}

func (r *SQLiteRepo) GetGlobalFeedback(ctx context.Context, recordID int64) (*models.GlobalFeedback, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, record_id, content, created, updated FROM global_feedbacks WHERE record_id = ?`, recordID)
	var g models.GlobalFeedback
	if err := row.Scan(&g.ID, &g.RecordID, &g.Content, &g.Created, &g.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &g, nil
}
