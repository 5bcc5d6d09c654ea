package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/buildfastwithai/jd-qna/pkg/models"
)

func (r *SQLiteRepo) CreateRecord(ctx context.Context, rec *models.SkillRecord) (int64, error) {
	if rec == nil {
		return 0, fmt.Errorf("record is nil")
	}

	ts := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO skill_records (job_title, raw_description, interview_length, created, updated) VALUES (?, ?, ?, ?, ?)`,
		rec.JobTitle, rec.RawDescription, rec.InterviewLength, ts, ts)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetRecord(ctx context.Context, id int64) (*models.SkillRecord, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, job_title, raw_description, interview_length, created, updated FROM skill_records WHERE id = ?`, id)
	var rec models.SkillRecord
	if err := row.Scan(&rec.ID, &rec.JobTitle, &rec.RawDescription, &rec.InterviewLength, &rec.Created, &rec.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &rec, nil
}

func (r *SQLiteRepo) ListRecords(ctx context.Context, limit, offset int) ([]models.SkillRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.conn.QueryRows(ctx, `SELECT id, job_title, raw_description, interview_length, created, updated FROM skill_records ORDER BY created DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SkillRecord
	for rows.Next() {
		var rec models.SkillRecord
		if err := rows.Scan(&rec.ID, &rec.JobTitle, &rec.RawDescription, &rec.InterviewLength, &rec.Created, &rec.Updated); err != nil {
			return nil, err
		}

		out = append(out, rec)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) CountRecords(ctx context.Context) (int64, error) {
	row := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM skill_records`)
	var cnt int64
	if err := row.Scan(&cnt); err != nil {
		return 0, err
	}
	return cnt, nil
}

func (r *SQLiteRepo) DeleteRecord(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM skill_records WHERE id = ?`, id)
	return err
}
