package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/buildfastwithai/jd-qna/pkg/models"
)

const skillColumns = `id, record_id, name, level, requirement, category, priority, num_questions, difficulty, flo_pool_id, flo_pool_name, created, updated`

func scanSkill(scan func(dest ...any) error) (*models.Skill, error) {
	var s models.Skill
	var poolID sql.NullInt64
	if err := scan(&s.ID, &s.RecordID, &s.Name, &s.Level, &s.Requirement, &s.Category, &s.Priority, &s.NumQuestions, &s.Difficulty, &poolID, &s.FloPoolName, &s.Created, &s.Updated); err != nil {
		return nil, err
	}
	if poolID.Valid {
		v := poolID.Int64
		s.FloPoolID = &v
	}
	return &s, nil
}

func (r *SQLiteRepo) CreateSkill(ctx context.Context, s *models.Skill) (int64, error) {
	if s == nil {
		return 0, fmt.Errorf("skill is nil")
	}

	ts := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO skills (record_id, name, level, requirement, category, priority, num_questions, difficulty, flo_pool_name, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.RecordID, s.Name, s.Level, s.Requirement, s.Category, s.Priority, s.NumQuestions, s.Difficulty, s.FloPoolName, ts, ts)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetSkill(ctx context.Context, id int64) (*models.Skill, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = ?`, id)
	s, err := scanSkill(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return s, nil
}

func (r *SQLiteRepo) ListSkillsByRecord(ctx context.Context, recordID int64) ([]models.Skill, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+skillColumns+` FROM skills WHERE record_id = ? ORDER BY priority ASC, id ASC`, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Skill
	for rows.Next() {
		s, err := scanSkill(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateSkill(ctx context.Context, s *models.Skill) error {
	if s == nil {
		return fmt.Errorf("skill is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE skills SET name = ?, level = ?, requirement = ?, category = ?, priority = ?, num_questions = ?, difficulty = ?, updated = ? WHERE id = ?`,
		s.Name, s.Level, s.Requirement, s.Category, s.Priority, s.NumQuestions, s.Difficulty, now(), s.ID)
	return err
}

// DeleteSkill hard-deletes a skill; questions and feedbacks go with it via
// the ON DELETE CASCADE constraints.
func (r *SQLiteRepo) DeleteSkill(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM skills WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepo) SetSkillPool(ctx context.Context, id, poolID int64, poolName string) error {
	_, err := r.conn.Exec(ctx, `UPDATE skills SET flo_pool_id = ?, flo_pool_name = ?, updated = ? WHERE id = ?`, poolID, poolName, now(), id)
	return err
}
