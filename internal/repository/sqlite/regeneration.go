package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/buildfastwithai/jd-qna/pkg/models"
)

// CreateRegeneration inserts the replacement question and the audit row in one
// transaction. The contract is "both rows exist, or neither does".
func (r *SQLiteRepo) CreateRegeneration(ctx context.Context, q *models.Question, reg *models.Regeneration) (int64, int64, error) {
	if q == nil || reg == nil {
		return 0, 0, fmt.Errorf("question and regeneration are required")
	}
	if q.Liked == "" {
		q.Liked = models.LikedStatusNone
	}
	if reg.Liked == "" {
		reg.Liked = models.LikedStatusNone
	}

	var qID, regID int64
	err := r.conn.WithTx(ctx, func(tx *sql.Tx) error {
		ts := now()

		res, err := tx.ExecContext(ctx, `INSERT INTO questions (record_id, skill_id, content, liked, feedback, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			q.RecordID, q.SkillID, q.Content, q.Liked, q.Feedback, ts, ts)
		if err != nil {
			return fmt.Errorf("insert question: %w", err)
		}
		qID, err = res.LastInsertId()
		if err != nil {
			return err
		}

		res, err = tx.ExecContext(ctx, `INSERT INTO regenerations (record_id, skill_id, original_question_id, new_question_id, reason, user_feedback, liked, created) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(original_question_id, new_question_id) DO UPDATE SET reason=excluded.reason, user_feedback=excluded.user_feedback, liked=excluded.liked`,
			reg.RecordID, reg.SkillID, reg.OriginalQuestionID, qID, reg.Reason, reg.UserFeedback, reg.Liked, ts)
		if err != nil {
			return fmt.Errorf("insert regeneration: %w", err)
		}
		regID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, 0, err
	}

	return qID, regID, nil
}

func (r *SQLiteRepo) GetRegeneration(ctx context.Context, id int64) (*models.Regeneration, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, record_id, skill_id, original_question_id, new_question_id, reason, user_feedback, liked, created FROM regenerations WHERE id = ?`, id)
	var reg models.Regeneration
	if err := row.Scan(&reg.ID, &reg.RecordID, &reg.SkillID, &reg.OriginalQuestionID, &reg.NewQuestionID, &reg.Reason, &reg.UserFeedback, &reg.Liked, &reg.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &reg, nil
}

func (r *SQLiteRepo) ListRegenerationsByRecord(ctx context.Context, recordID int64) ([]models.Regeneration, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, record_id, skill_id, original_question_id, new_question_id, reason, user_feedback, liked, created FROM regenerations WHERE record_id = ? ORDER BY created DESC`, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Regeneration
	for rows.Next() {
		var reg models.Regeneration
		if err := rows.Scan(&reg.ID, &reg.RecordID, &reg.SkillID, &reg.OriginalQuestionID, &reg.NewQuestionID, &reg.Reason, &reg.UserFeedback, &reg.Liked, &reg.Created); err != nil {
			return nil, err
		}
		out = append(out, reg)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateRegenerationFeedback(ctx context.Context, id int64, liked, userFeedback string) error {
	if liked != "" && !models.ValidLikedStatus(liked) {
		return fmt.Errorf("invalid liked status %q", liked)
	}

	if liked == "" {
		_, err := r.conn.Exec(ctx, `UPDATE regenerations SET user_feedback = ? WHERE id = ?`, userFeedback, id)
		return err
	}

	_, err := r.conn.Exec(ctx, `UPDATE regenerations SET liked = ?, user_feedback = ? WHERE id = ?`, liked, userFeedback, id)
	return err
}
