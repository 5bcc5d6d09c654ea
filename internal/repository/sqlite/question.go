package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/buildfastwithai/jd-qna/pkg/models"
)

const questionColumns = `id, record_id, skill_id, content, liked, feedback, deleted, deletion_feedback, flo_question_id, flo_pool_id, created, updated`

func scanQuestion(scan func(dest ...any) error) (*models.Question, error) {
	var q models.Question
	var deleted int
	var floQ, floP sql.NullInt64
	if err := scan(&q.ID, &q.RecordID, &q.SkillID, &q.Content, &q.Liked, &q.Feedback, &deleted, &q.DeletionFeedback, &floQ, &floP, &q.Created, &q.Updated); err != nil {
		return nil, err
	}
	q.Deleted = deleted != 0
	if floQ.Valid {
		v := floQ.Int64
		q.FloQuestionID = &v
	}
	if floP.Valid {
		v := floP.Int64
		q.FloPoolID = &v
	}
	return &q, nil
}

func (r *SQLiteRepo) CreateQuestion(ctx context.Context, q *models.Question) (int64, error) {
	if q == nil {
		return 0, fmt.Errorf("question is nil")
	}
	if q.Liked == "" {
		q.Liked = models.LikedStatusNone
	}

	ts := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO questions (record_id, skill_id, content, liked, feedback, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		q.RecordID, q.SkillID, q.Content, q.Liked, q.Feedback, ts, ts)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = ?`, id)
	q, err := scanQuestion(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return q, nil
}

func (r *SQLiteRepo) ListQuestionsByRecord(ctx context.Context, recordID int64, includeDeleted bool) ([]models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE record_id = ?`
	if !includeDeleted {
		query += ` AND deleted = 0`
	}
	query += ` ORDER BY skill_id ASC, id ASC`

	return r.listQuestions(ctx, query, recordID)
}

func (r *SQLiteRepo) ListQuestionsBySkill(ctx context.Context, skillID int64, includeDeleted bool) ([]models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE skill_id = ?`
	if !includeDeleted {
		query += ` AND deleted = 0`
	}
	query += ` ORDER BY id ASC`

	return r.listQuestions(ctx, query, skillID)
}

func (r *SQLiteRepo) listQuestions(ctx context.Context, query string, args ...any) ([]models.Question, error) {
	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) UpdateQuestion(ctx context.Context, id int64, content, feedback string) error {
	_, err := r.conn.Exec(ctx, `UPDATE questions SET content = ?, feedback = ?, updated = ? WHERE id = ?`, content, feedback, now(), id)
	return err
}

func (r *SQLiteRepo) SetLiked(ctx context.Context, id int64, liked string) error {
	if !models.ValidLikedStatus(liked) {
		return fmt.Errorf("invalid liked status %q", liked)
	}

	_, err := r.conn.Exec(ctx, `UPDATE questions SET liked = ?, updated = ? WHERE id = ?`, liked, now(), id)
	return err
}

func (r *SQLiteRepo) SoftDeleteQuestion(ctx context.Context, id int64, deletionFeedback string) error {
	_, err := r.conn.Exec(ctx, `UPDATE questions SET deleted = 1, deletion_feedback = ?, updated = ? WHERE id = ?`, deletionFeedback, now(), id)
	return err
}

func (r *SQLiteRepo) SetFloIDs(ctx context.Context, id, floQuestionID, floPoolID int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE questions SET flo_question_id = ?, flo_pool_id = ?, updated = ? WHERE id = ?`, floQuestionID, floPoolID, now(), id)
	return err
}
