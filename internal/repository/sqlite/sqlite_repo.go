package sqlite

import (
	"time"

	"github.com/buildfastwithai/jd-qna/internal/db"
	"github.com/buildfastwithai/jd-qna/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn *db.DB
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.RecordRepo = (*SQLiteRepo)(nil)
var _ repository.SkillRepo = (*SQLiteRepo)(nil)
var _ repository.QuestionRepo = (*SQLiteRepo)(nil)
var _ repository.RegenerationRepo = (*SQLiteRepo)(nil)
var _ repository.FeedbackRepo = (*SQLiteRepo)(nil)
var _ repository.AnalyticsRepo = (*SQLiteRepo)(nil)
var _ repository.TemplateRepo = (*SQLiteRepo)(nil)
var _ repository.SchemaRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB) *SQLiteRepo {
	return &SQLiteRepo{conn: conn}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}
