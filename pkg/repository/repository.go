package repository

import (
	"context"

	"github.com/buildfastwithai/jd-qna/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

type RecordRepo interface {
	CreateRecord(ctx context.Context, r *models.SkillRecord) (int64, error)
	GetRecord(ctx context.Context, id int64) (*models.SkillRecord, error)
	ListRecords(ctx context.Context, limit, offset int) ([]models.SkillRecord, error)
	CountRecords(ctx context.Context) (int64, error)
	DeleteRecord(ctx context.Context, id int64) error
}

type SkillRepo interface {
	CreateSkill(ctx context.Context, s *models.Skill) (int64, error)
	GetSkill(ctx context.Context, id int64) (*models.Skill, error)
	ListSkillsByRecord(ctx context.Context, recordID int64) ([]models.Skill, error)
	UpdateSkill(ctx context.Context, s *models.Skill) error
	// DeleteSkill hard-deletes the skill and cascades to its questions and feedbacks.
	DeleteSkill(ctx context.Context, id int64) error
	SetSkillPool(ctx context.Context, id, poolID int64, poolName string) error
}

type QuestionRepo interface {
	CreateQuestion(ctx context.Context, q *models.Question) (int64, error)
	GetQuestion(ctx context.Context, id int64) (*models.Question, error)
	ListQuestionsByRecord(ctx context.Context, recordID int64, includeDeleted bool) ([]models.Question, error)
	ListQuestionsBySkill(ctx context.Context, skillID int64, includeDeleted bool) ([]models.Question, error)
	UpdateQuestion(ctx context.Context, id int64, content, feedback string) error
	SetLiked(ctx context.Context, id int64, liked string) error
	// SoftDeleteQuestion flags the row; the content stays for audit.
	SoftDeleteQuestion(ctx context.Context, id int64, deletionFeedback string) error
	SetFloIDs(ctx context.Context, id, floQuestionID, floPoolID int64) error
}

type RegenerationRepo interface {
	// CreateRegeneration inserts the replacement question and the audit row
	// atomically: both rows exist afterwards, or neither does. It upserts on
	// the (original, new) pair and returns the new question id and the
	// regeneration id.
	CreateRegeneration(ctx context.Context, q *models.Question, r *models.Regeneration) (int64, int64, error)
	GetRegeneration(ctx context.Context, id int64) (*models.Regeneration, error)
	ListRegenerationsByRecord(ctx context.Context, recordID int64) ([]models.Regeneration, error)
	UpdateRegenerationFeedback(ctx context.Context, id int64, liked, userFeedback string) error
}

type FeedbackRepo interface {
	CreateFeedback(ctx context.Context, f *models.Feedback) (int64, error)
	ListFeedbackBySkill(ctx context.Context, skillID int64) ([]models.Feedback, error)
	UpsertGlobalFeedback(ctx context.Context, recordID int64, content string) (*models.GlobalFeedback, error)
	GetGlobalFeedback(ctx context.Context, recordID int64) (*models.GlobalFeedback, error)
}

// AnalyticsFilter narrows regeneration stats to one record and/or skill.
type AnalyticsFilter struct {
	RecordID *int64
	SkillID  *int64
	// TopN limits the per-skill breakdown; <= 0 means the default of 10.
	TopN int
}

type AnalyticsRepo interface {
	RegenerationStats(ctx context.Context, f AnalyticsFilter) (*models.RegenerationStats, error)
}

type TemplateRepo interface {
	GetTemplate(ctx context.Context, name, version string) (*models.PromptTemplate, error)
}

type SchemaRepo interface {
	CreateSchema(ctx context.Context, version, description, schemaJSON string) (int64, error)
	GetSchemaByVersion(ctx context.Context, version string) (*models.ResponseSchema, error)
	ListSchemas(ctx context.Context) ([]models.ResponseSchema, error)
}
