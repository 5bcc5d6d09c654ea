package api

import (
	"context"

	"github.com/buildfastwithai/jd-qna/internal/ai"
	"github.com/buildfastwithai/jd-qna/pkg/models"
)

// Engine is the LLM surface handlers depend on; *ai.Engine satisfies it and
// tests substitute fakes.
type Engine interface {
	ExtractSkills(ctx context.Context, jobTitle, description string, interviewLength int) ([]ai.SkillSpec, error)
	GenerateQuestions(ctx context.Context, rec *models.SkillRecord, skill *models.Skill) ([]models.QuestionContent, error)
	RegenerateQuestion(ctx context.Context, in ai.RegenerateInput) (models.QuestionContent, error)
}

var _ Engine = (*ai.Engine)(nil)
