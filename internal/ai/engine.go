package ai

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/buildfastwithai/jd-qna/internal/config"
	"github.com/buildfastwithai/jd-qna/pkg/models"
	"github.com/buildfastwithai/jd-qna/pkg/ollama"
	"github.com/buildfastwithai/jd-qna/pkg/repository"
)

// Template names the engine loads at startup.
const (
	TemplateExtractSkills      = "extract_skills"
	TemplateGenerateQuestions  = "generate_questions"
	TemplateRegenerateQuestion = "regenerate_question"
)

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger installs a logger for the ai package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Engine wraps an Ollama client with the prompt templates and response
// schemas for skill extraction, question generation and regeneration.
type Engine struct {
	client    *ollama.Client
	cfg       config.EngineConfig
	loader    *Loader
	templates map[string]*models.PromptTemplate
}

// NewEngine creates the engine and loads templates and schemas from the DB.
func NewEngine(ctx context.Context, client *ollama.Client, cfg config.EngineConfig, sr repository.SchemaRepo, tr repository.TemplateRepo) (*Engine, error) {
	if cfg.TemplateVersion == "" {
		cfg.TemplateVersion = "v1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	if sr == nil {
		return nil, fmt.Errorf("schema repo is required")
	}
	if tr == nil {
		return nil, fmt.Errorf("template repo is required")
	}

	loader, err := NewLoader(ctx, sr)
	if err != nil {
		return nil, fmt.Errorf("create loader: %w", err)
	}

	templates := make(map[string]*models.PromptTemplate)
	for _, name := range []string{TemplateExtractSkills, TemplateGenerateQuestions, TemplateRegenerateQuestion} {
		tpl, err := tr.GetTemplate(ctx, name, cfg.TemplateVersion)
		if err != nil {
			return nil, fmt.Errorf("load template %s: %w", name, err)
		}
		if tpl == nil || tpl.TemplateTxt == "" {
			return nil, fmt.Errorf("template %s:%s not found", name, cfg.TemplateVersion)
		}
		templates[name] = tpl
	}

	return &Engine{client: client, cfg: cfg, loader: loader, templates: templates}, nil
}

// ReloadSchemas refreshes the compiled schema cache from the DB.
func (e *Engine) ReloadSchemas(ctx context.Context) error {
	return e.loader.Reload(ctx)
}

func (e *Engine) generate(ctx context.Context, name string, data any) (string, *models.PromptTemplate, error) {
	tpl := e.templates[name]
	prompt, err := ollama.RenderTemplate(tpl.TemplateTxt, data)
	if err != nil {
		return "", nil, fmt.Errorf("render template: %w", err)
	}

	ctxReq, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	out, err := e.client.Generate(ctxReq, e.cfg.Model, prompt)
	if err != nil {
		return "", nil, fmt.Errorf("generate: %w", err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", nil, fmt.Errorf("empty completion")
	}

	return out.Text, tpl, nil
}

// validate checks raw output against the template's schema, when one is
// registered. A missing schema is not an error; validation runs best-effort.
func (e *Engine) validate(ctx context.Context, tpl *models.PromptTemplate, raw string) error {
	if tpl.SchemaVer == nil || *tpl.SchemaVer == "" {
		return nil
	}
	schema, ok := e.loader.GetSchema(*tpl.SchemaVer)
	if !ok || schema == nil {
		return nil
	}

	j := extractJSON(raw)
	if j == "" {
		return fmt.Errorf("no JSON object found in response")
	}

	verrs, err := schema.ValidateBytes(ctx, []byte(j))
	if err != nil {
		return fmt.Errorf("schema validate error: %w", err)
	}
	if len(verrs) > 0 {
		var sb strings.Builder
		for _, v := range verrs {
			sb.WriteString(v.Message)
			sb.WriteString("; ")
		}
		return fmt.Errorf("response does not match schema: %s", sb.String())
	}
	return nil
}

// ExtractSkills prompts the model with the job description and returns the
// normalized skill list.
func (e *Engine) ExtractSkills(ctx context.Context, jobTitle, description string, interviewLength int) ([]SkillSpec, error) {
	data := map[string]any{
		"JobTitle":        jobTitle,
		"Description":     description,
		"InterviewLength": interviewLength,
	}
	raw, tpl, err := e.generate(ctx, TemplateExtractSkills, data)
	if err != nil {
		return nil, err
	}

	if err := e.validate(ctx, tpl, raw); err != nil {
		logger.Error("extract skills schema validation failed", slog.Any("err", err))
		return nil, err
	}

	resp, err := ParseSkillsResponse(raw)
	if err != nil {
		logger.Error("extract skills parse failed", slog.Any("err", err), slog.String("raw", raw))
		return nil, fmt.Errorf("parse response: %w", err)
	}

	out := make([]SkillSpec, 0, len(resp.Skills))
	for i, s := range resp.Skills {
		if strings.TrimSpace(s.Name) == "" {
			continue
		}
		out = append(out, normalizeSkill(s, i))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no usable skills in response")
	}
	return out, nil
}

func normalizeSkill(s SkillSpec, idx int) SkillSpec {
	s.Level = strings.ToUpper(strings.TrimSpace(s.Level))
	if !models.ValidLevel(s.Level) {
		s.Level = models.LevelIntermediate
	}
	s.Requirement = strings.ToUpper(strings.TrimSpace(s.Requirement))
	if !models.ValidRequirement(s.Requirement) {
		s.Requirement = models.RequirementOptional
	}
	s.Category = strings.ToUpper(strings.TrimSpace(s.Category))
	if !models.ValidCategory(s.Category) {
		s.Category = models.CategoryTechnical
	}
	if s.Priority <= 0 {
		s.Priority = idx + 1
	}
	if s.NumQuestions <= 0 {
		s.NumQuestions = 1
	}
	return s
}

// GenerateQuestions prompts the model for a skill's questions.
func (e *Engine) GenerateQuestions(ctx context.Context, rec *models.SkillRecord, skill *models.Skill) ([]models.QuestionContent, error) {
	data := map[string]any{
		"JobTitle":      rec.JobTitle,
		"Description":   rec.RawDescription,
		"SkillName":     skill.Name,
		"SkillLevel":    skill.Level,
		"SkillCategory": skill.Category,
		"Difficulty":    skill.Difficulty,
		"NumQuestions":  skill.NumQuestions,
	}
	raw, tpl, err := e.generate(ctx, TemplateGenerateQuestions, data)
	if err != nil {
		return nil, err
	}

	if err := e.validate(ctx, tpl, raw); err != nil {
		logger.Error("generate questions schema validation failed", slog.Any("err", err))
		return nil, err
	}

	resp, err := ParseQuestionsResponse(raw)
	if err != nil {
		logger.Error("generate questions parse failed", slog.Any("err", err), slog.String("raw", raw))
		return nil, fmt.Errorf("parse response: %w", err)
	}

	for i := range resp.Questions {
		resp.Questions[i].Coding = IsCodingQuestion(resp.Questions[i])
	}
	return resp.Questions, nil
}

// RegenerateInput carries the context embedded in a regeneration prompt.
type RegenerateInput struct {
	SkillName        string
	SkillLevel       string
	SkillCategory    string
	Difficulty       string
	OriginalQuestion string
	OriginalAnswer   string
	Reason           string
	UserFeedback     string
	StandingFeedback string
}

// RegenerateQuestion produces a replacement question addressing the stated
// feedback. Parse and schema failures degrade to best-effort field scraping
// instead of failing the operation; only an LLM call failure or an empty
// completion is returned as an error.
func (e *Engine) RegenerateQuestion(ctx context.Context, in RegenerateInput) (models.QuestionContent, error) {
	data := map[string]any{
		"SkillName":        in.SkillName,
		"SkillLevel":       in.SkillLevel,
		"SkillCategory":    in.SkillCategory,
		"Difficulty":       in.Difficulty,
		"OriginalQuestion": in.OriginalQuestion,
		"OriginalAnswer":   in.OriginalAnswer,
		"Reason":           in.Reason,
		"UserFeedback":     in.UserFeedback,
		"StandingFeedback": in.StandingFeedback,
	}
	raw, tpl, err := e.generate(ctx, TemplateRegenerateQuestion, data)
	if err != nil {
		return models.QuestionContent{}, err
	}

	content, strict, perr := ParseQuestionResponse(raw)
	if perr != nil {
		return models.QuestionContent{}, fmt.Errorf("parse response: %w", perr)
	}
	if strict {
		if verr := e.validate(ctx, tpl, raw); verr != nil {
			logger.Warn("regenerated question failed schema validation, using scraped fields", slog.Any("err", verr))
			content = ScrapeQuestion(raw)
		}
	} else {
		logger.Warn("regenerated question was not valid JSON, scraped fields from raw output")
	}

	if content.Category == "" {
		content.Category = in.SkillCategory
	}
	if content.Difficulty == "" {
		content.Difficulty = in.Difficulty
	}
	content.Coding = IsCodingQuestion(content)

	return content, nil
}
