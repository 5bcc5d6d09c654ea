package models

import "encoding/json"

// Skill level, requirement and category enums mirror the values the LLM is
// prompted to emit; anything else is rejected before persistence.
const (
	LevelBeginner     = "BEGINNER"
	LevelIntermediate = "INTERMEDIATE"
	LevelProfessional = "PROFESSIONAL"
	LevelExpert       = "EXPERT"

	RequirementMandatory = "MANDATORY"
	RequirementOptional  = "OPTIONAL"

	CategoryTechnical  = "TECHNICAL"
	CategoryFunctional = "FUNCTIONAL"
	CategoryBehavioral = "BEHAVIORAL"
	CategoryCognitive  = "COGNITIVE"

	LikedStatusLiked    = "LIKED"
	LikedStatusDisliked = "DISLIKED"
	LikedStatusNone     = "NONE"
)

func ValidLevel(s string) bool {
	switch s {
	case LevelBeginner, LevelIntermediate, LevelProfessional, LevelExpert:
		return true
	}
	return false
}

func ValidRequirement(s string) bool {
	return s == RequirementMandatory || s == RequirementOptional
}

func ValidCategory(s string) bool {
	switch s {
	case CategoryTechnical, CategoryFunctional, CategoryBehavioral, CategoryCognitive:
		return true
	}
	return false
}

func ValidLikedStatus(s string) bool {
	switch s {
	case LikedStatusLiked, LikedStatusDisliked, LikedStatusNone:
		return true
	}
	return false
}

// SkillRecord is one job-description analysis session. It owns the skills
// extracted from the description and every question generated for them.
type SkillRecord struct {
	ID              int64  `json:"id" db:"id"`
	JobTitle        string `json:"job_title" db:"job_title"`
	RawDescription  string `json:"raw_description" db:"raw_description"`
	InterviewLength int    `json:"interview_length" db:"interview_length"`
	Created         int64  `json:"created" db:"created"`
	Updated         int64  `json:"updated" db:"updated"`
}

// Skill is a competency extracted for a record.
type Skill struct {
	ID           int64  `json:"id" db:"id"`
	RecordID     int64  `json:"record_id" db:"record_id"`
	Name         string `json:"name" db:"name"`
	Level        string `json:"level" db:"level"`
	Requirement  string `json:"requirement" db:"requirement"`
	Category     string `json:"category" db:"category"`
	Priority     int    `json:"priority" db:"priority"`
	NumQuestions int    `json:"num_questions" db:"num_questions"`
	Difficulty   string `json:"difficulty,omitempty" db:"difficulty"`
	FloPoolID    *int64 `json:"flo_pool_id,omitempty" db:"flo_pool_id"`
	FloPoolName  string `json:"flo_pool_name,omitempty" db:"flo_pool_name"`
	Created      int64  `json:"created" db:"created"`
	Updated      int64  `json:"updated" db:"updated"`
}

// QuestionContent is the JSON blob stored in questions.content. The blob is
// opaque to the database; missing fields are tolerated everywhere downstream.
type QuestionContent struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   string `json:"category,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Format     string `json:"format,omitempty"`
	Coding     bool   `json:"coding,omitempty"`
}

// Question is one generated interview question+answer pair.
type Question struct {
	ID               int64  `json:"id" db:"id"`
	RecordID         int64  `json:"record_id" db:"record_id"`
	SkillID          int64  `json:"skill_id" db:"skill_id"`
	Content          string `json:"content" db:"content"`
	Liked            string `json:"liked" db:"liked"`
	Feedback         string `json:"feedback,omitempty" db:"feedback"`
	Deleted          bool   `json:"deleted" db:"deleted"`
	DeletionFeedback string `json:"deletion_feedback,omitempty" db:"deletion_feedback"`
	FloQuestionID    *int64 `json:"flo_question_id,omitempty" db:"flo_question_id"`
	FloPoolID        *int64 `json:"flo_pool_id,omitempty" db:"flo_pool_id"`
	Created          int64  `json:"created" db:"created"`
	Updated          int64  `json:"updated" db:"updated"`
}

// ParsedContent decodes the content blob. Decode errors yield a zero value
// rather than an error: downstream consumers default missing fields.
func (q *Question) ParsedContent() QuestionContent {
	var c QuestionContent
	if q.Content != "" {
		_ = json.Unmarshal([]byte(q.Content), &c)
	}
	return c
}

// Regeneration is the audit link between an original question and its
// LLM-produced replacement. Rows are created at regeneration time and never
// deleted.
type Regeneration struct {
	ID                 int64  `json:"id" db:"id"`
	RecordID           int64  `json:"record_id" db:"record_id"`
	SkillID            int64  `json:"skill_id" db:"skill_id"`
	OriginalQuestionID int64  `json:"original_question_id" db:"original_question_id"`
	NewQuestionID      int64  `json:"new_question_id" db:"new_question_id"`
	Reason             string `json:"reason,omitempty" db:"reason"`
	UserFeedback       string `json:"user_feedback,omitempty" db:"user_feedback"`
	Liked              string `json:"liked" db:"liked"`
	Created            int64  `json:"created" db:"created"`
}

// Feedback is a free-text note attached to a skill.
type Feedback struct {
	ID      int64  `json:"id" db:"id"`
	SkillID int64  `json:"skill_id" db:"skill_id"`
	Content string `json:"content" db:"content"`
	Created int64  `json:"created" db:"created"`
}

// GlobalFeedback is the single per-record note, upserted by record id.
type GlobalFeedback struct {
	ID       int64  `json:"id" db:"id"`
	RecordID int64  `json:"record_id" db:"record_id"`
	Content  string `json:"content" db:"content"`
	Created  int64  `json:"created" db:"created"`
	Updated  int64  `json:"updated" db:"updated"`
}

// PromptTemplate is a versioned prompt stored in the database and rendered
// with text/template at call time.
type PromptTemplate struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Version     string  `json:"version" db:"version"`
	TemplateTxt string  `json:"template_text" db:"template_text"`
	SchemaVer   *string `json:"schema_version,omitempty" db:"schema_version"`
	Created     int64   `json:"created" db:"created"`
	Updated     int64   `json:"updated" db:"updated"`
}

// ResponseSchema is a JSON schema used to validate structured LLM output.
type ResponseSchema struct {
	ID          int64  `json:"id" db:"id"`
	Version     string `json:"version" db:"version"`
	Description string `json:"description,omitempty" db:"description"`
	SchemaJSON  string `json:"schema_json" db:"schema_json"`
	Created     int64  `json:"created" db:"created"`
	Updated     int64  `json:"updated" db:"updated"`
}
