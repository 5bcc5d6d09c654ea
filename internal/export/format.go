// Package export turns stored question rows into downloadable CSV, Excel and
// PDF buffers.
package export

import (
	"strings"

	"github.com/buildfastwithai/jd-qna/pkg/models"
)

// Header is the column order shared by every export format.
var Header = []string{"Question", "Answer", "Category", "Difficulty", "Skill", "Status"}

// Row is one export line, already defaulted and truncated.
type Row struct {
	Question   string
	Answer     string
	Category   string
	Difficulty string
	Skill      string
	Status     string
}

func (r Row) fields() []string {
	return []string{r.Question, r.Answer, r.Category, r.Difficulty, r.Skill, r.Status}
}

const (
	unknownValue = "Unknown"
	noneValue    = "None"
)

// Truncate shortens s to at most limit runes plus a "..." marker. A
// non-positive limit disables truncation.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// FormatQuestionForExport maps a question row to an export row. It is total:
// partial or malformed content never fails, missing fields fall back to
// "Unknown" (category, difficulty, skill) and "None" (like status). It is also
// idempotent on well-formed input, so rows can be re-formatted safely.
func FormatQuestionForExport(q *models.Question, skillName string, maxLength int) Row {
	var content models.QuestionContent
	if q != nil {
		content = q.ParsedContent()
	}

	status := noneValue
	if q != nil && models.ValidLikedStatus(q.Liked) && q.Liked != models.LikedStatusNone {
		status = q.Liked
	}

	return Row{
		Question:   Truncate(content.Question, maxLength),
		Answer:     Truncate(content.Answer, maxLength),
		Category:   orDefault(content.Category, unknownValue),
		Difficulty: orDefault(content.Difficulty, unknownValue),
		Skill:      orDefault(skillName, unknownValue),
		Status:     status,
	}
}

// BuildRows formats all questions using the record's skill list to resolve
// skill names. Soft-deleted questions are skipped.
func BuildRows(questions []models.Question, skills []models.Skill, maxLength int) []Row {
	names := make(map[int64]string, len(skills))
	for _, s := range skills {
		names[s.ID] = s.Name
	}

	rows := make([]Row, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		if q.Deleted {
			continue
		}
		rows = append(rows, FormatQuestionForExport(q, names[q.SkillID], maxLength))
	}
	return rows
}
