package ai

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/buildfastwithai/jd-qna/pkg/models"
)

// SkillsResponse is the structured output expected from skill extraction.
type SkillsResponse struct {
	Skills []SkillSpec `json:"skills"`
}

type SkillSpec struct {
	Name         string `json:"name"`
	Level        string `json:"level"`
	Requirement  string `json:"requirement"`
	Category     string `json:"category"`
	Priority     int    `json:"priority"`
	NumQuestions int    `json:"num_questions"`
	Difficulty   string `json:"difficulty"`
}

// QuestionsResponse is the structured output expected from question generation.
type QuestionsResponse struct {
	Questions []models.QuestionContent `json:"questions"`
}

// extractJSON returns the substring from the first '{' to the last '}' in the
// input. This is a pragmatic approach to handle model outputs that wrap JSON
// in text or markdown.
func extractJSON(s string) string {
	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first == -1 || last == -1 || last < first {
		return ""
	}
	return s[first : last+1]
}

// ParseSkillsResponse extracts and unmarshals the skill list from model output.
func ParseSkillsResponse(s string) (*SkillsResponse, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.New("empty response")
	}

	j := extractJSON(s)
	if j == "" {
		return nil, errors.New("no JSON object found in response")
	}

	var r SkillsResponse
	if err := json.Unmarshal([]byte(j), &r); err != nil {
		return nil, err
	}
	if len(r.Skills) == 0 {
		return nil, errors.New("no skills in response")
	}
	return &r, nil
}

// ParseQuestionsResponse extracts and unmarshals the question list from model output.
func ParseQuestionsResponse(s string) (*QuestionsResponse, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.New("empty response")
	}

	j := extractJSON(s)
	if j == "" {
		return nil, errors.New("no JSON object found in response")
	}

	var r QuestionsResponse
	if err := json.Unmarshal([]byte(j), &r); err != nil {
		return nil, err
	}
	if len(r.Questions) == 0 {
		return nil, errors.New("no questions in response")
	}
	return &r, nil
}

// ParseQuestionResponse parses a single-question completion. It first tries
// strict JSON; when that fails it scrapes fields out of the raw text, so a
// minimal valid question object is always produced for non-empty input. The
// returned bool reports whether the strict path succeeded.
func ParseQuestionResponse(s string) (models.QuestionContent, bool, error) {
	if strings.TrimSpace(s) == "" {
		return models.QuestionContent{}, false, errors.New("empty response")
	}

	if j := extractJSON(s); j != "" {
		var c models.QuestionContent
		if err := json.Unmarshal([]byte(j), &c); err == nil && strings.TrimSpace(c.Question) != "" {
			return c, true, nil
		}
	}

	return ScrapeQuestion(s), false, nil
}

var (
	questionFieldRe   = regexp.MustCompile(`"question"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	answerFieldRe     = regexp.MustCompile(`"answer"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	categoryFieldRe   = regexp.MustCompile(`"category"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	difficultyFieldRe = regexp.MustCompile(`"difficulty"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	formatFieldRe     = regexp.MustCompile(`"format"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	codingFieldRe     = regexp.MustCompile(`"coding"\s*:\s*(true|false)`)
)

func unescapeField(s string) string {
	var out string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &out); err != nil {
		return s
	}
	return out
}

// ScrapeQuestion performs best-effort field extraction from malformed model
// output. When not even a question field can be found, the first non-empty
// line of the output becomes the question so the operation still yields a
// usable object.
func ScrapeQuestion(s string) models.QuestionContent {
	var c models.QuestionContent

	if m := questionFieldRe.FindStringSubmatch(s); m != nil {
		c.Question = unescapeField(m[1])
	}
	if m := answerFieldRe.FindStringSubmatch(s); m != nil {
		c.Answer = unescapeField(m[1])
	}
	if m := categoryFieldRe.FindStringSubmatch(s); m != nil {
		c.Category = unescapeField(m[1])
	}
	if m := difficultyFieldRe.FindStringSubmatch(s); m != nil {
		c.Difficulty = unescapeField(m[1])
	}
	if m := formatFieldRe.FindStringSubmatch(s); m != nil {
		c.Format = unescapeField(m[1])
	}
	if m := codingFieldRe.FindStringSubmatch(s); m != nil {
		c.Coding = m[1] == "true"
	}

	if strings.TrimSpace(c.Question) == "" {
		for _, line := range strings.Split(s, "\n") {
			line = strings.TrimSpace(line)
			if line != "" && line != "{" && line != "}" {
				c.Question = line
				break
			}
		}
	}

	return c
}

var codingKeywords = []string{
	"write a function",
	"write code",
	"implement",
	"algorithm",
	"write a program",
	"coding",
	"debug",
	"sql query",
	"pseudocode",
	"time complexity",
}

// IsCodingQuestion derives the coding flag from the model's explicit flag,
// keyword matches on the question text, or the declared format. Deliberately
// wide recall.
func IsCodingQuestion(c models.QuestionContent) bool {
	if c.Coding {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(c.Format), "coding") {
		return true
	}

	q := strings.ToLower(c.Question)
	for _, kw := range codingKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
