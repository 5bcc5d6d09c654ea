package ai

import (
	"strings"
	"testing"

	"github.com/buildfastwithai/jd-qna/pkg/models"
)

func TestParseSkillsResponse(t *testing.T) {
	raw := "Here are the skills:\n```json\n{\"skills\":[{\"name\":\"Go\",\"level\":\"EXPERT\",\"requirement\":\"MANDATORY\",\"category\":\"TECHNICAL\",\"priority\":1,\"num_questions\":2,\"difficulty\":\"Hard\"}]}\n```"
	resp, err := ParseSkillsResponse(raw)
	if err != nil {
		t.Fatalf("ParseSkillsResponse error: %v", err)
	}
	if len(resp.Skills) != 1 || resp.Skills[0].Name != "Go" {
		t.Fatalf("unexpected skills: %#v", resp.Skills)
	}
}

func TestParseSkillsResponse_Errors(t *testing.T) {
	if _, err := ParseSkillsResponse(""); err == nil {
		t.Fatalf("expected error for empty response")
	}
	if _, err := ParseSkillsResponse("no json here"); err == nil {
		t.Fatalf("expected error when no JSON object present")
	}
	if _, err := ParseSkillsResponse(`{"skills":[]}`); err == nil {
		t.Fatalf("expected error for empty skill list")
	}
}

func TestParseQuestionsResponse(t *testing.T) {
	raw := `{"questions":[{"question":"What is a goroutine?","answer":"A lightweight thread.","category":"TECHNICAL","difficulty":"Medium","format":"open-ended"}]}`
	resp, err := ParseQuestionsResponse(raw)
	if err != nil {
		t.Fatalf("ParseQuestionsResponse error: %v", err)
	}
	if len(resp.Questions) != 1 || resp.Questions[0].Answer != "A lightweight thread." {
		t.Fatalf("unexpected questions: %#v", resp.Questions)
	}
}

func TestParseQuestionResponse_StrictJSON(t *testing.T) {
	raw := `{"question":"Q1","answer":"A1","category":"TECHNICAL","difficulty":"Easy","format":"open-ended","coding":false}`
	c, strict, err := ParseQuestionResponse(raw)
	if err != nil {
		t.Fatalf("ParseQuestionResponse error: %v", err)
	}
	if !strict {
		t.Fatalf("expected strict parse to succeed")
	}
	if c.Question != "Q1" || c.Answer != "A1" {
		t.Fatalf("unexpected content: %#v", c)
	}
}

func TestParseQuestionResponse_FallbackScrape(t *testing.T) {
	// truncated JSON: strict parse fails, scrape still finds the fields
	raw := `{"question": "Explain channels", "answer": "Channels synchronize goroutines", "difficulty": "Medium",`
	c, strict, err := ParseQuestionResponse(raw)
	if err != nil {
		t.Fatalf("ParseQuestionResponse error: %v", err)
	}
	if strict {
		t.Fatalf("expected fallback path for malformed JSON")
	}
	if c.Question != "Explain channels" {
		t.Fatalf("scrape did not find question: %#v", c)
	}
	if c.Answer != "Channels synchronize goroutines" {
		t.Fatalf("scrape did not find answer: %#v", c)
	}
	if c.Difficulty != "Medium" {
		t.Fatalf("scrape did not find difficulty: %#v", c)
	}
}

func TestParseQuestionResponse_PlainTextFallback(t *testing.T) {
	raw := "Tell me about your last production incident.\nSome trailing commentary."
	c, strict, err := ParseQuestionResponse(raw)
	if err != nil {
		t.Fatalf("ParseQuestionResponse error: %v", err)
	}
	if strict {
		t.Fatalf("expected fallback for plain text")
	}
	if c.Question != "Tell me about your last production incident." {
		t.Fatalf("expected first line as question, got %q", c.Question)
	}
}

func TestParseQuestionResponse_Empty(t *testing.T) {
	if _, _, err := ParseQuestionResponse("   "); err == nil {
		t.Fatalf("expected error for empty response")
	}
}

func TestScrapeQuestion_EscapedQuotes(t *testing.T) {
	raw := `"question": "What does \"defer\" do?", "answer": "Schedules a call"`
	c := ScrapeQuestion(raw)
	if c.Question != `What does "defer" do?` {
		t.Fatalf("expected unescaped question, got %q", c.Question)
	}
}

func TestIsCodingQuestion(t *testing.T) {
	cases := []struct {
		name string
		in   models.QuestionContent
		want bool
	}{
		{"ExplicitFlag", models.QuestionContent{Question: "Anything", Coding: true}, true},
		{"CodingFormat", models.QuestionContent{Question: "Anything", Format: "coding"}, true},
		{"KeywordMatch", models.QuestionContent{Question: "Write a function that reverses a list"}, true},
		{"AlgorithmKeyword", models.QuestionContent{Question: "Describe an algorithm for deduplication"}, true},
		{"Behavioral", models.QuestionContent{Question: "Tell me about a conflict with a teammate"}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := IsCodingQuestion(c.in); got != c.want {
				t.Fatalf("IsCodingQuestion(%q) = %v, want %v", c.in.Question, got, c.want)
			}
		})
	}
}

func TestNormalizeSkill_Defaults(t *testing.T) {
	s := normalizeSkill(SkillSpec{Name: "Go", Level: "wizard", Requirement: "maybe", Category: "misc"}, 2)
	if s.Level != models.LevelIntermediate {
		t.Fatalf("expected default level, got %q", s.Level)
	}
	if s.Requirement != models.RequirementOptional {
		t.Fatalf("expected default requirement, got %q", s.Requirement)
	}
	if s.Category != models.CategoryTechnical {
		t.Fatalf("expected default category, got %q", s.Category)
	}
	if s.Priority != 3 {
		t.Fatalf("expected index-based priority, got %d", s.Priority)
	}
	if s.NumQuestions != 1 {
		t.Fatalf("expected at least one question, got %d", s.NumQuestions)
	}
}

func TestExtractJSON(t *testing.T) {
	if got := extractJSON("prefix {\"a\":1} suffix"); got != `{"a":1}` {
		t.Fatalf("unexpected extract: %q", got)
	}
	if got := extractJSON("no braces"); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if !strings.HasPrefix(extractJSON(`{"a":{"b":2}}`), "{") {
		t.Fatalf("nested extract broken")
	}
}
