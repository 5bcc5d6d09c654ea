package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/buildfastwithai/jd-qna/api"
	"github.com/buildfastwithai/jd-qna/internal/ai"
	"github.com/buildfastwithai/jd-qna/internal/config"
	"github.com/buildfastwithai/jd-qna/pkg/models"
	"github.com/buildfastwithai/jd-qna/pkg/repository/mock"
)

const testToken = "test-token"

// fakeEngine returns canned results; setting err fails every call.
type fakeEngine struct {
	skills    []ai.SkillSpec
	questions []models.QuestionContent
	regen     models.QuestionContent
	err       error

	regenCalls int
}

func (f *fakeEngine) ExtractSkills(context.Context, string, string, int) ([]ai.SkillSpec, error) {
	return f.skills, f.err
}

func (f *fakeEngine) GenerateQuestions(context.Context, *models.SkillRecord, *models.Skill) ([]models.QuestionContent, error) {
	return f.questions, f.err
}

func (f *fakeEngine) RegenerateQuestion(context.Context, ai.RegenerateInput) (models.QuestionContent, error) {
	f.regenCalls++
	return f.regen, f.err
}

func setupServer(t *testing.T, store *mock.Store, engine api.Engine) *httptest.Server {
	t.Helper()
	cfg := &config.Config{Addr: ":0", APIToken: testToken}
	router := api.SetupRoutes(cfg, "test", "now", api.Deps{
		Records:       store,
		Skills:        store,
		Questions:     store,
		Regenerations: store,
		Feedback:      store,
		Analytics:     store,
		Engine:        engine,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var parsed map[string]any
	if len(data) > 0 {
		if err := json.Unmarshal(data, &parsed); err != nil {
			t.Fatalf("unmarshal response %q: %v", data, err)
		}
	}
	return resp, parsed
}

// seedRecord creates a record with one skill and one question, returning ids.
func seedRecord(t *testing.T, store *mock.Store) (recordID, skillID, questionID int64) {
	t.Helper()
	ctx := context.Background()

	recordID, err := store.CreateRecord(ctx, &models.SkillRecord{JobTitle: "Backend Engineer", RawDescription: "Go services", InterviewLength: 60})
	if err != nil {
		t.Fatalf("seed record: %v", err)
	}
	skillID, err = store.CreateSkill(ctx, &models.Skill{
		RecordID: recordID, Name: "Go", Level: models.LevelExpert,
		Requirement: models.RequirementMandatory, Category: models.CategoryTechnical,
		Priority: 1, NumQuestions: 2,
	})
	if err != nil {
		t.Fatalf("seed skill: %v", err)
	}

	content, _ := json.Marshal(models.QuestionContent{Question: "What is a goroutine?", Answer: "A lightweight thread.", Category: "TECHNICAL", Difficulty: "Medium"})
	questionID, err = store.CreateQuestion(ctx, &models.Question{RecordID: recordID, SkillID: skillID, Content: string(content)})
	if err != nil {
		t.Fatalf("seed question: %v", err)
	}
	return recordID, skillID, questionID
}

// idFrom walks the decoded body along path and returns the object's id field.
func idFrom(t *testing.T, body map[string]any, path ...string) int64 {
	t.Helper()
	var cur any = body
	for _, p := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			t.Fatalf("path %v not found in %v", path, body)
		}
		cur = m[p]
	}
	if m, ok := cur.(map[string]any); ok {
		cur = m["id"]
	}
	f, ok := cur.(float64)
	if !ok {
		t.Fatalf("no numeric id at %v: %v", path, cur)
	}
	return int64(f)
}
