package api_test

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/buildfastwithai/jd-qna/pkg/models"
	"github.com/buildfastwithai/jd-qna/pkg/repository/mock"
)

func TestGenerateQuestions(t *testing.T) {
	engine := &fakeEngine{questions: []models.QuestionContent{
		{Question: "Q1", Answer: "A1", Difficulty: "Medium"},
		{Question: "Q2", Answer: "A2", Difficulty: "Hard"},
	}}
	store := mock.NewStore()
	recordID, skillID, _ := seedRecord(t, store)
	srv := setupServer(t, store, engine)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/generate-questions", map[string]any{"recordId": recordID})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}

	results := body["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("expected one skill group: %v", results)
	}
	group := results[0].(map[string]any)
	if int64(group["skill"].(map[string]any)["id"].(float64)) != skillID {
		t.Fatalf("unexpected skill in group: %v", group["skill"])
	}
	if qs := group["questions"].([]any); len(qs) != 2 {
		t.Fatalf("expected 2 questions persisted, got %d", len(qs))
	}

	persisted, err := store.ListQuestionsBySkill(context.Background(), skillID, false)
	if err != nil || len(persisted) != 3 { // 1 seeded + 2 generated
		t.Fatalf("store question count = %d, err = %v", len(persisted), err)
	}
}

func TestLikeQuestion_ToggleOff(t *testing.T) {
	store := mock.NewStore()
	_, _, questionID := seedRecord(t, store)
	srv := setupServer(t, store, &fakeEngine{})

	url := srv.URL + "/api/questions/1/like"
	resp, body := doJSON(t, http.MethodPost, url, map[string]any{"liked": "LIKED"})
	if resp.StatusCode != http.StatusOK || body["liked"] != "LIKED" {
		t.Fatalf("first like failed: %d %v", resp.StatusCode, body)
	}

	// same value again toggles back to NONE
	resp, body = doJSON(t, http.MethodPost, url, map[string]any{"liked": "LIKED"})
	if resp.StatusCode != http.StatusOK || body["liked"] != "NONE" {
		t.Fatalf("toggle-off failed: %d %v", resp.StatusCode, body)
	}

	q, err := store.GetQuestion(context.Background(), questionID)
	if err != nil || q.Liked != models.LikedStatusNone {
		t.Fatalf("store liked = %q, err = %v", q.Liked, err)
	}
}

func TestLikeQuestion_InvalidEnum(t *testing.T) {
	store := mock.NewStore()
	seedRecord(t, store)
	srv := setupServer(t, store, &fakeEngine{})

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/questions/1/like", map[string]any{"liked": "MEH"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRegenerateQuestion(t *testing.T) {
	engine := &fakeEngine{regen: models.QuestionContent{
		Question: "Explain channel select", Answer: "Waits on multiple channels.", Category: "TECHNICAL", Difficulty: "Medium",
	}}
	store := mock.NewStore()
	recordID, skillID, questionID := seedRecord(t, store)
	srv := setupServer(t, store, engine)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/questions/1/regenerate", map[string]any{
		"reason":       "too easy",
		"userFeedback": "ask about select",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}

	// response carries both the new question and the audit row
	newQID := idFrom(t, body, "question")
	regenID := idFrom(t, body, "regeneration")
	if newQID == questionID {
		t.Fatalf("new question must get a fresh id")
	}

	regen, err := store.GetRegeneration(context.Background(), regenID)
	if err != nil {
		t.Fatalf("regeneration not persisted: %v", err)
	}
	if regen.OriginalQuestionID != questionID || regen.NewQuestionID != newQID {
		t.Fatalf("audit row links wrong: %#v", regen)
	}
	if regen.RecordID != recordID || regen.SkillID != skillID || regen.Reason != "too easy" {
		t.Fatalf("audit row fields wrong: %#v", regen)
	}

	// exactly one new question was created
	qs, err := store.ListQuestionsBySkill(context.Background(), skillID, false)
	if err != nil || len(qs) != 2 {
		t.Fatalf("question count = %d, err = %v", len(qs), err)
	}
}

func TestRegenerateQuestion_DeletedRejected(t *testing.T) {
	store := mock.NewStore()
	_, _, questionID := seedRecord(t, store)
	if err := store.SoftDeleteQuestion(context.Background(), questionID, ""); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	srv := setupServer(t, store, &fakeEngine{})

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/questions/1/regenerate", map[string]any{"reason": "x"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for deleted question", resp.StatusCode)
	}
}

func TestRegenerateFromSkill_Bulk(t *testing.T) {
	engine := &fakeEngine{regen: models.QuestionContent{Question: "Replacement", Answer: "A"}}
	store := mock.NewStore()
	recordID, skillID, _ := seedRecord(t, store)

	// a second live question on the same skill
	if _, err := store.CreateQuestion(context.Background(), &models.Question{
		RecordID: recordID, SkillID: skillID, Content: `{"question":"second"}`,
	}); err != nil {
		t.Fatalf("create question: %v", err)
	}

	srv := setupServer(t, store, engine)
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/records/1/regenerate-questions-from-skill", map[string]any{
		"skillId": skillID,
		"reason":  "refresh",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}

	results := body["results"].([]any)
	if len(results) != 2 {
		t.Fatalf("expected one pair per original, got %d", len(results))
	}
	// each original gets a distinct replacement
	first := idFrom(t, results[0].(map[string]any), "question")
	second := idFrom(t, results[1].(map[string]any), "question")
	if first == second {
		t.Fatalf("replacements must be distinct questions")
	}
	if engine.regenCalls != 2 {
		t.Fatalf("expected 2 engine calls, got %d", engine.regenCalls)
	}
}

func TestRegenerationFeedback(t *testing.T) {
	engine := &fakeEngine{regen: models.QuestionContent{Question: "R", Answer: "A"}}
	store := mock.NewStore()
	seedRecord(t, store)
	srv := setupServer(t, store, engine)

	_, body := doJSON(t, http.MethodPost, srv.URL+"/api/questions/1/regenerate", map[string]any{"reason": "x"})
	regenID := idFrom(t, body, "regeneration")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/regenerations/"+itoa(regenID)+"/feedback", map[string]any{
		"liked":        "LIKED",
		"userFeedback": "much better",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	regen := body["regeneration"].(map[string]any)
	if regen["liked"] != "LIKED" || regen["user_feedback"] != "much better" {
		t.Fatalf("feedback not applied: %v", regen)
	}
}

func TestDeleteQuestion_Soft(t *testing.T) {
	store := mock.NewStore()
	_, _, questionID := seedRecord(t, store)
	srv := setupServer(t, store, &fakeEngine{})

	resp, _ := doJSON(t, http.MethodDelete, srv.URL+"/api/questions/1", map[string]any{"deletionFeedback": "duplicate"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	q, err := store.GetQuestion(context.Background(), questionID)
	if err != nil {
		t.Fatalf("row must survive soft delete: %v", err)
	}
	if !q.Deleted || q.DeletionFeedback != "duplicate" {
		t.Fatalf("soft delete flags wrong: %#v", q)
	}
}

func TestUpdateQuestion(t *testing.T) {
	store := mock.NewStore()
	_, _, questionID := seedRecord(t, store)
	srv := setupServer(t, store, &fakeEngine{})

	resp, body := doJSON(t, http.MethodPut, srv.URL+"/api/questions/1", map[string]any{
		"content":  map[string]any{"question": "Edited?", "answer": "Yes."},
		"feedback": "tightened wording",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}

	q, err := store.GetQuestion(context.Background(), questionID)
	if err != nil {
		t.Fatalf("get question: %v", err)
	}
	if q.ParsedContent().Question != "Edited?" || q.Feedback != "tightened wording" {
		t.Fatalf("update not applied: %#v", q)
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
