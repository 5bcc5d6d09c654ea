package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/buildfastwithai/jd-qna/api"
	"github.com/buildfastwithai/jd-qna/internal/config"
	"github.com/buildfastwithai/jd-qna/internal/flocareer"
	"github.com/buildfastwithai/jd-qna/pkg/models"
	"github.com/buildfastwithai/jd-qna/pkg/repository/mock"
)

type fakePusher struct {
	calls []*flocareer.PoolRequest
	err   error
}

func (f *fakePusher) CreateQuestionPool(_ context.Context, req *flocareer.PoolRequest) (*flocareer.PoolResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, req)
	ids := make([]int64, len(req.Questions))
	for i := range ids {
		ids[i] = int64(100 + i)
	}
	return &flocareer.PoolResponse{Success: true, PoolID: int64(40 + len(f.calls)), QuestionIDs: ids}, nil
}

func setupFloServer(t *testing.T, store *mock.Store, pusher api.PoolPusher) *httptest.Server {
	t.Helper()
	cfg := &config.Config{Addr: ":0", APIToken: testToken}
	router := api.SetupRoutes(cfg, "test", "now", api.Deps{
		Records: store, Skills: store, Questions: store,
		Regenerations: store, Feedback: store, Analytics: store,
		Engine: &fakeEngine{}, Flo: pusher,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestFloCareerSync(t *testing.T) {
	store := mock.NewStore()
	recordID, skillID, questionID := seedRecord(t, store)

	// disliked question must stay local
	dislikedID, err := store.CreateQuestion(context.Background(), &models.Question{
		RecordID: recordID, SkillID: skillID, Content: `{"question":"bad"}`, Liked: models.LikedStatusDisliked,
	})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}

	pusher := &fakePusher{}
	srv := setupFloServer(t, store, pusher)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/records/1/flocareer-sync", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}

	if len(pusher.calls) != 1 {
		t.Fatalf("expected one pool push, got %d", len(pusher.calls))
	}
	if got := len(pusher.calls[0].Questions); got != 1 {
		t.Fatalf("disliked question leaked into pool: %d questions", got)
	}

	skill, err := store.GetSkill(context.Background(), skillID)
	if err != nil || skill.FloPoolID == nil {
		t.Fatalf("pool id not stored: %#v %v", skill, err)
	}
	q, err := store.GetQuestion(context.Background(), questionID)
	if err != nil || q.FloQuestionID == nil || *q.FloQuestionID != 100 {
		t.Fatalf("question ids not stored: %#v %v", q, err)
	}
	if d, _ := store.GetQuestion(context.Background(), dislikedID); d.FloQuestionID != nil {
		t.Fatalf("disliked question must not receive an external id")
	}
}

func TestFloCareerSync_NotConfigured(t *testing.T) {
	store := mock.NewStore()
	seedRecord(t, store)
	srv := setupFloServer(t, store, nil)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/records/1/flocareer-sync", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}

func TestFloCareerSync_NoQuestions(t *testing.T) {
	store := mock.NewStore()
	if _, err := store.CreateRecord(context.Background(), &models.SkillRecord{JobTitle: "Empty", RawDescription: "x"}); err != nil {
		t.Fatalf("create record: %v", err)
	}
	srv := setupFloServer(t, store, &fakePusher{})

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/records/1/flocareer-sync", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
