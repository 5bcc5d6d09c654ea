package api

import (
	"context"
	"fmt"
	"net/http"

	"log/slog"

	"github.com/buildfastwithai/jd-qna/internal/flocareer"
	"github.com/buildfastwithai/jd-qna/pkg/models"
	"github.com/buildfastwithai/jd-qna/pkg/repository"
)

// PoolPusher is the FloCareer surface; *flocareer.Client satisfies it.
type PoolPusher interface {
	CreateQuestionPool(ctx context.Context, req *flocareer.PoolRequest) (*flocareer.PoolResponse, error)
}

type FloCareerHandler struct {
	recordRepo   repository.RecordRepo
	skillRepo    repository.SkillRepo
	questionRepo repository.QuestionRepo
	client       PoolPusher
}

func NewFloCareerHandler(rr repository.RecordRepo, sr repository.SkillRepo, qr repository.QuestionRepo, client PoolPusher) *FloCareerHandler {
	return &FloCareerHandler{recordRepo: rr, skillRepo: sr, questionRepo: qr, client: client}
}

type syncedPool struct {
	SkillID   int64  `json:"skill_id"`
	SkillName string `json:"skill_name"`
	PoolID    int64  `json:"pool_id"`
	Questions int    `json:"questions"`
}

// Sync pushes one question pool per skill to FloCareer and stores the
// returned external ids. Skills without live questions are skipped.
func (h *FloCareerHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		writeError(w, http.StatusServiceUnavailable, "flocareer integration is not configured")
		return
	}

	recordID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.recordRepo.GetRecord(r.Context(), recordID)
	if err != nil || rec == nil {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	skills, err := h.skillRepo.ListSkillsByRecord(r.Context(), recordID)
	if err != nil {
		logger.Error("list skills", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "failed to load skills")
		return
	}

	synced := make([]syncedPool, 0, len(skills))
	for _, skill := range skills {
		questions, err := h.questionRepo.ListQuestionsBySkill(r.Context(), skill.ID, false)
		if err != nil {
			logger.Error("list questions", slog.Any("err", err), slog.Int64("skill_id", skill.ID))
			writeError(w, http.StatusInternalServerError, "failed to load questions")
			return
		}
		// disliked questions stay local
		live := questions[:0]
		for _, q := range questions {
			if q.Liked != models.LikedStatusDisliked {
				live = append(live, q)
			}
		}
		questions = live
		if len(questions) == 0 {
			continue
		}

		req := &flocareer.PoolRequest{
			PoolName:  fmt.Sprintf("%s - %s", rec.JobTitle, skill.Name),
			SkillName: skill.Name,
		}
		for _, q := range questions {
			c := q.ParsedContent()
			req.Questions = append(req.Questions, flocareer.PoolQuestion{
				Title:      c.Question,
				Answer:     c.Answer,
				Difficulty: c.Difficulty,
				Category:   c.Category,
				Coding:     c.Coding,
			})
		}

		resp, err := h.client.CreateQuestionPool(r.Context(), req)
		if err != nil {
			logger.Error("push pool", slog.Any("err", err), slog.String("skill", skill.Name))
			writeError(w, http.StatusBadGateway, "flocareer sync failed for skill "+skill.Name)
			return
		}

		if err := h.skillRepo.SetSkillPool(r.Context(), skill.ID, resp.PoolID, req.PoolName); err != nil {
			logger.Error("store pool id", slog.Any("err", err), slog.Int64("skill_id", skill.ID))
			writeError(w, http.StatusInternalServerError, "failed to store pool id")
			return
		}
		for i, q := range questions {
			if err := h.questionRepo.SetFloIDs(r.Context(), q.ID, resp.QuestionIDs[i], resp.PoolID); err != nil {
				logger.Error("store question ids", slog.Any("err", err), slog.Int64("question_id", q.ID))
				writeError(w, http.StatusInternalServerError, "failed to store question ids")
				return
			}
		}

		synced = append(synced, syncedPool{SkillID: skill.ID, SkillName: skill.Name, PoolID: resp.PoolID, Questions: len(questions)})
	}

	if len(synced) == 0 {
		writeError(w, http.StatusBadRequest, "record has no questions to sync")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"pools": synced})
}

var _ PoolPusher = (*flocareer.Client)(nil)
