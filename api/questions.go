package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"log/slog"

	"github.com/buildfastwithai/jd-qna/internal/ai"
	"github.com/buildfastwithai/jd-qna/pkg/models"
	"github.com/buildfastwithai/jd-qna/pkg/repository"
)

type QuestionsHandler struct {
	recordRepo   repository.RecordRepo
	skillRepo    repository.SkillRepo
	questionRepo repository.QuestionRepo
	regenRepo    repository.RegenerationRepo
	feedbackRepo repository.FeedbackRepo
	engine       Engine
}

func NewQuestionsHandler(rr repository.RecordRepo, sr repository.SkillRepo, qr repository.QuestionRepo, gr repository.RegenerationRepo, fr repository.FeedbackRepo, engine Engine) *QuestionsHandler {
	return &QuestionsHandler{recordRepo: rr, skillRepo: sr, questionRepo: qr, regenRepo: gr, feedbackRepo: fr, engine: engine}
}

func marshalContent(c models.QuestionContent) string {
	b, _ := json.Marshal(c)
	return string(b)
}

type generateQuestionsRequest struct {
	RecordID int64   `json:"recordId"`
	SkillIDs []int64 `json:"skillIds,omitempty"`
}

type skillQuestions struct {
	Skill     models.Skill      `json:"skill"`
	Questions []models.Question `json:"questions"`
}

// GenerateQuestions prompts the LLM once per skill and persists the results.
func (h *QuestionsHandler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req generateQuestionsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.RecordID <= 0 {
		writeError(w, http.StatusBadRequest, "recordId is required")
		return
	}

	rec, err := h.recordRepo.GetRecord(r.Context(), req.RecordID)
	if err != nil || rec == nil {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}

	skills, err := h.skillRepo.ListSkillsByRecord(r.Context(), rec.ID)
	if err != nil {
		logger.Error("list skills", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "failed to load skills")
		return
	}
	if len(req.SkillIDs) > 0 {
		wanted := make(map[int64]bool, len(req.SkillIDs))
		for _, id := range req.SkillIDs {
			wanted[id] = true
		}
		filtered := skills[:0]
		for _, s := range skills {
			if wanted[s.ID] {
				filtered = append(filtered, s)
			}
		}
		skills = filtered
	}
	if len(skills) == 0 {
		writeError(w, http.StatusBadRequest, "record has no matching skills")
		return
	}

	out := make([]skillQuestions, 0, len(skills))
	for _, skill := range skills {
		contents, err := h.engine.GenerateQuestions(r.Context(), rec, &skill)
		if err != nil {
			logger.Error("generate questions", slog.Any("err", err), slog.String("skill", skill.Name))
			writeError(w, http.StatusInternalServerError, "question generation failed for skill "+skill.Name)
			return
		}

		qs := make([]models.Question, 0, len(contents))
		for _, c := range contents {
			q := models.Question{
				RecordID: rec.ID,
				SkillID:  skill.ID,
				Content:  marshalContent(c),
				Liked:    models.LikedStatusNone,
			}
			id, err := h.questionRepo.CreateQuestion(r.Context(), &q)
			if err != nil {
				logger.Error("create question", slog.Any("err", err))
				writeError(w, http.StatusInternalServerError, "failed to store questions")
				return
			}
			q.ID = id
			qs = append(qs, q)
		}
		out = append(out, skillQuestions{Skill: skill, Questions: qs})
	}

	writeSuccess(w, http.StatusCreated, map[string]any{"results": out})
}

type updateQuestionRequest struct {
	Content  *models.QuestionContent `json:"content,omitempty"`
	Feedback *string                 `json:"feedback,omitempty"`
}

// UpdateQuestion replaces the content blob and/or the feedback note.
func (h *QuestionsHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q, err := h.questionRepo.GetQuestion(r.Context(), id)
	if err != nil || q == nil {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}

	var req updateQuestionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Content == nil && req.Feedback == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	content := q.Content
	if req.Content != nil {
		if strings.TrimSpace(req.Content.Question) == "" {
			writeError(w, http.StatusBadRequest, "question text cannot be empty")
			return
		}
		content = marshalContent(*req.Content)
	}
	feedback := q.Feedback
	if req.Feedback != nil {
		feedback = strings.TrimSpace(*req.Feedback)
	}

	if err := h.questionRepo.UpdateQuestion(r.Context(), id, content, feedback); err != nil {
		logger.Error("update question", slog.Any("err", err), slog.Int64("id", id))
		writeError(w, http.StatusInternalServerError, "failed to update question")
		return
	}

	q.Content = content
	q.Feedback = feedback
	writeSuccess(w, http.StatusOK, map[string]any{"question": q})
}

type deleteQuestionRequest struct {
	DeletionFeedback string `json:"deletionFeedback,omitempty"`
}

// DeleteQuestion soft-deletes; the row stays for regeneration analytics.
func (h *QuestionsHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if q, err := h.questionRepo.GetQuestion(r.Context(), id); err != nil || q == nil {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}

	var req deleteQuestionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if err := h.questionRepo.SoftDeleteQuestion(r.Context(), id, strings.TrimSpace(req.DeletionFeedback)); err != nil {
		logger.Error("soft delete question", slog.Any("err", err), slog.Int64("id", id))
		writeError(w, http.StatusInternalServerError, "failed to delete question")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": id})
}

type likeQuestionRequest struct {
	Liked string `json:"liked"`
}

// LikeQuestion sets the tri-state like status. Sending the current status
// again toggles back to NONE.
func (h *QuestionsHandler) LikeQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req likeQuestionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Liked = strings.ToUpper(strings.TrimSpace(req.Liked))
	if !models.ValidLikedStatus(req.Liked) {
		writeError(w, http.StatusBadRequest, "liked must be LIKED, DISLIKED or NONE")
		return
	}

	q, err := h.questionRepo.GetQuestion(r.Context(), id)
	if err != nil || q == nil {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}

	next := req.Liked
	if q.Liked == req.Liked {
		next = models.LikedStatusNone
	}
	if err := h.questionRepo.SetLiked(r.Context(), id, next); err != nil {
		logger.Error("set liked", slog.Any("err", err), slog.Int64("id", id))
		writeError(w, http.StatusInternalServerError, "failed to update like status")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"id": id, "liked": next})
}

type regenerateQuestionRequest struct {
	Reason       string `json:"reason,omitempty"`
	UserFeedback string `json:"userFeedback,omitempty"`
}

// RegenerateQuestion asks the LLM for a replacement and records the audit row
// atomically with the new question.
func (h *QuestionsHandler) RegenerateQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req regenerateQuestionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	orig, err := h.questionRepo.GetQuestion(r.Context(), id)
	if err != nil || orig == nil {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}
	if orig.Deleted {
		writeError(w, http.StatusBadRequest, "cannot regenerate a deleted question")
		return
	}

	newQ, regen, status, msg := h.regenerate(r, orig, req.Reason, req.UserFeedback)
	if msg != "" {
		writeError(w, status, msg)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]any{"question": newQ, "regeneration": regen})
}

// regenerate runs one LLM regeneration for orig and persists the result. On
// failure it returns a status code and message for the caller to write.
func (h *QuestionsHandler) regenerate(r *http.Request, orig *models.Question, reason, userFeedback string) (*models.Question, *models.Regeneration, int, string) {
	skill, err := h.skillRepo.GetSkill(r.Context(), orig.SkillID)
	if err != nil || skill == nil {
		return nil, nil, http.StatusInternalServerError, "failed to load skill"
	}

	standing := ""
	if g, err := h.feedbackRepo.GetGlobalFeedback(r.Context(), orig.RecordID); err == nil && g != nil {
		standing = g.Content
	}

	origContent := orig.ParsedContent()
	content, err := h.engine.RegenerateQuestion(r.Context(), ai.RegenerateInput{
		SkillName:        skill.Name,
		SkillLevel:       skill.Level,
		SkillCategory:    skill.Category,
		Difficulty:       origContent.Difficulty,
		OriginalQuestion: origContent.Question,
		OriginalAnswer:   origContent.Answer,
		Reason:           reason,
		UserFeedback:     userFeedback,
		StandingFeedback: standing,
	})
	if err != nil {
		logger.Error("regenerate question", slog.Any("err", err), slog.Int64("id", orig.ID))
		return nil, nil, http.StatusInternalServerError, "question regeneration failed"
	}

	newQ := &models.Question{
		RecordID: orig.RecordID,
		SkillID:  orig.SkillID,
		Content:  marshalContent(content),
		Liked:    models.LikedStatusNone,
	}
	regen := &models.Regeneration{
		RecordID:           orig.RecordID,
		SkillID:            orig.SkillID,
		OriginalQuestionID: orig.ID,
		Reason:             strings.TrimSpace(reason),
		UserFeedback:       strings.TrimSpace(userFeedback),
		Liked:              models.LikedStatusNone,
	}

	qid, rid, err := h.regenRepo.CreateRegeneration(r.Context(), newQ, regen)
	if err != nil {
		logger.Error("store regeneration", slog.Any("err", err), slog.Int64("id", orig.ID))
		return nil, nil, http.StatusInternalServerError, "failed to store regeneration"
	}
	newQ.ID = qid
	regen.ID = rid
	regen.NewQuestionID = qid

	return newQ, regen, 0, ""
}

type regenerateFromSkillRequest struct {
	SkillID int64  `json:"skillId"`
	Reason  string `json:"reason,omitempty"`
}

type regeneratedPair struct {
	Question     *models.Question     `json:"question"`
	Regeneration *models.Regeneration `json:"regeneration"`
}

// RegenerateFromSkill regenerates every live question of one skill, minting a
// distinct replacement and audit row per original.
func (h *QuestionsHandler) RegenerateFromSkill(w http.ResponseWriter, r *http.Request) {
	recordID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req regenerateFromSkillRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.SkillID <= 0 {
		writeError(w, http.StatusBadRequest, "skillId is required")
		return
	}

	if rec, err := h.recordRepo.GetRecord(r.Context(), recordID); err != nil || rec == nil {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	skill, err := h.skillRepo.GetSkill(r.Context(), req.SkillID)
	if err != nil || skill == nil || skill.RecordID != recordID {
		writeError(w, http.StatusNotFound, "skill not found on record")
		return
	}

	questions, err := h.questionRepo.ListQuestionsBySkill(r.Context(), skill.ID, false)
	if err != nil {
		logger.Error("list questions", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "failed to load questions")
		return
	}
	if len(questions) == 0 {
		writeError(w, http.StatusBadRequest, "skill has no questions to regenerate")
		return
	}

	pairs := make([]regeneratedPair, 0, len(questions))
	for i := range questions {
		newQ, regen, status, msg := h.regenerate(r, &questions[i], req.Reason, "")
		if msg != "" {
			writeError(w, status, msg)
			return
		}
		pairs = append(pairs, regeneratedPair{Question: newQ, Regeneration: regen})
	}

	writeSuccess(w, http.StatusCreated, map[string]any{"results": pairs})
}

type regenerationFeedbackRequest struct {
	Liked        string `json:"liked,omitempty"`
	UserFeedback string `json:"userFeedback,omitempty"`
}

// RegenerationFeedback records whether the replacement was an improvement.
func (h *QuestionsHandler) RegenerationFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req regenerationFeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Liked = strings.ToUpper(strings.TrimSpace(req.Liked))
	if req.Liked != "" && !models.ValidLikedStatus(req.Liked) {
		writeError(w, http.StatusBadRequest, "liked must be LIKED, DISLIKED or NONE")
		return
	}
	req.UserFeedback = strings.TrimSpace(req.UserFeedback)
	if req.Liked == "" && req.UserFeedback == "" {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	if reg, err := h.regenRepo.GetRegeneration(r.Context(), id); err != nil || reg == nil {
		writeError(w, http.StatusNotFound, "regeneration not found")
		return
	}
	if err := h.regenRepo.UpdateRegenerationFeedback(r.Context(), id, req.Liked, req.UserFeedback); err != nil {
		logger.Error("update regeneration feedback", slog.Any("err", err), slog.Int64("id", id))
		writeError(w, http.StatusInternalServerError, "failed to update regeneration")
		return
	}

	regen, err := h.regenRepo.GetRegeneration(r.Context(), id)
	if err != nil || regen == nil {
		writeError(w, http.StatusInternalServerError, "failed to load regeneration")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"regeneration": regen})
}
