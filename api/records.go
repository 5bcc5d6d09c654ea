package api

import (
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"github.com/buildfastwithai/jd-qna/pkg/models"
	"github.com/buildfastwithai/jd-qna/pkg/repository"
)

type RecordsHandler struct {
	recordRepo   repository.RecordRepo
	skillRepo    repository.SkillRepo
	questionRepo repository.QuestionRepo
	feedbackRepo repository.FeedbackRepo
	engine       Engine
}

func NewRecordsHandler(rr repository.RecordRepo, sr repository.SkillRepo, qr repository.QuestionRepo, fr repository.FeedbackRepo, engine Engine) *RecordsHandler {
	return &RecordsHandler{recordRepo: rr, skillRepo: sr, questionRepo: qr, feedbackRepo: fr, engine: engine}
}

type extractSkillsRequest struct {
	JobTitle        string `json:"jobTitle"`
	Description     string `json:"description"`
	InterviewLength int    `json:"interviewLength"`
}

// ExtractSkills runs the LLM over a job description and persists the record
// with its extracted skills.
func (h *RecordsHandler) ExtractSkills(w http.ResponseWriter, r *http.Request) {
	var req extractSkillsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req.JobTitle = strings.TrimSpace(req.JobTitle)
	req.Description = strings.TrimSpace(req.Description)
	if req.JobTitle == "" || req.Description == "" {
		writeError(w, http.StatusBadRequest, "jobTitle and description are required")
		return
	}
	if req.InterviewLength <= 0 {
		req.InterviewLength = 60
	}

	specs, err := h.engine.ExtractSkills(r.Context(), req.JobTitle, req.Description, req.InterviewLength)
	if err != nil {
		logger.Error("extract skills", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "skill extraction failed")
		return
	}

	rec := &models.SkillRecord{
		JobTitle:        req.JobTitle,
		RawDescription:  req.Description,
		InterviewLength: req.InterviewLength,
	}
	recordID, err := h.recordRepo.CreateRecord(r.Context(), rec)
	if err != nil {
		logger.Error("create record", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "failed to store record")
		return
	}
	rec.ID = recordID

	skills := make([]models.Skill, 0, len(specs))
	for _, sp := range specs {
		skill := models.Skill{
			RecordID:     recordID,
			Name:         sp.Name,
			Level:        sp.Level,
			Requirement:  sp.Requirement,
			Category:     sp.Category,
			Priority:     sp.Priority,
			NumQuestions: sp.NumQuestions,
			Difficulty:   sp.Difficulty,
		}
		id, err := h.skillRepo.CreateSkill(r.Context(), &skill)
		if err != nil {
			logger.Error("create skill", slog.Any("err", err), slog.String("skill", sp.Name))
			writeError(w, http.StatusInternalServerError, "failed to store skills")
			return
		}
		skill.ID = id
		skills = append(skills, skill)
	}

	writeSuccess(w, http.StatusCreated, map[string]any{"record": rec, "skills": skills})
}

// ListRecords supports limit/offset pagination, default 20/0.
func (h *RecordsHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	limit, offset := 20, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 200 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		offset = n
	}

	records, err := h.recordRepo.ListRecords(r.Context(), limit, offset)
	if err != nil {
		logger.Error("list records", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "failed to list records")
		return
	}
	total, err := h.recordRepo.CountRecords(r.Context())
	if err != nil {
		logger.Error("count records", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "failed to list records")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"records": records, "total": total, "limit": limit, "offset": offset})
}

// GetRecord returns the record with its skills and non-deleted questions.
func (h *RecordsHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.recordRepo.GetRecord(r.Context(), id)
	if err != nil || rec == nil {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	skills, err := h.skillRepo.ListSkillsByRecord(r.Context(), id)
	if err != nil {
		logger.Error("list skills", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "failed to load skills")
		return
	}
	questions, err := h.questionRepo.ListQuestionsByRecord(r.Context(), id, false)
	if err != nil {
		logger.Error("list questions", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "failed to load questions")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"record": rec, "skills": skills, "questions": questions})
}

func (h *RecordsHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if rec, err := h.recordRepo.GetRecord(r.Context(), id); err != nil || rec == nil {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	if err := h.recordRepo.DeleteRecord(r.Context(), id); err != nil {
		logger.Error("delete record", slog.Any("err", err), slog.Int64("id", id))
		writeError(w, http.StatusInternalServerError, "failed to delete record")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": id})
}

type addSkillRequest struct {
	Name         string `json:"name"`
	Level        string `json:"level"`
	Requirement  string `json:"requirement"`
	Category     string `json:"category"`
	Priority     int    `json:"priority"`
	NumQuestions int    `json:"numQuestions"`
	Difficulty   string `json:"difficulty,omitempty"`
}

// AddSkill appends one manually entered skill to an existing record.
func (h *RecordsHandler) AddSkill(w http.ResponseWriter, r *http.Request) {
	recordID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if rec, err := h.recordRepo.GetRecord(r.Context(), recordID); err != nil || rec == nil {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}

	var req addSkillRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	req.Level = strings.ToUpper(strings.TrimSpace(req.Level))
	if req.Level == "" {
		req.Level = models.LevelIntermediate
	}
	if !models.ValidLevel(req.Level) {
		writeError(w, http.StatusBadRequest, "invalid level")
		return
	}
	req.Requirement = strings.ToUpper(strings.TrimSpace(req.Requirement))
	if req.Requirement == "" {
		req.Requirement = models.RequirementOptional
	}
	if !models.ValidRequirement(req.Requirement) {
		writeError(w, http.StatusBadRequest, "invalid requirement")
		return
	}
	req.Category = strings.ToUpper(strings.TrimSpace(req.Category))
	if req.Category == "" {
		req.Category = models.CategoryTechnical
	}
	if !models.ValidCategory(req.Category) {
		writeError(w, http.StatusBadRequest, "invalid category")
		return
	}
	if req.NumQuestions <= 0 {
		req.NumQuestions = 1
	}

	skill := &models.Skill{
		RecordID:     recordID,
		Name:         req.Name,
		Level:        req.Level,
		Requirement:  req.Requirement,
		Category:     req.Category,
		Priority:     req.Priority,
		NumQuestions: req.NumQuestions,
		Difficulty:   req.Difficulty,
	}
	id, err := h.skillRepo.CreateSkill(r.Context(), skill)
	if err != nil {
		logger.Error("create skill", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "failed to store skill")
		return
	}
	skill.ID = id

	writeSuccess(w, http.StatusCreated, map[string]any{"skill": skill})
}

type globalFeedbackRequest struct {
	Content string `json:"content"`
}

// GlobalFeedback upserts the single per-record feedback note.
func (h *RecordsHandler) GlobalFeedback(w http.ResponseWriter, r *http.Request) {
	recordID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if rec, err := h.recordRepo.GetRecord(r.Context(), recordID); err != nil || rec == nil {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}

	var req globalFeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	g, err := h.feedbackRepo.UpsertGlobalFeedback(r.Context(), recordID, req.Content)
	if err != nil {
		logger.Error("upsert global feedback", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "failed to store feedback")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"feedback": g})
}
