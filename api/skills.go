package api

import (
	"net/http"
	"strings"

	"log/slog"

	"github.com/buildfastwithai/jd-qna/pkg/models"
	"github.com/buildfastwithai/jd-qna/pkg/repository"
)

type SkillsHandler struct {
	skillRepo    repository.SkillRepo
	feedbackRepo repository.FeedbackRepo
}

func NewSkillsHandler(sr repository.SkillRepo, fr repository.FeedbackRepo) *SkillsHandler {
	return &SkillsHandler{skillRepo: sr, feedbackRepo: fr}
}

type updateSkillRequest struct {
	Name         *string `json:"name,omitempty"`
	Level        *string `json:"level,omitempty"`
	Requirement  *string `json:"requirement,omitempty"`
	Category     *string `json:"category,omitempty"`
	Priority     *int    `json:"priority,omitempty"`
	NumQuestions *int    `json:"numQuestions,omitempty"`
	Difficulty   *string `json:"difficulty,omitempty"`
}

// UpdateSkill patches skill metadata; omitted fields keep their value.
func (h *SkillsHandler) UpdateSkill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	skill, err := h.skillRepo.GetSkill(r.Context(), id)
	if err != nil || skill == nil {
		writeError(w, http.StatusNotFound, "skill not found")
		return
	}

	var req updateSkillRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		skill.Name = name
	}
	if req.Level != nil {
		level := strings.ToUpper(strings.TrimSpace(*req.Level))
		if !models.ValidLevel(level) {
			writeError(w, http.StatusBadRequest, "invalid level")
			return
		}
		skill.Level = level
	}
	if req.Requirement != nil {
		requirement := strings.ToUpper(strings.TrimSpace(*req.Requirement))
		if !models.ValidRequirement(requirement) {
			writeError(w, http.StatusBadRequest, "invalid requirement")
			return
		}
		skill.Requirement = requirement
	}
	if req.Category != nil {
		category := strings.ToUpper(strings.TrimSpace(*req.Category))
		if !models.ValidCategory(category) {
			writeError(w, http.StatusBadRequest, "invalid category")
			return
		}
		skill.Category = category
	}
	if req.Priority != nil {
		skill.Priority = *req.Priority
	}
	if req.NumQuestions != nil {
		if *req.NumQuestions <= 0 {
			writeError(w, http.StatusBadRequest, "numQuestions must be positive")
			return
		}
		skill.NumQuestions = *req.NumQuestions
	}
	if req.Difficulty != nil {
		skill.Difficulty = strings.TrimSpace(*req.Difficulty)
	}

	if err := h.skillRepo.UpdateSkill(r.Context(), skill); err != nil {
		logger.Error("update skill", slog.Any("err", err), slog.Int64("id", id))
		writeError(w, http.StatusInternalServerError, "failed to update skill")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"skill": skill})
}

// DeleteSkill hard-deletes the skill; its questions and feedbacks go with it.
func (h *SkillsHandler) DeleteSkill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if s, err := h.skillRepo.GetSkill(r.Context(), id); err != nil || s == nil {
		writeError(w, http.StatusNotFound, "skill not found")
		return
	}
	if err := h.skillRepo.DeleteSkill(r.Context(), id); err != nil {
		logger.Error("delete skill", slog.Any("err", err), slog.Int64("id", id))
		writeError(w, http.StatusInternalServerError, "failed to delete skill")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": id})
}

type skillFeedbackRequest struct {
	Content string `json:"content"`
}

// SkillFeedback appends a free-text note to a skill.
func (h *SkillsHandler) SkillFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if s, err := h.skillRepo.GetSkill(r.Context(), id); err != nil || s == nil {
		writeError(w, http.StatusNotFound, "skill not found")
		return
	}

	var req skillFeedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	f := &models.Feedback{SkillID: id, Content: req.Content}
	fid, err := h.feedbackRepo.CreateFeedback(r.Context(), f)
	if err != nil {
		logger.Error("create feedback", slog.Any("err", err), slog.Int64("skill_id", id))
		writeError(w, http.StatusInternalServerError, "failed to store feedback")
		return
	}
	f.ID = fid

	writeSuccess(w, http.StatusCreated, map[string]any{"feedback": f})
}
