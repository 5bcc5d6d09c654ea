package api

import (
	"net/http"
	"strconv"

	"log/slog"

	"github.com/buildfastwithai/jd-qna/pkg/repository"
)

type AnalyticsHandler struct {
	analyticsRepo repository.AnalyticsRepo
}

func NewAnalyticsHandler(ar repository.AnalyticsRepo) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsRepo: ar}
}

func optionalID(r *http.Request, name string) (*int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil, err
	}
	return &id, nil
}

// RegenerationStats serves the regeneration dashboard numbers, optionally
// filtered by record and/or skill.
func (h *AnalyticsHandler) RegenerationStats(w http.ResponseWriter, r *http.Request) {
	recordID, err := optionalID(r, "recordId")
	if err != nil || (r.URL.Query().Get("recordId") != "" && recordID == nil) {
		writeError(w, http.StatusBadRequest, "invalid recordId")
		return
	}
	skillID, err := optionalID(r, "skillId")
	if err != nil || (r.URL.Query().Get("skillId") != "" && skillID == nil) {
		writeError(w, http.StatusBadRequest, "invalid skillId")
		return
	}

	topN := 0
	if v := r.URL.Query().Get("topN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid topN")
			return
		}
		topN = n
	}

	stats, err := h.analyticsRepo.RegenerationStats(r.Context(), repository.AnalyticsFilter{
		RecordID: recordID,
		SkillID:  skillID,
		TopN:     topN,
	})
	if err != nil {
		logger.Error("regeneration stats", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "failed to compute analytics")
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"stats": stats})
}
