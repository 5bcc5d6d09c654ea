package api

import (
	"fmt"
	"net/http"
	"strings"

	"log/slog"

	"github.com/buildfastwithai/jd-qna/internal/config"
	"github.com/buildfastwithai/jd-qna/internal/export"
	"github.com/buildfastwithai/jd-qna/pkg/repository"
)

type ExportHandler struct {
	recordRepo   repository.RecordRepo
	skillRepo    repository.SkillRepo
	questionRepo repository.QuestionRepo
	cfg          config.ExportConfig
}

func NewExportHandler(rr repository.RecordRepo, sr repository.SkillRepo, qr repository.QuestionRepo, cfg config.ExportConfig) *ExportHandler {
	return &ExportHandler{recordRepo: rr, skillRepo: sr, questionRepo: qr, cfg: cfg}
}

type exportRequest struct {
	RecordID  int64  `json:"recordId"`
	Format    string `json:"format"`
	MaxLength int    `json:"maxLength,omitempty"`
}

// ExportQuestions streams the record's questions as csv, excel or pdf.
func (h *ExportHandler) ExportQuestions(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.RecordID <= 0 {
		writeError(w, http.StatusBadRequest, "recordId is required")
		return
	}
	format := strings.ToLower(strings.TrimSpace(req.Format))
	switch format {
	case "csv", "excel", "pdf":
	default:
		writeError(w, http.StatusBadRequest, "format must be csv, excel or pdf")
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
	questions, err := h.questionRepo.ListQuestionsByRecord(r.Context(), rec.ID, false)
	if err != nil {
		logger.Error("list questions", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "failed to load questions")
		return
	}

	maxLength := req.MaxLength
	if maxLength <= 0 {
		maxLength = h.cfg.MaxFieldLength
	}
	rows := export.BuildRows(questions, skills, maxLength)

	var (
		data        []byte
		contentType string
		ext         string
	)
	switch format {
	case "csv":
		data, err = export.WriteCSV(rows)
		contentType, ext = "text/csv", "csv"
	case "excel":
		data, err = export.WriteExcel(rows)
		contentType, ext = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx"
	case "pdf":
		data, err = export.WritePDF(fmt.Sprintf("Interview Questions: %s", rec.JobTitle), rows)
		contentType, ext = "application/pdf", "pdf"
	}
	if err != nil {
		logger.Error("render export", slog.Any("err", err), slog.String("format", format))
		writeError(w, http.StatusInternalServerError, "failed to render export")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="questions-%d.%s"`, rec.ID, ext))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Error("write export", slog.Any("err", err))
	}
}
