package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"log/slog"

	"github.com/buildfastwithai/jd-qna/internal/fileparse"
	"github.com/buildfastwithai/jd-qna/internal/storage"
)

const maxUploadBytes = 20 << 20

// Uploader is the object storage surface; *storage.Store satisfies it.
type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte, contentType string) (*storage.UploadResult, error)
}

type UploadHandler struct {
	uploader Uploader
}

func NewUploadHandler(u Uploader) *UploadHandler {
	return &UploadHandler{uploader: u}
}

// Upload stores a multipart file and returns its public URL. For PDF/DOCX the
// extracted text rides along so the client can feed extract-skills directly.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		writeError(w, http.StatusServiceUnavailable, "file storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "file is empty")
		return
	}

	text, err := fileparse.ExtractText(header.Filename, data)
	if err != nil && !errors.Is(err, fileparse.ErrUnsupportedType) {
		writeError(w, http.StatusBadRequest, "could not extract text: "+err.Error())
		return
	}
	if errors.Is(err, fileparse.ErrUnsupportedType) {
		writeError(w, http.StatusBadRequest, "unsupported file type; upload pdf, docx or txt")
		return
	}

	res, err := h.uploader.Upload(r.Context(), header.Filename, data, header.Header.Get("Content-Type"))
	if err != nil {
		logger.Error("upload file", slog.Any("err", err), slog.String("file", header.Filename))
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]any{"file": res, "text": text})
}
