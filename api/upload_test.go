package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/buildfastwithai/jd-qna/api"
	"github.com/buildfastwithai/jd-qna/internal/config"
	"github.com/buildfastwithai/jd-qna/internal/storage"
	"github.com/buildfastwithai/jd-qna/pkg/repository/mock"
)

type fakeUploader struct {
	lastName string
	lastSize int
	err      error
}

func (f *fakeUploader) Upload(_ context.Context, filename string, data []byte, _ string) (*storage.UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastName = filename
	f.lastSize = len(data)
	return &storage.UploadResult{ObjectName: "uploads/deadbeef.txt", URL: "https://files.example.com/uploads/deadbeef.txt", Size: int64(len(data))}, nil
}

func setupUploadServer(t *testing.T, uploader api.Uploader) *httptest.Server {
	t.Helper()
	cfg := &config.Config{Addr: ":0", APIToken: testToken}
	store := mock.NewStore()
	router := api.SetupRoutes(cfg, "test", "now", api.Deps{
		Records: store, Skills: store, Questions: store,
		Regenerations: store, Feedback: store, Analytics: store,
		Engine: &fakeEngine{}, Uploader: uploader,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func postFile(t *testing.T, url, filename string, content []byte) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Content-Type", mw.FormDataContentType())

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
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal %q: %v", data, err)
	}
	return resp, parsed
}

func TestUpload_TextFile(t *testing.T) {
	uploader := &fakeUploader{}
	srv := setupUploadServer(t, uploader)

	resp, body := postFile(t, srv.URL+"/api/upload", "jd.txt", []byte("Senior Go Engineer"))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
	if body["text"] != "Senior Go Engineer" {
		t.Fatalf("extracted text missing: %v", body)
	}
	file := body["file"].(map[string]any)
	if file["url"] != "https://files.example.com/uploads/deadbeef.txt" {
		t.Fatalf("url missing: %v", file)
	}
	if uploader.lastName != "jd.txt" || uploader.lastSize == 0 {
		t.Fatalf("uploader not called properly: %+v", uploader)
	}
}

func TestUpload_UnsupportedType(t *testing.T) {
	srv := setupUploadServer(t, &fakeUploader{})

	resp, body := postFile(t, srv.URL+"/api/upload", "jd.xls", []byte("binary"))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %v", resp.StatusCode, body)
	}
}

func TestUpload_NotConfigured(t *testing.T) {
	srv := setupUploadServer(t, nil)

	resp, _ := postFile(t, srv.URL+"/api/upload", "jd.txt", []byte("x"))
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}

func TestUpload_MissingFile(t *testing.T) {
	srv := setupUploadServer(t, &fakeUploader{})

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/upload", bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
