package fileparse

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const sampleDocXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Senior Go Engineer</w:t></w:r></w:p>
    <w:p><w:r><w:t>Builds </w:t></w:r><w:r><w:t>backend services.</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestExtractDOCX(t *testing.T) {
	data := buildDocx(t, sampleDocXML)
	text, err := ExtractDOCX(data)
	if err != nil {
		t.Fatalf("ExtractDOCX error: %v", err)
	}
	if !strings.Contains(text, "Senior Go Engineer") {
		t.Fatalf("missing title paragraph: %q", text)
	}
	// runs within one paragraph concatenate, paragraphs separate by newline
	if !strings.Contains(text, "Builds backend services.") {
		t.Fatalf("runs not joined: %q", text)
	}
	if !strings.Contains(text, "Engineer\n") {
		t.Fatalf("paragraph boundary missing: %q", text)
	}
}

func TestExtractDOCX_MissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if _, err := zw.Create("word/other.xml"); err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	if _, err := ExtractDOCX(buf.Bytes()); err == nil {
		t.Fatalf("expected error for docx without document.xml")
	}
}

func TestExtractDOCX_NotAZip(t *testing.T) {
	if _, err := ExtractDOCX([]byte("plain text")); err == nil {
		t.Fatalf("expected error for non-zip input")
	}
}

func TestExtractText_Dispatch(t *testing.T) {
	text, err := ExtractText("jd.txt", []byte("hello"))
	if err != nil {
		t.Fatalf("ExtractText txt error: %v", err)
	}
	if text != "hello" {
		t.Fatalf("txt should pass through, got %q", text)
	}

	data := buildDocx(t, sampleDocXML)
	if _, err := ExtractText("JD.DOCX", data); err != nil {
		t.Fatalf("extension match should be case-insensitive: %v", err)
	}

	_, err = ExtractText("jd.xls", nil)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestExtractPDF_Invalid(t *testing.T) {
	if _, err := ExtractPDF([]byte("not a pdf")); err == nil {
		t.Fatalf("expected error for invalid pdf")
	}
}
