package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/buildfastwithai/jd-qna/pkg/models"
	"github.com/xuri/excelize/v2"
)

func questionWithContent(t *testing.T, c models.QuestionContent, skillID int64, liked string) models.Question {
	t.Helper()
	blob, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal content: %v", err)
	}
	return models.Question{ID: 1, RecordID: 1, SkillID: skillID, Content: string(blob), Liked: liked}
}

func TestFormatQuestionForExport_Defaults(t *testing.T) {
	q := questionWithContent(t, models.QuestionContent{Question: "Q", Answer: "A"}, 7, "")
	row := FormatQuestionForExport(&q, "", 0)

	if row.Category != "Unknown" || row.Difficulty != "Unknown" || row.Skill != "Unknown" {
		t.Fatalf("missing fields should default to Unknown: %#v", row)
	}
	if row.Status != "None" {
		t.Fatalf("missing like status should default to None, got %q", row.Status)
	}
}

func TestFormatQuestionForExport_NilAndMalformed(t *testing.T) {
	row := FormatQuestionForExport(nil, "", 0)
	if row.Skill != "Unknown" || row.Status != "None" {
		t.Fatalf("nil question should still format: %#v", row)
	}

	q := models.Question{Content: "{not json", Liked: models.LikedStatusLiked}
	row = FormatQuestionForExport(&q, "Go", 0)
	if row.Question != "" || row.Skill != "Go" || row.Status != models.LikedStatusLiked {
		t.Fatalf("malformed content should yield empty fields, not an error: %#v", row)
	}
}

func TestFormatQuestionForExport_Idempotent(t *testing.T) {
	q := questionWithContent(t, models.QuestionContent{
		Question:   "What is a mutex?",
		Answer:     "A lock.",
		Category:   "TECHNICAL",
		Difficulty: "Easy",
	}, 3, models.LikedStatusLiked)

	first := FormatQuestionForExport(&q, "Go", 100)

	// feed the formatted values back through and expect the same row
	again := questionWithContent(t, models.QuestionContent{
		Question:   first.Question,
		Answer:     first.Answer,
		Category:   first.Category,
		Difficulty: first.Difficulty,
	}, 3, first.Status)
	second := FormatQuestionForExport(&again, first.Skill, 100)

	if first != second {
		t.Fatalf("formatting is not idempotent:\n first: %#v\nsecond: %#v", first, second)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 500)
	got := Truncate(long, 100)
	if len(got) > 103 {
		t.Fatalf("truncated length %d exceeds limit+3", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", got[90:])
	}
	if Truncate("short", 100) != "short" {
		t.Fatalf("strings within the limit must pass through unchanged")
	}
	if Truncate(long, 0) != long {
		t.Fatalf("zero limit must disable truncation")
	}
}

func TestWriteCSV_HeaderAndQuoting(t *testing.T) {
	rows := []Row{{
		Question:   `Question with "quotes" and, commas`,
		Answer:     "line1\nline2",
		Category:   "TECHNICAL",
		Difficulty: "Hard",
		Skill:      "Go",
		Status:     "LIKED",
	}}

	out, err := WriteCSV(rows)
	if err != nil {
		t.Fatalf("WriteCSV error: %v", err)
	}

	s := string(out)
	if !strings.HasPrefix(s, "Question,Answer,Category,Difficulty,Skill,Status\n") {
		t.Fatalf("unexpected header: %q", s)
	}
	if !strings.Contains(s, `"Question with ""quotes"" and, commas"`) {
		t.Fatalf("quoting rules violated: %q", s)
	}
	if !strings.Contains(s, "\"line1\nline2\"") {
		t.Fatalf("newline field not quoted: %q", s)
	}
}

func TestWriteCSV_EmptyList(t *testing.T) {
	out, err := WriteCSV(nil)
	if err != nil {
		t.Fatalf("WriteCSV error: %v", err)
	}
	if string(out) != "Question,Answer,Category,Difficulty,Skill,Status\n" {
		t.Fatalf("empty export must be exactly the header line: %q", out)
	}
}

func TestBuildRows_SkipsDeleted(t *testing.T) {
	skills := []models.Skill{{ID: 1, Name: "Go"}}
	qs := []models.Question{
		questionWithContent(t, models.QuestionContent{Question: "keep"}, 1, models.LikedStatusNone),
		func() models.Question {
			q := questionWithContent(t, models.QuestionContent{Question: "drop"}, 1, models.LikedStatusNone)
			q.Deleted = true
			return q
		}(),
	}

	rows := BuildRows(qs, skills, 0)
	if len(rows) != 1 || rows[0].Question != "keep" {
		t.Fatalf("deleted questions must be skipped: %#v", rows)
	}
	if rows[0].Skill != "Go" {
		t.Fatalf("skill name not resolved: %#v", rows[0])
	}
}

func TestWriteExcel_RoundTrip(t *testing.T) {
	rows := []Row{{Question: "Q1", Answer: "A1", Category: "TECHNICAL", Difficulty: "Easy", Skill: "Go", Status: "None"}}
	out, err := WriteExcel(rows)
	if err != nil {
		t.Fatalf("WriteExcel error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows("Questions")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(got))
	}
	if got[0][0] != "Question" || got[1][0] != "Q1" {
		t.Fatalf("unexpected sheet contents: %#v", got)
	}
}

func TestWritePDF_ProducesDocument(t *testing.T) {
	rows := []Row{{Question: "Q1", Answer: "A1", Category: "TECHNICAL", Difficulty: "Easy", Skill: "Go", Status: "None"}}
	out, err := WritePDF("Interview Questions", rows)
	if err != nil {
		t.Fatalf("WritePDF error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF document")
	}

	empty, err := WritePDF("Interview Questions", nil)
	if err != nil {
		t.Fatalf("WritePDF empty error: %v", err)
	}
	if !bytes.HasPrefix(empty, []byte("%PDF")) {
		t.Fatalf("empty export is not a PDF document")
	}
}
