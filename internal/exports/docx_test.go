package exports

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"cvbuilder-backend/internal/cv"
)

func docxFixture() cv.Document {
	return cv.Document{
		ID:    "doc-1",
		Title: "My CV",
		Personal: cv.PersonalInfo{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Phone:     "+1 555 0100",
			Location:  "London",
			Summary:   "Engineer focused on analytical machines & compilers.",
		},
		Experience: []cv.ExperienceEntry{
			{
				Company:     "Analytical Engines Ltd",
				Role:        "Lead Engineer",
				StartDate:   "2020-01-01",
				Current:     true,
				Location:    "Remote",
				Description: cv.StringList{"Designed <critical> punch-card pipelines", "Mentored two juniors"},
			},
		},
		Education: []cv.EducationEntry{
			{School: "University of London", Degree: "BSc", Field: "Mathematics", StartDate: "2014-09-01", EndDate: "2018-06-01"},
		},
		Skills: []string{"Go", "PostgreSQL"},
	}
}

func readDocumentPart(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open part: %v", err)
		}
		defer rc.Close()
		body, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read part: %v", err)
		}
		return string(body)
	}
	t.Fatal("archive has no word/document.xml")
	return ""
}

func TestDocxRendererProducesValidArchive(t *testing.T) {
	data, err := NewDocxRenderer().Render(context.Background(), docxFixture())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := checkDocx(data); err != nil {
		t.Fatalf("checkDocx: %v", err)
	}

	body := readDocumentPart(t, data)
	for _, want := range []string{
		"Ada Lovelace",
		"Lead Engineer",
		"Jan 2020 - Current",
		"University of London",
		"Go, PostgreSQL",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("document.xml missing %q", want)
		}
	}
}

func TestDocxRendererEscapesMarkup(t *testing.T) {
	data, err := NewDocxRenderer().Render(context.Background(), docxFixture())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	body := readDocumentPart(t, data)
	if strings.Contains(body, "<critical>") {
		t.Fatal("expected angle brackets in content to be escaped")
	}
	if !strings.Contains(body, "&lt;critical&gt;") {
		t.Fatal("expected escaped content to survive")
	}
	if !strings.Contains(body, "machines &amp; compilers") {
		t.Fatal("expected ampersand to be escaped")
	}
}

func TestDocxRendererFallsBackToTitle(t *testing.T) {
	doc := cv.Document{Title: "Untitled CV"}
	data, err := NewDocxRenderer().Render(context.Background(), doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(readDocumentPart(t, data), "Untitled CV") {
		t.Fatal("expected the title as header when the name is empty")
	}
}

func TestCheckDocxRejectsGarbage(t *testing.T) {
	if err := checkDocx(nil); err == nil {
		t.Fatal("expected error for empty output")
	}
	if err := checkDocx([]byte("<html>error page</html>")); err == nil {
		t.Fatal("expected error for non-archive output")
	}

	// An archive without the main document part is still invalid.
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/other.xml")
	_, _ = w.Write([]byte("<x/>"))
	_ = zw.Close()
	if err := checkDocx(buf.Bytes()); err == nil {
		t.Fatal("expected error for archive without word/document.xml")
	}
}

func TestNormalizeFormat(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", FormatPDF, false},
		{"pdf", FormatPDF, false},
		{" DOCX ", FormatDocx, false},
		{"odt", "", true},
	}
	for _, tc := range cases {
		got, err := normalizeFormat(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("normalizeFormat(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("normalizeFormat(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}
