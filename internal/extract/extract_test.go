package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(body)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

const docxBody = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>Senior Engineer</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestExtractTextFromBytes_DocxZipMime(t *testing.T) {
	data := buildDocx(t, docxBody)

	text, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "cv.docx")
	if err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
	if !strings.Contains(text, "Jane Doe") || !strings.Contains(text, "Senior Engineer") {
		t.Fatalf("expected both paragraphs in output, got %q", text)
	}
}

func TestExtractTextFromBytes_EmptyMimeSniffsDocx(t *testing.T) {
	data := buildDocx(t, docxBody)

	if _, err := ExtractTextFromBytes(context.Background(), data, "", "cv.docx"); err != nil {
		t.Fatalf("expected sniffing to resolve docx, got error: %v", err)
	}
}

func TestExtractTextFromBytes_PlainZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	if _, err := ExtractTextFromBytes(context.Background(), buf.Bytes(), "application/zip", "notes.zip"); err == nil {
		t.Fatal("expected plain zip to be rejected")
	}
}

func TestExtractTextFromBytes_UnsupportedType(t *testing.T) {
	if _, err := ExtractTextFromBytes(context.Background(), []byte("plain text"), "text/plain", "cv.txt"); err == nil {
		t.Fatal("expected unsupported type error")
	}
}

func TestStripDocxXML_ParagraphBreaks(t *testing.T) {
	got := stripDocxXML(docxBody)
	lines := strings.Split(got, "\n")
	if len(lines) < 2 {
		t.Fatalf("expected paragraph break between lines, got %q", got)
	}
	if strings.TrimSpace(lines[0]) != "Jane Doe" {
		t.Fatalf("unexpected first line %q", lines[0])
	}
}
