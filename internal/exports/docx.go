package exports

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"cvbuilder-backend/internal/cv"
	"cvbuilder-backend/internal/entrylist"
)

// DocxRenderer builds a Word document directly from the document payload.
// Unlike the PDF backends it needs no external service: the OOXML parts are
// small enough to assemble in-process.
type DocxRenderer struct{}

// NewDocxRenderer constructs a DocxRenderer.
func NewDocxRenderer() *DocxRenderer {
	return &DocxRenderer{}
}

// runStyle captures the inline run formatting used by the layout.
type runStyle struct {
	Bold   bool
	Italic bool
	Size   int // half-points; zero means the document default
	Color  string
}

const (
	nameColor    = "111111"
	headingColor = "1F2937"
	nameSize     = 32
	headingSize  = 24
)

var (
	styleName    = runStyle{Bold: true, Size: nameSize, Color: nameColor}
	styleHeading = runStyle{Bold: true, Size: headingSize, Color: headingColor}
	styleRole    = runStyle{Bold: true}
	styleMeta    = runStyle{Italic: true}
	stylePlain   = runStyle{}
)

// Render implements Renderer.
func (r *DocxRenderer) Render(ctx context.Context, doc cv.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body := buildDocumentXML(doc)
	if err := checkWellFormed([]byte(body)); err != nil {
		return nil, fmt.Errorf("assemble document.xml: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML},
		{"word/document.xml", body},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", part.name, err)
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, fmt.Errorf("write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

func buildDocumentXML(doc cv.Document) string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)

	writeHeader(&b, doc)
	writeSummary(&b, doc)
	writeExperience(&b, doc.Experience)
	writeProjects(&b, doc.Projects)
	writeEducation(&b, doc.Education)
	writeSkills(&b, doc.Skills)

	b.WriteString(`<w:sectPr><w:pgMar w:top="720" w:right="720" w:bottom="720" w:left="720"/></w:sectPr>`)
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func writeHeader(b *strings.Builder, doc cv.Document) {
	name := strings.TrimSpace(strings.TrimSpace(doc.Personal.FirstName) + " " + strings.TrimSpace(doc.Personal.LastName))
	if name == "" {
		name = doc.Title
	}
	writePara(b, "", run(name, styleName))

	contact := joinNonEmpty(" | ",
		doc.Personal.Email,
		doc.Personal.Phone,
		doc.Personal.Location,
		doc.Personal.Website,
		doc.Personal.LinkedIn,
		doc.Personal.GitHub,
	)
	if contact != "" {
		writePara(b, "", run(contact, stylePlain))
	}
}

func writeSummary(b *strings.Builder, doc cv.Document) {
	summary := strings.TrimSpace(doc.Personal.Summary)
	if summary == "" {
		return
	}
	writeHeading(b, "Summary")
	writePara(b, "", run(summary, stylePlain))
}

func writeExperience(b *strings.Builder, entries []cv.ExperienceEntry) {
	if len(entries) == 0 {
		return
	}
	writeHeading(b, "Experience")
	for _, e := range entries {
		display := entrylist.Derive(e.Role, e.Company, e.StartDate, e.EndDate, e.Current)
		writePara(b, "", run(display.Title, styleRole))
		meta := joinNonEmpty(" | ", display.Subtitle, e.Location)
		if meta != "" {
			writePara(b, "", run(meta, styleMeta))
		}
		writeBullets(b, e.Description)
	}
}

func writeProjects(b *strings.Builder, entries []cv.ProjectEntry) {
	if len(entries) == 0 {
		return
	}
	writeHeading(b, "Projects")
	for _, e := range entries {
		display := entrylist.Derive(e.Name, e.Link, e.StartDate, e.EndDate, e.Current)
		writePara(b, "", run(display.Title, styleRole))
		if display.Subtitle != "" {
			writePara(b, "", run(display.Subtitle, styleMeta))
		}
		writeBullets(b, e.Description)
	}
}

func writeEducation(b *strings.Builder, entries []cv.EducationEntry) {
	if len(entries) == 0 {
		return
	}
	writeHeading(b, "Education")
	for _, e := range entries {
		degree := joinNonEmpty(", ", e.Degree, e.Field)
		display := entrylist.Derive(e.School, degree, e.StartDate, e.EndDate, e.Current)
		writePara(b, "", run(display.Title, styleRole))
		meta := joinNonEmpty(" | ", display.Subtitle, e.Location)
		if meta != "" {
			writePara(b, "", run(meta, styleMeta))
		}
		writeBullets(b, e.Description)
	}
}

func writeSkills(b *strings.Builder, skills []string) {
	joined := joinNonEmpty(", ", skills...)
	if joined == "" {
		return
	}
	writeHeading(b, "Skills")
	writePara(b, "", run(joined, stylePlain))
}

func writeHeading(b *strings.Builder, title string) {
	writePara(b, `<w:spacing w:before="240" w:after="60"/>`, run(title, styleHeading))
}

// writeBullets renders description lines as indented bullet paragraphs. A
// plain bullet glyph keeps the archive free of numbering parts.
func writeBullets(b *strings.Builder, lines []string) {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		writePara(b, `<w:ind w:left="360"/>`, run("• "+line, stylePlain))
	}
}

func writePara(b *strings.Builder, props string, runs ...string) {
	b.WriteString("<w:p>")
	if props != "" {
		b.WriteString("<w:pPr>")
		b.WriteString(props)
		b.WriteString("</w:pPr>")
	}
	for _, r := range runs {
		b.WriteString(r)
	}
	b.WriteString("</w:p>")
}

func run(text string, style runStyle) string {
	var b strings.Builder
	b.WriteString("<w:r>")
	if style != (runStyle{}) {
		b.WriteString("<w:rPr>")
		if style.Bold {
			b.WriteString("<w:b/>")
		}
		if style.Italic {
			b.WriteString("<w:i/>")
		}
		if style.Color != "" {
			fmt.Fprintf(&b, `<w:color w:val=%q/>`, style.Color)
		}
		if style.Size > 0 {
			fmt.Fprintf(&b, `<w:sz w:val="%d"/>`, style.Size)
		}
		b.WriteString("</w:rPr>")
	}
	b.WriteString(`<w:t xml:space="preserve">`)
	b.WriteString(escapeXML(text))
	b.WriteString("</w:t></w:r>")
	return b.String()
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

// checkDocx validates rendered bytes before they are stored: the archive must
// open and carry a well-formed main document part.
func checkDocx(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty render output")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("render output is not a valid docx archive: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open document part: %w", err)
		}
		defer rc.Close()
		body, err := io.ReadAll(rc)
		if err != nil {
			return fmt.Errorf("read document part: %w", err)
		}
		if err := checkWellFormed(body); err != nil {
			return fmt.Errorf("document part is not well-formed: %w", err)
		}
		return nil
	}
	return fmt.Errorf("docx archive is missing word/document.xml")
}

func checkWellFormed(body []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(body))
	for {
		if _, err := dec.Token(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

const contentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`</Types>`

const relsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const documentRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`

const stylesXML = xml.Header + `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:docDefaults><w:rPrDefault><w:rPr>` +
	`<w:rFonts w:ascii="Calibri" w:hAnsi="Calibri"/>` +
	`<w:sz w:val="22"/>` +
	`</w:rPr></w:rPrDefault></w:docDefaults>` +
	`</w:styles>`

var _ Renderer = (*DocxRenderer)(nil)
