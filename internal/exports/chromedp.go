package exports

import (
	"bytes"
	"context"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"cvbuilder-backend/internal/cv"
	"cvbuilder-backend/internal/entrylist"
)

// ChromeRenderer is the local fallback when no render service URL is
// configured: the document is laid out with an HTML template and printed to
// PDF through headless Chrome.
type ChromeRenderer struct {
	tmpl *template.Template
}

// NewChromeRenderer constructs the fallback renderer.
func NewChromeRenderer() (*ChromeRenderer, error) {
	tmpl, err := template.New("cv").Funcs(template.FuncMap{
		"monthYear": entrylist.FormatMonthYear,
		"join":      strings.Join,
	}).Parse(cvTemplate)
	if err != nil {
		return nil, err
	}
	return &ChromeRenderer{tmpl: tmpl}, nil
}

// Render lays the document out as HTML and prints it to A4 PDF.
func (r *ChromeRenderer) Render(ctx context.Context, doc cv.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, doc); err != nil {
		return nil, err
	}
	return printHTMLToPDF(ctx, buf.String())
}

func printHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if p := os.Getenv("CHROME_PATH"); p != "" {
		opts = append(opts, chromedp.ExecPath(p))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	runCtx, cancelRun := context.WithTimeout(cctx, 60*time.Second)
	defer cancelRun()

	tmpDir, err := os.MkdirTemp("", "cvexport-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, err
	}

	var pdfBuf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm -> 8.27in x 11.69in
			pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}

const cvTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Georgia, serif; margin: 2.2cm; color: #1a1a1a; }
  h1 { font-size: 22pt; margin: 0; }
  h2 { font-size: 12pt; border-bottom: 1px solid #999; text-transform: uppercase; letter-spacing: 1px; margin: 18px 0 6px; }
  .contact { font-size: 9pt; color: #444; margin-bottom: 8px; }
  .entry { margin-bottom: 8px; }
  .entry-head { display: flex; justify-content: space-between; font-weight: bold; font-size: 10.5pt; }
  .entry-sub { font-style: italic; font-size: 10pt; }
  .dates { font-weight: normal; font-size: 9.5pt; color: #555; }
  ul { margin: 3px 0 0 18px; padding: 0; font-size: 10pt; }
  .skills { font-size: 10pt; }
  .summary { font-size: 10pt; }
</style>
</head>
<body>
  <h1>{{.Personal.FirstName}} {{.Personal.LastName}}</h1>
  <div class="contact">
    {{.Personal.Email}}{{if .Personal.Phone}} &middot; {{.Personal.Phone}}{{end}}{{if .Personal.Location}} &middot; {{.Personal.Location}}{{end}}
    {{if .Personal.Website}}<br>{{.Personal.Website}}{{end}}{{if .Personal.LinkedIn}} &middot; {{.Personal.LinkedIn}}{{end}}{{if .Personal.GitHub}} &middot; {{.Personal.GitHub}}{{end}}
  </div>

  {{if .Personal.Summary}}<h2>Summary</h2><p class="summary">{{.Personal.Summary}}</p>{{end}}

  {{if .Experience}}<h2>Experience</h2>
  {{range .Experience}}<div class="entry">
    <div class="entry-head"><span>{{.Company}}</span>
      <span class="dates">{{monthYear .StartDate}} &ndash; {{if .Current}}Current{{else}}{{monthYear .EndDate}}{{end}}</span></div>
    <div class="entry-sub">{{.Role}}{{if .Location}} &mdash; {{.Location}}{{end}}</div>
    {{if .Description}}<ul>{{range .Description}}{{if .}}<li>{{.}}</li>{{end}}{{end}}</ul>{{end}}
  </div>{{end}}{{end}}

  {{if .Education}}<h2>Education</h2>
  {{range .Education}}<div class="entry">
    <div class="entry-head"><span>{{.School}}</span>
      <span class="dates">{{monthYear .StartDate}} &ndash; {{if .Current}}Current{{else}}{{monthYear .EndDate}}{{end}}</span></div>
    <div class="entry-sub">{{.Degree}}{{if .Field}}, {{.Field}}{{end}}</div>
    {{if .Description}}<ul>{{range .Description}}{{if .}}<li>{{.}}</li>{{end}}{{end}}</ul>{{end}}
  </div>{{end}}{{end}}

  {{if .Projects}}<h2>Projects</h2>
  {{range .Projects}}<div class="entry">
    <div class="entry-head"><span>{{.Name}}</span>
      {{if .StartDate}}<span class="dates">{{monthYear .StartDate}}{{if or .EndDate .Current}} &ndash; {{if .Current}}Current{{else}}{{monthYear .EndDate}}{{end}}{{end}}</span>{{end}}</div>
    {{if .Link}}<div class="entry-sub">{{.Link}}</div>{{end}}
    {{if .Description}}<ul>{{range .Description}}{{if .}}<li>{{.}}</li>{{end}}{{end}}</ul>{{end}}
  </div>{{end}}{{end}}

  {{if .Skills}}<h2>Skills</h2><p class="skills">{{join .Skills ", "}}</p>{{end}}
</body>
</html>`

var _ Renderer = (*ChromeRenderer)(nil)
