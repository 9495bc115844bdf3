package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"eduviz/domain/analytics"
	apperrors "eduviz/internal/errors"
)

// RenderMarkdown writes the report detail sections as a Markdown document:
// top subjects, top students, risk table and recommendations. The KPI summary
// is rendered separately by the HTML layout, so it is omitted here.
func RenderMarkdown(r *analytics.Report) []byte {
	var b strings.Builder

	b.WriteString("## Top Subjects\n\n")
	if len(r.Details.TopSubjects) == 0 {
		b.WriteString("No subject data available.\n\n")
	} else {
		b.WriteString("| Subject | Average Grade | Students |\n")
		b.WriteString("|---|---|---|\n")
		for _, s := range r.Details.TopSubjects {
			fmt.Fprintf(&b, "| %s | %.2f | %d |\n", s.Subject, s.AverageGrade, s.StudentCount)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Top Students\n\n")
	if len(r.Details.TopStudents) == 0 {
		b.WriteString("No student data available.\n\n")
	} else {
		b.WriteString("| Student | Average Grade | Subjects |\n")
		b.WriteString("|---|---|---|\n")
		for _, s := range r.Details.TopStudents {
			fmt.Fprintf(&b, "| %s | %.2f | %d |\n", s.StudentID, s.AverageGrade, s.SubjectCount)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Students at Risk\n\n")
	if len(r.Details.RiskAnalysis) == 0 {
		b.WriteString("No students at risk.\n\n")
	} else {
		b.WriteString("| Student | Average Grade | Level | Trend |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, s := range r.Details.RiskAnalysis {
			trend := s.Trend
			if trend == "" {
				trend = "n/a"
			}
			fmt.Fprintf(&b, "| %s | %.2f | %s | %s |\n", s.StudentID, s.AvgGrade, s.RiskLevel, trend)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Recommendations\n\n")
	if len(r.Recommendations) == 0 {
		b.WriteString("No recommendations.\n")
	} else {
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "- **%s** (%s priority): %s. *%s*\n", rec.Type, rec.Priority, rec.Description, rec.Action)
		}
	}

	return []byte(b.String())
}

// MarkdownToHTML converts a Markdown document to an HTML fragment with table
// support enabled.
func MarkdownToHTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML(md, p, renderer)
}

// RenderHTML renders the report as a self-contained HTML document: a KPI
// summary grid laid out by the template, followed by the detail sections
// converted from Markdown.
func RenderHTML(r *analytics.Report) ([]byte, error) {
	body := MarkdownToHTML(RenderMarkdown(r))

	data := struct {
		Report *analytics.Report
		Body   template.HTML
	}{
		Report: r,
		Body:   template.HTML(body),
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, apperrors.Wrap(err, "rendering HTML report")
	}
	return buf.Bytes(), nil
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Performance Report ({{.Report.Metadata.ReportType}})</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 2rem auto; max-width: 960px; color: #1f2933; }
h1 { border-bottom: 2px solid #3b82f6; padding-bottom: 0.4rem; }
.meta { color: #616e7c; font-size: 0.9rem; margin-bottom: 1.5rem; }
.cards { display: flex; flex-wrap: wrap; gap: 1rem; margin-bottom: 2rem; }
.card { flex: 1 1 140px; background: #f0f6ff; border-radius: 8px; padding: 1rem; text-align: center; }
.card .value { font-size: 1.6rem; font-weight: 700; color: #1d4ed8; }
.card .label { font-size: 0.8rem; color: #616e7c; text-transform: uppercase; }
table { border-collapse: collapse; width: 100%; margin-bottom: 1.5rem; }
th, td { border: 1px solid #d3dce6; padding: 0.45rem 0.7rem; text-align: left; }
th { background: #f5f7fa; }
</style>
</head>
<body>
<h1>Student Performance Report</h1>
<p class="meta">
Type: {{.Report.Metadata.ReportType}} &middot;
Generated: {{.Report.Metadata.GeneratedAt}}
{{- with .Report.Metadata.Period}} &middot; Period: {{.Start}} to {{.End}}{{end}}
{{- with .Report.Metadata.DataSource}} &middot; Source: {{.}}{{end}}
</p>
<div class="cards">
<div class="card"><div class="value">{{.Report.Summary.TotalStudents}}</div><div class="label">Students</div></div>
<div class="card"><div class="value">{{.Report.Summary.TotalSubjects}}</div><div class="label">Subjects</div></div>
<div class="card"><div class="value">{{printf "%.2f" .Report.Summary.AverageGrade}}</div><div class="label">Average Grade</div></div>
<div class="card"><div class="value">{{printf "%.2f" .Report.Summary.MedianGrade}}</div><div class="label">Median Grade</div></div>
<div class="card"><div class="value">{{printf "%.1f%%" .Report.Summary.PassRate}}</div><div class="label">Pass Rate</div></div>
<div class="card"><div class="value">{{.Report.Summary.RiskStudentsCount}}</div><div class="label">At Risk</div></div>
</div>
{{.Body}}
</body>
</html>
`))
