package report

import (
	"bytes"
	"encoding/json"
	"html/template"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"eduviz/domain/analytics"
	"eduviz/domain/core"
	apperrors "eduviz/internal/errors"
)

// ToolVersion tags exported documents.
const ToolVersion = "1.0.0"

// envelope wraps exported results with provenance metadata.
type envelope struct {
	ExportID   core.ID        `json:"export_id"`
	ExportDate core.Timestamp `json:"export_date"`
	Tool       string         `json:"tool"`
	Version    string         `json:"version"`
	Results    interface{}    `json:"results"`
}

// ExportJSON writes v to path wrapped in the export envelope.
func ExportJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(envelope{
		ExportID:   core.NewID(),
		ExportDate: core.Now(),
		Tool:       "eduviz",
		Version:    ToolVersion,
		Results:    v,
	}, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, "marshaling export")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.IOError("writing "+path, err)
	}
	return nil
}

// Bundle is everything one report run can write to disk.
type Bundle struct {
	Report   *analytics.Report
	Analysis *analytics.AnalysisResult
	Charts   bool
}

// WriteBundle writes the report JSON, the HTML report, the raw analysis JSON
// and (optionally) the chart pages under dir, one goroutine per file.
func WriteBundle(dir string, b Bundle) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.IOError("creating output dir "+dir, err)
	}

	var g errgroup.Group
	if b.Report != nil {
		g.Go(func() error {
			return ExportJSON(filepath.Join(dir, "report.json"), b.Report)
		})
		g.Go(func() error {
			html, err := RenderHTML(b.Report)
			if err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(dir, "report.html"), html, 0o644); err != nil {
				return apperrors.IOError("writing report.html", err)
			}
			return nil
		})
	}
	if b.Analysis != nil {
		g.Go(func() error {
			return ExportJSON(filepath.Join(dir, "analysis.json"), b.Analysis)
		})
		if b.Charts {
			g.Go(func() error {
				return writeChartPages(dir, b.Analysis)
			})
		}
	}
	return g.Wait()
}

// chartPage is a standalone HTML document embedding its series as JSON for
// client-side plotting. Rendering is left to the page script.
var chartTemplate = template.Must(template.New("chart").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<div id="chart" data-kind="{{.Kind}}"></div>
<script id="chart-data" type="application/json">{{.Data}}</script>
</body>
</html>
`))

func writeChartPages(dir string, result *analytics.AnalysisResult) error {
	if result.Trends.Weekly != nil {
		if err := writeChartPage(filepath.Join(dir, "trends_chart.html"),
			"Weekly Grade Trend", "line", result.Trends.Weekly); err != nil {
			return err
		}
	}
	if len(result.Overall.GradeDistribution) > 0 {
		if err := writeChartPage(filepath.Join(dir, "distribution_chart.html"),
			"Grade Distribution", "bar", result.Overall.GradeDistribution); err != nil {
			return err
		}
	}
	return nil
}

func writeChartPage(path, title, kind string, series interface{}) error {
	data, err := json.Marshal(series)
	if err != nil {
		return apperrors.Wrap(err, "marshaling chart series")
	}
	var buf bytes.Buffer
	err = chartTemplate.Execute(&buf, struct {
		Title string
		Kind  string
		Data  template.JS
	}{Title: title, Kind: kind, Data: template.JS(data)})
	if err != nil {
		return apperrors.Wrap(err, "rendering chart page")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return apperrors.IOError("writing "+path, err)
	}
	return nil
}
