package ui

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"eduviz/domain/analytics"
	"eduviz/domain/core"
	"eduviz/internal/analysis"
)

// handleOverview renders the main dashboard page.
func (a *App) handleOverview(w http.ResponseWriter, r *http.Request) {
	result, err := a.analyzer.AnalyzePerformance(a.table)
	if err != nil {
		http.Error(w, "Failed to analyze data", http.StatusInternalServerError)
		return
	}
	a.renderTemplate(w, "index.html", map[string]interface{}{
		"Title":   "Overview",
		"Result":  result,
		"Metrics": a.metrics(),
	})
}

// handleSubjectsPage renders the per-subject breakdown page.
func (a *App) handleSubjectsPage(w http.ResponseWriter, r *http.Request) {
	result, err := a.analyzer.AnalyzePerformance(a.table)
	if err != nil {
		http.Error(w, "Failed to analyze data", http.StatusInternalServerError)
		return
	}
	a.renderTemplate(w, "subjects.html", map[string]interface{}{
		"Title":    "Subjects",
		"Subjects": result.BySubject,
		"Order":    a.table.Subjects(),
	})
}

// handleRiskPage renders the at-risk students page with the multi-factor
// breakdown.
func (a *App) handleRiskPage(w http.ResponseWriter, r *http.Request) {
	a.renderTemplate(w, "risk.html", map[string]interface{}{
		"Title":  "Students at Risk",
		"AtRisk": a.analyzer.AtRisk(a.table),
	})
}

// handleTrendsPage renders the cohort trend and predictions page.
func (a *App) handleTrendsPage(w http.ResponseWriter, r *http.Request) {
	predictions := a.analyzer.Predictions(a.table)
	// Worst predicted outcomes lead the page.
	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].PredictedFinalGrade < predictions[j].PredictedFinalGrade
	})
	if len(predictions) > 20 {
		predictions = predictions[:20]
	}
	a.renderTemplate(w, "trends.html", map[string]interface{}{
		"Title":       "Trends",
		"Trends":      analysis.ComputeTrends(a.table),
		"Predictions": predictions,
	})
}

func (a *App) handleAnalysisJSON(w http.ResponseWriter, r *http.Request) {
	result, err := a.analyzer.AnalyzePerformance(a.table)
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.writeJSON(w, http.StatusOK, result)
}

func (a *App) handleSubjectsJSON(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, analysis.BySubject(a.table))
}

func (a *App) handleSubjectDetailJSON(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")
	detail, err := analysis.DetailedSubjectStats(a.table, subject)
	if err != nil {
		if core.IsNotFoundError(err) {
			a.writeError(w, http.StatusNotFound, "unknown subject: "+subject)
			return
		}
		a.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.writeJSON(w, http.StatusOK, detail)
}

func (a *App) handleRiskJSON(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.analyzer.AtRisk(a.table))
}

func (a *App) handlePredictionsJSON(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.analyzer.Predictions(a.table))
}

func (a *App) handleMetricsJSON(w http.ResponseWriter, r *http.Request) {
	m := a.metrics()
	if m == nil {
		a.writeError(w, http.StatusInternalServerError, "no graded records")
		return
	}
	a.writeJSON(w, http.StatusOK, m)
}

func (a *App) handleQualityJSON(w http.ResponseWriter, r *http.Request) {
	if a.quality == nil {
		a.writeError(w, http.StatusNotFound, "no quality report available")
		return
	}
	a.writeJSON(w, http.StatusOK, a.quality)
}

func (a *App) handleReportJSON(w http.ResponseWriter, r *http.Request) {
	reportType := analytics.ReportType(r.URL.Query().Get("type"))
	if reportType == "" {
		reportType = analytics.ReportFull
	}
	if !analytics.ValidReportType(string(reportType)) {
		a.writeError(w, http.StatusBadRequest, "invalid report type: "+string(reportType))
		return
	}
	rep, err := a.generator.Generate(a.table, reportType, "dashboard")
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	a.writeJSON(w, http.StatusOK, rep)
}

func (a *App) metrics() *analytics.LearningMetrics {
	m, err := analysis.ComputeLearningMetrics(a.table)
	if err != nil {
		return nil
	}
	return m
}
