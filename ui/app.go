// Package ui serves the analytics dashboard: HTML pages over embedded
// templates plus a JSON API. The app holds an immutable cleaned table and
// recomputes analysis per request, so no mutable state is shared between
// handlers.
package ui

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"eduviz/domain/gradebook"
	"eduviz/internal"
	"eduviz/internal/analysis"
	"eduviz/internal/cleaning"
	"eduviz/internal/report"
)

//go:embed templates/* static/*
var embeddedFiles embed.FS

// App is the dashboard application.
type App struct {
	router    *chi.Mux
	table     *gradebook.Table
	quality   *cleaning.QualityReport
	analyzer  *analysis.Analyzer
	generator *report.Generator
	templates *template.Template
	logger    *internal.Logger
	port      int
}

// Config holds dashboard configuration.
type Config struct {
	Table   *gradebook.Table
	Quality *cleaning.QualityReport
	Options analysis.Options
	Port    int
	Logger  *internal.Logger
}

// NewApp builds the dashboard over an already cleaned table.
func NewApp(cfg Config) (*App, error) {
	if cfg.Logger == nil {
		cfg.Logger = internal.DefaultLogger
	}

	funcMap := template.FuncMap{
		"pct":   func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
		"grade": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		router:    chi.NewRouter(),
		table:     cfg.Table,
		quality:   cfg.Quality,
		analyzer:  analysis.NewAnalyzer(cfg.Options, cfg.Logger),
		generator: report.NewGenerator(cfg.Options, cfg.Logger),
		templates: templates,
		logger:    cfg.Logger,
		port:      cfg.Port,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	staticFS := http.FileServer(http.FS(embeddedFiles))
	a.router.Handle("/static/*", http.StripPrefix("/", staticFS))
}

func (a *App) setupRoutes() {
	// Pages
	a.router.Get("/", a.handleOverview)
	a.router.Get("/subjects", a.handleSubjectsPage)
	a.router.Get("/risk", a.handleRiskPage)
	a.router.Get("/trends", a.handleTrendsPage)

	// JSON API
	a.router.Get("/api/analysis", a.handleAnalysisJSON)
	a.router.Get("/api/subjects", a.handleSubjectsJSON)
	a.router.Get("/api/subjects/{subject}", a.handleSubjectDetailJSON)
	a.router.Get("/api/risk", a.handleRiskJSON)
	a.router.Get("/api/predictions", a.handlePredictionsJSON)
	a.router.Get("/api/metrics", a.handleMetricsJSON)
	a.router.Get("/api/quality", a.handleQualityJSON)
	a.router.Get("/api/report", a.handleReportJSON)
}

// Handler exposes the router for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

// Start runs the HTTP server until it fails.
func (a *App) Start() error {
	addr := fmt.Sprintf(":%d", a.port)
	a.logger.Info("starting dashboard on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		a.logger.Error("template error: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("encoding response: %v", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, status int, msg string) {
	a.writeJSON(w, status, map[string]string{"error": msg})
}
