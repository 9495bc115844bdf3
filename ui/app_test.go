package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduviz/internal/analysis"
	"eduviz/internal/cleaning"
	"eduviz/internal/samplekit"
)

func testApp(t *testing.T) *App {
	t.Helper()
	cfg := samplekit.DefaultConfig()
	cfg.Students = 30
	cfg.Weeks = 6
	raw := samplekit.Generate(cfg)

	quality := cleaning.Validate(raw)
	table, _ := cleaning.NewCleaner(nil).Clean(raw)

	app, err := NewApp(Config{
		Table:   table,
		Quality: &quality,
		Options: analysis.DefaultOptions(),
		Port:    0,
	})
	require.NoError(t, err)
	return app
}

// TestPagesRender checks that every HTML page responds with a full document.
func TestPagesRender(t *testing.T) {
	app := testApp(t)
	srv := httptest.NewServer(app.Handler())
	defer srv.Close()

	for _, path := range []string{"/", "/subjects", "/risk", "/trends"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err, path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html", path)
		resp.Body.Close()
	}
}

// TestAPIEndpoints checks that every JSON endpoint responds with valid JSON.
func TestAPIEndpoints(t *testing.T) {
	app := testApp(t)
	srv := httptest.NewServer(app.Handler())
	defer srv.Close()

	paths := []string{
		"/api/analysis",
		"/api/subjects",
		"/api/risk",
		"/api/predictions",
		"/api/metrics",
		"/api/quality",
		"/api/report",
	}
	for _, path := range paths {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err, path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)

		var v interface{}
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&v), path)
		resp.Body.Close()
	}
}

// TestSubjectDetailNotFound checks the 404 on an unknown subject.
func TestSubjectDetailNotFound(t *testing.T) {
	app := testApp(t)
	srv := httptest.NewServer(app.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/subjects/Alchemy")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// TestReportTypeValidation checks the report-type query parameter.
func TestReportTypeValidation(t *testing.T) {
	app := testApp(t)
	srv := httptest.NewServer(app.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/report?type=bogus")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
