package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduviz/domain/core"
	"eduviz/domain/gradebook"
	"eduviz/internal/samplekit"
)

// TestAnalyzePerformanceFullRun checks the merged result over a realistic
// generated dataset: every stage populated, diagnostics empty.
func TestAnalyzePerformanceFullRun(t *testing.T) {
	cfg := samplekit.DefaultConfig()
	cfg.Students = 40
	cfg.Weeks = 8
	table := samplekit.Generate(cfg)

	analyzer := NewAnalyzer(DefaultOptions(), nil)
	result, err := analyzer.AnalyzePerformance(table)
	require.NoError(t, err)

	assert.False(t, result.AnalysisID.String() == "", "analysis gets a fresh ID")
	assert.Equal(t, 40, result.Overall.TotalStudents)
	assert.Equal(t, table.Len(), result.Overall.TotalRecords)
	assert.Len(t, result.BySubject, len(cfg.Subjects))
	assert.NotEmpty(t, result.ByGroup)
	assert.NotNil(t, result.Trends.Weekly)
	assert.False(t, result.Timestamp.IsZero())

	// 40 students over 8 weeks is plenty for both optional stages.
	assert.Empty(t, result.ClusterDiagnostic)
	assert.NotEmpty(t, result.Clusters)
}

// TestDefaultOptions pins the shipped thresholds so a silent change to any
// of them fails loudly.
func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 5.0, opts.RiskThreshold)
	assert.Equal(t, 3, opts.MinRecords)
	assert.Equal(t, 3, opts.MinWeeks)
	assert.Equal(t, 1.5, opts.DeclineThreshold)
	assert.Equal(t, 0, opts.CurrentWeek)
}

// TestAnalyzePerformanceEmpty checks that an empty table fails up front.
func TestAnalyzePerformanceEmpty(t *testing.T) {
	analyzer := NewAnalyzer(DefaultOptions(), nil)
	_, err := analyzer.AnalyzePerformance(&gradebook.Table{})
	assert.ErrorIs(t, err, core.ErrEmptyTable)
}

// TestAnalyzePerformanceDiagnostics checks that a tiny table degrades into
// diagnostics instead of failing.
func TestAnalyzePerformanceDiagnostics(t *testing.T) {
	table := &gradebook.Table{Records: []gradebook.GradeRecord{
		record("S1", "Math", 5),
		record("S2", "Math", 7),
	}}

	analyzer := NewAnalyzer(DefaultOptions(), nil)
	result, err := analyzer.AnalyzePerformance(table)
	require.NoError(t, err)

	assert.Empty(t, result.Correlations)
	assert.NotEmpty(t, result.CorrelationDiagnostic)
	assert.Empty(t, result.Clusters)
	assert.NotEmpty(t, result.ClusterDiagnostic)
}
