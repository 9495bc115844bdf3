package analysis

import (
	"eduviz/domain/analytics"
	"eduviz/domain/core"
	"eduviz/domain/gradebook"
	"eduviz/internal"
)

// Options tune the analysis stages.
type Options struct {
	// RiskThreshold is the mean grade below which a student is at risk.
	RiskThreshold float64
	// MinRecords filters out students with too few grades from the simple
	// risk variant and from clustering.
	MinRecords int
	// MinWeeks is the minimum distinct graded weeks before the trend
	// predicates of the multi-factor variant apply.
	MinWeeks int
	// DeclineThreshold is the first-half minus second-half mean drop that
	// counts as a sharp decline.
	DeclineThreshold float64
	// CurrentWeek caps prediction confidence; 0 derives it from the table.
	CurrentWeek int
}

// DefaultOptions returns the thresholds the pipeline ships with.
func DefaultOptions() Options {
	return Options{
		RiskThreshold:    5.0,
		MinRecords:       3,
		MinWeeks:         3,
		DeclineThreshold: 1.5,
	}
}

// Analyzer runs the full analysis pipeline over a cleaned table.
type Analyzer struct {
	opts   Options
	logger *internal.Logger
}

// NewAnalyzer builds an Analyzer; a nil logger falls back to the default.
func NewAnalyzer(opts Options, logger *internal.Logger) *Analyzer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Analyzer{opts: opts, logger: logger}
}

// AnalyzePerformance runs every analysis stage and merges the outputs.
// Correlation and clustering are best-effort: when a stage cannot run, its
// field stays empty and the paired diagnostic carries the reason.
func (a *Analyzer) AnalyzePerformance(t *gradebook.Table) (*analytics.AnalysisResult, error) {
	overall, err := Overall(t)
	if err != nil {
		return nil, err
	}
	a.logger.Info("analyzing %d records from %d students", overall.TotalRecords, overall.TotalStudents)

	result := &analytics.AnalysisResult{
		AnalysisID:   core.AnalysisID(core.NewID()),
		Overall:      overall,
		BySubject:    BySubject(t),
		RiskStudents: RiskStudents(t, a.opts.RiskThreshold, a.opts.MinRecords),
		Trends:       ComputeTrends(t),
		Timestamp:    core.Now(),
	}
	if t.HasGroup {
		result.ByGroup = ByGroup(t)
	}

	result.Correlations, result.CorrelationDiagnostic = SubjectCorrelations(t)
	if result.CorrelationDiagnostic != "" {
		a.logger.Debug("correlation skipped: %s", result.CorrelationDiagnostic)
	}

	result.Clusters, result.ClusterDiagnostic = ClusterStudents(t, a.opts.MinRecords)
	if result.ClusterDiagnostic != "" {
		a.logger.Debug("clustering skipped: %s", result.ClusterDiagnostic)
	}

	a.logger.Info("analysis complete: %d risk students, %d correlations, %d clusters",
		len(result.RiskStudents), len(result.Correlations), len(result.Clusters))
	return result, nil
}

// AtRisk runs the multi-factor risk variant with the analyzer's thresholds.
func (a *Analyzer) AtRisk(t *gradebook.Table) []analytics.AtRiskStudent {
	return IdentifyAtRiskStudents(t, a.opts.RiskThreshold, a.opts.MinWeeks, a.opts.DeclineThreshold)
}

// Predictions runs the per-pair final-grade extrapolation with the
// analyzer's current-week setting.
func (a *Analyzer) Predictions(t *gradebook.Table) []analytics.GradePrediction {
	return PredictFinalGrades(t, a.opts.CurrentWeek)
}
