package analytics

import (
	"eduviz/domain/core"
)

// Grade thresholds shared across the pipeline.
const (
	PassThreshold      = 4.0 // overall/subject pass rate
	ExcellentThreshold = 9.0
	ReportPassMark     = 5.0 // pass mark used by reports and learning metrics
	HighRiskGrade      = 4.0
)

// OverallStats summarizes the whole cleaned table.
type OverallStats struct {
	TotalRecords      int            `json:"total_records"`
	TotalStudents     int            `json:"total_students"`
	TotalSubjects     int            `json:"total_subjects"`
	TotalGroups       int            `json:"total_groups,omitempty"`
	MeanGrade         float64        `json:"mean_grade"`
	MedianGrade       float64        `json:"median_grade"`
	StdGrade          float64        `json:"std_grade"`
	MinGrade          float64        `json:"min_grade"`
	MaxGrade          float64        `json:"max_grade"`
	GradeDistribution map[string]int `json:"grade_distribution"`
}

// SubjectStats summarizes one subject.
type SubjectStats struct {
	MeanGrade         float64        `json:"mean_grade"`
	MedianGrade       float64        `json:"median_grade"`
	StdGrade          float64        `json:"std_grade"`
	StudentCount      int            `json:"student_count"`
	RecordCount       int            `json:"record_count"`
	PassRate          float64        `json:"pass_rate"`       // % of grades >= 4
	ExcellentRate     float64        `json:"excellent_rate"`  // % of grades >= 9
	GradeDistribution map[string]int `json:"grade_distribution"`
}

// GroupStats summarizes one cohort/group.
type GroupStats struct {
	MeanGrade      float64  `json:"mean_grade"`
	MedianGrade    float64  `json:"median_grade"`
	StudentCount   int      `json:"student_count"`
	SubjectCount   int      `json:"subject_count"`
	PassRate       float64  `json:"pass_rate"`
	AttendanceRate *float64 `json:"attendance_rate"` // nil when no attendance column
}

// RiskStudent is the simple threshold-only risk variant: students with
// enough records whose mean grade falls below the risk threshold.
type RiskStudent struct {
	StudentID    string   `json:"student_id"`
	AvgGrade     float64  `json:"avg_grade"`
	GradeCount   int      `json:"grade_count"`
	GradeStd     float64  `json:"grade_std"`
	SubjectCount int      `json:"subject_count"`
	RiskLevel    string   `json:"risk_level"` // "high" when avg < 4, else "medium"
	Groups       []string `json:"groups,omitempty"`
	Trend        string   `json:"trend,omitempty"` // "positive", "negative", "stable"
	TrendSlope   *float64 `json:"trend_slope,omitempty"`
}

// AtRiskStudent is the multi-factor risk variant with qualitative factors
// and remediation recommendations. No minimum-record filter applies.
type AtRiskStudent struct {
	StudentID       string   `json:"student_id"`
	AvgGrade        float64  `json:"avg_grade"`
	GradeStd        float64  `json:"grade_std"`
	SubjectCount    int      `json:"subject_count"`
	TotalGrades     int      `json:"total_grades"`
	Group           string   `json:"group,omitempty"`
	RiskFactors     []string `json:"risk_factors"`
	RiskScore       int      `json:"risk_score"`
	Recommendations []string `json:"recommendations"`
}

// GradePrediction extrapolates one (student, subject) pair to the end of a
// 16-week semester.
type GradePrediction struct {
	StudentID            string  `json:"student_id"`
	Subject              string  `json:"subject"`
	Group                string  `json:"group,omitempty"`
	CurrentWeek          int     `json:"current_week"`
	WeeksAvailable       int     `json:"weeks_available"`
	CurrentAvgGrade      float64 `json:"current_avg_grade"`
	PredictedFinalGrade  float64 `json:"predicted_final_grade"` // clamped to [1,10]
	PredictionConfidence float64 `json:"prediction_confidence"`
	Trend                string  `json:"trend"` // "improving", "declining", "stable"
	TrendSlope           float64 `json:"trend_slope"`
}

// WeeklyTrend is the cohort-wide weekly mean-grade series.
type WeeklyTrend struct {
	Weeks      []int     `json:"weeks"`
	MeanGrades []float64 `json:"mean_grades"`
}

// OverallTrend is the least-squares fit over the cohort weekly series.
type OverallTrend struct {
	Slope              float64 `json:"slope"`
	Intercept          float64 `json:"intercept"`
	Direction          string  `json:"direction"` // "improving", "declining", "stable"
	PredictionNextWeek float64 `json:"prediction_next_week"`
}

// TrendSummary groups the cohort trend outputs.
type TrendSummary struct {
	Weekly  *WeeklyTrend  `json:"weekly,omitempty"`
	Overall *OverallTrend `json:"overall_trend,omitempty"`
}

// SubjectCorrelation is one subject pair whose average grades correlate.
type SubjectCorrelation struct {
	Subject1    string  `json:"subject1"`
	Subject2    string  `json:"subject2"`
	Correlation float64 `json:"correlation"`
	Strength    string  `json:"strength"` // "weak", "moderate", "strong"
}

// ClusterInfo describes one k-means cluster of students.
type ClusterInfo struct {
	StudentCount int      `json:"student_count"`
	AvgGradeMean float64  `json:"avg_grade_mean"`
	AvgGradeStd  float64  `json:"avg_grade_std"`
	StudentIDs   []string `json:"student_ids"` // first 10 members
}

// AnalysisResult is the merged output of every analysis stage. Correlation
// and clustering are best-effort: when they cannot run, the structured field
// stays empty and the paired diagnostic carries the reason.
type AnalysisResult struct {
	AnalysisID            core.AnalysisID         `json:"analysis_id"`
	Overall               OverallStats            `json:"overall"`
	BySubject             map[string]SubjectStats `json:"by_subject"`
	ByGroup               map[string]GroupStats   `json:"by_group"`
	RiskStudents          []RiskStudent           `json:"risk_students"`
	Trends                TrendSummary            `json:"trends"`
	Correlations          []SubjectCorrelation    `json:"correlations"`
	CorrelationDiagnostic string                  `json:"correlation_diagnostic,omitempty"`
	Clusters              map[string]ClusterInfo  `json:"clusters,omitempty"`
	ClusterDiagnostic     string                  `json:"cluster_diagnostic,omitempty"`
	Timestamp             core.Timestamp          `json:"timestamp"`
}
