package analytics

// OverallEfficiency measures the cohort-wide teaching outcome.
type OverallEfficiency struct {
	AverageGrade        float64 `json:"average_grade"`
	PassRate            float64 `json:"pass_rate"`       // >= 5
	ExcellenceRate      float64 `json:"excellence_rate"` // >= 9
	FailureRate         float64 `json:"failure_rate"`    // < 5
	StudentSubjectRatio float64 `json:"student_subject_ratio"`
}

// ConsistencyMetrics measures grade stability across weeks.
type ConsistencyMetrics struct {
	WeeklyVariance float64 `json:"weekly_variance"`
	StabilityScore float64 `json:"stability_score"` // 0-100
}

// SubjectEfficiency is the per-subject slice of the learning metrics.
type SubjectEfficiency struct {
	AverageGrade float64 `json:"average_grade"`
	PassRate     float64 `json:"pass_rate"`
	StudentCount int     `json:"student_count"`
	GradeStd     float64 `json:"grade_std"`
}

// ImprovementMetrics compares the first and second halves of the semester.
type ImprovementMetrics struct {
	FirstHalfAvg          float64 `json:"first_half_avg"`
	SecondHalfAvg         float64 `json:"second_half_avg"`
	Improvement           float64 `json:"improvement"`
	ImprovementPercentage float64 `json:"improvement_percentage"`
}

// LearningMetrics aggregates the teaching-effectiveness measures.
type LearningMetrics struct {
	OverallEfficiency OverallEfficiency            `json:"overall_efficiency"`
	GradeDistribution map[string]float64           `json:"grade_distribution"` // band -> % of records
	Consistency       *ConsistencyMetrics          `json:"consistency,omitempty"`
	SubjectEfficiency map[string]SubjectEfficiency `json:"subject_efficiency"`
	Improvement       *ImprovementMetrics          `json:"improvement_metrics,omitempty"`
}
