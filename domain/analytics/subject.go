package analytics

// BasicStats are the core descriptive statistics of a grade sample.
type BasicStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Range  float64 `json:"range"`
	IQR    float64 `json:"iqr"`
}

// SubjectCounts carries the population counts of a subject.
type SubjectCounts struct {
	TotalStudents int  `json:"total_students"`
	TotalRecords  int  `json:"total_records"`
	UniqueWeeks   *int `json:"unique_weeks"` // nil when the week column is absent
}

// GradeBands buckets grades into the four qualitative bands.
type GradeBands struct {
	ExcellentCount      int     `json:"excellent_count"`    // >= 9
	GoodCount           int     `json:"good_count"`         // [7, 9)
	SatisfactoryCount   int     `json:"satisfactory_count"` // [5, 7)
	FailCount           int     `json:"fail_count"`         // < 5
	ExcellentPercentage float64 `json:"excellent_percentage"`
	PassPercentage      float64 `json:"pass_percentage"` // >= 5
}

// Percentiles carries the standard percentile cuts.
type Percentiles struct {
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
}

// GroupBreakdown is the per-group slice of one subject's grades.
type GroupBreakdown struct {
	Mean     float64 `json:"mean"`
	Count    int     `json:"count"`
	Std      float64 `json:"std"`
	PassRate float64 `json:"pass_rate"` // >= 5
}

// SubjectTrend is the weekly fit for one subject.
type SubjectTrend struct {
	WeeklyMeans map[int]float64 `json:"weekly_means"`
	TrendSlope  *float64        `json:"trend_slope"`
	Volatility  float64         `json:"volatility"`
}

// DetailedSubjectStats is the deep per-subject breakdown used by detailed
// reports and the dashboard subject view.
type DetailedSubjectStats struct {
	Basic        BasicStats                `json:"basic"`
	Counts       SubjectCounts             `json:"counts"`
	Distribution GradeBands                `json:"distribution"`
	Percentiles  Percentiles               `json:"percentiles"`
	ByGroup      map[string]GroupBreakdown `json:"by_group,omitempty"`
	Trend        *SubjectTrend             `json:"trend,omitempty"`
}
