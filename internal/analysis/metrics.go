package analysis

import (
	"gonum.org/v1/gonum/stat"

	"eduviz/domain/analytics"
	"eduviz/domain/core"
	"eduviz/domain/gradebook"
)

// ComputeLearningMetrics derives the teaching-effectiveness measures:
// cohort efficiency, qualitative band shares, weekly consistency, per-subject
// efficiency and first-half/second-half improvement. The week-dependent
// sections are omitted when the table carries no week column.
func ComputeLearningMetrics(t *gradebook.Table) (*analytics.LearningMetrics, error) {
	grades := t.Grades()
	if len(grades) == 0 {
		return nil, core.ErrEmptyTable
	}

	m := &analytics.LearningMetrics{
		OverallEfficiency: analytics.OverallEfficiency{
			AverageGrade:        stat.Mean(grades, nil),
			PassRate:            shareAtLeast(grades, analytics.ReportPassMark) * 100,
			ExcellenceRate:      shareAtLeast(grades, analytics.ExcellentThreshold) * 100,
			FailureRate:         shareBelow(grades, analytics.ReportPassMark) * 100,
			StudentSubjectRatio: float64(len(t.Students())) / float64(len(t.Subjects())),
		},
		GradeDistribution: bandShares(grades),
		SubjectEfficiency: make(map[string]analytics.SubjectEfficiency),
	}

	for _, subject := range t.Subjects() {
		sub := t.FilterSubject(subject)
		sGrades := sub.Grades()
		if len(sGrades) == 0 {
			continue
		}
		m.SubjectEfficiency[subject] = analytics.SubjectEfficiency{
			AverageGrade: stat.Mean(sGrades, nil),
			PassRate:     shareAtLeast(sGrades, analytics.ReportPassMark) * 100,
			StudentCount: len(sub.Students()),
			GradeStd:     sampleStd(sGrades),
		}
	}

	if t.HasWeek && t.DistinctWeeks() >= 2 {
		m.Consistency = consistency(t)
		m.Improvement = improvement(t)
	}

	return m, nil
}

// consistency measures grade stability as the mean of the per-week sample
// stds, mapped to a 0-100 stability score.
func consistency(t *gradebook.Table) *analytics.ConsistencyMetrics {
	var stds []float64
	for _, p := range t.WeeklyMeans() {
		weekGrades := weekGrades(t, p.Week)
		stds = append(stds, sampleStd(weekGrades))
	}
	v := stat.Mean(stds, nil)
	penalty := v * 10
	if penalty > 100 {
		penalty = 100
	}
	return &analytics.ConsistencyMetrics{
		WeeklyVariance: v,
		StabilityScore: 100 - penalty,
	}
}

// improvement compares mean grades of the first and second semester halves,
// split at maxWeek/2 by week number.
func improvement(t *gradebook.Table) *analytics.ImprovementMetrics {
	mid := t.MaxWeek() / 2
	var first, second []float64
	for _, r := range t.Records {
		if !r.HasGrade() || r.Week == 0 {
			continue
		}
		if r.Week <= mid {
			first = append(first, r.Grade)
		} else {
			second = append(second, r.Grade)
		}
	}
	if len(first) == 0 || len(second) == 0 {
		return nil
	}
	firstAvg := stat.Mean(first, nil)
	secondAvg := stat.Mean(second, nil)
	imp := &analytics.ImprovementMetrics{
		FirstHalfAvg:  firstAvg,
		SecondHalfAvg: secondAvg,
		Improvement:   secondAvg - firstAvg,
	}
	if firstAvg != 0 {
		imp.ImprovementPercentage = (secondAvg - firstAvg) / firstAvg * 100
	}
	return imp
}

func weekGrades(t *gradebook.Table, week int) []float64 {
	var out []float64
	for _, r := range t.Records {
		if r.Week == week && r.HasGrade() {
			out = append(out, r.Grade)
		}
	}
	return out
}

// bandShares buckets grades into the (0,4], (4,6], (6,8], (8,10] bins and
// returns the share of records per bin in percent.
func bandShares(grades []float64) map[string]float64 {
	counts := map[string]int{}
	for _, g := range grades {
		switch {
		case g <= 4:
			counts["poor"]++
		case g <= 6:
			counts["satisfactory"]++
		case g <= 8:
			counts["good"]++
		default:
			counts["excellent"]++
		}
	}
	out := make(map[string]float64, 4)
	for _, band := range []string{"poor", "satisfactory", "good", "excellent"} {
		out[band] = float64(counts[band]) / float64(len(grades)) * 100
	}
	return out
}
