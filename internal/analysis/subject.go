package analysis

import (
	"github.com/montanaflynn/stats"

	"eduviz/domain/analytics"
	"eduviz/domain/core"
	"eduviz/domain/gradebook"
)

// DetailedSubjectStats computes the deep per-subject breakdown: descriptive
// statistics, grade bands, percentiles, per-group slices and the weekly
// trend. Returns core.ErrSubjectNotFound when the subject has no graded
// records.
func DetailedSubjectStats(t *gradebook.Table, subject string) (*analytics.DetailedSubjectStats, error) {
	sub := t.FilterSubject(subject)
	grades := sub.Grades()
	if len(grades) == 0 {
		return nil, core.ErrSubjectNotFound
	}

	data := stats.Float64Data(grades)
	mean, _ := data.Mean()
	median, _ := data.Median()
	min, _ := data.Min()
	max, _ := data.Max()
	q1, _ := data.Percentile(25)
	q3, _ := data.Percentile(75)

	out := &analytics.DetailedSubjectStats{
		Basic: analytics.BasicStats{
			Mean:   mean,
			Median: median,
			Std:    sampleStd(grades),
			Min:    min,
			Max:    max,
			Range:  max - min,
			IQR:    q3 - q1,
		},
		Counts: analytics.SubjectCounts{
			TotalStudents: len(sub.Students()),
			TotalRecords:  len(grades),
		},
		Distribution: gradeBands(grades),
		Percentiles:  percentiles(data),
	}

	if t.HasWeek {
		weeks := sub.DistinctWeeks()
		out.Counts.UniqueWeeks = &weeks
		out.Trend = subjectTrend(sub)
	}

	if t.HasGroup {
		out.ByGroup = make(map[string]analytics.GroupBreakdown)
		for _, group := range sub.Groups() {
			gGrades := sub.FilterGroup(group).Grades()
			if len(gGrades) == 0 {
				continue
			}
			gData := stats.Float64Data(gGrades)
			gMean, _ := gData.Mean()
			out.ByGroup[group] = analytics.GroupBreakdown{
				Mean:     gMean,
				Count:    len(gGrades),
				Std:      sampleStd(gGrades),
				PassRate: shareAtLeast(gGrades, analytics.ReportPassMark) * 100,
			}
		}
	}

	return out, nil
}

func gradeBands(grades []float64) analytics.GradeBands {
	var bands analytics.GradeBands
	for _, g := range grades {
		switch {
		case g >= analytics.ExcellentThreshold:
			bands.ExcellentCount++
		case g >= 7:
			bands.GoodCount++
		case g >= analytics.ReportPassMark:
			bands.SatisfactoryCount++
		default:
			bands.FailCount++
		}
	}
	n := float64(len(grades))
	bands.ExcellentPercentage = float64(bands.ExcellentCount) / n * 100
	bands.PassPercentage = float64(len(grades)-bands.FailCount) / n * 100
	return bands
}

func percentiles(data stats.Float64Data) analytics.Percentiles {
	p10, _ := data.Percentile(10)
	p25, _ := data.Percentile(25)
	p50, _ := data.Percentile(50)
	p75, _ := data.Percentile(75)
	p90, _ := data.Percentile(90)
	return analytics.Percentiles{P10: p10, P25: p25, P50: p50, P75: p75, P90: p90}
}

func subjectTrend(sub *gradebook.Table) *analytics.SubjectTrend {
	weekly := sub.WeeklyMeans()
	trend := &analytics.SubjectTrend{
		WeeklyMeans: make(map[int]float64, len(weekly)),
	}
	means := make([]float64, len(weekly))
	for i, p := range weekly {
		trend.WeeklyMeans[p.Week] = p.Mean
		means[i] = p.Mean
	}
	if slope, ok := indexSlope(weekly); ok {
		trend.TrendSlope = &slope
	}
	trend.Volatility = sampleStd(means)
	return trend
}
