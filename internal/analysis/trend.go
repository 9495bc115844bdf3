package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"eduviz/domain/analytics"
	"eduviz/domain/gradebook"
)

const (
	// SemesterWeeks is the week the final grade is extrapolated to.
	SemesterWeeks = 16

	// trendEpsilon separates improving/declining from stable slopes.
	trendEpsilon = 0.05
)

// indexSlope fits a least-squares line over the weekly means using the point
// index (not the week number) as x and returns the slope. Needs at least two
// points.
func indexSlope(weekly []gradebook.WeeklyPoint) (float64, bool) {
	if len(weekly) < 2 {
		return 0, false
	}
	xs := make([]float64, len(weekly))
	ys := make([]float64, len(weekly))
	for i, p := range weekly {
		xs[i] = float64(i)
		ys[i] = p.Mean
	}
	_, beta := stat.LinearRegression(xs, ys, nil, false)
	return beta, true
}

// ComputeTrends builds the cohort-wide weekly series and its least-squares
// fit. Returns an empty summary when the table carries no week column or
// fewer than two distinct weeks.
func ComputeTrends(t *gradebook.Table) analytics.TrendSummary {
	if !t.HasWeek {
		return analytics.TrendSummary{}
	}
	weekly := t.WeeklyMeans()
	if len(weekly) < 2 {
		return analytics.TrendSummary{}
	}

	weeks := make([]int, len(weekly))
	means := make([]float64, len(weekly))
	xs := make([]float64, len(weekly))
	for i, p := range weekly {
		weeks[i] = p.Week
		means[i] = p.Mean
		xs[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(xs, means, nil, false)

	direction := "stable"
	switch {
	case beta > trendEpsilon:
		direction = "improving"
	case beta < -trendEpsilon:
		direction = "declining"
	}

	return analytics.TrendSummary{
		Weekly: &analytics.WeeklyTrend{Weeks: weeks, MeanGrades: means},
		Overall: &analytics.OverallTrend{
			Slope:              beta,
			Intercept:          alpha,
			Direction:          direction,
			PredictionNextWeek: alpha + beta*float64(len(weekly)),
		},
	}
}

// PredictFinalGrades extrapolates every (student, subject) pair with at least
// two distinct graded weeks to the end of a 16-week semester. The regression
// runs over actual week numbers, so gaps in the series stretch the fit the
// way they stretch the calendar. currentWeek caps the confidence denominator;
// pass 0 to derive it from the table (falling back to 10 when the table has
// no weeks). Results are ordered by student ID, then subject.
func PredictFinalGrades(t *gradebook.Table, currentWeek int) []analytics.GradePrediction {
	if !t.HasWeek {
		return nil
	}
	if currentWeek <= 0 {
		currentWeek = t.MaxWeek()
		if currentWeek <= 0 {
			currentWeek = 10
		}
	}

	out := []analytics.GradePrediction{}
	for _, studentID := range t.Students() {
		student := t.FilterStudent(studentID)
		for _, subject := range student.Subjects() {
			pair := student.FilterSubject(subject)
			weekly := pair.WeeklyMeans()
			if len(weekly) < 2 {
				continue
			}

			xs := make([]float64, len(weekly))
			ys := make([]float64, len(weekly))
			for i, p := range weekly {
				xs[i] = float64(p.Week)
				ys[i] = p.Mean
			}
			alpha, beta := stat.LinearRegression(xs, ys, nil, false)
			predicted := clamp(alpha+beta*SemesterWeeks, gradebook.MinGrade, gradebook.MaxGrade)

			trend := "stable"
			switch {
			case beta > trendEpsilon:
				trend = "improving"
			case beta < -trendEpsilon:
				trend = "declining"
			}

			confidence := float64(len(weekly)) / float64(currentWeek)
			if confidence > 1 {
				confidence = 1
			}

			p := analytics.GradePrediction{
				StudentID:            studentID,
				Subject:              subject,
				CurrentWeek:          currentWeek,
				WeeksAvailable:       len(weekly),
				CurrentAvgGrade:      stat.Mean(pair.Grades(), nil),
				PredictedFinalGrade:  predicted,
				PredictionConfidence: confidence,
				Trend:                trend,
				TrendSlope:           beta,
			}
			if t.HasGroup && len(pair.Records) > 0 {
				p.Group = pair.Records[0].Group
			}
			out = append(out, p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StudentID != out[j].StudentID {
			return out[i].StudentID < out[j].StudentID
		}
		return out[i].Subject < out[j].Subject
	})
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
