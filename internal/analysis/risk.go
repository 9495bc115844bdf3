package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"eduviz/domain/analytics"
	"eduviz/domain/gradebook"
)

// Risk factor prefixes. The recommendation table is keyed on these, so the
// human-readable factor strings must keep them as prefixes.
const (
	FactorLowAverage  = "low average grade"
	FactorVariability = "high grade variability"
	FactorDecline     = "declining performance trend"
	FactorSharpDrop   = "sharp performance drop"
	FactorAttendance  = "low attendance"
)

// Multi-factor predicate thresholds.
const (
	variabilityStdThreshold = 2.5
	declineSlopeThreshold   = -0.2
	lowAttendanceThreshold  = 0.7
	maxRecommendations      = 5
)

// RiskStudents is the simple threshold-only variant: students with at least
// minRecords grades whose mean falls below threshold. Output keeps student
// first-appearance order (no secondary sort), matching its historical shape.
func RiskStudents(t *gradebook.Table, threshold float64, minRecords int) []analytics.RiskStudent {
	out := []analytics.RiskStudent{}
	for _, agg := range studentAggregates(t, minRecords) {
		if agg.AvgGrade >= threshold {
			continue
		}
		rs := analytics.RiskStudent{
			StudentID:    agg.StudentID,
			AvgGrade:     agg.AvgGrade,
			GradeCount:   agg.GradeCount,
			GradeStd:     agg.GradeStd,
			SubjectCount: agg.SubjectCount,
			RiskLevel:    "medium",
		}
		if agg.AvgGrade < analytics.HighRiskGrade {
			rs.RiskLevel = "high"
		}
		student := t.FilterStudent(agg.StudentID)
		if t.HasGroup {
			rs.Groups = student.Groups()
		}
		if t.HasWeek {
			if slope, ok := indexSlope(student.WeeklyMeans()); ok {
				rs.TrendSlope = &slope
				switch {
				case slope > 0.1:
					rs.Trend = "positive"
				case slope < -0.1:
					rs.Trend = "negative"
				default:
					rs.Trend = "stable"
				}
			}
		}
		out = append(out, rs)
	}
	return out
}

// IdentifyAtRiskStudents is the multi-factor variant. Every student is
// evaluated against up to five independent predicates; students triggering
// none are excluded. Output is sorted by risk score descending, mean grade
// ascending.
func IdentifyAtRiskStudents(t *gradebook.Table, threshold float64, minWeeks int, declineThreshold float64) []analytics.AtRiskStudent {
	out := []analytics.AtRiskStudent{}
	for _, agg := range studentAggregates(t, 0) {
		student := t.FilterStudent(agg.StudentID)

		var factors []string
		if agg.AvgGrade < threshold {
			factors = append(factors, fmt.Sprintf("%s (%.2f)", FactorLowAverage, agg.AvgGrade))
		}
		if agg.GradeStd > variabilityStdThreshold {
			factors = append(factors, fmt.Sprintf("%s (std=%.2f)", FactorVariability, agg.GradeStd))
		}

		if t.HasWeek && student.DistinctWeeks() >= minWeeks {
			weekly := student.WeeklyMeans()
			if slope, ok := indexSlope(weekly); ok && slope < declineSlopeThreshold {
				factors = append(factors, fmt.Sprintf("%s (%.2f/week)", FactorDecline, slope))
			}
			first, second := splitHalves(weekly)
			if first-second > declineThreshold {
				factors = append(factors, fmt.Sprintf("%s (%.1f -> %.1f)", FactorSharpDrop, first, second))
			}
		}

		if t.HasAttendance && hasAttendanceValues(student) {
			rate := meanAttendance(student)
			if rate < lowAttendanceThreshold {
				factors = append(factors, fmt.Sprintf("%s (%.1f%%)", FactorAttendance, rate*100))
			}
		}

		if len(factors) == 0 {
			continue
		}

		ar := analytics.AtRiskStudent{
			StudentID:       agg.StudentID,
			AvgGrade:        agg.AvgGrade,
			GradeStd:        agg.GradeStd,
			SubjectCount:    agg.SubjectCount,
			TotalGrades:     agg.GradeCount,
			RiskFactors:     factors,
			RiskScore:       len(factors),
			Recommendations: GenerateRecommendations(factors),
		}
		if t.HasGroup && len(student.Records) > 0 {
			ar.Group = student.Records[0].Group
		}
		out = append(out, ar)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RiskScore != out[j].RiskScore {
			return out[i].RiskScore > out[j].RiskScore
		}
		return out[i].AvgGrade < out[j].AvgGrade
	})
	return out
}

func hasAttendanceValues(t *gradebook.Table) bool {
	for _, r := range t.Records {
		if !math.IsNaN(r.Attendance) {
			return true
		}
	}
	return false
}

// splitHalves splits the weekly means into first and second halves by index
// (first half gets len/2 points, second half the rest) and returns each
// half's mean.
func splitHalves(weekly []gradebook.WeeklyPoint) (first, second float64) {
	mid := len(weekly) / 2
	firstSum, secondSum := 0.0, 0.0
	for i, p := range weekly {
		if i < mid {
			firstSum += p.Mean
		} else {
			secondSum += p.Mean
		}
	}
	if mid > 0 {
		first = firstSum / float64(mid)
	}
	if rest := len(weekly) - mid; rest > 0 {
		second = secondSum / float64(rest)
	}
	return first, second
}

// recommendationTable maps each factor prefix to its remediation list.
var recommendationTable = []struct {
	prefix  string
	actions []string
}{
	{FactorLowAverage, []string{
		"Seek help from the course instructor",
		"Build an individual study plan",
		"Increase preparation time before classes",
	}},
	{FactorVariability, []string{
		"Review the causes of fluctuating results",
		"Develop a consistent preparation routine",
		"Pay attention to time management",
	}},
	{FactorDecline, []string{
		"Diagnose the causes of declining motivation",
		"Set short-term learning goals",
		"Increase the frequency of self-assessment",
	}},
	{FactorSharpDrop, []string{
		"Contact the group curator immediately",
		"Schedule a one-on-one consultation with the instructor",
		"Reassess the current study load",
	}},
	{FactorAttendance, []string{
		"Review the reasons for missed classes",
		"Build a class attendance schedule",
		"Set up attendance reminders",
	}},
}

// GenerateRecommendations concatenates the remediation lists of every
// triggered factor, de-duplicated preserving first occurrence and truncated
// to five entries.
func GenerateRecommendations(riskFactors []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, factor := range riskFactors {
		for _, entry := range recommendationTable {
			if !strings.Contains(factor, entry.prefix) {
				continue
			}
			for _, action := range entry.actions {
				if seen[action] {
					continue
				}
				seen[action] = true
				out = append(out, action)
			}
		}
	}
	if len(out) > maxRecommendations {
		out = out[:maxRecommendations]
	}
	return out
}
