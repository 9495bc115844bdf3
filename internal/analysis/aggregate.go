package analysis

import (
	"math"
	"strconv"

	"github.com/montanaflynn/stats"

	"eduviz/domain/analytics"
	"eduviz/domain/core"
	"eduviz/domain/gradebook"
)

// Overall computes the table-wide statistics. An empty table is an error:
// the minimum viable aggregation needs at least one record.
func Overall(t *gradebook.Table) (analytics.OverallStats, error) {
	grades := t.Grades()
	if len(grades) == 0 {
		return analytics.OverallStats{}, core.ErrEmptyTable
	}

	mean, _ := stats.Mean(grades)
	median, _ := stats.Median(grades)
	min, _ := stats.Min(grades)
	max, _ := stats.Max(grades)

	out := analytics.OverallStats{
		TotalRecords:      t.Len(),
		TotalStudents:     len(t.Students()),
		TotalSubjects:     len(t.Subjects()),
		MeanGrade:         mean,
		MedianGrade:       median,
		StdGrade:          sampleStd(grades),
		MinGrade:          min,
		MaxGrade:          max,
		GradeDistribution: GradeHistogram(grades),
	}
	if t.HasGroup {
		out.TotalGroups = len(t.Groups())
	}
	return out, nil
}

// BySubject computes per-subject statistics with pass rate (>= 4) and
// excellence rate (>= 9) as percentages.
func BySubject(t *gradebook.Table) map[string]analytics.SubjectStats {
	out := make(map[string]analytics.SubjectStats)
	for _, subject := range t.Subjects() {
		sub := t.FilterSubject(subject)
		grades := sub.Grades()
		if len(grades) == 0 {
			continue
		}
		mean, _ := stats.Mean(grades)
		median, _ := stats.Median(grades)
		out[subject] = analytics.SubjectStats{
			MeanGrade:         mean,
			MedianGrade:       median,
			StdGrade:          sampleStd(grades),
			StudentCount:      len(sub.Students()),
			RecordCount:       sub.Len(),
			PassRate:          shareAtLeast(grades, analytics.PassThreshold) * 100,
			ExcellentRate:     shareAtLeast(grades, analytics.ExcellentThreshold) * 100,
			GradeDistribution: GradeHistogram(grades),
		}
	}
	return out
}

// ByGroup computes per-group statistics. Attendance rate is nil when the
// source carried no attendance column.
func ByGroup(t *gradebook.Table) map[string]analytics.GroupStats {
	out := make(map[string]analytics.GroupStats)
	for _, group := range t.Groups() {
		grp := t.FilterGroup(group)
		grades := grp.Grades()
		if len(grades) == 0 {
			continue
		}
		mean, _ := stats.Mean(grades)
		median, _ := stats.Median(grades)
		gs := analytics.GroupStats{
			MeanGrade:    mean,
			MedianGrade:  median,
			StudentCount: len(grp.Students()),
			SubjectCount: len(grp.Subjects()),
			PassRate:     shareAtLeast(grades, analytics.PassThreshold) * 100,
		}
		if t.HasAttendance {
			rate := meanAttendance(grp) * 100
			gs.AttendanceRate = &rate
		}
		out[group] = gs
	}
	return out
}

// GradeHistogram maps each distinct grade value to its frequency. Keys are
// the shortest exact decimal rendering of the grade ("7.5", "8").
func GradeHistogram(grades []float64) map[string]int {
	hist := make(map[string]int)
	for _, g := range grades {
		hist[strconv.FormatFloat(g, 'f', -1, 64)]++
	}
	return hist
}

// studentAggregate is the per-student rollup shared by risk scoring and
// clustering: mean grade, record count, grade spread and subject breadth.
type studentAggregate struct {
	StudentID    string
	AvgGrade     float64
	GradeCount   int
	GradeStd     float64
	SubjectCount int
}

// studentAggregates rolls the table up per student in first-appearance
// order, keeping only students with at least minRecords grades. Pass
// minRecords <= 1 to keep everyone.
func studentAggregates(t *gradebook.Table, minRecords int) []studentAggregate {
	var out []studentAggregate
	for _, id := range t.Students() {
		st := t.FilterStudent(id)
		grades := st.Grades()
		if len(grades) < minRecords {
			continue
		}
		mean, _ := stats.Mean(grades)
		out = append(out, studentAggregate{
			StudentID:    id,
			AvgGrade:     mean,
			GradeCount:   len(grades),
			GradeStd:     sampleStd(grades),
			SubjectCount: len(st.Subjects()),
		})
	}
	return out
}

// sampleStd is the n-1 standard deviation. A single observation has no
// defined spread; 0 is the documented placeholder for that case.
func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	std, err := stats.StandardDeviationSample(values)
	if err != nil {
		return 0
	}
	return std
}

// shareAtLeast returns the fraction of values >= threshold.
func shareAtLeast(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	n := 0
	for _, v := range values {
		if v >= threshold {
			n++
		}
	}
	return float64(n) / float64(len(values))
}

// shareBelow returns the fraction of values < threshold.
func shareBelow(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return 1 - shareAtLeast(values, threshold)
}

func meanAttendance(t *gradebook.Table) float64 {
	var sum float64
	n := 0
	for _, r := range t.Records {
		if math.IsNaN(r.Attendance) {
			continue
		}
		sum += r.Attendance
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
