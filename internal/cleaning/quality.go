package cleaning

import (
	"math"

	"github.com/montanaflynn/stats"

	"eduviz/domain/gradebook"
)

// ColumnQuality reports missing values for one column.
type ColumnQuality struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// NumericSummary holds the basic statistics of one numeric column.
type NumericSummary struct {
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// QualityReport describes the shape and health of a raw table before
// cleaning. It is informational only; nothing here blocks the pipeline.
type QualityReport struct {
	TotalRecords      int                       `json:"total_records"`
	MissingValues     map[string]ColumnQuality  `json:"missing_values"`
	BasicStats        map[string]NumericSummary `json:"basic_stats"`
	UniqueStudents    int                       `json:"unique_students"`
	UniqueSubjects    int                       `json:"unique_subjects"`
	RecordsPerStudent float64                   `json:"records_per_student"`
}

// Validate inspects a table and reports per-column missing counts, numeric
// summaries, and population counts.
func Validate(t *gradebook.Table) QualityReport {
	n := t.Len()
	report := QualityReport{
		TotalRecords:   n,
		MissingValues:  make(map[string]ColumnQuality),
		BasicStats:     make(map[string]NumericSummary),
		UniqueStudents: len(t.Students()),
		UniqueSubjects: len(t.Subjects()),
	}
	if report.UniqueStudents > 0 {
		report.RecordsPerStudent = float64(n) / float64(report.UniqueStudents)
	}
	if n == 0 {
		return report
	}

	missing := map[string]int{
		gradebook.ColStudentID: 0,
		gradebook.ColSubject:   0,
		gradebook.ColGrade:     0,
	}
	var grades, attendance, weeks []float64
	for _, r := range t.Records {
		if r.StudentID == "" {
			missing[gradebook.ColStudentID]++
		}
		if r.Subject == "" {
			missing[gradebook.ColSubject]++
		}
		if !r.HasGrade() {
			missing[gradebook.ColGrade]++
		} else {
			grades = append(grades, r.Grade)
		}
		if t.HasGroup && r.Group == "" {
			missing[gradebook.ColGroup]++
		}
		if t.HasWeek {
			if r.Week <= 0 {
				missing[gradebook.ColWeek]++
			} else {
				weeks = append(weeks, float64(r.Week))
			}
		}
		if t.HasDate && !r.HasDate() {
			missing[gradebook.ColDate]++
		}
		if t.HasAttendance {
			if math.IsNaN(r.Attendance) {
				missing[gradebook.ColAttendance]++
			} else {
				attendance = append(attendance, r.Attendance)
			}
		}
	}

	for col, count := range missing {
		report.MissingValues[col] = ColumnQuality{
			Count:      count,
			Percentage: round2(float64(count) / float64(n) * 100),
		}
	}

	if s, ok := summarize(grades); ok {
		report.BasicStats[gradebook.ColGrade] = s
	}
	if s, ok := summarize(weeks); ok {
		report.BasicStats[gradebook.ColWeek] = s
	}
	if s, ok := summarize(attendance); ok {
		report.BasicStats[gradebook.ColAttendance] = s
	}

	return report
}

func summarize(values []float64) (NumericSummary, bool) {
	if len(values) == 0 {
		return NumericSummary{}, false
	}
	mean, _ := stats.Mean(values)
	std, _ := stats.StandardDeviationSample(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	median, _ := stats.Median(values)
	if len(values) < 2 {
		std = 0
	}
	return NumericSummary{Mean: mean, Std: std, Min: min, Max: max, Median: median}, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
