package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"eduviz/domain/analytics"
	"eduviz/domain/gradebook"
)

const (
	minCorrelationSubjects = 2  // pivot needs more than one subject
	minCorrelationStudents = 6  // and more than five pivoted students
	minSubjectsPerStudent  = 3  // students with fewer subjects are dropped
	correlationCutoff      = 0.3
	maxCorrelations        = 10
)

// SubjectCorrelations pivots the table into a student-by-subject matrix of
// mean grades and reports the subject pairs whose means correlate across
// students. Returns a diagnostic instead of results when the table is too
// small for the pivot to mean anything.
func SubjectCorrelations(t *gradebook.Table) ([]analytics.SubjectCorrelation, string) {
	subjects := t.Subjects()
	if len(subjects) < minCorrelationSubjects {
		return nil, "not enough subjects for correlation analysis"
	}

	// Mean grade per (student, subject); missing pairs stay absent so each
	// subject pair correlates over its complete cases only.
	pivot := make(map[string]map[string]float64)
	for _, studentID := range t.Students() {
		student := t.FilterStudent(studentID)
		row := make(map[string]float64)
		for _, subject := range student.Subjects() {
			grades := student.FilterSubject(subject).Grades()
			if len(grades) == 0 {
				continue
			}
			row[subject] = stat.Mean(grades, nil)
		}
		if len(row) >= minSubjectsPerStudent {
			pivot[studentID] = row
		}
	}
	if len(pivot) < minCorrelationStudents {
		return nil, "not enough students for correlation analysis"
	}

	students := make([]string, 0, len(pivot))
	for id := range pivot {
		students = append(students, id)
	}
	sort.Strings(students)

	out := []analytics.SubjectCorrelation{}
	for i := 0; i < len(subjects); i++ {
		for j := i + 1; j < len(subjects); j++ {
			var xs, ys []float64
			for _, id := range students {
				a, okA := pivot[id][subjects[i]]
				b, okB := pivot[id][subjects[j]]
				if okA && okB {
					xs = append(xs, a)
					ys = append(ys, b)
				}
			}
			if len(xs) < 2 {
				continue
			}
			r := stat.Correlation(xs, ys, nil)
			if math.IsNaN(r) || math.Abs(r) <= correlationCutoff {
				continue
			}
			out = append(out, analytics.SubjectCorrelation{
				Subject1:    subjects[i],
				Subject2:    subjects[j],
				Correlation: r,
				Strength:    correlationStrength(r),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Correlation) > math.Abs(out[j].Correlation)
	})
	if len(out) > maxCorrelations {
		out = out[:maxCorrelations]
	}
	return out, ""
}

func correlationStrength(r float64) string {
	switch abs := math.Abs(r); {
	case abs > 0.7:
		return "strong"
	case abs > 0.5:
		return "moderate"
	default:
		return "weak"
	}
}
