// Package report assembles analysis results into report documents and
// renders them to JSON and HTML.
package report

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"eduviz/domain/analytics"
	"eduviz/domain/core"
	"eduviz/domain/gradebook"
	"eduviz/internal"
	"eduviz/internal/analysis"
)

const (
	topSubjects     = 5
	topStudents     = 5
	riskDetailLimit = 10
)

// Generator assembles reports from cleaned tables.
type Generator struct {
	opts   analysis.Options
	logger *internal.Logger
}

// NewGenerator builds a Generator; a nil logger falls back to the default.
func NewGenerator(opts analysis.Options, logger *internal.Logger) *Generator {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Generator{opts: opts, logger: logger}
}

// Generate assembles a report of the given type over a cleaned table.
// dataSource labels the report metadata, it does not affect the numbers.
func (g *Generator) Generate(t *gradebook.Table, reportType analytics.ReportType, dataSource string) (*analytics.Report, error) {
	grades := t.Grades()
	if len(grades) == 0 {
		return nil, core.ErrEmptyTable
	}

	mean, _ := stats.Mean(grades)
	median, _ := stats.Median(grades)

	riskStudents := analysis.RiskStudents(t, g.opts.RiskThreshold, g.opts.MinRecords)
	totalStudents := len(t.Students())

	report := &analytics.Report{
		Metadata: analytics.ReportMetadata{
			ReportID:    core.ReportID(core.NewID()),
			GeneratedAt: core.Now(),
			ReportType:  reportType,
			DataSource:  dataSource,
			Period:      period(t),
		},
		Summary: analytics.ReportSummary{
			TotalStudents:     totalStudents,
			TotalSubjects:     len(t.Subjects()),
			AverageGrade:      mean,
			MedianGrade:       median,
			PassRate:          passRate(grades),
			RiskStudentsCount: len(riskStudents),
		},
	}
	if totalStudents > 0 {
		report.Summary.RiskPercentage = float64(len(riskStudents)) / float64(totalStudents) * 100
	}

	report.Details = analytics.ReportDetails{
		TopSubjects:  topSubjectHighlights(t),
		TopStudents:  topStudentHighlights(t),
		RiskAnalysis: limitRisk(riskStudents),
	}
	report.Recommendations = buildRecommendations(t, report)

	g.logger.Info("generated %s report: %d students, %d subjects, %d at risk",
		reportType, report.Summary.TotalStudents, report.Summary.TotalSubjects, report.Summary.RiskStudentsCount)
	return report, nil
}

func period(t *gradebook.Table) *analytics.ReportPeriod {
	if !t.HasDate {
		return nil
	}
	start, end, ok := t.DateRange()
	if !ok {
		return nil
	}
	return &analytics.ReportPeriod{
		Start: start.Format("2006-01-02"),
		End:   end.Format("2006-01-02"),
	}
}

func passRate(grades []float64) float64 {
	n := 0
	for _, g := range grades {
		if g >= analytics.ReportPassMark {
			n++
		}
	}
	return float64(n) / float64(len(grades)) * 100
}

func topSubjectHighlights(t *gradebook.Table) []analytics.SubjectHighlight {
	var out []analytics.SubjectHighlight
	for _, subject := range t.Subjects() {
		sub := t.FilterSubject(subject)
		grades := sub.Grades()
		if len(grades) == 0 {
			continue
		}
		mean, _ := stats.Mean(grades)
		out = append(out, analytics.SubjectHighlight{
			Subject:      subject,
			AverageGrade: mean,
			StudentCount: len(sub.Students()),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AverageGrade > out[j].AverageGrade })
	if len(out) > topSubjects {
		out = out[:topSubjects]
	}
	return out
}

func topStudentHighlights(t *gradebook.Table) []analytics.StudentHighlight {
	var out []analytics.StudentHighlight
	for _, id := range t.Students() {
		student := t.FilterStudent(id)
		grades := student.Grades()
		if len(grades) == 0 {
			continue
		}
		mean, _ := stats.Mean(grades)
		out = append(out, analytics.StudentHighlight{
			StudentID:    id,
			AverageGrade: mean,
			SubjectCount: len(student.Subjects()),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AverageGrade > out[j].AverageGrade })
	if len(out) > topStudents {
		out = out[:topStudents]
	}
	return out
}

func limitRisk(riskStudents []analytics.RiskStudent) []analytics.RiskStudent {
	if len(riskStudents) > riskDetailLimit {
		return riskStudents[:riskDetailLimit]
	}
	return riskStudents
}

// buildRecommendations derives prioritized action items from the report
// numbers: risk mitigation when any student is at risk, curriculum review
// when a subject averages below the pass mark, attendance measures when mean
// attendance drops below 0.8.
func buildRecommendations(t *gradebook.Table, r *analytics.Report) []analytics.Recommendation {
	var out []analytics.Recommendation

	if r.Summary.RiskStudentsCount > 0 {
		priority := "medium"
		if r.Summary.RiskPercentage > 20 {
			priority = "high"
		}
		out = append(out, analytics.Recommendation{
			Type:        "risk_mitigation",
			Priority:    priority,
			Description: "Students performing below the pass mark need individual attention",
			Action:      "Arrange consultations and individual study plans for at-risk students",
		})
	}

	for _, subject := range t.Subjects() {
		grades := t.FilterSubject(subject).Grades()
		if len(grades) == 0 {
			continue
		}
		mean, _ := stats.Mean(grades)
		if mean < analytics.ReportPassMark {
			out = append(out, analytics.Recommendation{
				Type:        "curriculum",
				Priority:    "medium",
				Description: "Subject \"" + subject + "\" averages below the pass mark",
				Action:      "Review the teaching methodology and materials for " + subject,
			})
		}
	}

	if t.HasAttendance {
		if rate, ok := attendanceRate(t); ok && rate < 0.8 {
			out = append(out, analytics.Recommendation{
				Type:        "attendance",
				Priority:    "medium",
				Description: "Average attendance is below 80%",
				Action:      "Investigate attendance barriers and introduce attendance tracking",
			})
		}
	}

	return out
}

func attendanceRate(t *gradebook.Table) (float64, bool) {
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
		return 0, false
	}
	return sum / float64(n), true
}
