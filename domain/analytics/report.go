package analytics

import (
	"eduviz/domain/core"
)

// ReportType selects the reporting period/detail level.
type ReportType string

const (
	ReportWeekly   ReportType = "weekly"
	ReportMonthly  ReportType = "monthly"
	ReportDetailed ReportType = "detailed"
	ReportFull     ReportType = "full"
)

// ValidReportType reports whether s names a known report type.
func ValidReportType(s string) bool {
	switch ReportType(s) {
	case ReportWeekly, ReportMonthly, ReportDetailed, ReportFull:
		return true
	}
	return false
}

// ReportPeriod is the date range the report covers.
type ReportPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ReportMetadata describes how and when the report was produced.
type ReportMetadata struct {
	ReportID    core.ReportID  `json:"report_id"`
	GeneratedAt core.Timestamp `json:"generated_at"`
	ReportType  ReportType     `json:"report_type"`
	DataSource  string         `json:"data_source"`
	Period      *ReportPeriod  `json:"period"`
}

// ReportSummary holds the six scalar KPIs of a report.
type ReportSummary struct {
	TotalStudents     int     `json:"total_students"`
	TotalSubjects     int     `json:"total_subjects"`
	AverageGrade      float64 `json:"average_grade"`
	MedianGrade       float64 `json:"median_grade"`
	PassRate          float64 `json:"pass_rate"` // >= 5, report context
	RiskStudentsCount int     `json:"risk_students_count"`
	RiskPercentage    float64 `json:"risk_percentage"`
}

// SubjectHighlight is one row of the top-subjects detail table.
type SubjectHighlight struct {
	Subject      string  `json:"subject"`
	AverageGrade float64 `json:"average_grade"`
	StudentCount int     `json:"student_count"`
}

// StudentHighlight is one row of the top-students detail table.
type StudentHighlight struct {
	StudentID    string  `json:"student_id"`
	AverageGrade float64 `json:"average_grade"`
	SubjectCount int     `json:"subject_count"`
}

// ReportDetails carries the ranked breakdowns of a report.
type ReportDetails struct {
	TopSubjects  []SubjectHighlight `json:"top_subjects"`
	TopStudents  []StudentHighlight `json:"top_students"`
	RiskAnalysis []RiskStudent      `json:"risk_analysis"`
}

// Recommendation is one prioritized action item.
type Recommendation struct {
	Type        string `json:"type"`     // "risk_mitigation", "curriculum", "attendance"
	Priority    string `json:"priority"` // "high", "medium", "low"
	Description string `json:"description"`
	Action      string `json:"action"`
}

// Report is the assembled document handed to the HTML/JSON renderers.
type Report struct {
	Metadata        ReportMetadata   `json:"metadata"`
	Summary         ReportSummary    `json:"summary"`
	Details         ReportDetails    `json:"details"`
	Recommendations []Recommendation `json:"recommendations"`
}
