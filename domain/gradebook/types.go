package gradebook

import (
	"math"
	"time"
)

// Column names recognized in tabular input. student_id, subject and grade
// are mandatory; the rest enrich the analysis when present.
const (
	ColStudentID  = "student_id"
	ColSubject    = "subject"
	ColGrade      = "grade"
	ColGroup      = "group"
	ColWeek       = "week"
	ColDate       = "date"
	ColAttendance = "attendance"
)

// RequiredColumns lists the columns every input must carry.
var RequiredColumns = []string{ColStudentID, ColGrade, ColSubject}

// Grade domain after cleaning.
const (
	MinGrade = 1.0
	MaxGrade = 10.0
)

// GradeRecord is one row of the grade table. Missing numeric values are
// represented as NaN until the cleaning stage resolves them; Week is 0 when
// absent and Date is the zero time when absent.
type GradeRecord struct {
	StudentID  string    `json:"student_id"`
	Subject    string    `json:"subject"`
	Grade      float64   `json:"grade"`
	Group      string    `json:"group,omitempty"`
	Week       int       `json:"week,omitempty"`
	Date       time.Time `json:"date,omitempty"`
	Month      int       `json:"month,omitempty"`
	DayOfWeek  string    `json:"day_of_week,omitempty"`
	Attendance float64   `json:"attendance,omitempty"`
}

// HasGrade reports whether the grade value is present (non-NaN).
func (r GradeRecord) HasGrade() bool {
	return !math.IsNaN(r.Grade)
}

// HasDate reports whether the record carries a calendar date.
func (r GradeRecord) HasDate() bool {
	return !r.Date.IsZero()
}

// Table is an in-memory rectangular dataset of grade records. The column
// flags record which optional columns the source carried, so downstream
// stages can distinguish "attendance 1.0" from "no attendance column".
type Table struct {
	Records       []GradeRecord `json:"records"`
	HasGroup      bool          `json:"has_group"`
	HasWeek       bool          `json:"has_week"`
	HasDate       bool          `json:"has_date"`
	HasAttendance bool          `json:"has_attendance"`
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.Records) }

// IsEmpty reports whether the table has no records.
func (t *Table) IsEmpty() bool { return len(t.Records) == 0 }

// Copy returns a deep copy of the table. Stages operate on copies so no
// shared mutable state crosses stage boundaries.
func (t *Table) Copy() *Table {
	out := *t
	out.Records = make([]GradeRecord, len(t.Records))
	copy(out.Records, t.Records)
	return &out
}
