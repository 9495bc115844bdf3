package cleaning

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"eduviz/domain/gradebook"
	"eduviz/internal"
)

// Stats counts the data-quality issues the cleaning stage recovered from.
// Issues are logged, never raised.
type Stats struct {
	DuplicatesRemoved   int `json:"duplicates_removed"`
	GradesImputed       int `json:"grades_imputed"`
	AttendanceDefaulted int `json:"attendance_defaulted"`
	RowsDropped         int `json:"rows_dropped"`
	OutOfRangeRemoved   int `json:"out_of_range_removed"`
}

// Cleaner normalizes a raw grade table into the cleaned invariant: every
// record has a non-empty student ID and subject and a grade in [1,10].
type Cleaner struct {
	logger *internal.Logger
}

// NewCleaner creates a cleaning stage with the given logger.
func NewCleaner(logger *internal.Logger) *Cleaner {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Cleaner{logger: logger}
}

// Clean runs the full cleaning sequence on a copy of the input table:
// deduplicate, impute missing grades with the per-subject median, default
// missing attendance to 1.0, drop rows still missing required fields, drop
// out-of-range grades, and derive week/month/day-of-week from dates.
func (c *Cleaner) Clean(raw *gradebook.Table) (*gradebook.Table, Stats) {
	t := raw.Copy()
	var st Stats

	st.DuplicatesRemoved = c.dropDuplicates(t)
	st.GradesImputed = c.imputeGrades(t)
	if t.HasAttendance {
		st.AttendanceDefaulted = c.defaultAttendance(t)
	}
	st.RowsDropped = c.dropIncomplete(t)
	st.OutOfRangeRemoved = c.dropOutOfRange(t)
	if t.HasDate {
		c.deriveDateFields(t)
	}

	if st.DuplicatesRemoved > 0 {
		c.logger.Info("cleaning: removed %d duplicate records", st.DuplicatesRemoved)
	}
	if st.GradesImputed > 0 || st.AttendanceDefaulted > 0 {
		c.logger.Info("cleaning: imputed %d grades, defaulted %d attendance values",
			st.GradesImputed, st.AttendanceDefaulted)
	}
	if st.RowsDropped > 0 || st.OutOfRangeRemoved > 0 {
		c.logger.Info("cleaning: dropped %d incomplete and %d out-of-range records",
			st.RowsDropped, st.OutOfRangeRemoved)
	}
	c.logger.Debug("cleaning: %d records remain", t.Len())

	return t, st
}

// dropDuplicates removes rows identical across every column. NaN values
// compare equal for deduplication purposes.
func (c *Cleaner) dropDuplicates(t *gradebook.Table) int {
	seen := make(map[string]bool, len(t.Records))
	kept := t.Records[:0]
	removed := 0
	for _, r := range t.Records {
		key := dedupeKey(r)
		if seen[key] {
			removed++
			continue
		}
		seen[key] = true
		kept = append(kept, r)
	}
	t.Records = kept
	return removed
}

func dedupeKey(r gradebook.GradeRecord) string {
	var b strings.Builder
	b.WriteString(r.StudentID)
	b.WriteByte('\x1f')
	b.WriteString(r.Subject)
	b.WriteByte('\x1f')
	b.WriteString(strconv.FormatFloat(r.Grade, 'g', -1, 64))
	b.WriteByte('\x1f')
	b.WriteString(r.Group)
	b.WriteByte('\x1f')
	b.WriteString(strconv.Itoa(r.Week))
	b.WriteByte('\x1f')
	if r.HasDate() {
		b.WriteString(r.Date.Format("2006-01-02"))
	}
	b.WriteByte('\x1f')
	b.WriteString(strconv.FormatFloat(r.Attendance, 'g', -1, 64))
	return b.String()
}

// imputeGrades replaces missing grades with the median grade of the same
// subject. Subjects with no observed grades stay missing and fall out in
// dropIncomplete.
func (c *Cleaner) imputeGrades(t *gradebook.Table) int {
	medians := make(map[string]float64)
	for _, subject := range t.Subjects() {
		grades := t.FilterSubject(subject).Grades()
		if len(grades) == 0 {
			continue
		}
		if m, err := stats.Median(grades); err == nil {
			medians[subject] = m
		}
	}

	imputed := 0
	for i := range t.Records {
		if t.Records[i].HasGrade() {
			continue
		}
		if m, ok := medians[t.Records[i].Subject]; ok {
			t.Records[i].Grade = m
			imputed++
		}
	}
	return imputed
}

func (c *Cleaner) defaultAttendance(t *gradebook.Table) int {
	defaulted := 0
	for i := range t.Records {
		if math.IsNaN(t.Records[i].Attendance) {
			t.Records[i].Attendance = 1.0
			defaulted++
		}
	}
	return defaulted
}

func (c *Cleaner) dropIncomplete(t *gradebook.Table) int {
	kept := t.Records[:0]
	dropped := 0
	for _, r := range t.Records {
		if r.StudentID == "" || r.Subject == "" || !r.HasGrade() {
			dropped++
			continue
		}
		kept = append(kept, r)
	}
	t.Records = kept
	return dropped
}

func (c *Cleaner) dropOutOfRange(t *gradebook.Table) int {
	kept := t.Records[:0]
	removed := 0
	for _, r := range t.Records {
		if r.Grade < gradebook.MinGrade || r.Grade > gradebook.MaxGrade {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	t.Records = kept
	return removed
}

// deriveDateFields derives week (ISO week number), month and day-of-week
// from the record date, overwriting any week value the source carried.
func (c *Cleaner) deriveDateFields(t *gradebook.Table) {
	for i := range t.Records {
		r := &t.Records[i]
		if !r.HasDate() {
			continue
		}
		_, week := r.Date.ISOWeek()
		r.Week = week
		r.Month = int(r.Date.Month())
		r.DayOfWeek = r.Date.Weekday().String()
	}
	t.HasWeek = true
}

// String renders the quality counters for log output.
func (s Stats) String() string {
	return fmt.Sprintf("duplicates=%d imputed=%d attendance_defaulted=%d dropped=%d out_of_range=%d",
		s.DuplicatesRemoved, s.GradesImputed, s.AttendanceDefaulted, s.RowsDropped, s.OutOfRangeRemoved)
}
