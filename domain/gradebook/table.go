package gradebook

import (
	"sort"
	"time"
)

// Subjects returns the distinct subjects in first-appearance order.
func (t *Table) Subjects() []string {
	return t.distinct(func(r GradeRecord) string { return r.Subject })
}

// Students returns the distinct student IDs in first-appearance order.
func (t *Table) Students() []string {
	return t.distinct(func(r GradeRecord) string { return r.StudentID })
}

// Groups returns the distinct groups in first-appearance order. Empty group
// values are skipped.
func (t *Table) Groups() []string {
	return t.distinct(func(r GradeRecord) string { return r.Group })
}

func (t *Table) distinct(key func(GradeRecord) string) []string {
	seen := make(map[string]bool, len(t.Records))
	var out []string
	for _, r := range t.Records {
		k := key(r)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// Grades returns all present grade values in record order.
func (t *Table) Grades() []float64 {
	out := make([]float64, 0, len(t.Records))
	for _, r := range t.Records {
		if r.HasGrade() {
			out = append(out, r.Grade)
		}
	}
	return out
}

// FilterSubject returns the records for one subject. The returned table
// shares no record storage with the receiver.
func (t *Table) FilterSubject(subject string) *Table {
	return t.filter(func(r GradeRecord) bool { return r.Subject == subject })
}

// FilterStudent returns the records for one student.
func (t *Table) FilterStudent(studentID string) *Table {
	return t.filter(func(r GradeRecord) bool { return r.StudentID == studentID })
}

// FilterGroup returns the records for one group.
func (t *Table) FilterGroup(group string) *Table {
	return t.filter(func(r GradeRecord) bool { return r.Group == group })
}

func (t *Table) filter(keep func(GradeRecord) bool) *Table {
	out := &Table{
		HasGroup:      t.HasGroup,
		HasWeek:       t.HasWeek,
		HasDate:       t.HasDate,
		HasAttendance: t.HasAttendance,
	}
	for _, r := range t.Records {
		if keep(r) {
			out.Records = append(out.Records, r)
		}
	}
	return out
}

// WeeklyPoint is the mean grade observed in one week.
type WeeklyPoint struct {
	Week int     `json:"week"`
	Mean float64 `json:"mean"`
}

// WeeklyMeans groups the present grades by week and returns the per-week
// mean, sorted by week number. Records without a week are ignored.
func (t *Table) WeeklyMeans() []WeeklyPoint {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, r := range t.Records {
		if r.Week <= 0 || !r.HasGrade() {
			continue
		}
		sums[r.Week] += r.Grade
		counts[r.Week]++
	}
	weeks := make([]int, 0, len(sums))
	for w := range sums {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)
	out := make([]WeeklyPoint, 0, len(weeks))
	for _, w := range weeks {
		out = append(out, WeeklyPoint{Week: w, Mean: sums[w] / float64(counts[w])})
	}
	return out
}

// DistinctWeeks returns the number of distinct weeks with data.
func (t *Table) DistinctWeeks() int {
	seen := make(map[int]bool)
	for _, r := range t.Records {
		if r.Week > 0 {
			seen[r.Week] = true
		}
	}
	return len(seen)
}

// MaxWeek returns the highest week number present, or 0 when the table
// carries no week data.
func (t *Table) MaxWeek() int {
	max := 0
	for _, r := range t.Records {
		if r.Week > max {
			max = r.Week
		}
	}
	return max
}

// DateRange returns the earliest and latest record dates. ok is false when
// no record carries a date.
func (t *Table) DateRange() (min, max time.Time, ok bool) {
	for _, r := range t.Records {
		if !r.HasDate() {
			continue
		}
		if !ok || r.Date.Before(min) {
			min = r.Date
		}
		if !ok || r.Date.After(max) {
			max = r.Date
		}
		ok = true
	}
	return min, max, ok
}
