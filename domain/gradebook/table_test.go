package gradebook

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(student, subject string, grade float64, week int) GradeRecord {
	return GradeRecord{StudentID: student, Subject: subject, Grade: grade, Week: week}
}

// TestDistinctOrder checks that Students and Subjects keep first-appearance
// order.
func TestDistinctOrder(t *testing.T) {
	table := &Table{Records: []GradeRecord{
		rec("B", "Physics", 5, 1),
		rec("A", "Math", 6, 1),
		rec("B", "Math", 7, 2),
	}}

	assert.Equal(t, []string{"B", "A"}, table.Students())
	assert.Equal(t, []string{"Physics", "Math"}, table.Subjects())
}

// TestGradesSkipsMissing checks that NaN grades never reach the stats.
func TestGradesSkipsMissing(t *testing.T) {
	table := &Table{Records: []GradeRecord{
		rec("A", "Math", 6, 1),
		rec("B", "Math", math.NaN(), 1),
	}}

	assert.Equal(t, []float64{6}, table.Grades())
}

// TestWeeklyMeansSorted checks the weekly rollup is sorted by week and
// ignores weekless records.
func TestWeeklyMeansSorted(t *testing.T) {
	table := &Table{Records: []GradeRecord{
		rec("A", "Math", 8, 3),
		rec("A", "Math", 4, 1),
		rec("B", "Math", 6, 1),
		rec("C", "Math", 9, 0), // no week
	}}

	weekly := table.WeeklyMeans()
	require.Len(t, weekly, 2)
	assert.Equal(t, 1, weekly[0].Week)
	assert.InDelta(t, 5.0, weekly[0].Mean, 1e-9)
	assert.Equal(t, 3, weekly[1].Week)
	assert.InDelta(t, 8.0, weekly[1].Mean, 1e-9)
}

// TestCopyIsolation checks that mutating a copy leaves the source alone.
func TestCopyIsolation(t *testing.T) {
	table := &Table{Records: []GradeRecord{rec("A", "Math", 6, 1)}}

	cp := table.Copy()
	cp.Records[0].Grade = 1

	assert.InDelta(t, 6.0, table.Records[0].Grade, 1e-9)
}

// TestFilters checks subject/student/group filtering keeps column flags.
func TestFilters(t *testing.T) {
	table := &Table{
		HasGroup: true,
		Records: []GradeRecord{
			{StudentID: "A", Subject: "Math", Grade: 6, Group: "G1"},
			{StudentID: "B", Subject: "Math", Grade: 7, Group: "G2"},
			{StudentID: "A", Subject: "History", Grade: 8, Group: "G1"},
		},
	}

	ms := table.FilterSubject("Math")
	assert.Equal(t, 2, ms.Len())
	assert.True(t, ms.HasGroup)

	a := table.FilterStudent("A")
	assert.Equal(t, 2, a.Len())

	g1 := table.FilterGroup("G1")
	assert.Equal(t, 2, g1.Len())
}
