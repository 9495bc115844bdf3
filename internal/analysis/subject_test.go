package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduviz/domain/core"
	"eduviz/domain/gradebook"
)

// TestDetailedSubjectStats checks the deep per-subject breakdown on a small
// sample.
func TestDetailedSubjectStats(t *testing.T) {
	table := &gradebook.Table{
		HasGroup: true,
		Records: []gradebook.GradeRecord{
			{StudentID: "S1", Subject: "Math", Grade: 4, Group: "G-01"},
			{StudentID: "S2", Subject: "Math", Grade: 6, Group: "G-01"},
			{StudentID: "S3", Subject: "Math", Grade: 8, Group: "G-02"},
			{StudentID: "S4", Subject: "Math", Grade: 10, Group: "G-02"},
			{StudentID: "S1", Subject: "History", Grade: 5, Group: "G-01"},
		},
	}

	out, err := DetailedSubjectStats(table, "Math")
	require.NoError(t, err)

	assert.InDelta(t, 7.0, out.Basic.Mean, 1e-9)
	assert.InDelta(t, 7.0, out.Basic.Median, 1e-9)
	assert.InDelta(t, 4.0, out.Basic.Min, 1e-9)
	assert.InDelta(t, 10.0, out.Basic.Max, 1e-9)
	assert.InDelta(t, 6.0, out.Basic.Range, 1e-9)

	assert.Equal(t, 4, out.Counts.TotalStudents)
	assert.Equal(t, 4, out.Counts.TotalRecords)
	assert.Nil(t, out.Counts.UniqueWeeks)

	assert.Equal(t, 1, out.Distribution.ExcellentCount)    // 10
	assert.Equal(t, 1, out.Distribution.GoodCount)         // 8
	assert.Equal(t, 1, out.Distribution.SatisfactoryCount) // 6
	assert.Equal(t, 1, out.Distribution.FailCount)         // 4
	assert.InDelta(t, 75.0, out.Distribution.PassPercentage, 1e-9)

	require.Contains(t, out.ByGroup, "G-01")
	require.Contains(t, out.ByGroup, "G-02")
	assert.InDelta(t, 5.0, out.ByGroup["G-01"].Mean, 1e-9)
	assert.InDelta(t, 9.0, out.ByGroup["G-02"].Mean, 1e-9)
	assert.Nil(t, out.Trend)
}

// TestDetailedSubjectStatsTrend checks the weekly section when the week
// column exists.
func TestDetailedSubjectStatsTrend(t *testing.T) {
	table := &gradebook.Table{
		HasWeek: true,
		Records: []gradebook.GradeRecord{
			weekRecord("S1", "Math", 5, 1),
			weekRecord("S1", "Math", 6, 2),
			weekRecord("S1", "Math", 7, 3),
		},
	}

	out, err := DetailedSubjectStats(table, "Math")
	require.NoError(t, err)

	require.NotNil(t, out.Counts.UniqueWeeks)
	assert.Equal(t, 3, *out.Counts.UniqueWeeks)
	require.NotNil(t, out.Trend)
	require.NotNil(t, out.Trend.TrendSlope)
	assert.InDelta(t, 1.0, *out.Trend.TrendSlope, 1e-9)
	assert.InDelta(t, 6.0, out.Trend.WeeklyMeans[2], 1e-9)
}

// TestDetailedSubjectStatsUnknown checks the not-found path.
func TestDetailedSubjectStatsUnknown(t *testing.T) {
	table := &gradebook.Table{Records: []gradebook.GradeRecord{
		record("S1", "Math", 5),
	}}

	_, err := DetailedSubjectStats(table, "Alchemy")
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err))
}
