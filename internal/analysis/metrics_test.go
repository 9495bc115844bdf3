package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduviz/domain/core"
	"eduviz/domain/gradebook"
)

// TestComputeLearningMetricsOverall checks the cohort efficiency block and
// the band distribution.
func TestComputeLearningMetricsOverall(t *testing.T) {
	table := &gradebook.Table{Records: []gradebook.GradeRecord{
		record("S1", "Math", 3),  // poor, fail
		record("S2", "Math", 5),  // satisfactory
		record("S3", "Math", 7),  // good
		record("S4", "Math", 10), // excellent
	}}

	m, err := ComputeLearningMetrics(table)
	require.NoError(t, err)

	assert.InDelta(t, 6.25, m.OverallEfficiency.AverageGrade, 1e-9)
	assert.InDelta(t, 75.0, m.OverallEfficiency.PassRate, 1e-9)
	assert.InDelta(t, 25.0, m.OverallEfficiency.ExcellenceRate, 1e-9)
	assert.InDelta(t, 25.0, m.OverallEfficiency.FailureRate, 1e-9)
	assert.InDelta(t, 4.0, m.OverallEfficiency.StudentSubjectRatio, 1e-9)

	assert.InDelta(t, 25.0, m.GradeDistribution["poor"], 1e-9)
	assert.InDelta(t, 25.0, m.GradeDistribution["satisfactory"], 1e-9)
	assert.InDelta(t, 25.0, m.GradeDistribution["good"], 1e-9)
	assert.InDelta(t, 25.0, m.GradeDistribution["excellent"], 1e-9)

	require.Contains(t, m.SubjectEfficiency, "Math")
	assert.Equal(t, 4, m.SubjectEfficiency["Math"].StudentCount)

	// No week column: the week-dependent sections stay nil.
	assert.Nil(t, m.Consistency)
	assert.Nil(t, m.Improvement)
}

// TestComputeLearningMetricsImprovement checks the first/second half split
// at maxWeek/2.
func TestComputeLearningMetricsImprovement(t *testing.T) {
	table := &gradebook.Table{HasWeek: true}
	// Weeks 1-2 average 4, weeks 3-4 average 8.
	for week := 1; week <= 2; week++ {
		table.Records = append(table.Records, weekRecord("S1", "Math", 4, week))
	}
	for week := 3; week <= 4; week++ {
		table.Records = append(table.Records, weekRecord("S1", "Math", 8, week))
	}

	m, err := ComputeLearningMetrics(table)
	require.NoError(t, err)

	require.NotNil(t, m.Improvement)
	assert.InDelta(t, 4.0, m.Improvement.FirstHalfAvg, 1e-9)
	assert.InDelta(t, 8.0, m.Improvement.SecondHalfAvg, 1e-9)
	assert.InDelta(t, 4.0, m.Improvement.Improvement, 1e-9)
	assert.InDelta(t, 100.0, m.Improvement.ImprovementPercentage, 1e-9)

	require.NotNil(t, m.Consistency)
	// Single grade per week: every weekly std is 0, perfect stability.
	assert.InDelta(t, 100.0, m.Consistency.StabilityScore, 1e-9)
}

// TestComputeLearningMetricsEmpty checks that no grades is an error.
func TestComputeLearningMetricsEmpty(t *testing.T) {
	_, err := ComputeLearningMetrics(&gradebook.Table{})
	assert.ErrorIs(t, err, core.ErrEmptyTable)
}
