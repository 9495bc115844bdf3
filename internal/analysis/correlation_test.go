package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduviz/domain/gradebook"
)

// correlatedTable builds n students each taking three subjects, where the
// Physics grade tracks the Math grade exactly and Art is constant.
func correlatedTable(n int) *gradebook.Table {
	table := &gradebook.Table{}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("S%02d", i)
		mathGrade := 3 + float64(i%7)
		table.Records = append(table.Records,
			record(id, "Math", mathGrade),
			record(id, "Physics", mathGrade+1),
			record(id, "Art", 7),
		)
	}
	return table
}

// TestSubjectCorrelationsPerfectPair checks that a perfectly tracking
// subject pair comes back strong with r of 1.
func TestSubjectCorrelationsPerfectPair(t *testing.T) {
	out, diag := SubjectCorrelations(correlatedTable(12))

	require.Empty(t, diag)
	require.NotEmpty(t, out)

	top := out[0]
	assert.Equal(t, "Math", top.Subject1)
	assert.Equal(t, "Physics", top.Subject2)
	assert.InDelta(t, 1.0, top.Correlation, 1e-9)
	assert.Equal(t, "strong", top.Strength)
}

// TestSubjectCorrelationsTooFewStudents checks the population guard.
func TestSubjectCorrelationsTooFewStudents(t *testing.T) {
	out, diag := SubjectCorrelations(correlatedTable(4))
	assert.Nil(t, out)
	assert.Equal(t, "not enough students for correlation analysis", diag)
}

// TestSubjectCorrelationsTooFewSubjects checks the subject guard.
func TestSubjectCorrelationsTooFewSubjects(t *testing.T) {
	table := &gradebook.Table{Records: []gradebook.GradeRecord{
		record("S1", "Math", 5),
		record("S2", "Math", 7),
	}}
	out, diag := SubjectCorrelations(table)
	assert.Nil(t, out)
	assert.Equal(t, "not enough subjects for correlation analysis", diag)
}

// TestSubjectCorrelationsDropsSparseStudents checks that students with
// fewer than three subjects do not enter the pivot.
func TestSubjectCorrelationsDropsSparseStudents(t *testing.T) {
	table := correlatedTable(5)
	// A sixth student with only one subject must not lift the population
	// over the guard.
	table.Records = append(table.Records, record("SPARSE", "Math", 9))

	out, diag := SubjectCorrelations(table)
	assert.Nil(t, out)
	assert.Equal(t, "not enough students for correlation analysis", diag)
}
