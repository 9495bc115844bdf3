package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduviz/domain/core"
	"eduviz/domain/gradebook"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoadCSV checks the happy path: optional columns detected, values
// parsed, missing numerics as NaN.
func TestLoadCSV(t *testing.T) {
	path := writeTemp(t, "grades.csv",
		"student_id,subject,grade,group,week,date,attendance\n"+
			"S1,Math,7.5,G-01,1,2024-09-02,1.0\n"+
			"S2,Math,,G-01,1,2024-09-02,0.5\n")

	table, err := NewLoader(nil).Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	assert.True(t, table.HasGroup)
	assert.True(t, table.HasWeek)
	assert.True(t, table.HasDate)
	assert.True(t, table.HasAttendance)

	assert.Equal(t, "S1", table.Records[0].StudentID)
	assert.InDelta(t, 7.5, table.Records[0].Grade, 1e-9)
	assert.Equal(t, 1, table.Records[0].Week)
	assert.Equal(t, 2024, table.Records[0].Date.Year())

	assert.False(t, table.Records[1].HasGrade())
}

// TestLoadCSVMissingColumns checks that a header without the required
// columns is an input-format error naming them.
func TestLoadCSVMissingColumns(t *testing.T) {
	path := writeTemp(t, "bad.csv", "student_id,score\nS1,7\n")

	_, err := NewLoader(nil).Load(path)
	require.Error(t, err)
	assert.True(t, core.IsInputFormatError(err))
	assert.ErrorIs(t, err, core.ErrMissingColumn)
	assert.Contains(t, err.Error(), "grade")
	assert.Contains(t, err.Error(), "subject")
}

// TestLoadJSON checks the JSON record-array path.
func TestLoadJSON(t *testing.T) {
	path := writeTemp(t, "grades.json",
		`[{"student_id":"S1","subject":"Math","grade":8},{"student_id":"S2","subject":"Math","grade":6.5}]`)

	table, err := NewLoader(nil).Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	assert.False(t, table.HasGroup)
	assert.InDelta(t, 6.5, table.Records[1].Grade, 1e-9)
}

// TestLoadUnsupportedFormat checks that the extension dispatch fails with
// the unsupported-format sentinel on both the load and export paths.
func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeTemp(t, "grades.txt", "whatever")
	_, err := NewLoader(nil).Load(path)
	assert.ErrorIs(t, err, core.ErrUnsupported)
	assert.True(t, core.IsInputFormatError(err))

	err = Export(&gradebook.Table{}, filepath.Join(t.TempDir(), "out.txt"))
	assert.ErrorIs(t, err, core.ErrUnsupported)
}

// TestExportCSVRoundTrip checks that an exported table loads back with the
// same shape.
func TestExportCSVRoundTrip(t *testing.T) {
	src := writeTemp(t, "grades.csv",
		"student_id,subject,grade,week\nS1,Math,7.5,3\nS2,History,5,4\n")
	table, err := NewLoader(nil).Load(src)
	require.NoError(t, err)

	dst := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, Export(table, dst))

	back, err := NewLoader(nil).Load(dst)
	require.NoError(t, err)
	require.Equal(t, table.Len(), back.Len())
	for i := range table.Records {
		assert.Equal(t, table.Records[i].StudentID, back.Records[i].StudentID)
		assert.InDelta(t, table.Records[i].Grade, back.Records[i].Grade, 1e-9)
		assert.Equal(t, table.Records[i].Week, back.Records[i].Week)
	}
}

// TestMergeRoster checks the left join with a student roster and the
// subject alias normalization.
func TestMergeRoster(t *testing.T) {
	table := &gradebook.Table{Records: []gradebook.GradeRecord{
		{StudentID: "S1", Subject: "Maths", Grade: 7},
		{StudentID: "S2", Subject: "History", Grade: 6},
	}}

	merged := Merge(table,
		[]StudentInfo{{StudentID: "S1", Group: "G-01"}},
		map[string]string{"Maths": "Math"})

	assert.True(t, merged.HasGroup)
	assert.Equal(t, "G-01", merged.Records[0].Group)
	assert.Equal(t, "Math", merged.Records[0].Subject)
	assert.Empty(t, merged.Records[1].Group)
	// Input untouched.
	assert.Equal(t, "Maths", table.Records[0].Subject)
}

// TestMergeSkipsBlankRosterIDs checks that roster rows without a usable
// student ID are ignored instead of attaching their group to empty keys.
func TestMergeSkipsBlankRosterIDs(t *testing.T) {
	table := &gradebook.Table{Records: []gradebook.GradeRecord{
		{StudentID: "S1", Subject: "Math", Grade: 7},
	}}

	merged := Merge(table, []StudentInfo{
		{StudentID: "   ", Group: "G-99"},
		{StudentID: "S1", Group: "G-01"},
	}, nil)

	assert.True(t, merged.HasGroup)
	assert.Equal(t, "G-01", merged.Records[0].Group)
}
