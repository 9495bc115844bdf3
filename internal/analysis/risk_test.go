package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduviz/domain/gradebook"
)

// TestRiskStudentsThreshold checks the simple variant: the record filter,
// the threshold cut and the high/medium level split.
func TestRiskStudentsThreshold(t *testing.T) {
	table := &gradebook.Table{Records: []gradebook.GradeRecord{
		// S1: mean 3.0, three records -> high
		record("S1", "Math", 3), record("S1", "Math", 3), record("S1", "History", 3),
		// S2: mean 4.5, three records -> medium
		record("S2", "Math", 4), record("S2", "Math", 5), record("S2", "History", 4.5),
		// S3: mean 8 -> not at risk
		record("S3", "Math", 8), record("S3", "Math", 8), record("S3", "History", 8),
		// S4: mean 2 but only one record -> filtered out
		record("S4", "Math", 2),
	}}

	out := RiskStudents(table, 5.0, 3)

	require.Len(t, out, 2)
	assert.Equal(t, "S1", out[0].StudentID)
	assert.Equal(t, "high", out[0].RiskLevel)
	assert.Equal(t, "S2", out[1].StudentID)
	assert.Equal(t, "medium", out[1].RiskLevel)
}

// TestRiskStudentsTrendClassification checks the index-based slope
// classification on the weekly means of a risk student.
func TestRiskStudentsTrendClassification(t *testing.T) {
	table := &gradebook.Table{
		HasWeek: true,
		Records: []gradebook.GradeRecord{
			weekRecord("S1", "Math", 2, 1),
			weekRecord("S1", "Math", 3, 2),
			weekRecord("S1", "Math", 4, 3),
		},
	}

	out := RiskStudents(table, 5.0, 3)

	require.Len(t, out, 1)
	assert.Equal(t, "positive", out[0].Trend)
	require.NotNil(t, out[0].TrendSlope)
	assert.InDelta(t, 1.0, *out[0].TrendSlope, 1e-9)
}

// TestIdentifyAtRiskDecliningScenario checks that a student with grades
// 8,8,8,8,4,4 over six weeks triggers both the declining-trend and
// sharp-drop factors.
func TestIdentifyAtRiskDecliningScenario(t *testing.T) {
	grades := []float64{8, 8, 8, 8, 4, 4}
	table := &gradebook.Table{HasWeek: true}
	for i, g := range grades {
		table.Records = append(table.Records, weekRecord("S1", "Math", g, i+1))
	}

	out := IdentifyAtRiskStudents(table, 5.0, 3, 1.0)

	require.Len(t, out, 1)
	s := out[0]
	assert.True(t, hasFactorPrefix(s.RiskFactors, FactorDecline), "factors: %v", s.RiskFactors)
	assert.True(t, hasFactorPrefix(s.RiskFactors, FactorSharpDrop), "factors: %v", s.RiskFactors)
	assert.Equal(t, len(s.RiskFactors), s.RiskScore)
	assert.NotEmpty(t, s.Recommendations)
}

// TestIdentifyAtRiskOrdering checks the (score desc, mean asc) sort.
func TestIdentifyAtRiskOrdering(t *testing.T) {
	table := &gradebook.Table{Records: []gradebook.GradeRecord{
		// S1: low average only -> score 1
		record("S1", "Math", 4), record("S1", "Math", 4),
		// S2: low average and high variability -> score 2
		record("S2", "Math", 1), record("S2", "Math", 7),
		// S3: low average only, lower mean than S1 -> score 1, before S1
		record("S3", "Math", 3), record("S3", "Math", 3),
	}}

	out := IdentifyAtRiskStudents(table, 5.0, 3, 1.0)

	require.Len(t, out, 3)
	assert.Equal(t, "S2", out[0].StudentID)
	assert.Equal(t, "S3", out[1].StudentID)
	assert.Equal(t, "S1", out[2].StudentID)
}

// TestIdentifyAtRiskExcludesHealthy checks that students triggering no
// factor never appear.
func TestIdentifyAtRiskExcludesHealthy(t *testing.T) {
	table := &gradebook.Table{Records: []gradebook.GradeRecord{
		record("S1", "Math", 8), record("S1", "Math", 8.5),
	}}

	out := IdentifyAtRiskStudents(table, 5.0, 3, 1.0)
	assert.Empty(t, out)
}

// TestGenerateRecommendationsCapAndDedup checks the five-entry cap and the
// first-occurrence deduplication.
func TestGenerateRecommendationsCapAndDedup(t *testing.T) {
	factors := []string{
		FactorLowAverage + " (3.50)",
		FactorVariability + " (std=2.80)",
		FactorDecline + " (-0.40/week)",
		FactorSharpDrop + " (8.0 -> 4.0)",
		FactorAttendance + " (55.0%)",
		FactorLowAverage + " (3.50)", // duplicate factor
	}

	out := GenerateRecommendations(factors)

	assert.LessOrEqual(t, len(out), 5)
	seen := map[string]bool{}
	for _, rec := range out {
		assert.False(t, seen[rec], "duplicate recommendation %q", rec)
		seen[rec] = true
	}
	// The first triggered factor's remediation leads the list.
	assert.Equal(t, recommendationTable[0].actions[0], out[0])
}

// TestGenerateRecommendationsUnknownFactor checks that unknown factor
// strings contribute nothing.
func TestGenerateRecommendationsUnknownFactor(t *testing.T) {
	assert.Empty(t, GenerateRecommendations([]string{"something else entirely"}))
}

func hasFactorPrefix(factors []string, prefix string) bool {
	for _, f := range factors {
		if strings.HasPrefix(f, prefix) {
			return true
		}
	}
	return false
}
