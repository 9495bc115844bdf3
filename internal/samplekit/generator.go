// Package samplekit generates deterministic sample grade data for demos and
// tests.
package samplekit

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"eduviz/domain/gradebook"
)

// Config shapes the generated dataset.
type Config struct {
	Students int
	Weeks    int
	Subjects []string
	Groups   int
	Seed     int64
}

// DefaultConfig matches the demo dataset shipped with the tool.
func DefaultConfig() Config {
	return Config{
		Students: 100,
		Weeks:    10,
		Subjects: []string{"Mathematics", "Physics", "Computer Science", "English", "History"},
		Groups:   4,
		Seed:     42,
	}
}

// Share of students scaled into distinct performance profiles.
const (
	lowPerformerShare  = 0.05
	highPerformerShare = 0.10
	lowPerformerScale  = 0.7
	highPerformerScale = 1.3
)

// semesterStart anchors generated dates; a Monday.
var semesterStart = time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC)

// Generate builds a cleaned-shape table: every record carries a grade,
// group, week, date and attendance. The same config always yields the same
// table.
func Generate(cfg Config) *gradebook.Table {
	rng := rand.New(rand.NewSource(cfg.Seed))

	t := &gradebook.Table{
		HasGroup:      cfg.Groups > 0,
		HasWeek:       true,
		HasDate:       true,
		HasAttendance: true,
	}

	lowCutoff := int(float64(cfg.Students) * lowPerformerShare)
	highCutoff := lowCutoff + int(float64(cfg.Students)*highPerformerShare)

	for s := 0; s < cfg.Students; s++ {
		studentID := fmt.Sprintf("STU%04d", s+1)
		group := ""
		if cfg.Groups > 0 {
			group = fmt.Sprintf("G-%02d", s%cfg.Groups+1)
		}

		scale := 1.0
		switch {
		case s < lowCutoff:
			scale = lowPerformerScale
		case s < highCutoff:
			scale = highPerformerScale
		}

		for week := 1; week <= cfg.Weeks; week++ {
			date := semesterStart.AddDate(0, 0, (week-1)*7+rng.Intn(5))
			for _, subject := range cfg.Subjects {
				grade := sampleGrade(rng, scale)
				attendance := 1.0
				if rng.Float64() >= 0.9 {
					attendance = 0.5
				}
				t.Records = append(t.Records, gradebook.GradeRecord{
					StudentID:  studentID,
					Subject:    subject,
					Grade:      grade,
					Group:      group,
					Week:       week,
					Date:       date,
					Attendance: attendance,
				})
			}
		}
	}
	return t
}

// sampleGrade draws N(7.0, 1.5) plus U(-1.5, 1.5) noise, applies the
// performance scale, clamps to the grade range and rounds to 0.1.
func sampleGrade(rng *rand.Rand, scale float64) float64 {
	g := rng.NormFloat64()*1.5 + 7.0
	g += rng.Float64()*3.0 - 1.5
	g *= scale
	if g < gradebook.MinGrade {
		g = gradebook.MinGrade
	}
	if g > gradebook.MaxGrade {
		g = gradebook.MaxGrade
	}
	return math.Round(g*10) / 10
}
