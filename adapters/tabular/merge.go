package tabular

import (
	"sort"

	"eduviz/domain/core"
	"eduviz/domain/gradebook"
)

// StudentInfo is one row of a student roster used to enrich grade records.
type StudentInfo struct {
	StudentID string
	Group     string
}

// Merge left-joins the grade table with a student roster (attaching groups)
// and an optional subject alias map (normalizing subject names). Records
// without a roster match keep their existing values. The merged table is
// sorted by date when the date column is present.
func Merge(t *gradebook.Table, roster []StudentInfo, subjectAliases map[string]string) *gradebook.Table {
	groups := make(map[string]string, len(roster))
	for _, s := range roster {
		id, err := core.ParseStudentID(s.StudentID)
		if err != nil {
			continue // blank roster rows can never match a record
		}
		groups[id.String()] = s.Group
	}

	out := t.Copy()
	for i := range out.Records {
		r := &out.Records[i]
		if g, ok := groups[r.StudentID]; ok && g != "" {
			r.Group = g
			out.HasGroup = true
		}
		if alias, ok := subjectAliases[r.Subject]; ok && alias != "" {
			r.Subject = alias
		}
	}

	if out.HasDate {
		sort.SliceStable(out.Records, func(i, j int) bool {
			return out.Records[i].Date.Before(out.Records[j].Date)
		})
	}
	return out
}
