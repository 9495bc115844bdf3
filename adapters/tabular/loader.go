// Package tabular loads and exports grade tables in CSV, XLSX and JSON
// form.
package tabular

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"eduviz/domain/core"
	"eduviz/domain/gradebook"
	"eduviz/internal"
	apperrors "eduviz/internal/errors"
)

// dateLayouts are tried in order when parsing the date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02.01.2006",
}

// Loader reads grade tables from tabular files.
type Loader struct {
	logger *internal.Logger
}

// NewLoader builds a Loader; a nil logger falls back to the default.
func NewLoader(logger *internal.Logger) *Loader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Loader{logger: logger}
}

// Load reads the file at path, dispatching on its extension. The table is
// raw: no cleaning has run, missing numerics are NaN.
func (l *Loader) Load(path string) (*gradebook.Table, error) {
	var (
		header []string
		rows   [][]string
		err    error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		header, rows, err = readCSV(path)
	case ".xlsx":
		header, rows, err = readXLSX(path)
	case ".json":
		return l.loadJSON(path)
	default:
		return nil, fmt.Errorf("%w: input %s", core.ErrUnsupported, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	t, err := buildTable(header, rows)
	if err != nil {
		return nil, err
	}
	l.logger.Info("loaded %d records from %s", t.Len(), path)
	return t, nil
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, apperrors.IOError("opening "+path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, apperrors.DataFormat("parsing CSV " + path + ": " + err.Error())
	}
	if len(all) == 0 {
		return nil, nil, apperrors.EmptyTable("no rows in " + path)
	}
	return all[0], all[1:], nil
}

func readXLSX(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, apperrors.IOError("opening "+path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, apperrors.EmptyTable("no sheets in " + path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, apperrors.DataFormat("reading sheet " + sheets[0] + ": " + err.Error())
	}
	if len(rows) == 0 {
		return nil, nil, apperrors.EmptyTable("no rows in " + path)
	}
	return rows[0], rows[1:], nil
}

// loadJSON reads an array of record objects. Keys follow the column names.
func (l *Loader) loadJSON(path string) (*gradebook.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.IOError("reading "+path, err)
	}
	var raw []map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.DataFormat("parsing JSON " + path + ": " + err.Error())
	}
	if len(raw) == 0 {
		return nil, apperrors.EmptyTable("no records in " + path)
	}

	// Reconstruct a header from the union of keys so column validation and
	// row parsing match the CSV path.
	seen := map[string]bool{}
	var header []string
	for _, obj := range raw {
		for k := range obj {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}
	rows := make([][]string, len(raw))
	for i, obj := range raw {
		row := make([]string, len(header))
		for j, col := range header {
			if v, ok := obj[col]; ok && v != nil {
				switch x := v.(type) {
				case string:
					row[j] = x
				case float64:
					row[j] = strconv.FormatFloat(x, 'f', -1, 64)
				case bool:
					row[j] = strconv.FormatBool(x)
				}
			}
		}
		rows[i] = row
	}

	t, err := buildTable(header, rows)
	if err != nil {
		return nil, err
	}
	l.logger.Info("loaded %d records from %s", t.Len(), path)
	return t, nil
}

// buildTable validates the header against the required columns and parses
// rows into records. Unparseable numerics become NaN (week 0, zero date) and
// are left for the cleaning stage.
func buildTable(header []string, rows [][]string) (*gradebook.Table, error) {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}

	var missing []string
	for _, col := range gradebook.RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, core.NewMissingColumnsError(missing)
	}

	_, hasGroup := idx[gradebook.ColGroup]
	_, hasWeek := idx[gradebook.ColWeek]
	_, hasDate := idx[gradebook.ColDate]
	_, hasAttendance := idx[gradebook.ColAttendance]

	t := &gradebook.Table{
		HasGroup:      hasGroup,
		HasWeek:       hasWeek,
		HasDate:       hasDate,
		HasAttendance: hasAttendance,
	}

	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	for _, row := range rows {
		rec := gradebook.GradeRecord{
			StudentID:  cell(row, gradebook.ColStudentID),
			Subject:    cell(row, gradebook.ColSubject),
			Grade:      parseFloatOrNaN(cell(row, gradebook.ColGrade)),
			Attendance: math.NaN(),
		}
		if hasGroup {
			rec.Group = cell(row, gradebook.ColGroup)
		}
		if hasWeek {
			if n, err := strconv.Atoi(cell(row, gradebook.ColWeek)); err == nil {
				rec.Week = n
			}
		}
		if hasDate {
			rec.Date = parseDate(cell(row, gradebook.ColDate))
		}
		if hasAttendance {
			rec.Attendance = parseFloatOrNaN(cell(row, gradebook.ColAttendance))
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

func parseFloatOrNaN(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d
		}
	}
	return time.Time{}
}
