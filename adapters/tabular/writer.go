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

	"github.com/xuri/excelize/v2"

	"eduviz/domain/core"
	"eduviz/domain/gradebook"
	apperrors "eduviz/internal/errors"
)

// Export writes a table to path, dispatching on its extension. Column order
// follows the canonical column list; optional columns the table never
// carried are omitted.
func Export(t *gradebook.Table, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return exportCSV(t, path)
	case ".xlsx":
		return exportXLSX(t, path)
	case ".json":
		return exportJSON(t, path)
	}
	return fmt.Errorf("%w: output %s", core.ErrUnsupported, filepath.Ext(path))
}

func columns(t *gradebook.Table) []string {
	cols := []string{gradebook.ColStudentID, gradebook.ColSubject, gradebook.ColGrade}
	if t.HasGroup {
		cols = append(cols, gradebook.ColGroup)
	}
	if t.HasWeek {
		cols = append(cols, gradebook.ColWeek)
	}
	if t.HasDate {
		cols = append(cols, gradebook.ColDate)
	}
	if t.HasAttendance {
		cols = append(cols, gradebook.ColAttendance)
	}
	return cols
}

func cellValue(r gradebook.GradeRecord, col string) string {
	switch col {
	case gradebook.ColStudentID:
		return r.StudentID
	case gradebook.ColSubject:
		return r.Subject
	case gradebook.ColGrade:
		return formatFloat(r.Grade)
	case gradebook.ColGroup:
		return r.Group
	case gradebook.ColWeek:
		if r.Week == 0 {
			return ""
		}
		return strconv.Itoa(r.Week)
	case gradebook.ColDate:
		if !r.HasDate() {
			return ""
		}
		return r.Date.Format("2006-01-02")
	case gradebook.ColAttendance:
		return formatFloat(r.Attendance)
	}
	return ""
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func exportCSV(t *gradebook.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.IOError("creating "+path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	cols := columns(t)
	if err := w.Write(cols); err != nil {
		return apperrors.IOError("writing header", err)
	}
	row := make([]string, len(cols))
	for _, r := range t.Records {
		for i, col := range cols {
			row[i] = cellValue(r, col)
		}
		if err := w.Write(row); err != nil {
			return apperrors.IOError("writing row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return apperrors.IOError("flushing "+path, err)
	}
	return nil
}

func exportXLSX(t *gradebook.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	cols := columns(t)
	header := make([]interface{}, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return apperrors.IOError("writing header", err)
	}
	for n, r := range t.Records {
		row := make([]interface{}, len(cols))
		for i, col := range cols {
			row[i] = cellValue(r, col)
		}
		cell, _ := excelize.CoordinatesToCellName(1, n+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return apperrors.IOError("writing row", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return apperrors.IOError("saving "+path, err)
	}
	return nil
}

func exportJSON(t *gradebook.Table, path string) error {
	out := make([]map[string]string, len(t.Records))
	cols := columns(t)
	for i, r := range t.Records {
		obj := make(map[string]string, len(cols))
		for _, col := range cols {
			obj[col] = cellValue(r, col)
		}
		out[i] = obj
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, "marshaling records")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperrors.IOError("writing "+path, err)
	}
	return nil
}
