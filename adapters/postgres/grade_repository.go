// Package postgres loads grade tables from a PostgreSQL grades table.
package postgres

import (
	"context"
	"database/sql"
	"math"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"eduviz/domain/gradebook"
	"eduviz/internal"
	apperrors "eduviz/internal/errors"
)

// GradeRepository reads grade records from the grades table.
type GradeRepository struct {
	db     *sqlx.DB
	logger *internal.Logger
}

// Open connects to the database at databaseURL and verifies the connection.
func Open(ctx context.Context, databaseURL string, logger *internal.Logger) (*GradeRepository, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		return nil, apperrors.DatabaseError("connecting to postgres", err)
	}
	return &GradeRepository{db: db, logger: logger}, nil
}

// Close releases the connection pool.
func (r *GradeRepository) Close() error {
	return r.db.Close()
}

type gradeRow struct {
	StudentID  string          `db:"student_id"`
	Subject    string          `db:"subject"`
	Grade      sql.NullFloat64 `db:"grade"`
	Group      sql.NullString  `db:"student_group"`
	Week       sql.NullInt64   `db:"week"`
	Date       sql.NullTime    `db:"graded_at"`
	Attendance sql.NullFloat64 `db:"attendance"`
}

const loadQuery = `
SELECT student_id, subject, grade, student_group, week, graded_at, attendance
FROM grades
ORDER BY graded_at, student_id`

// Load reads every grade row into a raw table. NULL numerics become NaN and
// are left for the cleaning stage, matching the file loaders.
func (r *GradeRepository) Load(ctx context.Context) (*gradebook.Table, error) {
	var rows []gradeRow
	if err := r.db.SelectContext(ctx, &rows, loadQuery); err != nil {
		return nil, apperrors.DatabaseError("loading grades", err)
	}
	if len(rows) == 0 {
		return nil, apperrors.EmptyTable("grades table is empty")
	}

	t := &gradebook.Table{
		HasGroup:      true,
		HasWeek:       true,
		HasDate:       true,
		HasAttendance: true,
	}
	for _, row := range rows {
		rec := gradebook.GradeRecord{
			StudentID:  row.StudentID,
			Subject:    row.Subject,
			Grade:      math.NaN(),
			Attendance: math.NaN(),
		}
		if row.Grade.Valid {
			rec.Grade = row.Grade.Float64
		}
		if row.Group.Valid {
			rec.Group = row.Group.String
		}
		if row.Week.Valid {
			rec.Week = int(row.Week.Int64)
		}
		if row.Date.Valid {
			rec.Date = row.Date.Time
		}
		if row.Attendance.Valid {
			rec.Attendance = row.Attendance.Float64
		}
		t.Records = append(t.Records, rec)
	}
	r.logger.Info("loaded %d records from postgres", len(rows))
	return t, nil
}
