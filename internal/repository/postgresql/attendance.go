package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `a.id, a.user_id, a.company_id, a.date,
		a.check_in_time, a.check_in_lat, a.check_in_lng,
		a.check_out_time, a.check_out_lat, a.check_out_lng,
		a.location_logs, a.working_hours, a.status, a.created_at, a.updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row, withUser bool) (attendance.Attendance, error) {
	var a attendance.Attendance
	var checkOutLat, checkOutLng *float64

	dest := []interface{}{
		&a.ID,
		&a.UserID,
		&a.CompanyID,
		&a.Date,
		&a.CheckInTime,
		&a.CheckInLocation.Lat,
		&a.CheckInLocation.Lng,
		&a.CheckOutTime,
		&checkOutLat,
		&checkOutLng,
		&a.LocationLogs,
		&a.WorkingHours,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	}
	if withUser {
		dest = append(dest, &a.UserName, &a.UserEmail)
	}

	if err := row.Scan(dest...); err != nil {
		return attendance.Attendance{}, err
	}
	if checkOutLat != nil && checkOutLng != nil {
		a.CheckOutLocation = &attendance.Location{Lat: *checkOutLat, Lng: *checkOutLng}
	}
	return a, nil
}

// Create implements attendance.AttendanceRepository.
// The (user_id, date) unique constraint makes concurrent check-ins race safely.
func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	logs := a.LocationLogs
	if logs == nil {
		logs = []attendance.LocationPoint{}
	}

	query := `
		INSERT INTO attendances AS a (
			id, user_id, company_id, date, check_in_time, check_in_lat, check_in_lng, location_logs, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9)
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		id.String(),
		a.UserID,
		a.CompanyID,
		a.Date,
		a.CheckInTime,
		a.CheckInLocation.Lat,
		a.CheckInLocation.Lng,
		logs,
		a.Status,
	), false)
	if err != nil {
		if isUniqueViolation(err, constraintAttendancesUserDate) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances a WHERE a.user_id = $1 AND a.date = $2`

	found, err := scanAttendance(q.QueryRow(ctx, query, userID, date), false)
	if err != nil {
		if isNoRows(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return found, nil
}

// AppendLocation implements attendance.AttendanceRepository.
func (r *attendanceRepository) AppendLocation(ctx context.Context, id string, point attendance.LocationPoint) ([]attendance.LocationPoint, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET location_logs = location_logs || $2::jsonb, updated_at = NOW()
		WHERE id = $1 AND check_out_time IS NULL
		RETURNING location_logs
	`

	var logs []attendance.LocationPoint
	err := q.QueryRow(ctx, query, id, []attendance.LocationPoint{point}).Scan(&logs)
	if err != nil {
		if isNoRows(err) {
			return nil, attendance.ErrAlreadyCheckedOut
		}
		return nil, fmt.Errorf("failed to append location: %w", err)
	}
	return logs, nil
}

// CheckOut implements attendance.AttendanceRepository.
func (r *attendanceRepository) CheckOut(ctx context.Context, id string, point attendance.LocationPoint, workingHours float64) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances AS a
		SET check_out_time = $2,
			check_out_lat = $3,
			check_out_lng = $4,
			location_logs = a.location_logs || $5::jsonb,
			working_hours = $6,
			updated_at = NOW()
		WHERE a.id = $1 AND a.check_out_time IS NULL
		RETURNING ` + attendanceColumns

	updated, err := scanAttendance(q.QueryRow(ctx, query,
		id,
		point.Timestamp,
		point.Lat,
		point.Lng,
		[]attendance.LocationPoint{point},
		workingHours,
	), false)
	if err != nil {
		if isNoRows(err) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.Attendance{}, fmt.Errorf("failed to check out: %w", err)
	}
	return updated, nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	baseWhere := "a.date >= $1 AND a.date <= $2"
	args := []interface{}{filter.From, filter.To}
	argIdx := 3

	if filter.CompanyID != nil && *filter.CompanyID != "" {
		baseWhere += fmt.Sprintf(" AND a.company_id = $%d", argIdx)
		args = append(args, *filter.CompanyID)
		argIdx++
	}
	if filter.UserID != nil && *filter.UserID != "" {
		baseWhere += fmt.Sprintf(" AND a.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM attendances a WHERE `+baseWhere, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s, u.name, u.email
		FROM attendances a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE %s
		ORDER BY a.date DESC, a.check_in_time DESC
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, baseWhere, argIdx, argIdx+1)

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	attendances := []attendance.Attendance{}
	for rows.Next() {
		a, err := scanAttendance(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return attendances, total, nil
}
