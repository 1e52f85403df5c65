package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create inserts the day's record. A second record for the same user and
	// date fails with ErrAlreadyCheckedIn.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByUserAndDate returns ErrAttendanceNotFound when the user has no record for date.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (Attendance, error)

	// AppendLocation adds point to the end of the log of an open record and
	// returns the whole log. Fails with ErrAlreadyCheckedOut once checked out.
	AppendLocation(ctx context.Context, id string, point LocationPoint) ([]LocationPoint, error)

	// CheckOut closes an open record, appending point to the log. Fails with
	// ErrAlreadyCheckedOut if the record was closed concurrently.
	CheckOut(ctx context.Context, id string, point LocationPoint, workingHours float64) (Attendance, error)

	// List returns records within the filter's date range, newest first.
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)
}
