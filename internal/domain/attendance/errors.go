package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyCheckedIn   = errors.New("already checked in today")
	ErrNotCheckedIn       = errors.New("no check-in record found for today")
	ErrAlreadyCheckedOut  = errors.New("already checked out today")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrNoCompany          = errors.New("user is not associated with any company")
	ErrInvalidDateRange   = errors.New("startDate must not be after endDate")
)
