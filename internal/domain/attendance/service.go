package attendance

import (
	"context"
)

// AttendanceService tracks the per-day check-in state of a user.
type AttendanceService interface {
	CheckIn(ctx context.Context, userID string, req LocationRequest) (AttendanceResponse, error)
	TrackLocation(ctx context.Context, userID string, req LocationRequest) (LocationLogsResponse, error)
	CheckOut(ctx context.Context, userID string, req LocationRequest) (AttendanceResponse, error)

	// Status never fails for a user without a record today.
	Status(ctx context.Context, userID string) (StatusResponse, error)
	LocationLogs(ctx context.Context, userID string) (LocationLogsResponse, error)

	MyAttendance(ctx context.Context, userID string, filter AttendanceFilter) (ListAttendanceResponse, error)
	ListCompanyAttendance(ctx context.Context, companyID string, filter AttendanceFilter) (ListAttendanceResponse, error)
}
