package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	user.UserRepository
	loc       *time.Location
	now       func() time.Time
	publisher Publisher
}

// Publisher receives attendance changes keyed by company ID.
type Publisher interface {
	Publish(topic string, event sse.Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, sse.Event) {}

type Option func(*AttendanceServiceImpl)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *AttendanceServiceImpl) {
		a.now = now
	}
}

// WithPublisher streams check-ins, tracked locations and check-outs to p.
func WithPublisher(p Publisher) Option {
	return func(a *AttendanceServiceImpl) {
		if p != nil {
			a.publisher = p
		}
	}
}

// NewAttendanceService builds the tracker. Calendar days are taken in loc; nil means UTC.
func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	loc *time.Location,
	opts ...Option,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	a := &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		UserRepository:       userRepo,
		loc:                  loc,
		now:                  time.Now,
		publisher:            noopPublisher{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// today returns the current instant and its calendar date.
func (a *AttendanceServiceImpl) today() (time.Time, time.Time) {
	now := a.now().UTC()
	return now, attendance.CalendarDate(now, a.loc)
}

func (a *AttendanceServiceImpl) staffMember(ctx context.Context, userID string) (user.User, error) {
	u, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, err
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !u.IsActive {
		return user.User{}, auth.ErrAccountDeactivated
	}
	if !u.HasCompany() {
		return user.User{}, attendance.ErrNoCompany
	}
	return u, nil
}

// openRecord loads today's record for a mutation. A missing record is ErrNotCheckedIn.
func (a *AttendanceServiceImpl) openRecord(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	record, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Attendance{}, attendance.ErrNotCheckedIn
		}
		return attendance.Attendance{}, err
	}
	if record.IsCheckedOut() {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
	return record, nil
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, userID string, req attendance.LocationRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	u, err := a.staffMember(ctx, userID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now, date := a.today()
	point := req.Point(now)

	created, err := a.AttendanceRepository.Create(ctx, attendance.Attendance{
		UserID:          u.ID,
		CompanyID:       *u.CompanyID,
		Date:            date,
		CheckInTime:     now,
		CheckInLocation: point.Location(),
		LocationLogs:    []attendance.LocationPoint{point},
		Status:          attendance.StatusPresent,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check in: %w", err)
	}

	resp := created.ToResponse()
	a.publisher.Publish(created.CompanyID, sse.Event{Type: attendance.EventCheckedIn, Data: resp})
	return resp, nil
}

// TrackLocation implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) TrackLocation(ctx context.Context, userID string, req attendance.LocationRequest) (attendance.LocationLogsResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.LocationLogsResponse{}, err
	}
	if _, err := a.staffMember(ctx, userID); err != nil {
		return attendance.LocationLogsResponse{}, err
	}

	now, date := a.today()
	record, err := a.openRecord(ctx, userID, date)
	if err != nil {
		return attendance.LocationLogsResponse{}, err
	}

	point := req.Point(now)
	logs, err := a.AttendanceRepository.AppendLocation(ctx, record.ID, point)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedOut) {
			return attendance.LocationLogsResponse{}, err
		}
		return attendance.LocationLogsResponse{}, fmt.Errorf("failed to track location: %w", err)
	}

	a.publisher.Publish(record.CompanyID, sse.Event{
		Type: attendance.EventLocation,
		Data: attendance.LocationEvent{AttendanceID: record.ID, UserID: record.UserID, Point: point},
	})

	return attendance.LocationLogsResponse{LocationLogs: logs}, nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, userID string, req attendance.LocationRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if _, err := a.staffMember(ctx, userID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now, date := a.today()
	record, err := a.openRecord(ctx, userID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	hours := attendance.WorkingHours(record.CheckInTime, now)
	updated, err := a.AttendanceRepository.CheckOut(ctx, record.ID, req.Point(now), hours)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedOut) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check out: %w", err)
	}

	resp := updated.ToResponse()
	a.publisher.Publish(updated.CompanyID, sse.Event{Type: attendance.EventCheckedOut, Data: resp})
	return resp, nil
}

// Status implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Status(ctx context.Context, userID string) (attendance.StatusResponse, error) {
	_, date := a.today()

	record, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.StatusResponse{}, nil
		}
		return attendance.StatusResponse{}, fmt.Errorf("failed to get attendance status: %w", err)
	}

	checkIn := record.CheckInTime
	distance := record.DistanceMeters()
	logs := record.LocationLogs
	if logs == nil {
		logs = []attendance.LocationPoint{}
	}

	return attendance.StatusResponse{
		IsCheckedIn:    true,
		IsCheckedOut:   record.IsCheckedOut(),
		CheckInTime:    &checkIn,
		CheckOutTime:   record.CheckOutTime,
		WorkingHours:   record.WorkingHours,
		LocationLogs:   logs,
		LastLocation:   record.LastLocation(),
		DistanceMeters: &distance,
	}, nil
}

// LocationLogs implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) LocationLogs(ctx context.Context, userID string) (attendance.LocationLogsResponse, error) {
	_, date := a.today()

	record, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.LocationLogsResponse{}, err
		}
		return attendance.LocationLogsResponse{}, fmt.Errorf("failed to get location logs: %w", err)
	}

	logs := record.LocationLogs
	if logs == nil {
		logs = []attendance.LocationPoint{}
	}
	return attendance.LocationLogsResponse{LocationLogs: logs}, nil
}

// MyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MyAttendance(ctx context.Context, userID string, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	filter.StaffID = nil
	filter.CompanyID = nil
	filter.UserID = &userID
	return a.list(ctx, filter)
}

// ListCompanyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListCompanyAttendance(ctx context.Context, companyID string, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	filter.CompanyID = &companyID
	filter.UserID = filter.StaffID
	return a.list(ctx, filter)
}

func (a *AttendanceServiceImpl) list(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}
	if err := a.resolveRange(&filter); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	resp := attendance.ListAttendanceResponse{
		Attendances: make([]attendance.AttendanceResponse, 0, len(records)),
		StartDate:   filter.From.Format(attendance.DateLayout),
		EndDate:     filter.To.Format(attendance.DateLayout),
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  validator.TotalPages(total, filter.Limit),
	}
	for i := range records {
		resp.Attendances = append(resp.Attendances, records[i].ToResponse())
	}
	return resp, nil
}

// resolveRange fills From and To, defaulting each to the bounds of the current month.
func (a *AttendanceServiceImpl) resolveRange(filter *attendance.AttendanceFilter) error {
	_, today := a.today()
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	filter.From = monthStart
	filter.To = monthStart.AddDate(0, 1, -1)

	if filter.StartDate != nil {
		filter.From, _ = validator.IsValidDate(*filter.StartDate)
	}
	if filter.EndDate != nil {
		filter.To, _ = validator.IsValidDate(*filter.EndDate)
	}
	if filter.From.After(filter.To) {
		return validator.ValidationErrors{{Field: "startDate", Message: attendance.ErrInvalidDateRange.Error()}}
	}
	return nil
}
