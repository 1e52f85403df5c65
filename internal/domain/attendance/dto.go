package attendance

import (
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// GeoPoint uses pointers so a missing coordinate is distinguishable from zero.
type GeoPoint struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// LocationRequest is the body of check-in, check-out and track-location.
type LocationRequest struct {
	Location *GeoPoint `json:"location"`
}

const locationRequiredMessage = "location with numeric lat and lng is required"

func (r *LocationRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Location == nil || r.Location.Lat == nil || r.Location.Lng == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: locationRequiredMessage,
		})
		return errs
	}
	if !validator.IsValidLatitude(*r.Location.Lat) || math.IsInf(*r.Location.Lat, 0) {
		errs = append(errs, validator.ValidationError{
			Field:   "location.lat",
			Message: "lat must be between -90 and 90",
		})
	}
	if !validator.IsValidLongitude(*r.Location.Lng) || math.IsInf(*r.Location.Lng, 0) {
		errs = append(errs, validator.ValidationError{
			Field:   "location.lng",
			Message: "lng must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// InvalidLocationError is returned when the body cannot be decoded into numeric coordinates.
func InvalidLocationError() error {
	return validator.ValidationErrors{{Field: "location", Message: locationRequiredMessage}}
}

// Point stamps the validated location with t. Call only after Validate succeeds.
func (r *LocationRequest) Point(t time.Time) LocationPoint {
	return LocationPoint{Lat: *r.Location.Lat, Lng: *r.Location.Lng, Timestamp: t}
}

type CheckpointResponse struct {
	Time     time.Time `json:"time"`
	Location Location  `json:"location"`
}

type UserSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AttendanceResponse struct {
	ID           string              `json:"id"`
	UserID       string              `json:"userId"`
	CompanyID    string              `json:"companyId"`
	Date         string              `json:"date"`
	CheckIn      CheckpointResponse  `json:"checkIn"`
	CheckOut     *CheckpointResponse `json:"checkOut,omitempty"`
	LocationLogs []LocationPoint     `json:"locationLogs"`
	WorkingHours *float64            `json:"workingHours,omitempty"`
	Status       Status              `json:"status"`
	User         *UserSummary        `json:"user,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

type LocationLogsResponse struct {
	LocationLogs []LocationPoint `json:"locationLogs"`
}

// StatusResponse omits everything but the two flags when there is no record today.
type StatusResponse struct {
	IsCheckedIn    bool            `json:"isCheckedIn"`
	IsCheckedOut   bool            `json:"isCheckedOut"`
	CheckInTime    *time.Time      `json:"checkInTime,omitempty"`
	CheckOutTime   *time.Time      `json:"checkOutTime,omitempty"`
	WorkingHours   *float64        `json:"workingHours,omitempty"`
	LocationLogs   []LocationPoint `json:"locationLogs,omitempty"`
	LastLocation   *LocationPoint  `json:"lastLocation,omitempty"`
	DistanceMeters *float64        `json:"distanceMeters,omitempty"`
}

// AttendanceFilter selects records by date range. StartDate and EndDate are
// YYYY-MM-DD; the service defaults them to the current month.
type AttendanceFilter struct {
	StartDate *string
	EndDate   *string
	StaffID   *string

	// Resolved by the service.
	CompanyID *string
	UserID    *string
	From      time.Time
	To        time.Time

	Page  int
	Limit int
}

func (f *AttendanceFilter) Validate() error {
	errs := validator.ValidatePagination(&f.Page, &f.Limit)

	var start, end time.Time
	var okStart, okEnd bool
	if f.StartDate != nil {
		if start, okStart = validator.IsValidDate(*f.StartDate); !okStart {
			errs = append(errs, validator.ValidationError{Field: "startDate", Message: "startDate must be in YYYY-MM-DD format"})
		}
	}
	if f.EndDate != nil {
		if end, okEnd = validator.IsValidDate(*f.EndDate); !okEnd {
			errs = append(errs, validator.ValidationError{Field: "endDate", Message: "endDate must be in YYYY-MM-DD format"})
		}
	}
	if okStart && okEnd && start.After(end) {
		errs = append(errs, validator.ValidationError{Field: "startDate", Message: ErrInvalidDateRange.Error()})
	}
	if f.StaffID != nil && !validator.IsValidUUID(*f.StaffID) {
		errs = append(errs, validator.ValidationError{Field: "staffId", Message: "staffId must be a valid UUID"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListAttendanceResponse struct {
	Attendances []AttendanceResponse `json:"attendances"`
	StartDate   string               `json:"startDate"`
	EndDate     string               `json:"endDate"`
	TotalCount  int64                `json:"totalCount"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"totalPages"`
}

// Live feed event types, published on the company topic.
const (
	EventCheckedIn  = "attendance.checked_in"
	EventLocation   = "attendance.location"
	EventCheckedOut = "attendance.checked_out"
)

type LocationEvent struct {
	AttendanceID string        `json:"attendanceId"`
	UserID       string        `json:"userId"`
	Point        LocationPoint `json:"point"`
}
