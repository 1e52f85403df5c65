package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/utils"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
)

// DateLayout is the calendar-day format used on the wire and in filters.
const DateLayout = "2006-01-02"

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LocationPoint is one entry of the append-only location log.
type LocationPoint struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Timestamp time.Time `json:"timestamp"`
}

func (p LocationPoint) Location() Location {
	return Location{Lat: p.Lat, Lng: p.Lng}
}

// Attendance is one user's record for one calendar day.
type Attendance struct {
	ID               string
	UserID           string
	CompanyID        string
	Date             time.Time
	CheckInTime      time.Time
	CheckInLocation  Location
	CheckOutTime     *time.Time
	CheckOutLocation *Location
	LocationLogs     []LocationPoint
	WorkingHours     *float64
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Join
	UserName  *string
	UserEmail *string
}

func (a *Attendance) IsCheckedOut() bool {
	return a.CheckOutTime != nil
}

// LastLocation returns the most recent log entry, or nil for an empty log.
func (a *Attendance) LastLocation() *LocationPoint {
	if len(a.LocationLogs) == 0 {
		return nil
	}
	last := a.LocationLogs[len(a.LocationLogs)-1]
	return &last
}

// DistanceMeters is the path length through the location log in submission order.
func (a *Attendance) DistanceMeters() float64 {
	var total float64
	for i := 1; i < len(a.LocationLogs); i++ {
		prev, cur := a.LocationLogs[i-1], a.LocationLogs[i]
		total += utils.CalculateHaversineDistance(prev.Lat, prev.Lng, cur.Lat, cur.Lng)
	}
	return utils.RoundTo(total, 2)
}

// WorkingHours is the elapsed time between check-in and check-out in hours, rounded to two decimals.
func WorkingHours(checkIn, checkOut time.Time) float64 {
	return utils.RoundTo(checkOut.Sub(checkIn).Hours(), 2)
}

// CalendarDate truncates t to midnight of its calendar day in loc, expressed in UTC
// so it compares equal to DATE values read back from storage.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func (a *Attendance) ToResponse() AttendanceResponse {
	resp := AttendanceResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		CompanyID: a.CompanyID,
		Date:      a.Date.Format(DateLayout),
		CheckIn: CheckpointResponse{
			Time:     a.CheckInTime,
			Location: a.CheckInLocation,
		},
		LocationLogs: a.LocationLogs,
		WorkingHours: a.WorkingHours,
		Status:       a.Status,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if resp.LocationLogs == nil {
		resp.LocationLogs = []LocationPoint{}
	}
	if a.CheckOutTime != nil {
		cp := CheckpointResponse{Time: *a.CheckOutTime}
		if a.CheckOutLocation != nil {
			cp.Location = *a.CheckOutLocation
		}
		resp.CheckOut = &cp
	}
	if a.UserName != nil || a.UserEmail != nil {
		resp.User = &UserSummary{}
		if a.UserName != nil {
			resp.User.Name = *a.UserName
		}
		if a.UserEmail != nil {
			resp.User.Email = *a.UserEmail
		}
	}
	return resp
}
