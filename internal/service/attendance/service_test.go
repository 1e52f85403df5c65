package attendance

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memAttendanceRepo mirrors the storage guarantees: one record per user and
// date, and no writes to a checked-out record.
type memAttendanceRepo struct {
	records    map[string]*attendance.Attendance
	seq        int
	lastFilter attendance.AttendanceFilter
}

func newMemAttendanceRepo() *memAttendanceRepo {
	return &memAttendanceRepo{records: map[string]*attendance.Attendance{}}
}

func recordKey(userID string, date time.Time) string {
	return userID + "|" + date.Format(attendance.DateLayout)
}

func (m *memAttendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	key := recordKey(a.UserID, a.Date)
	if _, ok := m.records[key]; ok {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}
	m.seq++
	a.ID = fmt.Sprintf("att-%d", m.seq)
	a.LocationLogs = append([]attendance.LocationPoint{}, a.LocationLogs...)
	m.records[key] = &a
	return a, nil
}

func (m *memAttendanceRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	r, ok := m.records[recordKey(userID, date)]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return *r, nil
}

func (m *memAttendanceRepo) byID(id string) *attendance.Attendance {
	for _, r := range m.records {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (m *memAttendanceRepo) AppendLocation(ctx context.Context, id string, point attendance.LocationPoint) ([]attendance.LocationPoint, error) {
	r := m.byID(id)
	if r == nil || r.IsCheckedOut() {
		return nil, attendance.ErrAlreadyCheckedOut
	}
	r.LocationLogs = append(r.LocationLogs, point)
	return append([]attendance.LocationPoint{}, r.LocationLogs...), nil
}

func (m *memAttendanceRepo) CheckOut(ctx context.Context, id string, point attendance.LocationPoint, workingHours float64) (attendance.Attendance, error) {
	r := m.byID(id)
	if r == nil || r.IsCheckedOut() {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
	ts := point.Timestamp
	loc := point.Location()
	r.CheckOutTime = &ts
	r.CheckOutLocation = &loc
	r.WorkingHours = &workingHours
	r.LocationLogs = append(r.LocationLogs, point)
	return *r, nil
}

func (m *memAttendanceRepo) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	m.lastFilter = filter
	var out []attendance.Attendance
	for _, r := range m.records {
		if r.Date.Before(filter.From) || r.Date.After(filter.To) {
			continue
		}
		if filter.UserID != nil && r.UserID != *filter.UserID {
			continue
		}
		if filter.CompanyID != nil && r.CompanyID != *filter.CompanyID {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, int64(len(out)), nil
}

type fakeUserRepo struct {
	user.UserRepository
	users map[string]user.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

const (
	staffID   = "staff-1"
	companyID = "company-1"
)

func setup(t *testing.T, start time.Time) (*AttendanceServiceImpl, *memAttendanceRepo, *clock) {
	t.Helper()
	company := companyID
	users := &fakeUserRepo{users: map[string]user.User{
		staffID:      {ID: staffID, Role: user.RoleStaff, CompanyID: &company, IsActive: true},
		"no-company": {ID: "no-company", Role: user.RoleStaff, IsActive: true},
		"inactive":   {ID: "inactive", Role: user.RoleStaff, CompanyID: &company, IsActive: false},
	}}
	repo := newMemAttendanceRepo()
	c := &clock{t: start}
	svc := NewAttendanceService(repo, users, time.UTC, WithClock(c.now)).(*AttendanceServiceImpl)
	return svc, repo, c
}

func loc(lat, lng float64) attendance.LocationRequest {
	return attendance.LocationRequest{Location: &attendance.GeoPoint{Lat: &lat, Lng: &lng}}
}

var morning = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func TestCheckIn_CreatesRecord(t *testing.T) {
	svc, _, _ := setup(t, morning)

	resp, err := svc.CheckIn(context.Background(), staffID, loc(-6.2, 106.8))
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Equal(t, companyID, resp.CompanyID)
	assert.Equal(t, morning, resp.CheckIn.Time)
	assert.Equal(t, attendance.Location{Lat: -6.2, Lng: 106.8}, resp.CheckIn.Location)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
	require.Len(t, resp.LocationLogs, 1)
	assert.Equal(t, morning, resp.LocationLogs[0].Timestamp)
	assert.Nil(t, resp.CheckOut)
	assert.Nil(t, resp.WorkingHours)
}

func TestCheckIn_SecondTimeSameDayConflicts(t *testing.T) {
	svc, _, c := setup(t, morning)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, staffID, loc(1, 1))
	require.NoError(t, err)

	c.t = morning.Add(3 * time.Hour)
	_, err = svc.CheckIn(ctx, staffID, loc(1, 1))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	// A checked-out day is still taken.
	_, err = svc.CheckOut(ctx, staffID, loc(1, 1))
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, staffID, loc(1, 1))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_NextDayAllowed(t *testing.T) {
	svc, _, c := setup(t, morning)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, staffID, loc(1, 1))
	require.NoError(t, err)

	c.t = morning.AddDate(0, 0, 1)
	resp, err := svc.CheckIn(ctx, staffID, loc(1, 1))
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", resp.Date)
}

func TestCheckIn_Failures(t *testing.T) {
	svc, _, _ := setup(t, morning)
	ctx := context.Background()

	t.Run("invalid location", func(t *testing.T) {
		_, err := svc.CheckIn(ctx, staffID, attendance.LocationRequest{})
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.CheckIn(ctx, "ghost", loc(1, 1))
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("no company", func(t *testing.T) {
		_, err := svc.CheckIn(ctx, "no-company", loc(1, 1))
		assert.ErrorIs(t, err, attendance.ErrNoCompany)
	})

	t.Run("deactivated", func(t *testing.T) {
		_, err := svc.CheckIn(ctx, "inactive", loc(1, 1))
		assert.ErrorIs(t, err, auth.ErrAccountDeactivated)
	})
}

func TestCheckIn_UsesBusinessTimezone(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	company := companyID
	users := &fakeUserRepo{users: map[string]user.User{
		staffID: {ID: staffID, CompanyID: &company, IsActive: true},
	}}
	// 20:00 UTC on the 10th is 03:00 on the 11th in Jakarta.
	late := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	svc := NewAttendanceService(newMemAttendanceRepo(), users, jakarta, WithClock(func() time.Time { return late }))

	resp, err := svc.CheckIn(context.Background(), staffID, loc(1, 1))
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", resp.Date)
}

func TestCheckOut_ComputesWorkingHours(t *testing.T) {
	svc, _, c := setup(t, morning)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, staffID, loc(1, 1))
	require.NoError(t, err)

	c.t = time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC)
	resp, err := svc.CheckOut(ctx, staffID, loc(2, 2))
	require.NoError(t, err)

	require.NotNil(t, resp.WorkingHours)
	assert.Equal(t, 8.5, *resp.WorkingHours)
	require.NotNil(t, resp.CheckOut)
	assert.Equal(t, c.t, resp.CheckOut.Time)
	assert.Equal(t, attendance.Location{Lat: 2, Lng: 2}, resp.CheckOut.Location)
	require.Len(t, resp.LocationLogs, 2)
	assert.Equal(t, 2.0, resp.LocationLogs[1].Lat)
}

func TestCheckOut_Twice(t *testing.T) {
	svc, repo, c := setup(t, morning)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, staffID, loc(1, 1))
	require.NoError(t, err)

	c.t = morning.Add(4 * time.Hour)
	first, err := svc.CheckOut(ctx, staffID, loc(1, 1))
	require.NoError(t, err)

	c.t = morning.Add(6 * time.Hour)
	_, err = svc.CheckOut(ctx, staffID, loc(1, 1))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)

	stored, err := repo.GetByUserAndDate(ctx, staffID, attendance.CalendarDate(morning, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, first.CheckOut.Time, *stored.CheckOutTime)
	assert.Equal(t, 4.0, *stored.WorkingHours)
}

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	svc, _, _ := setup(t, morning)

	_, err := svc.CheckOut(context.Background(), staffID, loc(1, 1))
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestTrackLocation_AppendsInOrder(t *testing.T) {
	svc, _, c := setup(t, morning)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, staffID, loc(0, 0))
	require.NoError(t, err)

	const n = 5
	var resp attendance.LocationLogsResponse
	for i := 1; i <= n; i++ {
		c.t = morning.Add(time.Duration(i) * time.Minute)
		resp, err = svc.TrackLocation(ctx, staffID, loc(float64(i), 0))
		require.NoError(t, err)
		assert.Len(t, resp.LocationLogs, i+1)
	}

	require.Len(t, resp.LocationLogs, n+1)
	for i, p := range resp.LocationLogs {
		assert.Equal(t, float64(i), p.Lat)
		assert.Equal(t, morning.Add(time.Duration(i)*time.Minute), p.Timestamp)
	}
}

func TestTrackLocation_Failures(t *testing.T) {
	svc, _, _ := setup(t, morning)
	ctx := context.Background()

	_, err := svc.TrackLocation(ctx, staffID, loc(1, 1))
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	_, err = svc.CheckIn(ctx, staffID, loc(1, 1))
	require.NoError(t, err)
	_, err = svc.CheckOut(ctx, staffID, loc(1, 1))
	require.NoError(t, err)

	_, err = svc.TrackLocation(ctx, staffID, loc(1, 1))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestStatus(t *testing.T) {
	svc, _, c := setup(t, morning)
	ctx := context.Background()

	t.Run("before check-in", func(t *testing.T) {
		status, err := svc.Status(ctx, staffID)
		require.NoError(t, err)
		body, err := json.Marshal(status)
		require.NoError(t, err)
		assert.JSONEq(t, `{"isCheckedIn":false,"isCheckedOut":false}`, string(body))
	})

	_, err := svc.CheckIn(ctx, staffID, loc(0, 0))
	require.NoError(t, err)
	c.t = morning.Add(time.Hour)
	_, err = svc.TrackLocation(ctx, staffID, loc(0.001, 0))
	require.NoError(t, err)

	t.Run("checked in", func(t *testing.T) {
		status, err := svc.Status(ctx, staffID)
		require.NoError(t, err)
		assert.True(t, status.IsCheckedIn)
		assert.False(t, status.IsCheckedOut)
		require.NotNil(t, status.CheckInTime)
		assert.Equal(t, morning, *status.CheckInTime)
		assert.Nil(t, status.CheckOutTime)
		assert.Len(t, status.LocationLogs, 2)
		require.NotNil(t, status.LastLocation)
		assert.Equal(t, 0.001, status.LastLocation.Lat)
		require.NotNil(t, status.DistanceMeters)
		assert.InDelta(t, 111.19, *status.DistanceMeters, 0.5)
	})

	c.t = morning.Add(2 * time.Hour)
	_, err = svc.CheckOut(ctx, staffID, loc(0.001, 0))
	require.NoError(t, err)

	t.Run("checked out", func(t *testing.T) {
		status, err := svc.Status(ctx, staffID)
		require.NoError(t, err)
		assert.True(t, status.IsCheckedIn)
		assert.True(t, status.IsCheckedOut)
		require.NotNil(t, status.WorkingHours)
		assert.Equal(t, 2.0, *status.WorkingHours)
	})
}

func TestLocationLogs(t *testing.T) {
	svc, _, _ := setup(t, morning)
	ctx := context.Background()

	_, err := svc.LocationLogs(ctx, staffID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	_, err = svc.CheckIn(ctx, staffID, loc(3, 4))
	require.NoError(t, err)

	resp, err := svc.LocationLogs(ctx, staffID)
	require.NoError(t, err)
	require.Len(t, resp.LocationLogs, 1)
	assert.Equal(t, 3.0, resp.LocationLogs[0].Lat)
}

func TestMyAttendance_DefaultsToCurrentMonth(t *testing.T) {
	svc, repo, _ := setup(t, morning)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, staffID, loc(1, 1))
	require.NoError(t, err)

	resp, err := svc.MyAttendance(ctx, staffID, attendance.AttendanceFilter{})
	require.NoError(t, err)

	assert.Equal(t, "2025-03-01", resp.StartDate)
	assert.Equal(t, "2025-03-31", resp.EndDate)
	assert.Equal(t, int64(1), resp.TotalCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, validator.DefaultPageLimit, resp.Limit)
	assert.Equal(t, 1, resp.TotalPages)
	require.NotNil(t, repo.lastFilter.UserID)
	assert.Equal(t, staffID, *repo.lastFilter.UserID)
	assert.Nil(t, repo.lastFilter.CompanyID)
}

func TestListCompanyAttendance(t *testing.T) {
	svc, repo, _ := setup(t, morning)
	ctx := context.Background()
	s := func(v string) *string { return &v }

	_, err := svc.CheckIn(ctx, staffID, loc(1, 1))
	require.NoError(t, err)

	t.Run("explicit range", func(t *testing.T) {
		resp, err := svc.ListCompanyAttendance(ctx, companyID, attendance.AttendanceFilter{
			StartDate: s("2025-03-01"),
			EndDate:   s("2025-03-10"),
		})
		require.NoError(t, err)
		assert.Len(t, resp.Attendances, 1)
		require.NotNil(t, repo.lastFilter.CompanyID)
		assert.Equal(t, companyID, *repo.lastFilter.CompanyID)
		assert.Nil(t, repo.lastFilter.UserID)
	})

	t.Run("staff filter", func(t *testing.T) {
		staff := "0195f3a2-7b1c-7d2e-8f3a-1b2c3d4e5f60"
		resp, err := svc.ListCompanyAttendance(ctx, companyID, attendance.AttendanceFilter{StaffID: &staff})
		require.NoError(t, err)
		assert.Empty(t, resp.Attendances)
		assert.NotNil(t, resp.Attendances)
		require.NotNil(t, repo.lastFilter.UserID)
		assert.Equal(t, staff, *repo.lastFilter.UserID)
	})

	t.Run("start after default end", func(t *testing.T) {
		_, err := svc.ListCompanyAttendance(ctx, companyID, attendance.AttendanceFilter{StartDate: s("2025-05-01")})
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})
}

type recordingPublisher struct {
	topics []string
	events []sse.Event
}

func (p *recordingPublisher) Publish(topic string, event sse.Event) {
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
}

func TestAttendance_PublishesToCompanyTopic(t *testing.T) {
	company := companyID
	users := &fakeUserRepo{users: map[string]user.User{
		staffID: {ID: staffID, Role: user.RoleStaff, CompanyID: &company, IsActive: true},
	}}
	pub := &recordingPublisher{}
	c := &clock{t: morning}
	svc := NewAttendanceService(newMemAttendanceRepo(), users, time.UTC, WithClock(c.now), WithPublisher(pub))
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, staffID, loc(1, 1))
	require.NoError(t, err)
	c.t = morning.Add(time.Hour)
	_, err = svc.TrackLocation(ctx, staffID, loc(1.5, 1.5))
	require.NoError(t, err)
	c.t = morning.Add(2 * time.Hour)
	_, err = svc.CheckOut(ctx, staffID, loc(2, 2))
	require.NoError(t, err)

	// Rejected mutations publish nothing.
	_, err = svc.CheckOut(ctx, staffID, loc(2, 2))
	require.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)

	assert.Equal(t, []string{companyID, companyID, companyID}, pub.topics)
	require.Len(t, pub.events, 3)
	assert.Equal(t, attendance.EventCheckedIn, pub.events[0].Type)
	assert.Equal(t, attendance.EventLocation, pub.events[1].Type)
	assert.Equal(t, attendance.EventCheckedOut, pub.events[2].Type)

	moved, ok := pub.events[1].Data.(attendance.LocationEvent)
	require.True(t, ok)
	assert.Equal(t, staffID, moved.UserID)
	assert.Equal(t, 1.5, moved.Point.Lat)
	assert.Equal(t, morning.Add(time.Hour), moved.Point.Timestamp)

	out, ok := pub.events[2].Data.(attendance.AttendanceResponse)
	require.True(t, ok)
	require.NotNil(t, out.WorkingHours)
	assert.Equal(t, 2.0, *out.WorkingHours)
}

func TestAttendance_DeactivatedAfterCheckIn(t *testing.T) {
	svc, repo, c := setup(t, morning)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, staffID, loc(1, 1))
	require.NoError(t, err)

	users := svc.UserRepository.(*fakeUserRepo)
	member := users.users[staffID]
	member.IsActive = false
	users.users[staffID] = member

	c.t = morning.Add(time.Hour)
	_, err = svc.TrackLocation(ctx, staffID, loc(2, 2))
	assert.ErrorIs(t, err, auth.ErrAccountDeactivated)

	_, err = svc.CheckOut(ctx, staffID, loc(2, 2))
	assert.ErrorIs(t, err, auth.ErrAccountDeactivated)

	record, err := repo.GetByUserAndDate(ctx, staffID, attendance.CalendarDate(morning, time.UTC))
	require.NoError(t, err)
	assert.Len(t, record.LocationLogs, 1)
	assert.False(t, record.IsCheckedOut())
}
