package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	TrackLocation(w http.ResponseWriter, r *http.Request)
	LocationLogs(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	MyAttendance(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// decodeLocation reads a LocationRequest body. Non-numeric coordinates and an
// empty body are reported as a location validation error.
func decodeLocation(w http.ResponseWriter, r *http.Request) (attendance.LocationRequest, bool) {
	var req attendance.LocationRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) || errors.Is(err, io.EOF) {
			response.HandleError(w, attendance.InvalidLocationError())
			return req, false
		}
		slog.Error("Location decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return req, false
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return req, false
	}
	return req, true
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req, ok := decodeLocation(w, r)
	if !ok {
		return
	}

	record, err := h.attendanceService.CheckIn(r.Context(), claims.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Checked in", "user_id", claims.UserID, "attendance_id", record.ID)
	response.SuccessWithMessage(w, "Checked in successfully", record)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req, ok := decodeLocation(w, r)
	if !ok {
		return
	}

	record, err := h.attendanceService.CheckOut(r.Context(), claims.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Checked out", "user_id", claims.UserID, "attendance_id", record.ID)
	response.SuccessWithMessage(w, "Checked out successfully", record)
}

// TrackLocation implements AttendanceHandler.
func (h *attendanceHandlerImpl) TrackLocation(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req, ok := decodeLocation(w, r)
	if !ok {
		return
	}

	logs, err := h.attendanceService.TrackLocation(r.Context(), claims.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Location tracked successfully", logs)
}

// LocationLogs implements AttendanceHandler.
func (h *attendanceHandlerImpl) LocationLogs(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	logs, err := h.attendanceService.LocationLogs(r.Context(), claims.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, logs)
}

// Status implements AttendanceHandler.
func (h *attendanceHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	status, err := h.attendanceService.Status(r.Context(), claims.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

// MyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) MyAttendance(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ClaimsFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter, err := attendanceFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	history, err := h.attendanceService.MyAttendance(r.Context(), claims.UserID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, history)
}

func attendanceFilterFromQuery(r *http.Request) (attendance.AttendanceFilter, error) {
	page, limit, err := queryPagination(r)
	if err != nil {
		return attendance.AttendanceFilter{}, err
	}

	filter := attendance.AttendanceFilter{
		StartDate: queryString(r, "startDate"),
		EndDate:   queryString(r, "endDate"),
		StaffID:   queryString(r, "staffId"),
		Page:      page,
		Limit:     limit,
	}
	if err := filter.Validate(); err != nil {
		return attendance.AttendanceFilter{}, err
	}
	return filter, nil
}
