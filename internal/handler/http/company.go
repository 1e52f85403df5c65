package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type CompanyHandler interface {
	// Admin company management.
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	// Company scope: the caller's own company, or ?companyId= for admins.
	GetMyCompany(w http.ResponseWriter, r *http.Request)
	UpdateMyCompany(w http.ResponseWriter, r *http.Request)
	ListStaff(w http.ResponseWriter, r *http.Request)
	AddStaff(w http.ResponseWriter, r *http.Request)
	UpdateStaff(w http.ResponseWriter, r *http.Request)
	DeactivateStaff(w http.ResponseWriter, r *http.Request)
	ListAttendance(w http.ResponseWriter, r *http.Request)
}

type CompanyHandlerImpl struct {
	companyService    company.CompanyService
	attendanceService attendance.AttendanceService
}

func NewCompanyHandler(companyService company.CompanyService, attendanceService attendance.AttendanceService) CompanyHandler {
	return &CompanyHandlerImpl{
		companyService:    companyService,
		attendanceService: attendanceService,
	}
}

// companyIDParam reads {id}; anything that is not a UUID cannot name a company.
func companyIDParam(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		return "", company.ErrCompanyNotFound
	}
	return id, nil
}

func (c *CompanyHandlerImpl) scope(r *http.Request) (string, error) {
	requested := ""
	if v := queryString(r, "companyId"); v != nil {
		requested = *v
	}
	return c.companyService.ResolveScope(r.Context(), requested)
}

// List implements CompanyHandler.
func (c *CompanyHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	page, limit, err := queryPagination(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	isActive, err := queryBool(r, "isActive")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	companies, err := c.companyService.List(r.Context(), company.CompanyFilter{
		Search:   queryString(r, "search"),
		IsActive: isActive,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, companies)
}

// Create implements CompanyHandler.
func (c *CompanyHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req company.CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create company decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := c.companyService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Failed to create company", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Company created successfully", created)
}

// GetByID implements CompanyHandler.
func (c *CompanyHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := companyIDParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	found, err := c.companyService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}

// Update implements CompanyHandler.
func (c *CompanyHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, err := companyIDParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req company.UpdateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update company decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := c.companyService.Update(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company updated successfully", updated)
}

// Delete implements CompanyHandler. Companies are deactivated together with their users.
func (c *CompanyHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := companyIDParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := c.companyService.Deactivate(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Company deactivated", "company_id", id)
	response.SuccessWithMessage(w, "Company deactivated successfully", nil)
}

// GetMyCompany implements CompanyHandler.
func (c *CompanyHandlerImpl) GetMyCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := c.scope(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	found, err := c.companyService.GetByID(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}

// UpdateMyCompany implements CompanyHandler. Activation is left to admins.
func (c *CompanyHandlerImpl) UpdateMyCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := c.scope(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req company.UpdateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update my company decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.IsActive = nil

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := c.companyService.Update(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Company updated successfully", updated)
}

// ListStaff implements CompanyHandler.
func (c *CompanyHandlerImpl) ListStaff(w http.ResponseWriter, r *http.Request) {
	companyID, err := c.scope(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	page, limit, err := queryPagination(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	isActive, err := queryBool(r, "isActive")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	staff, err := c.companyService.ListStaff(r.Context(), companyID, company.StaffFilter{
		IsActive: isActive,
		Search:   queryString(r, "search"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, staff)
}

// AddStaff implements CompanyHandler.
func (c *CompanyHandlerImpl) AddStaff(w http.ResponseWriter, r *http.Request) {
	companyID, err := c.scope(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req company.AddStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Add staff decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	staff, err := c.companyService.AddStaff(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Staff added", "company_id", companyID, "user_id", staff.ID)
	response.Created(w, "Staff added successfully", staff)
}

// UpdateStaff implements CompanyHandler.
func (c *CompanyHandlerImpl) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	companyID, err := c.scope(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req company.UpdateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update staff decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	staff, err := c.companyService.UpdateStaff(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Staff updated successfully", staff)
}

// DeactivateStaff implements CompanyHandler.
func (c *CompanyHandlerImpl) DeactivateStaff(w http.ResponseWriter, r *http.Request) {
	companyID, err := c.scope(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	staffID := chi.URLParam(r, "id")
	if err := c.companyService.DeactivateStaff(r.Context(), companyID, staffID); err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Staff deactivated", "company_id", companyID, "user_id", staffID)
	response.SuccessWithMessage(w, "Staff deactivated successfully", nil)
}

// ListAttendance implements CompanyHandler.
func (c *CompanyHandlerImpl) ListAttendance(w http.ResponseWriter, r *http.Request) {
	companyID, err := c.scope(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter, err := attendanceFilterFromQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := c.attendanceService.ListCompanyAttendance(r.Context(), companyID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}
