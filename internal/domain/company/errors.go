package company

import "errors"

var (
	ErrCompanyNotFound     = errors.New("company not found")
	ErrCompanyEmailExists  = errors.New("company email already registered")
	ErrCompanyInactive     = errors.New("company is inactive")
	ErrNoCompanyAssociated = errors.New("no company associated with this user")
	ErrCompanyIDRequired   = errors.New("companyId query parameter is required")
	ErrStaffNotFound       = errors.New("staff member not found")
	ErrStaffOtherCompany   = errors.New("staff member belongs to another company")
)
