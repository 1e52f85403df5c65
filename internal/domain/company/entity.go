package company

import "time"

type Company struct {
	ID            string
	Name          string
	Address       string
	ContactPerson string
	Phone         string
	Email         string
	Logo          *string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Join
	StaffCount *int64
}

func (c *Company) ToResponse() CompanyResponse {
	return CompanyResponse{
		ID:            c.ID,
		Name:          c.Name,
		Address:       c.Address,
		ContactPerson: c.ContactPerson,
		Phone:         c.Phone,
		Email:         c.Email,
		Logo:          c.Logo,
		IsActive:      c.IsActive,
		StaffCount:    c.StaffCount,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
