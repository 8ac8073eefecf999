package tenant

import (
	tenantService "rental-booking/services/tenant"
)

type TenantCreateRequest struct {
	FullName   string  `json:"full_name" validate:"required,min=2,max=255"`
	Phone      string  `json:"phone" validate:"required,e164"`
	Email      *string `json:"email" validate:"omitempty,email"`
	IDDocument *string `json:"id_document" validate:"omitempty,max=100"`
}

func (r TenantCreateRequest) ToInput() tenantService.CreateInput {
	return tenantService.CreateInput{
		FullName:   r.FullName,
		Phone:      r.Phone,
		Email:      r.Email,
		IDDocument: r.IDDocument,
	}
}

// BlacklistRequest sets or clears the blacklist flag. A reason is required to blacklist.
type BlacklistRequest struct {
	Blacklisted bool   `json:"blacklisted"`
	Reason      string `json:"reason" validate:"required_if=Blacklisted true,max=500"`
}
