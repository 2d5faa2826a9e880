package domain

import "github.com/google/uuid"

// User is the record returned by the external user directory. Only Email is
// guaranteed; the remaining fields depend on the directory deployment.
type User struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Name      *string    `json:"name,omitempty"`
	Role      *string    `json:"role,omitempty"`
	CompanyID *uuid.UUID `json:"companyId,omitempty"`
}
