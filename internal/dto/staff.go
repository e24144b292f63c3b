package dto

import "time"

type LoginRequest struct {
	Name string `json:"name"`
	PIN  string `json:"pin"`
}

type RegisterStaffRequest struct {
	Name string `json:"name"`
	PIN  string `json:"pin"`
	Role string `json:"role"`
}

// StaffUserDTO never carries the PIN.
type StaffUserDTO struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      StaffUserDTO `json:"user"`
}

type StaffListResponse struct {
	Users []StaffUserDTO `json:"users"`
}

type StaffLookupResponse struct {
	Found bool          `json:"found"`
	User  *StaffUserDTO `json:"user,omitempty"`
}

type HealthResponse struct {
	Access bool `json:"access"`
}
