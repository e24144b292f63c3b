package domain

import "time"

type StaffRole string

const (
	StaffRoleAdmin    StaffRole = "admin"
	StaffRoleVendedor StaffRole = "vendedor"
)

func (r StaffRole) Valid() bool {
	return r == StaffRoleAdmin || r == StaffRoleVendedor
}

// StaffUser is a normalized identity record. PIN holds either a bcrypt hash
// or, for records written by older tooling, the plaintext PIN.
type StaffUser struct {
	ID        string
	Name      string
	PIN       string
	Role      StaffRole
	CreatedAt *time.Time
}

// StaffRecord is a staff document as stored. Any field may be missing.
type StaffRecord struct {
	DocID     string
	ID        *string
	Name      *string
	PIN       *string
	Role      *string
	CreatedAt *time.Time
}
