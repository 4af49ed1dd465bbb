package models

// UserRole represents an administrative role.
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleAccountant UserRole = "accountant"
	RoleTeacher    UserRole = "teacher"
	RoleStaff      UserRole = "staff"
)

// Valid returns true when the role is a supported value.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleAccountant, RoleTeacher, RoleStaff:
		return true
	default:
		return false
	}
}

// User mirrors one dashboard user record.
type User struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Phone  string   `json:"phone,omitempty"`
	Role   UserRole `json:"role"`
	Active bool     `json:"active"`
}

// Student mirrors the subset of a student record the dashboard edits.
type Student struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Roll      string `json:"roll,omitempty"`
	ClassName string `json:"className,omitempty"`
	Section   string `json:"section,omitempty"`
	Phone     string `json:"phone,omitempty"`
	PhotoURL  string `json:"photoUrl,omitempty"`
}
