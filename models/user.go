package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the kind of account a user holds
type Role string

const (
	RolePerson  Role = "person"
	RoleCompany Role = "company"
	RoleAdmin   Role = "admin"
)

var roleLabels = map[Role]string{
	RolePerson:  "Individual",
	RoleCompany: "Company",
	RoleAdmin:   "Administrator",
}

// Label returns the display name of the role
func (r Role) Label() string {
	return roleLabels[r]
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

// User represents a user in the system (renter, lessor or both)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Auth0ID   string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Role      Role           `gorm:"type:varchar(16);not null;default:'person'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
