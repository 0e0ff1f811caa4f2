package models

import "time"

type UserRole string

const (
	RoleApplicant UserRole = "applicant"
	RoleCompany   UserRole = "company"
)

// Column widths of users.name and users.email.
const (
	MaxNameLen  = 100
	MaxEmailLen = 120
)

func (r UserRole) Valid() bool {
	return r == RoleApplicant || r == RoleCompany
}

type User struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Email     string    `gorm:"column:email;type:varchar(120);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"column:password;type:varchar(255);not null" json:"-"`
	Role      UserRole  `gorm:"column:role;type:user_roles;not null" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (User) TableName() string { return "users" }
