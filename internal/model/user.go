package model

import "time"

// Role is the closed set of account roles.
type Role string

const (
	RoleAdministrator Role = "administrador"
	RoleManager       Role = "gestor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdministrator || r == RoleManager
}

// User represents an account allowed to answer questionnaires and read reports.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;type:varchar(64);not null"` // Never expose in JSON
	Role         Role      `json:"role" gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName pins the table name used by the original schema.
func (User) TableName() string {
	return "users"
}
