package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role determines what a user may do. Admins manage tasks and users;
// regular users act only on tasks they are assigned to.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents an account in the system.
type User struct {
	ID              uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name            string    `json:"name" gorm:"size:255;not null"`
	Email           string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash    string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role            Role      `json:"role" gorm:"type:varchar(10);not null;default:'user';index"`
	ProfileImageURL string    `json:"profileImageUrl" gorm:"size:512"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
