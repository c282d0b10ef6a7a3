package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values a user can hold. Admin is also implied by the superuser flag.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID          string  `gorm:"primaryKey;type:uuid" json:"id"`
	Username    string  `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email       string  `gorm:"uniqueIndex;size:254;not null" json:"email"`
	FirstName   string  `gorm:"size:150" json:"first_name"`
	LastName    string  `gorm:"size:150" json:"last_name"`
	Bio         string  `gorm:"type:text" json:"bio"`
	Role        string  `gorm:"size:20;default:'user';not null" json:"role"`
	IsSuperuser bool    `gorm:"default:false;not null" json:"-"`
	// Bcrypt hash of the pending confirmation code. Cleared on successful
	// token exchange so a code cannot be replayed.
	ConfirmationCode *string    `gorm:"column:confirmation_code;size:128" json:"-"`
	CodeExpiresAt    *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

// IsAdmin reports whether the user holds admin rights.
func (user *User) IsAdmin() bool {
	return user.Role == RoleAdmin || user.IsSuperuser
}

// IsModerator reports whether the user holds the moderator role.
func (user *User) IsModerator() bool {
	return user.Role == RoleModerator
}

func (User) TableName() string {
	return "users"
}
