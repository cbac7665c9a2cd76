package models

import (
	"time"
)

// User is a marketplace profile. The id comes from the authentication
// provider, so rows are created with an externally supplied key rather
// than a generated one.
type User struct {
	ID        string    `gorm:"type:varchar(64);primarykey" json:"id"`
	FullName  string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Email     string    `gorm:"type:varchar(255);index;not null" json:"email"`
	Skill     string    `gorm:"type:varchar(255);index" json:"skill"`
	Bio       *string   `gorm:"type:text" json:"bio,omitempty"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
