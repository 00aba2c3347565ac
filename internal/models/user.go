package models

import "time"

// User represents a registered account in the marketplace.
type User struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	Username   string     `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string     `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string     `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	DateJoined time.Time  `json:"date_joined" gorm:"autoCreateTime"`
	LastLogin  *time.Time `json:"last_login"`
}

// PublicUser is the reduced identity attached to product detail
// responses. It never carries credentials.
type PublicUser struct {
	ID         uint       `json:"id"`
	Username   string     `json:"username"`
	DateJoined time.Time  `json:"date_joined"`
	LastLogin  *time.Time `json:"last_login"`
}

// Public returns the user's public identity.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Username:   u.Username,
		DateJoined: u.DateJoined,
		LastLogin:  u.LastLogin,
	}
}
