package models

import "time"

// Role values assignable to a user account.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// User is the root identity record. PasswordHash always holds a digest,
// never plaintext.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	FullName     string     `gorm:"size:255;not null" json:"full_name"`
	Role         string     `gorm:"size:32;not null;default:student" json:"role"`
	IsAdmin      bool       `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`
}

// IsTeacher reports whether the account carries the teacher role.
func (u User) IsTeacher() bool {
	return u.Role == RoleTeacher
}
