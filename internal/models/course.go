package models

import "time"

// Course is taught by a teacher and contains topics. TeacherID is nullable so
// that a teacher account can be removed without losing the catalog entry.
type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;uniqueIndex;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	TeacherID   *uint     `json:"teacher_id"`
	Teacher     *User     `gorm:"foreignKey:TeacherID;constraint:OnDelete:RESTRICT" json:"teacher,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Topics      []Topic   `json:"topics,omitempty"`
}
