package models

import "time"

// Topic is a lesson unit inside exactly one course.
type Topic struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CourseID  uint       `gorm:"not null;index" json:"course_id"`
	Course    *Course    `gorm:"foreignKey:CourseID;constraint:OnDelete:RESTRICT" json:"course,omitempty"`
	Title     string     `gorm:"size:255;uniqueIndex;not null" json:"title"`
	Subtitle  string     `gorm:"size:255" json:"subtitle"`
	CreatedAt time.Time  `json:"created_at"`
	Questions []Question `json:"questions,omitempty"`
}
