package models

import "time"

// Enrollment links one student to one course. The composite unique index is
// the storage-level guarantee that concurrent enroll attempts cannot produce
// two rows for the same (student, course) pair.
type Enrollment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_enrollment_student_course" json:"student_id"`
	Student    *User     `gorm:"foreignKey:StudentID;constraint:OnDelete:RESTRICT" json:"student,omitempty"`
	CourseID   uint      `gorm:"not null;uniqueIndex:idx_enrollment_student_course" json:"course_id"`
	Course     *Course   `gorm:"foreignKey:CourseID;constraint:OnDelete:RESTRICT" json:"course,omitempty"`
	Progress   int       `gorm:"not null;default:0" json:"progress"`
	EnrolledAt time.Time `gorm:"autoCreateTime" json:"enrolled_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
