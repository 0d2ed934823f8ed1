package models

import "time"

// Submission records one answer attempt by a student. Rows are append-only:
// IsCorrect is computed against the question's correct answer at submission
// time and is never recomputed when the question changes afterwards.
type Submission struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	StudentID      uint      `gorm:"not null;index" json:"student_id"`
	Student        *User     `gorm:"foreignKey:StudentID;constraint:OnDelete:RESTRICT" json:"student,omitempty"`
	QuestionID     uint      `gorm:"not null;index" json:"question_id"`
	Question       *Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:RESTRICT" json:"question,omitempty"`
	SelectedAnswer string    `gorm:"size:1;not null" json:"selected_answer"`
	IsCorrect      bool      `gorm:"not null" json:"is_correct"`
	SubmittedAt    time.Time `gorm:"autoCreateTime" json:"submitted_at"`
}
