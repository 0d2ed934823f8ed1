package models

import "time"

// Answer option labels. CorrectAnswer and Submission.SelectedAnswer are always
// one of these four values.
const (
	AnswerA = "a"
	AnswerB = "b"
	AnswerC = "c"
	AnswerD = "d"
)

// ValidAnswer reports whether label is one of the four option labels.
func ValidAnswer(label string) bool {
	switch label {
	case AnswerA, AnswerB, AnswerC, AnswerD:
		return true
	default:
		return false
	}
}

// Question is a multiple-choice question belonging to exactly one topic.
type Question struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TopicID       uint      `gorm:"not null;index" json:"topic_id"`
	Topic         *Topic    `gorm:"foreignKey:TopicID;constraint:OnDelete:RESTRICT" json:"topic,omitempty"`
	Question      string    `gorm:"type:text;not null" json:"question"`
	OptionA       string    `gorm:"size:512;not null" json:"option_a"`
	OptionB       string    `gorm:"size:512;not null" json:"option_b"`
	OptionC       string    `gorm:"size:512;not null" json:"option_c"`
	OptionD       string    `gorm:"size:512;not null" json:"option_d"`
	CorrectAnswer string    `gorm:"size:1;not null" json:"correct_answer"`
	CreatedAt     time.Time `json:"created_at"`
}

// Grade returns whether the selected option label matches this question's
// correct answer. Grading happens once, at submission time.
func (q Question) Grade(selected string) bool {
	return ValidAnswer(selected) && selected == q.CorrectAnswer
}
