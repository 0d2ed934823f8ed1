package dto

import (
	"time"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// SubmitAnswerRequest describes the payload for answering a question.
type SubmitAnswerRequest struct {
	QuestionID     uint   `json:"question_id" validate:"required"`
	SelectedAnswer string `json:"selected_answer" validate:"required,oneof=a b c d"`
}

// SubmissionResponse is the serialized representation of a recorded answer.
type SubmissionResponse struct {
	ID             uint      `json:"id"`
	QuestionID     uint      `json:"question_id"`
	QuestionText   string    `json:"question_text,omitempty"`
	SelectedAnswer string    `json:"selected_answer"`
	IsCorrect      bool      `json:"is_correct"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// NewSubmissionResponse converts a model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:             model.ID,
		QuestionID:     model.QuestionID,
		SelectedAnswer: model.SelectedAnswer,
		IsCorrect:      model.IsCorrect,
		SubmittedAt:    model.SubmittedAt,
	}
	if model.Question != nil {
		response.QuestionText = model.Question.Question
	}

	return response
}

// NewSubmissionResponseSlice converts a slice of models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
