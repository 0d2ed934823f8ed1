package dto

import (
	"time"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// CourseCreateRequest describes the payload for creating a course.
type CourseCreateRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"omitempty"`
}

// TopicCreateRequest describes the payload for creating a topic under a course.
type TopicCreateRequest struct {
	Title    string `json:"title" validate:"required,min=3,max=255"`
	Subtitle string `json:"subtitle" validate:"omitempty,max=255"`
}

// QuestionCreateRequest describes the payload for creating a multiple-choice
// question under a topic.
type QuestionCreateRequest struct {
	Question      string `json:"question" validate:"required,min=3"`
	OptionA       string `json:"option_a" validate:"required"`
	OptionB       string `json:"option_b" validate:"required"`
	OptionC       string `json:"option_c" validate:"required"`
	OptionD       string `json:"option_d" validate:"required"`
	CorrectAnswer string `json:"correct_answer" validate:"required,oneof=a b c d"`
}

// CourseResponse is the serialized representation of a course.
type CourseResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TeacherID   *uint     `json:"teacher_id"`
	TeacherName string    `json:"teacher_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TopicResponse is the serialized representation of a topic.
type TopicResponse struct {
	ID          uint      `json:"id"`
	CourseID    uint      `json:"course_id"`
	CourseTitle string    `json:"course_title,omitempty"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle"`
	CreatedAt   time.Time `json:"created_at"`
}

// QuestionResponse is the serialized representation of a question. The correct
// answer is only populated for teacher-facing views.
type QuestionResponse struct {
	ID            uint      `json:"id"`
	TopicID       uint      `json:"topic_id"`
	Question      string    `json:"question"`
	OptionA       string    `json:"option_a"`
	OptionB       string    `json:"option_b"`
	OptionC       string    `json:"option_c"`
	OptionD       string    `json:"option_d"`
	CorrectAnswer string    `json:"correct_answer,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewCourseResponse converts a model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	response := CourseResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		TeacherID:   model.TeacherID,
		CreatedAt:   model.CreatedAt,
	}
	if model.Teacher != nil {
		response.TeacherName = model.Teacher.FullName
	}

	return response
}

// NewCourseResponseSlice converts a slice of models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}

	return responses
}

// NewTopicResponse converts a model into a DTO.
func NewTopicResponse(model models.Topic) TopicResponse {
	response := TopicResponse{
		ID:        model.ID,
		CourseID:  model.CourseID,
		Title:     model.Title,
		Subtitle:  model.Subtitle,
		CreatedAt: model.CreatedAt,
	}
	if model.Course != nil {
		response.CourseTitle = model.Course.Title
	}

	return response
}

// NewTopicResponseSlice converts a slice of models into DTOs.
func NewTopicResponseSlice(topics []models.Topic) []TopicResponse {
	responses := make([]TopicResponse, 0, len(topics))
	for _, topic := range topics {
		responses = append(responses, NewTopicResponse(topic))
	}

	return responses
}

// NewQuestionResponse converts a model into a DTO. When includeAnswer is false
// the correct option label is withheld.
func NewQuestionResponse(model models.Question, includeAnswer bool) QuestionResponse {
	response := QuestionResponse{
		ID:        model.ID,
		TopicID:   model.TopicID,
		Question:  model.Question,
		OptionA:   model.OptionA,
		OptionB:   model.OptionB,
		OptionC:   model.OptionC,
		OptionD:   model.OptionD,
		CreatedAt: model.CreatedAt,
	}
	if includeAnswer {
		response.CorrectAnswer = model.CorrectAnswer
	}

	return response
}

// NewQuestionResponseSlice converts a slice of models into DTOs.
func NewQuestionResponseSlice(questions []models.Question, includeAnswer bool) []QuestionResponse {
	responses := make([]QuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, NewQuestionResponse(question, includeAnswer))
	}

	return responses
}
