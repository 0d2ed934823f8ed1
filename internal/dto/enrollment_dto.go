package dto

import (
	"time"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// EnrollRequest describes the payload for enrolling in a course.
type EnrollRequest struct {
	CourseID uint `json:"course_id" validate:"required"`
}

// ProgressUpdateRequest describes the payload for recording course progress.
type ProgressUpdateRequest struct {
	Progress *int `json:"progress" validate:"required,min=0,max=100"`
}

// EnrollmentResponse is the serialized representation of an enrollment.
type EnrollmentResponse struct {
	ID          uint      `json:"id"`
	CourseID    uint      `json:"course_id"`
	CourseTitle string    `json:"course_title,omitempty"`
	TeacherName string    `json:"teacher_name,omitempty"`
	Progress    int       `json:"progress"`
	EnrolledAt  time.Time `json:"enrolled_at"`
}

// NewEnrollmentResponse converts a model into a DTO.
func NewEnrollmentResponse(model models.Enrollment) EnrollmentResponse {
	response := EnrollmentResponse{
		ID:         model.ID,
		CourseID:   model.CourseID,
		Progress:   model.Progress,
		EnrolledAt: model.EnrolledAt,
	}
	if model.Course != nil {
		response.CourseTitle = model.Course.Title
		if model.Course.Teacher != nil {
			response.TeacherName = model.Course.Teacher.FullName
		}
	}

	return response
}

// NewEnrollmentResponseSlice converts a slice of models into DTOs.
func NewEnrollmentResponseSlice(enrollments []models.Enrollment) []EnrollmentResponse {
	responses := make([]EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		responses = append(responses, NewEnrollmentResponse(enrollment))
	}

	return responses
}
