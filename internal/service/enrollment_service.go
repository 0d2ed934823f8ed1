package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/repository"
	"github.com/noah-isme/lms-go-api/internal/security"
)

var (
	// ErrAlreadyEnrolled indicates the (student, course) pair already exists.
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
	// ErrEnrollmentNotFound indicates no enrollment exists for the pair.
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)

// EnrollmentService manages the student ↔ course join records.
type EnrollmentService interface {
	Enroll(ctx context.Context, student security.Identity, payload dto.EnrollRequest) (dto.EnrollmentResponse, error)
	Unenroll(ctx context.Context, student security.Identity, courseID uint) error
	UpdateProgress(ctx context.Context, student security.Identity, courseID uint, payload dto.ProgressUpdateRequest) error
	ListMine(ctx context.Context, student security.Identity) ([]dto.EnrollmentResponse, error)
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewEnrollmentService builds the enrollment service.
func NewEnrollmentService(enrollments repository.EnrollmentRepository, courses repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollments,
		courses:     courses,
		validator:   validate,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
	}
}

// Enroll inserts directly and lets the composite unique index arbitrate
// concurrent attempts: exactly one insert wins, the rest surface as
// ErrAlreadyEnrolled.
func (s *enrollmentService) Enroll(ctx context.Context, student security.Identity, payload dto.EnrollRequest) (dto.EnrollmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrCourseNotFound
		}

		return dto.EnrollmentResponse{}, err
	}

	enrollment := models.Enrollment{
		StudentID: student.UserID,
		CourseID:  course.ID,
	}

	if err := s.enrollments.Create(ctx, &enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.EnrollmentResponse{}, ErrAlreadyEnrolled
		}

		return dto.EnrollmentResponse{}, err
	}

	enrollment.Course = &course

	s.logger.Info().Uint("student_id", student.UserID).Uint("course_id", course.ID).Msg("student enrolled")

	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) Unenroll(ctx context.Context, student security.Identity, courseID uint) error {
	if err := s.enrollments.Delete(ctx, student.UserID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentNotFound
		}

		return err
	}

	s.logger.Info().Uint("student_id", student.UserID).Uint("course_id", courseID).Msg("student unenrolled")

	return nil
}

func (s *enrollmentService) UpdateProgress(ctx context.Context, student security.Identity, courseID uint, payload dto.ProgressUpdateRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	if err := s.enrollments.UpdateProgress(ctx, student.UserID, courseID, *payload.Progress); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentNotFound
		}

		return err
	}

	return nil
}

func (s *enrollmentService) ListMine(ctx context.Context, student security.Identity) ([]dto.EnrollmentResponse, error) {
	enrollments, err := s.enrollments.ListByStudent(ctx, student.UserID)
	if err != nil {
		return nil, err
	}

	return dto.NewEnrollmentResponseSlice(enrollments), nil
}
