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

// ErrInvalidAnswerLabel indicates the selected answer is not one of a/b/c/d.
var ErrInvalidAnswerLabel = errors.New("selected answer must be one of a, b, c, d")

// SubmissionService records answer attempts. Grading happens exactly once, at
// submission time, against the question as it exists then; a submission is
// never touched again afterwards.
type SubmissionService interface {
	Submit(ctx context.Context, student security.Identity, payload dto.SubmitAnswerRequest) (dto.SubmissionResponse, error)
	ListMine(ctx context.Context, student security.Identity) ([]dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	questions   repository.QuestionRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewSubmissionService builds the submission service.
func NewSubmissionService(submissions repository.SubmissionRepository, questions repository.QuestionRepository, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		questions:   questions,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
	}
}

func (s *submissionService) Submit(ctx context.Context, student security.Identity, payload dto.SubmitAnswerRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if !models.ValidAnswer(payload.SelectedAnswer) {
		return dto.SubmissionResponse{}, ErrInvalidAnswerLabel
	}

	question, err := s.questions.GetByID(ctx, payload.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrQuestionNotFound
		}

		return dto.SubmissionResponse{}, err
	}

	submission := models.Submission{
		StudentID:      student.UserID,
		QuestionID:     question.ID,
		SelectedAnswer: payload.SelectedAnswer,
		IsCorrect:      question.Grade(payload.SelectedAnswer),
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submission.Question = &question

	s.logger.Info().
		Uint("student_id", student.UserID).
		Uint("question_id", question.ID).
		Bool("is_correct", submission.IsCorrect).
		Msg("answer submitted")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) ListMine(ctx context.Context, student security.Identity) ([]dto.SubmissionResponse, error) {
	submissions, err := s.submissions.ListByStudent(ctx, student.UserID)
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}
