package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/repository"
	"github.com/noah-isme/lms-go-api/internal/security"
)

var (
	// ErrCourseNotFound indicates the requested course does not exist.
	ErrCourseNotFound = errors.New("course not found")
	// ErrTopicNotFound indicates the requested topic does not exist.
	ErrTopicNotFound = errors.New("topic not found")
	// ErrQuestionNotFound indicates the requested question does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrCourseTitleTaken indicates the course title uniqueness constraint was violated.
	ErrCourseTitleTaken = errors.New("course title already exists")
	// ErrTopicTitleTaken indicates the topic title uniqueness constraint was violated.
	ErrTopicTitleTaken = errors.New("topic title already exists")
	// ErrCourseHasDependents blocks deleting a course that still has topics or
	// enrollments (restrict policy).
	ErrCourseHasDependents = errors.New("course has topics or enrollments")
	// ErrTopicHasQuestions blocks deleting a topic that still has questions.
	ErrTopicHasQuestions = errors.New("topic has questions")
	// ErrQuestionHasSubmissions blocks deleting a question that has recorded answers.
	ErrQuestionHasSubmissions = errors.New("question has submissions")
	// ErrNotCourseOwner indicates the actor neither owns the course nor is an admin.
	ErrNotCourseOwner = errors.New("not the course owner")
)

// CatalogService manages the course → topic → question containment chain.
type CatalogService interface {
	CreateCourse(ctx context.Context, actor security.Identity, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	ListCourses(ctx context.Context) ([]dto.CourseResponse, error)
	GetCourse(ctx context.Context, id uint) (dto.CourseResponse, error)
	DeleteCourse(ctx context.Context, actor security.Identity, id uint) error
	CreateTopic(ctx context.Context, actor security.Identity, courseID uint, payload dto.TopicCreateRequest) (dto.TopicResponse, error)
	ListTopics(ctx context.Context) ([]dto.TopicResponse, error)
	ListCourseTopics(ctx context.Context, courseID uint) ([]dto.TopicResponse, error)
	DeleteTopic(ctx context.Context, actor security.Identity, id uint) error
	CreateQuestion(ctx context.Context, actor security.Identity, topicID uint, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error)
	ListTopicQuestions(ctx context.Context, actor security.Identity, topicID uint) ([]dto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, actor security.Identity, id uint) error
}

type catalogService struct {
	courses     repository.CourseRepository
	topics      repository.TopicRepository
	questions   repository.QuestionRepository
	enrollments repository.EnrollmentRepository
	submissions repository.SubmissionRepository
	activity    ActivityService
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
}

// NewCatalogService builds the catalog service. Free-text fields are run
// through a UGC sanitizer before persistence.
func NewCatalogService(courses repository.CourseRepository, topics repository.TopicRepository, questions repository.QuestionRepository, enrollments repository.EnrollmentRepository, submissions repository.SubmissionRepository, activity ActivityService, validate *validator.Validate, logger zerolog.Logger) CatalogService {
	return &catalogService{
		courses:     courses,
		topics:      topics,
		questions:   questions,
		enrollments: enrollments,
		submissions: submissions,
		activity:    activity,
		validator:   validate,
		sanitizer:   bluemonday.UGCPolicy(),
		logger:      logger.With().Str("component", "catalog_service").Logger(),
	}
}

func (s *catalogService) CreateCourse(ctx context.Context, actor security.Identity, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	teacherID := actor.UserID
	course := models.Course{
		Title:       payload.Title,
		Description: s.sanitizer.Sanitize(payload.Description),
		TeacherID:   &teacherID,
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.CourseResponse{}, ErrCourseTitleTaken
		}

		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Uint("teacher_id", teacherID).Msg("course created")

	return dto.NewCourseResponse(course), nil
}

// ListCourses degrades to an empty catalog when storage is unavailable so the
// public landing pages stay up.
func (s *catalogService) ListCourses(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("course listing unavailable")
		return []dto.CourseResponse{}, nil
	}

	return dto.NewCourseResponseSlice(courses), nil
}

func (s *catalogService) GetCourse(ctx context.Context, id uint) (dto.CourseResponse, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}

		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course), nil
}

func (s *catalogService) DeleteCourse(ctx context.Context, actor security.Identity, id uint) error {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}

		return err
	}

	if err := s.requireOwnership(actor, course.TeacherID); err != nil {
		return err
	}

	topicCount, err := s.topics.CountByCourse(ctx, id)
	if err != nil {
		return err
	}
	enrollmentCount, err := s.enrollments.CountByCourse(ctx, id)
	if err != nil {
		return err
	}
	if topicCount > 0 || enrollmentCount > 0 {
		return ErrCourseHasDependents
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}

		return err
	}

	s.activity.Record(ctx, actor, "course.deleted", "course", &id, map[string]interface{}{"title": course.Title})

	return nil
}

func (s *catalogService) CreateTopic(ctx context.Context, actor security.Identity, courseID uint, payload dto.TopicCreateRequest) (dto.TopicResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TopicResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TopicResponse{}, ErrCourseNotFound
		}

		return dto.TopicResponse{}, err
	}

	if err := s.requireOwnership(actor, course.TeacherID); err != nil {
		return dto.TopicResponse{}, err
	}

	topic := models.Topic{
		CourseID: courseID,
		Title:    payload.Title,
		Subtitle: s.sanitizer.Sanitize(payload.Subtitle),
	}

	if err := s.topics.Create(ctx, &topic); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.TopicResponse{}, ErrTopicTitleTaken
		}

		return dto.TopicResponse{}, err
	}

	s.logger.Info().Uint("topic_id", topic.ID).Uint("course_id", courseID).Msg("topic created")

	return dto.NewTopicResponse(topic), nil
}

// ListTopics degrades to an empty listing when storage is unavailable.
func (s *catalogService) ListTopics(ctx context.Context) ([]dto.TopicResponse, error) {
	topics, err := s.topics.List(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("topic listing unavailable")
		return []dto.TopicResponse{}, nil
	}

	return dto.NewTopicResponseSlice(topics), nil
}

func (s *catalogService) ListCourseTopics(ctx context.Context, courseID uint) ([]dto.TopicResponse, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}

		return nil, err
	}

	topics, err := s.topics.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewTopicResponseSlice(topics), nil
}

func (s *catalogService) DeleteTopic(ctx context.Context, actor security.Identity, id uint) error {
	topic, err := s.topics.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTopicNotFound
		}

		return err
	}

	course, err := s.courses.GetByID(ctx, topic.CourseID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err == nil {
		if err := s.requireOwnership(actor, course.TeacherID); err != nil {
			return err
		}
	}

	questionCount, err := s.questions.CountByTopic(ctx, id)
	if err != nil {
		return err
	}
	if questionCount > 0 {
		return ErrTopicHasQuestions
	}

	if err := s.topics.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTopicNotFound
		}

		return err
	}

	s.activity.Record(ctx, actor, "topic.deleted", "topic", &id, map[string]interface{}{"title": topic.Title})

	return nil
}

func (s *catalogService) CreateQuestion(ctx context.Context, actor security.Identity, topicID uint, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	topic, err := s.topics.GetByID(ctx, topicID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrTopicNotFound
		}

		return dto.QuestionResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, topic.CourseID)
	if err == nil {
		if err := s.requireOwnership(actor, course.TeacherID); err != nil {
			return dto.QuestionResponse{}, err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.QuestionResponse{}, err
	}

	question := models.Question{
		TopicID:       topicID,
		Question:      s.sanitizer.Sanitize(payload.Question),
		OptionA:       payload.OptionA,
		OptionB:       payload.OptionB,
		OptionC:       payload.OptionC,
		OptionD:       payload.OptionD,
		CorrectAnswer: payload.CorrectAnswer,
	}

	if err := s.questions.Create(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	s.logger.Info().Uint("question_id", question.ID).Uint("topic_id", topicID).Msg("question created")

	return dto.NewQuestionResponse(question, true), nil
}

// ListTopicQuestions withholds the correct answer from students; teachers and
// admins see it.
func (s *catalogService) ListTopicQuestions(ctx context.Context, actor security.Identity, topicID uint) ([]dto.QuestionResponse, error) {
	if _, err := s.topics.GetByID(ctx, topicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}

		return nil, err
	}

	questions, err := s.questions.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}

	includeAnswer := actor.IsAdmin || actor.Role == models.RoleTeacher

	return dto.NewQuestionResponseSlice(questions, includeAnswer), nil
}

func (s *catalogService) DeleteQuestion(ctx context.Context, actor security.Identity, id uint) error {
	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}

		return err
	}

	submissionCount, err := s.submissions.CountByQuestion(ctx, id)
	if err != nil {
		return err
	}
	if submissionCount > 0 {
		return ErrQuestionHasSubmissions
	}

	if err := s.questions.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}

		return err
	}

	s.activity.Record(ctx, actor, "question.deleted", "question", &id, map[string]interface{}{"topic_id": question.TopicID})

	return nil
}

func (s *catalogService) requireOwnership(actor security.Identity, teacherID *uint) error {
	if actor.IsAdmin {
		return nil
	}
	if teacherID != nil && *teacherID == actor.UserID {
		return nil
	}

	return ErrNotCourseOwner
}
