package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/repository"
	"github.com/noah-isme/lms-go-api/internal/security"
)

// DashboardService produces aggregated role-specific dashboards and the
// public landing-page counters.
type DashboardService interface {
	StudentDashboard(ctx context.Context, student security.Identity) (dto.StudentDashboardResponse, error)
	TeacherDashboard(ctx context.Context, teacher security.Identity) (dto.TeacherDashboardResponse, error)
	SiteStats(ctx context.Context) dto.SiteStatsResponse
}

type dashboardService struct {
	users       repository.UserRepository
	courses     repository.CourseRepository
	topics      repository.TopicRepository
	questions   repository.QuestionRepository
	enrollments repository.EnrollmentRepository
	submissions repository.SubmissionRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewDashboardService builds the dashboard aggregator.
func NewDashboardService(users repository.UserRepository, courses repository.CourseRepository, topics repository.TopicRepository, questions repository.QuestionRepository, enrollments repository.EnrollmentRepository, submissions repository.SubmissionRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		users:       users,
		courses:     courses,
		topics:      topics,
		questions:   questions,
		enrollments: enrollments,
		submissions: submissions,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) StudentDashboard(ctx context.Context, student security.Identity) (dto.StudentDashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:student:%d", student.UserID)

	var cached dto.StudentDashboardResponse
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	enrollments, err := s.enrollments.ListByStudent(ctx, student.UserID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	available, err := s.enrollments.CountAvailableCourses(ctx, student.UserID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	submissions, err := s.submissions.ListByStudent(ctx, student.UserID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	correct := 0
	for _, submission := range submissions {
		if submission.IsCorrect {
			correct++
		}
	}

	response := dto.StudentDashboardResponse{
		FullName:         student.FullName,
		EnrolledCourses:  dto.NewEnrollmentResponseSlice(enrollments),
		AvailableCourses: available,
		AnswersSubmitted: len(submissions),
		AnswersCorrect:   correct,
	}

	s.writeCache(ctx, cacheKey, response)

	return response, nil
}

func (s *dashboardService) TeacherDashboard(ctx context.Context, teacher security.Identity) (dto.TeacherDashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:teacher:%d", teacher.UserID)

	var cached dto.TeacherDashboardResponse
	if s.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	courses, err := s.courses.ListByTeacher(ctx, teacher.UserID)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	students, err := s.enrollments.CountDistinctStudentsByTeacher(ctx, teacher.UserID)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	questions, err := s.questions.CountByTeacher(ctx, teacher.UserID)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	response := dto.TeacherDashboardResponse{
		FullName:       teacher.FullName,
		MyCourses:      dto.NewCourseResponseSlice(courses),
		TotalStudents:  students,
		TotalQuestions: questions,
	}

	s.writeCache(ctx, cacheKey, response)

	return response, nil
}

// SiteStats never fails: any counter the storage layer cannot produce is
// reported as zero so the landing page stays up without its tables.
func (s *dashboardService) SiteStats(ctx context.Context) dto.SiteStatsResponse {
	return dto.SiteStatsResponse{
		Courses: s.safeCount(ctx, "courses", s.courses.Count),
		Topics:  s.safeCount(ctx, "topics", s.topics.Count),
		Users:   s.safeCount(ctx, "users", s.users.Count),
	}
}

func (s *dashboardService) safeCount(ctx context.Context, name string, count func(context.Context) (int64, error)) int64 {
	value, err := count(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Str("counter", name).Msg("stats counter unavailable")
		return 0
	}

	return value
}

func (s *dashboardService) readCache(ctx context.Context, key string, target interface{}) bool {
	if s.cache == nil {
		return false
	}

	cached, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
		return false
	}

	if err := json.Unmarshal([]byte(cached), target); err != nil {
		return false
	}

	s.logger.Debug().Str("key", key).Msg("dashboard cache hit")

	return true
}

func (s *dashboardService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
	}
}
