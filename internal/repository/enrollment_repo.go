package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// EnrollmentRepository defines persistence operations for enrollments.
// Create relies on the composite unique index on (student_id, course_id) for
// correctness under concurrent enroll attempts; callers must not pre-check.
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByStudentAndCourse(ctx context.Context, studentID, courseID uint) (models.Enrollment, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Enrollment, error)
	UpdateProgress(ctx context.Context, studentID, courseID uint, progress int) error
	Delete(ctx context.Context, studentID, courseID uint) error
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
	CountByStudent(ctx context.Context, studentID uint) (int64, error)
	CountDistinctStudentsByTeacher(ctx context.Context, teacherID uint) (int64, error)
	CountAvailableCourses(ctx context.Context, studentID uint) (int64, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository instantiates a GORM-backed repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) GetByStudentAndCourse(ctx context.Context, studentID, courseID uint) (models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).
		First(&enrollment, "student_id = ? AND course_id = ?", studentID, courseID).Error; err != nil {
		return models.Enrollment{}, err
	}

	return enrollment, nil
}

func (r *enrollmentRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Course.Teacher").
		Where("student_id = ?", studentID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error; err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *enrollmentRepository) UpdateProgress(ctx context.Context, studentID, courseID uint, progress int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Update("progress", progress)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *enrollmentRepository) Delete(ctx context.Context, studentID, courseID uint) error {
	result := r.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Delete(&models.Enrollment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *enrollmentRepository) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *enrollmentRepository) CountByStudent(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ?", studentID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *enrollmentRepository) CountDistinctStudentsByTeacher(ctx context.Context, teacherID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.teacher_id = ?", teacherID).
		Distinct("enrollments.student_id").
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *enrollmentRepository) CountAvailableCourses(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id NOT IN (?)", r.db.Model(&models.Enrollment{}).
			Select("course_id").
			Where("student_id = ?", studentID)).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
