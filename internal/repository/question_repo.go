package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// QuestionRepository defines persistence operations for multiple-choice questions.
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (models.Question, error)
	ListByTopic(ctx context.Context, topicID uint) ([]models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error
	CountByTopic(ctx context.Context, topicID uint) (int64, error)
	CountByTeacher(ctx context.Context, teacherID uint) (int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository instantiates a GORM-backed repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *questionRepository) GetByID(ctx context.Context, id uint) (models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return models.Question{}, err
	}

	return question, nil
}

func (r *questionRepository) ListByTopic(ctx context.Context, topicID uint) ([]models.Question, error) {
	var questions []models.Question
	if err := r.db.WithContext(ctx).
		Where("topic_id = ?", topicID).
		Order("id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *questionRepository) Update(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Save(question).Error
}

func (r *questionRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Question{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *questionRepository) CountByTopic(ctx context.Context, topicID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("topic_id = ?", topicID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *questionRepository) CountByTeacher(ctx context.Context, teacherID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Joins("JOIN topics ON topics.id = questions.topic_id").
		Joins("JOIN courses ON courses.id = topics.course_id").
		Where("courses.teacher_id = ?", teacherID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
