package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// TopicRepository defines persistence operations for topics.
type TopicRepository interface {
	Create(ctx context.Context, topic *models.Topic) error
	List(ctx context.Context) ([]models.Topic, error)
	ListByCourse(ctx context.Context, courseID uint) ([]models.Topic, error)
	GetByID(ctx context.Context, id uint) (models.Topic, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
}

type topicRepository struct {
	db *gorm.DB
}

// NewTopicRepository instantiates a GORM-backed repository.
func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) Create(ctx context.Context, topic *models.Topic) error {
	return r.db.WithContext(ctx).Create(topic).Error
}

func (r *topicRepository) List(ctx context.Context) ([]models.Topic, error) {
	var topics []models.Topic
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Order("id DESC").
		Find(&topics).Error; err != nil {
		return nil, err
	}

	return topics, nil
}

func (r *topicRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.Topic, error) {
	var topics []models.Topic
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at ASC").
		Find(&topics).Error; err != nil {
		return nil, err
	}

	return topics, nil
}

func (r *topicRepository) GetByID(ctx context.Context, id uint) (models.Topic, error) {
	var topic models.Topic
	if err := r.db.WithContext(ctx).First(&topic, id).Error; err != nil {
		return models.Topic{}, err
	}

	return topic, nil
}

func (r *topicRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Topic{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *topicRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Topic{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *topicRepository) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Topic{}).
		Where("course_id = ?", courseID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
