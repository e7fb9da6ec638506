package repository

import (
	"github.com/groveboard/grove-backend/internal/domain"
	"gorm.io/gorm"
)

// TopicRepository topic data access interface
type TopicRepository interface {
	FindByID(id int) (*domain.Topic, error)
}

type topicRepository struct {
	db *gorm.DB
}

// NewTopicRepository creates a new TopicRepository
func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) FindByID(id int) (*domain.Topic, error) {
	var topic domain.Topic
	if err := r.db.Where("id_topic = ?", id).First(&topic).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}
