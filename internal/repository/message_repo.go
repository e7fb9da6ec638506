package repository

import (
	"github.com/groveboard/grove-backend/internal/domain"
	"gorm.io/gorm"
)

// MessageRepository message data access interface
type MessageRepository interface {
	FindByID(id int) (*domain.Message, error)
	// CountAfter counts messages in a topic newer than afterMsgID.
	// Unapproved messages are only counted when the viewer may see them.
	CountAfter(topicID, afterMsgID int, includeUnapproved bool) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) FindByID(id int) (*domain.Message, error) {
	var msg domain.Message
	if err := r.db.Where("id_msg = ?", id).First(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) CountAfter(topicID, afterMsgID int, includeUnapproved bool) (int64, error) {
	var count int64
	query := r.db.Model(&domain.Message{}).
		Where("id_topic = ?", topicID).
		Where("id_msg > ?", afterMsgID)
	if !includeUnapproved {
		query = query.Where("approved = ?", true)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
