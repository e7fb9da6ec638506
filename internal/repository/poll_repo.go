package repository

import (
	"github.com/groveboard/grove-backend/internal/domain"
	"gorm.io/gorm"
)

// PollRepository poll data access interface. Polls and their choice rows
// are always written together; there is no partial-poll state.
type PollRepository interface {
	FindByID(id int) (*domain.Poll, error)
	// AttachToTopic creates the poll with its choices and points the topic
	// at it, all in one transaction.
	AttachToTopic(topicID int, poll *domain.Poll, choices []domain.PollChoice) error
}

type pollRepository struct {
	db *gorm.DB
}

// NewPollRepository creates a new PollRepository
func NewPollRepository(db *gorm.DB) PollRepository {
	return &pollRepository{db: db}
}

func (r *pollRepository) FindByID(id int) (*domain.Poll, error) {
	var poll domain.Poll
	if err := r.db.Where("id_poll = ?", id).First(&poll).Error; err != nil {
		return nil, err
	}
	return &poll, nil
}

func (r *pollRepository) AttachToTopic(topicID int, poll *domain.Poll, choices []domain.PollChoice) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(poll).Error; err != nil {
			return err
		}
		for i := range choices {
			choices[i].PollID = poll.ID
		}
		if err := tx.Create(&choices).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Topic{}).
			Where("id_topic = ?", topicID).
			Update("id_poll", poll.ID).Error
	})
}
