package repository

import (
	"github.com/groveboard/grove-backend/internal/domain"
	"gorm.io/gorm"
)

// AttachmentRepository persisted attachment data access interface
type AttachmentRepository interface {
	Create(att *domain.Attachment) error
	ListByMessage(messageID int) ([]*domain.Attachment, error)
}

type attachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new AttachmentRepository
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(att *domain.Attachment) error {
	return r.db.Create(att).Error
}

func (r *attachmentRepository) ListByMessage(messageID int) ([]*domain.Attachment, error) {
	var atts []*domain.Attachment
	err := r.db.Where("id_msg = ?", messageID).Order("id_attach").Find(&atts).Error
	if err != nil {
		return nil, err
	}
	return atts, nil
}
