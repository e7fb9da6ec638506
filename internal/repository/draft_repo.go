package repository

import (
	"errors"
	"time"

	"github.com/groveboard/grove-backend/internal/domain"
	"gorm.io/gorm"
)

// DraftRepository autosaved draft data access interface
type DraftRepository interface {
	Save(draft *domain.Draft) error
	Latest(memberID int, context string) (*domain.Draft, error)
	List(memberID int) ([]*domain.Draft, error)
	Delete(id, memberID int) error
	// ExistsSameContent reports whether an identical draft is already saved.
	ExistsSameContent(memberID int, context, subject, body string) (bool, error)
}

type draftRepository struct {
	db *gorm.DB
}

// NewDraftRepository creates a new DraftRepository
func NewDraftRepository(db *gorm.DB) DraftRepository {
	return &draftRepository{db: db}
}

func (r *draftRepository) Save(draft *domain.Draft) error {
	draft.SavedAt = time.Now()
	return r.db.Create(draft).Error
}

func (r *draftRepository) Latest(memberID int, context string) (*domain.Draft, error) {
	var draft domain.Draft
	err := r.db.Where("id_member = ? AND context = ?", memberID, context).
		Order("saved_at DESC").
		First(&draft).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *draftRepository) List(memberID int) ([]*domain.Draft, error) {
	var drafts []*domain.Draft
	err := r.db.Where("id_member = ?", memberID).
		Order("saved_at DESC").
		Find(&drafts).Error
	if err != nil {
		return nil, err
	}
	return drafts, nil
}

func (r *draftRepository) Delete(id, memberID int) error {
	return r.db.Where("id_draft = ? AND id_member = ?", id, memberID).
		Delete(&domain.Draft{}).Error
}

func (r *draftRepository) ExistsSameContent(memberID int, context, subject, body string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Draft{}).
		Where("id_member = ? AND context = ? AND subject = ? AND body = ?", memberID, context, subject, body).
		Count(&count).Error
	return count > 0, err
}
