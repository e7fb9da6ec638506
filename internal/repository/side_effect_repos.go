package repository

import (
	"time"

	"github.com/groveboard/grove-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepository topic notification subscriptions
type SubscriptionRepository interface {
	Subscribe(memberID, topicID int) error
	Unsubscribe(memberID, topicID int) error
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Subscribe(memberID, topicID int) error {
	sub := &domain.Subscription{MemberID: memberID, TopicID: topicID, CreatedAt: time.Now()}
	// Re-subscribing is a no-op, not an error.
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(sub).Error
}

func (r *subscriptionRepository) Unsubscribe(memberID, topicID int) error {
	return r.db.Where("id_member = ? AND id_topic = ?", memberID, topicID).
		Delete(&domain.Subscription{}).Error
}

// ModerationLogRepository moderation audit trail
type ModerationLogRepository interface {
	Record(entry *domain.ModerationLogEntry) error
}

type moderationLogRepository struct {
	db *gorm.DB
}

// NewModerationLogRepository creates a new ModerationLogRepository
func NewModerationLogRepository(db *gorm.DB) ModerationLogRepository {
	return &moderationLogRepository{db: db}
}

func (r *moderationLogRepository) Record(entry *domain.ModerationLogEntry) error {
	entry.CreatedAt = time.Now()
	return r.db.Create(entry).Error
}

// ReadMarkRepository per-member read bookkeeping
type ReadMarkRepository interface {
	MarkRead(memberID, boardID, upToMsg int) error
}

type readMarkRepository struct {
	db *gorm.DB
}

// NewReadMarkRepository creates a new ReadMarkRepository
func NewReadMarkRepository(db *gorm.DB) ReadMarkRepository {
	return &readMarkRepository{db: db}
}

func (r *readMarkRepository) MarkRead(memberID, boardID, upToMsg int) error {
	mark := &domain.ReadMark{MemberID: memberID, BoardID: boardID, UpToMsg: upToMsg}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id_member"}, {Name: "id_board"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"id_msg": gorm.Expr("GREATEST(id_msg, ?)", upToMsg)}),
	}).Create(mark).Error
}
