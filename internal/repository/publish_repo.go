package repository

import (
	"github.com/groveboard/grove-backend/internal/domain"
	"gorm.io/gorm"
)

// PublishRepository commits the logical unit of a publication: message,
// topic, poll and board counters applied as one transaction. The message
// row is always created before any topic pointer moves onto it, so a
// concurrent reader never follows a pointer to a missing row.
type PublishRepository interface {
	// CreateTopic creates a topic with its first message and an optional
	// poll. On return topic.ID, msg.ID and poll.ID are assigned and the
	// topic's first/last pointers reference the message.
	CreateTopic(topic *domain.Topic, msg *domain.Message, poll *domain.Poll, choices []domain.PollChoice) error

	// CreateReply appends a message to an existing topic and applies any
	// resolved topic state changes in the same transaction.
	CreateReply(topic *domain.Topic, msg *domain.Message, edit *domain.TopicEdit) error

	// UpdateMessage applies a message edit, plus any resolved topic state
	// changes, in one transaction.
	UpdateMessage(msg *domain.Message, edit *domain.MessageEdit, topicID int, topicEdit *domain.TopicEdit) error
}

type publishRepository struct {
	db *gorm.DB
}

// NewPublishRepository creates a new PublishRepository
func NewPublishRepository(db *gorm.DB) PublishRepository {
	return &publishRepository{db: db}
}

func (r *publishRepository) CreateTopic(topic *domain.Topic, msg *domain.Message, poll *domain.Poll, choices []domain.PollChoice) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Topic row first to obtain the topic id; its message pointers
		// stay zero until the message row exists.
		if err := tx.Create(topic).Error; err != nil {
			return err
		}

		msg.TopicID = topic.ID
		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		topicUpdates := map[string]interface{}{
			"id_first_msg": msg.ID,
			"id_last_msg":  msg.ID,
			"last_post_at": msg.PostedAt,
		}

		if poll != nil {
			if err := tx.Create(poll).Error; err != nil {
				return err
			}
			for i := range choices {
				choices[i].PollID = poll.ID
			}
			if err := tx.Create(&choices).Error; err != nil {
				return err
			}
			topicUpdates["id_poll"] = poll.ID
			topic.PollID = poll.ID
		}

		if err := tx.Model(&domain.Topic{}).
			Where("id_topic = ?", topic.ID).
			Updates(topicUpdates).Error; err != nil {
			return err
		}
		topic.FirstMsgID = msg.ID
		topic.LastMsgID = msg.ID
		topic.LastPostAt = msg.PostedAt

		return tx.Model(&domain.Board{}).
			Where("id_board = ?", topic.BoardID).
			Updates(map[string]interface{}{
				"count_topics": gorm.Expr("count_topics + 1"),
				"count_posts":  gorm.Expr("count_posts + 1"),
				"id_last_msg":  msg.ID,
			}).Error
	})
}

func (r *publishRepository) CreateReply(topic *domain.Topic, msg *domain.Message, edit *domain.TopicEdit) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		msg.TopicID = topic.ID
		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"id_last_msg":  msg.ID,
			"last_post_at": msg.PostedAt,
			"num_replies":  gorm.Expr("num_replies + 1"),
		}
		applyTopicEdit(updates, edit)

		if err := tx.Model(&domain.Topic{}).
			Where("id_topic = ?", topic.ID).
			Updates(updates).Error; err != nil {
			return err
		}
		topic.LastMsgID = msg.ID
		topic.LastPostAt = msg.PostedAt
		topic.NumReplies++

		return tx.Model(&domain.Board{}).
			Where("id_board = ?", topic.BoardID).
			Updates(map[string]interface{}{
				"count_posts": gorm.Expr("count_posts + 1"),
				"id_last_msg": msg.ID,
			}).Error
	})
}

func (r *publishRepository) UpdateMessage(msg *domain.Message, edit *domain.MessageEdit, topicID int, topicEdit *domain.TopicEdit) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if edit.Subject != nil {
			updates["subject"] = *edit.Subject
		}
		if edit.Body != nil {
			updates["body"] = *edit.Body
		}
		if edit.Icon != nil {
			updates["icon"] = *edit.Icon
		}
		if edit.SmileysEnabled != nil {
			updates["smileys_enabled"] = *edit.SmileysEnabled
		}
		if edit.Approved != nil {
			updates["approved"] = *edit.Approved
		}
		if edit.ModifiedAt != nil {
			updates["modified_at"] = *edit.ModifiedAt
			updates["modified_name"] = edit.ModifiedName
			updates["modified_reason"] = edit.ModifiedReason
		}

		if len(updates) > 0 {
			if err := tx.Model(&domain.Message{}).
				Where("id_msg = ?", msg.ID).
				Updates(updates).Error; err != nil {
				return err
			}
		}

		if topicEdit.Empty() {
			return nil
		}
		topicUpdates := map[string]interface{}{}
		applyTopicEdit(topicUpdates, topicEdit)
		return tx.Model(&domain.Topic{}).
			Where("id_topic = ?", topicID).
			Updates(topicUpdates).Error
	})
}

func applyTopicEdit(updates map[string]interface{}, edit *domain.TopicEdit) {
	if edit == nil {
		return
	}
	if edit.Locked != nil {
		updates["locked"] = *edit.Locked
	}
	if edit.Sticky != nil {
		updates["is_sticky"] = *edit.Sticky
	}
	if edit.Approved != nil {
		updates["approved"] = *edit.Approved
	}
	if edit.PollID != nil {
		updates["id_poll"] = *edit.PollID
	}
}
