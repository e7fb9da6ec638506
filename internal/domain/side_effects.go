package domain

import "time"

// Subscription marks a member as notified about topic activity
// (forum_subscription table).
type Subscription struct {
	MemberID  int       `gorm:"column:id_member;primaryKey" json:"member_id"`
	TopicID   int       `gorm:"column:id_topic;primaryKey" json:"topic_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Subscription) TableName() string {
	return "forum_subscription"
}

// ModerationLogEntry records a moderation-relevant action
// (forum_moderation_log table).
type ModerationLogEntry struct {
	ID        int       `gorm:"column:id_entry;primaryKey;autoIncrement" json:"id"`
	ActorID   int       `gorm:"column:id_actor" json:"actor_id"`
	Action    string    `gorm:"column:action;size:40" json:"action"`
	BoardID   int       `gorm:"column:id_board" json:"board_id"`
	TopicID   int       `gorm:"column:id_topic" json:"topic_id"`
	MessageID int       `gorm:"column:id_msg" json:"message_id"`
	Details   string    `gorm:"column:details;type:text" json:"details"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ModerationLogEntry) TableName() string {
	return "forum_moderation_log"
}

// ReadMark tracks the newest message a member has seen on a board
// (forum_read_mark table).
type ReadMark struct {
	MemberID int `gorm:"column:id_member;primaryKey" json:"member_id"`
	BoardID  int `gorm:"column:id_board;primaryKey" json:"board_id"`
	UpToMsg  int `gorm:"column:id_msg" json:"up_to_msg"`
}

func (ReadMark) TableName() string {
	return "forum_read_mark"
}
