package domain

import "time"

// Topic lock states. Moderator locks bind everyone below moderator;
// a self lock only binds the topic starter's audience and any moderator
// may still post through it.
const (
	LockNone      = 0
	LockModerator = 1
	LockSelf      = 2
)

// Topic represents a forum topic (forum_topic table). FirstMsgID and
// LastMsgID are maintained inside the publish transaction and always
// reference existing message rows.
type Topic struct {
	ID         int       `gorm:"column:id_topic;primaryKey;autoIncrement" json:"id"`
	BoardID    int       `gorm:"column:id_board;index" json:"board_id"`
	StarterID  int       `gorm:"column:id_member_started;default:0" json:"starter_id"`
	FirstMsgID int       `gorm:"column:id_first_msg;default:0" json:"first_msg_id"`
	LastMsgID  int       `gorm:"column:id_last_msg;default:0" json:"last_msg_id"`
	PollID     int       `gorm:"column:id_poll;default:0" json:"poll_id"`
	NumReplies int       `gorm:"column:num_replies;default:0" json:"num_replies"`
	Locked     int       `gorm:"column:locked;default:0" json:"locked"`
	Sticky     bool      `gorm:"column:is_sticky;default:false" json:"sticky"`
	Approved   bool      `gorm:"column:approved;default:true" json:"approved"`
	LastPostAt time.Time `gorm:"column:last_post_at" json:"last_post_at"`
}

func (Topic) TableName() string {
	return "forum_topic"
}

// HasPoll reports whether a poll is attached to the topic.
func (t *Topic) HasPoll() bool {
	return t.PollID != 0
}

// Snapshot captures the state the compose form was rendered against,
// used to detect changes that happened while the user typed.
func (t *Topic) Snapshot() *TopicSnapshot {
	return &TopicSnapshot{
		LastMsgID:  t.LastMsgID,
		Locked:     t.Locked,
		Sticky:     t.Sticky,
		LastPostAt: t.LastPostAt,
	}
}

// TopicSnapshot is the client-held copy of the volatile topic state.
type TopicSnapshot struct {
	LastMsgID  int       `json:"last_msg_id"`
	Locked     int       `json:"locked"`
	Sticky     bool      `json:"sticky"`
	LastPostAt time.Time `json:"last_post_at"`
}
