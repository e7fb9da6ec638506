package domain

import "time"

// Message represents a single forum message (forum_message table).
// AuthorID 0 means a guest post; PosterName/PosterEmail carry the
// guest identity in that case.
type Message struct {
	ID             int        `gorm:"column:id_msg;primaryKey;autoIncrement" json:"id"`
	TopicID        int        `gorm:"column:id_topic;index" json:"topic_id"`
	BoardID        int        `gorm:"column:id_board;index" json:"board_id"`
	AuthorID       int        `gorm:"column:id_member;default:0" json:"author_id"`
	PosterName     string     `gorm:"column:poster_name;size:80" json:"poster_name"`
	PosterEmail    string     `gorm:"column:poster_email;size:255" json:"poster_email"`
	Subject        string     `gorm:"column:subject;size:255" json:"subject"`
	Body           string     `gorm:"column:body;type:mediumtext" json:"body"`
	Icon           string     `gorm:"column:icon;size:16;default:xx" json:"icon"`
	SmileysEnabled bool       `gorm:"column:smileys_enabled;default:true" json:"smileys_enabled"`
	Approved       bool       `gorm:"column:approved;default:true" json:"approved"`
	PostedAt       time.Time  `gorm:"column:posted_at" json:"posted_at"`
	ModifiedAt     *time.Time `gorm:"column:modified_at" json:"modified_at,omitempty"`
	ModifiedName   string     `gorm:"column:modified_name;size:80" json:"modified_name,omitempty"`
	ModifiedReason string     `gorm:"column:modified_reason;size:255" json:"modified_reason,omitempty"`
}

func (Message) TableName() string {
	return "forum_message"
}

// IsFirstIn reports whether this message opens the given topic.
func (m *Message) IsFirstIn(t *Topic) bool {
	return t != nil && t.FirstMsgID == m.ID
}

// MessageEdit carries the fields a submission wants changed on an existing
// message. Nil pointer means "no change requested".
type MessageEdit struct {
	Subject        *string
	Body           *string
	Icon           *string
	SmileysEnabled *bool
	Approved       *bool
	ModifiedName   string
	ModifiedReason string
	ModifiedAt     *time.Time
}

// Changed reports whether any content field differs from the message.
func (e *MessageEdit) Changed(m *Message) bool {
	if e.Subject != nil && *e.Subject != m.Subject {
		return true
	}
	if e.Body != nil && *e.Body != m.Body {
		return true
	}
	if e.Icon != nil && *e.Icon != m.Icon {
		return true
	}
	return false
}

// TopicEdit carries requested topic state changes resolved by the
// moderation state machine. Nil pointer means "leave as is".
type TopicEdit struct {
	Locked   *int
	Sticky   *bool
	Approved *bool
	PollID   *int
}

// Empty reports whether the edit changes nothing.
func (e *TopicEdit) Empty() bool {
	return e == nil || (e.Locked == nil && e.Sticky == nil && e.Approved == nil && e.PollID == nil)
}

// PosterInfo identifies who is posting, resolved from the authenticated
// actor or from validated guest fields.
type PosterInfo struct {
	MemberID int
	Name     string
	Email    string
}
