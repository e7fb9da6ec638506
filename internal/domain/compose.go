package domain

import "time"

// SubmissionRequest is the explicit, immutable input to Publisher.Submit.
// Everything the pipeline needs travels here; there is no ambient
// request or session state.
type SubmissionRequest struct {
	BoardID   int `json:"board_id"`
	TopicID   int `json:"topic_id"`   // 0 = new topic
	MessageID int `json:"message_id"` // 0 = new message, otherwise edit

	Subject        string `json:"subject"`
	Body           string `json:"body"`
	Icon           string `json:"icon"`
	SmileysEnabled bool   `json:"smileys_enabled"`

	// Guest identity, validated only when the actor is a guest.
	GuestName  string `json:"guest_name,omitempty"`
	GuestEmail string `json:"guest_email,omitempty"`

	// Requested state changes. Nil = no change requested.
	Lock    *int  `json:"lock,omitempty"`
	Sticky  *bool `json:"sticky,omitempty"`
	Approve *bool `json:"approve,omitempty"`

	Poll *PollRequest `json:"poll,omitempty"`

	// Notify toggles the author's subscription to the topic.
	Notify *bool `json:"notify,omitempty"`

	ModifyReason string `json:"modify_reason,omitempty"`

	Preview bool `json:"preview"`

	// AttachContext selects the staging area the submission draws from.
	AttachContext string `json:"attach_context,omitempty"`

	// Token is the single-use submit token issued with the compose form.
	Token string `json:"token"`

	// Snapshot is the topic state captured when the form was rendered.
	// Absent for a brand-new topic.
	Snapshot *TopicSnapshot `json:"snapshot,omitempty"`
}

// IsNewTopic reports whether the submission opens a new topic.
func (r *SubmissionRequest) IsNewTopic() bool {
	return r.TopicID == 0 && r.MessageID == 0
}

// IsEdit reports whether the submission edits an existing message.
func (r *SubmissionRequest) IsEdit() bool {
	return r.MessageID != 0
}

// PublishResult identifies what a successful submission produced.
type PublishResult struct {
	TopicID   int         `json:"topic_id"`
	MessageID int         `json:"message_id"`
	PollID    int         `json:"poll_id,omitempty"`
	Approved  bool        `json:"approved"`
	Warnings  []PostError `json:"warnings,omitempty"`
}

// ComposeViewModel is everything the compose form needs: the editable
// content, the freshness snapshot, staged files and a submit token.
// Rendering it never mutates state.
type ComposeViewModel struct {
	BoardID   int `json:"board_id"`
	TopicID   int `json:"topic_id,omitempty"`
	MessageID int `json:"message_id,omitempty"`

	Subject        string `json:"subject"`
	Body           string `json:"body"`
	Icon           string `json:"icon"`
	SmileysEnabled bool   `json:"smileys_enabled"`

	Locked int  `json:"locked"`
	Sticky bool `json:"sticky"`

	CanLock   bool `json:"can_lock"`
	CanSticky bool `json:"can_sticky"`
	CanAttach bool `json:"can_attach"`
	CanPoll   bool `json:"can_poll"`

	Snapshot *TopicSnapshot `json:"snapshot,omitempty"`

	StagedAttachments []*StagedAttachment `json:"staged_attachments,omitempty"`

	Draft *Draft `json:"draft,omitempty"`

	Token string `json:"token"`

	Warnings []PostError `json:"warnings,omitempty"`
}

// Draft is an autosaved in-progress compose (forum_draft table).
type Draft struct {
	ID       int       `gorm:"column:id_draft;primaryKey;autoIncrement" json:"id"`
	MemberID int       `gorm:"column:id_member;index" json:"member_id"`
	Context  string    `gorm:"column:context;size:40;index" json:"context"`
	Subject  string    `gorm:"column:subject;size:255" json:"subject"`
	Body     string    `gorm:"column:body;type:mediumtext" json:"body"`
	SavedAt  time.Time `gorm:"column:saved_at" json:"saved_at"`
}

func (Draft) TableName() string {
	return "forum_draft"
}
