package domain

import "time"

// Attachment is a file permanently bound to a message (forum_attachment
// table). Approved mirrors the message's approval state at the moment
// the staged file was promoted.
type Attachment struct {
	ID          int       `gorm:"column:id_attach;primaryKey;autoIncrement" json:"id"`
	MessageID   int       `gorm:"column:id_msg;index" json:"message_id"`
	Filename    string    `gorm:"column:filename;size:255" json:"filename"`
	StoredPath  string    `gorm:"column:stored_path;size:255" json:"-"`
	FileSize    int64     `gorm:"column:file_size" json:"file_size"`
	MimeType    string    `gorm:"column:mime_type;size:127" json:"mime_type"`
	Approved    bool      `gorm:"column:approved;default:true" json:"approved"`
	ThumbnailID *int      `gorm:"column:id_thumb" json:"thumbnail_id,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Attachment) TableName() string {
	return "forum_attachment"
}

// StagedAttachment is a file uploaded before the owning message exists.
// It lives in the staging store keyed by (member, context) until it is
// promoted into an Attachment or discarded. Not a database row.
type StagedAttachment struct {
	Key      string   `json:"key"` // opaque staging key
	MemberID int      `json:"member_id"`
	Context  string   `json:"context"` // editing context, e.g. "post" or "msg42"
	Filename string   `json:"filename"`
	TempPath string   `json:"temp_path"`
	Size     int64    `json:"size"`
	MimeType string   `json:"mime_type"`
	Errors   []string `json:"errors,omitempty"` // validation problems recorded at upload time
}

// Valid reports whether the staged file passed upload validation.
// Files with recorded errors are never promoted.
func (s *StagedAttachment) Valid() bool {
	return len(s.Errors) == 0
}
