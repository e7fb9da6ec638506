package domain

// Board represents a forum board (forum_board table).
type Board struct {
	ID          int    `gorm:"column:id_board;primaryKey;autoIncrement" json:"id"`
	Slug        string `gorm:"column:slug;size:50;uniqueIndex" json:"slug"`
	Name        string `gorm:"column:name;size:100" json:"name"`
	Description string `gorm:"column:description;size:255" json:"description"`

	// PostModeration means new posts on this board need approval before
	// they become visible.
	PostModeration bool `gorm:"column:post_moderation;default:false" json:"post_moderation"`

	CountTopics int `gorm:"column:count_topics;default:0" json:"count_topics"`
	CountPosts  int `gorm:"column:count_posts;default:0" json:"count_posts"`
	LastMsgID   int `gorm:"column:id_last_msg;default:0" json:"last_msg_id"`
}

func (Board) TableName() string {
	return "forum_board"
}
