package domain

// Poll choice count bounds and hide-results modes.
const (
	PollMinChoices = 2
	PollMaxChoices = 256

	HideResultsNever       = 0 // results always visible
	HideResultsUntilVoted  = 1 // hidden until the viewer voted or the poll closed
	HideResultsUntilExpiry = 2 // hidden until the expiry passes (requires an expiry)
)

// Poll represents a topic poll (forum_poll table). Polls are created once,
// atomically with the owning topic or message, and never mutated here.
type Poll struct {
	ID          int    `gorm:"column:id_poll;primaryKey;autoIncrement" json:"id"`
	Question    string `gorm:"column:question;size:255" json:"question"`
	MaxVotes    int    `gorm:"column:max_votes;default:1" json:"max_votes"`
	HideResults int    `gorm:"column:hide_results;default:0" json:"hide_results"`
	ChangeVote  bool   `gorm:"column:change_vote;default:false" json:"change_vote"`
	GuestVote   bool   `gorm:"column:guest_vote;default:false" json:"guest_vote"`
	ExpiresAt   int64  `gorm:"column:expires_at;default:0" json:"expires_at"` // unix seconds, 0 = never
}

func (Poll) TableName() string {
	return "forum_poll"
}

// PollChoice is one selectable option (forum_poll_choice table).
type PollChoice struct {
	PollID   int    `gorm:"column:id_poll;primaryKey" json:"poll_id"`
	ChoiceNo int    `gorm:"column:id_choice;primaryKey" json:"choice_no"`
	Label    string `gorm:"column:label;size:255" json:"label"`
	Votes    int    `gorm:"column:votes;default:0" json:"votes"`
}

func (PollChoice) TableName() string {
	return "forum_poll_choice"
}

// PollRequest is the submitted poll portion of a compose submission.
type PollRequest struct {
	Question    string   `json:"question"`
	Choices     []string `json:"choices"`
	MaxVotes    int      `json:"max_votes"`
	HideResults int      `json:"hide_results"`
	ChangeVote  bool     `json:"change_vote"`
	GuestVote   bool     `json:"guest_vote"`
	ExpiresAt   int64    `json:"expires_at"`
}
