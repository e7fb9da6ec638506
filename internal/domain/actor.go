package domain

// Member levels, matching the JWT claim. The permission oracle maps
// these to capabilities; nothing else should branch on the raw level.
const (
	LevelGuest     = 0
	LevelMember    = 1
	LevelModerator = 8
	LevelAdmin     = 10
)

// Actor is the authenticated (or guest) user a request acts as.
type Actor struct {
	ID    int    `json:"id"` // 0 = guest
	Name  string `json:"name"`
	Email string `json:"email"`
	Level int    `json:"level"`
}

// IsGuest reports whether the actor is unauthenticated.
func (a *Actor) IsGuest() bool {
	return a.ID == 0
}

// Guest returns the anonymous actor.
func Guest() *Actor {
	return &Actor{Level: LevelGuest}
}
