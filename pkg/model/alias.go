package model

// AnonymousAlias is shown on the leaderboard for users without an alias.
const AnonymousAlias = "Anonymous"

// Alias is the public name a user appears under on the leaderboard.
type Alias struct {
	UserID string `gorm:"column:user_id;primaryKey" json:"user_id"`
	Alias  string `gorm:"column:alias" json:"alias"`
}

func (Alias) TableName() string {
	return "leaderboard_aliases"
}
