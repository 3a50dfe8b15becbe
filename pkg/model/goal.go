package model

import "time"

// Goal is a user's weekly emission target in kg CO2.
type Goal struct {
	UserID       string    `gorm:"column:user_id;primaryKey" json:"user_id"`
	WeeklyTarget float64   `gorm:"column:weekly_target" json:"weekly_target"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Goal) TableName() string {
	return "user_goals"
}
