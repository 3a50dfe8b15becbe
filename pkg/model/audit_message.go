package model

import "time"

// AuditMessage is a row written by audit.Store.
type AuditMessage struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Facility  int       `gorm:"column:facility"`
	Severity  int       `gorm:"column:severity"`
	Timestamp time.Time `gorm:"column:timestamp"`
	Hostname  string    `gorm:"column:hostname"`
	Appname   string    `gorm:"column:appname"`
	Procid    string    `gorm:"column:procid"`
	Msgid     string    `gorm:"column:msgid"`
	Sdata     string    `gorm:"column:sdata"`
	Message   string    `gorm:"column:message"`
}

func (AuditMessage) TableName() string {
	return "audit_messages"
}
