package models

import "time"

// BrowserState is one persisted client-state entry for a browser session.
type BrowserState struct {
	Namespace string     `gorm:"column:namespace;primaryKey;size:128"`
	Key       string     `gorm:"column:state_key;primaryKey;size:64"`
	Value     string     `gorm:"column:value;not null"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (BrowserState) TableName() string {
	return "browser_state"
}
