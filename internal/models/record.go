package models

import "time"

// LocalRecord is one persisted keyed blob of the client store (the meal plan
// or the basket), stored as raw JSON text.
type LocalRecord struct {
	Key       string    `gorm:"primaryKey;size:191" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for LocalRecord
func (LocalRecord) TableName() string {
	return "local_records"
}
