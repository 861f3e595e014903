package models

import "time"

// Record is one named, serialized snapshot stored by the persistence layer
// (the whole menu or the whole order ledger).
type Record struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
