package domain

import "time"

// Setting is a persisted CLI configuration value (Key-Value), e.g. the API
// token and API URL.
type Setting struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
