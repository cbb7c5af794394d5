package model

import "time"

// User stores Telegram user metadata and whether the user has presented a
// valid access key.
type User struct {
	ID         uint  `gorm:"primaryKey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	FirstName  string
	LastName   string
	Username   string
	Authorized bool `gorm:"default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AccessKey is a row of the app_config table. A login succeeds when a row
// with the presented key exists.
type AccessKey struct {
	ID        uint   `gorm:"primaryKey"`
	AccessKey string `gorm:"uniqueIndex;not null"`
}

// TableName keeps the table name used by the hosted backend.
func (AccessKey) TableName() string {
	return "app_config"
}
