package models

import (
	"time"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36"       json:"id"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	FirstName    string    `gorm:"not null"                 json:"firstName"`
	LastName     string    `gorm:"not null"                 json:"lastName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RefreshToken is created once per user on the first successful login and is
// only removed again on logout.
type RefreshToken struct {
	ID     uint   `gorm:"primaryKey"       json:"id"`
	Token  string `gorm:"unique;not null"  json:"token"`
	UserID string `gorm:"index;not null"   json:"user_id"`
}

// FailedLoginAttempt counts consecutive failed logins per email. One row per
// email; the row is deleted on a successful login or when a lockout starts.
type FailedLoginAttempt struct {
	ID        uint   `gorm:"primaryKey"           json:"id"`
	UserEmail string `gorm:"uniqueIndex;not null" json:"user_email"`
	Attempts  int    `gorm:"not null"             json:"attempts"`
}

// LockoutInformation holds the lockout expiry per email. A lockout is active
// only while LockoutUntil is in the future; stale rows are ignored rather
// than deleted.
type LockoutInformation struct {
	ID           uint      `gorm:"primaryKey"           json:"id"`
	UserEmail    string    `gorm:"uniqueIndex;not null" json:"user_email"`
	LockoutUntil time.Time `gorm:"not null"             json:"lockout_until"`
}

type Track struct {
	ID         uint   `gorm:"primaryKey"           json:"id"`
	SpotifyID  string `gorm:"uniqueIndex;not null" json:"spotify_id"`
	Name       string `gorm:"not null"             json:"name"`
	Artist     string `gorm:"not null"             json:"artist"`
	PreviewURL string `gorm:"not null"             json:"preview_url"`
	ImageURL   string `json:"image_url"`
	Theme      string `gorm:"index;not null"       json:"theme"`
}
