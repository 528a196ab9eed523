package models

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// UserSession is one login session. Sessions are deactivated, never deleted;
// all timestamps are naive UTC.
type UserSession struct {
	ID           uint   `gorm:"primarykey"`
	UserID       uint   `gorm:"not null"`
	SessionToken string `gorm:"size:255;unique;not null"`
	IPAddress    string `gorm:"size:45"`
	UserAgent    string `gorm:"size:255"`
	IsActive     bool   `gorm:"default:true"`
	CreatedAt    time.Time
	LastActivity time.Time
	User         User `gorm:"foreignkey:UserID"`
}

// LoginAttempt is an append-only audit record. Username is a plain string, not
// a foreign key: failed attempts may name users that do not exist. UserID is
// populated whenever the username matched a real account, success or not.
type LoginAttempt struct {
	ID         uint   `gorm:"primarykey"`
	Username   string `gorm:"size:50;not null"`
	IPAddress  string `gorm:"size:45"`
	Successful bool   `gorm:"default:false"`
	Timestamp  time.Time
	UserID     *uint
	User       *User `gorm:"foreignkey:UserID"`
}

// GenerateSessionToken returns an opaque URL-safe bearer token carrying 32
// bytes of entropy (43 characters once encoded).
func GenerateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
