package models

import "time"

// Session stores trusted login sessions (for logout, invalidation, audit).
// There are no user accounts: a session only asserts that whoever holds
// its cookie once presented the shared password.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64"` // UUID
	ExpiresAt time.Time `gorm:"index;not null"`
	Revoked   bool      `gorm:"index;not null"`
	CreatedAt time.Time
}
