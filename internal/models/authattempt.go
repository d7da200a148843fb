package models

import "time"

// AuthAttempt is one row in the append-only login ledger. Rows are
// never updated; unlocking the system deletes the whole table.
type AuthAttempt struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	IPAddress string    `gorm:"size:64" json:"ip_address"`
	Success   bool      `gorm:"index;not null" json:"success"`
	CreatedAt time.Time `json:"created_at"`
}
