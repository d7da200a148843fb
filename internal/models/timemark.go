package models

import "time"

// TimeMark is a user-created annotation at an offset inside an audio
// file. Marks are hard-deleted only, either directly or by cascade
// when the owning AudioFile row is removed.
type TimeMark struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AudioFileID uint      `gorm:"index;not null" json:"audio_file_id"`
	TimeSeconds float64   `gorm:"not null" json:"time_seconds"`
	Note        string    `gorm:"size:200" json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}
