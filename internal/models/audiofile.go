package models

import "time"

// AudioFile represents one scanned audio file in the library.
// FilePath is stored relative to the configured audio root so the
// library can be moved without rewriting rows.
type AudioFile struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Filename        string     `gorm:"size:255;uniqueIndex;not null" json:"filename"`
	FilePath        string     `gorm:"size:1024;not null" json:"file_path"`
	DurationSeconds *int       `json:"duration_seconds"` // nil 表示元数据提取失败
	FileSizeBytes   int64      `gorm:"not null" json:"file_size_bytes"`
	CreatedAt       time.Time  `json:"created_at"`  // 文件系统创建时间
	ModifiedAt      time.Time  `json:"modified_at"` // 文件系统修改时间
	LastScanned     time.Time  `gorm:"index" json:"last_scanned"`
	Deleted         bool       `gorm:"index;default:false" json:"deleted"` // 软删除标记，磁盘上找不到时置位
	Marks           []TimeMark `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
