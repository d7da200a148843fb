package util

import (
	"fmt"
	"strings"
)

// MaxNoteLength 标记备注的最大长度（字符数）
const MaxNoteLength = 200

// ValidateTimeSeconds 验证标记偏移（必须为非负数）
func ValidateTimeSeconds(seconds float64) error {
	if seconds < 0 {
		return fmt.Errorf("time_seconds must be non-negative, got %f", seconds)
	}
	return nil
}

// NormalizeNote 去除备注首尾空白并验证长度，返回处理后的备注
func NormalizeNote(note string) (string, error) {
	trimmed := strings.TrimSpace(note)
	if len([]rune(trimmed)) > MaxNoteLength {
		return "", fmt.Errorf("note too long, max %d characters", MaxNoteLength)
	}
	return trimmed, nil
}
