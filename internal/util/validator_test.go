package util

import (
	"strings"
	"testing"
)

// TestValidateTimeSeconds_Valid 测试有效偏移
func TestValidateTimeSeconds_Valid(t *testing.T) {
	testCases := []float64{0, 0.5, 1.0, 3599.99, 86400}

	for _, seconds := range testCases {
		err := ValidateTimeSeconds(seconds)
		if err != nil {
			t.Errorf("ValidateTimeSeconds(%f) error = %v, want nil", seconds, err)
		}
	}
}

// TestValidateTimeSeconds_Negative 测试负数偏移（异常）
func TestValidateTimeSeconds_Negative(t *testing.T) {
	testCases := []float64{-0.01, -1, -3600}

	for _, seconds := range testCases {
		err := ValidateTimeSeconds(seconds)
		if err == nil {
			t.Errorf("ValidateTimeSeconds(%f) error = nil, want error", seconds)
		}
	}
}

// TestNormalizeNote_Trim 测试备注去首尾空白
func TestNormalizeNote_Trim(t *testing.T) {
	note, err := NormalizeNote("  chorus starts here \n")
	if err != nil {
		t.Fatalf("NormalizeNote error = %v, want nil", err)
	}
	if note != "chorus starts here" {
		t.Errorf("NormalizeNote = %q, want %q", note, "chorus starts here")
	}
}

// TestNormalizeNote_MaxLength 刚好 200 字符应当通过
func TestNormalizeNote_MaxLength(t *testing.T) {
	note := strings.Repeat("a", MaxNoteLength)

	got, err := NormalizeNote(note)
	if err != nil {
		t.Fatalf("NormalizeNote(200 chars) error = %v, want nil", err)
	}
	if got != note {
		t.Errorf("NormalizeNote changed a max-length note")
	}
}

// TestNormalizeNote_TooLong 201 字符应当报错
func TestNormalizeNote_TooLong(t *testing.T) {
	note := strings.Repeat("a", MaxNoteLength+1)

	if _, err := NormalizeNote(note); err == nil {
		t.Error("NormalizeNote(201 chars) error = nil, want error")
	}
}

// TestNormalizeNote_TrimBeforeCount 先去空白再计数
func TestNormalizeNote_TrimBeforeCount(t *testing.T) {
	note := "  " + strings.Repeat("b", MaxNoteLength) + "  "

	if _, err := NormalizeNote(note); err != nil {
		t.Errorf("NormalizeNote(padded 200 chars) error = %v, want nil", err)
	}
}

// TestNormalizeNote_Empty 空备注合法
func TestNormalizeNote_Empty(t *testing.T) {
	got, err := NormalizeNote("")
	if err != nil {
		t.Fatalf("NormalizeNote(\"\") error = %v, want nil", err)
	}
	if got != "" {
		t.Errorf("NormalizeNote(\"\") = %q, want empty", got)
	}
}
