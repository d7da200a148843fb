package auth

import (
	"fmt"
	"log"

	"sessionaudio/internal/models"

	"gorm.io/gorm"
)

// MaxFailedAttempts is the number of failed logins that locks the
// whole system. The count never decays: the lock survives restarts and
// holds until the attempt log is cleared by an operator.
const MaxFailedAttempts = 3

// Guard decides system-wide lockout from the durable AuthAttempt log.
type Guard struct {
	DB *gorm.DB
}

func NewGuard(db *gorm.DB) *Guard {
	return &Guard{DB: db}
}

// IsLocked reports whether the failure threshold has been reached.
func (g *Guard) IsLocked() (bool, error) {
	count, err := g.FailedAttempts()
	if err != nil {
		return false, err
	}
	return count >= MaxFailedAttempts, nil
}

// FailedAttempts counts failed attempts across the entire log.
func (g *Guard) FailedAttempts() (int64, error) {
	var count int64
	if err := g.DB.Model(&models.AuthAttempt{}).
		Where("success = ?", false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count failed attempts: %w", err)
	}
	return count, nil
}

// Record appends one attempt to the log.
func (g *Guard) Record(ip string, success bool) error {
	attempt := models.AuthAttempt{
		IPAddress: ip,
		Success:   success,
	}
	if err := g.DB.Create(&attempt).Error; err != nil {
		return fmt.Errorf("record auth attempt: %w", err)
	}

	outcome := "FAILED"
	if success {
		outcome = "SUCCESS"
	}
	log.Printf("auth attempt from %s: %s", ip, outcome)
	return nil
}

// Clear deletes every attempt row, resetting the failed count to zero
// and unlocking the system.
func (g *Guard) Clear() error {
	if err := g.DB.Where("1 = 1").Delete(&models.AuthAttempt{}).Error; err != nil {
		return fmt.Errorf("clear auth attempts: %w", err)
	}
	log.Printf("all auth attempts cleared")
	return nil
}

// Recent returns the latest attempts, newest first, for monitoring.
func (g *Guard) Recent(limit int) ([]models.AuthAttempt, error) {
	if limit <= 0 {
		limit = 10
	}
	var attempts []models.AuthAttempt
	if err := g.DB.
		Order("created_at DESC").
		Limit(limit).
		Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("list auth attempts: %w", err)
	}
	return attempts, nil
}
