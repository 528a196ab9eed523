package services

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/edurecords/student-mis/config"
	"github.com/edurecords/student-mis/models"
	"github.com/edurecords/student-mis/utils"
)

// LoginMonitor answers read-side lockout questions from the login attempt
// ledger and owns the single write path for attempt records. It never blocks
// anything itself; enforcement is the caller's decision.
type LoginMonitor struct {
	db       *gorm.DB
	settings *config.Settings
	clock    utils.Clock
	logger   *slog.Logger
}

func NewLoginMonitor(db *gorm.DB, settings *config.Settings, clock utils.Clock, logger *slog.Logger) *LoginMonitor {
	return &LoginMonitor{
		db:       db,
		settings: settings,
		clock:    clock,
		logger:   logger,
	}
}

// RecordAttempt appends one attempt to the ledger. Rows are never updated or
// deleted afterwards; retention is an external concern. user may be nil when
// the username matched no account.
func (lm *LoginMonitor) RecordAttempt(username, ipAddress string, successful bool, user *models.User) error {
	attempt := models.LoginAttempt{
		Username:   username,
		IPAddress:  ipAddress,
		Successful: successful,
		Timestamp:  utils.UTCNow(lm.clock),
	}
	if user != nil {
		attempt.UserID = &user.ID
	}

	if err := lm.db.Create(&attempt).Error; err != nil {
		lm.logger.Error("login attempt record failed",
			slog.String("username", username), slog.Any("error", err))
		return err
	}
	return nil
}

// IsAccountLocked reports whether the failed attempts for username within the
// trailing lockout window have reached the configured threshold.
func (lm *LoginMonitor) IsAccountLocked(username string) bool {
	threshold := utils.UTCNow(lm.clock).Add(-lm.settings.LockoutWindow())

	var failed int64
	if err := lm.db.Model(&models.LoginAttempt{}).
		Where("username = ? AND successful = ? AND timestamp >= ?", username, false, threshold).
		Count(&failed).Error; err != nil {
		lm.logger.Error("lockout check failed",
			slog.String("username", username), slog.Any("error", err))
		return false
	}

	return failed >= int64(lm.settings.Security.MaxFailedAttempts)
}

// GetFailedAttempts counts failed attempts for username over the trailing 24
// hours, for display and diagnostics.
func (lm *LoginMonitor) GetFailedAttempts(username string) int64 {
	threshold := utils.UTCNow(lm.clock).Add(-24 * time.Hour)

	var failed int64
	if err := lm.db.Model(&models.LoginAttempt{}).
		Where("username = ? AND successful = ? AND timestamp >= ?", username, false, threshold).
		Count(&failed).Error; err != nil {
		lm.logger.Error("failed attempt count failed",
			slog.String("username", username), slog.Any("error", err))
		return 0
	}

	return failed
}
