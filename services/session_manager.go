package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/edurecords/student-mis/config"
	"github.com/edurecords/student-mis/database"
	"github.com/edurecords/student-mis/models"
	"github.com/edurecords/student-mis/utils"
)

// Session manager result messages. The GUI layer surfaces these strings
// directly, so their wording is part of the contract.
const (
	MsgMaxConcurrentSessions     = "Maximum concurrent sessions reached for this role."
	MsgSessionCreated            = "Session created successfully."
	MsgSessionNotFoundOrInactive = "Session not found or inactive"
	MsgSessionExpired            = "Session expired"
	MsgUserNotFoundOrInactive    = "User not found or inactive"
	MsgSessionValid              = "Session valid"
	MsgSessionNotFound           = "Session not found"
	MsgSessionAlreadyEnded       = "Session already ended"
	MsgSessionEnded              = "Session ended successfully"
)

// SessionManager is the sole authority for session creation, validation and
// termination. It exclusively owns transitions of UserSession.IsActive and
// UserSession.LastActivity.
type SessionManager struct {
	db       *gorm.DB
	cache    *database.RedisClient
	settings *config.Settings
	clock    utils.Clock
	logger   *slog.Logger
	timeout  time.Duration
}

// NewSessionManager constructs a SessionManager. cache may be nil, in which
// case the Redis fast-path cache is skipped entirely.
func NewSessionManager(db *gorm.DB, cache *database.RedisClient, settings *config.Settings, clock utils.Clock, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		db:       db,
		cache:    cache,
		settings: settings,
		clock:    clock,
		logger:   logger,
		timeout:  settings.SessionTimeout(),
	}
}

// CreateSession issues a new session for an already-authenticated user.
//
// The admission check counts active non-expired sessions for the user's role;
// when the per-role limit is reached no session is created. Otherwise every
// active session belonging to the user is deactivated before the new one is
// inserted, so a login from a new location always invalidates the old one.
// All of it happens in a single transaction: either the new session is fully
// created and the old ones fully deactivated, or nothing changes.
func (sm *SessionManager) CreateSession(user *models.User, ipAddress, userAgent string) (*models.UserSession, string) {
	now := utils.UTCNow(sm.clock)

	tx := sm.db.Begin()
	if tx.Error != nil {
		return nil, sm.creationError(tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Active, non-expired sessions held by other users of this role. The
	// user's own sessions do not count against the limit: they are about to
	// be superseded, and counting them would block every re-login.
	cutoff := now.Add(-sm.timeout)
	var active int64
	if err := tx.Model(&models.UserSession{}).
		Joins("JOIN users ON users.id = user_sessions.user_id").
		Where("users.role = ? AND user_sessions.user_id <> ? AND user_sessions.is_active = ? AND user_sessions.last_activity >= ?",
			user.Role, user.ID, true, cutoff).
		Count(&active).Error; err != nil {
		tx.Rollback()
		return nil, sm.creationError(err)
	}
	if active >= int64(sm.settings.ConcurrentSessionLimit(string(user.Role))) {
		tx.Rollback()
		return nil, MsgMaxConcurrentSessions
	}

	// Supersede every active session of this user, across all roles.
	if err := tx.Model(&models.UserSession{}).
		Where("user_id = ? AND is_active = ?", user.ID, true).
		Update("is_active", false).Error; err != nil {
		tx.Rollback()
		return nil, sm.creationError(err)
	}

	token, err := models.GenerateSessionToken()
	if err != nil {
		tx.Rollback()
		return nil, sm.creationError(err)
	}

	session := &models.UserSession{
		UserID:       user.ID,
		SessionToken: token,
		IPAddress:    ipAddress,
		UserAgent:    userAgent,
		IsActive:     true,
		CreatedAt:    now,
		LastActivity: now,
	}
	if err := tx.Create(session).Error; err != nil {
		tx.Rollback()
		return nil, sm.creationError(err)
	}

	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
		Update("last_login", now).Error; err != nil {
		tx.Rollback()
		return nil, sm.creationError(err)
	}
	user.LastLogin = &now

	if err := tx.Commit().Error; err != nil {
		return nil, sm.creationError(err)
	}

	// Remember who logged in last for the clients' convenience display. The
	// settings file is best-effort; a failed write never undoes the login.
	if err := sm.settings.UpdateLastLogin(user.Username, now); err != nil {
		sm.logger.Warn("last login settings write failed", slog.Any("error", err))
	}

	sm.cacheSet(token, user.ID)
	return session, MsgSessionCreated
}

// ValidateSession checks that a token names an active, unexpired session whose
// owner is still active, then refreshes the session's idle window. Expiry is
// lazy: an idle session is marked inactive the moment it is next touched.
func (sm *SessionManager) ValidateSession(token string) (*models.User, string) {
	var session models.UserSession
	err := sm.db.Where("session_token = ? AND is_active = ?", token, true).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, MsgSessionNotFoundOrInactive
	}
	if err != nil {
		return nil, sm.validationError(err)
	}

	now := utils.UTCNow(sm.clock)
	if now.Sub(session.LastActivity) > sm.timeout {
		sm.deactivate(&session)
		return nil, MsgSessionExpired
	}

	var user models.User
	err = sm.db.First(&user, session.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !user.IsActive) {
		sm.deactivate(&session)
		return nil, MsgUserNotFoundOrInactive
	}
	if err != nil {
		return nil, sm.validationError(err)
	}

	// Sliding expiration: every successful validation extends the idle window.
	if err := sm.db.Model(&session).Update("last_activity", now).Error; err != nil {
		return nil, sm.validationError(err)
	}
	session.LastActivity = now
	sm.cacheSet(session.SessionToken, user.ID)

	return &user, MsgSessionValid
}

// EndSession deactivates a session. Ending an already-inactive session fails
// with a distinct message but corrupts nothing.
func (sm *SessionManager) EndSession(token string) (bool, string) {
	var session models.UserSession
	err := sm.db.Where("session_token = ?", token).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, MsgSessionNotFound
	}
	if err != nil {
		sm.logger.Error("session lookup failed", slog.Any("error", err))
		return false, "Session ending error: " + err.Error()
	}

	if !session.IsActive {
		return false, MsgSessionAlreadyEnded
	}

	if err := sm.db.Model(&session).Update("is_active", false).Error; err != nil {
		sm.logger.Error("session deactivation failed", slog.Any("error", err))
		return false, "Session ending error: " + err.Error()
	}
	sm.cacheDelete(token)

	return true, MsgSessionEnded
}

// CleanupExpiredSessions bulk-deactivates every active session idle past the
// timeout, in one set-based update. It is a best-effort maintenance sweep for
// a periodic external trigger: failures are logged and reported as zero rows,
// never propagated.
func (sm *SessionManager) CleanupExpiredSessions() int64 {
	cutoff := utils.UTCNow(sm.clock).Add(-sm.timeout)

	result := sm.db.Model(&models.UserSession{}).
		Where("is_active = ? AND last_activity < ?", true, cutoff).
		Update("is_active", false)
	if result.Error != nil {
		sm.logger.Error("session cleanup failed", slog.Any("error", result.Error))
		return 0
	}

	return result.RowsAffected
}

// deactivate marks a single session inactive outside of any caller
// transaction. Double-deactivation is harmless, so racing with the cleanup
// sweep is fine.
func (sm *SessionManager) deactivate(session *models.UserSession) {
	if err := sm.db.Model(session).Update("is_active", false).Error; err != nil {
		sm.logger.Error("session deactivation failed",
			slog.Uint64("session_id", uint64(session.ID)), slog.Any("error", err))
	}
	sm.cacheDelete(session.SessionToken)
}

func (sm *SessionManager) creationError(err error) string {
	sm.logger.Error("session creation failed", slog.Any("error", err))
	return "Session creation error: " + err.Error()
}

func (sm *SessionManager) validationError(err error) string {
	sm.logger.Error("session validation failed", slog.Any("error", err))
	return "Session validation error: " + err.Error()
}

// cacheSet refreshes the token cache entry. Cache failures are logged and
// ignored: the database row is the source of truth.
func (sm *SessionManager) cacheSet(token string, userID uint) {
	if sm.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := sm.cache.SetSession(ctx, token, userID, sm.timeout); err != nil {
		sm.logger.Warn("session cache set failed", slog.Any("error", err))
	}
}

func (sm *SessionManager) cacheDelete(token string) {
	if sm.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := sm.cache.DeleteSession(ctx, token); err != nil {
		sm.logger.Warn("session cache delete failed", slog.Any("error", err))
	}
}
