package services

import (
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/edurecords/student-mis/models"
	"github.com/edurecords/student-mis/utils"
)

// Authenticator result messages. "Invalid username or password" deliberately
// covers both unknown usernames and wrong passwords so that responses cannot
// be used to enumerate accounts.
const (
	MsgInvalidCredentials = "Invalid username or password"
	MsgAccountDisabled    = "Account is disabled"
	MsgAuthSuccessful     = "Authentication successful"
)

// floodGuardLimit is the number of attempts a single address may make in the
// trailing hour before further calls are rejected without touching the
// ledger. The rejection message matches a normal failed login so the limit
// itself is not observable from outside.
const floodGuardLimit = 100

// Authenticator turns a (username, password) pair into either a live session
// or a rejection, leaving an audit trail in the attempt ledger. Its four
// public operations are the only entry points the rest of the application
// calls into the authentication core.
type Authenticator struct {
	db       *gorm.DB
	sessions *SessionManager
	monitor  *LoginMonitor
	clock    utils.Clock
	logger   *slog.Logger
}

func NewAuthenticator(db *gorm.DB, sessions *SessionManager, monitor *LoginMonitor, clock utils.Clock, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		db:       db,
		sessions: sessions,
		monitor:  monitor,
		clock:    clock,
		logger:   logger,
	}
}

// Authenticate verifies credentials and creates a session on success.
//
// Every call writes exactly one attempt record, except calls rejected by the
// per-address flood guard, which write nothing. The attempt's user id is set
// whenever the username matched a real account, successful or not.
func (a *Authenticator) Authenticate(username, password, ipAddress, userAgent string) (*models.User, *models.UserSession, string) {
	if ipAddress != "" {
		oneHourAgo := utils.UTCNow(a.clock).Add(-time.Hour)
		var attempts int64
		if err := a.db.Model(&models.LoginAttempt{}).
			Where("ip_address = ? AND timestamp >= ?", ipAddress, oneHourAgo).
			Count(&attempts).Error; err != nil {
			return a.authError(err)
		}
		if attempts >= floodGuardLimit {
			return nil, nil, MsgInvalidCredentials
		}
	}

	var user models.User
	err := a.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := a.monitor.RecordAttempt(username, ipAddress, false, nil); err != nil {
			return a.authError(err)
		}
		return nil, nil, MsgInvalidCredentials
	}
	if err != nil {
		return a.authError(err)
	}

	if !user.IsActive {
		if err := a.monitor.RecordAttempt(username, ipAddress, false, &user); err != nil {
			return a.authError(err)
		}
		return nil, nil, MsgAccountDisabled
	}

	if !user.CheckPassword(password) {
		if err := a.monitor.RecordAttempt(username, ipAddress, false, &user); err != nil {
			return a.authError(err)
		}
		return nil, nil, MsgInvalidCredentials
	}

	session, message := a.sessions.CreateSession(&user, ipAddress, userAgent)
	if session == nil {
		// Session refused (for example the role limit); surface the session
		// manager's message verbatim.
		if err := a.monitor.RecordAttempt(username, ipAddress, false, &user); err != nil {
			return a.authError(err)
		}
		return nil, nil, message
	}

	if err := a.monitor.RecordAttempt(username, ipAddress, true, &user); err != nil {
		// The session committed but the ledger write failed. End the session
		// so a rejected login never leaves a usable token behind.
		a.sessions.EndSession(session.SessionToken)
		return a.authError(err)
	}

	return &user, session, MsgAuthSuccessful
}

// Logout ends the session identified by token.
func (a *Authenticator) Logout(token string) (bool, string) {
	return a.sessions.EndSession(token)
}

// ValidateSession checks a token and reports validity as a convenience flag
// alongside the owning user.
func (a *Authenticator) ValidateSession(token string) (bool, *models.User, string) {
	user, message := a.sessions.ValidateSession(token)
	return user != nil, user, message
}

// CleanupExpiredSessions runs the maintenance sweep.
func (a *Authenticator) CleanupExpiredSessions() int64 {
	return a.sessions.CleanupExpiredSessions()
}

func (a *Authenticator) authError(err error) (*models.User, *models.UserSession, string) {
	a.logger.Error("authentication failed", slog.Any("error", err))
	return nil, nil, "Authentication error: " + err.Error()
}
