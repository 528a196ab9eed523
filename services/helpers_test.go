package services_test

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/edurecords/student-mis/config"
	"github.com/edurecords/student-mis/database"
	"github.com/edurecords/student-mis/models"
	"github.com/edurecords/student-mis/services"
)

// fakeClock is a controllable clock for expiry and lockout tests.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestDB opens a private in-memory database with the full schema. A single
// connection keeps every query on the same in-memory instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestSettings(t *testing.T) *config.Settings {
	t.Helper()
	settings, err := config.LoadSettings(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	return settings
}

func newTestSessionManager(t *testing.T, db *gorm.DB) (*services.SessionManager, *fakeClock, *config.Settings) {
	t.Helper()
	clock := newFakeClock()
	settings := newTestSettings(t)
	return services.NewSessionManager(db, nil, settings, clock, testLogger()), clock, settings
}

func newTestAuthenticator(t *testing.T, db *gorm.DB) (*services.Authenticator, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	settings := newTestSettings(t)
	logger := testLogger()
	sessions := services.NewSessionManager(db, nil, settings, clock, logger)
	monitor := services.NewLoginMonitor(db, settings, clock, logger)
	return services.NewAuthenticator(db, sessions, monitor, clock, logger), clock
}

func createUser(t *testing.T, db *gorm.DB, username string, role models.Role, password string, active bool) *models.User {
	t.Helper()
	user := &models.User{Username: username, Role: role, IsActive: active}
	require.NoError(t, user.SetPassword(password))
	require.NoError(t, db.Create(user).Error)
	return user
}

func activeSessions(t *testing.T, db *gorm.DB, userID uint) []models.UserSession {
	t.Helper()
	var sessions []models.UserSession
	require.NoError(t, db.Where("user_id = ? AND is_active = ?", userID, true).Find(&sessions).Error)
	return sessions
}
