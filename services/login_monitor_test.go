package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/edurecords/student-mis/models"
	"github.com/edurecords/student-mis/services"
)

func newTestMonitor(t *testing.T) (*services.LoginMonitor, *fakeClock, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	clock := newFakeClock()
	monitor := services.NewLoginMonitor(db, newTestSettings(t), clock, testLogger())
	return monitor, clock, db
}

func TestRecordAttempt(t *testing.T) {
	monitor, clock, db := newTestMonitor(t)

	user := createUser(t, db, "admin", models.RoleAdmin, "Admin@123", true)

	require.NoError(t, monitor.RecordAttempt("ghost", "10.0.0.1", false, nil))
	require.NoError(t, monitor.RecordAttempt("admin", "10.0.0.2", true, user))

	var rows []models.LoginAttempt
	require.NoError(t, db.Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)

	assert.Equal(t, "ghost", rows[0].Username)
	assert.False(t, rows[0].Successful)
	assert.Nil(t, rows[0].UserID)
	assert.True(t, rows[0].Timestamp.Equal(clock.Now()))

	assert.Equal(t, "admin", rows[1].Username)
	assert.True(t, rows[1].Successful)
	require.NotNil(t, rows[1].UserID)
	assert.Equal(t, user.ID, *rows[1].UserID)
}

func TestIsAccountLockedThreshold(t *testing.T) {
	monitor, _, _ := newTestMonitor(t)

	for i := 0; i < 4; i++ {
		require.NoError(t, monitor.RecordAttempt("u", "", false, nil))
	}
	assert.False(t, monitor.IsAccountLocked("u"))

	require.NoError(t, monitor.RecordAttempt("u", "", false, nil))
	assert.True(t, monitor.IsAccountLocked("u"))

	// A sixth, successful attempt does not reset anything.
	require.NoError(t, monitor.RecordAttempt("u", "", true, nil))
	assert.True(t, monitor.IsAccountLocked("u"))

	// Other usernames are unaffected.
	assert.False(t, monitor.IsAccountLocked("v"))
}

func TestIsAccountLockedWindowElapses(t *testing.T) {
	monitor, clock, _ := newTestMonitor(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, monitor.RecordAttempt("u", "", false, nil))
	}
	assert.True(t, monitor.IsAccountLocked("u"))

	// The lockout clears once the 30 minute window has elapsed, with no new
	// attempts needed.
	clock.Advance(31 * time.Minute)
	assert.False(t, monitor.IsAccountLocked("u"))
}

func TestGetFailedAttemptsTrailingDay(t *testing.T) {
	monitor, clock, _ := newTestMonitor(t)

	require.NoError(t, monitor.RecordAttempt("u", "", false, nil))
	clock.Advance(23 * time.Hour)
	require.NoError(t, monitor.RecordAttempt("u", "", false, nil))
	require.NoError(t, monitor.RecordAttempt("u", "", true, nil))

	assert.Equal(t, int64(2), monitor.GetFailedAttempts("u"))

	// The first failure ages out of the 24 hour window.
	clock.Advance(2 * time.Hour)
	assert.Equal(t, int64(1), monitor.GetFailedAttempts("u"))
}
