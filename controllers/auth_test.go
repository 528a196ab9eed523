package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/edurecords/student-mis/config"
	"github.com/edurecords/student-mis/controllers"
	"github.com/edurecords/student-mis/database"
	"github.com/edurecords/student-mis/models"
	"github.com/edurecords/student-mis/routes"
	"github.com/edurecords/student-mis/services"
	"github.com/edurecords/student-mis/utils"
)

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	cache  *database.RedisClient
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	cache := database.NewRedisClientFromExisting(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	settings, err := config.LoadSettings(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := utils.SystemClock()

	sessions := services.NewSessionManager(db, cache, settings, clock, logger)
	monitor := services.NewLoginMonitor(db, settings, clock, logger)
	auth := services.NewAuthenticator(db, sessions, monitor, clock, logger)
	rbac := services.NewRBAC()
	students := services.NewStudentService(db, logger)

	router := gin.New()
	routes.SetupRoutes(router,
		rbac,
		controllers.NewAuthController(auth, monitor, cache, settings.SessionTimeout()),
		controllers.NewUserController(db, rbac),
		controllers.NewStudentController(students))

	return &testServer{router: router, db: db, cache: cache}
}

func (ts *testServer) createUser(t *testing.T, username string, role models.Role, password string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Role: role, IsActive: true}
	require.NoError(t, user.SetPassword(password))
	require.NoError(t, ts.db.Create(user).Error)
	return user
}

func (ts *testServer) login(t *testing.T, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "session_token" {
			return cookie
		}
	}
	t.Fatal("no session_token cookie in response")
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLoginSuccess(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "admin", models.RoleAdmin, "Admin@123")

	rec := ts.login(t, "admin", "Admin@123")
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(t, rec)
	assert.Len(t, cookie.Value, 43)
	assert.True(t, cookie.HttpOnly)

	body := decodeBody(t, rec)
	assert.Equal(t, services.MsgAuthSuccessful, body["message"])
	data := body["data"].(map[string]interface{})
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "admin", user["username"])
	assert.Equal(t, "admin", user["role"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "admin", models.RoleAdmin, "Admin@123")

	rec := ts.login(t, "admin", "wrong-password")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, services.MsgInvalidCredentials, decodeBody(t, rec)["error"])

	// An unknown user is indistinguishable from a wrong password.
	rec = ts.login(t, "nobody", "wrong-password")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, services.MsgInvalidCredentials, decodeBody(t, rec)["error"])
}

func TestLoginRoleLimitConflict(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "teacher1", models.RoleTeacher, "Teach@123")
	ts.createUser(t, "teacher2", models.RoleTeacher, "Teach@123")

	require.Equal(t, http.StatusOK, ts.login(t, "teacher1", "Teach@123").Code)

	rec := ts.login(t, "teacher2", "Teach@123")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, services.MsgMaxConcurrentSessions, decodeBody(t, rec)["error"])
}

func TestAuthMiddleware(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "admin", models.RoleAdmin, "Admin@123")

	// No cookie.
	req := httptest.NewRequest(http.MethodGet, "/auth/user/me", nil)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Bogus cookie.
	req = httptest.NewRequest(http.MethodGet, "/auth/user/me", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "not-a-real-token"})
	rec = httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid session.
	cookie := sessionCookie(t, ts.login(t, "admin", "Admin@123"))
	req = httptest.NewRequest(http.MethodGet, "/auth/user/me", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeBody(t, rec)["data"].(map[string]interface{})
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "admin", user["username"])
	assert.NotEmpty(t, user["permissions"])
}

func TestLogoutFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "admin", models.RoleAdmin, "Admin@123")

	cookie := sessionCookie(t, ts.login(t, "admin", "Admin@123"))

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// The session no longer authenticates.
	req = httptest.NewRequest(http.MethodGet, "/auth/user/me", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPermissionDenied(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "teacher1", models.RoleTeacher, "Teach@123")

	cookie := sessionCookie(t, ts.login(t, "teacher1", "Teach@123"))

	// Teachers may read student data but not delete it.
	req := httptest.NewRequest(http.MethodGet, "/students", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/students/1", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPing(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "admin", models.RoleAdmin, "Admin@123")

	// No cookie.
	req := httptest.NewRequest(http.MethodGet, "/auth/ping", nil)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Cached session.
	cookie := sessionCookie(t, ts.login(t, "admin", "Admin@123"))
	req = httptest.NewRequest(http.MethodGet, "/auth/ping", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Unknown token.
	req = httptest.NewRequest(http.MethodGet, "/auth/ping", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "stale-token"})
	rec = httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
