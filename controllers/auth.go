package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edurecords/student-mis/database"
	"github.com/edurecords/student-mis/models"
	"github.com/edurecords/student-mis/services"
	"github.com/edurecords/student-mis/validators"
)

const sessionCookie = "session_token"

// AuthController exposes the authentication core over HTTP for the desktop
// clients. It calls only the core's four public operations; the Redis cache
// is read directly only by the non-authoritative liveness probe.
type AuthController struct {
	auth    *services.Authenticator
	monitor *services.LoginMonitor
	cache   *database.RedisClient
	timeout time.Duration
}

type AuthResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

func NewAuthController(auth *services.Authenticator, monitor *services.LoginMonitor, cache *database.RedisClient, timeout time.Duration) *AuthController {
	return &AuthController{
		auth:    auth,
		monitor: monitor,
		cache:   cache,
		timeout: timeout,
	}
}

// sendResponse is a helper function to send consistent JSON responses
func (ac *AuthController) sendResponse(c *gin.Context, status int, message string, data interface{}, err interface{}) {
	c.JSON(status, AuthResponse{
		Status:  status,
		Message: message,
		Data:    data,
		Error:   err,
	})
}

// Login handles user authentication
func (ac *AuthController) Login(c *gin.Context) {
	req, ok := validators.ValidateLoginRequest(c)
	if !ok {
		return
	}

	user, session, message := ac.auth.Authenticate(req.Username, req.Password, c.ClientIP(), c.GetHeader("User-Agent"))
	if user == nil {
		ac.sendResponse(c, statusForFailure(message), "Login failed", nil, message)
		return
	}

	c.SetCookie(sessionCookie, session.SessionToken, int(ac.timeout.Seconds()), "/", "", false, true)

	ac.sendResponse(c, http.StatusOK, message, map[string]interface{}{
		"user": map[string]interface{}{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
		"session": map[string]interface{}{
			"token": session.SessionToken,
		},
	}, nil)
}

// statusForFailure maps a core rejection message onto an HTTP status. The
// message itself is passed through untouched.
func statusForFailure(message string) int {
	switch {
	case message == services.MsgMaxConcurrentSessions:
		return http.StatusConflict
	case strings.HasPrefix(message, "Authentication error:"):
		return http.StatusInternalServerError
	default:
		return http.StatusUnauthorized
	}
}

// Logout handles user logout
func (ac *AuthController) Logout(c *gin.Context) {
	token, err := c.Cookie(sessionCookie)
	if err != nil {
		ac.sendResponse(c, http.StatusBadRequest, "Logout failed", nil, "No session found")
		return
	}

	success, message := ac.auth.Logout(token)
	if !success {
		ac.sendResponse(c, http.StatusBadRequest, "Logout failed", nil, message)
		return
	}

	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)

	ac.sendResponse(c, http.StatusOK, message, nil, nil)
}

// Ping reports whether the caller's session is probably alive, from the cache
// alone. It deliberately does not touch the database and does not extend the
// session's idle window, so UI polling cannot keep a session alive forever.
func (ac *AuthController) Ping(c *gin.Context) {
	token, err := c.Cookie(sessionCookie)
	if err != nil || ac.cache == nil {
		ac.sendResponse(c, http.StatusUnauthorized, "No session", nil, nil)
		return
	}

	if _, err := ac.cache.GetSession(c.Request.Context(), token); err != nil {
		ac.sendResponse(c, http.StatusUnauthorized, "Session unknown", nil, nil)
		return
	}

	ac.sendResponse(c, http.StatusOK, "Session alive", nil, nil)
}

// LockoutStatus reports lockout diagnostics for a username.
func (ac *AuthController) LockoutStatus(c *gin.Context) {
	username := c.Param("username")

	ac.sendResponse(c, http.StatusOK, "Lockout status retrieved", map[string]interface{}{
		"username":        username,
		"locked":          ac.monitor.IsAccountLocked(username),
		"failed_attempts": ac.monitor.GetFailedAttempts(username),
	}, nil)
}

// AuthMiddleware validates the session cookie and stores the authenticated
// user on the request context. Validation goes through the core, so every
// authenticated request extends the session's idle window.
func (ac *AuthController) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, AuthResponse{
				Status:  http.StatusUnauthorized,
				Message: "Authentication required",
				Error:   "No session found",
			})
			return
		}

		valid, user, message := ac.auth.ValidateSession(token)
		if !valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, AuthResponse{
				Status:  http.StatusUnauthorized,
				Message: "Authentication failed",
				Error:   message,
			})
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
