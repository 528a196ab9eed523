package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/edurecords/student-mis/models"
	"github.com/edurecords/student-mis/services"
)

// UserController serves read-only views of the logged-in user and their
// sessions. Session mutation stays with the session manager.
type UserController struct {
	db   *gorm.DB
	rbac *services.RBAC
}

func NewUserController(db *gorm.DB, rbac *services.RBAC) *UserController {
	return &UserController{db: db, rbac: rbac}
}

type SessionResponse struct {
	ID           uint      `json:"id"`
	IPAddress    string    `json:"ip_address"`
	UserAgent    string    `json:"user_agent"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

func (uc *UserController) GetCurrentUser(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  http.StatusUnauthorized,
			"message": "Not authenticated",
			"error":   "User not found in context",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "User details retrieved",
		"data": map[string]interface{}{
			"user": map[string]interface{}{
				"id":          user.ID,
				"username":    user.Username,
				"role":        user.Role,
				"last_login":  user.LastLogin,
				"permissions": uc.rbac.GetUserPermissions(user.Role),
			},
		},
	})
}

func (uc *UserController) GetActiveSessions(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  http.StatusUnauthorized,
			"message": "Not authenticated",
			"error":   "User not found in context",
		})
		return
	}

	var sessions []models.UserSession
	if err := uc.db.Where("user_id = ? AND is_active = ?", user.ID, true).
		Order("last_activity DESC").
		Find(&sessions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  http.StatusInternalServerError,
			"message": "Failed to fetch sessions",
			"error":   "Database error",
		})
		return
	}

	sessionResponses := make([]SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		sessionResponses = append(sessionResponses, SessionResponse{
			ID:           session.ID,
			IPAddress:    session.IPAddress,
			UserAgent:    session.UserAgent,
			CreatedAt:    session.CreatedAt,
			LastActivity: session.LastActivity,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Active sessions retrieved successfully",
		"data": map[string]interface{}{
			"sessions":              sessionResponses,
			"total_active_sessions": len(sessionResponses),
		},
	})
}
