package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/edurecords/student-mis/services"
)

// RequestID tags every request with a correlation id, honoring one supplied
// by the client.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// RequirePermission aborts the request unless the authenticated user's role
// allows action on resource. Must run after AuthMiddleware.
func RequirePermission(rbac *services.RBAC, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, AuthResponse{
				Status:  http.StatusUnauthorized,
				Message: "Authentication required",
				Error:   "No user found in context",
			})
			return
		}

		if !rbac.CheckPermission(user.Role, resource, action) {
			c.AbortWithStatusJSON(http.StatusForbidden, AuthResponse{
				Status:  http.StatusForbidden,
				Message: "Permission denied",
				Error:   "Role " + string(user.Role) + " may not " + action + " " + resource,
			})
			return
		}

		c.Next()
	}
}
