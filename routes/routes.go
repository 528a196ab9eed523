package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/edurecords/student-mis/controllers"
	"github.com/edurecords/student-mis/services"
)

func SetupRoutes(router *gin.Engine, rbac *services.RBAC, authController *controllers.AuthController, userController *controllers.UserController, studentController *controllers.StudentController) {
	router.Use(controllers.RequestID())

	auth := router.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/logout", authController.AuthMiddleware(), authController.Logout)
		auth.GET("/ping", authController.Ping)
		auth.GET("/lockout/:username",
			authController.AuthMiddleware(),
			controllers.RequirePermission(rbac, services.ResourceUsers, services.ActionRead),
			authController.LockoutStatus)
	}

	user := router.Group("/auth/user", authController.AuthMiddleware())
	{
		user.GET("/me", userController.GetCurrentUser)
		user.GET("/sessions", userController.GetActiveSessions)
	}

	students := router.Group("/students", authController.AuthMiddleware())
	{
		students.GET("",
			controllers.RequirePermission(rbac, services.ResourceData, services.ActionRead),
			studentController.List)
		students.GET("/:id",
			controllers.RequirePermission(rbac, services.ResourceData, services.ActionRead),
			studentController.Get)
		students.POST("",
			controllers.RequirePermission(rbac, services.ResourceData, services.ActionCreate),
			studentController.Create)
		students.PUT("/:id",
			controllers.RequirePermission(rbac, services.ResourceData, services.ActionUpdate),
			studentController.Update)
		students.DELETE("/:id",
			controllers.RequirePermission(rbac, services.ResourceData, services.ActionDelete),
			studentController.Delete)
	}
}
