package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edurecords/student-mis/config"
	"github.com/edurecords/student-mis/controllers"
	"github.com/edurecords/student-mis/database"
	"github.com/edurecords/student-mis/routes"
	"github.com/edurecords/student-mis/services"
	"github.com/edurecords/student-mis/utils"
)

// cleanupInterval is how often the expired-session sweep runs. Expiry also
// happens lazily on validation, so the sweep only bounds how long stale rows
// stay marked active.
const cleanupInterval = 15 * time.Minute

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	env, err := config.LoadEnv()
	if err != nil {
		log.Fatal("Error loading environment:", err)
	}

	settings, err := config.LoadSettings(env.SettingsPath)
	if err != nil {
		log.Fatal("Error loading settings:", err)
	}

	pgClient, err := database.NewPostgresClient(env.DBHost, env.DBUser, env.DBPassword, env.DBName, env.DBPort)
	if err != nil {
		log.Fatal("Error connecting to database:", err)
	}
	if err := database.Migrate(pgClient); err != nil {
		log.Fatal("Error migrating database:", err)
	}

	redisClient, err := database.GetRedisClient(env.RedisAddr, env.RedisPass, env.RedisDB)
	if err != nil {
		log.Fatal("Error connecting to redis:", err)
	}

	clock := utils.SystemClock()
	sessionManager := services.NewSessionManager(pgClient, redisClient, settings, clock, logger)
	loginMonitor := services.NewLoginMonitor(pgClient, settings, clock, logger)
	authenticator := services.NewAuthenticator(pgClient, sessionManager, loginMonitor, clock, logger)
	rbac := services.NewRBAC()
	studentService := services.NewStudentService(pgClient, logger)

	authController := controllers.NewAuthController(authenticator, loginMonitor, redisClient, settings.SessionTimeout())
	userController := controllers.NewUserController(pgClient, rbac)
	studentController := controllers.NewStudentController(studentService)

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			if cleaned := authenticator.CleanupExpiredSessions(); cleaned > 0 {
				logger.Info("expired sessions deactivated", slog.Int64("count", cleaned))
			}
		}
	}()

	r := gin.Default()
	routes.SetupRoutes(r, rbac, authController, userController, studentController)

	if err := r.Run(env.HTTPAddr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
