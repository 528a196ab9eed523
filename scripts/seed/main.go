// Command seed provisions login accounts out of band and clears stale
// sessions. User creation is not part of the authentication core; this is the
// provisioning step it assumes has already happened.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/edurecords/student-mis/config"
	"github.com/edurecords/student-mis/database"
	"github.com/edurecords/student-mis/models"
	"github.com/edurecords/student-mis/services"
	"github.com/edurecords/student-mis/utils"
)

func main() {
	var (
		username      = flag.String("username", "admin", "username for the account to create")
		password      = flag.String("password", "", "password for the account (required unless -clear-sessions)")
		role          = flag.String("role", "admin", "role: admin, data_warehouse, teacher or supervisor")
		clearSessions = flag.Bool("clear-sessions", false, "deactivate all active sessions and exit")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	env, err := config.LoadEnv()
	if err != nil {
		log.Fatal("Error loading environment:", err)
	}
	settings, err := config.LoadSettings(env.SettingsPath)
	if err != nil {
		log.Fatal("Error loading settings:", err)
	}

	db, err := database.NewPostgresClient(env.DBHost, env.DBUser, env.DBPassword, env.DBName, env.DBPort)
	if err != nil {
		log.Fatal("Error connecting to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Error migrating database:", err)
	}

	if *clearSessions {
		sessionManager := services.NewSessionManager(db, nil, settings, utils.SystemClock(), logger)
		count := sessionManager.CleanupExpiredSessions()

		// Also deactivate sessions that have not yet idled out; a fresh boot
		// should never inherit live sessions from a previous run.
		result := db.Model(&models.UserSession{}).
			Where("is_active = ?", true).
			Update("is_active", false)
		if result.Error != nil {
			log.Fatal("Error clearing sessions:", result.Error)
		}
		fmt.Printf("Cleared %d sessions\n", count+result.RowsAffected)
		return
	}

	userRole := models.Role(*role)
	if !userRole.Valid() {
		log.Fatalf("Unknown role %q", *role)
	}
	if *password == "" {
		log.Fatal("A password is required")
	}

	validator := services.NewPasswordValidator(settings)
	if violations := validator.Validate(*password); len(violations) > 0 {
		for _, violation := range violations {
			fmt.Fprintln(os.Stderr, violation)
		}
		os.Exit(1)
	}

	user := models.User{
		Username: *username,
		Role:     userRole,
		IsActive: true,
	}
	if err := user.SetPassword(*password); err != nil {
		log.Fatal("Error hashing password:", err)
	}

	if err := db.Create(&user).Error; err != nil {
		log.Fatal("Error creating user:", err)
	}

	fmt.Printf("Created user %q with role %s (id %d)\n", user.Username, user.Role, user.ID)
}
