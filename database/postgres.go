package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/edurecords/student-mis/models"
)

func NewPostgresClient(host, user, password, dbname, port string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable", host, user, password, dbname, port)

	pgClient, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return pgClient, nil
}

// Migrate creates or updates the schema for every table the application owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserSession{},
		&models.LoginAttempt{},
		&models.Student{},
		&models.EducationHistory{},
		&models.Course{},
		&models.Enrollment{},
		&models.MedicalHistory{},
		&models.StudentGuardian{},
		&models.HostelInfo{},
		&models.Transportation{},
	)
}
