package services

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/edurecords/student-mis/models"
)

// ErrStudentNotFound is returned when a student id matches no record.
var ErrStudentNotFound = errors.New("student not found")

// StudentService provides CRUD over the student records. Authorization is the
// caller's job; the service assumes the RBAC check already passed.
type StudentService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewStudentService(db *gorm.DB, logger *slog.Logger) *StudentService {
	return &StudentService{db: db, logger: logger}
}

func (ss *StudentService) Create(student *models.Student) error {
	if err := ss.db.Create(student).Error; err != nil {
		ss.logger.Error("student create failed", slog.Any("error", err))
		return err
	}
	return nil
}

// GetByID loads a student with all related records.
func (ss *StudentService) GetByID(id uint) (*models.Student, error) {
	var student models.Student
	err := ss.db.
		Preload("EducationHistory").
		Preload("Enrollments").
		Preload("Enrollments.Course").
		Preload("MedicalHistory").
		Preload("Guardians").
		Preload("HostelInfo").
		Preload("Transportation").
		First(&student, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// List returns a page of students ordered by id.
func (ss *StudentService) List(offset, limit int) ([]models.Student, int64, error) {
	var total int64
	if err := ss.db.Model(&models.Student{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var students []models.Student
	if err := ss.db.Order("student_id").Offset(offset).Limit(limit).Find(&students).Error; err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// Update applies the supplied column values to an existing student.
func (ss *StudentService) Update(id uint, updates map[string]interface{}) error {
	result := ss.db.Model(&models.Student{}).Where("student_id = ?", id).Updates(updates)
	if result.Error != nil {
		ss.logger.Error("student update failed", slog.Uint64("id", uint64(id)), slog.Any("error", result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// Delete removes a student and all dependent records in one transaction.
func (ss *StudentService) Delete(id uint) error {
	return ss.db.Transaction(func(tx *gorm.DB) error {
		var student models.Student
		if err := tx.First(&student, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotFound
			}
			return err
		}

		for _, related := range []interface{}{
			&models.EducationHistory{},
			&models.Enrollment{},
			&models.MedicalHistory{},
			&models.StudentGuardian{},
			&models.HostelInfo{},
			&models.Transportation{},
		} {
			if err := tx.Where("student_id = ?", id).Delete(related).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&student).Error
	})
}
