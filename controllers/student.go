package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edurecords/student-mis/models"
	"github.com/edurecords/student-mis/services"
	"github.com/edurecords/student-mis/validators"
)

type StudentController struct {
	students *services.StudentService
}

func NewStudentController(students *services.StudentService) *StudentController {
	return &StudentController{students: students}
}

func (sc *StudentController) Create(c *gin.Context) {
	req, ok := validators.ValidateStudentRequest(c)
	if !ok {
		return
	}

	student := models.Student{
		Name:          req.Name,
		CNIC:          req.CNIC,
		Gender:        req.Gender,
		Phone:         req.Phone,
		Address:       req.Address,
		AdmissionType: req.AdmissionType,
	}

	if err := sc.students.Create(&student); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  http.StatusInternalServerError,
			"message": "Failed to create student",
			"error":   "Database error",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  http.StatusCreated,
		"message": "Student created successfully",
		"data":    map[string]interface{}{"id": student.ID},
	})
}

func (sc *StudentController) Get(c *gin.Context) {
	id, ok := studentID(c)
	if !ok {
		return
	}

	student, err := sc.students.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  http.StatusNotFound,
				"message": "Student not found",
				"error":   "No student with this id",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  http.StatusInternalServerError,
			"message": "Failed to fetch student",
			"error":   "Database error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Student retrieved successfully",
		"data":    map[string]interface{}{"student": student},
	})
}

func (sc *StudentController) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	students, total, err := sc.students.List(offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  http.StatusInternalServerError,
			"message": "Failed to fetch students",
			"error":   "Database error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Students retrieved successfully",
		"data": map[string]interface{}{
			"students": students,
			"total":    total,
		},
	})
}

func (sc *StudentController) Update(c *gin.Context) {
	id, ok := studentID(c)
	if !ok {
		return
	}

	req, ok := validators.ValidateStudentRequest(c)
	if !ok {
		return
	}

	updates := map[string]interface{}{
		"student_name":   req.Name,
		"cnic":           req.CNIC,
		"gender":         req.Gender,
		"phone":          req.Phone,
		"address":        req.Address,
		"admission_type": req.AdmissionType,
	}

	if err := sc.students.Update(id, updates); err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  http.StatusNotFound,
				"message": "Student not found",
				"error":   "No student with this id",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  http.StatusInternalServerError,
			"message": "Failed to update student",
			"error":   "Database error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Student updated successfully",
	})
}

func (sc *StudentController) Delete(c *gin.Context) {
	id, ok := studentID(c)
	if !ok {
		return
	}

	if err := sc.students.Delete(id); err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  http.StatusNotFound,
				"message": "Student not found",
				"error":   "No student with this id",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  http.StatusInternalServerError,
			"message": "Failed to delete student",
			"error":   "Database error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  http.StatusOK,
		"message": "Student deleted successfully",
	})
}

func studentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  http.StatusBadRequest,
			"message": "Invalid student id",
			"error":   "id must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}
