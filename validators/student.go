package validators

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type StudentRequest struct {
	Name          string `json:"name" validate:"required,max=100" binding:"required,max=100"`
	CNIC          string `json:"cnic" validate:"required,max=15" binding:"required,max=15"`
	Gender        string `json:"gender" validate:"required,oneof=M F O" binding:"required,oneof=M F O"`
	Phone         string `json:"phone" validate:"required,max=15" binding:"required,max=15"`
	Address       string `json:"address"`
	AdmissionType string `json:"admission_type" validate:"max=20" binding:"max=20"`
}

func ValidateStudentRequest(c *gin.Context) (*StudentRequest, bool) {
	var req StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request payload",
		})
		return nil, false
	}

	if errs := Validate(req); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, ValidationResponse{
			Errors: errs,
		})
		return nil, false
	}

	return &req, true
}
