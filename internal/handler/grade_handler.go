package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saviare/saviare-backend/internal/model"
	"github.com/saviare/saviare-backend/internal/response"
	"github.com/saviare/saviare-backend/internal/service"
	"github.com/saviare/saviare-backend/internal/validator"
)

// GradeHandler handles grade listings and manual grading.
type GradeHandler struct {
	gradeService *service.GradeService
}

// NewGradeHandler creates a new GradeHandler.
func NewGradeHandler(gradeService *service.GradeService) *GradeHandler {
	return &GradeHandler{gradeService: gradeService}
}

// ListMine godoc
// GET /api/v1/student/grades
func (h *GradeHandler) ListMine(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	grades, err := h.gradeService.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"grades": grades})
}

// ListAttempts godoc
// GET /api/v1/student/quizzes/:quiz_id/attempts
func (h *GradeHandler) ListAttempts(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	quizID, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}

	attempts, err := h.gradeService.ListAttempts(c.Request.Context(), claims.UserID, quizID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}

// ListForCourse godoc
// GET /api/v1/teacher/courses/:course_id/grades
func (h *GradeHandler) ListForCourse(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	courseID, ok := uuidParam(c, "course_id")
	if !ok {
		return
	}

	rows, err := h.gradeService.ListForCourse(c.Request.Context(), courseID, claims.UserID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"grades": rows})
}

// SetManual godoc
// PUT /api/v1/teacher/courses/:course_id/grades/:student_id
// Overwrites the student's course grade with a teacher-chosen score.
func (h *GradeHandler) SetManual(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	courseID, ok := uuidParam(c, "course_id")
	if !ok {
		return
	}
	studentID, ok := intParam(c, "student_id")
	if !ok {
		return
	}

	var req model.SetGradeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	grade, err := h.gradeService.SetManualGrade(c.Request.Context(), courseID, claims.UserID, studentID, *req.Score)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"grade": grade})
}
