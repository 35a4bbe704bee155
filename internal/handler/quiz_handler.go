package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saviare/saviare-backend/internal/model"
	"github.com/saviare/saviare-backend/internal/response"
	"github.com/saviare/saviare-backend/internal/service"
	"github.com/saviare/saviare-backend/internal/validator"
)

// QuizHandler handles quiz authoring and quiz reads.
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// Create godoc
// POST /api/v1/teacher/courses/:course_id/quizzes
func (h *QuizHandler) Create(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	courseID, ok := uuidParam(c, "course_id")
	if !ok {
		return
	}

	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), courseID, claims.UserID, req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"quiz": quiz})
}

// ListForTeacher godoc
// GET /api/v1/teacher/courses/:course_id/quizzes
// Includes correct answers.
func (h *QuizHandler) ListForTeacher(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	courseID, ok := uuidParam(c, "course_id")
	if !ok {
		return
	}

	quizzes, err := h.quizService.ListByCourse(c.Request.Context(), courseID, claims.UserID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quizzes": quizzes})
}

// Delete godoc
// DELETE /api/v1/teacher/quizzes/:quiz_id
func (h *QuizHandler) Delete(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	quizID, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}

	if err := h.quizService.Delete(c.Request.Context(), quizID, claims.UserID); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ListForStudent godoc
// GET /api/v1/student/courses/:course_id/quizzes
// Answer keys are stripped.
func (h *QuizHandler) ListForStudent(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	courseID, ok := uuidParam(c, "course_id")
	if !ok {
		return
	}

	quizzes, err := h.quizService.ListForStudent(c.Request.Context(), courseID, claims.UserID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quizzes": quizzes})
}

// GetForStudent godoc
// GET /api/v1/student/quizzes/:quiz_id
func (h *QuizHandler) GetForStudent(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	quizID, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}

	quiz, err := h.quizService.GetForStudent(c.Request.Context(), quizID, claims.UserID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}
