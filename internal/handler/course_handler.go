package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saviare/saviare-backend/internal/model"
	"github.com/saviare/saviare-backend/internal/response"
	"github.com/saviare/saviare-backend/internal/service"
	"github.com/saviare/saviare-backend/internal/validator"
)

// CourseHandler handles course endpoints for teachers and students.
type CourseHandler struct {
	courseService *service.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// Create godoc
// POST /api/v1/teacher/courses
func (h *CourseHandler) Create(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"course": course})
}

// ListOwned godoc
// GET /api/v1/teacher/courses
func (h *CourseHandler) ListOwned(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	courses, err := h.courseService.ListForProfessor(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromError(c, err)
		return
	}
	if courses == nil {
		courses = []model.Course{}
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// ListEnrolled godoc
// GET /api/v1/student/courses
func (h *CourseHandler) ListEnrolled(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	courses, err := h.courseService.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromError(c, err)
		return
	}
	if courses == nil {
		courses = []model.Course{}
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// Delete godoc
// DELETE /api/v1/teacher/courses/:course_id
func (h *CourseHandler) Delete(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	courseID, ok := uuidParam(c, "course_id")
	if !ok {
		return
	}

	if err := h.courseService.Delete(c.Request.Context(), courseID, claims.UserID); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// AddContent godoc
// POST /api/v1/teacher/courses/:course_id/content
// Appends a text block or a YouTube video to the course.
func (h *CourseHandler) AddContent(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	courseID, ok := uuidParam(c, "course_id")
	if !ok {
		return
	}

	var req model.AddContentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	item, err := h.courseService.AddContent(c.Request.Context(), courseID, claims.UserID, req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"content": item})
}

// Enroll godoc
// POST /api/v1/teacher/courses/:course_id/students
func (h *CourseHandler) Enroll(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	courseID, ok := uuidParam(c, "course_id")
	if !ok {
		return
	}

	var req model.EnrollStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.courseService.Enroll(c.Request.Context(), courseID, claims.UserID, req.StudentID); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// SetActive godoc
// PATCH /api/v1/teacher/courses/:course_id/active
func (h *CourseHandler) SetActive(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	courseID, ok := uuidParam(c, "course_id")
	if !ok {
		return
	}

	var req model.SetCourseActiveRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.courseService.SetActive(c.Request.Context(), courseID, claims.UserID, *req.IsActive); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"is_active": *req.IsActive})
}

// ListStudents godoc
// GET /api/v1/teacher/courses/:course_id/students
// Returns the course roster.
func (h *CourseHandler) ListStudents(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	courseID, ok := uuidParam(c, "course_id")
	if !ok {
		return
	}

	students, err := h.courseService.ListStudents(c.Request.Context(), courseID, claims.UserID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"students": students})
}

// Unenroll godoc
// DELETE /api/v1/teacher/courses/:course_id/students/:student_id
func (h *CourseHandler) Unenroll(c *gin.Context) {
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

	if err := h.courseService.Unenroll(c.Request.Context(), courseID, claims.UserID, studentID); err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// StudentDirectory godoc
// GET /api/v1/teacher/students?course_id=
// Lists every student account. With course_id, each entry says whether the
// student is enrolled in that course.
func (h *CourseHandler) StudentDirectory(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	var courseID *uuid.UUID
	if raw := c.Query("course_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		courseID = &id
	}

	students, err := h.courseService.StudentDirectory(c.Request.Context(), courseID, claims.UserID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"students": students})
}
