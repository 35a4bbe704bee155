package model

import (
	"time"

	"github.com/google/uuid"
)

// ContentType enumerates course content kinds.
type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeVideo ContentType = "video"
)

// ContentItem is one block of course material.
type ContentItem struct {
	Type  ContentType `json:"type"`
	Value string      `json:"value"`
	// VideoID is the extracted YouTube id for video content.
	VideoID string `json:"video_id,omitempty"`
}

// Course groups content, quizzes and grades under one teacher.
type Course struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Content       []ContentItem `json:"content"`
	ProfessorID   int           `json:"professor_id"`
	ProfessorName string        `json:"professor_name"`
	IsActive      bool          `json:"is_active"`
	CreatedAt     time.Time     `json:"created_at"`
}

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required,notblank,max=255"`
	Description string `json:"description" binding:"required,notblank,max=5000"`
}

// AddContentRequest is the payload for appending course content.
type AddContentRequest struct {
	Type  string `json:"type" binding:"required,oneof=text video"`
	Value string `json:"value" binding:"required,min=1,max=10000"`
}

// EnrollStudentRequest adds a student to a course.
type EnrollStudentRequest struct {
	StudentID int `json:"student_id" binding:"required,min=1"`
}

// SetCourseActiveRequest toggles whether a course is active.
type SetCourseActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
