package model

import (
	"time"

	"github.com/google/uuid"
)

// GradeResult is the outcome of grading one submission, and the grade record
// kept per (course, student).
type GradeResult struct {
	StudentID int        `json:"student_id"`
	CourseID  uuid.UUID  `json:"course_id"`
	QuizID    *uuid.UUID `json:"quiz_id,omitempty"`

	CorrectCount   int `json:"correct_count"`
	TotalQuestions int `json:"total_questions"`
	// Score is an integer percentage in [0, 100].
	Score int `json:"score"`

	CourseTitle string    `json:"course_title,omitempty"`
	IsActive    bool      `json:"is_active"`
	Timestamp   time.Time `json:"timestamp"`
}

// Attempt is an immutable record of one quiz submission.
type Attempt struct {
	ID             uuid.UUID `json:"id"`
	StudentID      int       `json:"student_id"`
	CourseID       uuid.UUID `json:"course_id"`
	QuizID         uuid.UUID `json:"quiz_id"`
	Answers        []Answer  `json:"answers"`
	CorrectCount   int       `json:"correct_count"`
	TotalQuestions int       `json:"total_questions"`
	Score          int       `json:"score"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewAttempt builds an attempt record from a stamped grade result.
func NewAttempt(result GradeResult, quizID uuid.UUID, answers []Answer) Attempt {
	return Attempt{
		ID:             uuid.New(),
		StudentID:      result.StudentID,
		CourseID:       result.CourseID,
		QuizID:         quizID,
		Answers:        answers,
		CorrectCount:   result.CorrectCount,
		TotalQuestions: result.TotalQuestions,
		Score:          result.Score,
		Timestamp:      result.Timestamp,
	}
}

// SetGradeRequest is a teacher-entered course grade.
type SetGradeRequest struct {
	Score *int `json:"score" binding:"required,min=0,max=100"`
}
