package service

import "errors"

// Domain Errors
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("not the professor of this course")
	ErrNotEnrolled        = errors.New("student is not enrolled in this course")
	ErrCourseInactive     = errors.New("course is not active")
	ErrInvalidQuiz        = errors.New("invalid quiz")
	ErrInvalidContent     = errors.New("invalid course content")
	ErrInvalidScore       = errors.New("score must be between 0 and 100")
	ErrInvalidAnswerIndex = errors.New("answer index out of range")
	ErrNotStudent         = errors.New("user is not a student")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
