package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/saviare/saviare-backend/internal/model"
)

// GradeStore persists grading outcomes. The two operations are separate
// policies: a course grade is replaced on every write, an attempt is only
// ever appended. Transient failures wrap repository.ErrStorageUnavailable.
type GradeStore interface {
	UpsertCourseGrade(ctx context.Context, g model.GradeResult) error
	AppendAttempt(ctx context.Context, a model.Attempt) error
}

// GradeFlags mirrors course state onto stored grade records.
type GradeFlags interface {
	SetCourseActive(ctx context.Context, courseID uuid.UUID, active bool) error
}

// GradeReader reads back what a GradeStore wrote.
type GradeReader interface {
	ListByStudent(ctx context.Context, studentID int) ([]model.GradeResult, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]model.GradeResult, error)
	ListByStudentAndQuiz(ctx context.Context, studentID int, quizID uuid.UUID) ([]model.Attempt, error)
}

// CourseLookup resolves courses and enrollments.
type CourseLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error)
	IsEnrolled(ctx context.Context, courseID uuid.UUID, studentID int) (bool, error)
}

// CourseStore persists courses and enrollments.
type CourseStore interface {
	CourseLookup
	Create(ctx context.Context, c *model.Course) error
	ListByProfessor(ctx context.Context, professorID int) ([]model.Course, error)
	ListByStudent(ctx context.Context, studentID int) ([]model.Course, error)
	AppendContent(ctx context.Context, id uuid.UUID, item model.ContentItem) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Enroll(ctx context.Context, courseID uuid.UUID, studentID int) error
	Unenroll(ctx context.Context, courseID uuid.UUID, studentID int) (bool, error)
	ListStudentIDs(ctx context.Context, courseID uuid.UUID) ([]int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// QuizLookup resolves quizzes by ID.
type QuizLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
}

// UserLookup resolves users by ID.
type UserLookup interface {
	GetByID(ctx context.Context, id int) (*model.User, error)
	ListByIDs(ctx context.Context, ids []int) (map[int]model.User, error)
}

// AccountDirectory resolves users and lists accounts by role.
type AccountDirectory interface {
	UserLookup
	ListByRole(ctx context.Context, role model.Role) ([]model.User, error)
}

// DraftStore keeps a student's in-progress answers.
type DraftStore interface {
	Load(ctx context.Context, studentID int, quiz *model.Quiz) ([]model.Answer, error)
	Clear(ctx context.Context, studentID int, quizID uuid.UUID) error
}
