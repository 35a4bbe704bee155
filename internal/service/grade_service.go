package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/saviare/saviare-backend/internal/model"
)

// CourseGradeRow is one line of a course gradebook.
type CourseGradeRow struct {
	model.GradeResult
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
}

// GradeService handles teacher-entered grades and grade listings.
type GradeService struct {
	courses CourseLookup
	users   UserLookup
	store   GradeStore
	reader  GradeReader
	now     func() time.Time
	log     zerolog.Logger
}

// NewGradeService creates a new GradeService.
func NewGradeService(courses CourseLookup, users UserLookup, store GradeStore, reader GradeReader, log zerolog.Logger) *GradeService {
	return &GradeService{
		courses: courses,
		users:   users,
		store:   store,
		reader:  reader,
		now:     time.Now,
		log:     log.With().Str("component", "grade_service").Logger(),
	}
}

// SetManualGrade overwrites a student's course grade with a teacher-chosen score.
// The record carries no quiz and no question counts.
func (s *GradeService) SetManualGrade(ctx context.Context, courseID uuid.UUID, professorID, studentID, score int) (model.GradeResult, error) {
	if score < 0 || score > 100 {
		return model.GradeResult{}, ErrInvalidScore
	}

	course, err := s.ownedCourse(ctx, courseID, professorID)
	if err != nil {
		return model.GradeResult{}, err
	}

	enrolled, err := s.courses.IsEnrolled(ctx, courseID, studentID)
	if err != nil {
		return model.GradeResult{}, fmt.Errorf("check enrollment: %w", err)
	}
	if !enrolled {
		return model.GradeResult{}, ErrNotEnrolled
	}

	g := model.GradeResult{
		StudentID:   studentID,
		CourseID:    courseID,
		Score:       score,
		CourseTitle: course.Title,
		IsActive:    course.IsActive,
		Timestamp:   s.now().UTC(),
	}
	if err := s.store.UpsertCourseGrade(ctx, g); err != nil {
		return model.GradeResult{}, fmt.Errorf("upsert grade: %w", err)
	}

	s.log.Info().
		Str("course_id", courseID.String()).
		Int("student_id", studentID).
		Int("score", score).
		Msg("Manual grade set")
	return g, nil
}

// ListForStudent returns all of a student's course grades.
func (s *GradeService) ListForStudent(ctx context.Context, studentID int) ([]model.GradeResult, error) {
	grades, err := s.reader.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	if grades == nil {
		grades = []model.GradeResult{}
	}
	return grades, nil
}

// ListForCourse returns a course gradebook with student names, for its teacher.
func (s *GradeService) ListForCourse(ctx context.Context, courseID uuid.UUID, professorID int) ([]CourseGradeRow, error) {
	if _, err := s.ownedCourse(ctx, courseID, professorID); err != nil {
		return nil, err
	}

	grades, err := s.reader.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}

	ids := lo.Uniq(lo.Map(grades, func(g model.GradeResult, _ int) int { return g.StudentID }))
	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	return lo.Map(grades, func(g model.GradeResult, _ int) CourseGradeRow {
		u := users[g.StudentID]
		return CourseGradeRow{GradeResult: g, StudentName: u.FullName(), StudentEmail: u.Email}
	}), nil
}

// ListAttempts returns a student's attempt history for one quiz, newest first.
func (s *GradeService) ListAttempts(ctx context.Context, studentID int, quizID uuid.UUID) ([]model.Attempt, error) {
	attempts, err := s.reader.ListByStudentAndQuiz(ctx, studentID, quizID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	if attempts == nil {
		attempts = []model.Attempt{}
	}
	return attempts, nil
}

func (s *GradeService) ownedCourse(ctx context.Context, courseID uuid.UUID, professorID int) (*model.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course.ProfessorID != professorID {
		return nil, ErrForbidden
	}
	return course, nil
}
