package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/saviare/saviare-backend/internal/grading"
	"github.com/saviare/saviare-backend/internal/model"
)

// SubmissionService grades quiz submissions and persists the outcome.
type SubmissionService struct {
	quizzes        QuizLookup
	courses        CourseLookup
	store          GradeStore
	drafts         DraftStore
	recordAttempts bool
	now            func() time.Time
	log            zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	quizzes QuizLookup,
	courses CourseLookup,
	store GradeStore,
	drafts DraftStore,
	recordAttempts bool,
	log zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		quizzes:        quizzes,
		courses:        courses,
		store:          store,
		drafts:         drafts,
		recordAttempts: recordAttempts,
		now:            time.Now,
		log:            log.With().Str("component", "submission_service").Logger(),
	}
}

// Submit grades answers against a quiz and stores the result as the student's
// course grade. Answers must line up with the quiz questions one to one;
// otherwise grading.ErrInvalidInput is returned and nothing is stored.
func (s *SubmissionService) Submit(ctx context.Context, studentID int, quizID uuid.UUID, answers []model.Answer) (model.GradeResult, error) {
	quiz, course, err := s.load(ctx, studentID, quizID)
	if err != nil {
		return model.GradeResult{}, err
	}

	result, err := grading.Grade(*quiz, answers)
	if err != nil {
		return model.GradeResult{}, err
	}
	result.StudentID = studentID
	result.CourseTitle = course.Title
	result.IsActive = course.IsActive
	result.Timestamp = s.now().UTC()

	// The attempt goes first: a failed submission must not leave a replaced
	// grade without the attempt that produced it.
	if s.recordAttempts {
		if err := s.store.AppendAttempt(ctx, model.NewAttempt(result, quiz.ID, answers)); err != nil {
			return model.GradeResult{}, fmt.Errorf("append attempt: %w", err)
		}
	}

	if err := s.store.UpsertCourseGrade(ctx, result); err != nil {
		return model.GradeResult{}, fmt.Errorf("upsert grade: %w", err)
	}

	s.log.Info().
		Int("student_id", studentID).
		Str("quiz_id", quizID.String()).
		Int("score", result.Score).
		Msg("Quiz graded")

	return result, nil
}

// SubmitDraft grades the student's saved draft and clears it on success.
func (s *SubmissionService) SubmitDraft(ctx context.Context, studentID int, quizID uuid.UUID) (model.GradeResult, error) {
	quiz, err := s.quizzes.Get(ctx, quizID)
	if err != nil {
		return model.GradeResult{}, err
	}
	answers, err := s.drafts.Load(ctx, studentID, quiz)
	if err != nil {
		return model.GradeResult{}, err
	}

	result, err := s.Submit(ctx, studentID, quizID, answers)
	if err != nil {
		return model.GradeResult{}, err
	}

	if err := s.drafts.Clear(ctx, studentID, quizID); err != nil {
		s.log.Warn().Err(err).Int("student_id", studentID).Str("quiz_id", quizID.String()).Msg("Failed to clear draft")
	}
	return result, nil
}

// load resolves the quiz and its course and checks the student may submit.
func (s *SubmissionService) load(ctx context.Context, studentID int, quizID uuid.UUID) (*model.Quiz, *model.Course, error) {
	quiz, err := s.quizzes.Get(ctx, quizID)
	if err != nil {
		return nil, nil, err
	}

	course, err := s.courses.GetByID(ctx, quiz.CourseID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("get course: %w", err)
	}
	if !course.IsActive {
		return nil, nil, ErrCourseInactive
	}

	enrolled, err := s.courses.IsEnrolled(ctx, course.ID, studentID)
	if err != nil {
		return nil, nil, fmt.Errorf("check enrollment: %w", err)
	}
	if !enrolled {
		return nil, nil, ErrNotEnrolled
	}
	return quiz, course, nil
}
