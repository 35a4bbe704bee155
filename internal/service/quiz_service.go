package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/saviare/saviare-backend/internal/config"
	"github.com/saviare/saviare-backend/internal/model"
	"github.com/saviare/saviare-backend/internal/repository"
)

// QuizService handles quiz authoring and lookup.
type QuizService struct {
	quizRepo *repository.QuizRepository
	courses  *CourseService
	rdb      *redis.Client
	cacheTTL time.Duration
	log      zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(
	quizRepo *repository.QuizRepository,
	courses *CourseService,
	rdb *redis.Client,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *QuizService {
	return &QuizService{
		quizRepo: quizRepo,
		courses:  courses,
		rdb:      rdb,
		cacheTTL: cacheTTL,
		log:      log.With().Str("component", "quiz_service").Logger(),
	}
}

// Create validates and stores a quiz in a course the teacher owns.
func (s *QuizService) Create(ctx context.Context, courseID uuid.UUID, professorID int, req model.CreateQuizRequest) (*model.Quiz, error) {
	if _, err := s.courses.GetOwned(ctx, courseID, professorID); err != nil {
		return nil, err
	}

	questions := lo.Map(req.Questions, func(in model.QuestionInput, _ int) model.Question {
		return model.Question{Text: in.Text, Options: in.Options, CorrectAnswer: in.CorrectAnswer}
	})
	q := &model.Quiz{
		CourseID:  courseID,
		Title:     strings.TrimSpace(req.Title),
		Questions: questions,
	}
	if err := ValidateQuiz(q); err != nil {
		return nil, err
	}

	if err := s.quizRepo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}
	s.warm(ctx, q)
	return q, nil
}

// ValidateQuiz enforces authoring rules: a title, at least one question, and
// for each question a prompt and a correct answer. When a question has
// options, every option must be non-empty and the correct answer must be one
// of them.
func ValidateQuiz(q *model.Quiz) error {
	if strings.TrimSpace(q.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidQuiz)
	}
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w: at least one question is required", ErrInvalidQuiz)
	}

	for i, question := range q.Questions {
		n := i + 1
		if strings.TrimSpace(question.Text) == "" {
			return fmt.Errorf("%w: question %d has no text", ErrInvalidQuiz, n)
		}
		if strings.TrimSpace(question.CorrectAnswer) == "" {
			return fmt.Errorf("%w: question %d has no correct answer", ErrInvalidQuiz, n)
		}
		if question.IsFreeText() {
			continue
		}
		if lo.SomeBy(question.Options, func(o string) bool { return strings.TrimSpace(o) == "" }) {
			return fmt.Errorf("%w: question %d has an empty option", ErrInvalidQuiz, n)
		}
		if !lo.Contains(question.Options, question.CorrectAnswer) {
			return fmt.Errorf("%w: question %d correct answer is not one of its options", ErrInvalidQuiz, n)
		}
	}
	return nil
}

// Get returns a quiz with its answer key, from cache when possible.
// A cache miss or a broken cache entry falls back to PostgreSQL and re-caches.
func (s *QuizService) Get(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	key := config.CacheKey.QuizPayloadKey(id.String())

	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var q model.Quiz
		if jsonErr := json.Unmarshal(data, &q); jsonErr == nil {
			return &q, nil
		}
		s.log.Warn().Str("quiz_id", id.String()).Msg("Discarding unreadable cached quiz")
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Str("quiz_id", id.String()).Msg("Quiz cache read failed")
	}

	q, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	s.warm(ctx, q)
	return q, nil
}

// GetForStudent returns a quiz stripped of correct answers, provided the
// student is enrolled in its course.
func (s *QuizService) GetForStudent(ctx context.Context, id uuid.UUID, studentID int) (*model.QuizForStudent, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireEnrolled(ctx, q.CourseID, studentID); err != nil {
		return nil, err
	}
	return ForStudent(q), nil
}

// ListForStudent returns a course's quizzes without answers.
func (s *QuizService) ListForStudent(ctx context.Context, courseID uuid.UUID, studentID int) ([]model.QuizForStudent, error) {
	if err := s.requireEnrolled(ctx, courseID, studentID); err != nil {
		return nil, err
	}
	quizzes, err := s.quizRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return lo.Map(quizzes, func(q model.Quiz, _ int) model.QuizForStudent { return *ForStudent(&q) }), nil
}

// ListByCourse returns a course's quizzes with answers, for its teacher.
func (s *QuizService) ListByCourse(ctx context.Context, courseID uuid.UUID, professorID int) ([]model.Quiz, error) {
	if _, err := s.courses.GetOwned(ctx, courseID, professorID); err != nil {
		return nil, err
	}
	quizzes, err := s.quizRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	if quizzes == nil {
		quizzes = []model.Quiz{}
	}
	return quizzes, nil
}

// Delete removes a quiz from a course the teacher owns and evicts its cache entry.
func (s *QuizService) Delete(ctx context.Context, id uuid.UUID, professorID int) error {
	q, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get quiz: %w", err)
	}
	if _, err := s.courses.GetOwned(ctx, q.CourseID, professorID); err != nil {
		return err
	}
	if err := s.quizRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if err := s.rdb.Del(ctx, config.CacheKey.QuizPayloadKey(id.String())).Err(); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", id.String()).Msg("Failed to evict quiz cache")
	}
	return nil
}

func (s *QuizService) requireEnrolled(ctx context.Context, courseID uuid.UUID, studentID int) error {
	ok, err := s.courses.IsEnrolled(ctx, courseID, studentID)
	if err != nil {
		return fmt.Errorf("check enrollment: %w", err)
	}
	if !ok {
		return ErrNotEnrolled
	}
	return nil
}

// warm caches the full quiz. Failures are logged; the database stays authoritative.
func (s *QuizService) warm(ctx context.Context, q *model.Quiz) {
	data, err := json.Marshal(q)
	if err != nil {
		s.log.Error().Err(err).Str("quiz_id", q.ID.String()).Msg("Failed to marshal quiz")
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.QuizPayloadKey(q.ID.String()), data, s.cacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", q.ID.String()).Msg("Failed to cache quiz")
	}
}

// ForStudent projects a quiz into its answer-free form, numbering questions from 1.
func ForStudent(q *model.Quiz) *model.QuizForStudent {
	return &model.QuizForStudent{
		ID:       q.ID,
		CourseID: q.CourseID,
		Title:    q.Title,
		Questions: lo.Map(q.Questions, func(question model.Question, i int) model.QuestionForStudent {
			options := question.Options
			if options == nil {
				options = []string{}
			}
			return model.QuestionForStudent{Number: i + 1, Text: question.Text, Options: options}
		}),
	}
}
