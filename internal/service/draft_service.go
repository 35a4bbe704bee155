package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/saviare/saviare-backend/internal/config"
	"github.com/saviare/saviare-backend/internal/model"
)

// draftTTL bounds how long an abandoned draft lingers in Redis.
const draftTTL = 24 * time.Hour

// DraftService keeps in-progress answers in a Redis hash per (student, quiz),
// field = question index, value = submitted text.
type DraftService struct {
	rdb *redis.Client
}

// NewDraftService creates a new DraftService.
func NewDraftService(rdb *redis.Client) *DraftService {
	return &DraftService{rdb: rdb}
}

// Save records one answer. A nil value clears that question back to unanswered.
func (s *DraftService) Save(ctx context.Context, studentID int, quiz *model.Quiz, index int, value *string) error {
	if index < 0 || index >= len(quiz.Questions) {
		return ErrInvalidAnswerIndex
	}

	key := config.CacheKey.StudentDraftKey(quiz.ID.String(), studentID)
	field := strconv.Itoa(index)

	pipe := s.rdb.TxPipeline()
	if value == nil {
		pipe.HDel(ctx, key, field)
	} else {
		pipe.HSet(ctx, key, field, *value)
	}
	pipe.Expire(ctx, key, draftTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Load returns the draft aligned with the quiz questions.
func (s *DraftService) Load(ctx context.Context, studentID int, quiz *model.Quiz) ([]model.Answer, error) {
	raw, err := s.rdb.HGetAll(ctx, config.CacheKey.StudentDraftKey(quiz.ID.String(), studentID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	return DraftAnswers(raw, len(quiz.Questions)), nil
}

// Clear deletes a draft after it has been submitted.
func (s *DraftService) Clear(ctx context.Context, studentID int, quizID uuid.UUID) error {
	return s.rdb.Del(ctx, config.CacheKey.StudentDraftKey(quizID.String(), studentID)).Err()
}

// DraftAnswers turns a hash of index -> value into n answers. Unknown or
// out-of-range fields are ignored.
func DraftAnswers(raw map[string]string, n int) []model.Answer {
	answers := make([]model.Answer, n)
	for field, v := range raw {
		i, err := strconv.Atoi(field)
		if err != nil || i < 0 || i >= n {
			continue
		}
		answers[i] = model.NewAnswer(v)
	}
	return answers
}
