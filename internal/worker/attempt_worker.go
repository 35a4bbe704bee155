package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/saviare/saviare-backend/internal/config"
	"github.com/saviare/saviare-backend/internal/logger"
	"github.com/saviare/saviare-backend/internal/model"
	"github.com/saviare/saviare-backend/internal/repository"
)

// AttemptWorker consumes persist_attempts_queue and appends attempts to PostgreSQL.
type AttemptWorker struct {
	repo       *repository.AttemptRepository
	rdb        *redis.Client
	log        zerolog.Logger
	retryDelay time.Duration
}

// NewAttemptWorker creates a new AttemptWorker.
func NewAttemptWorker(repo *repository.AttemptRepository, rdb *redis.Client, log zerolog.Logger) *AttemptWorker {
	return &AttemptWorker{
		repo:       repo,
		rdb:        rdb,
		log:        logger.Component(log, "attempt_worker"),
		retryDelay: 5 * time.Second,
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *AttemptWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *AttemptWorker) processNext(ctx context.Context) {
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.PersistAttemptsQueue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	var a model.Attempt
	if err := json.Unmarshal([]byte(result[1]), &a); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error")
		return
	}

	if err := w.repo.AppendAttempt(ctx, a); err != nil {
		if !errors.Is(err, repository.ErrStorageUnavailable) {
			w.log.Error().Err(err).Str("attempt_id", a.ID.String()).Msg("Attempt rejected, dropping")
			return
		}
		w.log.Error().Err(err).
			Int("student_id", a.StudentID).
			Str("quiz_id", a.QuizID.String()).
			Msg("Persist error, retrying later")
		w.requeue(ctx, a, result[1])

		select {
		case <-ctx.Done():
		case <-time.After(w.retryDelay):
		}
	}
}

// drain processes all remaining items in the queue before shutdown.
func (w *AttemptWorker) drain(ctx context.Context) {
	drained := 0
	for {
		raw, err := w.rdb.LPop(ctx, config.WorkerKey.PersistAttemptsQueue).Result()
		if err != nil {
			break
		}

		var a model.Attempt
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			w.log.Error().Err(err).Msg("Drain unmarshal error")
			continue
		}

		if err := w.repo.AppendAttempt(ctx, a); err != nil {
			w.log.Error().Err(err).Msg("Drain persist error")
			w.requeue(ctx, a, raw)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}

func (w *AttemptWorker) requeue(ctx context.Context, a model.Attempt, raw string) {
	if err := w.rdb.RPush(ctx, config.WorkerKey.PersistAttemptsQueue, raw).Err(); err != nil {
		w.log.Error().Err(err).
			Str("attempt_id", a.ID.String()).
			Int("student_id", a.StudentID).
			Str("quiz_id", a.QuizID.String()).
			Msg("Attempt requeue failed, attempt lost")
	}
}
