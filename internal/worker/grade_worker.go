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

const (
	GradeBatchSize    = 50
	GradeBatchTimeout = 2 * time.Second
	GradePollTimeout  = 1 * time.Second
)

// GradeWriter is the grade table the worker flushes into.
type GradeWriter interface {
	UpsertCourseGrade(ctx context.Context, g model.GradeResult) error
	BulkUpsertCourseGrades(ctx context.Context, batch []model.GradeResult) error
}

// GradeWorker consumes persist_grades_queue and batch-upserts grades.
type GradeWorker struct {
	repo GradeWriter
	rdb  *redis.Client
	log  zerolog.Logger
}

func NewGradeWorker(repo GradeWriter, rdb *redis.Client, log zerolog.Logger) *GradeWorker {
	return &GradeWorker{
		repo: repo,
		rdb:  rdb,
		log:  logger.Component(log, "grade_worker"),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

// Start runs until ctx is cancelled, then flushes what it holds. Call in a goroutine.
func (w *GradeWorker) Start(ctx context.Context) {
	w.log.Info().Msg("GradeWorker started")

	batch := make([]model.GradeResult, 0, GradeBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= GradeBatchSize || time.Since(lastFlush) >= GradeBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Int("pending", len(batch)).Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, GradePollTimeout, config.WorkerKey.PersistGradesQueue).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var g model.GradeResult
			if err := json.Unmarshal([]byte(item[1]), &g); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, g)
		}
	}
}

// ----------------------------------------------------------------
// Batch upsert with per-row fallback
// ----------------------------------------------------------------

func (w *GradeWorker) flushSafe(ctx context.Context, batch []model.GradeResult) {
	if len(batch) == 0 {
		return
	}

	rows := LatestPerKey(batch)
	if err := w.repo.BulkUpsertCourseGrades(ctx, rows); err != nil {
		w.log.Warn().Err(err).Int("rows", len(rows)).Msg("bulk grade upsert failed, using fallback")

		for _, g := range rows {
			if err := w.repo.UpsertCourseGrade(ctx, g); err != nil {
				if !errors.Is(err, repository.ErrStorageUnavailable) {
					w.log.Error().Err(err).
						Int("student_id", g.StudentID).
						Str("course_id", g.CourseID.String()).
						Msg("grade rejected, dropping")
					continue
				}
				w.log.Error().Err(err).Msg("grade upsert failed, requeueing")
				w.requeue(ctx, g)
			}
		}
		return
	}

	w.log.Debug().Int("rows", len(rows)).Msg("grades flushed")
}

// requeue pushes g back for a later flush. A grade that cannot be requeued is
// logged with its key, since it is otherwise lost.
func (w *GradeWorker) requeue(ctx context.Context, g model.GradeResult) {
	raw, err := json.Marshal(g)
	if err == nil {
		err = w.rdb.RPush(ctx, config.WorkerKey.PersistGradesQueue, raw).Err()
	}
	if err != nil {
		w.log.Error().Err(err).
			Int("student_id", g.StudentID).
			Str("course_id", g.CourseID.String()).
			Int("score", g.Score).
			Time("timestamp", g.Timestamp).
			Msg("grade requeue failed, grade lost")
	}
}

// LatestPerKey keeps, for each (course, student), only the grade with the
// newest timestamp. A single upsert statement cannot touch one row twice.
// Order of first appearance is preserved.
func LatestPerKey(batch []model.GradeResult) []model.GradeResult {
	type key struct {
		course  string
		student int
	}

	index := make(map[key]int, len(batch))
	out := make([]model.GradeResult, 0, len(batch))
	for _, g := range batch {
		k := key{course: g.CourseID.String(), student: g.StudentID}
		if i, ok := index[k]; ok {
			if !g.Timestamp.Before(out[i].Timestamp) {
				out[i] = g
			}
			continue
		}
		index[k] = len(out)
		out = append(out, g)
	}
	return out
}
