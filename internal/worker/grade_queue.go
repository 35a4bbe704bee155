package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/saviare/saviare-backend/internal/config"
	"github.com/saviare/saviare-backend/internal/model"
	"github.com/saviare/saviare-backend/internal/repository"
)

// GradeQueue accepts grade and attempt writes by pushing them onto Redis
// lists. GradeWorker and AttemptWorker drain the lists into PostgreSQL.
type GradeQueue struct {
	rdb    *redis.Client
	grades *repository.GradeRepository
}

// NewGradeQueue creates a new GradeQueue. grades receives flag updates
// directly since they touch rows already drained.
func NewGradeQueue(rdb *redis.Client, grades *repository.GradeRepository) *GradeQueue {
	return &GradeQueue{rdb: rdb, grades: grades}
}

// UpsertCourseGrade enqueues g for the grade worker.
func (q *GradeQueue) UpsertCourseGrade(ctx context.Context, g model.GradeResult) error {
	return q.push(ctx, config.WorkerKey.PersistGradesQueue, g)
}

// AppendAttempt enqueues a for the attempt worker.
func (q *GradeQueue) AppendAttempt(ctx context.Context, a model.Attempt) error {
	return q.push(ctx, config.WorkerKey.PersistAttemptsQueue, a)
}

// SetCourseActive updates the active flag on persisted grades of a course.
func (q *GradeQueue) SetCourseActive(ctx context.Context, courseID uuid.UUID, active bool) error {
	return q.grades.SetCourseActive(ctx, courseID, active)
}

func (q *GradeQueue) push(ctx context.Context, queue string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", queue, err)
	}
	if err := q.rdb.RPush(ctx, queue, raw).Err(); err != nil {
		return fmt.Errorf("enqueue %s: %w: %w", queue, repository.ErrStorageUnavailable, err)
	}
	return nil
}
