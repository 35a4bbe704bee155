package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saviare/saviare-backend/internal/model"
)

// QuizRepository handles quiz data access. Questions are stored as one JSONB
// array so their order survives round trips.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

// Create inserts a new quiz.
func (r *QuizRepository) Create(ctx context.Context, q *model.Quiz) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO quizzes (course_id, title, questions)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		q.CourseID, q.Title, q.Questions,
	).Scan(&q.ID, &q.CreatedAt)
}

// GetByID retrieves a quiz by its UUID.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, course_id, title, questions, created_at FROM quizzes WHERE id = $1`, id,
	).Scan(&q.ID, &q.CourseID, &q.Title, &q.Questions, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ListByCourse retrieves all quizzes of a course, oldest first.
func (r *QuizRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]model.Quiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, course_id, title, questions, created_at
		 FROM quizzes WHERE course_id = $1
		 ORDER BY created_at ASC`, courseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		var q model.Quiz
		if err := rows.Scan(&q.ID, &q.CourseID, &q.Title, &q.Questions, &q.CreatedAt); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// Delete removes a quiz. Grades keep their quiz reference as history.
func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	return err
}
