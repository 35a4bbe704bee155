package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saviare/saviare-backend/internal/model"
)

// AttemptRepository stores the append-only quiz attempt log.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// AppendAttempt inserts an attempt. Re-inserting the same attempt ID is a no-op.
func (r *AttemptRepository) AppendAttempt(ctx context.Context, a model.Attempt) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO quiz_attempts (id, student_id, course_id, quiz_id, answers,
		                            correct_count, total_questions, score, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO NOTHING`,
		a.ID, a.StudentID, a.CourseID, a.QuizID, a.Answers,
		a.CorrectCount, a.TotalQuestions, a.Score, a.Timestamp,
	)
	return Unavailable("append attempt", err)
}

// ListByStudentAndQuiz retrieves a student's attempts at a quiz, newest first.
func (r *AttemptRepository) ListByStudentAndQuiz(ctx context.Context, studentID int, quizID uuid.UUID) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, course_id, quiz_id, answers, correct_count, total_questions, score, submitted_at
		 FROM quiz_attempts
		 WHERE student_id = $1 AND quiz_id = $2
		 ORDER BY submitted_at DESC`, studentID, quizID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		if err := rows.Scan(&a.ID, &a.StudentID, &a.CourseID, &a.QuizID, &a.Answers,
			&a.CorrectCount, &a.TotalQuestions, &a.Score, &a.Timestamp); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
