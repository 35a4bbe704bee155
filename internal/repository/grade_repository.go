package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saviare/saviare-backend/internal/model"
)

// GradeRepository keeps one grade per (course, student).
type GradeRepository struct {
	pool *pgxpool.Pool
}

// NewGradeRepository creates a new GradeRepository.
func NewGradeRepository(pool *pgxpool.Pool) *GradeRepository {
	return &GradeRepository{pool: pool}
}

// Writes older than the stored row are ignored, so requeued payloads
// cannot roll a grade back. is_active follows the course row when it exists.
const upsertGradeSQL = `
	INSERT INTO grades (course_id, student_id, quiz_id, course_title, correct_count,
	                    total_questions, score, is_active, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7,
	        COALESCE((SELECT is_active FROM courses WHERE id = $1), $8), $9)
	ON CONFLICT (course_id, student_id) DO UPDATE
	SET quiz_id = EXCLUDED.quiz_id,
	    course_title = EXCLUDED.course_title,
	    correct_count = EXCLUDED.correct_count,
	    total_questions = EXCLUDED.total_questions,
	    score = EXCLUDED.score,
	    is_active = EXCLUDED.is_active,
	    updated_at = EXCLUDED.updated_at
	WHERE grades.updated_at <= EXCLUDED.updated_at`

// UpsertCourseGrade writes g as the current grade for its (course, student),
// replacing any earlier one.
func (r *GradeRepository) UpsertCourseGrade(ctx context.Context, g model.GradeResult) error {
	_, err := r.pool.Exec(ctx, upsertGradeSQL,
		g.CourseID, g.StudentID, nullableUUID(g.QuizID), g.CourseTitle, g.CorrectCount,
		g.TotalQuestions, g.Score, g.IsActive, g.Timestamp,
	)
	return Unavailable("upsert grade", err)
}

// SetCourseActive copies a course's active flag onto its stored grades.
func (r *GradeRepository) SetCourseActive(ctx context.Context, courseID uuid.UUID, active bool) error {
	_, err := r.pool.Exec(ctx, `UPDATE grades SET is_active = $1 WHERE course_id = $2`, active, courseID)
	return Unavailable("set grades active", err)
}

// BulkUpsertCourseGrades upserts a batch in one statement. The batch must not
// contain two rows for the same (course, student).
func (r *GradeRepository) BulkUpsertCourseGrades(ctx context.Context, batch []model.GradeResult) error {
	n := len(batch)
	if n == 0 {
		return nil
	}

	courseIDs := make([]uuid.UUID, n)
	studentIDs := make([]int, n)
	quizIDs := make([]pgtype.UUID, n)
	titles := make([]string, n)
	corrects := make([]int, n)
	totals := make([]int, n)
	scores := make([]int, n)
	actives := make([]bool, n)
	stamps := make([]time.Time, n)

	for i, g := range batch {
		courseIDs[i] = g.CourseID
		studentIDs[i] = g.StudentID
		quizIDs[i] = nullableUUID(g.QuizID)
		titles[i] = g.CourseTitle
		corrects[i] = g.CorrectCount
		totals[i] = g.TotalQuestions
		scores[i] = g.Score
		actives[i] = g.IsActive
		stamps[i] = g.Timestamp
	}

	query := `
		INSERT INTO grades (course_id, student_id, quiz_id, course_title, correct_count,
		                    total_questions, score, is_active, updated_at)
		SELECT u.course_id, u.student_id, u.quiz_id, u.course_title, u.correct_count,
		       u.total_questions, u.score, COALESCE(c.is_active, u.is_active), u.updated_at
		FROM UNNEST(
			$1::uuid[],
			$2::int[],
			$3::uuid[],
			$4::text[],
			$5::int[],
			$6::int[],
			$7::int[],
			$8::bool[],
			$9::timestamptz[]
		) AS u(course_id, student_id, quiz_id, course_title, correct_count,
		       total_questions, score, is_active, updated_at)
		LEFT JOIN courses c ON c.id = u.course_id
		ON CONFLICT (course_id, student_id) DO UPDATE
		SET quiz_id = EXCLUDED.quiz_id,
		    course_title = EXCLUDED.course_title,
		    correct_count = EXCLUDED.correct_count,
		    total_questions = EXCLUDED.total_questions,
		    score = EXCLUDED.score,
		    is_active = EXCLUDED.is_active,
		    updated_at = EXCLUDED.updated_at
		WHERE grades.updated_at <= EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		courseIDs, studentIDs, quizIDs, titles, corrects, totals, scores, actives, stamps)
	return Unavailable("bulk upsert grades", err)
}

const gradeColumns = `g.student_id, g.course_id, g.quiz_id, g.correct_count, g.total_questions,
	g.score, g.course_title, g.is_active, g.updated_at`

// ListByStudent retrieves every course grade of a student, most recent first.
func (r *GradeRepository) ListByStudent(ctx context.Context, studentID int) ([]model.GradeResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+gradeColumns+`
		 FROM grades g
		 WHERE g.student_id = $1
		 ORDER BY g.updated_at DESC`, studentID,
	)
	if err != nil {
		return nil, err
	}
	return collectGrades(rows)
}

// ListByCourse retrieves the grades of every student in a course.
func (r *GradeRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]model.GradeResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+gradeColumns+`
		 FROM grades g
		 WHERE g.course_id = $1
		 ORDER BY g.student_id ASC`, courseID,
	)
	if err != nil {
		return nil, err
	}
	return collectGrades(rows)
}

func collectGrades(rows pgx.Rows) ([]model.GradeResult, error) {
	defer rows.Close()

	var grades []model.GradeResult
	for rows.Next() {
		var g model.GradeResult
		if err := rows.Scan(&g.StudentID, &g.CourseID, &g.QuizID, &g.CorrectCount, &g.TotalQuestions,
			&g.Score, &g.CourseTitle, &g.IsActive, &g.Timestamp); err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}

func nullableUUID(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

// PostgresGradeStore writes grades and attempts synchronously to PostgreSQL.
type PostgresGradeStore struct {
	*GradeRepository
	*AttemptRepository
}

// NewPostgresGradeStore combines the grade and attempt repositories.
func NewPostgresGradeStore(grades *GradeRepository, attempts *AttemptRepository) *PostgresGradeStore {
	return &PostgresGradeStore{GradeRepository: grades, AttemptRepository: attempts}
}
