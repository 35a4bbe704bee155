package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/saviare/saviare-backend/internal/model"
)

// CourseRepository handles course and enrollment data access.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

const courseSelect = `
	SELECT c.id, c.title, c.description, c.content, c.professor_id,
	       CONCAT_WS(' ', u.first_name, NULLIF(u.last_name, '')), c.is_active, c.created_at
	FROM courses c
	JOIN users u ON u.id = c.professor_id`

func scanCourse(row pgx.Row) (*model.Course, error) {
	c := &model.Course{}
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Content, &c.ProfessorID,
		&c.ProfessorName, &c.IsActive, &c.CreatedAt); err != nil {
		return nil, err
	}
	if c.Content == nil {
		c.Content = []model.ContentItem{}
	}
	return c, nil
}

func collectCourses(rows pgx.Rows) ([]model.Course, error) {
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	if c.Content == nil {
		c.Content = []model.ContentItem{}
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO courses (title, description, content, professor_id, is_active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		c.Title, c.Description, c.Content, c.ProfessorID, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt)
}

// GetByID retrieves a course by its UUID.
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	return scanCourse(r.pool.QueryRow(ctx, courseSelect+` WHERE c.id = $1`, id))
}

// ListByProfessor retrieves the courses a teacher owns, newest first.
func (r *CourseRepository) ListByProfessor(ctx context.Context, professorID int) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx, courseSelect+` WHERE c.professor_id = $1 ORDER BY c.created_at DESC`, professorID)
	if err != nil {
		return nil, err
	}
	return collectCourses(rows)
}

// ListByStudent retrieves the courses a student is enrolled in.
func (r *CourseRepository) ListByStudent(ctx context.Context, studentID int) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx, courseSelect+`
		JOIN course_students cs ON cs.course_id = c.id
		WHERE cs.student_id = $1
		ORDER BY c.title ASC`, studentID)
	if err != nil {
		return nil, err
	}
	return collectCourses(rows)
}

// AppendContent adds one content item to the end of the course content array.
func (r *CourseRepository) AppendContent(ctx context.Context, id uuid.UUID, item model.ContentItem) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE courses SET content = content || jsonb_build_array($1::jsonb) WHERE id = $2`,
		item, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetActive toggles a course's active flag.
func (r *CourseRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE courses SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Enroll adds a student to a course. Enrolling twice is a no-op.
func (r *CourseRepository) Enroll(ctx context.Context, courseID uuid.UUID, studentID int) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO course_students (course_id, student_id)
		 VALUES ($1, $2)
		 ON CONFLICT (course_id, student_id) DO NOTHING`,
		courseID, studentID)
	return err
}

// Unenroll removes a student from a course and reports whether they were enrolled.
func (r *CourseRepository) Unenroll(ctx context.Context, courseID uuid.UUID, studentID int) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM course_students WHERE course_id = $1 AND student_id = $2`,
		courseID, studentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListStudentIDs retrieves the IDs of every student enrolled in a course.
func (r *CourseRepository) ListStudentIDs(ctx context.Context, courseID uuid.UUID) ([]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT student_id FROM course_students WHERE course_id = $1 ORDER BY student_id`, courseID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int])
}

// IsEnrolled reports whether a student belongs to a course.
func (r *CourseRepository) IsEnrolled(ctx context.Context, courseID uuid.UUID, studentID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM course_students WHERE course_id = $1 AND student_id = $2)`,
		courseID, studentID).Scan(&exists)
	return exists, err
}

// Delete removes a course; quizzes, enrollments and grades cascade.
func (r *CourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return err
}
