package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/saviare/saviare-backend/internal/model"
)

// CourseService handles course business logic.
type CourseService struct {
	courseRepo CourseStore
	users      AccountDirectory
	grades     GradeFlags
	log        zerolog.Logger
}

// NewCourseService creates a new CourseService. grades receives the active
// flag whenever a course is toggled.
func NewCourseService(courseRepo CourseStore, users AccountDirectory, grades GradeFlags, log zerolog.Logger) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		users:      users,
		grades:     grades,
		log:        log.With().Str("component", "course_service").Logger(),
	}
}

// Create creates a course owned by the given teacher. New courses are active.
func (s *CourseService) Create(ctx context.Context, professorID int, req model.CreateCourseRequest) (*model.Course, error) {
	c := &model.Course{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Content:     []model.ContentItem{},
		ProfessorID: professorID,
		IsActive:    true,
	}
	if err := s.courseRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	s.log.Info().Str("course_id", c.ID.String()).Int("professor_id", professorID).Msg("Course created")
	return c, nil
}

// GetByID returns a course.
func (s *CourseService) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	c, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return c, nil
}

// IsEnrolled reports whether a student belongs to a course.
func (s *CourseService) IsEnrolled(ctx context.Context, courseID uuid.UUID, studentID int) (bool, error) {
	return s.courseRepo.IsEnrolled(ctx, courseID, studentID)
}

// GetOwned returns a course only if professorID teaches it.
func (s *CourseService) GetOwned(ctx context.Context, id uuid.UUID, professorID int) (*model.Course, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.ProfessorID != professorID {
		return nil, ErrForbidden
	}
	return c, nil
}

// ListForProfessor returns the courses a teacher owns.
func (s *CourseService) ListForProfessor(ctx context.Context, professorID int) ([]model.Course, error) {
	return s.courseRepo.ListByProfessor(ctx, professorID)
}

// ListForStudent returns the courses a student is enrolled in.
func (s *CourseService) ListForStudent(ctx context.Context, studentID int) ([]model.Course, error) {
	return s.courseRepo.ListByStudent(ctx, studentID)
}

// Delete removes a course the teacher owns.
func (s *CourseService) Delete(ctx context.Context, id uuid.UUID, professorID int) error {
	if _, err := s.GetOwned(ctx, id, professorID); err != nil {
		return err
	}
	return s.courseRepo.Delete(ctx, id)
}

// AddContent appends a text block or a YouTube video to a course.
func (s *CourseService) AddContent(ctx context.Context, id uuid.UUID, professorID int, req model.AddContentRequest) (*model.ContentItem, error) {
	if _, err := s.GetOwned(ctx, id, professorID); err != nil {
		return nil, err
	}

	item, err := NewContentItem(model.ContentType(req.Type), req.Value)
	if err != nil {
		return nil, err
	}
	if err := s.courseRepo.AppendContent(ctx, id, item); err != nil {
		return nil, fmt.Errorf("append content: %w", err)
	}
	return &item, nil
}

// Enroll adds a student account to a course.
func (s *CourseService) Enroll(ctx context.Context, id uuid.UUID, professorID, studentID int) error {
	if _, err := s.GetOwned(ctx, id, professorID); err != nil {
		return err
	}

	u, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get student: %w", err)
	}
	if u.Role != model.RoleStudent {
		return ErrNotStudent
	}
	return s.courseRepo.Enroll(ctx, id, studentID)
}

// Unenroll removes a student from a course. The student's stored grade is kept.
func (s *CourseService) Unenroll(ctx context.Context, id uuid.UUID, professorID, studentID int) error {
	if _, err := s.GetOwned(ctx, id, professorID); err != nil {
		return err
	}

	removed, err := s.courseRepo.Unenroll(ctx, id, studentID)
	if err != nil {
		return fmt.Errorf("unenroll: %w", err)
	}
	if !removed {
		return ErrNotFound
	}
	s.log.Info().Str("course_id", id.String()).Int("student_id", studentID).Msg("Student unenrolled")
	return nil
}

// ListStudents returns the roster of a course the teacher owns, ordered by name.
func (s *CourseService) ListStudents(ctx context.Context, id uuid.UUID, professorID int) ([]model.User, error) {
	if _, err := s.GetOwned(ctx, id, professorID); err != nil {
		return nil, err
	}

	ids, err := s.courseRepo.ListStudentIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	return sortByName(lo.Values(users)), nil
}

// StudentDirectory lists every student account, marking those enrolled in
// courseID when one is given.
func (s *CourseService) StudentDirectory(ctx context.Context, courseID *uuid.UUID, professorID int) ([]model.StudentEntry, error) {
	enrolled := map[int]bool{}
	if courseID != nil {
		if _, err := s.GetOwned(ctx, *courseID, professorID); err != nil {
			return nil, err
		}
		ids, err := s.courseRepo.ListStudentIDs(ctx, *courseID)
		if err != nil {
			return nil, fmt.Errorf("list roster: %w", err)
		}
		enrolled = lo.SliceToMap(ids, func(id int) (int, bool) { return id, true })
	}

	students, err := s.users.ListByRole(ctx, model.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return lo.Map(sortByName(students), func(u model.User, _ int) model.StudentEntry {
		return model.StudentEntry{User: u, Enrolled: enrolled[u.ID]}
	}), nil
}

// SetActive toggles whether a course accepts submissions and mirrors the flag
// onto the course's stored grades.
func (s *CourseService) SetActive(ctx context.Context, id uuid.UUID, professorID int, active bool) error {
	if _, err := s.GetOwned(ctx, id, professorID); err != nil {
		return err
	}
	if err := s.courseRepo.SetActive(ctx, id, active); err != nil {
		return fmt.Errorf("set course active: %w", err)
	}
	if err := s.grades.SetCourseActive(ctx, id, active); err != nil {
		return fmt.Errorf("set grades active: %w", err)
	}
	return nil
}

func sortByName(users []model.User) []model.User {
	sort.Slice(users, func(i, j int) bool {
		a, b := strings.ToLower(users[i].FullName()), strings.ToLower(users[j].FullName())
		if a != b {
			return a < b
		}
		return users[i].ID < users[j].ID
	})
	return users
}

// NewContentItem validates a content block. Video values must be YouTube links.
func NewContentItem(t model.ContentType, value string) (model.ContentItem, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return model.ContentItem{}, fmt.Errorf("%w: empty value", ErrInvalidContent)
	}

	switch t {
	case model.ContentTypeText:
		return model.ContentItem{Type: t, Value: value}, nil
	case model.ContentTypeVideo:
		id, ok := YouTubeID(value)
		if !ok {
			return model.ContentItem{}, fmt.Errorf("%w: not a YouTube link", ErrInvalidContent)
		}
		return model.ContentItem{Type: t, Value: value, VideoID: id}, nil
	default:
		return model.ContentItem{}, fmt.Errorf("%w: unknown type %q", ErrInvalidContent, t)
	}
}

var youtubeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// YouTubeID extracts the 11-character video id from the common YouTube URL shapes:
// watch?v=, youtu.be/, /embed/, /v/ and /shorts/.
func YouTubeID(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "youtube-nocookie.com":
		if u.Path == "/watch" {
			id = u.Query().Get("v")
			break
		}
		for _, prefix := range []string{"/embed/", "/v/", "/shorts/"} {
			if strings.HasPrefix(u.Path, prefix) {
				id = strings.TrimPrefix(u.Path, prefix)
				break
			}
		}
	default:
		return "", false
	}

	if i := strings.IndexByte(id, '/'); i >= 0 {
		id = id[:i]
	}
	if !youtubeIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}
