package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/saviare/saviare-backend/internal/model"
)

type fakeQuizzes map[uuid.UUID]*model.Quiz

func (f fakeQuizzes) Get(_ context.Context, id uuid.UUID) (*model.Quiz, error) {
	q, ok := f[id]
	if !ok {
		return nil, ErrNotFound
	}
	return q, nil
}

type fakeCourses struct {
	courses  map[uuid.UUID]*model.Course
	enrolled map[uuid.UUID][]int
}

func (f *fakeCourses) GetByID(_ context.Context, id uuid.UUID) (*model.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (f *fakeCourses) IsEnrolled(_ context.Context, courseID uuid.UUID, studentID int) (bool, error) {
	for _, id := range f.enrolled[courseID] {
		if id == studentID {
			return true, nil
		}
	}
	return false, nil
}

type fakeStore struct {
	mu        sync.Mutex
	grades    []model.GradeResult
	attempts  []model.Attempt
	upsertErr error
	appendErr error
	flagErr   error
}

func (f *fakeStore) SetCourseActive(_ context.Context, courseID uuid.UUID, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.flagErr != nil {
		return f.flagErr
	}
	for i := range f.grades {
		if f.grades[i].CourseID == courseID {
			f.grades[i].IsActive = active
		}
	}
	return nil
}

func (f *fakeStore) UpsertCourseGrade(_ context.Context, g model.GradeResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.grades = append(f.grades, g)
	return nil
}

func (f *fakeStore) AppendAttempt(_ context.Context, a model.Attempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.attempts = append(f.attempts, a)
	return nil
}

func (f *fakeStore) ListByStudent(_ context.Context, studentID int) ([]model.GradeResult, error) {
	var out []model.GradeResult
	for _, g := range f.grades {
		if g.StudentID == studentID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByCourse(_ context.Context, courseID uuid.UUID) ([]model.GradeResult, error) {
	var out []model.GradeResult
	for _, g := range f.grades {
		if g.CourseID == courseID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByStudentAndQuiz(_ context.Context, studentID int, quizID uuid.UUID) ([]model.Attempt, error) {
	var out []model.Attempt
	for _, a := range f.attempts {
		if a.StudentID == studentID && a.QuizID == quizID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeDrafts struct {
	answers map[uuid.UUID][]model.Answer
	cleared []uuid.UUID
}

func (f *fakeDrafts) Load(_ context.Context, _ int, quiz *model.Quiz) ([]model.Answer, error) {
	if a, ok := f.answers[quiz.ID]; ok {
		return a, nil
	}
	return make([]model.Answer, len(quiz.Questions)), nil
}

func (f *fakeDrafts) Clear(_ context.Context, _ int, quizID uuid.UUID) error {
	f.cleared = append(f.cleared, quizID)
	return nil
}

type fakeUsers map[int]model.User

func (f fakeUsers) GetByID(_ context.Context, id int) (*model.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (f fakeUsers) ListByRole(_ context.Context, role model.Role) ([]model.User, error) {
	var out []model.User
	for _, u := range f {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f fakeUsers) ListByIDs(_ context.Context, ids []int) (map[int]model.User, error) {
	out := make(map[int]model.User, len(ids))
	for _, id := range ids {
		if u, ok := f[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

// fakeCourseStore is an in-memory CourseStore.
type fakeCourseStore struct {
	fakeCourses
}

func newFakeCourseStore(courses ...*model.Course) *fakeCourseStore {
	f := &fakeCourseStore{fakeCourses: fakeCourses{
		courses:  map[uuid.UUID]*model.Course{},
		enrolled: map[uuid.UUID][]int{},
	}}
	for _, c := range courses {
		f.courses[c.ID] = c
	}
	return f
}

func (f *fakeCourseStore) Create(_ context.Context, c *model.Course) error {
	c.ID = uuid.New()
	f.courses[c.ID] = c
	return nil
}

func (f *fakeCourseStore) ListByProfessor(_ context.Context, professorID int) ([]model.Course, error) {
	var out []model.Course
	for _, c := range f.courses {
		if c.ProfessorID == professorID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCourseStore) ListByStudent(_ context.Context, studentID int) ([]model.Course, error) {
	var out []model.Course
	for id, ids := range f.enrolled {
		for _, s := range ids {
			if s == studentID {
				out = append(out, *f.courses[id])
			}
		}
	}
	return out, nil
}

func (f *fakeCourseStore) AppendContent(_ context.Context, id uuid.UUID, item model.ContentItem) error {
	f.courses[id].Content = append(f.courses[id].Content, item)
	return nil
}

func (f *fakeCourseStore) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	f.courses[id].IsActive = active
	return nil
}

func (f *fakeCourseStore) Enroll(_ context.Context, courseID uuid.UUID, studentID int) error {
	if ok, _ := f.IsEnrolled(context.Background(), courseID, studentID); !ok {
		f.enrolled[courseID] = append(f.enrolled[courseID], studentID)
	}
	return nil
}

func (f *fakeCourseStore) Unenroll(_ context.Context, courseID uuid.UUID, studentID int) (bool, error) {
	ids := f.enrolled[courseID]
	for i, id := range ids {
		if id == studentID {
			f.enrolled[courseID] = append(ids[:i:i], ids[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCourseStore) ListStudentIDs(_ context.Context, courseID uuid.UUID) ([]int, error) {
	return append([]int{}, f.enrolled[courseID]...), nil
}

func (f *fakeCourseStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.courses, id)
	delete(f.enrolled, id)
	return nil
}
