package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saviare/saviare-backend/internal/grading"
	"github.com/saviare/saviare-backend/internal/model"
	"github.com/saviare/saviare-backend/internal/repository"
)

const studentID = 7

var fixedNow = time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

type submissionFixture struct {
	svc    *SubmissionService
	store  *fakeStore
	drafts *fakeDrafts
	course *model.Course
	quiz   *model.Quiz
}

func newSubmissionFixture(t *testing.T, recordAttempts bool) *submissionFixture {
	t.Helper()

	course := &model.Course{ID: uuid.New(), Title: "Arithmetic", ProfessorID: 1, IsActive: true}
	quiz := &model.Quiz{
		ID:       uuid.New(),
		CourseID: course.ID,
		Title:    "Warm-up",
		Questions: []model.Question{
			{Text: "2+2?", Options: []string{"3", "4", "5"}, CorrectAnswer: "4"},
			{Text: "Capital of France?", CorrectAnswer: "Paris"},
		},
	}

	courses := &fakeCourses{
		courses:  map[uuid.UUID]*model.Course{course.ID: course},
		enrolled: map[uuid.UUID][]int{course.ID: {studentID}},
	}
	store := &fakeStore{}
	drafts := &fakeDrafts{answers: map[uuid.UUID][]model.Answer{}}

	svc := NewSubmissionService(fakeQuizzes{quiz.ID: quiz}, courses, store, drafts, recordAttempts, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }

	return &submissionFixture{svc: svc, store: store, drafts: drafts, course: course, quiz: quiz}
}

func TestSubmitGradesAndPersists(t *testing.T) {
	f := newSubmissionFixture(t, true)
	answers := []model.Answer{model.NewAnswer("4"), model.NewAnswer("paris")}

	result, err := f.svc.Submit(context.Background(), studentID, f.quiz.ID, answers)
	require.NoError(t, err)

	assert.Equal(t, 1, result.CorrectCount)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.Equal(t, 50, result.Score)
	assert.Equal(t, studentID, result.StudentID)
	assert.Equal(t, f.course.ID, result.CourseID)
	require.NotNil(t, result.QuizID)
	assert.Equal(t, f.quiz.ID, *result.QuizID)
	assert.Equal(t, fixedNow, result.Timestamp)
	assert.Equal(t, "Arithmetic", result.CourseTitle)

	require.Len(t, f.store.grades, 1)
	assert.Equal(t, result, f.store.grades[0])

	require.Len(t, f.store.attempts, 1)
	attempt := f.store.attempts[0]
	assert.Equal(t, answers, attempt.Answers)
	assert.Equal(t, f.quiz.ID, attempt.QuizID)
	assert.Equal(t, fixedNow, attempt.Timestamp)
	assert.NotEqual(t, uuid.Nil, attempt.ID)
}

func TestSubmitWithoutAttemptHistory(t *testing.T) {
	f := newSubmissionFixture(t, false)

	_, err := f.svc.Submit(context.Background(), studentID, f.quiz.ID,
		[]model.Answer{model.Unanswered(), model.Unanswered()})
	require.NoError(t, err)

	require.Len(t, f.store.grades, 1)
	assert.Equal(t, 0, f.store.grades[0].Score)
	assert.Empty(t, f.store.attempts)
}

func TestSubmitInvalidInputNeverReachesStore(t *testing.T) {
	f := newSubmissionFixture(t, true)

	_, err := f.svc.Submit(context.Background(), studentID, f.quiz.ID, []model.Answer{model.NewAnswer("4")})
	assert.ErrorIs(t, err, grading.ErrInvalidInput)
	assert.Empty(t, f.store.grades)
	assert.Empty(t, f.store.attempts)
}

func TestSubmitPropagatesStorageUnavailable(t *testing.T) {
	f := newSubmissionFixture(t, true)
	f.store.upsertErr = repository.Unavailable("upsert grade", context.DeadlineExceeded)

	_, err := f.svc.Submit(context.Background(), studentID, f.quiz.ID,
		[]model.Answer{model.NewAnswer("4"), model.NewAnswer("Paris")})
	assert.ErrorIs(t, err, repository.ErrStorageUnavailable)
	assert.Empty(t, f.store.grades)
	assert.Len(t, f.store.attempts, 1)
}

func TestSubmitAttemptFailureKeepsGrade(t *testing.T) {
	f := newSubmissionFixture(t, true)
	f.store.grades = []model.GradeResult{{StudentID: studentID, CourseID: f.course.ID, Score: 100}}
	f.store.appendErr = repository.Unavailable("append attempt", context.DeadlineExceeded)

	_, err := f.svc.Submit(context.Background(), studentID, f.quiz.ID,
		[]model.Answer{model.Unanswered(), model.Unanswered()})
	assert.ErrorIs(t, err, repository.ErrStorageUnavailable)

	require.Len(t, f.store.grades, 1)
	assert.Equal(t, 100, f.store.grades[0].Score)
	assert.Empty(t, f.store.attempts)
}

func TestSubmitRequiresEnrollment(t *testing.T) {
	f := newSubmissionFixture(t, true)

	_, err := f.svc.Submit(context.Background(), studentID+1, f.quiz.ID,
		[]model.Answer{model.NewAnswer("4"), model.NewAnswer("Paris")})
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestSubmitRejectsInactiveCourse(t *testing.T) {
	f := newSubmissionFixture(t, true)
	f.course.IsActive = false

	_, err := f.svc.Submit(context.Background(), studentID, f.quiz.ID,
		[]model.Answer{model.NewAnswer("4"), model.NewAnswer("Paris")})
	assert.ErrorIs(t, err, ErrCourseInactive)
	assert.Empty(t, f.store.grades)
}

func TestSubmitUnknownQuiz(t *testing.T) {
	f := newSubmissionFixture(t, true)

	_, err := f.svc.Submit(context.Background(), studentID, uuid.New(), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitDraftGradesAndClears(t *testing.T) {
	f := newSubmissionFixture(t, true)
	f.drafts.answers[f.quiz.ID] = []model.Answer{model.NewAnswer("4"), model.NewAnswer("Paris")}

	result, err := f.svc.SubmitDraft(context.Background(), studentID, f.quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, []uuid.UUID{f.quiz.ID}, f.drafts.cleared)
}

func TestSubmitDraftKeepsDraftOnFailure(t *testing.T) {
	f := newSubmissionFixture(t, true)
	f.store.upsertErr = repository.Unavailable("upsert grade", context.DeadlineExceeded)

	_, err := f.svc.SubmitDraft(context.Background(), studentID, f.quiz.ID)
	assert.Error(t, err)
	assert.Empty(t, f.drafts.cleared)
}

func TestDraftAnswers(t *testing.T) {
	answers := DraftAnswers(map[string]string{"0": "4", "2": "", "9": "x", "abc": "y"}, 3)

	require.Len(t, answers, 3)
	assert.Equal(t, model.NewAnswer("4"), answers[0])
	assert.False(t, answers[1].Answered)
	assert.Equal(t, model.NewAnswer(""), answers[2])
}
