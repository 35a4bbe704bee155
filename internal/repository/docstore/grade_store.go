// Package docstore keeps grades and attempts in MongoDB using the document
// layout of the original client app: one grade document per course and
// student, and an append-only attempts collection.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/saviare/saviare-backend/internal/model"
	"github.com/saviare/saviare-backend/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	gradesCollection   = "grades"
	attemptsCollection = "quiz_attempts"
)

type gradeDoc struct {
	ID             string    `bson:"_id"`
	StudentID      int       `bson:"studentId"`
	CourseID       string    `bson:"courseId"`
	QuizID         *string   `bson:"quizId,omitempty"`
	CourseTitle    string    `bson:"courseTitle"`
	CorrectCount   int       `bson:"correctCount"`
	TotalQuestions int       `bson:"total"`
	Score          int       `bson:"score"`
	IsActive       bool      `bson:"isActive"`
	UpdatedAt      time.Time `bson:"updatedAt"`
}

type attemptDoc struct {
	ID             string    `bson:"_id"`
	StudentID      int       `bson:"studentId"`
	CourseID       string    `bson:"courseId"`
	QuizID         string    `bson:"quizId"`
	Answers        []*string `bson:"answers"`
	CorrectCount   int       `bson:"correctCount"`
	TotalQuestions int       `bson:"total"`
	Score          int       `bson:"score"`
	Timestamp      time.Time `bson:"timestamp"`
}

// GradeStore is a MongoDB-backed grade store.
type GradeStore struct {
	grades   *mongo.Collection
	attempts *mongo.Collection
}

// NewGradeStore creates a GradeStore on db.
func NewGradeStore(db *mongo.Database) *GradeStore {
	return &GradeStore{
		grades:   db.Collection(gradesCollection),
		attempts: db.Collection(attemptsCollection),
	}
}

// EnsureIndexes creates the lookup indexes used by the list queries.
func (s *GradeStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.grades.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "updatedAt", Value: -1}}},
		{Keys: bson.D{{Key: "courseId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("grade indexes: %w", err)
	}
	_, err = s.attempts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "studentId", Value: 1}, {Key: "quizId", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("attempt indexes: %w", err)
	}
	return nil
}

// GradeDocID is the document key of a course grade.
func GradeDocID(courseID uuid.UUID, studentID int) string {
	return fmt.Sprintf("%s_%d", courseID, studentID)
}

// UpsertCourseGrade merges g into the course grade document. A stored
// document with a newer updatedAt is left untouched.
func (s *GradeStore) UpsertCourseGrade(ctx context.Context, g model.GradeResult) error {
	doc := toGradeDoc(g)
	filter, update := gradeFilter(doc), gradeUpdate(doc)

	_, err := s.grades.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		// Either a newer document exists or a concurrent first write inserted
		// the _id. The document exists now, so the guarded update decides.
		_, err = s.grades.UpdateOne(ctx, filter, update)
	}
	return unavailable("upsert grade", err)
}

// SetCourseActive copies a course's active flag onto all of its grade documents.
func (s *GradeStore) SetCourseActive(ctx context.Context, courseID uuid.UUID, active bool) error {
	_, err := s.grades.UpdateMany(ctx,
		bson.M{"courseId": courseID.String()},
		bson.M{"$set": bson.M{"isActive": active}},
	)
	return unavailable("set grades active", err)
}

// gradeFilter matches doc's grade only when the stored copy is not newer.
func gradeFilter(doc gradeDoc) bson.D {
	return bson.D{
		{Key: "_id", Value: doc.ID},
		{Key: "updatedAt", Value: bson.D{{Key: "$lte", Value: doc.UpdatedAt}}},
	}
}

func gradeUpdate(doc gradeDoc) bson.M {
	return bson.M{"$set": bson.M{
		"studentId":    doc.StudentID,
		"courseId":     doc.CourseID,
		"quizId":       doc.QuizID,
		"courseTitle":  doc.CourseTitle,
		"correctCount": doc.CorrectCount,
		"total":        doc.TotalQuestions,
		"score":        doc.Score,
		"isActive":     doc.IsActive,
		"updatedAt":    doc.UpdatedAt,
	}}
}

// AppendAttempt inserts an immutable attempt document.
func (s *GradeStore) AppendAttempt(ctx context.Context, a model.Attempt) error {
	doc := attemptDoc{
		ID:        a.ID.String(),
		StudentID: a.StudentID,
		CourseID:  a.CourseID.String(),
		QuizID:    a.QuizID.String(),
		Answers: lo.Map(a.Answers, func(ans model.Answer, _ int) *string {
			if !ans.Answered {
				return nil
			}
			return lo.ToPtr(ans.Value)
		}),
		CorrectCount:   a.CorrectCount,
		TotalQuestions: a.TotalQuestions,
		Score:          a.Score,
		Timestamp:      a.Timestamp.UTC(),
	}

	_, err := s.attempts.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return unavailable("append attempt", err)
}

// ListByStudent retrieves every course grade of a student, most recent first.
func (s *GradeStore) ListByStudent(ctx context.Context, studentID int) ([]model.GradeResult, error) {
	cur, err := s.grades.Find(ctx,
		bson.M{"studentId": studentID},
		options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}

	var docs []gradeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return fromGradeDocs(docs)
}

// ListByCourse retrieves the grades of every student in a course.
func (s *GradeStore) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]model.GradeResult, error) {
	cur, err := s.grades.Find(ctx, bson.M{"courseId": courseID.String()})
	if err != nil {
		return nil, err
	}

	var docs []gradeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return fromGradeDocs(docs)
}

// ListByStudentAndQuiz retrieves a student's attempts at a quiz, newest first.
func (s *GradeStore) ListByStudentAndQuiz(ctx context.Context, studentID int, quizID uuid.UUID) ([]model.Attempt, error) {
	cur, err := s.attempts.Find(ctx,
		bson.M{"studentId": studentID, "quizId": quizID.String()},
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}

	var docs []attemptDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	attempts := make([]model.Attempt, 0, len(docs))
	for _, d := range docs {
		a, err := fromAttemptDoc(d)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}

func toGradeDoc(g model.GradeResult) gradeDoc {
	doc := gradeDoc{
		ID:             GradeDocID(g.CourseID, g.StudentID),
		StudentID:      g.StudentID,
		CourseID:       g.CourseID.String(),
		CourseTitle:    g.CourseTitle,
		CorrectCount:   g.CorrectCount,
		TotalQuestions: g.TotalQuestions,
		Score:          g.Score,
		IsActive:       g.IsActive,
		UpdatedAt:      g.Timestamp.UTC(),
	}
	if g.QuizID != nil {
		doc.QuizID = lo.ToPtr(g.QuizID.String())
	}
	return doc
}

func fromGradeDocs(docs []gradeDoc) ([]model.GradeResult, error) {
	grades := make([]model.GradeResult, 0, len(docs))
	for _, d := range docs {
		courseID, err := uuid.Parse(d.CourseID)
		if err != nil {
			return nil, fmt.Errorf("grade %s: course id: %w", d.ID, err)
		}
		g := model.GradeResult{
			StudentID:      d.StudentID,
			CourseID:       courseID,
			CorrectCount:   d.CorrectCount,
			TotalQuestions: d.TotalQuestions,
			Score:          d.Score,
			CourseTitle:    d.CourseTitle,
			IsActive:       d.IsActive,
			Timestamp:      d.UpdatedAt,
		}
		if d.QuizID != nil {
			quizID, err := uuid.Parse(*d.QuizID)
			if err != nil {
				return nil, fmt.Errorf("grade %s: quiz id: %w", d.ID, err)
			}
			g.QuizID = &quizID
		}
		grades = append(grades, g)
	}
	return grades, nil
}

func fromAttemptDoc(d attemptDoc) (model.Attempt, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.Attempt{}, fmt.Errorf("attempt id: %w", err)
	}
	courseID, err := uuid.Parse(d.CourseID)
	if err != nil {
		return model.Attempt{}, fmt.Errorf("attempt %s: course id: %w", d.ID, err)
	}
	quizID, err := uuid.Parse(d.QuizID)
	if err != nil {
		return model.Attempt{}, fmt.Errorf("attempt %s: quiz id: %w", d.ID, err)
	}
	return model.Attempt{
		ID:        id,
		StudentID: d.StudentID,
		CourseID:  courseID,
		QuizID:    quizID,
		Answers: lo.Map(d.Answers, func(v *string, _ int) model.Answer {
			if v == nil {
				return model.Unanswered()
			}
			return model.NewAnswer(*v)
		}),
		CorrectCount:   d.CorrectCount,
		TotalQuestions: d.TotalQuestions,
		Score:          d.Score,
		Timestamp:      d.Timestamp,
	}, nil
}

// unavailable marks network and timeout failures as transient.
func unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, repository.ErrStorageUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
