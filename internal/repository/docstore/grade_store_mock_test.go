package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/saviare/saviare-backend/internal/model"
)

func sampleGrade(ts time.Time) model.GradeResult {
	quizID := uuid.New()
	return model.GradeResult{
		StudentID:      7,
		CourseID:       uuid.New(),
		QuizID:         &quizID,
		CorrectCount:   3,
		TotalQuestions: 4,
		Score:          75,
		IsActive:       true,
		Timestamp:      ts,
	}
}

func upsertFlag(evt bson.Raw) bool {
	v, ok := evt.Lookup("updates", "0", "upsert").BooleanOK()
	return ok && v
}

func TestGradeFilterGuardsNewerDocuments(t *testing.T) {
	ts := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	doc := toGradeDoc(sampleGrade(ts))

	filter := gradeFilter(doc)
	require.Len(t, filter, 2)
	assert.Equal(t, "_id", filter[0].Key)
	assert.Equal(t, doc.ID, filter[0].Value)
	assert.Equal(t, "updatedAt", filter[1].Key)
	assert.Equal(t, bson.D{{Key: "$lte", Value: ts}}, filter[1].Value)

	set := gradeUpdate(doc)["$set"].(bson.M)
	assert.Equal(t, 75, set["score"])
	assert.Equal(t, ts, set["updatedAt"])
}

func TestUpsertCourseGrade(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ts := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)

	mt.Run("stored grade is newer", func(mt *mtest.T) {
		store := NewGradeStore(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0},
		))

		require.NoError(mt, store.UpsertCourseGrade(context.Background(), sampleGrade(ts)))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "update", evt.CommandName)
		assert.True(mt, upsertFlag(evt.Command))
		assert.True(mt, ts.Equal(evt.Command.Lookup("updates", "0", "q", "updatedAt", "$lte").Time()))
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("lost insert race retries guarded update", func(mt *mtest.T) {
		store := NewGradeStore(mt.DB)
		mt.AddMockResponses(
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		require.NoError(mt, store.UpsertCourseGrade(context.Background(), sampleGrade(ts)))

		first := mt.GetStartedEvent()
		second := mt.GetStartedEvent()
		require.NotNil(mt, first)
		require.NotNil(mt, second)
		assert.True(mt, upsertFlag(first.Command))
		assert.False(mt, upsertFlag(second.Command))
		assert.Equal(mt,
			first.Command.Lookup("updates", "0", "q").Document().String(),
			second.Command.Lookup("updates", "0", "q").Document().String())
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("retry failure is reported", func(mt *mtest.T) {
		store := NewGradeStore(mt.DB)
		mt.AddMockResponses(
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"}),
			mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Name: "BadValue", Message: "bad"}),
		)

		assert.Error(mt, store.UpsertCourseGrade(context.Background(), sampleGrade(ts)))
	})
}

func TestSetCourseActiveUpdatesEveryGrade(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("toggle", func(mt *mtest.T) {
		store := NewGradeStore(mt.DB)
		courseID := uuid.New()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 3}, bson.E{Key: "nModified", Value: 3},
		))

		require.NoError(mt, store.SetCourseActive(context.Background(), courseID, false))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		update := evt.Command.Lookup("updates", "0")
		assert.True(mt, update.Document().Lookup("multi").Boolean())
		assert.Equal(mt, courseID.String(), update.Document().Lookup("q", "courseId").StringValue())
		assert.False(mt, update.Document().Lookup("u", "$set", "isActive").Boolean())
	})
}
