// Package grading scores quiz submissions. It performs no I/O and keeps no
// state, so Grade is safe to call from any number of goroutines.
package grading

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/saviare/saviare-backend/internal/model"
)

// ErrInvalidInput is returned when a submission cannot be graded at all.
var ErrInvalidInput = errors.New("invalid input")

// Grade compares answers against quiz questions by position and returns the
// resulting grade. CourseID and QuizID are taken from the quiz; the caller
// fills StudentID and stamps Timestamp.
//
// An unanswered entry counts as wrong. A submitted value is correct when it
// equals the question's correct answer exactly (case-sensitive, untrimmed),
// or when it names an option whose text equals the correct answer.
func Grade(quiz model.Quiz, answers []model.Answer) (model.GradeResult, error) {
	total := len(quiz.Questions)
	if total == 0 {
		return model.GradeResult{}, fmt.Errorf("%w: quiz %s has no questions", ErrInvalidInput, quiz.ID)
	}
	if len(answers) != total {
		return model.GradeResult{}, fmt.Errorf("%w: expected %d answers, got %d", ErrInvalidInput, total, len(answers))
	}

	correct := 0
	for i, q := range quiz.Questions {
		if IsCorrect(q, answers[i]) {
			correct++
		}
	}

	quizID := quiz.ID
	return model.GradeResult{
		CourseID:       quiz.CourseID,
		QuizID:         &quizID,
		CorrectCount:   correct,
		TotalQuestions: total,
		Score:          Percent(correct, total),
	}, nil
}

// IsCorrect judges a single answer against its question.
func IsCorrect(q model.Question, a model.Answer) bool {
	if !a.Answered {
		return false
	}
	if a.Value == q.CorrectAnswer {
		return true
	}
	if q.IsFreeText() {
		return false
	}
	idx := lo.IndexOf(q.Options, a.Value)
	return idx >= 0 && q.Options[idx] == q.CorrectAnswer
}

// Percent returns correct/total as an integer percentage rounded half up.
// Integer arithmetic keeps 1/8 -> 13 exact where float rounding may not.
// total must be positive.
func Percent(correct, total int) int {
	return (200*correct + total) / (2 * total)
}
