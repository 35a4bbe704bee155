package model

import (
	"time"

	"github.com/google/uuid"
)

// Quiz is an ordered set of questions belonging to one course.
// Question order defines numbering and answer alignment.
type Quiz struct {
	ID        uuid.UUID  `json:"id"`
	CourseID  uuid.UUID  `json:"course_id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"created_at"`
}

// Question is a prompt with optional options. Empty Options means free text.
type Question struct {
	Text          string   `json:"text" yaml:"text"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer string   `json:"correct_answer" yaml:"correct_answer"`
}

// IsFreeText reports whether the question takes free-text input.
func (q Question) IsFreeText() bool {
	return len(q.Options) == 0
}

// QuizForStudent is a quiz without correct answers.
type QuizForStudent struct {
	ID        uuid.UUID            `json:"id"`
	CourseID  uuid.UUID            `json:"course_id"`
	Title     string               `json:"title"`
	Questions []QuestionForStudent `json:"questions"`
}

// QuestionForStudent is a question without its correct answer.
type QuestionForStudent struct {
	Number  int      `json:"number"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// CreateQuizRequest is the payload for authoring a quiz.
type CreateQuizRequest struct {
	Title     string          `json:"title" binding:"required,notblank,max=255"`
	Questions []QuestionInput `json:"questions" binding:"required,min=1,dive"`
}

// QuestionInput is one authored question.
type QuestionInput struct {
	Text          string   `json:"text" binding:"required,notblank,max=2000"`
	Options       []string `json:"options" binding:"omitempty,dive,required,notblank,max=500"`
	CorrectAnswer string   `json:"correct_answer" binding:"required,notblank,max=2000"`
}
