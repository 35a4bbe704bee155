package main

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/saviare/saviare-backend/internal/model"
	"github.com/saviare/saviare-backend/internal/service"
	"gopkg.in/yaml.v3"
)

// quizFile is the YAML layout accepted by seed-quizzes:
//
//	course_id: 2b5c...
//	quizzes:
//	  - title: Warm-up
//	    questions:
//	      - text: "2+2?"
//	        options: ["3", "4", "5"]
//	        correct_answer: "4"
type quizFile struct {
	CourseID string      `yaml:"course_id"`
	Quizzes  []quizEntry `yaml:"quizzes"`
}

type quizEntry struct {
	Title     string           `yaml:"title"`
	Questions []model.Question `yaml:"questions"`
}

// parseQuizFile decodes and validates every quiz in r. Unknown keys are rejected.
func parseQuizFile(r io.Reader) (uuid.UUID, []*model.Quiz, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f quizFile
	if err := dec.Decode(&f); err != nil {
		return uuid.Nil, nil, fmt.Errorf("decode yaml: %w", err)
	}

	courseID, err := uuid.Parse(f.CourseID)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("course_id: %w", err)
	}
	if len(f.Quizzes) == 0 {
		return uuid.Nil, nil, fmt.Errorf("no quizzes in file")
	}

	quizzes := make([]*model.Quiz, 0, len(f.Quizzes))
	for i, e := range f.Quizzes {
		q := &model.Quiz{CourseID: courseID, Title: e.Title, Questions: e.Questions}
		if err := service.ValidateQuiz(q); err != nil {
			return uuid.Nil, nil, fmt.Errorf("quiz %d (%q): %w", i+1, e.Title, err)
		}
		quizzes = append(quizzes, q)
	}
	return courseID, quizzes, nil
}
