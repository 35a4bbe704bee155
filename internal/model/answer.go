package model

import (
	"bytes"
	"encoding/json"
)

// Answer is a learner's response to one question. The zero value is unanswered.
// On the wire an unanswered entry is JSON null; an answered one is a string.
type Answer struct {
	Value    string
	Answered bool
}

// NewAnswer returns a submitted answer holding value.
func NewAnswer(value string) Answer {
	return Answer{Value: value, Answered: true}
}

// Unanswered returns the distinguished absent answer.
func Unanswered() Answer {
	return Answer{}
}

// MarshalJSON implements json.Marshaler.
func (a Answer) MarshalJSON() ([]byte, error) {
	if !a.Answered {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Answer) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = Answer{}
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = NewAnswer(v)
	return nil
}

// SubmitQuizRequest carries answers aligned with the quiz questions.
type SubmitQuizRequest struct {
	Answers []Answer `json:"answers" binding:"required"`
}
