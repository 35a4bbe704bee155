package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// QuizPayloadKey returns the cache key for a quiz definition, answers included.
func (r *CacheKeyStruct) QuizPayloadKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:payload", quizID)
}

// StudentDraftKey returns the cache key for a student's in-progress answers to a quiz
func (r *CacheKeyStruct) StudentDraftKey(quizID string, studentID int) string {
	return fmt.Sprintf("student:%d:quiz:%s:draft", studentID, quizID)
}

var CacheKey = NewCacheKeyStruct()
