package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saviare/saviare-backend/internal/grading"
	"github.com/saviare/saviare-backend/internal/repository"
	"github.com/saviare/saviare-backend/internal/response"
	"github.com/saviare/saviare-backend/internal/service"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   response.ErrCode
	}{
		{fmt.Errorf("%w: expected 2 answers, got 1", grading.ErrInvalidInput), http.StatusBadRequest, response.ErrInvalidSubmit},
		{fmt.Errorf("upsert grade: %w", repository.Unavailable("upsert", context.DeadlineExceeded)), http.StatusServiceUnavailable, response.ErrStorageUnavailable},
		{service.ErrNotFound, http.StatusNotFound, response.ErrNotFound},
		{service.ErrForbidden, http.StatusForbidden, response.ErrNotCourseOwner},
		{service.ErrNotEnrolled, http.StatusForbidden, response.ErrNotEnrolled},
		{fmt.Errorf("%w: question 1 has no text", service.ErrInvalidQuiz), http.StatusBadRequest, response.ErrInvalidQuiz},
		{service.ErrEmailTaken, http.StatusConflict, response.ErrEmailTaken},
		{errors.New("boom"), http.StatusInternalServerError, response.ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, code, _ := classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}
