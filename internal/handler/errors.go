package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/saviare/saviare-backend/internal/grading"
	"github.com/saviare/saviare-backend/internal/repository"
	"github.com/saviare/saviare-backend/internal/response"
	"github.com/saviare/saviare-backend/internal/service"
)

type errMapping struct {
	target error
	status int
	code   response.ErrCode
	// detail exposes err.Error() to the client.
	detail bool
}

var errMappings = []errMapping{
	{grading.ErrInvalidInput, http.StatusBadRequest, response.ErrInvalidSubmit, true},
	{repository.ErrStorageUnavailable, http.StatusServiceUnavailable, response.ErrStorageUnavailable, false},
	{service.ErrNotFound, http.StatusNotFound, response.ErrNotFound, false},
	{service.ErrForbidden, http.StatusForbidden, response.ErrNotCourseOwner, false},
	{service.ErrNotEnrolled, http.StatusForbidden, response.ErrNotEnrolled, false},
	{service.ErrCourseInactive, http.StatusConflict, response.ErrCourseInactive, false},
	{service.ErrInvalidQuiz, http.StatusBadRequest, response.ErrInvalidQuiz, true},
	{service.ErrInvalidContent, http.StatusBadRequest, response.ErrInvalidContent, true},
	{service.ErrInvalidScore, http.StatusBadRequest, response.ErrInvalidScore, false},
	{service.ErrInvalidAnswerIndex, http.StatusBadRequest, response.ErrInvalidAnswerIx, false},
	{service.ErrNotStudent, http.StatusBadRequest, response.ErrNotStudent, false},
	{service.ErrEmailTaken, http.StatusConflict, response.ErrEmailTaken, false},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, response.ErrInvalidCredentials, false},
}

// classify maps a service error to its HTTP status and error code.
func classify(err error) (int, response.ErrCode, bool) {
	for _, m := range errMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code, m.detail
		}
	}
	return http.StatusInternalServerError, response.ErrInternal, false
}

// failFromError writes the error response matching err. Unclassified and
// storage errors are logged with the request-scoped logger.
func failFromError(c *gin.Context, err error) {
	status, code, detail := classify(err)
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).
			Str("path", c.FullPath()).
			Msg("Request failed")
	}
	if detail {
		response.FailWithDetail(c, status, code, err.Error())
		return
	}
	response.Fail(c, status, code)
}
