package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(errors.New("dial tcp: connection refused")))
	assert.True(t, IsTransient(context.DeadlineExceeded))
	assert.True(t, IsTransient(&pgconn.PgError{Code: "08006"}))
	assert.True(t, IsTransient(&pgconn.PgError{Code: "40P01"}))
	assert.True(t, IsTransient(&pgconn.PgError{Code: "57P01"}))

	assert.False(t, IsTransient(context.Canceled))
	assert.False(t, IsTransient(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsTransient(&pgconn.PgError{Code: "23503"}))
}

func TestUnavailableWraps(t *testing.T) {
	assert.NoError(t, Unavailable("upsert grade", nil))

	err := Unavailable("upsert grade", errors.New("i/o timeout"))
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Contains(t, err.Error(), "upsert grade")

	fk := &pgconn.PgError{Code: "23503"}
	err = Unavailable("upsert grade", fk)
	assert.NotErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, fk)
}
