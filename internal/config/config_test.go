package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGradeStore(t *testing.T) {
	assert.Equal(t, GradeStorePostgres, parseGradeStore("postgres"))
	assert.Equal(t, GradeStoreMongo, parseGradeStore(" MONGO "))
	assert.Equal(t, GradeStoreQueue, parseGradeStore("queue"))
	assert.Equal(t, GradeStoreQueue, parseGradeStore("firestore"))
}

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, parseOrigins("http://a.test, ,http://b.test "))
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("RECORD_ATTEMPTS", "false")
	assert.False(t, getEnvBool("RECORD_ATTEMPTS", true))

	t.Setenv("RECORD_ATTEMPTS", "nope")
	assert.True(t, getEnvBool("RECORD_ATTEMPTS", true))
}
