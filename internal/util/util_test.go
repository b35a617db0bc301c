package util

import (
	"college_chatbot_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Name: "Asha", Email: "asha@example.com"}
	user.ID = 7

	token, err := GenerateJWT(user, model.Student, "sess-1", "secret-secret-secret-secret-1234", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret-secret-secret-secret-1234")
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, model.Student, claims.Role)
	assert.Equal(t, "asha@example.com", claims.Email)
	assert.Equal(t, "sess-1", claims.SessionID())

	_, err = ParseJWT(token, "another-secret-another-secret-12")
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	user := &model.User{Email: "x@example.com"}
	token, err := GenerateJWT(user, model.Student, "s", "k", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "k")
	assert.Error(t, err)
}

func TestSafeDataFileName(t *testing.T) {
	name, err := SafeDataFileName("../../etc/fees.json")
	require.NoError(t, err)
	assert.Equal(t, "fees.json", name)

	name, err = SafeDataFileName("info.MD")
	require.NoError(t, err)
	assert.Equal(t, "info.MD", name)

	for _, bad := range []string{"", "..", ".env", "run.sh", "dir/"} {
		_, err := SafeDataFileName(bad)
		assert.ErrorIs(t, err, ErrInvalidFileName, bad)
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 3, ParseIntDefault("3", 1, 1))
	assert.Equal(t, 1, ParseIntDefault("0", 1, 1))
	assert.Equal(t, 1, ParseIntDefault("abc", 1, 1))
	assert.Equal(t, 50, ParseIntDefault("", 50, 1))
}
