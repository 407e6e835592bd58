package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionsRoundTrip(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)

	token, err := s.Issue("acc123")
	require.NoError(t, err)

	sub, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "acc123", sub)
}

func TestSessionsRejectsExpired(t *testing.T) {
	s := NewSessions("test-secret", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	s.now = func() time.Time { return issued }

	token, err := s.Issue("acc123")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionsRejectsWrongSecret(t *testing.T) {
	token, err := NewSessions("one", time.Hour).Issue("acc123")
	require.NoError(t, err)

	_, err = NewSessions("two", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionsRejectsOtherTokenTypes(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "acc123",
		"type": "refresh",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	token, err := raw.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewSessions("test-secret", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionsRejectsGarbage(t *testing.T) {
	_, err := NewSessions("test-secret", time.Hour).Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}
