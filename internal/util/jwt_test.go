package util

import (
	"testing"
	"time"

	"adultna_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTripCarriesSessionID(t *testing.T) {
	user := &model.User{Email: "a@example.com", Role: model.RoleUser}
	user.ID = 7

	token, err := GenerateJWT(user, "sess-abc", "test-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.Equal(t, "sess-abc", claims.SessionID)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	user := &model.User{Email: "a@example.com"}
	token, err := GenerateJWT(user, "sess-abc", "right-secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "wrong-secret")
	assert.Error(t, err)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	user := &model.User{Email: "a@example.com"}
	token, err := GenerateJWT(user, "sess-abc", "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "test-secret")
	assert.Error(t, err)
}
