package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/cloudguard-ml/internal/auth"
)

func TestService_TokenRoundTrip(t *testing.T) {
	svc := auth.NewService("test-secret", time.Hour)

	token, err := svc.GenerateToken("cloudguard-backend")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "cloudguard-backend", claims.ServiceID)
	assert.Equal(t, "cloudguard-ml", claims.Issuer)
}

func TestService_ValidateToken_WrongSecret(t *testing.T) {
	token, err := auth.NewService("secret-a", time.Hour).GenerateToken("svc")
	require.NoError(t, err)

	_, err = auth.NewService("secret-b", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestService_ValidateToken_Garbage(t *testing.T) {
	svc := auth.NewService("test-secret", time.Hour)

	_, err := svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestService_ValidateToken_Expired(t *testing.T) {
	svc := auth.NewService("test-secret", time.Millisecond)

	token, err := svc.GenerateToken("svc")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestService_DefaultDuration(t *testing.T) {
	svc := auth.NewService("test-secret", 0)
	assert.Equal(t, 24*time.Hour, svc.TokenDuration())
}

func TestSecretHashing(t *testing.T) {
	hash, err := auth.HashSecret("hunter2")
	require.NoError(t, err)

	assert.True(t, auth.CheckSecret("hunter2", hash))
	assert.False(t, auth.CheckSecret("wrong", hash))
	assert.False(t, auth.CheckSecret("hunter2", "not-a-hash"))
}
