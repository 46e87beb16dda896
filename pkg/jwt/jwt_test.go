package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("secret", "https://id.example.com", time.Hour)

	token, err := svc.GenerateToken("user_1", Claims{
		Plan:        "u:pro",
		Features:    "u:3_companion_limit, u:10_companion_limit",
		Permissions: []string{"org:feature:unlimited_companions"},
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user_1", claims.Subject)
	assert.Equal(t, []string{"pro"}, claims.PlanSlugs())
	assert.Equal(t, []string{"3_companion_limit", "10_companion_limit"}, claims.FeatureSlugs())
	assert.Equal(t, []string{"org:feature:unlimited_companions"}, claims.Permissions)
}

func TestValidateRejectsWrongSecretAndIssuer(t *testing.T) {
	token, err := NewService("secret", "a", time.Hour).GenerateToken("user_1", Claims{})
	require.NoError(t, err)

	_, err = NewService("other", "a", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewService("secret", "b", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpired(t *testing.T) {
	token, err := NewService("secret", "", -time.Minute).GenerateToken("user_1", Claims{})
	require.NoError(t, err)

	_, err = NewService("secret", "", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestNoSecret(t *testing.T) {
	_, err := NewService("", "", 0).ValidateToken("x")
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestSplitScopedSkipsEmpty(t *testing.T) {
	assert.Nil(t, (&Claims{}).FeatureSlugs())
	assert.Equal(t, []string{"basic"}, (&Claims{Plan: " basic ,"}).PlanSlugs())
}
