package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminLogin(t *testing.T) {
	svc := NewAuthService("hunter2", "test-secret")

	_, err := svc.Login("wrong")
	assert.Error(t, err)

	token, err := svc.Login("hunter2")
	require.NoError(t, err)
	assert.NoError(t, svc.ValidateToken(token))
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService("hunter2", "test-secret")

	assert.Error(t, svc.ValidateToken(""))
	assert.Error(t, svc.ValidateToken("not-a-jwt"))
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	issuer := NewAuthService("hunter2", "secret-a")
	verifier := NewAuthService("hunter2", "secret-b")

	token, err := issuer.Login("hunter2")
	require.NoError(t, err)
	assert.Error(t, verifier.ValidateToken(token))
}
