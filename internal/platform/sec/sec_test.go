// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/pipemill/internal/platform/sec"
)

/*
TestTokenService_RoundTrip signs and verifies a session-bound token.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	svc, err := sec.NewTokenService("secret", "pipemill")
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken("u1", "ana", "editor", "s1", time.Minute)
	require.NoError(t, err)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "editor", claims.Role)
	assert.Equal(t, "s1", claims.SessionID)
}

/*
TestTokenService_Rejects covers expired, foreign-key and foreign-issuer tokens.
*/
func TestTokenService_Rejects(t *testing.T) {
	svc, _ := sec.NewTokenService("secret", "pipemill")
	other, _ := sec.NewTokenService("other", "pipemill")
	foreign, _ := sec.NewTokenService("secret", "someone-else")

	expired, _ := svc.GenerateAccessToken("u1", "ana", "editor", "s1", -time.Minute)
	wrongKey, _ := other.GenerateAccessToken("u1", "ana", "editor", "s1", time.Minute)
	wrongIssuer, _ := foreign.GenerateAccessToken("u1", "ana", "editor", "s1", time.Minute)
	noSession, _ := svc.GenerateAccessToken("u1", "ana", "editor", "", time.Minute)

	for name, token := range map[string]string{
		"expired":      expired,
		"wrong_key":    wrongKey,
		"wrong_issuer": wrongIssuer,
		"no_session":   noSession,
		"garbage":      "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.VerifyToken(token)
			assert.Error(t, err)
		})
	}

	_, err := sec.NewTokenService("", "pipemill")
	assert.Error(t, err)
}

/*
TestUserRole_AtLeast checks the admin over editor hierarchy.
*/
func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleEditor))
	assert.True(t, sec.RoleEditor.AtLeast(sec.RoleEditor))
	assert.False(t, sec.RoleEditor.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.UserRole("guest").AtLeast(sec.UserRole("other")))
	assert.False(t, sec.UserRole("guest").Valid())
}

/*
TestPasswordHash verifies bcrypt hashing and the empty-hash decoy path.
*/
func TestPasswordHash(t *testing.T) {
	hash, err := sec.HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("correct horse", hash))
	assert.False(t, sec.CheckPasswordHash("wrong", hash))
	assert.False(t, sec.CheckPasswordHash("correct horse", ""))
}
