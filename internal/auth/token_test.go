package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseToken(t *testing.T) {
	u := &User{Username: "miri", Role: RoleAgent}
	token, err := SignToken("secret", u, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "miri", claims.Sub)
	assert.Equal(t, RoleAgent, claims.Role)
	assert.Greater(t, claims.Exp, claims.Iat)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := SignToken("secret", &User{Username: "miri"}, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other", token)
	assert.ErrorIs(t, err, errBadToken)
}

func TestParseTokenExpired(t *testing.T) {
	token, err := SignToken("secret", &User{Username: "miri"}, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.ErrorIs(t, err, errTokenExpired)
}

func TestParseTokenMalformed(t *testing.T) {
	for _, bad := range []string{"", "a.b", "a.b.c.d", "not-a-token"} {
		_, err := ParseToken("secret", bad)
		assert.ErrorIs(t, err, errBadToken, bad)
	}
}

func TestParseTokenTamperedPayload(t *testing.T) {
	token, err := SignToken("secret", &User{Username: "miri", Role: RoleViewer}, time.Hour)
	require.NoError(t, err)

	forged, err := SignToken("attacker", &User{Username: "miri", Role: RoleAdmin}, time.Hour)
	require.NoError(t, err)
	require.NotEqual(t, token, forged)

	_, err = ParseToken("secret", forged)
	assert.ErrorIs(t, err, errBadToken)
}
