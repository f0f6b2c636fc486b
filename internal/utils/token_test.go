package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("secret", Claims{
		UserID:        "user-1",
		Email:         "p@x.test",
		Role:          "partner",
		Type:          PrincipalPartner,
		ReferenceCode: "AB12CD34",
	}, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "p@x.test", claims.Email)
	assert.Equal(t, PrincipalPartner, claims.Type)
	assert.Equal(t, "AB12CD34", claims.ReferenceCode)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "user-1", Type: PrincipalAdmin}, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestParseExpiredToken(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "user-1", Type: PrincipalAdmin}, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("secret", token)
	assert.Error(t, err)
}

func TestParseGarbageToken(t *testing.T) {
	_, err := ParseToken("secret", "not.a.token")
	assert.Error(t, err)
}
