package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTPCode(t *testing.T) {
	code, err := GenerateOTPCode()
	require.NoError(t, err)
	assert.Regexp(t, `^\d{6}$`, code)
}

func TestGenerateReferenceCode(t *testing.T) {
	code, err := GenerateReferenceCode(8)
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Z0-9]{8}$`, code)
}

func TestGeneratePasswordLength(t *testing.T) {
	password, err := GeneratePassword(10)
	require.NoError(t, err)
	assert.Len(t, password, 10)
}

func TestGenerateResetToken(t *testing.T) {
	first, err := GenerateResetToken()
	require.NoError(t, err)
	assert.Len(t, first, 64)

	second, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
