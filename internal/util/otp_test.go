package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOTP_Digits(t *testing.T) {
	code, err := NewOTP(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9', "non-digit %q in %q", c, code)
	}
}

func TestNewOTP_NotRepeated(t *testing.T) {
	seen := make(map[string]struct{}, 50)
	for i := 0; i < 50; i++ {
		code, err := NewOTP(6)
		require.NoError(t, err)
		seen[code] = struct{}{}
	}
	// 50 кодов из миллиона: совпадения возможны, но не массово
	assert.Greater(t, len(seen), 45)
}

func TestNewOTP_BadLength(t *testing.T) {
	_, err := NewOTP(0)
	assert.Error(t, err)
}

func TestNewOpaqueToken(t *testing.T) {
	a, err := NewOpaqueToken()
	require.NoError(t, err)
	b, err := NewOpaqueToken()
	require.NoError(t, err)
	assert.Len(t, a, 43)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, Sha256Base64URL(a))
}

func TestOTPMatches(t *testing.T) {
	h := Sha256Base64URL("123456")
	assert.True(t, OTPMatches("123456", h))
	assert.False(t, OTPMatches("123457", h))
	assert.False(t, OTPMatches("", h))
}
