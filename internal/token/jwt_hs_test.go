package token

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHSProvider_RoundTrip(t *testing.T) {
	p := NewHSProvider("secret", "shop-service", "shop-api")
	uid := uuid.New()

	tok, exp, err := p.SignAccess(context.Background(), uid, "ROLE_ADMIN", 15*time.Minute)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	claims, err := p.ParseAndValidateAccess(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, uid, claims.UserID)
	assert.Equal(t, "ROLE_ADMIN", claims.Role)
}

func TestHSProvider_RejectsForeignAudienceAndSecret(t *testing.T) {
	uid := uuid.New()
	tok, _, err := NewHSProvider("secret", "shop-service", "other").SignAccess(context.Background(), uid, "ROLE_CUSTOMER", time.Minute)
	require.NoError(t, err)

	_, err = NewHSProvider("secret", "shop-service", "shop-api").ParseAndValidateAccess(context.Background(), tok)
	assert.Error(t, err)

	_, err = NewHSProvider("another", "shop-service", "other").ParseAndValidateAccess(context.Background(), tok)
	assert.Error(t, err)
}

func TestHSProvider_Expired(t *testing.T) {
	p := NewHSProvider("secret", "shop-service", "shop-api")
	p.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err := p.SignAccess(context.Background(), uuid.New(), "ROLE_CUSTOMER", time.Minute)
	require.NoError(t, err)

	p.now = time.Now
	_, err = p.ParseAndValidateAccess(context.Background(), tok)
	assert.Error(t, err)
}

func TestHSProvider_UnknownRole(t *testing.T) {
	p := NewHSProvider("secret", "shop-service", "shop-api")
	_, _, err := p.SignAccess(context.Background(), uuid.New(), "ROLE_ROOT", time.Minute)
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestHSProvider_RejectsNoneAlg(t *testing.T) {
	p := NewHSProvider("secret", "shop-service", "shop-api")
	now := time.Now()
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, shopClaims{
		Role: "ROLE_ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "shop-service",
			Subject:   uuid.NewString(),
			Audience:  jwt.ClaimStrings{"shop-api"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = p.ParseAndValidateAccess(context.Background(), unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHSProvider_NilSubject(t *testing.T) {
	p := NewHSProvider("secret", "shop-service", "shop-api")
	tok, _, err := p.SignAccess(context.Background(), uuid.Nil, "ROLE_CUSTOMER", time.Minute)
	require.NoError(t, err)

	_, err = p.ParseAndValidateAccess(context.Background(), tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
