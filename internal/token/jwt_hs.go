package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrUnknownRole  = errors.New("unknown role in token")
)

// HSProvider выпускает access-токены покупателей и админов (HS256)
type HSProvider struct {
	key    []byte
	parser *jwt.Parser
	issuer string
	aud    string
	now    func() time.Time
}

func NewHSProvider(secret, issuer, audience string) *HSProvider {
	p := &HSProvider{
		key:    []byte(secret),
		issuer: issuer,
		aud:    audience,
		now:    time.Now,
	}
	p.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return p.now() }),
	)
	return p
}

type shopClaims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

func (p *HSProvider) SignAccess(_ context.Context, sub uuid.UUID, role string, ttl time.Duration) (string, time.Time, error) {
	if !knownRole(models.Role(role)) {
		return "", time.Time{}, ErrUnknownRole
	}
	issued := p.now()
	exp := issued.Add(ttl)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, shopClaims{
		Role: models.Role(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    p.issuer,
			Subject:   sub.String(),
			Audience:  jwt.ClaimStrings{p.aud},
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}).SignedString(p.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, exp, nil
}

func (p *HSProvider) ParseAndValidateAccess(_ context.Context, raw string) (*service.Claims, error) {
	var c shopClaims
	if _, err := p.parser.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) { return p.key, nil }); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	userID, err := uuid.Parse(c.Subject)
	if err != nil || userID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	if !knownRole(c.Role) {
		return nil, ErrUnknownRole
	}
	return &service.Claims{UserID: userID, Role: string(c.Role), Exp: c.ExpiresAt.Time}, nil
}

func knownRole(r models.Role) bool {
	return r == models.RoleCustomer || r == models.RoleAdmin
}
