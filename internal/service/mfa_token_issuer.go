package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidChallengeToken = errors.New("invalid mfa challenge token")

// MFATokenIssuerJWT issues the short-lived token that bridges the two steps
// of admin login when TOTP is enabled.
type MFATokenIssuerJWT struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

type mfaChallengeClaims struct {
	UserID string `json:"sub"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

func (m MFATokenIssuerJWT) IssueChallengeToken(userID uuid.UUID) (string, time.Duration, error) {
	ttl := m.TTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	now := time.Now()
	claims := mfaChallengeClaims{
		UserID: userID.String(),
		Type:   "admin_mfa",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.Issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.Secret)
	if err != nil {
		return "", 0, err
	}
	return signed, ttl, nil
}

func (m MFATokenIssuerJWT) ParseChallengeToken(token string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(token, &mfaChallengeClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidChallengeToken
		}
		return m.Secret, nil
	})
	if err != nil {
		return uuid.Nil, ErrInvalidChallengeToken
	}
	claims, ok := parsed.Claims.(*mfaChallengeClaims)
	if !ok || !parsed.Valid || claims.Type != "admin_mfa" {
		return uuid.Nil, ErrInvalidChallengeToken
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, ErrInvalidChallengeToken
	}
	return id, nil
}
