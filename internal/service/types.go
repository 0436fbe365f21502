package service

import (
	"context"
	"time"

	"storefront/internal/entity"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type EmailSender interface {
	SendOrderConfirmation(ctx context.Context, email string, order *entity.Order) error
	SendPasswordResetEmail(ctx context.Context, email string, token string) error
}

type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order *entity.Order) error
}

type MFATokenIssuer interface {
	IssueChallengeToken(userID uuid.UUID) (string, time.Duration, error)
	ParseChallengeToken(token string) (uuid.UUID, error)
}

type MFAProvider interface {
	GenerateSecret() (string, error)
	QRCodeURL(email string, issuer string, secret string) (string, error)
	ValidateCode(secret string, code string) bool
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
