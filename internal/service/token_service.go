package service

import (
	"context"
	"encoding/json"
	"time"

	"storefront/internal/entity"
	"storefront/internal/repository"
	"storefront/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	bearerTokenBytes         = 48
	defaultAdminTokenMaxAge  = 12 * time.Hour
	adminTokenPayloadVariant = "admin"
)

// verifyOutcome classifies why a credential did not resolve. It exists for
// logging only; every non-ok outcome collapses to "no principal" so callers
// cannot distinguish a malformed token from an absent one.
type verifyOutcome string

const (
	outcomeOK        verifyOutcome = "ok"
	outcomeAbsent    verifyOutcome = "absent"
	outcomeUnknown   verifyOutcome = "unknown"
	outcomeMalformed verifyOutcome = "malformed"
	outcomeExpired   verifyOutcome = "expired"
	outcomeForbidden verifyOutcome = "forbidden"
)

type adminTokenPayload struct {
	UserID    string `json:"user_id"`
	Timestamp int64  `json:"timestamp"`
	Type      string `json:"type"`
}

type TokenService struct {
	tokens           repository.TokenRepository
	users            repository.UserRepository
	cipher           *utils.Encryptor
	clock            Clock
	adminTokenMaxAge time.Duration
	log              *logrus.Logger
}

func NewTokenService(
	tokens repository.TokenRepository,
	users repository.UserRepository,
	cipher *utils.Encryptor,
	clock Clock,
	adminTokenMaxAge time.Duration,
	log *logrus.Logger,
) *TokenService {
	if clock == nil {
		clock = RealClock{}
	}
	if adminTokenMaxAge <= 0 {
		adminTokenMaxAge = defaultAdminTokenMaxAge
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &TokenService{
		tokens:           tokens,
		users:            users,
		cipher:           cipher,
		clock:            clock,
		adminTokenMaxAge: adminTokenMaxAge,
		log:              log,
	}
}

// IssueWebToken generates an opaque bearer token and upserts it on the user's
// single token row, implicitly revoking whatever credential was there before.
func (s *TokenService) IssueWebToken(ctx context.Context, user *entity.User) (string, error) {
	token, err := utils.GenerateRandomToken(bearerTokenBytes)
	if err != nil {
		return "", err
	}
	now := s.clock.Now()
	record := &entity.AccessToken{
		UserID:    user.ID,
		Kind:      entity.TokenKindWeb,
		Token:     token,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tokens.Upsert(ctx, record); err != nil {
		return "", err
	}
	return token, nil
}

func (s *TokenService) IssueAppToken(ctx context.Context, user *entity.User, deviceToken, deviceType string) (string, error) {
	token, err := utils.GenerateRandomToken(bearerTokenBytes)
	if err != nil {
		return "", err
	}
	now := s.clock.Now()
	record := &entity.AccessToken{
		UserID:      user.ID,
		Kind:        entity.TokenKindApp,
		Token:       token,
		DeviceToken: &deviceToken,
		DeviceType:  &deviceType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tokens.Upsert(ctx, record); err != nil {
		return "", err
	}
	return token, nil
}

// IssueAdminToken encrypts {user_id, timestamp, type} and stores the
// ciphertext in the user's token row under the admin kind. Verification is by
// decryption, not lookup, so the stored copy only serves Revoke.
func (s *TokenService) IssueAdminToken(ctx context.Context, user *entity.User) (string, error) {
	payload := adminTokenPayload{
		UserID:    user.ID.String(),
		Timestamp: s.clock.Now().Unix(),
		Type:      adminTokenPayloadVariant,
	}
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	blob, err := s.cipher.Encrypt(plaintext)
	if err != nil {
		return "", err
	}
	now := s.clock.Now()
	record := &entity.AccessToken{
		UserID:    user.ID,
		Kind:      entity.TokenKindAdmin,
		Token:     blob,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tokens.Upsert(ctx, record); err != nil {
		return "", err
	}
	return blob, nil
}

// VerifyBearer matches the token against stored web/app credentials. A nil
// user with nil error means the credential did not resolve; store failures
// propagate so an outage never silently downgrades a user to guest.
func (s *TokenService) VerifyBearer(ctx context.Context, token string) (*entity.User, error) {
	user, outcome, err := s.verifyBearer(ctx, token)
	if err != nil {
		return nil, err
	}
	if outcome != outcomeOK {
		s.log.WithField("outcome", string(outcome)).Debug("bearer token did not resolve")
		return nil, nil
	}
	return user, nil
}

func (s *TokenService) verifyBearer(ctx context.Context, token string) (*entity.User, verifyOutcome, error) {
	if token == "" {
		return nil, outcomeAbsent, nil
	}
	record, err := s.tokens.FindBearer(ctx, token)
	if err != nil {
		return nil, "", err
	}
	if record == nil {
		return nil, outcomeUnknown, nil
	}
	user, err := s.users.FindByID(ctx, record.UserID)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, outcomeUnknown, nil
	}
	return user, outcomeOK, nil
}

// VerifyAdmin decrypts and validates an admin token. All failure modes
// (undecryptable, bad JSON, wrong type, too old, unknown or non-admin user)
// collapse to a nil user; the distinction is only logged.
func (s *TokenService) VerifyAdmin(ctx context.Context, token string) (*entity.User, error) {
	user, outcome, err := s.verifyAdmin(ctx, token)
	if err != nil {
		return nil, err
	}
	if outcome != outcomeOK {
		s.log.WithField("outcome", string(outcome)).Debug("admin token did not resolve")
		return nil, nil
	}
	return user, nil
}

func (s *TokenService) verifyAdmin(ctx context.Context, token string) (*entity.User, verifyOutcome, error) {
	if token == "" {
		return nil, outcomeAbsent, nil
	}
	plaintext, err := s.cipher.Decrypt(token)
	if err != nil {
		return nil, outcomeMalformed, nil
	}
	var payload adminTokenPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, outcomeMalformed, nil
	}
	if payload.Type != adminTokenPayloadVariant {
		return nil, outcomeMalformed, nil
	}
	issuedAt := time.Unix(payload.Timestamp, 0)
	if s.clock.Now().Sub(issuedAt) > s.adminTokenMaxAge {
		return nil, outcomeExpired, nil
	}
	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return nil, outcomeMalformed, nil
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, outcomeUnknown, nil
	}
	if !user.IsAdmin() || !user.IsRegistered {
		return nil, outcomeForbidden, nil
	}
	return user, outcomeOK, nil
}

// Revoke deletes the user's token row. Because one row carries whichever
// credential kind is active, this invalidates web, app and admin tokens alike.
func (s *TokenService) Revoke(ctx context.Context, userID uuid.UUID) error {
	return s.tokens.DeleteByUserID(ctx, userID)
}
