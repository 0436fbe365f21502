package service

import (
	"context"

	"storefront/internal/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Principal is the resolved acting identity of a request. Which token kind
// matched is deliberately not exposed: callers only need the owning user.
type Principal struct {
	UserID uuid.UUID
	Role   entity.UserRole
}

// Credentials is the ordered bag of identity artifacts a request may carry.
type Credentials struct {
	BearerToken     string
	HeaderSessionID string
	CookieSessionID string
	UserAgent       *string
	IPAddress       *string
}

// Resolution is what identity resolution yields: an optional principal and an
// always-present session id whose row has been upserted.
type Resolution struct {
	Principal    *Principal
	SessionID    string
	SessionIsNew bool
}

type IdentityService struct {
	tokens   *TokenService
	sessions *SessionService
	log      *logrus.Logger
}

func NewIdentityService(tokens *TokenService, sessions *SessionService, log *logrus.Logger) *IdentityService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &IdentityService{
		tokens:   tokens,
		sessions: sessions,
		log:      log,
	}
}

// Resolve picks the session id (header over cookie, generating one when both
// are absent), resolves the bearer token to a principal if possible, and
// upserts the session row as a side effect. Malformed credentials resolve to
// guest; persistence failures do not.
func (s *IdentityService) Resolve(ctx context.Context, creds Credentials) (*Resolution, error) {
	sessionID := creds.HeaderSessionID
	if sessionID == "" {
		sessionID = creds.CookieSessionID
	}
	isNew := false
	if sessionID == "" {
		generated, err := s.sessions.NewSessionID()
		if err != nil {
			return nil, err
		}
		sessionID = generated
		isNew = true
	}

	principal, err := s.resolvePrincipal(ctx, creds.BearerToken)
	if err != nil {
		return nil, err
	}

	var userID *uuid.UUID
	if principal != nil {
		userID = &principal.UserID
	}
	if err := s.sessions.Upsert(ctx, sessionID, userID, creds.UserAgent, creds.IPAddress); err != nil {
		return nil, err
	}

	return &Resolution{
		Principal:    principal,
		SessionID:    sessionID,
		SessionIsNew: isNew,
	}, nil
}

// resolvePrincipal tries the token as a stored web/app bearer first, then as
// an encrypted admin payload. The caller cannot tell a malformed token from a
// missing one; the difference is only logged.
func (s *IdentityService) resolvePrincipal(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, nil
	}
	user, err := s.tokens.VerifyBearer(ctx, token)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return &Principal{UserID: user.ID, Role: user.Role}, nil
	}

	admin, err := s.tokens.VerifyAdmin(ctx, token)
	if err != nil {
		return nil, err
	}
	if admin != nil {
		return &Principal{UserID: admin.ID, Role: admin.Role}, nil
	}

	s.log.Debug("bearer credential present but unresolvable, continuing as guest")
	return nil, nil
}
