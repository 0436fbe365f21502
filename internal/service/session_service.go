package service

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/entity"
	"storefront/internal/repository"
	"storefront/internal/utils"

	"github.com/google/uuid"
)

const (
	sessionIDPrefix             = "sess_"
	sessionIDRandomLength       = 40
	defaultSessionRetentionDays = 90
)

type SessionService struct {
	sessions      repository.SessionRepository
	clock         Clock
	retentionDays int
}

func NewSessionService(sessions repository.SessionRepository, clock Clock, retentionDays int) *SessionService {
	if clock == nil {
		clock = RealClock{}
	}
	if retentionDays <= 0 {
		retentionDays = defaultSessionRetentionDays
	}
	return &SessionService{
		sessions:      sessions,
		clock:         clock,
		retentionDays: retentionDays,
	}
}

// NewSessionID builds an identifier of the form sess_<40 alnum><unix seconds>.
// Uniqueness rests on the randomness of the middle part; the random bytes come
// from crypto/rand even though nothing downstream depends on that strength.
func (s *SessionService) NewSessionID() (string, error) {
	random, err := utils.RandomAlphanumeric(sessionIDRandomLength)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s%d", sessionIDPrefix, random, s.clock.Now().Unix()), nil
}

// Upsert writes the session row and refreshes last_activity. Every request
// that resolves a session id ends up here; the write amplification buys an
// always-current activity timestamp and a guaranteed session row.
func (s *SessionService) Upsert(ctx context.Context, sessionID string, userID *uuid.UUID, userAgent, ipAddress *string) error {
	now := s.clock.Now()
	session := &entity.Session{
		SessionID:    sessionID,
		UserID:       userID,
		DeviceType:   InferDeviceType(stringValue(userAgent)),
		UserAgent:    userAgent,
		IPAddress:    ipAddress,
		LastActivity: now,
		CreatedAt:    now,
	}
	return s.sessions.Upsert(ctx, session)
}

// AssociateWithUser pins the session to the user and refreshes last_activity
// on every other session the user already has, so multi-device sessions are
// not swept while any one of them is active.
func (s *SessionService) AssociateWithUser(ctx context.Context, sessionID string, userID uuid.UUID) error {
	now := s.clock.Now()
	if err := s.sessions.SetUser(ctx, sessionID, userID, now); err != nil {
		return err
	}
	return s.sessions.TouchAllForUser(ctx, userID, now)
}

// DisassociateFromUser detaches the user at logout. The row itself survives,
// which keeps the guest cart tied to this session id intact.
func (s *SessionService) DisassociateFromUser(ctx context.Context, sessionID string) error {
	return s.sessions.ClearUser(ctx, sessionID, s.clock.Now())
}

func (s *SessionService) Find(ctx context.Context, sessionID string) (*entity.Session, error) {
	return s.sessions.FindByID(ctx, sessionID)
}

// CleanupGuestSessions deletes guest rows idle longer than the retention
// window. Authenticated sessions are never touched.
func (s *SessionService) CleanupGuestSessions(ctx context.Context) (int64, error) {
	cutoff := s.clock.Now().AddDate(0, 0, -s.retentionDays)
	return s.sessions.DeleteGuestsBefore(ctx, cutoff)
}

// InferDeviceType classifies a user agent. Tablet markers are checked before
// mobile ones so an iPad is not misread as an iPhone-class device.
func InferDeviceType(userAgent string) entity.DeviceType {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "tablet"), strings.Contains(ua, "ipad"):
		return entity.DeviceTypeTablet
	case strings.Contains(ua, "mobile"), strings.Contains(ua, "android"), strings.Contains(ua, "iphone"):
		return entity.DeviceTypeMobile
	default:
		return entity.DeviceTypeWeb
	}
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
