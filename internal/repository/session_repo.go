package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepository interface {
	Upsert(ctx context.Context, session *entity.Session) error
	FindByID(ctx context.Context, sessionID string) (*entity.Session, error)
	SetUser(ctx context.Context, sessionID string, userID uuid.UUID, now time.Time) error
	ClearUser(ctx context.Context, sessionID string, now time.Time) error
	TouchAllForUser(ctx context.Context, userID uuid.UUID, now time.Time) error
	DeleteGuestsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Upsert writes the session keyed by session_id in a single atomic statement.
// Every resolved request goes through here, refreshing last_activity.
func (r *sessionRepository) Upsert(ctx context.Context, session *entity.Session) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"user_id", "device_type", "user_agent", "ip_address", "last_activity",
			}),
		}).
		Create(session).Error
}

func (r *sessionRepository) FindByID(ctx context.Context, sessionID string) (*entity.Session, error) {
	var session entity.Session
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&session).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) SetUser(ctx context.Context, sessionID string, userID uuid.UUID, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.Session{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]any{"user_id": userID, "last_activity": now}).
		Error
}

func (r *sessionRepository) ClearUser(ctx context.Context, sessionID string, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.Session{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]any{"user_id": nil, "last_activity": now}).
		Error
}

func (r *sessionRepository) TouchAllForUser(ctx context.Context, userID uuid.UUID, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.Session{}).
		Where("user_id = ?", userID).
		Update("last_activity", now).
		Error
}

// DeleteGuestsBefore sweeps stale guest sessions. Authenticated sessions are
// never deleted by this path.
func (r *sessionRepository) DeleteGuestsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id IS NULL AND last_activity < ?", cutoff).
		Delete(&entity.Session{})
	return result.RowsAffected, result.Error
}
