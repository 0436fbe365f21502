package repository

import (
	"context"
	"errors"

	"storefront/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TokenRepository interface {
	Upsert(ctx context.Context, token *entity.AccessToken) error
	FindBearer(ctx context.Context, token string) (*entity.AccessToken, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// Upsert keeps at most one token row per user: issuing a new credential of
// any kind overwrites, and thereby revokes, the previous one.
func (r *tokenRepository) Upsert(ctx context.Context, token *entity.AccessToken) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"kind", "token", "device_token", "device_type", "updated_at",
			}),
		}).
		Create(token).Error
}

// FindBearer matches opaque web/app tokens by raw value. Admin rows are
// excluded so a stored admin ciphertext can never be replayed as a bearer.
func (r *tokenRepository) FindBearer(ctx context.Context, token string) (*entity.AccessToken, error) {
	var record entity.AccessToken
	err := r.db.WithContext(ctx).
		Where("token = ? AND kind IN ?", token, []entity.TokenKind{entity.TokenKindWeb, entity.TokenKindApp}).
		First(&record).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *tokenRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&entity.AccessToken{}).
		Error
}
