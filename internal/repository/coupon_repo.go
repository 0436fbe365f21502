package repository

import (
	"context"
	"errors"

	"storefront/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CouponRepository interface {
	Create(ctx context.Context, coupon *entity.CouponCode) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CouponCode, error)
	FindByCode(ctx context.Context, code string) (*entity.CouponCode, error)
	Update(ctx context.Context, coupon *entity.CouponCode) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.CouponCode, error)
	Redeem(ctx context.Context, id uuid.UUID) (bool, error)
}

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(ctx context.Context, coupon *entity.CouponCode) error {
	return r.db.WithContext(ctx).Create(coupon).Error
}

func (r *couponRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CouponCode, error) {
	var coupon entity.CouponCode
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&coupon).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) FindByCode(ctx context.Context, code string) (*entity.CouponCode, error) {
	var coupon entity.CouponCode
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&coupon).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepository) Update(ctx context.Context, coupon *entity.CouponCode) error {
	return r.db.WithContext(ctx).Save(coupon).Error
}

func (r *couponRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.CouponCode{}).
		Error
}

func (r *couponRepository) List(ctx context.Context) ([]entity.CouponCode, error) {
	var coupons []entity.CouponCode
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&coupons).Error
	if err != nil {
		return nil, err
	}
	return coupons, nil
}

// Redeem increments usage_count by exactly one, guarded by the usage limit in
// the same statement so concurrent redemptions cannot overshoot.
func (r *couponRepository) Redeem(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.CouponCode{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", id).
		Update("usage_count", gorm.Expr("usage_count + 1"))
	return result.RowsAffected > 0, result.Error
}
