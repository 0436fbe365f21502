package repository

import (
	"context"
	"errors"

	"storefront/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DiscountRepository interface {
	Create(ctx context.Context, discount *entity.Discount) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Discount, error)
	Update(ctx context.Context, discount *entity.Discount) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.Discount, error)
	ListActiveForProducts(ctx context.Context, productIDs []uuid.UUID) ([]entity.Discount, error)
	IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error)
}

type discountRepository struct {
	db *gorm.DB
}

func NewDiscountRepository(db *gorm.DB) DiscountRepository {
	return &discountRepository{db: db}
}

func (r *discountRepository) Create(ctx context.Context, discount *entity.Discount) error {
	return r.db.WithContext(ctx).Create(discount).Error
}

func (r *discountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Discount, error) {
	var discount entity.Discount
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&discount).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &discount, nil
}

func (r *discountRepository) Update(ctx context.Context, discount *entity.Discount) error {
	return r.db.WithContext(ctx).Save(discount).Error
}

func (r *discountRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.Discount{}).
		Error
}

func (r *discountRepository) List(ctx context.Context) ([]entity.Discount, error) {
	var discounts []entity.Discount
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&discounts).Error
	if err != nil {
		return nil, err
	}
	return discounts, nil
}

func (r *discountRepository) ListActiveForProducts(ctx context.Context, productIDs []uuid.UUID) ([]entity.Discount, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var discounts []entity.Discount
	err := r.db.WithContext(ctx).
		Where("product_id IN ? AND is_active = true", productIDs).
		Find(&discounts).Error
	if err != nil {
		return nil, err
	}
	return discounts, nil
}

// IncrementUsage bumps usage_count by one unless the usage limit is already
// reached. The conditional UPDATE is the atomicity boundary: concurrent
// redemptions can never push usage_count past usage_limit.
func (r *discountRepository) IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Discount{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", id).
		Update("usage_count", gorm.Expr("usage_count + 1"))
	return result.RowsAffected > 0, result.Error
}
