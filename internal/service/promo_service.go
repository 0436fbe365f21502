package service

import (
	"context"
	"strings"

	"storefront/internal/entity"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

// PromoService is the admin surface for discounts and coupon codes.
type PromoService struct {
	discounts repository.DiscountRepository
	coupons   repository.CouponRepository
	products  repository.ProductRepository
}

func NewPromoService(
	discounts repository.DiscountRepository,
	coupons repository.CouponRepository,
	products repository.ProductRepository,
) *PromoService {
	return &PromoService{
		discounts: discounts,
		coupons:   coupons,
		products:  products,
	}
}

func (s *PromoService) CreateDiscount(ctx context.Context, discount *entity.Discount) error {
	if err := validateRule(discount.Rule); err != nil {
		return err
	}
	product, err := s.products.FindByID(ctx, discount.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.discounts.Create(ctx, discount)
}

func (s *PromoService) UpdateDiscount(ctx context.Context, discount *entity.Discount) error {
	if err := validateRule(discount.Rule); err != nil {
		return err
	}
	existing, err := s.discounts.FindByID(ctx, discount.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrDiscountNotFound
	}
	// usage_count only moves through the atomic increment path
	discount.Rule.UsageCount = existing.Rule.UsageCount
	return s.discounts.Update(ctx, discount)
}

func (s *PromoService) DeleteDiscount(ctx context.Context, id uuid.UUID) error {
	existing, err := s.discounts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrDiscountNotFound
	}
	return s.discounts.DeleteByID(ctx, id)
}

func (s *PromoService) ListDiscounts(ctx context.Context) ([]entity.Discount, error) {
	return s.discounts.List(ctx)
}

func (s *PromoService) CreateCoupon(ctx context.Context, coupon *entity.CouponCode) error {
	coupon.Code = normalizeCouponCode(coupon.Code)
	if coupon.Code == "" {
		return ErrInvalidInput
	}
	if err := validateRule(coupon.Rule); err != nil {
		return err
	}
	return s.coupons.Create(ctx, coupon)
}

func (s *PromoService) UpdateCoupon(ctx context.Context, coupon *entity.CouponCode) error {
	coupon.Code = normalizeCouponCode(coupon.Code)
	if coupon.Code == "" {
		return ErrInvalidInput
	}
	if err := validateRule(coupon.Rule); err != nil {
		return err
	}
	existing, err := s.coupons.FindByID(ctx, coupon.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCouponNotFound
	}
	coupon.Rule.UsageCount = existing.Rule.UsageCount
	return s.coupons.Update(ctx, coupon)
}

func (s *PromoService) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	existing, err := s.coupons.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCouponNotFound
	}
	return s.coupons.DeleteByID(ctx, id)
}

func (s *PromoService) ListCoupons(ctx context.Context) ([]entity.CouponCode, error) {
	return s.coupons.List(ctx)
}

func validateRule(rule entity.PricingRule) error {
	if rule.Value <= 0 {
		return ErrInvalidInput
	}
	if rule.Type == entity.PricingTypePercentage && rule.Value > 100 {
		return ErrInvalidInput
	}
	if rule.Type != entity.PricingTypePercentage && rule.Type != entity.PricingTypeFixed {
		return ErrInvalidInput
	}
	if rule.StartDate != nil && rule.EndDate != nil && rule.EndDate.Before(*rule.StartDate) {
		return ErrInvalidInput
	}
	return nil
}

func normalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
