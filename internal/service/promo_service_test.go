package service

import (
	"context"
	"testing"
	"time"

	"storefront/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPromoFixture(products ...*entity.Product) (*PromoService, *fakeDiscountRepo, *fakeCouponRepo) {
	discountRepo := newFakeDiscountRepo()
	couponRepo := newFakeCouponRepo()
	svc := NewPromoService(discountRepo, couponRepo, newFakeProductRepo(products...))
	return svc, discountRepo, couponRepo
}

func TestCreateDiscountValidation(t *testing.T) {
	ctx := context.Background()
	product := newProduct(10)
	svc, _, _ := newPromoFixture(product)

	tests := []struct {
		name string
		rule entity.PricingRule
	}{
		{"zero value", entity.PricingRule{Type: entity.PricingTypePercentage, Value: 0, IsActive: true}},
		{"percentage above 100", entity.PricingRule{Type: entity.PricingTypePercentage, Value: 150, IsActive: true}},
		{"unknown type", entity.PricingRule{Type: "bogus", Value: 10, IsActive: true}},
		{"end before start", entity.PricingRule{
			Type:      entity.PricingTypeFixed,
			Value:     5,
			IsActive:  true,
			StartDate: timePtr(time.Now()),
			EndDate:   timePtr(time.Now().Add(-time.Hour)),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CreateDiscount(ctx, &entity.Discount{ProductID: product.ID, Name: "x", Rule: tt.rule})
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateDiscountUnknownProduct(t *testing.T) {
	svc, _, _ := newPromoFixture()

	err := svc.CreateDiscount(context.Background(), &entity.Discount{
		ProductID: uuid.New(),
		Name:      "x",
		Rule:      entity.PricingRule{Type: entity.PricingTypeFixed, Value: 1, IsActive: true},
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateCouponNormalizesCode(t *testing.T) {
	ctx := context.Background()
	svc, _, coupons := newPromoFixture()

	coupon := &entity.CouponCode{
		Code: "  summer25 ",
		Rule: entity.PricingRule{Type: entity.PricingTypePercentage, Value: 25, IsActive: true},
	}
	require.NoError(t, svc.CreateCoupon(ctx, coupon))
	assert.Equal(t, "SUMMER25", coupon.Code)

	found, err := coupons.FindByCode(ctx, "SUMMER25")
	require.NoError(t, err)
	assert.NotNil(t, found)
}

func TestUpdateCouponPreservesUsageCount(t *testing.T) {
	ctx := context.Background()
	svc, _, coupons := newPromoFixture()

	coupon := &entity.CouponCode{
		Code: "KEEP",
		Rule: entity.PricingRule{Type: entity.PricingTypeFixed, Value: 5, IsActive: true, UsageCount: 7},
	}
	require.NoError(t, coupons.Create(ctx, coupon))

	update := &entity.CouponCode{
		ID:   coupon.ID,
		Code: "KEEP",
		Rule: entity.PricingRule{Type: entity.PricingTypeFixed, Value: 9, IsActive: true, UsageCount: 0},
	}
	require.NoError(t, svc.UpdateCoupon(ctx, update))

	stored, err := coupons.FindByID(ctx, coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, 9.0, stored.Rule.Value)
	assert.Equal(t, 7, stored.Rule.UsageCount, "the usage counter only moves via redemption")
}

func TestDeleteCouponUnknown(t *testing.T) {
	svc, _, _ := newPromoFixture()
	err := svc.DeleteCoupon(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCouponNotFound)
}
