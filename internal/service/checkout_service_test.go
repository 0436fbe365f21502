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

type checkoutFixture struct {
	checkout  *CheckoutService
	cart      *CartService
	carts     *fakeCartRepo
	products  *fakeProductRepo
	discounts *fakeDiscountRepo
	coupons   *fakeCouponRepo
	orders    *fakeOrderRepo
	audit     *fakeAuditRepo
	clock     *fakeClock
}

func newCheckoutFixture(products ...*entity.Product) *checkoutFixture {
	clock := &fakeClock{now: time.Now()}
	productRepo := newFakeProductRepo(products...)
	cartRepo := newFakeCartRepo(productRepo)
	discountRepo := newFakeDiscountRepo()
	couponRepo := newFakeCouponRepo()
	orderRepo := &fakeOrderRepo{}
	auditRepo := &fakeAuditRepo{}

	cartSvc := NewCartService(cartRepo, productRepo, discountRepo, clock)
	checkoutSvc := NewCheckoutService(cartSvc, couponRepo, orderRepo, auditRepo, nil, nil, clock, nil)
	return &checkoutFixture{
		checkout:  checkoutSvc,
		cart:      cartSvc,
		carts:     cartRepo,
		products:  productRepo,
		discounts: discountRepo,
		coupons:   couponRepo,
		orders:    orderRepo,
		audit:     auditRepo,
		clock:     clock,
	}
}

func newProduct(price float64) *entity.Product {
	return &entity.Product{
		ID:         uuid.New(),
		CategoryID: uuid.New(),
		Name:       "widget",
		Price:      price,
		IsActive:   true,
	}
}

func TestCheckoutTotalsWithoutCoupon(t *testing.T) {
	ctx := context.Background()
	product := newProduct(50)
	f := newCheckoutFixture(product)
	require.NoError(t, f.cart.AddItem(ctx, "sess_1", product.ID, 2))

	order, err := f.checkout.Checkout(ctx, CheckoutInput{SessionID: "sess_1"})
	require.NoError(t, err)
	assert.Equal(t, 100.0, order.Subtotal)
	assert.Equal(t, 0.0, order.DiscountTotal)
	assert.Equal(t, 0.0, order.CouponDiscount)
	assert.Equal(t, 100.0, order.Total)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 50.0, order.Items[0].UnitPrice)

	items, err := f.carts.ListBySession(ctx, "sess_1")
	require.NoError(t, err)
	assert.Empty(t, items, "checkout clears the cart")
}

func TestCheckoutAppliesProductDiscount(t *testing.T) {
	ctx := context.Background()
	product := newProduct(100)
	f := newCheckoutFixture(product)
	require.NoError(t, f.discounts.Create(ctx, &entity.Discount{
		ProductID: product.ID,
		Name:      "spring sale",
		Rule: entity.PricingRule{
			IsActive: true,
			Type:     entity.PricingTypePercentage,
			Value:    10,
		},
	}))
	require.NoError(t, f.cart.AddItem(ctx, "sess_1", product.ID, 1))

	order, err := f.checkout.Checkout(ctx, CheckoutInput{SessionID: "sess_1"})
	require.NoError(t, err)
	assert.Equal(t, 100.0, order.Subtotal)
	assert.Equal(t, 10.0, order.DiscountTotal)
	assert.Equal(t, 90.0, order.Total)
	assert.Equal(t, 90.0, order.Items[0].FinalUnitPrice)
}

func TestCheckoutRedeemsCoupon(t *testing.T) {
	ctx := context.Background()
	product := newProduct(100)
	f := newCheckoutFixture(product)
	coupon := &entity.CouponCode{
		Code: "SAVE20",
		Rule: entity.PricingRule{
			IsActive:   true,
			Type:       entity.PricingTypePercentage,
			Value:      20,
			UsageLimit: intPtr(1),
		},
	}
	require.NoError(t, f.coupons.Create(ctx, coupon))
	require.NoError(t, f.cart.AddItem(ctx, "sess_1", product.ID, 1))

	order, err := f.checkout.Checkout(ctx, CheckoutInput{SessionID: "sess_1", CouponCode: "save20"})
	require.NoError(t, err)
	assert.Equal(t, 20.0, order.CouponDiscount)
	assert.Equal(t, 80.0, order.Total)
	require.NotNil(t, order.CouponCodeID)
	assert.Equal(t, coupon.ID, *order.CouponCodeID)

	stored, err := f.coupons.FindByID(ctx, coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Rule.UsageCount)

	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, entity.AuditCouponRedeemed, f.audit.entries[0].Action)
}

func TestCheckoutExhaustedCouponDoesNotOvershoot(t *testing.T) {
	ctx := context.Background()
	product := newProduct(100)
	f := newCheckoutFixture(product)
	coupon := &entity.CouponCode{
		Code: "ONCE",
		Rule: entity.PricingRule{
			IsActive:   true,
			Type:       entity.PricingTypeFixed,
			Value:      10,
			UsageLimit: intPtr(1),
			UsageCount: 1,
		},
	}
	require.NoError(t, f.coupons.Create(ctx, coupon))
	require.NoError(t, f.cart.AddItem(ctx, "sess_1", product.ID, 1))

	_, err := f.checkout.Checkout(ctx, CheckoutInput{SessionID: "sess_1", CouponCode: "ONCE"})
	assert.ErrorIs(t, err, ErrCouponNotApplicable)
	assert.Empty(t, f.orders.orders, "no order is written when the coupon fails")

	stored, err := f.coupons.FindByID(ctx, coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Rule.UsageCount, "usage never exceeds the limit")
}

func TestCheckoutUnknownCoupon(t *testing.T) {
	ctx := context.Background()
	product := newProduct(30)
	f := newCheckoutFixture(product)
	require.NoError(t, f.cart.AddItem(ctx, "sess_1", product.ID, 1))

	_, err := f.checkout.Checkout(ctx, CheckoutInput{SessionID: "sess_1", CouponCode: "NOPE"})
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.checkout.Checkout(context.Background(), CheckoutInput{SessionID: "sess_empty"})
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestPreviewCouponDoesNotRedeem(t *testing.T) {
	ctx := context.Background()
	product := newProduct(100)
	f := newCheckoutFixture(product)
	coupon := &entity.CouponCode{
		Code: "LOOK",
		Rule: entity.PricingRule{
			IsActive:   true,
			Type:       entity.PricingTypeFixed,
			Value:      15,
			UsageLimit: intPtr(5),
		},
	}
	require.NoError(t, f.coupons.Create(ctx, coupon))
	require.NoError(t, f.cart.AddItem(ctx, "sess_1", product.ID, 1))

	preview, err := f.checkout.PreviewCoupon(ctx, "sess_1", "look")
	require.NoError(t, err)
	assert.Equal(t, 100.0, preview.ItemsTotal)
	assert.Equal(t, 15.0, preview.CouponDiscount)
	assert.Equal(t, 85.0, preview.Total)

	stored, err := f.coupons.FindByID(ctx, coupon.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Rule.UsageCount)
}

func TestCartUpdateToZeroRemovesLine(t *testing.T) {
	ctx := context.Background()
	product := newProduct(10)
	f := newCheckoutFixture(product)
	require.NoError(t, f.cart.AddItem(ctx, "sess_1", product.ID, 3))

	require.NoError(t, f.cart.UpdateItem(ctx, "sess_1", product.ID, 0))

	cart, err := f.cart.GetPricedCart(ctx, "sess_1")
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
}
