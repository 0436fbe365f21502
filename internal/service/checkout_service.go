package service

import (
	"context"
	"encoding/json"

	"storefront/internal/entity"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type CheckoutInput struct {
	SessionID  string
	UserID     *uuid.UUID
	Email      string
	CouponCode string
	IPAddress  *string
}

// CouponPreview is the result of applying a coupon to the current cart
// without redeeming it.
type CouponPreview struct {
	Code           string
	ItemsTotal     float64
	CouponDiscount float64
	Total          float64
}

type CheckoutService struct {
	cart      *CartService
	coupons   repository.CouponRepository
	orders    repository.OrderRepository
	auditLogs repository.AuditLogRepository

	emailSender EmailSender
	publisher   OrderEventPublisher
	clock       Clock
	log         *logrus.Logger
}

func NewCheckoutService(
	cart *CartService,
	coupons repository.CouponRepository,
	orders repository.OrderRepository,
	auditLogs repository.AuditLogRepository,
	emailSender EmailSender,
	publisher OrderEventPublisher,
	clock Clock,
	log *logrus.Logger,
) *CheckoutService {
	if clock == nil {
		clock = RealClock{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CheckoutService{
		cart:        cart,
		coupons:     coupons,
		orders:      orders,
		auditLogs:   auditLogs,
		emailSender: emailSender,
		publisher:   publisher,
		clock:       clock,
		log:         log,
	}
}

// PreviewCoupon evaluates a coupon against the cart's items total without
// consuming a redemption.
func (s *CheckoutService) PreviewCoupon(ctx context.Context, sessionID, code string) (*CouponPreview, error) {
	cart, err := s.cart.GetPricedCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, ErrCartEmpty
	}
	coupon, discount, err := s.evaluateCoupon(ctx, code, cart.ItemsTotal)
	if err != nil {
		return nil, err
	}
	return &CouponPreview{
		Code:           coupon.Code,
		ItemsTotal:     cart.ItemsTotal,
		CouponDiscount: discount,
		Total:          truncateMoney(cart.ItemsTotal - discount),
	}, nil
}

// Checkout prices the cart, redeems the coupon (if any) with a single
// conditional increment, writes the order snapshot and clears the cart.
// Confirmation email and the order event are best effort.
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) (*entity.Order, error) {
	cart, err := s.cart.GetPricedCart(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, ErrCartEmpty
	}

	var coupon *entity.CouponCode
	var couponDiscount float64
	if input.CouponCode != "" {
		coupon, couponDiscount, err = s.evaluateCoupon(ctx, input.CouponCode, cart.ItemsTotal)
		if err != nil {
			return nil, err
		}
		redeemed, err := s.coupons.Redeem(ctx, coupon.ID)
		if err != nil {
			return nil, err
		}
		if !redeemed {
			// Lost the race to the last redemption slot.
			return nil, ErrCouponNotApplicable
		}
	}

	order := &entity.Order{
		SessionID:      input.SessionID,
		UserID:         input.UserID,
		Subtotal:       cart.Subtotal,
		DiscountTotal:  cart.DiscountTotal,
		CouponDiscount: couponDiscount,
		Total:          truncateMoney(cart.ItemsTotal - couponDiscount),
		Status:         entity.OrderStatusPlaced,
		CreatedAt:      s.clock.Now(),
	}
	if coupon != nil {
		order.CouponCodeID = &coupon.ID
	}
	for _, line := range cart.Lines {
		order.Items = append(order.Items, entity.OrderItem{
			ProductID:      line.ProductID,
			Name:           line.Name,
			UnitPrice:      line.UnitPrice,
			DiscountAmount: line.DiscountAmount,
			FinalUnitPrice: line.FinalUnitPrice,
			Quantity:       line.Quantity,
		})
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := s.cart.Clear(ctx, input.SessionID); err != nil {
		return nil, err
	}

	if coupon != nil {
		s.auditRedemption(ctx, input, coupon, couponDiscount)
	}
	if s.emailSender != nil && input.Email != "" {
		if err := s.emailSender.SendOrderConfirmation(ctx, input.Email, order); err != nil {
			s.log.WithError(err).Warn("order confirmation email failed")
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(ctx, order); err != nil {
			s.log.WithError(err).Warn("order event publish failed")
		}
	}
	return order, nil
}

func (s *CheckoutService) evaluateCoupon(ctx context.Context, code string, itemsTotal float64) (*entity.CouponCode, float64, error) {
	coupon, err := s.coupons.FindByCode(ctx, normalizeCouponCode(code))
	if err != nil {
		return nil, 0, err
	}
	if coupon == nil {
		return nil, 0, ErrCouponNotFound
	}
	now := s.clock.Now()
	if EvaluateRule(coupon.Rule, now) != RuleValid {
		return nil, 0, ErrCouponNotApplicable
	}
	discount := CalculateDiscount(coupon.Rule, itemsTotal, now)
	if discount <= 0 {
		return nil, 0, ErrCouponNotApplicable
	}
	return coupon, discount, nil
}

func (s *CheckoutService) auditRedemption(ctx context.Context, input CheckoutInput, coupon *entity.CouponCode, discount float64) {
	if s.auditLogs == nil {
		return
	}
	metadata, err := json.Marshal(map[string]any{"code": coupon.Code, "discount": discount})
	if err != nil {
		return
	}
	if err := s.auditLogs.Log(ctx, &entity.AuditLog{
		UserID:    input.UserID,
		SessionID: &input.SessionID,
		IPAddress: input.IPAddress,
		Action:    entity.AuditCouponRedeemed,
		Metadata:  datatypes.JSON(metadata),
	}); err != nil {
		s.log.WithError(err).Warn("coupon redemption audit failed")
	}
}
