package dto

import (
	"time"

	"storefront/internal/entity"
)

type PricingRuleRequest struct {
	Type              string     `json:"type" validate:"required,oneof=percentage fixed"`
	Value             float64    `json:"value" validate:"required,gt=0"`
	MinPurchaseAmount *float64   `json:"min_purchase_amount" validate:"omitempty,gt=0"`
	MaxDiscountAmount *float64   `json:"max_discount_amount" validate:"omitempty,gt=0"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
	UsageLimit        *int       `json:"usage_limit" validate:"omitempty,gt=0"`
	IsActive          *bool      `json:"is_active"`
}

func (r PricingRuleRequest) ToRule() entity.PricingRule {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	return entity.PricingRule{
		Type:              entity.PricingType(r.Type),
		Value:             r.Value,
		MinPurchaseAmount: r.MinPurchaseAmount,
		MaxDiscountAmount: r.MaxDiscountAmount,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		UsageLimit:        r.UsageLimit,
		IsActive:          isActive,
	}
}

type PricingRuleResponse struct {
	Type              string     `json:"type"`
	Value             float64    `json:"value"`
	MinPurchaseAmount *float64   `json:"min_purchase_amount,omitempty"`
	MaxDiscountAmount *float64   `json:"max_discount_amount,omitempty"`
	StartDate         *time.Time `json:"start_date,omitempty"`
	EndDate           *time.Time `json:"end_date,omitempty"`
	UsageLimit        *int       `json:"usage_limit,omitempty"`
	UsageCount        int        `json:"usage_count"`
	IsActive          bool       `json:"is_active"`
}

func pricingRuleResponse(rule entity.PricingRule) PricingRuleResponse {
	return PricingRuleResponse{
		Type:              string(rule.Type),
		Value:             rule.Value,
		MinPurchaseAmount: rule.MinPurchaseAmount,
		MaxDiscountAmount: rule.MaxDiscountAmount,
		StartDate:         rule.StartDate,
		EndDate:           rule.EndDate,
		UsageLimit:        rule.UsageLimit,
		UsageCount:        rule.UsageCount,
		IsActive:          rule.IsActive,
	}
}

type DiscountRequest struct {
	ProductID string             `json:"product_id" validate:"required,uuid"`
	Name      string             `json:"name" validate:"required,max=150"`
	Rule      PricingRuleRequest `json:"rule" validate:"required"`
}

type DiscountResponse struct {
	ID        string              `json:"id"`
	ProductID string              `json:"product_id"`
	Name      string              `json:"name"`
	Rule      PricingRuleResponse `json:"rule"`
	CreatedAt time.Time           `json:"created_at"`
}

func DiscountResponseFromEntity(discount *entity.Discount) DiscountResponse {
	return DiscountResponse{
		ID:        discount.ID.String(),
		ProductID: discount.ProductID.String(),
		Name:      discount.Name,
		Rule:      pricingRuleResponse(discount.Rule),
		CreatedAt: discount.CreatedAt,
	}
}

func DiscountResponsesFromEntities(discounts []entity.Discount) []DiscountResponse {
	responses := make([]DiscountResponse, 0, len(discounts))
	for i := range discounts {
		responses = append(responses, DiscountResponseFromEntity(&discounts[i]))
	}
	return responses
}

type CouponRequest struct {
	Code              string             `json:"code" validate:"required,max=64"`
	Rule              PricingRuleRequest `json:"rule" validate:"required"`
	UsageLimitPerUser *int               `json:"usage_limit_per_user" validate:"omitempty,gt=0"`
}

type CouponResponse struct {
	ID                string              `json:"id"`
	Code              string              `json:"code"`
	Rule              PricingRuleResponse `json:"rule"`
	UsageLimitPerUser *int                `json:"usage_limit_per_user,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}

func CouponResponseFromEntity(coupon *entity.CouponCode) CouponResponse {
	return CouponResponse{
		ID:                coupon.ID.String(),
		Code:              coupon.Code,
		Rule:              pricingRuleResponse(coupon.Rule),
		UsageLimitPerUser: coupon.UsageLimitPerUser,
		CreatedAt:         coupon.CreatedAt,
	}
}

func CouponResponsesFromEntities(coupons []entity.CouponCode) []CouponResponse {
	responses := make([]CouponResponse, 0, len(coupons))
	for i := range coupons {
		responses = append(responses, CouponResponseFromEntity(&coupons[i]))
	}
	return responses
}
