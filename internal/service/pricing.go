package service

import (
	"math"
	"time"

	"storefront/internal/entity"
)

// RuleState is the validity of a discount or coupon at a point in time.
// States are recomputed on every call, never cached.
type RuleState string

const (
	RuleInactive       RuleState = "inactive"
	RuleNotYetStarted  RuleState = "not_yet_started"
	RuleExpired        RuleState = "expired"
	RuleUsageExhausted RuleState = "usage_exhausted"
	RuleValid          RuleState = "valid"
)

// EvaluateRule checks the conditions in a fixed order and short-circuits on
// the first failure. The end date boundary is inclusive: a rule ending
// exactly now is still valid.
func EvaluateRule(rule entity.PricingRule, now time.Time) RuleState {
	if !rule.IsActive {
		return RuleInactive
	}
	if rule.StartDate != nil && now.Before(*rule.StartDate) {
		return RuleNotYetStarted
	}
	if rule.EndDate != nil && now.After(*rule.EndDate) {
		return RuleExpired
	}
	if rule.UsageLimit != nil && rule.UsageCount >= *rule.UsageLimit {
		return RuleUsageExhausted
	}
	return RuleValid
}

// CalculateDiscount computes the price adjustment for the rule. It never
// fails: an invalid rule, a price below the minimum purchase, or a
// non-positive price all yield zero. The result is capped at
// MaxDiscountAmount and can never exceed the price itself.
func CalculateDiscount(rule entity.PricingRule, price float64, now time.Time) float64 {
	if EvaluateRule(rule, now) != RuleValid {
		return 0
	}
	if price <= 0 {
		return 0
	}
	if rule.MinPurchaseAmount != nil && price < *rule.MinPurchaseAmount {
		return 0
	}

	var raw float64
	if rule.Type == entity.PricingTypePercentage {
		raw = price * rule.Value / 100
	} else {
		raw = rule.Value
	}
	if rule.MaxDiscountAmount != nil && raw > *rule.MaxDiscountAmount {
		raw = *rule.MaxDiscountAmount
	}
	if raw > price {
		raw = price
	}
	return truncateMoney(raw)
}

// truncateMoney cuts to 2 fraction digits without rounding, matching the
// storage precision of the money columns.
func truncateMoney(amount float64) float64 {
	return math.Trunc(amount*100) / 100
}
