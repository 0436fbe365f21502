package service

import (
	"testing"
	"time"

	"storefront/internal/entity"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func timePtr(t time.Time) *time.Time {
	return &t
}

func TestEvaluateRuleOrder(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rule entity.PricingRule
		want RuleState
	}{
		{
			name: "inactive wins over everything",
			rule: entity.PricingRule{
				IsActive:   false,
				StartDate:  timePtr(now.Add(time.Hour)),
				UsageLimit: intPtr(1),
				UsageCount: 5,
			},
			want: RuleInactive,
		},
		{
			name: "not yet started checked before expiry",
			rule: entity.PricingRule{
				IsActive:  true,
				StartDate: timePtr(now.Add(time.Hour)),
				EndDate:   timePtr(now.Add(-time.Hour)),
			},
			want: RuleNotYetStarted,
		},
		{
			name: "expired checked before usage",
			rule: entity.PricingRule{
				IsActive:   true,
				EndDate:    timePtr(now.Add(-time.Minute)),
				UsageLimit: intPtr(1),
				UsageCount: 1,
			},
			want: RuleExpired,
		},
		{
			name: "usage exhausted",
			rule: entity.PricingRule{
				IsActive:   true,
				UsageLimit: intPtr(3),
				UsageCount: 3,
			},
			want: RuleUsageExhausted,
		},
		{
			name: "valid with no optional conditions",
			rule: entity.PricingRule{IsActive: true},
			want: RuleValid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateRule(tt.rule, now))
		})
	}
}

func TestEvaluateRuleEndDateInclusive(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	rule := entity.PricingRule{IsActive: true, EndDate: timePtr(now)}

	assert.Equal(t, RuleValid, EvaluateRule(rule, now))
	assert.Equal(t, RuleExpired, EvaluateRule(rule, now.Add(time.Nanosecond)))
}

func TestCalculateDiscountPercentage(t *testing.T) {
	now := time.Now()
	rule := entity.PricingRule{
		IsActive:          true,
		Type:              entity.PricingTypePercentage,
		Value:             20,
		MinPurchaseAmount: floatPtr(50),
		MaxDiscountAmount: floatPtr(15),
	}

	// 20% of 100 is 20, capped at 15.
	assert.Equal(t, 15.0, CalculateDiscount(rule, 100, now))

	// Below the minimum purchase nothing applies.
	assert.Equal(t, 0.0, CalculateDiscount(rule, 40, now))

	// 20% of 60 is 12, under the cap.
	assert.Equal(t, 12.0, CalculateDiscount(rule, 60, now))

	assert.Equal(t, 15.0, CalculateDiscount(rule, 1000, now))
}

func TestCalculateDiscountFixed(t *testing.T) {
	now := time.Now()
	rule := entity.PricingRule{
		IsActive: true,
		Type:     entity.PricingTypeFixed,
		Value:    25,
	}

	assert.Equal(t, 25.0, CalculateDiscount(rule, 100, now))

	// A fixed discount never exceeds the price.
	assert.Equal(t, 10.0, CalculateDiscount(rule, 10, now))
}

func TestCalculateDiscountInvalidInputs(t *testing.T) {
	now := time.Now()
	rule := entity.PricingRule{IsActive: true, Type: entity.PricingTypePercentage, Value: 50}

	assert.Equal(t, 0.0, CalculateDiscount(rule, 0, now))
	assert.Equal(t, 0.0, CalculateDiscount(rule, -10, now))

	expired := entity.PricingRule{
		IsActive: true,
		Type:     entity.PricingTypeFixed,
		Value:    5,
		EndDate:  timePtr(now.Add(-time.Hour)),
	}
	assert.Equal(t, 0.0, CalculateDiscount(expired, 100, now))
}

func TestCalculateDiscountTruncates(t *testing.T) {
	now := time.Now()
	rule := entity.PricingRule{
		IsActive: true,
		Type:     entity.PricingTypePercentage,
		Value:    33,
	}

	// 33% of 9.99 is 3.2967; truncation, not rounding.
	assert.Equal(t, 3.29, CalculateDiscount(rule, 9.99, now))
}

func TestTruncateMoney(t *testing.T) {
	assert.Equal(t, 10.99, truncateMoney(10.999))
	assert.Equal(t, 0.0, truncateMoney(0.004))
	assert.Equal(t, 3.33, truncateMoney(3.337))
}
