package dto

import (
	"time"

	"storefront/internal/entity"
)

type CheckoutRequest struct {
	Email      string `json:"email" validate:"omitempty,email"`
	CouponCode string `json:"coupon_code" validate:"omitempty,max=64"`
}

type CouponApplyRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

type CouponPreviewResponse struct {
	Code           string  `json:"code"`
	ItemsTotal     float64 `json:"items_total"`
	CouponDiscount float64 `json:"coupon_discount"`
	Total          float64 `json:"total"`
}

type OrderItemResponse struct {
	ProductID      string  `json:"product_id"`
	Name           string  `json:"name"`
	UnitPrice      float64 `json:"unit_price"`
	DiscountAmount float64 `json:"discount_amount"`
	FinalUnitPrice float64 `json:"final_unit_price"`
	Quantity       int     `json:"quantity"`
}

type OrderResponse struct {
	ID             string              `json:"id"`
	Status         string              `json:"status"`
	Subtotal       float64             `json:"subtotal"`
	DiscountTotal  float64             `json:"discount_total"`
	CouponDiscount float64             `json:"coupon_discount"`
	Total          float64             `json:"total"`
	Items          []OrderItemResponse `json:"items"`
	CreatedAt      time.Time           `json:"created_at"`
}

func OrderResponseFromEntity(order *entity.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ProductID:      item.ProductID.String(),
			Name:           item.Name,
			UnitPrice:      item.UnitPrice,
			DiscountAmount: item.DiscountAmount,
			FinalUnitPrice: item.FinalUnitPrice,
			Quantity:       item.Quantity,
		})
	}
	return OrderResponse{
		ID:             order.ID.String(),
		Status:         string(order.Status),
		Subtotal:       order.Subtotal,
		DiscountTotal:  order.DiscountTotal,
		CouponDiscount: order.CouponDiscount,
		Total:          order.Total,
		Items:          items,
		CreatedAt:      order.CreatedAt,
	}
}
