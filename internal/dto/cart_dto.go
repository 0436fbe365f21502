package dto

import "storefront/internal/service"

type CartAddRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type CartUpdateRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

type CartLineResponse struct {
	ProductID      string  `json:"product_id"`
	Name           string  `json:"name"`
	UnitPrice      float64 `json:"unit_price"`
	DiscountAmount float64 `json:"discount_amount"`
	FinalUnitPrice float64 `json:"final_unit_price"`
	Quantity       int     `json:"quantity"`
	LineTotal      float64 `json:"line_total"`
}

type CartResponse struct {
	SessionID     string             `json:"session_id"`
	Lines         []CartLineResponse `json:"lines"`
	Subtotal      float64            `json:"subtotal"`
	DiscountTotal float64            `json:"discount_total"`
	ItemsTotal    float64            `json:"items_total"`
}

func CartResponseFromPricedCart(cart *service.PricedCart) CartResponse {
	response := CartResponse{
		SessionID:     cart.SessionID,
		Lines:         make([]CartLineResponse, 0, len(cart.Lines)),
		Subtotal:      cart.Subtotal,
		DiscountTotal: cart.DiscountTotal,
		ItemsTotal:    cart.ItemsTotal,
	}
	for _, line := range cart.Lines {
		response.Lines = append(response.Lines, CartLineResponse{
			ProductID:      line.ProductID.String(),
			Name:           line.Name,
			UnitPrice:      line.UnitPrice,
			DiscountAmount: line.DiscountAmount,
			FinalUnitPrice: line.FinalUnitPrice,
			Quantity:       line.Quantity,
			LineTotal:      line.LineTotal,
		})
	}
	return response
}
