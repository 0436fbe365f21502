package dto

import (
	"time"

	"storefront/internal/entity"
	"storefront/internal/service"
)

type CategoryRequest struct {
	Name     string `json:"name" validate:"required,max=150"`
	IsActive *bool  `json:"is_active" validate:"omitempty"`
}

type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func CategoryResponseFromEntity(category *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID.String(),
		Name:      category.Name,
		IsActive:  category.IsActive,
		CreatedAt: category.CreatedAt,
	}
}

func CategoryResponsesFromEntities(categories []entity.Category) []CategoryResponse {
	responses := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, CategoryResponseFromEntity(&categories[i]))
	}
	return responses
}

type ProductRequest struct {
	CategoryID  string  `json:"category_id" validate:"required,uuid"`
	Name        string  `json:"name" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	IsActive    *bool   `json:"is_active" validate:"omitempty"`
}

// ProductResponse exposes the display pricing triple: original price, the
// discount in effect, and the final price.
type ProductResponse struct {
	ID             string    `json:"id"`
	CategoryID     string    `json:"category_id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	Price          float64   `json:"price"`
	DiscountAmount float64   `json:"discount_amount"`
	FinalPrice     float64   `json:"final_price"`
	CreatedAt      time.Time `json:"created_at"`
}

func ProductResponseFromView(view *service.ProductView) ProductResponse {
	return ProductResponse{
		ID:             view.Product.ID.String(),
		CategoryID:     view.Product.CategoryID.String(),
		Name:           view.Product.Name,
		Description:    view.Product.Description,
		Price:          view.Product.Price,
		DiscountAmount: view.DiscountAmount,
		FinalPrice:     view.FinalPrice,
		CreatedAt:      view.Product.CreatedAt,
	}
}

func ProductResponsesFromViews(views []service.ProductView) []ProductResponse {
	responses := make([]ProductResponse, 0, len(views))
	for i := range views {
		responses = append(responses, ProductResponseFromView(&views[i]))
	}
	return responses
}
