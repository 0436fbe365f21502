package service

import (
	"context"
	"time"

	"storefront/internal/entity"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

// PricedLine is a cart line with the discount engine already applied.
type PricedLine struct {
	ProductID      uuid.UUID
	Name           string
	UnitPrice      float64
	DiscountAmount float64
	FinalUnitPrice float64
	Quantity       int
	LineTotal      float64
}

// PricedCart carries display pricing for the whole cart. Subtotal is the sum
// of undiscounted line totals; ItemsTotal is what remains after product
// discounts and is the base a coupon applies to.
type PricedCart struct {
	SessionID     string
	Lines         []PricedLine
	Subtotal      float64
	DiscountTotal float64
	ItemsTotal    float64
}

type CartService struct {
	carts     repository.CartRepository
	products  repository.ProductRepository
	discounts repository.DiscountRepository
	clock     Clock
}

func NewCartService(
	carts repository.CartRepository,
	products repository.ProductRepository,
	discounts repository.DiscountRepository,
	clock Clock,
) *CartService {
	if clock == nil {
		clock = RealClock{}
	}
	return &CartService{
		carts:     carts,
		products:  products,
		discounts: discounts,
		clock:     clock,
	}
}

func (s *CartService) AddItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidInput
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	now := s.clock.Now()
	return s.carts.UpsertItem(ctx, &entity.CartItem{
		SessionID: sessionID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *CartService) UpdateItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) error {
	if quantity < 0 {
		return ErrInvalidInput
	}
	if quantity == 0 {
		return s.carts.RemoveItem(ctx, sessionID, productID)
	}
	return s.carts.SetQuantity(ctx, sessionID, productID, quantity)
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) error {
	return s.carts.RemoveItem(ctx, sessionID, productID)
}

func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	return s.carts.ClearSession(ctx, sessionID)
}

// GetPricedCart loads the cart and applies product discounts per unit. When
// several discounts target one product the largest computed amount wins.
func (s *CartService) GetPricedCart(ctx context.Context, sessionID string) (*PricedCart, error) {
	items, err := s.carts.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	productIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}
	discounts, err := s.discounts.ListActiveForProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[uuid.UUID][]entity.Discount)
	for _, d := range discounts {
		byProduct[d.ProductID] = append(byProduct[d.ProductID], d)
	}

	now := s.clock.Now()
	cart := &PricedCart{SessionID: sessionID}
	for _, item := range items {
		unitPrice := item.Product.Price
		discount := bestDiscount(byProduct[item.ProductID], unitPrice, now)
		final := truncateMoney(unitPrice - discount)
		line := PricedLine{
			ProductID:      item.ProductID,
			Name:           item.Product.Name,
			UnitPrice:      unitPrice,
			DiscountAmount: discount,
			FinalUnitPrice: final,
			Quantity:       item.Quantity,
			LineTotal:      truncateMoney(final * float64(item.Quantity)),
		}
		cart.Lines = append(cart.Lines, line)
		cart.Subtotal = truncateMoney(cart.Subtotal + unitPrice*float64(item.Quantity))
		cart.DiscountTotal = truncateMoney(cart.DiscountTotal + discount*float64(item.Quantity))
		cart.ItemsTotal = truncateMoney(cart.ItemsTotal + line.LineTotal)
	}
	return cart, nil
}

func bestDiscount(discounts []entity.Discount, price float64, now time.Time) float64 {
	var best float64
	for _, d := range discounts {
		if amount := CalculateDiscount(d.Rule, price, now); amount > best {
			best = amount
		}
	}
	return best
}
