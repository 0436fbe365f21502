package service

import (
	"context"
	"errors"

	"storefront/internal/entity"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

// ProductView is a product with display pricing attached: the original
// price, the discount currently in effect, and the resulting final price.
type ProductView struct {
	Product        entity.Product
	DiscountAmount float64
	FinalPrice     float64
}

type CatalogService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	discounts  repository.DiscountRepository
	clock      Clock
}

func NewCatalogService(
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	discounts repository.DiscountRepository,
	clock Clock,
) *CatalogService {
	if clock == nil {
		clock = RealClock{}
	}
	return &CatalogService{
		categories: categories,
		products:   products,
		discounts:  discounts,
		clock:      clock,
	}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return s.categories.List(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, category *entity.Category) error {
	return s.categories.Create(ctx, category)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, category *entity.Category) error {
	existing, err := s.categories.FindByID(ctx, category.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCategoryNotFound
	}
	return s.categories.Update(ctx, category)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	err := s.categories.DeleteByID(ctx, id)
	if errors.Is(err, repository.ErrCategoryInUse) {
		return ErrCategoryInUse
	}
	return err
}

func (s *CatalogService) ListProducts(ctx context.Context, categoryID *uuid.UUID, limit, offset int) ([]ProductView, error) {
	products, err := s.products.List(ctx, categoryID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.priceProducts(ctx, products)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	views, err := s.priceProducts(ctx, []entity.Product{*product})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, product *entity.Product) error {
	category, err := s.categories.FindByID(ctx, product.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	return s.products.Create(ctx, product)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, product *entity.Product) error {
	existing, err := s.products.FindByID(ctx, product.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrProductNotFound
	}
	return s.products.Update(ctx, product)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.products.DeleteByID(ctx, id)
}

func (s *CatalogService) priceProducts(ctx context.Context, products []entity.Product) ([]ProductView, error) {
	ids := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	discounts, err := s.discounts.ListActiveForProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[uuid.UUID][]entity.Discount)
	for _, d := range discounts {
		byProduct[d.ProductID] = append(byProduct[d.ProductID], d)
	}

	now := s.clock.Now()
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		amount := bestDiscount(byProduct[p.ID], p.Price, now)
		views = append(views, ProductView{
			Product:        p,
			DiscountAmount: amount,
			FinalPrice:     truncateMoney(p.Price - amount),
		})
	}
	return views, nil
}
