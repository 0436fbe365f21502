package repository

import (
	"context"

	"storefront/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	UpsertItem(ctx context.Context, item *entity.CartItem) error
	SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) error
	ListBySession(ctx context.Context, sessionID string) ([]entity.CartItem, error)
	ClearSession(ctx context.Context, sessionID string) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// UpsertItem adds the quantity to an existing line for the same product, or
// creates the line. Keyed by (session_id, product_id).
func (r *cartRepository) UpsertItem(ctx context.Context, item *entity.CartItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + ?", item.Quantity),
				"updated_at": item.UpdatedAt,
			}),
		}).
		Create(item).Error
}

func (r *cartRepository) SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&entity.CartItem{}).
		Where("session_id = ? AND product_id = ?", sessionID, productID).
		Update("quantity", quantity).
		Error
}

func (r *cartRepository) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("session_id = ? AND product_id = ?", sessionID, productID).
		Delete(&entity.CartItem{}).
		Error
}

func (r *cartRepository) ListBySession(ctx context.Context, sessionID string) ([]entity.CartItem, error) {
	var items []entity.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *cartRepository) ClearSession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&entity.CartItem{}).
		Error
}
