package service

import (
	"context"
	"time"

	"storefront/internal/entity"

	"github.com/google/uuid"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type fakeSessionRepo struct {
	sessions map[string]*entity.Session
	err      error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*entity.Session)}
}

func (r *fakeSessionRepo) Upsert(_ context.Context, session *entity.Session) error {
	if r.err != nil {
		return r.err
	}
	if existing, ok := r.sessions[session.SessionID]; ok {
		existing.UserID = session.UserID
		existing.DeviceType = session.DeviceType
		existing.UserAgent = session.UserAgent
		existing.IPAddress = session.IPAddress
		existing.LastActivity = session.LastActivity
		return nil
	}
	copied := *session
	r.sessions[session.SessionID] = &copied
	return nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, sessionID string) (*entity.Session, error) {
	if r.err != nil {
		return nil, r.err
	}
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return session, nil
}

func (r *fakeSessionRepo) SetUser(_ context.Context, sessionID string, userID uuid.UUID, now time.Time) error {
	if r.err != nil {
		return r.err
	}
	if session, ok := r.sessions[sessionID]; ok {
		session.UserID = &userID
		session.LastActivity = now
	}
	return nil
}

func (r *fakeSessionRepo) ClearUser(_ context.Context, sessionID string, now time.Time) error {
	if r.err != nil {
		return r.err
	}
	if session, ok := r.sessions[sessionID]; ok {
		session.UserID = nil
		session.LastActivity = now
	}
	return nil
}

func (r *fakeSessionRepo) TouchAllForUser(_ context.Context, userID uuid.UUID, now time.Time) error {
	if r.err != nil {
		return r.err
	}
	for _, session := range r.sessions {
		if session.UserID != nil && *session.UserID == userID {
			session.LastActivity = now
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteGuestsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	var deleted int64
	for id, session := range r.sessions {
		if session.IsGuest() && session.LastActivity.Before(cutoff) {
			delete(r.sessions, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeTokenRepo struct {
	byUser map[uuid.UUID]*entity.AccessToken
	err    error
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{byUser: make(map[uuid.UUID]*entity.AccessToken)}
}

func (r *fakeTokenRepo) Upsert(_ context.Context, token *entity.AccessToken) error {
	if r.err != nil {
		return r.err
	}
	copied := *token
	r.byUser[token.UserID] = &copied
	return nil
}

func (r *fakeTokenRepo) FindBearer(_ context.Context, token string) (*entity.AccessToken, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, record := range r.byUser {
		if record.Kind == entity.TokenKindAdmin {
			continue
		}
		if record.Token == token {
			return record, nil
		}
	}
	return nil, nil
}

func (r *fakeTokenRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.AccessToken, error) {
	if r.err != nil {
		return nil, r.err
	}
	record, ok := r.byUser[userID]
	if !ok {
		return nil, nil
	}
	return record, nil
}

func (r *fakeTokenRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	if r.err != nil {
		return r.err
	}
	delete(r.byUser, userID)
	return nil
}

type fakeUserRepo struct {
	byID map[uuid.UUID]*entity.User
	err  error
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	repo := &fakeUserRepo{byID: make(map[uuid.UUID]*entity.User)}
	for _, user := range users {
		repo.byID[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if r.err != nil {
		return r.err
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	user, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, user := range r.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	if r.err != nil {
		return r.err
	}
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, _, _ int) ([]entity.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	users := make([]entity.User, 0, len(r.byID))
	for _, user := range r.byID {
		users = append(users, *user)
	}
	return users, nil
}

type fakeProductRepo struct {
	byID map[uuid.UUID]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	repo := &fakeProductRepo{byID: make(map[uuid.UUID]*entity.Product)}
	for _, product := range products {
		repo.byID[product.ID] = product
	}
	return repo
}

func (r *fakeProductRepo) Create(_ context.Context, product *entity.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.byID[product.ID] = product
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	product, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return product, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.byID[product.ID] = product
	return nil
}

func (r *fakeProductRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, categoryID *uuid.UUID, _, _ int) ([]entity.Product, error) {
	products := make([]entity.Product, 0, len(r.byID))
	for _, product := range r.byID {
		if categoryID != nil && product.CategoryID != *categoryID {
			continue
		}
		products = append(products, *product)
	}
	return products, nil
}

type fakeDiscountRepo struct {
	byID map[uuid.UUID]*entity.Discount
}

func newFakeDiscountRepo(discounts ...*entity.Discount) *fakeDiscountRepo {
	repo := &fakeDiscountRepo{byID: make(map[uuid.UUID]*entity.Discount)}
	for _, discount := range discounts {
		if discount.ID == uuid.Nil {
			discount.ID = uuid.New()
		}
		repo.byID[discount.ID] = discount
	}
	return repo
}

func (r *fakeDiscountRepo) Create(_ context.Context, discount *entity.Discount) error {
	if discount.ID == uuid.Nil {
		discount.ID = uuid.New()
	}
	r.byID[discount.ID] = discount
	return nil
}

func (r *fakeDiscountRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Discount, error) {
	discount, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return discount, nil
}

func (r *fakeDiscountRepo) Update(_ context.Context, discount *entity.Discount) error {
	r.byID[discount.ID] = discount
	return nil
}

func (r *fakeDiscountRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeDiscountRepo) List(_ context.Context) ([]entity.Discount, error) {
	discounts := make([]entity.Discount, 0, len(r.byID))
	for _, discount := range r.byID {
		discounts = append(discounts, *discount)
	}
	return discounts, nil
}

func (r *fakeDiscountRepo) ListActiveForProducts(_ context.Context, productIDs []uuid.UUID) ([]entity.Discount, error) {
	wanted := make(map[uuid.UUID]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}
	var discounts []entity.Discount
	for _, discount := range r.byID {
		if wanted[discount.ProductID] && discount.Rule.IsActive {
			discounts = append(discounts, *discount)
		}
	}
	return discounts, nil
}

func (r *fakeDiscountRepo) IncrementUsage(_ context.Context, id uuid.UUID) (bool, error) {
	discount, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	if discount.Rule.UsageLimit != nil && discount.Rule.UsageCount >= *discount.Rule.UsageLimit {
		return false, nil
	}
	discount.Rule.UsageCount++
	return true, nil
}

type fakeCouponRepo struct {
	byID map[uuid.UUID]*entity.CouponCode
}

func newFakeCouponRepo(coupons ...*entity.CouponCode) *fakeCouponRepo {
	repo := &fakeCouponRepo{byID: make(map[uuid.UUID]*entity.CouponCode)}
	for _, coupon := range coupons {
		if coupon.ID == uuid.Nil {
			coupon.ID = uuid.New()
		}
		repo.byID[coupon.ID] = coupon
	}
	return repo
}

func (r *fakeCouponRepo) Create(_ context.Context, coupon *entity.CouponCode) error {
	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}
	r.byID[coupon.ID] = coupon
	return nil
}

func (r *fakeCouponRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.CouponCode, error) {
	coupon, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return coupon, nil
}

func (r *fakeCouponRepo) FindByCode(_ context.Context, code string) (*entity.CouponCode, error) {
	for _, coupon := range r.byID {
		if coupon.Code == code {
			return coupon, nil
		}
	}
	return nil, nil
}

func (r *fakeCouponRepo) Update(_ context.Context, coupon *entity.CouponCode) error {
	r.byID[coupon.ID] = coupon
	return nil
}

func (r *fakeCouponRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeCouponRepo) List(_ context.Context) ([]entity.CouponCode, error) {
	coupons := make([]entity.CouponCode, 0, len(r.byID))
	for _, coupon := range r.byID {
		coupons = append(coupons, *coupon)
	}
	return coupons, nil
}

func (r *fakeCouponRepo) Redeem(_ context.Context, id uuid.UUID) (bool, error) {
	coupon, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	if coupon.Rule.UsageLimit != nil && coupon.Rule.UsageCount >= *coupon.Rule.UsageLimit {
		return false, nil
	}
	coupon.Rule.UsageCount++
	return true, nil
}

// fakeCartRepo mirrors the preload behavior of the real repository: listed
// items carry their Product.
type fakeCartRepo struct {
	items    map[string][]*entity.CartItem
	products *fakeProductRepo
}

func newFakeCartRepo(products *fakeProductRepo) *fakeCartRepo {
	return &fakeCartRepo{items: make(map[string][]*entity.CartItem), products: products}
}

func (r *fakeCartRepo) UpsertItem(_ context.Context, item *entity.CartItem) error {
	for _, existing := range r.items[item.SessionID] {
		if existing.ProductID == item.ProductID {
			existing.Quantity += item.Quantity
			return nil
		}
	}
	copied := *item
	r.items[item.SessionID] = append(r.items[item.SessionID], &copied)
	return nil
}

func (r *fakeCartRepo) SetQuantity(_ context.Context, sessionID string, productID uuid.UUID, quantity int) error {
	for _, existing := range r.items[sessionID] {
		if existing.ProductID == productID {
			existing.Quantity = quantity
			return nil
		}
	}
	return nil
}

func (r *fakeCartRepo) RemoveItem(_ context.Context, sessionID string, productID uuid.UUID) error {
	items := r.items[sessionID]
	for i, existing := range items {
		if existing.ProductID == productID {
			r.items[sessionID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeCartRepo) ListBySession(_ context.Context, sessionID string) ([]entity.CartItem, error) {
	items := make([]entity.CartItem, 0, len(r.items[sessionID]))
	for _, item := range r.items[sessionID] {
		copied := *item
		if r.products != nil {
			if product, ok := r.products.byID[item.ProductID]; ok {
				copied.Product = *product
			}
		}
		items = append(items, copied)
	}
	return items, nil
}

func (r *fakeCartRepo) ClearSession(_ context.Context, sessionID string) error {
	delete(r.items, sessionID)
	return nil
}

type fakeOrderRepo struct {
	orders []*entity.Order
}

func (r *fakeOrderRepo) Create(_ context.Context, order *entity.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	r.orders = append(r.orders, order)
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	for _, order := range r.orders {
		if order.ID == id {
			return order, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) ListBySession(_ context.Context, sessionID string) ([]entity.Order, error) {
	var orders []entity.Order
	for _, order := range r.orders {
		if order.SessionID == sessionID {
			orders = append(orders, *order)
		}
	}
	return orders, nil
}

type fakeAuditRepo struct {
	entries []*entity.AuditLog
}

func (r *fakeAuditRepo) Log(_ context.Context, log *entity.AuditLog) error {
	r.entries = append(r.entries, log)
	return nil
}
