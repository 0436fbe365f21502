package service

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrUserNotFound           = errors.New("user not found")
	ErrMFARequired            = errors.New("mfa required")
	ErrInvalidMFACode         = errors.New("invalid mfa code")
	ErrMFANotConfigured       = errors.New("mfa not configured")

	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("cannot delete category with existing products")
	ErrProductNotFound  = errors.New("product not found")
	ErrDiscountNotFound = errors.New("discount not found")
	ErrCouponNotFound   = errors.New("coupon not found")

	ErrCartEmpty           = errors.New("cart is empty")
	ErrCartItemNotFound    = errors.New("cart item not found")
	ErrCouponNotApplicable = errors.New("coupon is not applicable to this order")
)
