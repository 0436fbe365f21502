package repository

import "errors"

var (
	// ErrCategoryInUse is returned when deleting a category that still has
	// products attached; callers surface it as a business-rule failure.
	ErrCategoryInUse = errors.New("category has existing products")
)
