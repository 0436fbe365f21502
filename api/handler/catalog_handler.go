package handler

import (
	"errors"
	"net/http"

	"storefront/internal/dto"
	"storefront/internal/entity"
	"storefront/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	Service  *service.CatalogService
	Validate *validator.Validate
}

func NewCatalogHandler(svc *service.CatalogService, validate *validator.Validate) *CatalogHandler {
	return &CatalogHandler{Service: svc, Validate: validate}
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.Service.ListCategories(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.CategoryResponsesFromEntities(categories))
}

func (h *CatalogHandler) GetCategory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid category id"))
	}
	category, err := h.Service.GetCategory(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.CategoryResponseFromEntity(category))
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req dto.CategoryRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	category := &entity.Category{Name: req.Name, IsActive: boolValue(req.IsActive, true)}
	if err := h.Service.CreateCategory(c.Request().Context(), category); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.CategoryResponseFromEntity(category))
}

func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid category id"))
	}
	var req dto.CategoryRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	category := &entity.Category{ID: id, Name: req.Name, IsActive: boolValue(req.IsActive, true)}
	if err := h.Service.UpdateCategory(c.Request().Context(), category); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.CategoryResponseFromEntity(category))
}

func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid category id"))
	}
	if err := h.Service.DeleteCategory(c.Request().Context(), id); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) ListProducts(c echo.Context) error {
	var categoryID *uuid.UUID
	if raw := c.QueryParam("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return writeError(c, http.StatusBadRequest, errors.New("invalid category id"))
		}
		categoryID = &id
	}
	limit, offset := parseLimitOffset(c)
	views, err := h.Service.ListProducts(c.Request().Context(), categoryID, limit, offset)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ProductResponsesFromViews(views))
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid product id"))
	}
	view, err := h.Service.GetProduct(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ProductResponseFromView(view))
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	product, err := h.decodeProduct(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.CreateProduct(c.Request().Context(), product); err != nil {
		return writeServiceError(c, err)
	}
	view, err := h.Service.GetProduct(c.Request().Context(), product.ID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.ProductResponseFromView(view))
}

func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid product id"))
	}
	product, err := h.decodeProduct(c)
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	product.ID = id
	if err := h.Service.UpdateProduct(c.Request().Context(), product); err != nil {
		return writeServiceError(c, err)
	}
	view, err := h.Service.GetProduct(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ProductResponseFromView(view))
}

func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid product id"))
	}
	if err := h.Service.DeleteProduct(c.Request().Context(), id); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) decodeProduct(c echo.Context) (*entity.Product, error) {
	var req dto.ProductRequest
	if err := decodeJSON(c, &req); err != nil {
		return nil, err
	}
	if err := h.validate(req); err != nil {
		return nil, err
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, errors.New("invalid category id")
	}
	return &entity.Product{
		CategoryID:  categoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsActive:    boolValue(req.IsActive, true),
	}, nil
}

func (h *CatalogHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func boolValue(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
