package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/storefront/internal/middleware"
	"github.com/iliyamo/storefront/internal/request"
	"github.com/iliyamo/storefront/internal/service"
)

// CatalogHandler exposes product and category endpoints. Reads are public.
type CatalogHandler struct {
	Products   *service.ProductService
	Categories *service.CategoryService
}

func NewCatalogHandler(products *service.ProductService, categories *service.CategoryService) *CatalogHandler {
	if products == nil || categories == nil {
		panic("nil service passed to NewCatalogHandler")
	}
	return &CatalogHandler{Products: products, Categories: categories}
}

func (h *CatalogHandler) ListProducts(c echo.Context) error {
	ps, err := h.Products.List(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "Products fetched successfully.", ps)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	p, err := h.Products.Get(c.Request().Context(), pathID(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "Product fetched successfully.", p)
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req request.CreateProduct
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	p, err := h.Products.Create(c.Request().Context(), middleware.Token(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, "Product created successfully.", p)
}

func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	var req request.UpdateProduct
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	req.ID = pathID(c)
	p, err := h.Products.Update(c.Request().Context(), middleware.Token(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "Product updated successfully.", p)
}

func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	p, err := h.Products.Delete(c.Request().Context(), middleware.Token(c), pathID(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "Product deleted successfully.", p)
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	cs, err := h.Categories.List(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "Categories fetched successfully.", cs)
}

func (h *CatalogHandler) GetCategory(c echo.Context) error {
	cat, err := h.Categories.Get(c.Request().Context(), pathID(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "Category fetched successfully.", cat)
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req request.CreateCategory
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	cat, err := h.Categories.Create(c.Request().Context(), middleware.Token(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, "Category created successfully.", cat)
}

func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	var req request.UpdateCategory
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	req.ID = pathID(c)
	cat, err := h.Categories.Update(c.Request().Context(), middleware.Token(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "Category updated successfully.", cat)
}

func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	cat, err := h.Categories.Delete(c.Request().Context(), middleware.Token(c), pathID(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "Category deleted successfully.", cat)
}
