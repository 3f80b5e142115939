package service

import (
	"context"

	"github.com/iliyamo/storefront/internal/apperr"
	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/policy"
	"github.com/iliyamo/storefront/internal/queue"
	"github.com/iliyamo/storefront/internal/repository"
	"github.com/iliyamo/storefront/internal/request"
)

func invalidID(field, msg, label string) error {
	return apperr.Validation("Invalid "+label+" data.", []apperr.FieldError{{Field: field, Message: msg}})
}

// ProductService implements product operations. Reads are public, writes
// are admin only.
type ProductService struct {
	products *repository.ProductRepository
	policy   *policy.Policy
	notify   notifier
}

func NewProductService(products *repository.ProductRepository, pol *policy.Policy, events queue.Publisher) *ProductService {
	return &ProductService{products: products, policy: pol, notify: newNotifier(events)}
}

func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	return s.products.List(ctx)
}

func (s *ProductService) Get(ctx context.Context, id uint64) (*model.Product, error) {
	if id == 0 {
		return nil, invalidID("productId", "Invalid product ID", "product")
	}
	return s.products.Get(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, token string, req *request.CreateProduct) (*model.Product, error) {
	caller, err := s.policy.Authorize(ctx, policy.CreateProduct, token, 0)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p, err := s.products.Create(ctx, req.Model())
	if err != nil {
		return nil, err
	}
	s.notify.changed(ctx, "product", queue.ActionCreated, p.ID, caller)
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, token string, req *request.UpdateProduct) (*model.Product, error) {
	caller, err := s.policy.Authorize(ctx, policy.UpdateProduct, token, 0)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p, err := s.products.Update(ctx, req.ID, req.Patch())
	if err != nil {
		return nil, err
	}
	s.notify.changed(ctx, "product", queue.ActionUpdated, p.ID, caller)
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, token string, id uint64) (*model.Product, error) {
	caller, err := s.policy.Authorize(ctx, policy.DeleteProduct, token, 0)
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, invalidID("productId", "Invalid product ID", "product")
	}
	p, err := s.products.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify.changed(ctx, "product", queue.ActionDeleted, p.ID, caller)
	return p, nil
}

// CategoryService implements category operations. Deleting a category also
// removes its products.
type CategoryService struct {
	categories *repository.CategoryRepository
	policy     *policy.Policy
	notify     notifier
}

func NewCategoryService(categories *repository.CategoryRepository, pol *policy.Policy, events queue.Publisher) *CategoryService {
	return &CategoryService{categories: categories, policy: pol, notify: newNotifier(events)}
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id uint64) (*model.Category, error) {
	if id == 0 {
		return nil, invalidID("categoryId", "Invalid category ID", "category")
	}
	return s.categories.Get(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, token string, req *request.CreateCategory) (*model.Category, error) {
	caller, err := s.policy.Authorize(ctx, policy.CreateCategory, token, 0)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	c, err := s.categories.Create(ctx, model.NewCategory{Name: req.Name})
	if err != nil {
		return nil, err
	}
	s.notify.changed(ctx, "category", queue.ActionCreated, c.ID, caller)
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, token string, req *request.UpdateCategory) (*model.Category, error) {
	caller, err := s.policy.Authorize(ctx, policy.UpdateCategory, token, 0)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	c, err := s.categories.Update(ctx, req.ID, model.CategoryPatch{Name: req.Name})
	if err != nil {
		return nil, err
	}
	s.notify.changed(ctx, "category", queue.ActionUpdated, c.ID, caller)
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, token string, id uint64) (*model.Category, error) {
	caller, err := s.policy.Authorize(ctx, policy.DeleteCategory, token, 0)
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, invalidID("categoryId", "Invalid category ID", "category")
	}
	c, err := s.categories.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify.changed(ctx, "category", queue.ActionDeleted, c.ID, caller)
	return c, nil
}
