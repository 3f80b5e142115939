package repofake

import (
	"context"
	"time"

	"github.com/iliyamo/storefront/internal/apperr"
	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/repository"
)

// CategoryStore is an in-memory categories table.
type CategoryStore struct {
	*table[model.Category]
	products *ProductStore
}

var _ repository.Store[model.Category, model.NewCategory, model.CategoryPatch] = (*CategoryStore)(nil)

func NewCategoryStore() *CategoryStore { return &CategoryStore{table: newTable[model.Category]()} }

func (s *CategoryStore) nameTaken(name string, except uint64) bool {
	for id, c := range s.rows {
		if id != except && c.Name == name {
			return true
		}
	}
	return false
}

func nameConflict() error {
	return apperr.Wrap(apperr.Conflict, repository.ErrNameExists, "Category name is already in use.")
}

func (s *CategoryStore) exists(id uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rows[id]
	return ok
}

func (s *CategoryStore) FindByID(_ context.Context, id uint64) (*model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("FindByID")
	c, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *CategoryStore) FindAll(_ context.Context) ([]model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("FindAll")
	return s.sorted(func(c model.Category) time.Time { return c.CreatedAt }, func(c model.Category) uint64 { return c.ID }), nil
}

func (s *CategoryStore) Insert(_ context.Context, nc model.NewCategory) (*model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("Insert")
	if s.nameTaken(nc.Name, 0) {
		return nil, nameConflict()
	}
	c := model.Category{ID: s.allocID(), Name: nc.Name, CreatedAt: s.tick()}
	s.rows[c.ID] = c
	return &c, nil
}

func (s *CategoryStore) Update(_ context.Context, id uint64, p model.CategoryPatch) (*model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("Update")
	c, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	if p.Name != nil {
		if s.nameTaken(*p.Name, id) {
			return nil, nameConflict()
		}
		c.Name = *p.Name
	}
	s.rows[id] = c
	return &c, nil
}

// Delete removes the category and, like the store's ON DELETE CASCADE, the
// products that reference it.
func (s *CategoryStore) Delete(_ context.Context, id uint64) (*model.Category, error) {
	s.mu.Lock()
	s.count("Delete")
	c, ok := s.rows[id]
	if ok {
		delete(s.rows, id)
	}
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	if s.products != nil {
		c.ProductIDs = s.products.deleteByCategory(id)
	}
	return &c, nil
}

// ProductStore is an in-memory products table. When linked to a
// CategoryStore it enforces the category foreign key.
type ProductStore struct {
	*table[model.Product]
	categories *CategoryStore
}

var _ repository.Store[model.Product, model.NewProduct, model.ProductPatch] = (*ProductStore)(nil)

func NewProductStore() *ProductStore { return &ProductStore{table: newTable[model.Product]()} }

// Link connects products to categories for FK checks and cascades.
func Link(p *ProductStore, c *CategoryStore) {
	p.categories = c
	c.products = p
}

func (s *ProductStore) checkCategory(id uint64) error {
	if s.categories == nil || s.categories.exists(id) {
		return nil
	}
	return apperr.Validation("Invalid product data.", []apperr.FieldError{
		{Field: "categoryId", Message: repository.ErrUnknownCategory.Error()},
	})
}

func (s *ProductStore) deleteByCategory(categoryID uint64) []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uint64
	for id, p := range s.rows {
		if p.CategoryID == categoryID {
			delete(s.rows, id)
			ids = append(ids, id)
		}
	}
	return ids
}

func (s *ProductStore) FindByID(_ context.Context, id uint64) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("FindByID")
	p, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *ProductStore) FindAll(_ context.Context) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("FindAll")
	return s.sorted(func(p model.Product) time.Time { return p.CreatedAt }, func(p model.Product) uint64 { return p.ID }), nil
}

func (s *ProductStore) Insert(_ context.Context, np model.NewProduct) (*model.Product, error) {
	if err := s.checkCategory(np.CategoryID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("Insert")
	p := model.Product{
		ID:          s.allocID(),
		Name:        np.Name,
		Description: np.Description,
		PriceCents:  np.PriceCents,
		Stock:       np.Stock,
		CategoryID:  np.CategoryID,
		CreatedAt:   s.tick(),
	}
	s.rows[p.ID] = p
	return &p, nil
}

func (s *ProductStore) Update(_ context.Context, id uint64, patch model.ProductPatch) (*model.Product, error) {
	if patch.CategoryID != nil {
		if err := s.checkCategory(*patch.CategoryID); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("Update")
	p, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		d := *patch.Description
		p.Description = &d
	}
	if patch.PriceCents != nil {
		p.PriceCents = *patch.PriceCents
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.CategoryID != nil {
		p.CategoryID = *patch.CategoryID
	}
	s.rows[id] = p
	return &p, nil
}

func (s *ProductStore) Delete(_ context.Context, id uint64) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count("Delete")
	p, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	delete(s.rows, id)
	return &p, nil
}
