package repository

import (
	"context"
	"database/sql"
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/iliyamo/storefront/internal/apperr"
	"github.com/iliyamo/storefront/internal/model"
)

// CategoryStore encapsulates all database queries related to categories.
type CategoryStore struct {
	db *sql.DB
}

var _ Store[model.Category, model.NewCategory, model.CategoryPatch] = (*CategoryStore)(nil)

func NewCategoryStore(db *sql.DB) *CategoryStore { return &CategoryStore{db: db} }

func categoryWriteErr(err error, op string) error {
	if isDuplicate(err) {
		return apperr.Wrap(apperr.Conflict, ErrNameExists, "Category name is already in use.")
	}
	return pkgerrors.Wrap(err, op)
}

// FindByID fetches a category by its ID.
func (s *CategoryStore) FindByID(ctx context.Context, id uint64) (*model.Category, error) {
	var c model.Category
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM categories WHERE id = ?", id).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "select category")
	}
	return &c, nil
}

// FindAll returns every category, newest first.
func (s *CategoryStore) FindAll(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM categories ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list categories")
	}
	defer rows.Close()
	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, pkgerrors.Wrap(err, "scan category")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "iterate categories")
	}
	return out, nil
}

// Insert creates a category.
func (s *CategoryStore) Insert(ctx context.Context, nc model.NewCategory) (*model.Category, error) {
	res, err := s.db.ExecContext(ctx, "INSERT INTO categories (name) VALUES (?)", nc.Name)
	if err != nil {
		return nil, categoryWriteErr(err, "insert category")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "category last insert id")
	}
	if id == 0 {
		return nil, nil
	}
	return s.FindByID(ctx, uint64(id))
}

// Update renames a category.
func (s *CategoryStore) Update(ctx context.Context, id uint64, p model.CategoryPatch) (*model.Category, error) {
	if p.Name == nil {
		return s.FindByID(ctx, id)
	}
	if _, err := s.db.ExecContext(ctx, "UPDATE categories SET name = ? WHERE id = ?", *p.Name, id); err != nil {
		return nil, categoryWriteErr(err, "update category")
	}
	return s.FindByID(ctx, id)
}

// Delete removes a category. Its products are removed by ON DELETE CASCADE;
// their ids are locked and collected first so callers can drop anything
// that mirrors them.
func (s *CategoryStore) Delete(ctx context.Context, id uint64) (out *model.Category, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "begin delete category")
	}
	defer func() {
		if err != nil || out == nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			out, err = nil, pkgerrors.Wrap(cerr, "commit delete category")
		}
	}()

	var c model.Category
	err = tx.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM categories WHERE id = ? FOR UPDATE", id).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "select category for delete")
	}
	if c.ProductIDs, err = categoryProductIDs(ctx, tx, id); err != nil {
		return nil, err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id); err != nil {
		return nil, pkgerrors.Wrap(err, "delete category")
	}
	return &c, nil
}

func categoryProductIDs(ctx context.Context, tx *sql.Tx, categoryID uint64) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx, "SELECT id FROM products WHERE category_id = ? FOR UPDATE", categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "select category products")
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, pkgerrors.Wrap(err, "scan category product")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "iterate category products")
	}
	return ids, nil
}
