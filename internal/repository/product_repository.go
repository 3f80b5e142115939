package repository

import (
	"context"
	"database/sql"
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/iliyamo/storefront/internal/apperr"
	"github.com/iliyamo/storefront/internal/model"
)

const productColumns = "id, name, description, price_cents, stock, category_id, created_at"

// ProductStore encapsulates all database queries related to products.
type ProductStore struct {
	db *sql.DB
}

var _ Store[model.Product, model.NewProduct, model.ProductPatch] = (*ProductStore)(nil)

func NewProductStore(db *sql.DB) *ProductStore { return &ProductStore{db: db} }

func scanProduct(row interface{ Scan(...any) error }, p *model.Product) error {
	var desc sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &desc, &p.PriceCents, &p.Stock, &p.CategoryID, &p.CreatedAt); err != nil {
		return err
	}
	p.Description = stringPtr(desc)
	return nil
}

func productWriteErr(err error, op string) error {
	if isMissingReference(err) {
		return apperr.Validation("Invalid product data.", []apperr.FieldError{
			{Field: "categoryId", Message: ErrUnknownCategory.Error()},
		})
	}
	return pkgerrors.Wrap(err, op)
}

// FindByID fetches a product by its ID.
func (s *ProductStore) FindByID(ctx context.Context, id uint64) (*model.Product, error) {
	var p model.Product
	err := scanProduct(s.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = ?", id), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "select product")
	}
	return &p, nil
}

// FindAll returns every product, newest first.
func (s *ProductStore) FindAll(ctx context.Context) ([]model.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list products")
	}
	defer rows.Close()
	var out []model.Product
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, pkgerrors.Wrap(err, "scan product")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "iterate products")
	}
	return out, nil
}

// Insert creates a product. A follow-up SELECT returns the stored row.
func (s *ProductStore) Insert(ctx context.Context, np model.NewProduct) (*model.Product, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO products (name, description, price_cents, stock, category_id) VALUES (?,?,?,?,?)",
		np.Name, nullString(np.Description), np.PriceCents, np.Stock, np.CategoryID)
	if err != nil {
		return nil, productWriteErr(err, "insert product")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "product last insert id")
	}
	if id == 0 {
		return nil, nil
	}
	return s.FindByID(ctx, uint64(id))
}

// Update writes the non-nil fields of the patch and returns the new row.
func (s *ProductStore) Update(ctx context.Context, id uint64, p model.ProductPatch) (*model.Product, error) {
	var set setClause
	if p.Name != nil {
		set.add("name", *p.Name)
	}
	if p.Description != nil {
		set.add("description", *p.Description)
	}
	if p.PriceCents != nil {
		set.add("price_cents", *p.PriceCents)
	}
	if p.Stock != nil {
		set.add("stock", *p.Stock)
	}
	if p.CategoryID != nil {
		set.add("category_id", *p.CategoryID)
	}
	if set.empty() {
		return s.FindByID(ctx, id)
	}
	if _, err := s.db.ExecContext(ctx,
		"UPDATE products SET "+set.sql()+" WHERE id = ?", append(set.args, id)...); err != nil {
		return nil, productWriteErr(err, "update product")
	}
	return s.FindByID(ctx, id)
}

// Delete removes a product and returns its last state. Order items that
// reference it are removed by the store's cascade.
func (s *ProductStore) Delete(ctx context.Context, id uint64) (out *model.Product, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "begin delete product")
	}
	defer func() {
		if err != nil || out == nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			out, err = nil, pkgerrors.Wrap(cerr, "commit delete product")
		}
	}()

	var p model.Product
	err = scanProduct(tx.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = ? FOR UPDATE", id), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "select product for delete")
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id); err != nil {
		return nil, pkgerrors.Wrap(err, "delete product")
	}
	return &p, nil
}
